// Package parser implements the length-prefixed binary request format and
// the tagged response format.
//
// A request body is a list of strings, serialized with the same
// length-prefixed scheme as the outer message framing:
//
//	+------+-----+------+-----+------+-----+-----+------+
//	| nstr | len | str1 | len | str2 | ... | len | strn |
//	+------+-----+------+-----+------+-----+-----+------+
//	   4B     4B    ...    4B   ...
package parser

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/DrStiev/MyRedis/interface/resp"
	"github.com/DrStiev/MyRedis/resp/reply"
)

const (
	// MaxMsg bounds the body of a single request or response
	MaxMsg = 32 << 20
	// MaxArgs bounds the number of strings in a request
	MaxArgs = 1 << 20
)

// ErrProtocol reports a malformed message. The connection that produced it
// must be dropped without a reply.
var ErrProtocol = errors.New("protocol error")

// cursor walks a byte slice without going out of bounds
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) readU32() (uint32, bool) {
	if c.pos+4 > len(c.data) {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, true
}

// readStr reads n bytes and advances the cursor by n
func (c *cursor) readStr(n int) ([]byte, bool) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, false
	}
	s := c.data[c.pos : c.pos+n]
	c.pos += n
	return s, true
}

// ParseRequest extracts the command line from one request body. The body
// must contain exactly nstr strings with no trailing bytes.
func ParseRequest(body []byte) ([][]byte, error) {
	cur := cursor{data: body}
	nstr, ok := cur.readU32()
	if !ok {
		return nil, ErrProtocol
	}
	if nstr > MaxArgs {
		return nil, ErrProtocol // safety limit
	}

	out := make([][]byte, 0, nstr)
	for uint32(len(out)) < nstr {
		strlen, ok := cur.readU32()
		if !ok {
			return nil, ErrProtocol
		}
		s, ok := cur.readStr(int(strlen))
		if !ok {
			return nil, ErrProtocol
		}
		out = append(out, append([]byte(nil), s...))
	}

	if cur.pos != len(body) {
		return nil, ErrProtocol // trailing garbage
	}
	return out, nil
}

// SerializeRequest frames a command line into one complete request,
// including the outer length header.
func SerializeRequest(args [][]byte) []byte {
	bodyLen := 4
	for _, arg := range args {
		bodyLen += 4 + len(arg)
	}
	buf := make([]byte, 0, 4+bodyLen)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(bodyLen))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(args)))
	for _, arg := range args {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(arg)))
		buf = append(buf, arg...)
	}
	return buf
}

// ParseReply decodes one tagged value from a response body. Used by the
// client side; the server only serializes.
func ParseReply(body []byte) (resp.Reply, error) {
	cur := cursor{data: body}
	r, err := parseValue(&cur)
	if err != nil {
		return nil, err
	}
	if cur.pos != len(body) {
		return nil, ErrProtocol
	}
	return r, nil
}

func parseValue(cur *cursor) (resp.Reply, error) {
	tag, ok := cur.readStr(1)
	if !ok {
		return nil, ErrProtocol
	}
	switch tag[0] {
	case reply.TagNil:
		return reply.MakeNilReply(), nil
	case reply.TagErr:
		code, ok := cur.readU32()
		if !ok {
			return nil, ErrProtocol
		}
		msgLen, ok := cur.readU32()
		if !ok {
			return nil, ErrProtocol
		}
		msg, ok := cur.readStr(int(msgLen))
		if !ok {
			return nil, ErrProtocol
		}
		return reply.MakeErrReply(code, string(msg)), nil
	case reply.TagStr:
		strLen, ok := cur.readU32()
		if !ok {
			return nil, ErrProtocol
		}
		s, ok := cur.readStr(int(strLen))
		if !ok {
			return nil, ErrProtocol
		}
		return reply.MakeStrReply(append([]byte(nil), s...)), nil
	case reply.TagInt:
		b, ok := cur.readStr(8)
		if !ok {
			return nil, ErrProtocol
		}
		return reply.MakeIntReply(int64(binary.LittleEndian.Uint64(b))), nil
	case reply.TagDbl:
		b, ok := cur.readStr(8)
		if !ok {
			return nil, ErrProtocol
		}
		return reply.MakeDblReply(math.Float64frombits(binary.LittleEndian.Uint64(b))), nil
	case reply.TagArr:
		n, ok := cur.readU32()
		if !ok {
			return nil, ErrProtocol
		}
		if int(n) > len(cur.data)-cur.pos { // every child takes at least 1 byte
			return nil, ErrProtocol
		}
		args := make([]resp.Reply, 0, n)
		for i := uint32(0); i < n; i++ {
			child, err := parseValue(cur)
			if err != nil {
				return nil, err
			}
			args = append(args, child)
		}
		return reply.MakeMultiReply(args), nil
	default:
		return nil, ErrProtocol
	}
}
