package reply

import (
	"encoding/binary"
	"math"

	"github.com/DrStiev/MyRedis/interface/resp"
)

// Every response value is serialized with a one-byte type tag followed by
// the payload. All integers are little-endian; doubles are IEEE 754 bits.
const (
	TagNil byte = 0
	TagErr byte = 1
	TagStr byte = 2
	TagInt byte = 3
	TagDbl byte = 4
	TagArr byte = 5
)

// NilReply is the absence of a value
type NilReply struct{}

var theNilReply = &NilReply{}

// MakeNilReply returns a nil reply
func MakeNilReply() *NilReply {
	return theNilReply
}

// ToBytes serializes the reply
func (r *NilReply) ToBytes() []byte {
	return []byte{TagNil}
}

// StrReply replies a byte string
type StrReply struct {
	Arg []byte
}

// MakeStrReply creates a StrReply
func MakeStrReply(arg []byte) *StrReply {
	return &StrReply{Arg: arg}
}

// ToBytes serializes the reply
func (r *StrReply) ToBytes() []byte {
	buf := make([]byte, 0, 5+len(r.Arg))
	buf = append(buf, TagStr)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(r.Arg)))
	return append(buf, r.Arg...)
}

// IntReply replies a signed 64-bit integer
type IntReply struct {
	Code int64
}

// MakeIntReply creates an IntReply
func MakeIntReply(code int64) *IntReply {
	return &IntReply{Code: code}
}

// ToBytes serializes the reply
func (r *IntReply) ToBytes() []byte {
	buf := make([]byte, 0, 9)
	buf = append(buf, TagInt)
	return binary.LittleEndian.AppendUint64(buf, uint64(r.Code))
}

// DblReply replies a float64
type DblReply struct {
	Val float64
}

// MakeDblReply creates a DblReply
func MakeDblReply(val float64) *DblReply {
	return &DblReply{Val: val}
}

// ToBytes serializes the reply
func (r *DblReply) ToBytes() []byte {
	buf := make([]byte, 0, 9)
	buf = append(buf, TagDbl)
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.Val))
}

// MultiReply replies an array of nested replies. The count on the wire is
// the number of direct children, so a (name, score) pair contributes 2.
type MultiReply struct {
	Args []resp.Reply
}

// MakeMultiReply creates a MultiReply
func MakeMultiReply(args []resp.Reply) *MultiReply {
	return &MultiReply{Args: args}
}

// ToBytes serializes the reply
func (r *MultiReply) ToBytes() []byte {
	buf := make([]byte, 0, 5)
	buf = append(buf, TagArr)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(r.Args)))
	for _, arg := range r.Args {
		buf = append(buf, arg.ToBytes()...)
	}
	return buf
}

// EmptyMultiReply is an empty array
type EmptyMultiReply struct{}

// MakeEmptyMultiReply creates an EmptyMultiReply
func MakeEmptyMultiReply() *EmptyMultiReply {
	return &EmptyMultiReply{}
}

// ToBytes serializes the reply
func (r *EmptyMultiReply) ToBytes() []byte {
	return []byte{TagArr, 0, 0, 0, 0}
}
