package parser

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/DrStiev/MyRedis/interface/resp"
	"github.com/DrStiev/MyRedis/lib/utils"
	"github.com/DrStiev/MyRedis/resp/reply"
)

func TestRequestRoundTrip(t *testing.T) {
	cases := [][][]byte{
		utils.ToCmdLine("get", "key"),
		utils.ToCmdLine("set", "key", "value"),
		utils.ToCmdLine("zquery", "s", "0", "", "0", "10"),
		utils.ToCmdLine(""),
		{},
		{[]byte{0x00, 0xff, 0x0d, 0x0a}}, // binary safe
	}
	for _, cmd := range cases {
		frame := SerializeRequest(cmd)
		bodyLen := binary.LittleEndian.Uint32(frame)
		if int(bodyLen) != len(frame)-4 {
			t.Fatalf("frame header %d, body %d", bodyLen, len(frame)-4)
		}
		parsed, err := ParseRequest(frame[4:])
		if err != nil {
			t.Fatalf("parse(serialize(%q)): %v", cmd, err)
		}
		if len(parsed) != len(cmd) {
			t.Fatalf("parsed %d strings, want %d", len(parsed), len(cmd))
		}
		for i := range cmd {
			if !bytes.Equal(parsed[i], cmd[i]) {
				t.Fatalf("string %d: %q != %q", i, parsed[i], cmd[i])
			}
		}
	}
}

// every single-byte truncation of a valid body must be rejected
func TestRequestTruncation(t *testing.T) {
	frame := SerializeRequest(utils.ToCmdLine("set", "key", "value"))
	body := frame[4:]
	for n := 0; n < len(body); n++ {
		if _, err := ParseRequest(body[:n]); err == nil {
			t.Fatalf("truncation to %d bytes accepted", n)
		}
	}
}

func TestRequestTrailingGarbage(t *testing.T) {
	frame := SerializeRequest(utils.ToCmdLine("get", "key"))
	body := append(frame[4:], 0x00)
	if _, err := ParseRequest(body); err == nil {
		t.Fatal("trailing byte accepted")
	}
}

func TestRequestTooManyArgs(t *testing.T) {
	var body []byte
	body = binary.LittleEndian.AppendUint32(body, MaxArgs+1)
	if _, err := ParseRequest(body); err == nil {
		t.Fatal("oversized nstr accepted")
	}
}

func TestRequestBadStringLength(t *testing.T) {
	var body []byte
	body = binary.LittleEndian.AppendUint32(body, 1)          // nstr
	body = binary.LittleEndian.AppendUint32(body, 0xffffffff) // bogus len
	if _, err := ParseRequest(body); err == nil {
		t.Fatal("out-of-bounds string length accepted")
	}
}

func TestReplyRoundTrip(t *testing.T) {
	cases := []resp.Reply{
		reply.MakeNilReply(),
		reply.MakeStrReply([]byte("hello")),
		reply.MakeStrReply(nil),
		reply.MakeIntReply(-42),
		reply.MakeDblReply(1.5),
		reply.MakeErrReply(reply.ErrBadType, "expect zset"),
		reply.MakeMultiReply([]resp.Reply{
			reply.MakeStrReply([]byte("a")),
			reply.MakeDblReply(1),
			reply.MakeMultiReply([]resp.Reply{ // nested array
				reply.MakeIntReply(7),
			}),
		}),
	}
	for _, want := range cases {
		got, err := ParseReply(want.ToBytes())
		if err != nil {
			t.Fatalf("parse(%x): %v", want.ToBytes(), err)
		}
		if !bytes.Equal(got.ToBytes(), want.ToBytes()) {
			t.Fatalf("round trip mismatch: %x != %x", got.ToBytes(), want.ToBytes())
		}
	}
}

func TestReplyTruncation(t *testing.T) {
	body := reply.MakeMultiReply([]resp.Reply{
		reply.MakeStrReply([]byte("a")),
		reply.MakeDblReply(1),
	}).ToBytes()
	for n := 0; n < len(body); n++ {
		if _, err := ParseReply(body[:n]); err == nil {
			t.Fatalf("truncation to %d bytes accepted", n)
		}
	}
}

func TestReplyBadTag(t *testing.T) {
	if _, err := ParseReply([]byte{0x66}); err == nil {
		t.Fatal("unknown tag accepted")
	}
}
