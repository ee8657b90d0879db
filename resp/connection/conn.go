package connection

import (
	"github.com/DrStiev/MyRedis/datastruct/buffer"
	"github.com/DrStiev/MyRedis/interface/resp"
	"github.com/DrStiev/MyRedis/resp/parser"
	"github.com/DrStiev/MyRedis/resp/reply"
)

// Connection is the per-client state of the event loop: the socket, both
// stream buffers and the readiness intentions the next poll round uses.
type Connection struct {
	Fd int

	Incoming buffer.Buffer // data to be parsed by the application
	Outgoing buffer.Buffer // responses generated by the application

	WantRead  bool
	WantWrite bool
	WantClose bool

	remoteAddr string
}

// NewConn wraps a freshly accepted socket. It starts out waiting for the
// first request.
func NewConn(fd int, remoteAddr string) *Connection {
	return &Connection{
		Fd:         fd,
		WantRead:   true,
		remoteAddr: remoteAddr,
	}
}

// RemoteAddr returns the remote network address
func (c *Connection) RemoteAddr() string {
	return c.remoteAddr
}

// PushReply frames one response into the outgoing buffer. A body larger
// than the message limit is replaced with an ERR so the frame stays valid.
func (c *Connection) PushReply(r resp.Reply) {
	body := r.ToBytes()
	if len(body) > parser.MaxMsg {
		body = reply.MakeErrReply(reply.ErrTooBig, "response is too big").ToBytes()
	}
	c.Outgoing.AppendU32(uint32(len(body)))
	c.Outgoing.Append(body)
}
