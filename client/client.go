// Package client implements a blocking client for the binary protocol. It
// is used by the command-line shell, the bench tool and the end-to-end
// tests; the server side never imports it.
package client

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/DrStiev/MyRedis/interface/resp"
	"github.com/DrStiev/MyRedis/lib/sync/wait"
	"github.com/DrStiev/MyRedis/resp/parser"
)

// Client is one connection to a server. It is not safe for concurrent use;
// pool several clients instead.
type Client struct {
	conn    net.Conn
	addr    string
	working wait.Wait // pending request, wait before close
}

// MakeClient dials the server
func MakeClient(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		addr: addr,
	}, nil
}

// Close waits for the in-flight request then disconnects
func (c *Client) Close() error {
	c.working.Wait()
	return c.conn.Close()
}

// Send issues one request and blocks for its reply
func (c *Client) Send(args [][]byte) (resp.Reply, error) {
	c.working.Add(1)
	defer c.working.Done()

	if _, err := c.conn.Write(parser.SerializeRequest(args)); err != nil {
		return nil, err
	}
	return c.readReply()
}

func (c *Client) readReply() (resp.Reply, error) {
	var header [4]byte
	if _, err := io.ReadFull(c.conn, header[:]); err != nil {
		return nil, err
	}
	bodyLen := binary.LittleEndian.Uint32(header[:])
	if bodyLen > parser.MaxMsg {
		return nil, fmt.Errorf("response too long: %d", bodyLen)
	}
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		return nil, err
	}
	return parser.ParseReply(body)
}
