package database

import (
	"github.com/DrStiev/MyRedis/interface/resp"
)

// CmdLine is alias for [][]byte, represents a command line
type CmdLine = [][]byte

// Database is the interface for the storage engine behind the event loop
type Database interface {
	Exec(args [][]byte) resp.Reply
	Close()
}
