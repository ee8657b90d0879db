package database

import (
	"bytes"
	"fmt"
	"runtime/debug"

	"github.com/DrStiev/MyRedis/config"
	"github.com/DrStiev/MyRedis/datastruct/dict"
	"github.com/DrStiev/MyRedis/datastruct/sortedset"
	"github.com/DrStiev/MyRedis/interface/resp"
	"github.com/DrStiev/MyRedis/lib/logger"
	"github.com/DrStiev/MyRedis/lib/pool"
	"github.com/DrStiev/MyRedis/resp/reply"
)

// value types of an entry
const (
	typeStr uint32 = iota
	typeZSet
)

// entry is one keyspace record: an intrusive hash node plus the key and the
// typed payload
type entry struct {
	node dict.Node
	key  []byte
	kind uint32
	str  []byte
	zset *sortedset.ZSet
}

// lookupKey is a dummy record used to query the keyspace without allocating
// an entry
type lookupKey struct {
	node dict.Node
	key  []byte
}

// equality comparison for the keyspace hashtable
func entryEq(node, key *dict.Node) bool {
	ent := node.Rec.(*entry)
	keydata := key.Rec.(*lookupKey)
	return bytes.Equal(ent.key, keydata.key)
}

// ExecFunc is the signature of a command handler. args does not include the
// command name.
type ExecFunc func(db *DB, args [][]byte) resp.Reply

// DB owns the global keyspace. The event loop is the only caller, so no
// lock guards the data.
type DB struct {
	data    dict.HashMap
	workers *pool.Pool
}

// NewStandaloneDatabase creates an empty keyspace with its background
// worker pool
func NewStandaloneDatabase() *DB {
	return &DB{
		workers: pool.New(config.Properties.Workers),
	}
}

// Exec dispatches one command line
func (db *DB) Exec(cmdLine [][]byte) (result resp.Reply) {
	defer func() {
		if err := recover(); err != nil {
			logger.Warn(fmt.Sprintf("error occurs: %v\n%s", err, string(debug.Stack())))
			result = reply.MakeUnknownErrReply()
		}
	}()

	if len(cmdLine) == 0 {
		return reply.MakeUnknownErrReply()
	}
	cmd, ok := cmdTable[string(cmdLine[0])]
	if !ok || !validateArity(cmd.arity, cmdLine) {
		return reply.MakeUnknownErrReply()
	}
	return cmd.executor(db, cmdLine[1:])
}

func validateArity(arity int, cmdArgs [][]byte) bool {
	argNum := len(cmdArgs)
	if arity >= 0 {
		return argNum == arity
	}
	return argNum >= -arity
}

// Close stops the background workers
func (db *DB) Close() {
	db.workers.Close()
}

func (db *DB) lookupEntry(key []byte) *entry {
	lk := &lookupKey{key: key}
	lk.node.HCode = dict.Hash(key)
	lk.node.Rec = lk
	found := db.data.Lookup(&lk.node, entryEq)
	if found == nil {
		return nil
	}
	return found.Rec.(*entry)
}

func (db *DB) insertEntry(ent *entry) {
	ent.node.HCode = dict.Hash(ent.key)
	ent.node.Rec = ent
	db.data.Insert(&ent.node)
}

func (db *DB) removeEntry(key []byte) *entry {
	lk := &lookupKey{key: key}
	lk.node.HCode = dict.Hash(key)
	lk.node.Rec = lk
	found := db.data.Remove(&lk.node, entryEq)
	if found == nil {
		return nil
	}
	return found.Rec.(*entry)
}
