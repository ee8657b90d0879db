package database

import (
	"github.com/DrStiev/MyRedis/datastruct/dict"
	"github.com/DrStiev/MyRedis/interface/resp"
	"github.com/DrStiev/MyRedis/resp/reply"
)

// sorted sets at least this large are torn down off the event-loop thread
const largeContainerSize = 1000

// execDel removes an entry of any type
func execDel(db *DB, args [][]byte) resp.Reply {
	ent := db.removeEntry(args[0])
	if ent == nil {
		return reply.MakeIntReply(0)
	}
	if ent.kind == typeZSet && ent.zset.Len() >= largeContainerSize {
		zset := ent.zset
		db.workers.Queue(func() {
			zset.Clear()
		})
	}
	return reply.MakeIntReply(1)
}

// execKeys enumerates every key in the keyspace
func execKeys(db *DB, args [][]byte) resp.Reply {
	keys := make([]resp.Reply, 0, db.data.Len())
	db.data.Foreach(func(node *dict.Node) bool {
		keys = append(keys, reply.MakeStrReply(node.Rec.(*entry).key))
		return true
	})
	return reply.MakeMultiReply(keys)
}

func init() {
	RegisterCommand("del", execDel, 2)
	RegisterCommand("keys", execKeys, 1)
}
