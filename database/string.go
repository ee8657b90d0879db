package database

import (
	"github.com/DrStiev/MyRedis/interface/resp"
	"github.com/DrStiev/MyRedis/resp/reply"
)

// execGet reads a string entry. Missing keys reply NIL.
func execGet(db *DB, args [][]byte) resp.Reply {
	ent := db.lookupEntry(args[0])
	if ent == nil {
		return reply.MakeNilReply()
	}
	if ent.kind != typeStr {
		return reply.MakeErrReply(reply.ErrBadType, "not a string value")
	}
	return reply.MakeStrReply(ent.str)
}

// execSet creates or overwrites a string entry. Success always replies NIL.
func execSet(db *DB, args [][]byte) resp.Reply {
	key, val := args[0], args[1]
	ent := db.lookupEntry(key)
	if ent != nil {
		if ent.kind != typeStr {
			return reply.MakeErrReply(reply.ErrBadType, "a non-string value exists")
		}
		ent.str = val
		return reply.MakeNilReply()
	}
	db.insertEntry(&entry{
		key:  key,
		kind: typeStr,
		str:  val,
	})
	return reply.MakeNilReply()
}

func init() {
	RegisterCommand("get", execGet, 2)
	RegisterCommand("set", execSet, 3)
}
