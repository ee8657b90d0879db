package database

import (
	"math"
	"strconv"

	"github.com/DrStiev/MyRedis/datastruct/sortedset"
	"github.com/DrStiev/MyRedis/interface/resp"
	"github.com/DrStiev/MyRedis/resp/reply"
)

// a non-existent key reads as an empty sorted set, never written to
var emptyZSet = &sortedset.ZSet{}

func str2dbl(b []byte) (float64, bool) {
	v, err := strconv.ParseFloat(string(b), 64)
	return v, err == nil && !math.IsNaN(v)
}

func str2int(b []byte) (int64, bool) {
	v, err := strconv.ParseInt(string(b), 10, 64)
	return v, err == nil
}

// expectZSet resolves a key for the read-only z-commands
func expectZSet(db *DB, key []byte) (*sortedset.ZSet, resp.Reply) {
	ent := db.lookupEntry(key)
	if ent == nil {
		return emptyZSet, nil
	}
	if ent.kind != typeZSet {
		return nil, reply.MakeErrReply(reply.ErrBadType, "expect zset")
	}
	return ent.zset, nil
}

// execZAdd inserts or updates one (name, score) pair, creating the key if
// it is absent
func execZAdd(db *DB, args [][]byte) resp.Reply {
	score, ok := str2dbl(args[1])
	if !ok {
		return reply.MakeErrReply(reply.ErrBadArg, "expect float")
	}

	key := args[0]
	ent := db.lookupEntry(key)
	if ent == nil {
		ent = &entry{
			key:  key,
			kind: typeZSet,
			zset: &sortedset.ZSet{},
		}
		db.insertEntry(ent)
	} else if ent.kind != typeZSet {
		return reply.MakeErrReply(reply.ErrBadType, "expect zset")
	}

	added := ent.zset.Insert(args[2], score)
	if added {
		return reply.MakeIntReply(1)
	}
	return reply.MakeIntReply(0)
}

// execZRem removes one member
func execZRem(db *DB, args [][]byte) resp.Reply {
	zset, errReply := expectZSet(db, args[0])
	if errReply != nil {
		return errReply
	}
	node := zset.Lookup(args[1])
	if node == nil {
		return reply.MakeIntReply(0)
	}
	zset.Remove(node)
	return reply.MakeIntReply(1)
}

// execZScore reads the score of one member
func execZScore(db *DB, args [][]byte) resp.Reply {
	zset, errReply := expectZSet(db, args[0])
	if errReply != nil {
		return errReply
	}
	node := zset.Lookup(args[1])
	if node == nil {
		return reply.MakeNilReply()
	}
	return reply.MakeDblReply(node.Score)
}

// execZQuery seeks the least (score, name) >= the given pair, skips offset
// members and returns up to limit (name, score) pairs. The array count on
// the wire is the total number of values, so every pair contributes 2.
func execZQuery(db *DB, args [][]byte) resp.Reply {
	score, ok := str2dbl(args[1])
	if !ok {
		return reply.MakeErrReply(reply.ErrBadArg, "expect floating point number")
	}
	name := args[2]
	offset, ok := str2int(args[3])
	if !ok {
		return reply.MakeErrReply(reply.ErrBadArg, "expect int")
	}
	limit, ok := str2int(args[4])
	if !ok {
		return reply.MakeErrReply(reply.ErrBadArg, "expect int")
	}

	zset, errReply := expectZSet(db, args[0])
	if errReply != nil {
		return errReply
	}

	if limit <= 0 {
		return reply.MakeEmptyMultiReply()
	}
	node := zset.SeekGE(score, name)
	node = sortedset.Offset(node, offset)

	vals := make([]resp.Reply, 0)
	for n := int64(0); node != nil && n < limit; n++ {
		vals = append(vals, reply.MakeStrReply(node.Name), reply.MakeDblReply(node.Score))
		node = sortedset.Offset(node, +1)
	}
	return reply.MakeMultiReply(vals)
}

func init() {
	RegisterCommand("zadd", execZAdd, 4)
	RegisterCommand("zrem", execZRem, 3)
	RegisterCommand("zscore", execZScore, 3)
	RegisterCommand("zquery", execZQuery, 6)
}
