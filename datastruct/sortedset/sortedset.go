// Package sortedset implements a collection of (name, score) pairs indexed
// two ways at once: a hashtable keyed by name for point queries and an AVL
// tree keyed by (score, name) for range and rank queries. Every ZNode is a
// member of both indexes.
package sortedset

import (
	"bytes"

	"github.com/DrStiev/MyRedis/datastruct/avl"
	"github.com/DrStiev/MyRedis/datastruct/dict"
)

// ZSet is a sorted set. The zero value is an empty set ready for use.
type ZSet struct {
	root *avl.Node // index by (score, name)
	hmap dict.HashMap
}

// ZNode is a member of a sorted set
type ZNode struct {
	tree  avl.Node
	hnode dict.Node
	Score float64
	Name  []byte
}

func newZNode(name []byte, score float64) *ZNode {
	node := &ZNode{
		Score: score,
		Name:  append([]byte(nil), name...),
	}
	node.tree.Init()
	node.tree.Rec = node
	node.hnode.HCode = dict.Hash(name)
	node.hnode.Rec = node
	return node
}

// hashtable key for lookups without allocating a ZNode
type hashKey struct {
	node dict.Node
	name []byte
}

func hashEq(node, key *dict.Node) bool {
	znode := node.Rec.(*ZNode)
	hkey := key.Rec.(*hashKey)
	return bytes.Equal(znode.Name, hkey.name)
}

// Len returns the number of members
func (zs *ZSet) Len() int {
	return zs.hmap.Len()
}

// Lookup finds the member called name, or nil
func (zs *ZSet) Lookup(name []byte) *ZNode {
	if zs.root == nil {
		return nil
	}
	key := &hashKey{name: name}
	key.node.HCode = dict.Hash(name)
	key.node.Rec = key
	found := zs.hmap.Lookup(&key.node, hashEq)
	if found == nil {
		return nil
	}
	return found.Rec.(*ZNode)
}

// (node.score, node.name) < (score, name)
func zless(lhs *avl.Node, score float64, name []byte) bool {
	zl := lhs.Rec.(*ZNode)
	if zl.Score != score {
		return zl.Score < score
	}
	return bytes.Compare(zl.Name, name) < 0
}

func (zs *ZSet) treeInsert(node *ZNode) {
	var parent *avl.Node // insert under this node
	from := &zs.root     // the incoming pointer to the next node
	for *from != nil {   // tree search
		parent = *from
		if zless(&node.tree, parent.Rec.(*ZNode).Score, parent.Rec.(*ZNode).Name) {
			from = &parent.Left
		} else {
			from = &parent.Right
		}
	}
	*from = &node.tree // attach the new node
	node.tree.Parent = parent
	zs.root = avl.Fix(&node.tree)
}

// detaching and re-inserting the tree node fixes the order after the score
// changes; the name index is untouched
func (zs *ZSet) update(node *ZNode, score float64) {
	zs.root = avl.Delete(&node.tree)
	node.tree.Init()
	node.tree.Rec = node
	node.Score = score
	zs.treeInsert(node)
}

// Insert adds the pair (name, score), or updates the score of an existing
// member. It reports whether a new member was added.
func (zs *ZSet) Insert(name []byte, score float64) bool {
	if node := zs.Lookup(name); node != nil {
		zs.update(node, score)
		return false
	}
	node := newZNode(name, score)
	zs.hmap.Insert(&node.hnode)
	zs.treeInsert(node)
	return true
}

// Remove detaches node from both indexes
func (zs *ZSet) Remove(node *ZNode) {
	key := &hashKey{name: node.Name}
	key.node.HCode = node.hnode.HCode
	key.node.Rec = key
	zs.hmap.Remove(&key.node, hashEq)
	zs.root = avl.Delete(&node.tree)
}

// SeekGE returns the least member whose (score, name) is >= the given pair,
// or nil. A seek is just a tree search.
func (zs *ZSet) SeekGE(score float64, name []byte) *ZNode {
	var found *avl.Node
	for node := zs.root; node != nil; {
		if zless(node, score, name) {
			node = node.Right // node < key
		} else {
			found = node // candidate
			node = node.Left
		}
	}
	if found == nil {
		return nil
	}
	return found.Rec.(*ZNode)
}

// Offset walks off positions from node in rank order, nil when out of range
func Offset(node *ZNode, off int64) *ZNode {
	if node == nil {
		return nil
	}
	tnode := avl.Offset(&node.tree, off)
	if tnode == nil {
		return nil
	}
	return tnode.Rec.(*ZNode)
}

// Clear unlinks every member and empties both indexes
func (zs *ZSet) Clear() {
	zs.hmap.Clear()
	dispose(zs.root)
	zs.root = nil
}

func dispose(node *avl.Node) {
	if node == nil {
		return
	}
	dispose(node.Left)
	dispose(node.Right)
	node.Init()
	node.Rec = nil
}
