package dict

import (
	"fmt"
	"math/rand"
	"testing"
)

// test record embedding the intrusive node
type pair struct {
	node Node
	key  string
	val  int
}

func newPair(key string, val int) *pair {
	p := &pair{key: key, val: val}
	p.node.HCode = Hash([]byte(key))
	p.node.Rec = p
	return p
}

type probe struct {
	node Node
	key  string
}

func newProbe(key string) *probe {
	k := &probe{key: key}
	k.node.HCode = Hash([]byte(key))
	k.node.Rec = k
	return k
}

func pairEq(node, key *Node) bool {
	return node.Rec.(*pair).key == key.Rec.(*probe).key
}

func lookupPair(m *HashMap, key string) *pair {
	found := m.Lookup(&newProbe(key).node, pairEq)
	if found == nil {
		return nil
	}
	return found.Rec.(*pair)
}

func TestInsertLookupRemove(t *testing.T) {
	var m HashMap

	if got := lookupPair(&m, "missing"); got != nil {
		t.Fatalf("lookup on empty map returned %v", got)
	}

	m.Insert(&newPair("a", 1).node)
	m.Insert(&newPair("b", 2).node)
	if m.Len() != 2 {
		t.Fatalf("size = %d, want 2", m.Len())
	}

	if p := lookupPair(&m, "a"); p == nil || p.val != 1 {
		t.Fatalf("lookup(a) = %v", p)
	}
	if p := lookupPair(&m, "b"); p == nil || p.val != 2 {
		t.Fatalf("lookup(b) = %v", p)
	}

	removed := m.Remove(&newProbe("a").node, pairEq)
	if removed == nil || removed.Rec.(*pair).key != "a" {
		t.Fatalf("remove(a) = %v", removed)
	}
	if m.Len() != 1 {
		t.Fatalf("size after remove = %d, want 1", m.Len())
	}
	if lookupPair(&m, "a") != nil {
		t.Fatal("removed key still findable")
	}
	if m.Remove(&newProbe("a").node, pairEq) != nil {
		t.Fatal("double remove returned a node")
	}
}

// every previously inserted key must stay findable while rehashing is in
// progress
func TestLookupDuringMigration(t *testing.T) {
	var m HashMap
	const n = 10000
	for i := 0; i < n; i++ {
		m.Insert(&newPair(fmt.Sprintf("key%d", i), i).node)
		if m.Len() != i+1 {
			t.Fatalf("size = %d after %d inserts", m.Len(), i+1)
		}
		// probe an early key on every step, crossing several migrations
		if p := lookupPair(&m, "key0"); p == nil || p.val != 0 {
			t.Fatalf("key0 lost after %d inserts", i+1)
		}
	}
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key%d", i)
		if p := lookupPair(&m, key); p == nil || p.val != i {
			t.Fatalf("lookup(%s) = %v", key, p)
		}
	}
}

func TestForeach(t *testing.T) {
	var m HashMap
	const n = 100
	for i := 0; i < n; i++ {
		m.Insert(&newPair(fmt.Sprintf("key%d", i), i).node)
	}
	seen := make(map[string]bool)
	m.Foreach(func(node *Node) bool {
		seen[node.Rec.(*pair).key] = true
		return true
	})
	if len(seen) != n {
		t.Fatalf("foreach visited %d nodes, want %d", len(seen), n)
	}

	count := 0
	m.Foreach(func(node *Node) bool {
		count++
		return count < 10
	})
	if count != 10 {
		t.Fatalf("foreach ignored early stop, visited %d", count)
	}
}

func TestClear(t *testing.T) {
	var m HashMap
	for i := 0; i < 100; i++ {
		m.Insert(&newPair(fmt.Sprintf("key%d", i), i).node)
	}
	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("size after clear = %d", m.Len())
	}
	if lookupPair(&m, "key0") != nil {
		t.Fatal("cleared map still finds keys")
	}
}

// insert a large key set, delete a random half, then verify the size and
// that every survivor is still findable
func TestMigrationStress(t *testing.T) {
	var m HashMap
	const n = 200000
	for i := 0; i < n; i++ {
		m.Insert(&newPair(fmt.Sprintf("key%d", i), i).node)
	}

	rnd := rand.New(rand.NewSource(1))
	deleted := make(map[int]bool)
	for len(deleted) < n/2 {
		i := rnd.Intn(n)
		if deleted[i] {
			continue
		}
		if m.Remove(&newProbe(fmt.Sprintf("key%d", i)).node, pairEq) == nil {
			t.Fatalf("key%d missing before delete", i)
		}
		deleted[i] = true
	}
	if m.Len() != n/2 {
		t.Fatalf("size = %d, want %d", m.Len(), n/2)
	}

	for i := 0; i < n; i++ {
		p := lookupPair(&m, fmt.Sprintf("key%d", i))
		if deleted[i] && p != nil {
			t.Fatalf("deleted key%d still findable", i)
		}
		if !deleted[i] && (p == nil || p.val != i) {
			t.Fatalf("surviving key%d lost", i)
		}
	}
}
