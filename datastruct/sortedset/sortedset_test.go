package sortedset

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
)

func TestInsertLookup(t *testing.T) {
	var zs ZSet

	if !zs.Insert([]byte("a"), 1.5) {
		t.Fatal("first insert reported update")
	}
	if zs.Insert([]byte("a"), 2.5) {
		t.Fatal("second insert of same name reported added")
	}
	if zs.Len() != 1 {
		t.Fatalf("len = %d, want 1", zs.Len())
	}

	node := zs.Lookup([]byte("a"))
	if node == nil || node.Score != 2.5 {
		t.Fatalf("lookup(a) = %v", node)
	}
	if zs.Lookup([]byte("missing")) != nil {
		t.Fatal("lookup of missing name succeeded")
	}
}

func TestRemove(t *testing.T) {
	var zs ZSet
	zs.Insert([]byte("a"), 1)
	zs.Insert([]byte("b"), 2)

	zs.Remove(zs.Lookup([]byte("a")))
	if zs.Len() != 1 {
		t.Fatalf("len = %d, want 1", zs.Len())
	}
	if zs.Lookup([]byte("a")) != nil {
		t.Fatal("removed member still findable by name")
	}
	if zs.SeekGE(0, nil) == nil || string(zs.SeekGE(0, nil).Name) != "b" {
		t.Fatal("removed member still findable by rank")
	}
}

func TestSeekGE(t *testing.T) {
	var zs ZSet
	zs.Insert([]byte("a"), 1)
	zs.Insert([]byte("b"), 2)
	zs.Insert([]byte("c"), 2)
	zs.Insert([]byte("d"), 3)

	cases := []struct {
		score float64
		name  string
		want  string
	}{
		{0, "", "a"},
		{1, "", "a"},
		{1, "a", "a"},
		{1, "aa", "b"},
		{2, "b", "b"},
		{2, "bb", "c"},
		{2, "cc", "d"},
		{3, "d", "d"},
		{3, "dd", ""},
		{4, "", ""},
	}
	for _, c := range cases {
		node := zs.SeekGE(c.score, []byte(c.name))
		got := ""
		if node != nil {
			got = string(node.Name)
		}
		if got != c.want {
			t.Errorf("seekGE(%g, %q) = %q, want %q", c.score, c.name, got, c.want)
		}
	}
}

// iterating from the minimum must yield members in strictly increasing
// (score, name) order, and the tree and hash views must agree
func TestIterationOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	var zs ZSet
	const n = 1000
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("member%04d", rnd.Intn(n))
		zs.Insert([]byte(name), float64(rnd.Intn(10)))
	}

	count := 0
	var prev *ZNode
	for node := zs.SeekGE(negInf(), nil); node != nil; node = Offset(node, +1) {
		if prev != nil {
			if prev.Score > node.Score ||
				(prev.Score == node.Score && string(prev.Name) >= string(node.Name)) {
				t.Fatalf("order violation: (%g,%s) before (%g,%s)",
					prev.Score, prev.Name, node.Score, node.Name)
			}
		}
		// the hash index must resolve the same node
		if zs.Lookup(node.Name) != node {
			t.Fatalf("hash and tree disagree on %s", node.Name)
		}
		prev = node
		count++
	}
	if count != zs.Len() {
		t.Fatalf("iterated %d members, len is %d", count, zs.Len())
	}
}

func negInf() float64 {
	return math.Inf(-1)
}

func TestUpdateKeepsSize(t *testing.T) {
	var zs ZSet
	for i := 0; i < 100; i++ {
		zs.Insert([]byte(fmt.Sprintf("m%d", i)), float64(i))
	}
	size := zs.Len()
	for i := 0; i < 100; i++ {
		if zs.Insert([]byte(fmt.Sprintf("m%d", i)), float64(100-i)) {
			t.Fatal("update reported added")
		}
	}
	if zs.Len() != size {
		t.Fatalf("len changed by updates: %d -> %d", size, zs.Len())
	}
	node := zs.Lookup([]byte("m99"))
	if node == nil || node.Score != 1 {
		t.Fatalf("m99 score = %v", node)
	}
}

func TestClear(t *testing.T) {
	var zs ZSet
	for i := 0; i < 100; i++ {
		zs.Insert([]byte(fmt.Sprintf("m%d", i)), float64(i))
	}
	zs.Clear()
	if zs.Len() != 0 {
		t.Fatalf("len after clear = %d", zs.Len())
	}
	if zs.Lookup([]byte("m0")) != nil {
		t.Fatal("cleared set still finds members")
	}
	if !zs.Insert([]byte("m0"), 1) {
		t.Fatal("insert after clear reported update")
	}
}
