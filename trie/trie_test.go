package trie

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestSharedPrefix(t *testing.T) {
	b := NewBuilder()
	for reading, index := range map[string]int{"あい": 1, "あいさつ": 2, "あお": 3} {
		if err := b.Insert(reading, index); err != nil {
			t.Fatal(err)
		}
	}
	// root, あ, い, お, さ, つ
	if b.Len() != 6 {
		t.Fatalf("expected 6 nodes, have %d", b.Len())
	}
	l := b.Freeze()
	if l.Len() != 7 {
		t.Fatalf("expected 7 ids, have %d", l.Len())
	}
	root := l.Nodes[RootID]
	if root.Children != 1 || root.FirstChild != FirstNodeID {
		t.Fatalf("root should have exactly one child at id 2: %+v", root)
	}
	if l.Nodes[2].Label != "あ" || l.Nodes[2].Children != 2 {
		t.Fatalf("unexpected node 2: %+v", l.Nodes[2])
	}
	// level order, siblings sorted: い < お
	labels := []string{"", "", "あ", "い", "お", "さ", "つ"}
	for id, want := range labels {
		if l.Nodes[id].Label != want {
			t.Fatalf("label of %d: got %q, want %q", id, l.Nodes[id].Label, want)
		}
	}
	tests := []struct {
		reading string
		id      int
		entries []int
	}{
		{"あ", 2, []int{}},
		{"あい", 3, []int{1}},
		{"あお", 4, []int{3}},
		{"あいさつ", 6, []int{2}},
	}
	for _, tt := range tests {
		id, ok := l.Lookup(tt.reading)
		if !ok || id != tt.id {
			t.Fatalf("lookup %q: got (%d,%v), want %d", tt.reading, id, ok, tt.id)
		}
		if len(l.Nodes[id].Entries) != len(tt.entries) ||
			(len(tt.entries) > 0 && !reflect.DeepEqual(l.Nodes[id].Entries, tt.entries)) {
			t.Fatalf("entries of %q: got %v, want %v", tt.reading, l.Nodes[id].Entries, tt.entries)
		}
		if got := l.Reading(id); got != tt.reading {
			t.Fatalf("reading of %d: got %q, want %q", id, got, tt.reading)
		}
	}
	if _, ok := l.Lookup("あう"); ok {
		t.Fatalf("unexpected hit for missing reading")
	}
}

func TestSameReadingAccumulates(t *testing.T) {
	b := NewBuilder()
	for _, index := range []int{9, 3, 5, 3} {
		if err := b.Insert("かな", index); err != nil {
			t.Fatal(err)
		}
	}
	l := b.Freeze()
	id, _ := l.Lookup("かな")
	if !reflect.DeepEqual(l.Nodes[id].Entries, []int{3, 5, 9}) {
		t.Fatalf("expected sorted, de-duplicated indices, got %v", l.Nodes[id].Entries)
	}
}

func TestInsertErrors(t *testing.T) {
	b := NewBuilder()
	if err := b.Insert("", 0); !errors.Is(err, ErrEmptyReading) {
		t.Fatalf("expected ErrEmptyReading, got %v", err)
	}
	b.Freeze()
	if err := b.Insert("あ", 0); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
}

func TestInsertionOrderIndependence(t *testing.T) {
	readings := []string{"か", "かき", "かく", "き", "きく", "く", "くき", "かきく", "けこ"}
	build := func(order []int) *Layout {
		b := NewBuilder()
		for _, i := range order {
			if err := b.Insert(readings[i], i); err != nil {
				t.Fatal(err)
			}
		}
		return b.Freeze()
	}
	order := make([]int, len(readings))
	for i := range order {
		order[i] = i
	}
	want := build(order)
	rnd := rand.New(rand.NewSource(7))
	for range 5 {
		rnd.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		if got := build(order); !reflect.DeepEqual(got, want) {
			t.Fatalf("layout depends on insertion order %v", order)
		}
	}
}

func TestIdsAreLevelOrder(t *testing.T) {
	b := NewBuilder()
	for i, r := range []string{"あいう", "え", "あお", "かき"} {
		if err := b.Insert(r, i); err != nil {
			t.Fatal(err)
		}
	}
	l := b.Freeze()
	depth := func(id int) int {
		d := 0
		for ; id > RootID; id = l.Nodes[id].Parent {
			d++
		}
		return d
	}
	for id := FirstNodeID + 1; id < l.Len(); id++ {
		if depth(id) < depth(id-1) {
			t.Fatalf("id %d is on a shallower level than id %d", id, id-1)
		}
		if l.Nodes[id].Parent < l.Nodes[id-1].Parent {
			t.Fatalf("parents not monotonic at id %d", id)
		}
	}
}
