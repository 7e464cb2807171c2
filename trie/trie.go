/*
Package trie builds the reading trie of a dictionary.

Nodes are kept in an arena and refer to their children by arena index, so the
builder owns every node and no node references its parent. After all readings
have been inserted, Freeze numbers the nodes in level order and returns an
immutable Layout. Ids 0 and 1 are reserved: 0 is the virtual super-root of the
LOUDS encoding and 1 is the trie root. Real nodes are numbered from 2 on, level
by level, siblings in ascending order of their edge label.
*/
package trie

import (
	"errors"
	"slices"
	"strings"

	"fortio.org/sets"
	"github.com/npillmayer/loudsdict/alphabet"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'loudsdict.trie'
func tracer() tracing.Trace {
	return tracing.Select("loudsdict.trie")
}

// Reserved node ids.
const (
	SuperRootID = 0
	RootID      = 1
	FirstNodeID = 2
)

var (
	ErrEmptyReading = errors.New("empty reading cannot be inserted")
	ErrFrozen       = errors.New("trie is frozen")
)

type buildNode struct {
	children map[string]int32 // label -> arena index
	entries  sets.Set[int]
}

// Builder collects readings. Inserts must not be called concurrently.
type Builder struct {
	nodes  []buildNode // nodes[0] is the root
	frozen bool
}

func NewBuilder() *Builder {
	return &Builder{
		nodes: []buildNode{{}},
	}
}

// Insert adds entry index to the node reached by reading, creating nodes as
// needed. Inserting the same reading again accumulates indices.
func (b *Builder) Insert(reading string, index int) error {
	if b.frozen {
		return ErrFrozen
	}
	if reading == "" {
		return ErrEmptyReading
	}
	n := int32(0)
	for _, ch := range alphabet.Split(reading) {
		child, ok := b.nodes[n].children[ch]
		if !ok {
			child = int32(len(b.nodes))
			b.nodes = append(b.nodes, buildNode{})
			if b.nodes[n].children == nil {
				b.nodes[n].children = make(map[string]int32)
			}
			b.nodes[n].children[ch] = child
		}
		n = child
	}
	if b.nodes[n].entries == nil {
		b.nodes[n].entries = sets.New[int]()
	}
	b.nodes[n].entries.Add(index)
	return nil
}

// Len returns the number of trie nodes, the root included.
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Node is a frozen trie node.
type Node struct {
	Label      string // incoming edge label, "" for the sentinels
	Parent     int    // id of the parent; the root's parent is the super-root
	FirstChild int    // id of the first child, 0 if there are none
	Children   int    // number of children
	Entries    []int  // sorted entry indices terminating here
}

// Layout is a level-order numbering of a frozen trie.
type Layout struct {
	Nodes []Node // indexed by node id
}

// Freeze assigns level-order ids and releases the builder's nodes.
// Children are visited in ascending label order, so the layout depends only
// on the set of inserted (reading, index) pairs.
func (b *Builder) Freeze() *Layout {
	layout := &Layout{Nodes: make([]Node, len(b.nodes)+1)}
	layout.Nodes[SuperRootID] = Node{FirstChild: RootID, Children: 1}
	layout.Nodes[RootID] = Node{Parent: SuperRootID}
	queue := make([]int32, 1, len(b.nodes))
	for q := 0; q < len(queue); q++ {
		n := &b.nodes[queue[q]]
		id := q + RootID
		out := &layout.Nodes[id]
		if len(n.entries) > 0 {
			out.Entries = sets.Sort(n.entries)
		}
		if len(n.children) == 0 {
			continue
		}
		out.Children = len(n.children)
		out.FirstChild = len(queue) + RootID
		for _, label := range sortedLabels(n.children) {
			queue = append(queue, n.children[label])
			layout.Nodes[len(queue)-1+RootID] = Node{Label: label, Parent: id}
		}
	}
	assert(len(queue) == len(b.nodes), "trie: unreachable nodes in arena")
	tracer().Infof("trie frozen with %d nodes", len(b.nodes))
	b.nodes = nil
	b.frozen = true
	return layout
}

func sortedLabels(children map[string]int32) []string {
	labels := make([]string, 0, len(children))
	for label := range children {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// Len returns the number of ids, sentinels included.
func (l *Layout) Len() int {
	return len(l.Nodes)
}

// Lookup returns the id of the node reached by reading.
func (l *Layout) Lookup(reading string) (int, bool) {
	id := RootID
	for _, ch := range alphabet.Split(reading) {
		n := l.Nodes[id]
		children := l.Nodes[n.FirstChild : n.FirstChild+n.Children]
		i, found := slices.BinarySearchFunc(children, ch, func(c Node, label string) int {
			switch {
			case c.Label < label:
				return -1
			case c.Label > label:
				return 1
			}
			return 0
		})
		if !found {
			return 0, false
		}
		id = n.FirstChild + i
	}
	return id, true
}

// Reading returns the reading spelled by the path from the root to id.
func (l *Layout) Reading(id int) string {
	var labels []string
	for ; id > RootID; id = l.Nodes[id].Parent {
		labels = append(labels, l.Nodes[id].Label)
	}
	slices.Reverse(labels)
	return strings.Join(labels, "")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
