/*
Package louds encodes a frozen reading trie as a LOUDS bit-vector.

LOUDS (level-order unary degree sequence) describes a tree's shape by the
degrees of its nodes in level order: a node with k children is written as k
ones followed by a zero. The sequence starts with "10" for a virtual
super-root whose only child is the trie root. Node ids coincide with the
ordinal of the one-bit standing for the node, so navigation needs nothing
but rank and select on the bit-vector:

	readings: あい, あいさつ, あお
	bits:     10    10    110   10    0     10    0
	node:     sup   root  あ    い    お    さ    つ

Edge labels are kept in a parallel byte array indexed by node id.
*/
package louds

import (
	"github.com/npillmayer/loudsdict/alphabet"
	"github.com/npillmayer/loudsdict/trie"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'loudsdict.louds'
func tracer() tracing.Trace {
	return tracing.Select("loudsdict.louds")
}

// SentinelBits is the number of leading bits describing the super-root.
const SentinelBits = 2

// Encode returns the LOUDS bit-vector of a layout.
func Encode(l *trie.Layout) *BitVector {
	v := &BitVector{}
	v.Append(true) // super-root
	v.Append(false)
	for id := trie.RootID; id < l.Len(); id++ {
		v.AppendUnary(l.Nodes[id].Children)
	}
	tracer().Debugf("LOUDS bit-vector with %d bits for %d nodes", v.Len(), l.Len()-trie.RootID)
	return v
}

// Labels returns the label array of a layout: one alphabet code per node id,
// 0 for the sentinel slots and for labels missing from the alphabet. The
// number of labels that had to fall back to 0 is returned as well.
func Labels(l *trie.Layout, a *alphabet.Alphabet) ([]byte, int) {
	labels := make([]byte, l.Len())
	unmapped := 0
	for id := trie.FirstNodeID; id < l.Len(); id++ {
		code, ok := a.Code(l.Nodes[id].Label)
		if !ok {
			unmapped++
		}
		labels[id] = code
	}
	if unmapped > 0 {
		tracer().Infof("%d node labels not contained in alphabet, mapped to 0", unmapped)
	}
	return labels, unmapped
}
