package louds

import (
	"math/bits"
	"sort"

	"github.com/npillmayer/loudsdict/alphabet"
	"github.com/npillmayer/loudsdict/trie"
	"github.com/openacid/low/bitmap"
)

// Reader navigates a packed LOUDS bit-vector and its label array without
// reconstructing the tree. It mirrors what a lookup engine does with the
// emitted files and is used to verify them.
type Reader struct {
	words   []uint64 // LSB-first, as expected by package bitmap
	nbits   int
	labels  []byte
	selects []int32
	ranks   []int32
}

// NewReader wraps packed (MSB-first) words and the parallel label array.
// The label array determines the number of nodes; trailing padding bits are
// never interpreted as children.
func NewReader(packed []uint64, labels []byte) *Reader {
	r := &Reader{
		words:  make([]uint64, len(packed)),
		nbits:  len(packed) * 64,
		labels: labels,
	}
	for i, w := range packed {
		r.words[i] = bits.Reverse64(w)
	}
	r.selects, r.ranks = bitmap.IndexSelect32R64(r.words)
	return r
}

// Len returns the number of node ids, sentinels included.
func (r *Reader) Len() int {
	return len(r.labels)
}

// Label returns the alphabet code of node id.
func (r *Reader) Label(id int) byte {
	return r.labels[id]
}

// onesBefore counts the one-bits in [0, i).
func (r *Reader) onesBefore(i int) int {
	if i >= r.nbits {
		last, bit := bitmap.Rank64(r.words, r.ranks, int32(r.nbits-1))
		return int(last + bit)
	}
	ones, _ := bitmap.Rank64(r.words, r.ranks, int32(i))
	return int(ones)
}

// selectOne returns the position of the i-th one-bit, 0-based.
func (r *Reader) selectOne(i int) int {
	pos, _ := bitmap.Select32R64(r.words, r.selects, r.ranks, int32(i))
	return int(pos)
}

// selectZero returns the position of the i-th zero-bit, 0-based, or -1.
func (r *Reader) selectZero(i int) int {
	pos := sort.Search(r.nbits, func(p int) bool {
		return (p+1)-r.onesBefore(p+1) > i
	})
	if pos == r.nbits {
		return -1
	}
	return pos
}

func (r *Reader) bit(i int) bool {
	return r.words[i>>6]&(1<<uint(i&63)) != 0
}

// Children returns the ids of the children of node id in label order.
func (r *Reader) Children(id int) []int {
	if id == trie.SuperRootID {
		return []int{trie.RootID}
	}
	// the degree run of node id follows its id-th zero
	start := r.selectZero(id - 1)
	if start < 0 {
		return nil
	}
	var children []int
	for p := start + 1; p < r.nbits && r.bit(p); p++ {
		child := r.onesBefore(p + 1) // node ids are the ordinals of one-bits
		if child >= len(r.labels) {
			break // padding
		}
		children = append(children, child)
	}
	return children
}

// Parent returns the id of the parent of node id.
func (r *Reader) Parent(id int) int {
	pos := r.selectOne(id - 1)
	return pos - r.onesBefore(pos)
}

// Walk follows the codes of reading from the root and returns the id reached.
func (r *Reader) Walk(a *alphabet.Alphabet, reading string) (int, bool) {
	id := trie.RootID
	for _, ch := range alphabet.Split(reading) {
		code, ok := a.Code(ch)
		if !ok {
			return 0, false
		}
		next := 0
		for _, c := range r.Children(id) {
			if r.labels[c] == code {
				next = c
				break
			}
		}
		if next == 0 {
			return 0, false
		}
		id = next
	}
	return id, true
}

// Readings reconstructs the reading of every node reachable from the root,
// mapping codes back to characters through a.
func (r *Reader) Readings(a *alphabet.Alphabet) map[string]int {
	readings := map[string]int{"": trie.RootID}
	prefix := map[int]string{trie.RootID: ""}
	queue := []int{trie.RootID}
	for q := 0; q < len(queue); q++ {
		id := queue[q]
		for _, c := range r.Children(id) {
			s := prefix[id] + a.Char(r.labels[c])
			prefix[c] = s
			readings[s] = c
			queue = append(queue, c)
		}
	}
	return readings
}
