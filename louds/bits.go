package louds

// BitVector is an append-only bit sequence packed into 64-bit words,
// most significant bit first.
type BitVector struct {
	words []uint64
	n     int
}

// Append adds one bit.
func (v *BitVector) Append(bit bool) {
	if v.n&63 == 0 {
		v.words = append(v.words, 0)
	}
	if bit {
		v.words[v.n>>6] |= 1 << (63 - uint(v.n&63))
	}
	v.n++
}

// AppendUnary adds k ones followed by a single zero.
func (v *BitVector) AppendUnary(k int) {
	for range k {
		v.Append(true)
	}
	v.Append(false)
}

// Len returns the number of bits appended.
func (v *BitVector) Len() int {
	return v.n
}

// Get returns bit i.
func (v *BitVector) Get(i int) bool {
	return v.words[i>>6]&(1<<(63-uint(i&63))) != 0
}

// Zeros counts the zero bits in [from, Len()).
func (v *BitVector) Zeros(from int) int {
	zeros := 0
	for i := from; i < v.n; i++ {
		if !v.Get(i) {
			zeros++
		}
	}
	return zeros
}

// Words returns the packed words. Bits of the last word beyond Len() are
// set to 1: a reader must never mistake padding for node terminators.
func (v *BitVector) Words() []uint64 {
	words := make([]uint64, len(v.words))
	copy(words, v.words)
	if rem := v.n & 63; rem != 0 {
		words[len(words)-1] |= (1 << (64 - uint(rem))) - 1
	}
	return words
}
