package louds

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/loudsdict/alphabet"
	"github.com/npillmayer/loudsdict/trie"
)

func bitString(v *BitVector) string {
	var b strings.Builder
	for i := range v.Len() {
		if v.Get(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func build(t *testing.T, readings ...string) *trie.Layout {
	t.Helper()
	b := trie.NewBuilder()
	for i, r := range readings {
		if err := b.Insert(r, i); err != nil {
			t.Fatal(err)
		}
	}
	return b.Freeze()
}

func TestEncodeExample(t *testing.T) {
	l := build(t, "あい", "あいさつ", "あお")
	v := Encode(l)
	if got, want := bitString(v), "10"+"10"+"110"+"10"+"0"+"10"+"0"; got != want {
		t.Fatalf("bits mismatch: got %s, want %s", got, want)
	}
	// the root's own emission: exactly one child
	if bitString(v)[SentinelBits:SentinelBits+2] != "10" {
		t.Fatalf("root must have exactly one child")
	}
}

func TestNodeCountInvariant(t *testing.T) {
	l := build(t, "か", "かき", "かきく", "きく", "くけこ", "こ")
	v := Encode(l)
	nonRoot := l.Len() - trie.FirstNodeID
	if zeros := v.Zeros(SentinelBits); zeros != nonRoot+1 {
		t.Fatalf("expected %d zeros after sentinels, have %d", nonRoot+1, zeros)
	}
}

func TestPackPadsWithOnes(t *testing.T) {
	v := &BitVector{}
	v.Append(true)
	v.Append(false)
	v.AppendUnary(0)
	words := v.Words()
	if len(words) != 1 {
		t.Fatalf("expected 1 word, have %d", len(words))
	}
	if want := uint64(0x9FFFFFFFFFFFFFFF); words[0] != want {
		t.Fatalf("padding mismatch: got %#x, want %#x", words[0], want)
	}
	for range 61 {
		v.Append(false)
	}
	words = v.Words()
	if len(words) != 1 || words[0] != 0x8000000000000000 {
		t.Fatalf("full word must not be padded: %#x", words)
	}
	v.Append(false)
	if words = v.Words(); len(words) != 2 || words[1] != 0x7FFFFFFFFFFFFFFF {
		t.Fatalf("second word padding mismatch: %#x", words)
	}
}

func TestLabels(t *testing.T) {
	l := build(t, "あい", "あお", "ん")
	a, err := alphabet.New([]string{"\x00", "あ", "い", "お"})
	if err != nil {
		t.Fatal(err)
	}
	labels, unmapped := Labels(l, a)
	// ids: 0,1 sentinels; 2 あ; 3 ん; 4 い; 5 お
	want := []byte{0, 0, 1, 0, 2, 3}
	if string(labels) != string(want) {
		t.Fatalf("labels mismatch: got %v, want %v", labels, want)
	}
	if unmapped != 1 {
		t.Fatalf("expected 1 unmapped label, have %d", unmapped)
	}
}

func TestReaderRoundTrip(t *testing.T) {
	chars := []string{"\x00"}
	for r := 'ぁ'; r <= 'ん'; r++ {
		chars = append(chars, string(r))
	}
	a, err := alphabet.New(chars)
	if err != nil {
		t.Fatal(err)
	}
	var readings []string
	for i := range 400 {
		// deterministic pseudo-random readings over a small alphabet
		n := 1 + i%5
		var b strings.Builder
		for j := range n {
			b.WriteString(chars[1+(i*7+j*13+i/3)%20])
		}
		readings = append(readings, b.String())
	}
	l := build(t, readings...)
	v := Encode(l)
	labels, _ := Labels(l, a)
	r := NewReader(v.Words(), labels)
	if r.Len() != l.Len() {
		t.Fatalf("reader has %d ids, layout %d", r.Len(), l.Len())
	}
	got := r.Readings(a)
	for id := trie.RootID; id < l.Len(); id++ {
		reading := l.Reading(id)
		if got[reading] != id {
			t.Fatalf("reading %q: reader id %d, layout id %d", reading, got[reading], id)
		}
	}
	if len(got) != l.Len()-trie.RootID {
		t.Fatalf("reader reconstructed %d readings, layout has %d nodes", len(got), l.Len()-trie.RootID)
	}
	for id := trie.FirstNodeID; id < l.Len(); id++ {
		if p := r.Parent(id); p != l.Nodes[id].Parent {
			t.Fatalf("parent of %d: reader %d, layout %d", id, p, l.Nodes[id].Parent)
		}
	}
	for _, reading := range readings {
		id, ok := r.Walk(a, reading)
		want, _ := l.Lookup(reading)
		if !ok || id != want {
			t.Fatalf("walk %q: got (%d,%v), want %d", reading, id, ok, want)
		}
	}
}

func TestReaderIgnoresPadding(t *testing.T) {
	l := build(t, "あ")
	v := Encode(l)
	a, _ := alphabet.New([]string{"あ"})
	labels, _ := Labels(l, a)
	r := NewReader(v.Words(), labels)
	if children := r.Children(2); len(children) != 0 {
		t.Fatalf("leaf must not have children, got %v", children)
	}
	if children := r.Children(trie.RootID); fmt.Sprint(children) != "[2]" {
		t.Fatalf("root children: %v", children)
	}
}
