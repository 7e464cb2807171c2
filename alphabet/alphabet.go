/*
Package alphabet maps the characters of dictionary readings to one-byte codes.

An alphabet is defined by a plain UTF-8 text file: the N-th character of the
file (0-based) is assigned code N. "Character" means a user-perceived
character, i.e. an extended grapheme cluster, not a single rune. Readings are
split the same way when they are inserted into the index trie, so that trie
edge labels and alphabet codes always agree.

Characters missing from the alphabet map to code 0. This is lossy, as code 0
usually is a regular character as well, but lookup engines never reach these
labels in practice.
*/
package alphabet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"
	"github.com/rivo/uniseg"
)

// MaxCodes is the number of distinct characters a one-byte alphabet can hold.
const MaxCodes = 256

// ErrTooManyCharacters is returned if an alphabet file defines more than
// MaxCodes characters.
var ErrTooManyCharacters = errors.New("alphabet exceeds 256 characters")

// tracer writes to trace with key 'loudsdict.alphabet'
func tracer() tracing.Trace {
	return tracing.Select("loudsdict.alphabet")
}

// Alphabet is a bidirectional mapping between characters and byte codes.
// An Alphabet is immutable after loading and safe for concurrent use.
type Alphabet struct {
	bmp   pagedMap        // single-rune BMP characters
	other map[string]byte // everything else (clusters, astral runes)
	chars []string        // code -> character
}

// Load reads an alphabet definition from r.
func Load(r io.Reader) (*Alphabet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(Split(string(data)))
}

// LoadFile reads an alphabet definition from a file.
func LoadFile(path string) (*Alphabet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open alphabet: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// New creates an alphabet from a list of characters; chars[i] gets code i.
// Duplicate characters keep the code of their first occurrence.
func New(chars []string) (*Alphabet, error) {
	if len(chars) > MaxCodes {
		return nil, fmt.Errorf("%w: %d characters", ErrTooManyCharacters, len(chars))
	}
	a := &Alphabet{
		other: make(map[string]byte),
		chars: make([]string, len(chars)),
	}
	copy(a.chars, chars)
	for i, ch := range chars {
		if _, dup := a.Code(ch); dup {
			tracer().Debugf("alphabet: duplicate character %q at position %d ignored", ch, i)
			continue
		}
		a.set(ch, byte(i))
	}
	tracer().Infof("alphabet loaded with %d characters (%d BMP pages)", len(chars), a.bmp.numPages())
	return a, nil
}

func (a *Alphabet) set(ch string, code byte) {
	if r, ok := singleBMPRune(ch); ok {
		a.bmp.set(r, uint16(code)+1)
		return
	}
	a.other[ch] = code
}

// Code returns the byte code for a character. Characters not contained in
// the alphabet yield (0, false).
func (a *Alphabet) Code(ch string) (byte, bool) {
	if a == nil {
		return 0, false
	}
	if r, ok := singleBMPRune(ch); ok {
		slot := a.bmp.lookup(r)
		if slot == 0 {
			return 0, false
		}
		return byte(slot - 1), true
	}
	code, ok := a.other[ch]
	return code, ok
}

// Char returns the character for a byte code, or "" if code is not assigned.
func (a *Alphabet) Char(code byte) string {
	if a == nil || int(code) >= len(a.chars) {
		return ""
	}
	return a.chars[code]
}

// Len returns the number of characters in the alphabet.
func (a *Alphabet) Len() int {
	if a == nil {
		return 0
	}
	return len(a.chars)
}

func singleBMPRune(ch string) (uint16, bool) {
	r, size := utf8.DecodeRuneInString(ch)
	if size == 0 || size != len(ch) || r > 0xFFFF || r == utf8.RuneError {
		return 0, false
	}
	return uint16(r), true
}

// Split breaks s into user-perceived characters (grapheme clusters).
func Split(s string) []string {
	chars := make([]string, 0, len(s)/2)
	state := -1
	var cluster string
	for len(s) > 0 {
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		chars = append(chars, cluster)
	}
	return chars
}
