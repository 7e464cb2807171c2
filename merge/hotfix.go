package merge

import (
	"encoding/json"
	"fmt"
	"io"

	"fortio.org/sets"
	"github.com/derekparker/trie"
	"github.com/npillmayer/loudsdict/alphabet"
	"github.com/npillmayer/loudsdict/entry"
)

// hotfixAnnouncementRuby is the reading under which the version of an
// installed hotfix dictionary can be looked up.
const hotfixAnnouncementRuby = "ホットフィックスアップデート"

const hotfixAnnouncementScore float32 = -15.0

// Hotfix is a remotely delivered patch dictionary (format version 1).
type Hotfix struct {
	Metadata HotfixMetadata `json:"metadata"`
	Data     []HotfixEntry  `json:"data"`
}

type HotfixMetadata struct {
	LastUpdate string `json:"lastUpdate"`
}

type HotfixEntry struct {
	Word       string  `json:"word"`
	Ruby       string  `json:"ruby"`
	WordWeight float32 `json:"wordWeight"`
	LCID       int     `json:"lcid"`
	RCID       int     `json:"rcid"`
	MID        int     `json:"mid"`
	Date       string  `json:"date"`
	Author     string  `json:"author"`
}

// LoadHotfix decodes a hotfix payload.
func LoadHotfix(r io.Reader) (*Hotfix, error) {
	var h Hotfix
	if err := json.NewDecoder(r).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode hotfix dictionary: %w", err)
	}
	return &h, nil
}

// Entries returns the hotfix entries followed by an entry announcing the
// hotfix version. A nil hotfix has no entries.
func (h *Hotfix) Entries() []HotfixEntry {
	if h == nil {
		return nil
	}
	entries := make([]HotfixEntry, 0, len(h.Data)+1)
	entries = append(entries, h.Data...)
	return append(entries, HotfixEntry{
		Word:       dropLastChars(h.Metadata.LastUpdate, 3),
		Ruby:       hotfixAnnouncementRuby,
		WordWeight: hotfixAnnouncementScore,
		LCID:       ProperNounCID,
		RCID:       ProperNounCID,
		MID:        NumeralMID,
		Author:     "auto",
	})
}

func dropLastChars(s string, n int) string {
	chars := alphabet.Split(s)
	if len(chars) <= n {
		return ""
	}
	size := 0
	for _, ch := range chars[len(chars)-n:] {
		size += len(ch)
	}
	return s[:len(s)-size]
}

func (e HotfixEntry) record() entry.Record {
	reading := Katakana(e.Ruby)
	word := e.Word
	if word == "" {
		word = reading
	}
	return entry.Record{
		Reading:    reading,
		Word:       word,
		LeftID:     e.LCID,
		RightID:    e.RCID,
		MorphemeID: e.MID,
		Score:      e.WordWeight,
	}
}

// userIndex maps katakana readings of user entries to the set of their words.
type userIndex struct {
	t *trie.Trie
}

func newUserIndex(users []UserEntry) userIndex {
	idx := userIndex{t: trie.New()}
	for _, u := range users {
		key := Katakana(u.Ruby)
		if key == "" {
			continue
		}
		if node, ok := idx.t.Find(key); ok {
			node.Meta().(sets.Set[string]).Add(u.Word)
			continue
		}
		idx.t.Add(key, sets.New(u.Word))
	}
	return idx
}

// covers is true if a user entry has the same word and katakana reading.
func (idx userIndex) covers(h HotfixEntry) bool {
	key := Katakana(h.Ruby)
	if key == "" {
		return false
	}
	node, ok := idx.t.Find(key)
	if !ok {
		return false
	}
	return node.Meta().(sets.Set[string]).Has(h.Word)
}
