/*
Package merge collects dictionary records from all sources of one
compilation run.

Records are concatenated in a fixed order: bundled word lists first, then
user-added entries, then hotfix entries. The position of a record in this
order is its index in the global entry table. Records are never removed from
the table; records which must not be reachable by lookup (denylisted words,
empty readings) are only marked as not indexable, so indices stay stable.
*/
package merge

import (
	"errors"
	"fmt"
	"io"

	"fortio.org/sets"
	"github.com/npillmayer/loudsdict/alphabet"
	"github.com/npillmayer/loudsdict/entry"
	"github.com/npillmayer/loudsdict/source"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'loudsdict.merge'
func tracer() tracing.Trace {
	return tracing.Select("loudsdict.merge")
}

// Merger merges bundled, user and hotfix records into one entry table.
type Merger struct {
	Denylist   sets.Set[string] // characters disqualifying a word
	Conjugator Conjugator       // may be nil: verbs get their standard form only
	Templates  TemplateExpander // may be nil: templates stay unexpanded
}

// Table is the global entry table of one compilation run.
type Table struct {
	Records  []entry.Record
	skipped  sets.Set[int]
	Denied   int // records excluded by the denylist
	Empty    int // records with an empty reading
	Repaired int // bundled records with defaulted fields
	Dropped  int // hotfix entries shadowed by user entries
}

// Indexable reports whether record i may be inserted into the trie.
func (t *Table) Indexable(i int) bool {
	if i < 0 || i >= len(t.Records) {
		return false
	}
	return !t.skipped.Has(i)
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	return len(t.Records)
}

// Merge reads all bundled sources and merges them with user and hotfix
// entries. Read errors of bundled sources are fatal and returned as-is.
func (m *Merger) Merge(bundled []source.RecordReader, users []UserEntry, hotfix *Hotfix) (*Table, error) {
	table := &Table{skipped: sets.New[int]()}
	for i, r := range bundled {
		if err := m.readBundled(table, r); err != nil {
			return nil, fmt.Errorf("bundled source #%d: %w", i, err)
		}
	}
	for _, u := range users {
		table.Records = append(table.Records, userRecords(u, m.Conjugator, m.Templates)...)
	}
	idx := newUserIndex(users)
	for _, h := range hotfix.Entries() {
		if idx.covers(h) {
			tracer().Debugf("hotfix entry %s/%s shadowed by user entry", h.Ruby, h.Word)
			table.Dropped++
			continue
		}
		table.Records = append(table.Records, h.record())
	}
	for i, rec := range table.Records {
		switch {
		case rec.Reading == "":
			table.skipped.Add(i)
			table.Empty++
		case m.denied(rec.Word):
			tracer().Debugf("record %d (%s) excluded by denylist", i, rec.Reading)
			table.skipped.Add(i)
			table.Denied++
		}
	}
	tracer().Infof("merged %d records: %d repaired, %d denied, %d empty, %d hotfix entries shadowed",
		len(table.Records), table.Repaired, table.Denied, table.Empty, table.Dropped)
	return table, nil
}

func (m *Merger) readBundled(table *Table, r source.RecordReader) error {
	for {
		line, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		rec, repairs := entry.Parse(line)
		if repairs != 0 {
			tracer().Debugf("record %q repaired: %s", rec.Reading, repairs)
			table.Repaired++
		}
		table.Records = append(table.Records, rec)
	}
}

// denied is true if any character of word, ignoring variation selectors,
// is on the denylist.
func (m *Merger) denied(word string) bool {
	if len(m.Denylist) == 0 {
		return false
	}
	for _, ch := range alphabet.Split(entry.StripVariationSelectors(word)) {
		if m.Denylist.Has(ch) {
			return true
		}
	}
	return false
}
