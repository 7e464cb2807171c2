// Package entry normalizes raw dictionary records.
//
// A record is one line of tab-separated text:
//
//	reading \t word \t leftId \t rightId \t morphemeId \t score
//
// Records are never rejected. Missing or unparsable fields are repaired
// with defaults, and the repairs are reported to the caller.
package entry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// DefaultScore is used if a record's score field is missing or unparsable.
const DefaultScore float32 = -30.0

// NumFields is the number of tab-separated fields of a well-formed record.
const NumFields = 6

// ErrIDRange is returned if a context or morpheme id does not fit into 16 bits.
var ErrIDRange = errors.New("id outside 16-bit range")

// Repairs flags the fields of a record that had to be defaulted.
type Repairs uint8

const (
	RepairedFieldCount Repairs = 1 << iota // fewer than NumFields fields
	RepairedLeftID
	RepairedRightID
	RepairedMorphemeID
	RepairedScore
)

func (r Repairs) String() string {
	if r == 0 {
		return "none"
	}
	var names []string
	for _, f := range []struct {
		flag Repairs
		name string
	}{
		{RepairedFieldCount, "fields"},
		{RepairedLeftID, "lid"},
		{RepairedRightID, "rid"},
		{RepairedMorphemeID, "mid"},
		{RepairedScore, "score"},
	} {
		if r&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, ",")
}

// Record is a parsed, but not yet range-checked dictionary record.
// Ids are kept as plain ints until serialization.
type Record struct {
	Reading    string
	Word       string
	LeftID     int
	RightID    int
	MorphemeID int
	Score      float32
}

// Entry is a range-checked dictionary entry, ready to be serialized.
type Entry struct {
	Reading    string
	Word       string
	LeftID     uint16
	RightID    uint16
	MorphemeID uint16
	Score      float32
}

// Parse splits one record line. An empty word defaults to the reading,
// an unparsable left id to 0, an unparsable right id to the left id, an
// unparsable morpheme id to 0 and an unparsable score to DefaultScore.
func Parse(line string) (Record, Repairs) {
	var repairs Repairs
	fields := strings.Split(line, "\t")
	if len(fields) < NumFields {
		repairs |= RepairedFieldCount
		fields = append(fields, make([]string, NumFields-len(fields))...)
	}
	rec := Record{
		Reading: fields[0],
		Word:    fields[1],
	}
	if rec.Word == "" {
		rec.Word = rec.Reading
	}
	var ok bool
	if rec.LeftID, ok = parseInt(fields[2]); !ok {
		repairs |= RepairedLeftID
	}
	if rec.RightID, ok = parseInt(fields[3]); !ok {
		rec.RightID = rec.LeftID
		repairs |= RepairedRightID
	}
	if rec.MorphemeID, ok = parseInt(fields[4]); !ok {
		repairs |= RepairedMorphemeID
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(fields[5]), 32); err == nil {
		rec.Score = float32(f)
	} else {
		rec.Score = DefaultScore
		repairs |= RepairedScore
	}
	return rec, repairs
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Line formats a record as a tab-separated line. Parse(r.Line()) yields r.
func (r Record) Line() string {
	var b strings.Builder
	b.WriteString(r.Reading)
	b.WriteByte('\t')
	b.WriteString(r.Word)
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(r.LeftID))
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(r.RightID))
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(r.MorphemeID))
	b.WriteByte('\t')
	b.WriteString(strconv.FormatFloat(float64(r.Score), 'f', -1, 32))
	return b.String()
}

// Entry range-checks the numeric ids of r. Ids outside [0, 65535] are an
// error wrapping ErrIDRange; they are never truncated.
func (r Record) Entry() (Entry, error) {
	lid, err := safecast.Convert[uint16](r.LeftID)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: left id %d of %q", ErrIDRange, r.LeftID, r.Reading)
	}
	rid, err := safecast.Convert[uint16](r.RightID)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: right id %d of %q", ErrIDRange, r.RightID, r.Reading)
	}
	mid, err := safecast.Convert[uint16](r.MorphemeID)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: morpheme id %d of %q", ErrIDRange, r.MorphemeID, r.Reading)
	}
	return Entry{
		Reading:    r.Reading,
		Word:       r.Word,
		LeftID:     lid,
		RightID:    rid,
		MorphemeID: mid,
		Score:      r.Score,
	}, nil
}

// variationSelector16 requests emoji presentation; it is invisible and
// must not influence denylist matching.
const variationSelector16 = '\uFE0F'

// StripVariationSelectors removes emoji variation selectors from s.
func StripVariationSelectors(s string) string {
	t := runes.Remove(runes.Predicate(func(r rune) bool {
		return r == variationSelector16
	}))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
