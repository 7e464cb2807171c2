/*
Package segment serializes the dictionary entries of trie nodes.

Every node id owns exactly one block, even if no reading terminates at the
node. A block is little-endian:

	u16 count
	count x (u16 leftId, u16 rightId, u16 morphemeId, f32 score)
	UTF-8 text: reading \t w1 \t ... \t wN

where wi is empty if the word equals the reading. Blocks are grouped into
segments of a fixed number of consecutive node ids. A segment starts with the
number of blocks and the absolute file offset of every block, so a single
block can be read without scanning its predecessors.
*/
package segment

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"fortio.org/safecast"
	"github.com/npillmayer/loudsdict/entry"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'loudsdict.segment'
func tracer() tracing.Trace {
	return tracing.Select("loudsdict.segment")
}

// entrySize is the size of one numeric table row.
const entrySize = 3*2 + 4

var (
	ErrTooManyEntries = errors.New("too many entries for one block")
	ErrCorrupt        = errors.New("corrupt block data")
)

// Block is a decoded block.
type Block struct {
	Reading string
	Entries []entry.Entry
}

// EncodeBlock serializes the records of one node. All records must share
// reading. Ids outside 16 bits are an error wrapping entry.ErrIDRange.
func EncodeBlock(reading string, records []entry.Record) ([]byte, error) {
	count, err := safecast.Convert[uint16](len(records))
	if err != nil {
		return nil, fmt.Errorf("%w: %d entries for %q", ErrTooManyEntries, len(records), reading)
	}
	text := make([]string, 1, len(records)+1)
	text[0] = reading
	size := 2 + len(records)*entrySize + len(reading)
	for _, rec := range records {
		size += len(rec.Word) + 1
	}
	buf := make([]byte, 0, size)
	buf = binary.LittleEndian.AppendUint16(buf, count)
	for _, rec := range records {
		assert(rec.Reading == reading, "segment: records of one block must share their reading")
		e, err := rec.Entry()
		if err != nil {
			tracer().Errorf("cannot encode block for %q: %v", reading, err)
			return nil, err
		}
		buf = binary.LittleEndian.AppendUint16(buf, e.LeftID)
		buf = binary.LittleEndian.AppendUint16(buf, e.RightID)
		buf = binary.LittleEndian.AppendUint16(buf, e.MorphemeID)
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(e.Score))
		if e.Word == reading {
			text = append(text, "")
		} else {
			text = append(text, e.Word)
		}
	}
	return append(buf, strings.Join(text, "\t")...), nil
}

// DecodeBlock parses a block produced by EncodeBlock. Empty words are
// resolved to the reading.
func DecodeBlock(data []byte) (Block, error) {
	if len(data) < 2 {
		return Block{}, fmt.Errorf("%w: block of %d bytes", ErrCorrupt, len(data))
	}
	count := int(binary.LittleEndian.Uint16(data))
	table := data[2:]
	if len(table) < count*entrySize {
		return Block{}, fmt.Errorf("%w: %d entries in %d bytes", ErrCorrupt, count, len(table))
	}
	text := strings.Split(string(table[count*entrySize:]), "\t")
	if len(text) != count+1 {
		return Block{}, fmt.Errorf("%w: %d words for %d entries", ErrCorrupt, len(text)-1, count)
	}
	b := Block{Reading: text[0], Entries: make([]entry.Entry, count)}
	for i := range count {
		row := table[i*entrySize:]
		word := text[i+1]
		if word == "" {
			word = b.Reading
		}
		b.Entries[i] = entry.Entry{
			Reading:    b.Reading,
			Word:       word,
			LeftID:     binary.LittleEndian.Uint16(row),
			RightID:    binary.LittleEndian.Uint16(row[2:]),
			MorphemeID: binary.LittleEndian.Uint16(row[4:]),
			Score:      math.Float32frombits(binary.LittleEndian.Uint32(row[6:])),
		}
	}
	return b, nil
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
