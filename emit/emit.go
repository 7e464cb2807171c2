/*
Package emit writes a compiled dictionary index to disk.

For a dictionary identifier id the index consists of

	id.louds          LOUDS bit-vector, u64 words, MSB-first bits
	id.loudschars2    node labels, one byte per node id
	id<n>.loudstxt3   segment n, holding the blocks of a fixed run of node ids

Segment files of older format generations (id<n>.loudstxt, id<n>.loudstxt2)
are removed when a segment is written.
*/
package emit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/npillmayer/loudsdict/segment"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'loudsdict.emit'
func tracer() tracing.Trace {
	return tracing.Select("loudsdict.emit")
}

const (
	BitsExt    = ".louds"
	LabelsExt  = ".loudschars2"
	SegmentExt = ".loudstxt3"
)

// deprecatedSegmentExts are segment formats superseded by SegmentExt.
var deprecatedSegmentExts = []string{".loudstxt", ".loudstxt2"}

var ErrSplitSize = errors.New("split size out of range")

// Emitter writes the files of one dictionary identifier into a directory.
type Emitter struct {
	dir        string
	identifier string
	split      int
}

// New creates an emitter. split is the number of node blocks per segment
// file and must be in [1, segment.MaxBlocks].
func New(dir, identifier string, split int) (*Emitter, error) {
	if split < 1 || split > segment.MaxBlocks {
		return nil, fmt.Errorf("%w: %d", ErrSplitSize, split)
	}
	if identifier == "" {
		return nil, errors.New("emit: empty dictionary identifier")
	}
	return &Emitter{dir: dir, identifier: identifier, split: split}, nil
}

func (e *Emitter) BitsPath() string {
	return filepath.Join(e.dir, e.identifier+BitsExt)
}

func (e *Emitter) LabelsPath() string {
	return filepath.Join(e.dir, e.identifier+LabelsExt)
}

func (e *Emitter) SegmentPath(n int) string {
	return e.segmentPath(n, SegmentExt)
}

func (e *Emitter) segmentPath(n int, ext string) string {
	return filepath.Join(e.dir, e.identifier+strconv.Itoa(n)+ext)
}

// Split returns the number of blocks per segment.
func (e *Emitter) Split() int {
	return e.split
}

// Result summarizes an emission.
type Result struct {
	Segments int      // segment files written
	Bytes    int      // bytes written in total
	Removed  []string // stale files removed
}

// Emit writes the bit-vector, the label array and the segment files.
// blocks[i] is the block of node id i. All segments are encoded before the
// first file is written, so encoding errors leave the directory untouched.
func (e *Emitter) Emit(words []uint64, labels []byte, blocks [][]byte) (Result, error) {
	var result Result
	groups := segment.Partition(blocks, e.split)
	segments := make([][]byte, len(groups))
	for n, g := range groups {
		data, err := segment.Encode(g)
		if err != nil {
			return result, fmt.Errorf("segment %d: %w", n, err)
		}
		segments[n] = data
	}
	bits := make([]byte, 0, 8*len(words))
	for _, w := range words {
		bits = binary.LittleEndian.AppendUint64(bits, w)
	}
	if err := writeFileAtomic(e.BitsPath(), bits); err != nil {
		return result, err
	}
	result.Bytes += len(bits)
	if err := writeFileAtomic(e.LabelsPath(), labels); err != nil {
		return result, err
	}
	result.Bytes += len(labels)
	for n, data := range segments {
		if err := writeFileAtomic(e.SegmentPath(n), data); err != nil {
			return result, err
		}
		result.Segments++
		result.Bytes += len(data)
		for _, ext := range deprecatedSegmentExts {
			if e.remove(e.segmentPath(n, ext)) {
				result.Removed = append(result.Removed, e.segmentPath(n, ext))
			}
		}
	}
	// segments of a previous, larger generation
	for n := len(segments); e.remove(e.SegmentPath(n)); n++ {
		result.Removed = append(result.Removed, e.SegmentPath(n))
	}
	tracer().Infof("emitted %s: %d segments, %d bytes, %d stale files removed",
		e.identifier, result.Segments, result.Bytes, len(result.Removed))
	return result, nil
}

// remove deletes path on a best-effort basis and reports whether a file was
// actually removed.
func (e *Emitter) remove(path string) bool {
	err := os.Remove(path)
	if err == nil {
		return true
	}
	if !errors.Is(err, fs.ErrNotExist) {
		tracer().Infof("cannot remove stale file %s: %v", path, err)
	}
	return false
}
