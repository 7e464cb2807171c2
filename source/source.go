/*
Package source streams raw dictionary records from bundled word lists.

Parsing of record fields is intentionally outside this package. Readers only
deliver lines; package entry turns them into records.
*/
package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'loudsdict.source'
func tracer() tracing.Trace {
	return tracing.Select("loudsdict.source")
}

// ErrSourceUnavailable is returned if a bundled source cannot be read.
// It is fatal for the compilation of the dictionary requesting it.
var ErrSourceUnavailable = errors.New("bundled source unavailable")

// maxLineLength bounds a single record line. Kaomoji lists contain long lines.
const maxLineLength = 1 << 20

// RecordReader yields raw record lines one-by-one.
// It should return io.EOF when the stream is exhausted.
type RecordReader interface {
	Next() (string, error)
}

// LineReader streams non-empty lines from an io.Reader.
type LineReader struct {
	scanner *bufio.Scanner
}

func NewLineReader(reader io.Reader) *LineReader {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &LineReader{scanner: scanner}
}

// Next returns the next non-empty line without its line terminator.
// It returns io.EOF when exhausted.
func (r *LineReader) Next() (string, error) {
	for r.scanner.Scan() {
		line := strings.TrimSuffix(r.scanner.Text(), "\r")
		if line == "" {
			continue
		}
		return line, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// SliceReader yields lines from an in-memory list.
type SliceReader struct {
	lines []string
	index int
}

func NewSliceReader(lines []string) *SliceReader {
	return &SliceReader{lines: lines}
}

func (r *SliceReader) Next() (string, error) {
	if r.index >= len(r.lines) {
		return "", io.EOF
	}
	line := r.lines[r.index]
	r.index++
	return line, nil
}

// Bundle gives access to the word lists shipped with the application.
type Bundle struct {
	fsys fs.FS
}

func NewBundle(fsys fs.FS) *Bundle {
	return &Bundle{fsys: fsys}
}

// Open reads the bundled source name completely and returns a reader over
// its lines. Sources are read as a whole, so a failing source is detected
// before any of its records is consumed.
func (b *Bundle) Open(name string) (RecordReader, error) {
	if b == nil || b.fsys == nil {
		return nil, fmt.Errorf("%w: %s: no bundle", ErrSourceUnavailable, name)
	}
	data, err := fs.ReadFile(b.fsys, name)
	if err != nil {
		tracer().Errorf("cannot read bundled source %s: %v", name, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, name, err)
	}
	tracer().Debugf("bundled source %s: %d bytes", name, len(data))
	return NewLineReader(bytes.NewReader(data)), nil
}

// OpenAll opens every named source, failing on the first unreadable one.
func (b *Bundle) OpenAll(names []string) ([]RecordReader, error) {
	readers := make([]RecordReader, 0, len(names))
	for _, name := range names {
		r, err := b.Open(name)
		if err != nil {
			return nil, err
		}
		readers = append(readers, r)
	}
	return readers, nil
}
