package source

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

func drain(t *testing.T, r RecordReader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.Next()
		if err == io.EOF {
			return lines
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		lines = append(lines, line)
	}
}

func TestLineReaderSkipsEmptyLines(t *testing.T) {
	r := NewLineReader(strings.NewReader("a\tA\r\n\n\nb\tB\n"))
	got := drain(t, r)
	want := []string{"a\tA", "b\tB"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("lines mismatch: got %q, want %q", got, want)
	}
}

func TestBundleOpen(t *testing.T) {
	fsys := fstest.MapFS{
		"kaomoji_dict.tsv": {Data: []byte("かお\t(^^)\t1\t1\t0\t-10\n")},
	}
	b := NewBundle(fsys)
	readers, err := b.OpenAll([]string{"kaomoji_dict.tsv"})
	if err != nil {
		t.Fatal(err)
	}
	if got := drain(t, readers[0]); len(got) != 1 {
		t.Fatalf("expected one line, got %q", got)
	}
	_, err = b.OpenAll([]string{"kaomoji_dict.tsv", "missing.txt"})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestResolveBundled(t *testing.T) {
	tests := []struct {
		version EmojiVersion
		want    string
	}{
		{Emoji16, "emoji_dict_E16.0.txt"},
		{Emoji151, "emoji_dict_E15.1.txt"},
		{Emoji15, "emoji_dict_E15.0.txt"},
		{Emoji14, "emoji_dict_E14.0.txt"},
		{100, "emoji_dict_E14.0.txt"},
	}
	for _, tt := range tests {
		names, err := ResolveBundled([]Kind{Emoji, Kaomoji}, tt.version)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{tt.want, "kaomoji_dict.tsv"}
		if !reflect.DeepEqual(names, want) {
			t.Fatalf("version %d: got %q, want %q", tt.version, names, want)
		}
	}
	if _, err := ResolveBundled([]Kind{"symbols"}, Emoji16); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestParseEmojiVersion(t *testing.T) {
	v, err := ParseEmojiVersion("15.1")
	if err != nil || v != Emoji151 {
		t.Fatalf("got (%d,%v)", v, err)
	}
	if _, err := ParseEmojiVersion("13"); err == nil {
		t.Fatalf("expected error for unsupported version")
	}
}
