package source

import (
	"fmt"
	"strings"
)

// Kind is an additional system dictionary a user can enable.
type Kind string

const (
	Emoji   Kind = "emoji"
	Kaomoji Kind = "kaomoji"
)

// EmojiVersion is the newest Unicode emoji version a platform renders.
type EmojiVersion int

const (
	Emoji14  EmojiVersion = 140
	Emoji15  EmojiVersion = 150
	Emoji151 EmojiVersion = 151
	Emoji16  EmojiVersion = 160
)

// ParseEmojiVersion parses versions like "15.1" or "16".
func ParseEmojiVersion(s string) (EmojiVersion, error) {
	switch strings.TrimPrefix(strings.TrimSpace(s), "E") {
	case "14", "14.0":
		return Emoji14, nil
	case "15", "15.0":
		return Emoji15, nil
	case "15.1":
		return Emoji151, nil
	case "16", "16.0":
		return Emoji16, nil
	}
	return 0, fmt.Errorf("unsupported emoji version %q", s)
}

// emojiTables lists bundled emoji tables, newest first.
var emojiTables = []struct {
	version EmojiVersion
	file    string
}{
	{Emoji16, "emoji_dict_E16.0.txt"},
	{Emoji151, "emoji_dict_E15.1.txt"},
	{Emoji15, "emoji_dict_E15.0.txt"},
	{Emoji14, "emoji_dict_E14.0.txt"},
}

// ResolveBundled maps additional dictionary kinds to bundled file names.
// For emoji the newest table not exceeding version is chosen; the oldest
// table is used as a fallback.
func ResolveBundled(kinds []Kind, version EmojiVersion) ([]string, error) {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		switch k {
		case Emoji:
			names = append(names, emojiTable(version))
		case Kaomoji:
			names = append(names, "kaomoji_dict.tsv")
		default:
			return nil, fmt.Errorf("unknown additional dictionary %q", k)
		}
	}
	return names, nil
}

func emojiTable(version EmojiVersion) string {
	for _, t := range emojiTables {
		if version >= t.version {
			return t.file
		}
	}
	return emojiTables[len(emojiTables)-1].file
}
