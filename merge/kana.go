package merge

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// hiraganaToKatakana shifts hiragana (ぁ..ゖ, ゝ, ゞ) into the katakana block.
func hiraganaToKatakana(r rune) rune {
	if (r >= 'ぁ' && r <= 'ゖ') || r == 'ゝ' || r == 'ゞ' {
		return r + ('ァ' - 'ぁ')
	}
	return r
}

// Katakana returns s with all hiragana replaced by katakana.
// Dictionary readings are always stored in katakana.
func Katakana(s string) string {
	out, _, err := transform.String(runes.Map(hiraganaToKatakana), s)
	if err != nil {
		return s
	}
	return out
}
