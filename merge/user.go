package merge

import (
	"regexp"

	"github.com/npillmayer/loudsdict/entry"
)

// Context and morpheme ids assigned to entries that carry no ids themselves.
const (
	VerbCID       = 772  // 動詞,自立,*,*,五段・ラ行,基本形
	ProperNounCID = 1288 // 名詞,固有名詞,一般
	PersonNameCID = 1289 // 名詞,固有名詞,人名,一般
	PlaceNameCID  = 1293 // 名詞,固有名詞,地域,一般
	GeneralMID    = 501
	NumeralMID    = 502

	UserScore float32 = -5.0
)

// Category classifies a non-verb user entry.
type Category int

const (
	ProperNoun Category = iota
	PersonName
	PlaceName
)

// UserEntry is a word added by the user.
type UserEntry struct {
	Word     string   `json:"word"`
	Ruby     string   `json:"ruby"`
	Verb     bool     `json:"isVerb"`
	Category Category `json:"category"`
}

func (u UserEntry) cid() int {
	switch u.Category {
	case PersonName:
		return PersonNameCID
	case PlaceName:
		return PlaceNameCID
	}
	return ProperNounCID
}

// Conjugation is one inflected form produced by a Conjugator.
type Conjugation struct {
	Ruby string
	Word string
	CID  int
}

// Conjugator expands a verb into its inflected forms, the standard form
// included.
type Conjugator interface {
	Conjugations(word, ruby string, cid int) []Conjugation
}

// TemplateExpander resolves a named template to its literal text.
type TemplateExpander interface {
	Literal(name string) (string, bool)
}

// MapTemplates is a TemplateExpander backed by a fixed table.
type MapTemplates map[string]string

func (m MapTemplates) Literal(name string) (string, bool) {
	lit, ok := m[name]
	return lit, ok
}

var templatePattern = regexp.MustCompile(`\{\{.*?\}\}`)

// expandTemplates replaces every {{name}} in word by the template's literal.
// Unknown templates stay as they are.
func expandTemplates(word string, templates TemplateExpander) string {
	if templates == nil {
		return word
	}
	loc := templatePattern.FindStringIndex(word)
	if loc == nil {
		return word
	}
	center := word[loc[0]:loc[1]]
	if lit, ok := templates.Literal(center[2 : len(center)-2]); ok {
		center = lit
	}
	return word[:loc[0]] + center + expandTemplates(word[loc[1]:], templates)
}

// userRecords turns one user entry into dictionary records.
func userRecords(u UserEntry, conj Conjugator, templates TemplateExpander) []entry.Record {
	ruby := Katakana(u.Ruby)
	if u.Verb {
		forms := []Conjugation{{Ruby: ruby, Word: u.Word, CID: VerbCID}}
		if conj != nil {
			forms = conj.Conjugations(u.Word, ruby, VerbCID)
		}
		records := make([]entry.Record, 0, len(forms))
		for _, f := range forms {
			records = append(records, userRecord(f.Ruby, expandTemplates(f.Word, templates), f.CID))
		}
		return records
	}
	return []entry.Record{userRecord(ruby, expandTemplates(u.Word, templates), u.cid())}
}

func userRecord(ruby, word string, cid int) entry.Record {
	if word == "" {
		word = ruby
	}
	return entry.Record{
		Reading:    ruby,
		Word:       word,
		LeftID:     cid,
		RightID:    cid,
		MorphemeID: GeneralMID,
		Score:      UserScore,
	}
}
