// Package romanize produces pinyin readings for Chinese headwords.
package romanize

import (
	"strings"
	"unicode"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// Tone is a Mandarin tone number. Tone5 is the neutral tone.
type Tone int

const (
	ToneUnknown Tone = iota
	Tone1
	Tone2
	Tone3
	Tone4
	Tone5
)

// Syllable is one romanized Han character.
type Syllable struct {
	Han    string
	Pinyin string
	Tone   Tone
}

// Parser converts Han text to pinyin with tone marks.
type Parser struct {
	args gopinyin.Args
}

// NewParser creates a parser that returns the most common reading per
// character.
func NewParser() *Parser {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone
	args.Heteronym = false
	args.Fallback = func(r rune, a gopinyin.Args) []string { return nil }
	return &Parser{args: args}
}

// Syllables romanizes every Han character of text. Other runes are skipped.
func (p *Parser) Syllables(text string) []Syllable {
	var out []Syllable
	for _, r := range text {
		if !unicode.Is(unicode.Han, r) {
			continue
		}
		readings := gopinyin.SinglePinyin(r, p.args)
		if len(readings) == 0 {
			continue
		}
		tone, _ := SplitTone(readings[0])
		out = append(out, Syllable{Han: string(r), Pinyin: readings[0], Tone: tone})
	}
	return out
}

// Reading returns the space-separated pinyin of text, or false when text
// holds no Han characters.
func (p *Parser) Reading(text string) (string, bool) {
	syl := p.Syllables(text)
	if len(syl) == 0 {
		return "", false
	}
	parts := make([]string, len(syl))
	for i, s := range syl {
		parts[i] = s.Pinyin
	}
	return strings.Join(parts, " "), true
}

var toneMarks = map[rune]struct {
	base rune
	tone Tone
}{
	'ā': {'a', Tone1}, 'á': {'a', Tone2}, 'ǎ': {'a', Tone3}, 'à': {'a', Tone4},
	'ē': {'e', Tone1}, 'é': {'e', Tone2}, 'ě': {'e', Tone3}, 'è': {'e', Tone4},
	'ī': {'i', Tone1}, 'í': {'i', Tone2}, 'ǐ': {'i', Tone3}, 'ì': {'i', Tone4},
	'ō': {'o', Tone1}, 'ó': {'o', Tone2}, 'ǒ': {'o', Tone3}, 'ò': {'o', Tone4},
	'ū': {'u', Tone1}, 'ú': {'u', Tone2}, 'ǔ': {'u', Tone3}, 'ù': {'u', Tone4},
	'ǖ': {'ü', Tone1}, 'ǘ': {'ü', Tone2}, 'ǚ': {'ü', Tone3}, 'ǜ': {'ü', Tone4},
}

// SplitTone returns the tone of a marked syllable and the syllable without
// its mark. Unmarked syllables are neutral.
func SplitTone(syllable string) (Tone, string) {
	tone := ToneUnknown
	var sb strings.Builder
	for _, r := range syllable {
		if m, ok := toneMarks[r]; ok {
			sb.WriteRune(m.base)
			tone = m.tone
			continue
		}
		sb.WriteRune(r)
	}
	if tone == ToneUnknown {
		tone = Tone5
	}
	return tone, sb.String()
}
