package romanize

import (
	"strings"
	"sync"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Japanese produces hiragana readings with the kagome IPA tokenizer. The
// dictionary is loaded on first use.
type Japanese struct {
	once sync.Once
	t    *tokenizer.Tokenizer
	err  error
}

func (j *Japanese) tokenizer() (*tokenizer.Tokenizer, error) {
	j.once.Do(func() {
		j.t, j.err = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	})
	return j.t, j.err
}

// Reading returns the hiragana reading of text. It reports false when text
// has no kanji, since kana already spell their own reading.
func (j *Japanese) Reading(text string) (string, bool) {
	if !strings.ContainsFunc(text, func(r rune) bool { return unicode.Is(unicode.Han, r) }) {
		return "", false
	}
	t, err := j.tokenizer()
	if err != nil {
		return "", false
	}

	var sb strings.Builder
	for _, tok := range t.Tokenize(text) {
		if tok.Class == tokenizer.DUMMY || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		// IPA feature 7 is the katakana reading.
		f := tok.Features()
		if len(f) > 7 && f[7] != "*" {
			sb.WriteString(ToHiragana(f[7]))
		} else {
			sb.WriteString(tok.Surface)
		}
	}
	if sb.Len() == 0 {
		return "", false
	}
	return sb.String(), true
}

// ToHiragana maps katakana to hiragana and leaves other runes alone.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
