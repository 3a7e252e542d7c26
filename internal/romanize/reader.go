package romanize

import "strings"

// Reader picks a reading system from the target language name.
type Reader struct {
	chinese  *Parser
	japanese *Japanese
}

// NewReader creates a Reader for Chinese and Japanese headwords.
func NewReader() *Reader {
	return &Reader{chinese: NewParser(), japanese: &Japanese{}}
}

// Reading returns a pronunciation aid for word in language, or false when
// the language has none or word needs none.
func (r *Reader) Reading(word, language string) (string, bool) {
	l := strings.ToLower(language)
	switch {
	case strings.Contains(l, "chinese"), strings.Contains(l, "mandarin"):
		return r.chinese.Reading(word)
	case strings.Contains(l, "japanese"):
		return r.japanese.Reading(word)
	}
	return "", false
}
