// Package palavra provides the core types shared by every palavra component.
package palavra

import (
	"slices"
	"time"
)

// Example is one sentence pair: the target-language sentence and its
// native-language translation.
type Example struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// ConjugationForm is a single pronoun/form row of a conjugation table.
type ConjugationForm struct {
	Pronoun string `json:"pronoun"`
	Form    string `json:"form"`
}

// Conjugations holds a verb's forms in one tense.
type Conjugations struct {
	Infinitive string            `json:"infinitive"`
	TenseName  string            `json:"tenseName"`
	Forms      []ConjugationForm `json:"forms"`
}

// DictionaryResult is the merged outcome of one lookup.
//
// Values are treated as immutable once built: components that keep a result
// beyond the call that produced it hold a Clone.
type DictionaryResult struct {
	Word         string                 `json:"word"`
	Explanation  string                 `json:"explanation"`
	Examples     []Example              `json:"examples"`
	FriendlyNote string                 `json:"friendlyNote"`
	Conjugations Optional[Conjugations] `json:"conjugations"`
	ImageURL     Optional[string]       `json:"imageUrl"`
	Reading      Optional[string]       `json:"reading"`
	Timestamp    time.Time              `json:"timestamp"`
	SourceLang   string                 `json:"sourceLang"`
	TargetLang   string                 `json:"targetLang"`
}

// Clone returns a deep copy that shares no slices with r.
func (r DictionaryResult) Clone() DictionaryResult {
	out := r
	out.Examples = slices.Clone(r.Examples)
	if c, ok := r.Conjugations.Get(); ok {
		c.Forms = slices.Clone(c.Forms)
		out.Conjugations = Some(c)
	}
	return out
}

// IsVerb reports whether the definition collaborator returned conjugations.
func (r DictionaryResult) IsVerb() bool {
	return r.Conjugations.IsSome()
}

// SavedItem is a DictionaryResult promoted into the notebook.
type SavedItem struct {
	ID string `json:"id"`
	DictionaryResult
}

// Settings is the process-wide AI configuration.
type Settings struct {
	APIKey    string `json:"apiKey"`
	TextModel string `json:"textModel"`
}

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message in a chat transcript.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// DefinitionRequest parameterizes the definition collaborator.
type DefinitionRequest struct {
	Query          string
	NativeLanguage string
	TargetLanguage string
	Variant        Variant
}

// Definition is the structured part of a lookup as returned by the
// definition collaborator.
type Definition struct {
	Word         string
	Explanation  string
	Examples     []Example
	FriendlyNote string
	Conjugations Optional[Conjugations]
}
