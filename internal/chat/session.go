// Package chat holds a free-form conversation about one looked-up word.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/f3rmion/palavra/internal/palavra"
)

// Chatter replies to a transcript.
type Chatter interface {
	Chat(ctx context.Context, turns []palavra.Turn) (string, error)
}

// Session is a conversation about one DictionaryResult. Only one Send may be
// outstanding at a time.
type Session struct {
	chatter Chatter
	log     *slog.Logger
	result  palavra.DictionaryResult

	mu       sync.Mutex
	priming  []palavra.Turn
	turns    []palavra.Turn
	inFlight bool
}

// Open starts a session primed with the result's word, languages and
// explanation.
func Open(c Chatter, result palavra.DictionaryResult, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		chatter: c,
		log:     log.With(slog.String("word", result.Word)),
		result:  result.Clone(),
		priming: primingTurns(result),
	}
}

func primingTurns(r palavra.DictionaryResult) []palavra.Turn {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("I am learning %s and my native language is %s. ", r.TargetLang, r.SourceLang))
	sb.WriteString(fmt.Sprintf("Let's talk about the word %q. ", r.Word))
	sb.WriteString(fmt.Sprintf("You already explained it like this: %s\n", r.Explanation))
	sb.WriteString(fmt.Sprintf("Answer my questions in %s, keep replies short and friendly, ", r.SourceLang))
	sb.WriteString(fmt.Sprintf("and give examples in %s.", r.TargetLang))

	return []palavra.Turn{
		{Role: palavra.RoleUser, Text: sb.String()},
		{Role: palavra.RoleModel, Text: fmt.Sprintf("Of course! Ask me anything about %q.", r.Word)},
	}
}

// Result returns the result under discussion.
func (s *Session) Result() palavra.DictionaryResult {
	return s.result.Clone()
}

// Send appends message, forwards the whole history and appends the reply.
// On failure the user turn stays in the transcript without a reply.
func (s *Session) Send(ctx context.Context, message string) ([]palavra.Turn, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, palavra.ErrEmptyQuery
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, palavra.ErrBusy
	}
	s.inFlight = true
	s.turns = append(s.turns, palavra.Turn{Role: palavra.RoleUser, Text: message})
	history := s.historyLocked()
	s.mu.Unlock()

	reply, err := s.chatter.Chat(ctx, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.log.Warn("chat send failed", slog.Any("error", err))
		return slices.Clone(s.turns), err
	}
	s.turns = append(s.turns, palavra.Turn{Role: palavra.RoleModel, Text: reply})
	return slices.Clone(s.turns), nil
}

// Busy reports whether a Send is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Transcript returns the visible turns.
func (s *Session) Transcript() []palavra.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.turns)
}

// History returns the priming turns followed by the visible turns.
func (s *Session) History() []palavra.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyLocked()
}

func (s *Session) historyLocked() []palavra.Turn {
	out := make([]palavra.Turn, 0, len(s.priming)+len(s.turns))
	out = append(out, s.priming...)
	return append(out, s.turns...)
}
