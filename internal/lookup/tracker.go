package lookup

import "sync/atomic"

// Token identifies one lookup request.
type Token uint64

// Tracker hands out increasing tokens. Only the latest token is current,
// so a response for an older request can be recognized and dropped.
type Tracker struct {
	latest atomic.Uint64
}

// Begin starts a new request and makes its token current.
func (t *Tracker) Begin() Token {
	return Token(t.latest.Add(1))
}

// IsCurrent reports whether tok belongs to the most recent request.
func (t *Tracker) IsCurrent(tok Token) bool {
	return uint64(tok) == t.latest.Load()
}
