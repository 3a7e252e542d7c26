package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/palavra/internal/palavra"
)

type chatterMock struct {
	ChatFunc func(ctx context.Context, turns []palavra.Turn) (string, error)
	calls    [][]palavra.Turn
}

func (m *chatterMock) Chat(ctx context.Context, turns []palavra.Turn) (string, error) {
	m.calls = append(m.calls, turns)
	return m.ChatFunc(ctx, turns)
}

func echoChatter() *chatterMock {
	return &chatterMock{ChatFunc: func(_ context.Context, turns []palavra.Turn) (string, error) {
		return "re: " + turns[len(turns)-1].Text, nil
	}}
}

var saudade = palavra.DictionaryResult{
	Word:        "saudade",
	Explanation: "A deep longing.",
	SourceLang:  "English",
	TargetLang:  "Portuguese (Portugal)",
}

func TestOpenPrimesHiddenTurns(t *testing.T) {
	s := Open(echoChatter(), saudade, nil)

	assert.Empty(t, s.Transcript())
	h := s.History()
	require.Len(t, h, 2)
	assert.Equal(t, palavra.RoleUser, h[0].Role)
	assert.Equal(t, palavra.RoleModel, h[1].Role)
	assert.Contains(t, h[0].Text, "saudade")
	assert.Contains(t, h[0].Text, "Portuguese (Portugal)")
	assert.Contains(t, h[0].Text, "English")
	assert.Contains(t, h[0].Text, "A deep longing.")
}

func TestSendForwardsWholeTranscript(t *testing.T) {
	c := echoChatter()
	s := Open(c, saudade, nil)

	for i, msg := range []string{"one", "two", "three"} {
		turns, err := s.Send(t.Context(), msg)
		require.NoError(t, err)
		assert.Len(t, turns, 2*(i+1))
	}

	require.Len(t, c.calls, 3)
	last := c.calls[2]
	require.Len(t, last, 2+5)
	assert.Equal(t, "three", last[len(last)-1].Text)
	assert.Equal(t, "re: one", last[3].Text)

	tr := s.Transcript()
	assert.Len(t, tr, 6)
	assert.Equal(t, palavra.Turn{Role: palavra.RoleModel, Text: "re: three"}, tr[5])
}

func TestFailedSendLeavesOrphanedUserTurn(t *testing.T) {
	fail := true
	c := &chatterMock{ChatFunc: func(_ context.Context, _ []palavra.Turn) (string, error) {
		if fail {
			return "", palavra.ErrCollaborator
		}
		return "ok", nil
	}}
	s := Open(c, saudade, nil)

	_, err := s.Send(t.Context(), "hello")
	require.ErrorIs(t, err, palavra.ErrCollaborator)
	assert.Len(t, s.Transcript(), 1)
	assert.False(t, s.Busy())

	fail = false
	turns, err := s.Send(t.Context(), "hello")
	require.NoError(t, err)
	assert.Len(t, turns, 3)
	assert.Equal(t, "hello", turns[0].Text)
	assert.Equal(t, "hello", turns[1].Text)
}

func TestSendBlankMessage(t *testing.T) {
	c := echoChatter()
	s := Open(c, saudade, nil)

	_, err := s.Send(t.Context(), "   ")
	require.ErrorIs(t, err, palavra.ErrEmptyQuery)
	assert.Empty(t, c.calls)
	assert.Empty(t, s.Transcript())
}

func TestSendWhileBusy(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	c := &chatterMock{ChatFunc: func(_ context.Context, _ []palavra.Turn) (string, error) {
		close(entered)
		<-release
		return "done", nil
	}}
	s := Open(c, saudade, nil)

	errc := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), "first")
		errc <- err
	}()
	<-entered

	assert.True(t, s.Busy())
	_, err := s.Send(t.Context(), "second")
	assert.True(t, errors.Is(err, palavra.ErrBusy))

	close(release)
	require.NoError(t, <-errc)
	assert.Len(t, s.Transcript(), 2)
}
