package notebook

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/f3rmion/palavra/internal/kv"
	"github.com/f3rmion/palavra/internal/palavra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingKV struct {
	*kv.Memory
	sets   int
	setErr error
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	return c.Memory.Set(ctx, key, value)
}

func result(word string) palavra.DictionaryResult {
	return palavra.DictionaryResult{
		Word:        word,
		Explanation: "explanation of " + word,
		Examples:    []palavra.Example{{Original: word + "!", Translated: "!"}},
		Timestamp:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		SourceLang:  "English",
		TargetLang:  "Portuguese (Portugal)",
	}
}

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func words(items []palavra.SavedItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Word
	}
	return out
}

func TestSave_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), nil, sequentialIDs())

	for _, w := range []string{"A", "B", "C"} {
		_, added, err := s.Save(ctx, result(w))
		require.NoError(t, err)
		assert.True(t, added)
	}

	assert.Equal(t, []string{"C", "B", "A"}, words(s.List()))
}

func TestSave_DuplicateWordIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := &countingKV{Memory: kv.NewMemory()}
	s := Load(ctx, store, nil, sequentialIDs())

	first, added, err := s.Save(ctx, result("saudade"))
	require.NoError(t, err)
	require.True(t, added)

	dup := result("saudade")
	dup.Explanation = "different"
	again, added, err := s.Save(ctx, dup)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "explanation of saudade", again.Explanation)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, store.sets, "duplicate save must not write")
}

func TestSave_WordMatchIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), nil)

	_, _, err := s.Save(ctx, result("Casa"))
	require.NoError(t, err)
	_, added, err := s.Save(ctx, result("casa"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 2, s.Len())
}

func TestDelete_Twice(t *testing.T) {
	ctx := context.Background()
	store := &countingKV{Memory: kv.NewMemory()}
	s := Load(ctx, store, nil, sequentialIDs())

	item, _, err := s.Save(ctx, result("A"))
	require.NoError(t, err)
	_, _, err = s.Save(ctx, result("B"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, item.ID))
	writes := store.sets
	require.NoError(t, s.Delete(ctx, item.ID))
	assert.Equal(t, writes, store.sets, "deleting an absent id does not write")

	assert.Equal(t, []string{"B"}, words(s.List()))
}

func TestPersistence_RoundTripThroughSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "palavra.db")

	db, err := kv.OpenSQLite(path)
	require.NoError(t, err)
	s := Load(ctx, db, nil, sequentialIDs())

	verb := result("correr")
	verb.Conjugations = palavra.Some(palavra.Conjugations{
		Infinitive: "correr",
		TenseName:  "Presente do Indicativo",
		Forms:      []palavra.ConjugationForm{{Pronoun: "eu", Form: "corro"}, {Pronoun: "tu", Form: "corres"}},
	})
	verb.ImageURL = palavra.Some("data:image/png;base64,AAAA")
	_, _, err = s.Save(ctx, verb)
	require.NoError(t, err)
	_, _, err = s.Save(ctx, result("mesa"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = kv.OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	reloaded := Load(ctx, db, nil)
	items := reloaded.List()
	require.Len(t, items, 2)
	assert.Equal(t, []string{"mesa", "correr"}, words(items))
	assert.Equal(t, "id-1", items[1].ID)

	conj, ok := items[1].Conjugations.Get()
	require.True(t, ok)
	assert.Equal(t, "corres", conj.Forms[1].Form)
	assert.Equal(t, "data:image/png;base64,AAAA", items[1].ImageURL.OrElse(""))
	assert.False(t, items[0].Conjugations.IsSome())
	assert.True(t, items[1].Timestamp.Equal(verb.Timestamp))
	assert.Equal(t, "Portuguese (Portugal)", items[1].TargetLang)
}

func TestLoad_CorruptStateIsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, kv.KeyNotebook, `[{"id":`))

	s := Load(ctx, mem, nil)
	assert.Equal(t, 0, s.Len())

	_, added, err := s.Save(ctx, result("nova"))
	require.NoError(t, err)
	assert.True(t, added)
}

func TestSave_PersistFailureIsReported(t *testing.T) {
	ctx := context.Background()
	store := &countingKV{Memory: kv.NewMemory(), setErr: errors.New("disk full")}
	s := Load(ctx, store, nil)

	_, added, err := s.Save(ctx, result("x"))
	require.Error(t, err)
	assert.False(t, added)
	assert.Equal(t, 0, s.Len())

	store.setErr = nil
	item, added, err := s.Save(ctx, result("x"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, s.Len())

	reloaded := Load(ctx, store.Memory, nil)
	got, ok := reloaded.Get(item.ID)
	require.True(t, ok)
	assert.Equal(t, "x", got.Word)
}

func TestDeleteAndClear_PersistFailureKeepsItems(t *testing.T) {
	ctx := context.Background()
	store := &countingKV{Memory: kv.NewMemory()}
	s := Load(ctx, store, nil, sequentialIDs())
	item, _, err := s.Save(ctx, result("A"))
	require.NoError(t, err)

	store.setErr = errors.New("disk full")
	require.Error(t, s.Delete(ctx, item.ID))
	assert.Equal(t, 1, s.Len())

	require.Error(t, s.Clear(ctx))
	assert.True(t, s.Contains("A"))
}

func TestList_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), nil)
	_, _, err := s.Save(ctx, result("A"))
	require.NoError(t, err)

	items := s.List()
	items[0].Word = "mutated"
	items[0].Examples[0].Original = "mutated"

	fresh := s.List()
	assert.Equal(t, "A", fresh[0].Word)
	assert.Equal(t, "A!", fresh[0].Examples[0].Original)
}

func TestClearAndFind(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemory(), nil, sequentialIDs())
	_, _, err := s.Save(ctx, result("A"))
	require.NoError(t, err)

	it, ok := s.FindByWord("A")
	require.True(t, ok)
	got, ok := s.Get(it.ID)
	require.True(t, ok)
	assert.Equal(t, "A", got.Word)
	assert.True(t, s.Contains("A"))

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains("A"))
}
