package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/palavra/internal/palavra"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:   srv.URL,
		APIKey:    func() string { return "test-key" },
		TextModel: func() string { return "text-model" },
	})
}

func textResponse(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": text}},
			}},
		},
	})
	return string(b)
}

func inlineResponse(mime, data string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{
				"parts": []any{map[string]any{"inlineData": map[string]any{"mimeType": mime, "data": data}}},
			}},
		},
	})
	return string(b)
}

func TestDefine(t *testing.T) {
	var gotPath, gotKey string
	var gotBody request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		_, _ = io.WriteString(w, textResponse(`{
			"word": "comboio",
			"explanation": "A train.",
			"examples": [{"original": "O comboio chegou.", "translated": "The train arrived."}],
			"friendlyNote": "Brazilians say trem.",
			"conjugations": null
		}`))
	})

	def, err := c.Define(t.Context(), palavra.DefinitionRequest{
		Query:          "train",
		NativeLanguage: "English",
		TargetLanguage: "Portuguese (Portugal)",
		Variant:        palavra.VariantEuropeanPortuguese,
	})
	require.NoError(t, err)

	assert.Equal(t, "/models/text-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.NotNil(t, gotBody.GenerationConfig)
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "European Portuguese")

	assert.Equal(t, "comboio", def.Word)
	assert.Equal(t, "A train.", def.Explanation)
	assert.Len(t, def.Examples, 1)
	assert.False(t, def.Conjugations.IsSome())
}

func TestDefineWithoutVariantOmitsPortugueseInstructions(t *testing.T) {
	var prompt string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req request
		_ = json.NewDecoder(r.Body).Decode(&req)
		prompt = req.Contents[0].Parts[0].Text
		_, _ = io.WriteString(w, textResponse(`{"word":"Hund","explanation":"dog","examples":[],"friendlyNote":""}`))
	})

	_, err := c.Define(t.Context(), palavra.DefinitionRequest{Query: "dog", NativeLanguage: "English", TargetLanguage: "German"})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "European Portuguese")
}

func TestDefineConjugations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, textResponse("```json\n"+`{
			"word": "falar", "explanation": "to speak", "examples": [], "friendlyNote": "",
			"conjugations": {"infinitive": "falar", "tenseName": "Presente",
				"forms": [{"pronoun": "eu", "form": "falo"}, {"pronoun": "tu", "form": "falas"}]}
		}`+"\n```"))
	})

	def, err := c.Define(t.Context(), palavra.DefinitionRequest{Query: "falar"})
	require.NoError(t, err)

	conj, ok := def.Conjugations.Get()
	require.True(t, ok)
	assert.Equal(t, "Presente", conj.TenseName)
	assert.Equal(t, []palavra.ConjugationForm{{Pronoun: "eu", Form: "falo"}, {Pronoun: "tu", Form: "falas"}}, conj.Forms)
}

func TestDefineMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, textResponse("this is not json"))
	})

	_, err := c.Define(t.Context(), palavra.DefinitionRequest{Query: "x"})
	require.ErrorIs(t, err, palavra.ErrMalformedResponse)
}

func TestCredentialErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		cred   bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, true},
		{"forbidden", http.StatusForbidden, `{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`, true},
		{"invalid key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT","details":[{"reason":"API_KEY_INVALID"}]}}`, true},
		{"bad request", http.StatusBadRequest, `{"error":{"code":400,"message":"bad","status":"INVALID_ARGUMENT"}}`, false},
		{"server error", http.StatusInternalServerError, `oops`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Chat(t.Context(), []palavra.Turn{{Role: palavra.RoleUser, Text: "hi"}})
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.cred, IsCredential(err))
			if !tt.cred {
				assert.ErrorIs(t, err, palavra.ErrCollaborator)
			}
		})
	}
}

func TestMissingKeyMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL, APIKey: func() string { return "  " }})
	_, err := c.Story(t.Context(), []string{"a", "b"}, "English")

	require.ErrorIs(t, err, palavra.ErrCredential)
	assert.Zero(t, calls.Load())
}

func TestTextModelReadPerRequest(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = io.WriteString(w, textResponse("ok"))
	}))
	t.Cleanup(srv.Close)

	model := "first"
	c := NewClient(Config{
		BaseURL:   srv.URL,
		APIKey:    func() string { return "k" },
		TextModel: func() string { return model },
	})

	_, err := c.Chat(t.Context(), []palavra.Turn{{Role: palavra.RoleUser, Text: "hi"}})
	require.NoError(t, err)
	model = "second"
	_, err = c.Chat(t.Context(), []palavra.Turn{{Role: palavra.RoleUser, Text: "hi"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"/models/first:generateContent", "/models/second:generateContent"}, paths)
}

func TestIllustrate(t *testing.T) {
	var req request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, DefaultImageModel+":generateContent"))
		_ = json.NewDecoder(r.Body).Decode(&req)
		_, _ = io.WriteString(w, inlineResponse("image/png", "aGVsbG8="))
	})

	img, err := c.Illustrate(t.Context(), "cat")
	require.NoError(t, err)
	assert.Equal(t, []string{"IMAGE"}, req.GenerationConfig.ResponseModalities)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", img.OrElse(""))
}

func TestIllustrateWithoutImageIsNone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, textResponse("I cannot draw that"))
	})

	img, err := c.Illustrate(t.Context(), "cat")
	require.NoError(t, err)
	assert.False(t, img.IsSome())
}

func TestSpeak(t *testing.T) {
	var req request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&req)
		_, _ = io.WriteString(w, inlineResponse("audio/L16;codec=pcm;rate=24000", "AAAA"))
	})

	audio, err := c.Speak(t.Context(), "olá")
	require.NoError(t, err)
	assert.Equal(t, "AAAA", audio.OrElse(""))
	require.NotNil(t, req.GenerationConfig.SpeechConfig)
	assert.Equal(t, DefaultVoice, req.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
}

func TestChatForwardsRoles(t *testing.T) {
	var req request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&req)
		_, _ = io.WriteString(w, textResponse("  Olá!  "))
	})

	reply, err := c.Chat(t.Context(), []palavra.Turn{
		{Role: palavra.RoleUser, Text: "prime"},
		{Role: palavra.RoleModel, Text: "ok"},
		{Role: palavra.RoleUser, Text: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Olá!", reply)
	require.Len(t, req.Contents, 3)
	assert.Equal(t, "model", req.Contents[1].Role)
}

func TestNoCandidatesIsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`)
	})

	_, err := c.Story(t.Context(), []string{"a", "b"}, "English")
	require.ErrorIs(t, err, palavra.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestRateLimiterHonorsContext(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, textResponse("ok"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:           srv.URL,
		APIKey:            func() string { return "k" },
		RequestsPerMinute: 1,
	})
	turns := []palavra.Turn{{Role: palavra.RoleUser, Text: "hi"}}

	// Burst of two passes, the third has to wait a full minute.
	for range 2 {
		_, err := c.Chat(t.Context(), turns)
		require.NoError(t, err)
	}
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Chat(ctx, turns)
	require.Error(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestTextModelDefault(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = io.WriteString(w, textResponse("ok"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL, APIKey: func() string { return "k" }})
	_, err := c.Chat(t.Context(), []palavra.Turn{{Role: palavra.RoleUser, Text: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "/models/"+DefaultTextModel+":generateContent", path)
}
