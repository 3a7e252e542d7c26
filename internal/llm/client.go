// Package llm provides the Gemini client behind every AI collaborator:
// definitions, illustrations, speech, chat and stories.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/f3rmion/palavra/internal/palavra"
)

const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultTextModel   = "gemini-2.5-flash"
	DefaultImageModel  = "gemini-2.5-flash-image"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"
	defaultTimeout     = 60 * time.Second
)

// Config configures a Client. APIKey and TextModel are read on every
// request so settings changes apply to the next call.
type Config struct {
	BaseURL     string
	APIKey      func() string
	TextModel   func() string
	ImageModel  string
	SpeechModel string
	Voice       string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *slog.Logger

	// RequestsPerMinute caps outgoing requests. Zero means unlimited.
	RequestsPerMinute int
}

// Client is a Gemini generateContent client.
type Client struct {
	baseURL     string
	apiKey      func() string
	textModel   func() string
	imageModel  string
	speechModel string
	voice       string
	httpClient  *http.Client
	limiter     *rate.Limiter
	log         *slog.Logger
}

// NewClient creates a client, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		textModel:   cfg.TextModel,
		imageModel:  cfg.ImageModel,
		speechModel: cfg.SpeechModel,
		voice:       cfg.Voice,
		httpClient:  cfg.HTTPClient,
		log:         cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.apiKey == nil {
		c.apiKey = func() string { return "" }
	}
	if c.textModel == nil {
		c.textModel = func() string { return DefaultTextModel }
	}
	if c.imageModel == "" {
		c.imageModel = DefaultImageModel
	}
	if c.speechModel == "" {
		c.speechModel = DefaultSpeechModel
	}
	if c.voice == "" {
		c.voice = DefaultVoice
	}
	if c.httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 2)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// Define asks the text model for a structured definition.
func (c *Client) Define(ctx context.Context, req palavra.DefinitionRequest) (palavra.Definition, error) {
	temp := 0.4
	body := request{
		Contents: []content{userText(buildDefinitionPrompt(req))},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   definitionSchema(),
			Temperature:      &temp,
		},
	}

	resp, err := c.generate(ctx, c.textModel(), body)
	if err != nil {
		return palavra.Definition{}, err
	}

	text := resp.text()
	if text == "" {
		return palavra.Definition{}, fmt.Errorf("%w: no text in definition response", palavra.ErrMalformedResponse)
	}

	var p definitionPayload
	if err := json.Unmarshal([]byte(stripFences(text)), &p); err != nil {
		return palavra.Definition{}, fmt.Errorf("%w: decoding definition: %w", palavra.ErrMalformedResponse, err)
	}
	return p.toDefinition(), nil
}

// Illustrate asks the image model for a concept picture of query. None is
// returned when the model answers without an image part.
func (c *Client) Illustrate(ctx context.Context, query string) (palavra.Optional[string], error) {
	body := request{
		Contents: []content{userText(buildIllustrationPrompt(query))},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}

	resp, err := c.generate(ctx, c.imageModel, body)
	if err != nil {
		return palavra.None[string](), err
	}

	data := resp.inline("image/")
	if data == nil {
		return palavra.None[string](), nil
	}
	return palavra.Some(fmt.Sprintf("data:%s;base64,%s", data.MimeType, data.Data)), nil
}

// Speak synthesizes text with the configured prebuilt voice. The payload is
// base64 PCM, 24 kHz mono signed 16-bit little-endian.
func (c *Client) Speak(ctx context.Context, text string) (palavra.Optional[string], error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return palavra.None[string](), palavra.ErrEmptyQuery
	}

	body := request{
		Contents: []content{userText(text)},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: c.voice},
				},
			},
		},
	}

	resp, err := c.generate(ctx, c.speechModel, body)
	if err != nil {
		return palavra.None[string](), err
	}

	data := resp.inline("audio/")
	if data == nil || data.Data == "" {
		return palavra.None[string](), nil
	}
	return palavra.Some(data.Data), nil
}

// Chat forwards the whole transcript and returns the model's reply.
func (c *Client) Chat(ctx context.Context, turns []palavra.Turn) (string, error) {
	if len(turns) == 0 {
		return "", palavra.ErrEmptyQuery
	}

	contents := make([]content, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, content{
			Role:  string(t.Role),
			Parts: []part{{Text: t.Text}},
		})
	}

	resp, err := c.generate(ctx, c.textModel(), request{Contents: contents})
	if err != nil {
		return "", err
	}

	reply := strings.TrimSpace(resp.text())
	if reply == "" {
		return "", fmt.Errorf("%w: empty chat reply", palavra.ErrMalformedResponse)
	}
	return reply, nil
}

// Story asks for a short story that uses every headword.
func (c *Client) Story(ctx context.Context, headwords []string, nativeLanguage string) (string, error) {
	temp := 0.9
	body := request{
		Contents:         []content{userText(buildStoryPrompt(headwords, nativeLanguage))},
		GenerationConfig: &generationConfig{Temperature: &temp},
	}

	resp, err := c.generate(ctx, c.textModel(), body)
	if err != nil {
		return "", err
	}

	story := strings.TrimSpace(resp.text())
	if story == "" {
		return "", fmt.Errorf("%w: empty story", palavra.ErrMalformedResponse)
	}
	return story, nil
}

// generate posts one generateContent request for model.
func (c *Client) generate(ctx context.Context, model string, req request) (*response, error) {
	apiKey := strings.TrimSpace(c.apiKey())
	if apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", palavra.ErrCredential)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: making request: %w", palavra.ErrCollaborator, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", palavra.ErrCollaborator, err)
	}

	c.log.Debug("generateContent",
		slog.String("model", model),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, respBody)
		if apiErr.IsCredential() {
			c.log.Warn("AI service rejected the API key", slog.Int("status", resp.StatusCode))
		}
		return nil, apiErr
	}

	var out response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling response: %w", palavra.ErrMalformedResponse, err)
	}
	if len(out.Candidates) == 0 {
		reason := "no candidates"
		if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
			reason = "blocked: " + out.PromptFeedback.BlockReason
		}
		return nil, fmt.Errorf("%w: %s", palavra.ErrMalformedResponse, reason)
	}
	return &out, nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Status = env.Error.Status
		apiErr.Message = env.Error.Message
		for _, d := range env.Error.Details {
			if d.Reason != "" {
				apiErr.Reason = d.Reason
				break
			}
		}
	}
	return apiErr
}

// IsCredential reports whether err is a credential failure.
func IsCredential(err error) bool {
	return errors.Is(err, palavra.ErrCredential)
}

func userText(text string) content {
	return content{Role: string(palavra.RoleUser), Parts: []part{{Text: text}}}
}

// text concatenates the text parts of the first candidate.
func (r *response) text() string {
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// inline returns the first inline part whose mime type has prefix.
func (r *response) inline(prefix string) *inlineData {
	for _, cand := range r.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && strings.HasPrefix(p.InlineData.MimeType, prefix) {
				return p.InlineData
			}
		}
	}
	return nil
}

func (p definitionPayload) toDefinition() palavra.Definition {
	d := palavra.Definition{
		Word:         strings.TrimSpace(p.Word),
		Explanation:  strings.TrimSpace(p.Explanation),
		FriendlyNote: strings.TrimSpace(p.FriendlyNote),
		Examples:     make([]palavra.Example, 0, len(p.Examples)),
	}
	for _, ex := range p.Examples {
		d.Examples = append(d.Examples, palavra.Example{Original: ex.Original, Translated: ex.Translated})
	}
	if p.Conjugations != nil && len(p.Conjugations.Forms) > 0 {
		conj := palavra.Conjugations{
			Infinitive: p.Conjugations.Infinitive,
			TenseName:  p.Conjugations.TenseName,
			Forms:      make([]palavra.ConjugationForm, 0, len(p.Conjugations.Forms)),
		}
		for _, f := range p.Conjugations.Forms {
			conj.Forms = append(conj.Forms, palavra.ConjugationForm{Pronoun: f.Pronoun, Form: f.Form})
		}
		d.Conjugations = palavra.Some(conj)
	}
	return d
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
