// Package lookup turns a free-text query into a DictionaryResult by running
// the definition and illustration collaborators concurrently.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/f3rmion/palavra/internal/palavra"
	"github.com/f3rmion/palavra/internal/romanize"
)

// ErrDefinitionFailed wraps any failure of the definition collaborator.
// The cause stays reachable with errors.Is.
var ErrDefinitionFailed = errors.New("definition failed")

// Definer produces the structured part of a lookup.
type Definer interface {
	Define(ctx context.Context, req palavra.DefinitionRequest) (palavra.Definition, error)
}

// Illustrator produces an optional concept image as a data URI.
type Illustrator interface {
	Illustrate(ctx context.Context, query string) (palavra.Optional[string], error)
}

// Status tells a complete result from a degraded one.
type Status int

const (
	StatusOK Status = iota
	// StatusPartial means the illustration failed and the result has no image.
	StatusPartial
)

func (s Status) String() string {
	if s == StatusPartial {
		return "partial"
	}
	return "ok"
}

// Outcome is a successful lookup.
type Outcome struct {
	Result palavra.DictionaryResult
	Status Status
	// Reason is the illustration error for a partial outcome.
	Reason error
}

// Orchestrator runs lookups. It is safe for concurrent use.
type Orchestrator struct {
	definer     Definer
	illustrator Illustrator
	reader      *romanize.Reader
	log         *slog.Logger
	now         func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithClock sets the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an orchestrator.
func New(d Definer, i Illustrator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		definer:     d,
		illustrator: i,
		reader:      romanize.NewReader(),
		log:         slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	return o
}

// Lookup defines query for a learner of target who speaks native. The
// language names are captured for this call only.
func (o *Orchestrator) Lookup(ctx context.Context, query, native, target string) (Outcome, error) {
	query = norm.NFC.String(strings.TrimSpace(query))
	if query == "" {
		return Outcome{}, palavra.ErrEmptyQuery
	}

	start := time.Now()
	log := o.log.With(slog.String("query", query), slog.String("native", native), slog.String("target", target))
	log.Info("lookup started")

	req := palavra.DefinitionRequest{
		Query:          query,
		NativeLanguage: native,
		TargetLanguage: target,
		Variant:        palavra.VariantFor(target),
	}

	var (
		def      palavra.Definition
		image    palavra.Optional[string]
		imageErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := o.definer.Define(gctx, req)
		if err != nil {
			return err
		}
		def = d
		return nil
	})
	g.Go(func() error {
		// Never fails the group: a missing image degrades the result.
		img, err := o.illustrator.Illustrate(gctx, query)
		if err != nil {
			imageErr = err
			return nil
		}
		image = img
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, palavra.ErrCredential) {
			log.Warn("lookup failed: credentials rejected", slog.Any("error", err))
		} else {
			log.Error("lookup failed", slog.Any("error", err))
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Outcome{}, err
		}
		return Outcome{}, fmt.Errorf("%w: %w", ErrDefinitionFailed, err)
	}

	result := palavra.DictionaryResult{
		Word:         def.Word,
		Explanation:  def.Explanation,
		Examples:     def.Examples,
		FriendlyNote: def.FriendlyNote,
		Conjugations: def.Conjugations,
		ImageURL:     image,
		Timestamp:    o.now(),
		SourceLang:   native,
		TargetLang:   target,
	}
	if result.Word == "" {
		result.Word = query
	}
	if result.Examples == nil {
		result.Examples = []palavra.Example{}
	}
	if c, ok := result.Conjugations.Get(); ok && len(c.Forms) == 0 {
		result.Conjugations = palavra.None[palavra.Conjugations]()
	}
	if reading, ok := o.reader.Reading(result.Word, target); ok {
		result.Reading = palavra.Some(reading)
	}

	out := Outcome{Result: result, Status: StatusOK}
	if imageErr != nil {
		out.Status = StatusPartial
		out.Reason = imageErr
		log.Warn("illustration failed, returning partial result", slog.Any("error", imageErr))
	}

	log.Info("lookup finished",
		slog.String("word", result.Word),
		slog.String("status", out.Status.String()),
		slog.Bool("image", result.ImageURL.IsSome()),
		slog.Duration("latency", time.Since(start)),
	)
	return out, nil
}
