// ABOUTME: Publish facade choosing between a single post and a thread
// ABOUTME: Keeps single-post callers unaware of the threading machinery
package thread

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Option configures a Publisher.
type Option func(*Publisher)

// WithMaxGraphemes sets the per-post budget.
func WithMaxGraphemes(n int) Option {
	return func(p *Publisher) {
		p.maxGraphemes = n
	}
}

// WithStrict makes over-budget fragments and label overflows errors.
func WithStrict(strict bool) Option {
	return func(p *Publisher) {
		p.strict = strict
	}
}

// WithLogger injects a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// Result holds the URLs of a publish call.
type Result struct {
	URLs     []string
	Threaded bool
}

// String joins the URLs one per line.
func (r Result) String() string {
	return strings.Join(r.URLs, "\n")
}

// Publisher posts text, threading it when it exceeds the budget.
type Publisher struct {
	poster       Poster
	linker       *Linker
	maxGraphemes int
	strict       bool
	logger       *zap.Logger
}

// NewPublisher creates a Publisher over poster.
func NewPublisher(poster Poster, opts ...Option) *Publisher {
	p := &Publisher{
		poster:       poster,
		maxGraphemes: DefaultMaxGraphemes,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxGraphemes <= 0 {
		p.maxGraphemes = DefaultMaxGraphemes
	}

	segmenter := &Segmenter{MaxGraphemes: p.maxGraphemes, Strict: p.strict}
	p.linker = NewLinker(poster, segmenter, p.logger)
	return p
}

// MaxGraphemes returns the configured per-post budget.
func (p *Publisher) MaxGraphemes() int {
	return p.maxGraphemes
}

// Strict reports whether over-budget chunks are errors.
func (p *Publisher) Strict() bool {
	return p.strict
}

// Publish posts text as one unlinked post when it fits, otherwise as a thread.
// On a thread failure the partial URLs are returned in Result alongside the error.
// Blank text returns ErrEmptyText without posting.
func (p *Publisher) Publish(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyText
	}

	graphemes := Count(text)
	if graphemes <= p.maxGraphemes {
		p.logger.Debug("publishing single post", zap.Int("graphemes", graphemes))
		record, err := p.poster.Post(ctx, text, nil)
		if err != nil {
			return Result{}, &SubmissionError{Index: 0, Total: 1, Err: err}
		}
		return Result{URLs: []string{record.URL}}, nil
	}

	p.logger.Debug("publishing thread",
		zap.Int("graphemes", graphemes),
		zap.Int("budget", p.maxGraphemes))
	urls, err := p.linker.PublishThread(ctx, text)
	if err != nil {
		return Result{URLs: urls, Threaded: true}, fmt.Errorf("publishing thread: %w", err)
	}
	return Result{URLs: urls, Threaded: true}, nil
}
