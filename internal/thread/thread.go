// ABOUTME: Core types for publishing text as a linked reply chain
// ABOUTME: Defines the Poster capability, post records, reply references, and errors
package thread

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_poster.go -package=mocks github.com/harper/assistant-manager/internal/thread Poster

import (
	"context"
	"errors"
	"fmt"
)

const (
	// DefaultMaxGraphemes is the per-post budget used when none is configured
	DefaultMaxGraphemes = 300
	// LabelReserve is the space kept free for a "N/M " label (single-digit counts)
	LabelReserve = 5
)

var (
	// ErrInputTooLarge is returned in strict mode when a fragment exceeds the budget
	// even after splitting on commas
	ErrInputTooLarge = errors.New("fragment exceeds grapheme budget after comma split")
	// ErrLabelOverflow is returned in strict mode when a labeled chunk exceeds the budget
	// because the thread has more parts than the label reserve allows for
	ErrLabelOverflow = errors.New("thread label does not fit in reserved space")
	// ErrEmptyText is returned when there is nothing but whitespace to publish
	ErrEmptyText = errors.New("nothing to publish")
	// ErrSubmissionFailed wraps any failure returned by the posting capability
	ErrSubmissionFailed = errors.New("post submission failed")
)

// Ref identifies a published post for reply linking.
type Ref struct {
	URI string
	CID string
}

// ReplyRef attaches a new post to an existing conversation.
type ReplyRef struct {
	Root   Ref
	Parent Ref
}

// PostRecord is the result of submitting one chunk.
type PostRecord struct {
	URI    string
	CID    string
	Handle string
	URL    string
}

// Ref returns the linkable reference of the record.
func (r PostRecord) Ref() Ref {
	return Ref{URI: r.URI, CID: r.CID}
}

// Poster is the remote posting capability. Implementations must not batch
// and must return an error rather than dropping a post.
type Poster interface {
	// Post publishes text, as a reply when reply is non-nil.
	Post(ctx context.Context, text string, reply *ReplyRef) (PostRecord, error)
}

// SubmissionError reports which chunk failed and what was already published.
// Published posts are never rolled back.
type SubmissionError struct {
	Index     int
	Total     int
	Published []string
	Err       error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("posting part %d/%d (%d already published): %v", e.Index+1, e.Total, len(e.Published), e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSubmissionFailed) match any SubmissionError.
func (e *SubmissionError) Is(target error) bool {
	return target == ErrSubmissionFailed
}
