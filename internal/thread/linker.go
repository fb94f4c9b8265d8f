// ABOUTME: Thread linker submits chunks in order as a reply chain
// ABOUTME: Each post replies to the previous one and carries the thread root
package thread

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Linker posts segmented text as a sequential reply chain.
type Linker struct {
	poster    Poster
	segmenter *Segmenter
	logger    *zap.Logger
}

// NewLinker creates a Linker. A nil logger disables logging.
func NewLinker(poster Poster, segmenter *Segmenter, logger *zap.Logger) *Linker {
	if segmenter == nil {
		segmenter = NewSegmenter(DefaultMaxGraphemes)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Linker{
		poster:    poster,
		segmenter: segmenter,
		logger:    logger,
	}
}

// PublishThread segments text and posts every chunk in order, returning the
// post URLs. On failure the remaining chunks are skipped and a
// *SubmissionError is returned together with the URLs already published.
func (l *Linker) PublishThread(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	chunks, err := l.segmenter.Split(text)
	if err != nil {
		return nil, err
	}
	return l.PostChunks(ctx, chunks)
}

// PostChunks posts pre-segmented chunks as a reply chain.
func (l *Linker) PostChunks(ctx context.Context, chunks []string) ([]string, error) {
	var (
		urls   []string
		root   *PostRecord
		parent *PostRecord
	)

	for i, chunk := range chunks {
		var reply *ReplyRef
		if parent != nil {
			reply = &ReplyRef{Root: root.Ref(), Parent: parent.Ref()}
		}

		record, err := l.poster.Post(ctx, chunk, reply)
		if err != nil {
			l.logger.Warn("thread aborted",
				zap.Int("part", i+1),
				zap.Int("total", len(chunks)),
				zap.Int("published", len(urls)),
				zap.Error(err))
			return urls, &SubmissionError{
				Index:     i,
				Total:     len(chunks),
				Published: urls,
				Err:       err,
			}
		}

		urls = append(urls, record.URL)
		l.logger.Debug("posted thread part",
			zap.Int("part", i+1),
			zap.Int("total", len(chunks)),
			zap.String("uri", record.URI))

		rec := record
		parent = &rec
		if root == nil {
			root = &rec
		}
	}

	return urls, nil
}
