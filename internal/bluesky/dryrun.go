// ABOUTME: Poster that records posts locally instead of publishing them
// ABOUTME: Lets --dry-run exercise the full threading path offline
package bluesky

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/google/uuid"

	"github.com/harper/assistant-manager/internal/thread"
)

const dryRunDID = "did:plc:dryrun"

// DryRunPost is one post captured by DryRunPoster
type DryRunPost struct {
	Text  string
	URI   string
	Reply *thread.ReplyRef
}

// DryRunPoster implements thread.Poster without network access
type DryRunPoster struct {
	handle string

	mu    sync.Mutex
	posts []DryRunPost
}

var _ thread.Poster = (*DryRunPoster)(nil)

// NewDryRunPoster creates a dry-run poster. Links use handle, or the
// placeholder DID when handle is empty or not a valid handle (such as a
// login email address).
func NewDryRunPoster(handle string) *DryRunPoster {
	return &DryRunPoster{handle: dryRunHandle(handle)}
}

func dryRunHandle(identifier string) string {
	h, err := syntax.ParseHandle(identifier)
	if err != nil {
		return ""
	}
	return h.Normalize().String()
}

// Post records text and returns a synthetic record
func (d *DryRunPoster) Post(ctx context.Context, text string, reply *thread.ReplyRef) (thread.PostRecord, error) {
	if err := ctx.Err(); err != nil {
		return thread.PostRecord{}, err
	}

	rkey := strings.ReplaceAll(uuid.NewString(), "-", "")
	uri := fmt.Sprintf("at://%s/%s/%s", dryRunDID, postCollection, rkey)
	url, err := PostURL(d.handle, uri)
	if err != nil {
		return thread.PostRecord{}, err
	}

	d.mu.Lock()
	d.posts = append(d.posts, DryRunPost{Text: text, URI: uri, Reply: reply})
	d.mu.Unlock()

	return thread.PostRecord{
		URI:    uri,
		CID:    "dryrun-" + rkey,
		Handle: d.handle,
		URL:    url,
	}, nil
}

// Posts returns the captured posts in order
func (d *DryRunPoster) Posts() []DryRunPost {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DryRunPost(nil), d.posts...)
}
