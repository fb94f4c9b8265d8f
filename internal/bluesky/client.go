// ABOUTME: Bluesky client over the AT Protocol XRPC API
// ABOUTME: Authenticates with an app password and publishes posts with reply references
package bluesky

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/api/bsky"
	lexutil "github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"
	"go.uber.org/zap"

	"github.com/harper/assistant-manager/internal/config"
	"github.com/harper/assistant-manager/internal/thread"
)

const (
	postCollection = "app.bsky.feed.post"
	requestTimeout = 30 * time.Second
)

// Profile is the account summary shown by the profile command
type Profile struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	Description string `json:"description,omitempty"`
	Followers   int64  `json:"followers"`
	Follows     int64  `json:"follows"`
	Posts       int64  `json:"posts"`
}

// Client is an authenticated Bluesky session
type Client struct {
	xrpc   *xrpc.Client
	did    string
	handle string
	logger *zap.Logger
	now    func() time.Time
}

var _ thread.Poster = (*Client)(nil)

// New validates credentials and opens a session on cfg.Host.
func New(ctx context.Context, cfg config.Bluesky, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	xc := &xrpc.Client{
		Host:   cfg.Host,
		Client: &http.Client{Timeout: requestTimeout},
	}

	session, err := atproto.ServerCreateSession(ctx, xc, &atproto.ServerCreateSession_Input{
		Identifier: cfg.Identifier,
		Password:   cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("logging in to %s as %s: %w", cfg.Host, cfg.Identifier, err)
	}

	xc.Auth = &xrpc.AuthInfo{
		AccessJwt:  session.AccessJwt,
		RefreshJwt: session.RefreshJwt,
		Handle:     session.Handle,
		Did:        session.Did,
	}

	logger.Debug("bluesky session created",
		zap.String("handle", session.Handle),
		zap.String("did", session.Did))

	return &Client{
		xrpc:   xc,
		did:    session.Did,
		handle: session.Handle,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Handle returns the authenticated account's handle
func (c *Client) Handle() string {
	return c.handle
}

// DID returns the authenticated account's DID
func (c *Client) DID() string {
	return c.did
}

// Post creates one feed post, as a reply when reply is non-nil.
func (c *Client) Post(ctx context.Context, text string, reply *thread.ReplyRef) (thread.PostRecord, error) {
	post := &bsky.FeedPost{
		LexiconTypeID: postCollection,
		Text:          text,
		CreatedAt:     c.now().UTC().Format(time.RFC3339),
	}
	if reply != nil {
		post.Reply = &bsky.FeedPost_ReplyRef{
			Root:   strongRef(reply.Root),
			Parent: strongRef(reply.Parent),
		}
	}

	out, err := atproto.RepoCreateRecord(ctx, c.xrpc, &atproto.RepoCreateRecord_Input{
		Repo:       c.did,
		Collection: postCollection,
		Record:     &lexutil.LexiconTypeDecoder{Val: post},
	})
	if err != nil {
		return thread.PostRecord{}, fmt.Errorf("creating post: %w", err)
	}

	url, err := PostURL(c.handle, out.Uri)
	if err != nil {
		return thread.PostRecord{}, err
	}

	c.logger.Debug("created post", zap.String("uri", out.Uri), zap.String("url", url))
	return thread.PostRecord{
		URI:    out.Uri,
		CID:    out.Cid,
		Handle: c.handle,
		URL:    url,
	}, nil
}

// Profile fetches the authenticated account's profile
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	view, err := bsky.ActorGetProfile(ctx, c.xrpc, c.did)
	if err != nil {
		return nil, fmt.Errorf("fetching profile for %s: %w", c.handle, err)
	}

	p := &Profile{DID: view.Did, Handle: view.Handle}
	if view.DisplayName != nil {
		p.DisplayName = *view.DisplayName
	}
	if view.Description != nil {
		p.Description = *view.Description
	}
	if view.FollowersCount != nil {
		p.Followers = *view.FollowersCount
	}
	if view.FollowsCount != nil {
		p.Follows = *view.FollowsCount
	}
	if view.PostsCount != nil {
		p.Posts = *view.PostsCount
	}
	return p, nil
}

func strongRef(r thread.Ref) *atproto.RepoStrongRef {
	return &atproto.RepoStrongRef{Uri: r.URI, Cid: r.CID}
}
