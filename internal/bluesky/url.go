// ABOUTME: Converts AT URIs of posts into public bsky.app links
// ABOUTME: https://bsky.app/profile/{handle}/post/{rkey}
package bluesky

import (
	"fmt"

	"github.com/bluesky-social/indigo/atproto/syntax"
)

const webHost = "https://bsky.app"

// PostURL builds the web link for a post. When handle is empty the URI's
// authority (usually a DID) is used instead.
func PostURL(handle, atURI string) (string, error) {
	uri, err := syntax.ParseATURI(atURI)
	if err != nil {
		return "", fmt.Errorf("parsing post URI %q: %w", atURI, err)
	}

	rkey := uri.RecordKey().String()
	if rkey == "" {
		return "", fmt.Errorf("post URI %q has no record key", atURI)
	}
	if handle == "" {
		handle = uri.Authority().String()
	}

	return fmt.Sprintf("%s/profile/%s/post/%s", webHost, handle, rkey), nil
}
