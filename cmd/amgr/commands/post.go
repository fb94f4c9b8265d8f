// ABOUTME: CLI command to publish text to Bluesky
// ABOUTME: Long text becomes a numbered reply thread split at sentence boundaries
package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	postFile         string
	postDryRun       bool
	postMaxGraphemes int
	postStrict       bool
)

// NewPostCmd creates the post command
func NewPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post [text]",
		Short: "Publish text to Bluesky",
		Long: `Publish text to Bluesky.

Text that fits in one post is published as-is. Longer text is split at
sentence boundaries (then commas) into posts labeled "1/3 ", "2/3 ", ...
and published as a reply chain. If a post fails, the posts already
published are listed and the rest are not attempted.

A sentence with no commas that is longer than one post is published as
a single over-length part. With --strict nothing is published instead.

Text comes from the arguments, --file, or stdin.

Examples:
  amgr post "Small functions are easier to test."
  amgr post --file tip.txt
  echo "hello" | amgr post
  amgr post --dry-run --file long.txt`,
		RunE: runPost,
	}

	cmd.Flags().StringVarP(&postFile, "file", "f", "", "Read text from a file (- for stdin)")
	cmd.Flags().BoolVar(&postDryRun, "dry-run", false, "Show the posts without publishing")
	cmd.Flags().IntVar(&postMaxGraphemes, "max-graphemes", 0, "Per-post length limit (default from AMGR_MAX_GRAPHEMES)")
	cmd.Flags().BoolVar(&postStrict, "strict", false, "Fail instead of posting over-length parts (or set AMGR_STRICT)")

	return cmd
}

func runPost(cmd *cobra.Command, args []string) error {
	if postMaxGraphemes < 0 {
		return fmt.Errorf("--max-graphemes must not be negative, got %d", postMaxGraphemes)
	}

	text, err := readText(args, postFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	publisher, err := appFrom(cmd).publisher(cmd.Context(), postDryRun, postMaxGraphemes, postStrict)
	if err != nil {
		return err
	}

	result, publishErr := publisher.Publish(cmd.Context(), text)

	out := cmd.OutOrStdout()
	if jsonOutput() {
		if err := printJSON(out, map[string]interface{}{
			"urls":     result.URLs,
			"threaded": result.Threaded,
			"dry_run":  postDryRun,
		}); err != nil {
			return err
		}
	} else if len(result.URLs) > 0 {
		printPublished(out, result.URLs, result.Threaded, postDryRun)
	}

	return publishErr
}

func printPublished(w io.Writer, urls []string, threaded, dryRun bool) {
	verb := "Published"
	if dryRun {
		verb = "Dry run"
	}
	if threaded && len(urls) > 1 {
		fmt.Fprintf(w, "%s thread of %d posts:\n", verb, len(urls))
	} else {
		fmt.Fprintf(w, "%s:\n", verb)
	}
	for _, u := range urls {
		fmt.Fprintf(w, "  %s\n", u)
	}
}
