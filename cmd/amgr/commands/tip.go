// ABOUTME: CLI command to generate a tip and optionally publish it
// ABOUTME: Replies are flattened to plain text unless --raw is given
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/assistant-manager/internal/llm"
	"github.com/harper/assistant-manager/internal/textutil"
)

var (
	tipAssistantID  string
	tipMaxTokens    int
	tipPublish      bool
	tipDryRun       bool
	tipRaw          bool
	tipMaxGraphemes int
	tipStrict       bool
)

// NewTipCmd creates the tip command
func NewTipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tip <topic>",
		Short: "Generate a tip with an assistant",
		Long: `Generate a concise, practical tip about a topic.

The assistant answers from its instructions and knowledge files. With
--publish the tip is posted to Bluesky, as a numbered thread when it is
longer than one post. --dry-run shows the posts without publishing.

Examples:
  amgr tip "error handling" --assistant-id asst_abc123
  amgr tip "goroutine leaks" --assistant-id asst_abc123 --publish
  amgr tip testing --assistant-id asst_abc123 --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTip,
	}

	cmd.Flags().StringVar(&tipAssistantID, "assistant-id", "", "Assistant to ask (required)")
	cmd.Flags().IntVar(&tipMaxTokens, "max-tokens", llm.DefaultMaxTokens, "Maximum completion tokens for the tip")
	cmd.Flags().BoolVar(&tipPublish, "publish", false, "Publish the tip to Bluesky")
	cmd.Flags().BoolVar(&tipDryRun, "dry-run", false, "Show the posts that would be published")
	cmd.Flags().BoolVar(&tipRaw, "raw", false, "Keep the reply's markdown and citations")
	cmd.Flags().IntVar(&tipMaxGraphemes, "max-graphemes", 0, "Per-post length limit (default from AMGR_MAX_GRAPHEMES)")
	cmd.Flags().BoolVar(&tipStrict, "strict", false, "Fail instead of posting over-length parts (or set AMGR_STRICT)")
	_ = cmd.MarkFlagRequired("assistant-id")

	return cmd
}

type tipOutput struct {
	*llm.Tip
	URLs     []string `json:"urls,omitempty"`
	Threaded bool     `json:"threaded,omitempty"`
	DryRun   bool     `json:"dry_run,omitempty"`
}

func runTip(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(tipMaxTokens, "--max-tokens"); err != nil {
		return err
	}
	if tipMaxGraphemes < 0 {
		return fmt.Errorf("--max-graphemes must not be negative, got %d", tipMaxGraphemes)
	}

	a := appFrom(cmd)
	manager, err := a.manager()
	if err != nil {
		return err
	}

	tip, err := manager.GenerateTip(cmd.Context(), llm.TipRequest{
		AssistantID: tipAssistantID,
		Topic:       strings.Join(args, " "),
		MaxTokens:   tipMaxTokens,
	})
	if err != nil {
		return err
	}
	if !tipRaw {
		tip.Text = textutil.PlainText(tip.Text)
	}

	out := cmd.OutOrStdout()
	result := tipOutput{Tip: tip, DryRun: tipDryRun}

	var publishErr error
	if tipPublish || tipDryRun {
		publisher, err := a.publisher(cmd.Context(), tipDryRun, tipMaxGraphemes, tipStrict)
		if err != nil {
			return err
		}
		published, err := publisher.Publish(cmd.Context(), tip.Text)
		result.URLs = published.URLs
		result.Threaded = published.Threaded
		publishErr = err
	}

	if jsonOutput() {
		if err := printJSON(out, result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "%s\n", tip.Text)
		if len(result.URLs) > 0 {
			fmt.Fprintln(out)
			printPublished(out, result.URLs, result.Threaded, tipDryRun)
		}
	}

	if publishErr != nil {
		return fmt.Errorf("tip generated but not fully published: %w", publishErr)
	}
	return nil
}
