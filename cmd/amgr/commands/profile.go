// ABOUTME: CLI command to view the Bluesky account profile
// ABOUTME: Doubles as a credential check before publishing
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/assistant-manager/internal/bluesky"
)

// NewProfileCmd creates profile command
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the Bluesky account profile",
		Long: `Show the Bluesky account that posts are published as.

Logs in with BLUESKY_IDENTIFIER and BLUESKY_PASSWORD, so it is also a
quick way to check credentials.

Examples:
  amgr profile
  amgr profile --format json`,
		Args: cobra.NoArgs,
		RunE: runProfile,
	}

	return cmd
}

func runProfile(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	cfg, err := a.config()
	if err != nil {
		return err
	}

	client, err := bluesky.New(cmd.Context(), cfg.Bluesky, a.logger)
	if err != nil {
		return err
	}

	profile, err := client.Profile(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput() {
		return printJSON(out, profile)
	}

	fmt.Fprintf(out, "Handle:      @%s\n", profile.Handle)
	if profile.DisplayName != "" {
		fmt.Fprintf(out, "Name:        %s\n", profile.DisplayName)
	}
	fmt.Fprintf(out, "DID:         %s\n", profile.DID)
	if profile.Description != "" {
		fmt.Fprintf(out, "Bio:         %s\n", truncate(profile.Description, 80))
	}
	fmt.Fprintf(out, "Posts:       %d\n", profile.Posts)
	fmt.Fprintf(out, "Followers:   %d\n", profile.Followers)
	fmt.Fprintf(out, "Following:   %d\n", profile.Follows)
	return nil
}
