// ABOUTME: CLI command to upload knowledge files to an assistant
// ABOUTME: Reports every file's outcome and fails if any upload failed
package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harper/assistant-manager/internal/llm"
)

var (
	uploadAssistantID string
	uploadFailFast    bool
)

// NewUploadCmd creates the upload command
func NewUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload knowledge files to an assistant",
		Long: `Upload knowledge files to an assistant.

Files are added to the assistant's knowledge store, which is created
and attached to the assistant's file search tool on first use. Every
file is attempted; failures are reported per file.

Examples:
  amgr upload --assistant-id asst_abc123 docs/*.md
  amgr upload --assistant-id asst_abc123 --fail-fast a.pdf b.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: runUpload,
	}

	cmd.Flags().StringVar(&uploadAssistantID, "assistant-id", "", "Assistant to upload to (required)")
	cmd.Flags().BoolVar(&uploadFailFast, "fail-fast", false, "Skip remaining files after the first failure")
	_ = cmd.MarkFlagRequired("assistant-id")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	manager, err := appFrom(cmd).manager()
	if err != nil {
		return err
	}

	results, err := manager.UploadFiles(cmd.Context(), uploadAssistantID, args, llm.UploadOptions{StopOnError: uploadFailFast})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput() {
		if err := printJSON(out, uploadSummaries(results)); err != nil {
			return err
		}
	} else {
		printUploadResults(out, results)
	}
	return uploadError(results)
}

type uploadSummary struct {
	Path   string `json:"path"`
	FileID string `json:"file_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

func uploadSummaries(results []llm.UploadResult) []uploadSummary {
	summaries := make([]uploadSummary, len(results))
	for i, r := range results {
		summaries[i] = uploadSummary{Path: r.Path, FileID: r.FileID}
		if r.Err != nil {
			summaries[i].Error = r.Err.Error()
		}
	}
	return summaries
}

func printUploadResults(w io.Writer, results []llm.UploadResult) {
	for _, r := range results {
		switch {
		case r.OK():
			fmt.Fprintf(w, "✓ %s → %s\n", r.Path, r.FileID)
		case errors.Is(r.Err, llm.ErrSkipped):
			fmt.Fprintf(w, "- %s (skipped)\n", r.Path)
		default:
			fmt.Fprintf(w, "✗ %s: %v\n", r.Path, r.Err)
		}
	}
}

// uploadError summarizes failures so the command exits non-zero
func uploadError(results []llm.UploadResult) error {
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d files were not uploaded", failed, len(results))
}
