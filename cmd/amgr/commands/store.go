// ABOUTME: CLI commands to inspect and delete knowledge stores
// ABOUTME: Knowledge stores are OpenAI vector stores backing file search
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var storeListLimit int

// NewStoreCmd creates the store command group
func NewStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect knowledge stores",
		Long: `Inspect and delete knowledge stores.

Examples:
  amgr store list
  amgr store files vs_abc123
  amgr store delete vs_abc123`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge stores",
		Args:  cobra.NoArgs,
		RunE:  runStoreList,
	}
	listCmd.Flags().IntVar(&storeListLimit, "limit", 20, "Maximum number of stores to show")

	filesCmd := &cobra.Command{
		Use:   "files <store-id>",
		Short: "List files in a knowledge store",
		Args:  cobra.ExactArgs(1),
		RunE:  runStoreFiles,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <store-id>",
		Short: "Delete a knowledge store",
		Args:  cobra.ExactArgs(1),
		RunE:  runStoreDelete,
	}

	cmd.AddCommand(listCmd, filesCmd, deleteCmd)
	return cmd
}

func runStoreList(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(storeListLimit, "--limit"); err != nil {
		return err
	}

	manager, err := appFrom(cmd).manager()
	if err != nil {
		return err
	}

	stores, err := manager.ListKnowledgeStores(cmd.Context(), storeListLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput() {
		return printJSON(out, stores)
	}
	if len(stores) == 0 {
		if !quiet {
			fmt.Fprintf(out, "No knowledge stores found\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tFILES\tSTATUS\tCREATED\tID\n")
	fmt.Fprintf(w, "----\t-----\t------\t-------\t--\n")
	for _, s := range stores {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", truncate(s.Name, 30), s.FileCounts.Total, s.Status, formatUnix(s.CreatedAt), s.ID)
	}
	return w.Flush()
}

func runStoreFiles(cmd *cobra.Command, args []string) error {
	manager, err := appFrom(cmd).manager()
	if err != nil {
		return err
	}

	files, err := manager.ListKnowledgeFiles(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput() {
		return printJSON(out, files)
	}
	if len(files) == 0 {
		if !quiet {
			fmt.Fprintf(out, "No files in %s\n", args[0])
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FILE ID\tSTATUS\tBYTES\tADDED\n")
	fmt.Fprintf(w, "-------\t------\t-----\t-----\n")
	for _, f := range files {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", f.ID, f.Status, f.UsageBytes, formatUnix(f.CreatedAt))
	}
	return w.Flush()
}

func runStoreDelete(cmd *cobra.Command, args []string) error {
	manager, err := appFrom(cmd).manager()
	if err != nil {
		return err
	}

	if err := manager.DeleteKnowledgeStore(cmd.Context(), args[0]); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted knowledge store %s\n", args[0])
	}
	return nil
}
