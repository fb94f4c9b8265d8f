// ABOUTME: CLI commands to create, list, show, and delete assistants
// ABOUTME: Create accepts flags or a YAML definition that can also list knowledge files
package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/harper/assistant-manager/internal/llm"
)

var (
	assistantName         string
	assistantDescription  string
	assistantModel        string
	assistantInstructions string
	assistantFromFile     string
	assistantListLimit    int
)

// NewAssistantCmd creates the assistant command group
func NewAssistantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assistant",
		Short: "Manage OpenAI assistants",
		Long: `Manage OpenAI assistants.

Assistants are created with file search enabled so uploaded knowledge
files can ground their tips.

Examples:
  amgr assistant create --name "Go tips" --description "Daily Go advice"
  amgr assistant create --from-file assistant.yaml
  amgr assistant list
  amgr assistant show asst_abc123
  amgr assistant delete asst_abc123`,
	}

	cmd.AddCommand(newAssistantCreateCmd(), newAssistantListCmd(), newAssistantShowCmd(), newAssistantDeleteCmd())
	return cmd
}

func newAssistantCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an assistant",
		Long: `Create an assistant with file search enabled.

A YAML definition may set name, description, model, instructions, and
files. Files are uploaded to the new assistant's knowledge store.
Flags override values from the definition.`,
		Args: cobra.NoArgs,
		RunE: runAssistantCreate,
	}

	cmd.Flags().StringVar(&assistantName, "name", "", "Assistant name")
	cmd.Flags().StringVar(&assistantDescription, "description", "", "Assistant description")
	cmd.Flags().StringVar(&assistantModel, "model", "", "Model (default from AMGR_MODEL)")
	cmd.Flags().StringVar(&assistantInstructions, "instructions", "", "System instructions")
	cmd.Flags().StringVar(&assistantFromFile, "from-file", "", "YAML assistant definition")

	return cmd
}

func runAssistantCreate(cmd *cobra.Command, args []string) error {
	spec := llm.AssistantSpec{}
	if assistantFromFile != "" {
		loaded, err := llm.LoadAssistantSpec(assistantFromFile)
		if err != nil {
			return err
		}
		spec = *loaded
	}
	if assistantName != "" {
		spec.Name = assistantName
	}
	if assistantDescription != "" {
		spec.Description = assistantDescription
	}
	if assistantModel != "" {
		spec.Model = assistantModel
	}
	if assistantInstructions != "" {
		spec.Instructions = assistantInstructions
	}
	if spec.Name == "" {
		return errors.New("--name or a definition with a name is required")
	}

	manager, err := appFrom(cmd).manager()
	if err != nil {
		return err
	}

	assistant, err := manager.CreateAssistant(cmd.Context(), spec)
	if err != nil {
		return err
	}

	var results []llm.UploadResult
	if len(spec.Files) > 0 {
		results, err = manager.UploadFiles(cmd.Context(), assistant.ID, spec.Files, llm.UploadOptions{})
		if err != nil {
			return fmt.Errorf("assistant %s created but knowledge upload failed: %w", assistant.ID, err)
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput() {
		return printJSON(out, map[string]interface{}{
			"assistant": assistant,
			"uploads":   uploadSummaries(results),
		})
	}

	fmt.Fprintf(out, "Created assistant %s (%s)\n", assistant.ID, derefString(assistant.Name))
	if len(results) > 0 {
		printUploadResults(out, results)
	}
	return uploadError(results)
}

func newAssistantListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assistants",
		Args:  cobra.NoArgs,
		RunE:  runAssistantList,
	}
	cmd.Flags().IntVar(&assistantListLimit, "limit", 20, "Maximum number of assistants to show")
	return cmd
}

func runAssistantList(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(assistantListLimit, "--limit"); err != nil {
		return err
	}

	manager, err := appFrom(cmd).manager()
	if err != nil {
		return err
	}

	assistants, err := manager.ListAssistants(cmd.Context(), assistantListLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput() {
		return printJSON(out, assistants)
	}
	if len(assistants) == 0 {
		if !quiet {
			fmt.Fprintf(out, "No assistants found\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tMODEL\tCREATED\tKNOWLEDGE\tID\n")
	fmt.Fprintf(w, "----\t-----\t-------\t---------\t--\n")
	for _, a := range assistants {
		name := derefString(a.Name)
		if name == "" {
			name = "(unnamed)"
		}
		store := llm.KnowledgeStoreID(a)
		if store == "" {
			store = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", truncate(name, 30), a.Model, formatUnix(a.CreatedAt), store, a.ID)
	}
	return w.Flush()
}

func newAssistantShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <assistant-id>",
		Short: "Show one assistant",
		Args:  cobra.ExactArgs(1),
		RunE:  runAssistantShow,
	}
}

func runAssistantShow(cmd *cobra.Command, args []string) error {
	manager, err := appFrom(cmd).manager()
	if err != nil {
		return err
	}

	assistant, err := manager.GetAssistant(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput() {
		return printJSON(out, assistant)
	}

	fmt.Fprintf(out, "ID:           %s\n", assistant.ID)
	fmt.Fprintf(out, "Name:         %s\n", derefString(assistant.Name))
	if d := derefString(assistant.Description); d != "" {
		fmt.Fprintf(out, "Description:  %s\n", d)
	}
	fmt.Fprintf(out, "Model:        %s\n", assistant.Model)
	fmt.Fprintf(out, "Tools:        %s\n", toolNames(assistant.Tools))
	if store := llm.KnowledgeStoreID(assistant); store != "" {
		fmt.Fprintf(out, "Knowledge:    %s\n", store)
	}
	if instr := derefString(assistant.Instructions); instr != "" {
		fmt.Fprintf(out, "Instructions:\n  %s\n", strings.ReplaceAll(instr, "\n", "\n  "))
	}
	return nil
}

func newAssistantDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <assistant-id>",
		Short: "Delete an assistant",
		Long: `Delete an assistant.

The assistant's knowledge store is kept; remove it with
"amgr store delete" if it is no longer needed.`,
		Args: cobra.ExactArgs(1),
		RunE: runAssistantDelete,
	}
}

func runAssistantDelete(cmd *cobra.Command, args []string) error {
	manager, err := appFrom(cmd).manager()
	if err != nil {
		return err
	}

	if err := manager.DeleteAssistant(cmd.Context(), args[0]); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted assistant %s\n", args[0])
	}
	return nil
}

func toolNames(tools []openai.AssistantTool) string {
	if len(tools) == 0 {
		return "-"
	}
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = string(t.Type)
	}
	return strings.Join(names, ", ")
}
