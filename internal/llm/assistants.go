// ABOUTME: Assistant CRUD on top of the OpenAI Assistants API
// ABOUTME: Includes YAML assistant definitions for repeatable setup
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// maxListLimit is the largest page the Assistants API returns
const maxListLimit = 100

// AssistantSpec describes an assistant to create
type AssistantSpec struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Model        string   `yaml:"model"`
	Instructions string   `yaml:"instructions"`
	Files        []string `yaml:"files"`
}

// LoadAssistantSpec reads a YAML assistant definition. Relative file paths
// are resolved against the definition's directory.
func LoadAssistantSpec(path string) (*AssistantSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading assistant definition: %w", err)
	}

	var spec AssistantSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing assistant definition %s: %w", path, err)
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("assistant definition %s: name is required", path)
	}

	dir := filepath.Dir(path)
	for i, f := range spec.Files {
		if !filepath.IsAbs(f) {
			spec.Files[i] = filepath.Join(dir, f)
		}
	}

	return &spec, nil
}

// CreateAssistant creates an assistant with file search enabled
func (m *Manager) CreateAssistant(ctx context.Context, spec AssistantSpec) (openai.Assistant, error) {
	if spec.Name == "" {
		return openai.Assistant{}, errors.New("assistant name is required")
	}

	model := spec.Model
	if model == "" {
		model = m.model
	}
	instructions := spec.Instructions
	if instructions == "" {
		instructions = DefaultInstructions
	}

	req := openai.AssistantRequest{
		Model:        model,
		Name:         strPtr(spec.Name),
		Instructions: strPtr(instructions),
		Tools:        []openai.AssistantTool{{Type: openai.AssistantToolTypeFileSearch}},
	}
	if spec.Description != "" {
		req.Description = strPtr(spec.Description)
	}

	assistant, err := m.api.CreateAssistant(ctx, req)
	if err != nil {
		return openai.Assistant{}, fmt.Errorf("creating assistant: %w", err)
	}

	m.logger.Info("created assistant",
		zap.String("assistant_id", assistant.ID),
		zap.String("model", model))
	return assistant, nil
}

// GetAssistant retrieves one assistant
func (m *Manager) GetAssistant(ctx context.Context, assistantID string) (openai.Assistant, error) {
	assistant, err := m.api.RetrieveAssistant(ctx, assistantID)
	if err != nil {
		return openai.Assistant{}, fmt.Errorf("retrieving assistant %s: %w", assistantID, err)
	}
	return assistant, nil
}

// ListAssistants returns up to limit assistants, newest first
func (m *Manager) ListAssistants(ctx context.Context, limit int) ([]openai.Assistant, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	list, err := m.api.ListAssistants(ctx, intPtr(limit), strPtr("desc"), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("listing assistants: %w", err)
	}
	return list.Assistants, nil
}

// DeleteAssistant deletes an assistant. Its knowledge store is left in place.
func (m *Manager) DeleteAssistant(ctx context.Context, assistantID string) error {
	resp, err := m.api.DeleteAssistant(ctx, assistantID)
	if err != nil {
		return fmt.Errorf("deleting assistant %s: %w", assistantID, err)
	}
	if !resp.Deleted {
		return fmt.Errorf("assistant %s was not deleted", assistantID)
	}
	m.logger.Info("deleted assistant", zap.String("assistant_id", assistantID))
	return nil
}

// KnowledgeStoreID returns the vector store attached to the assistant's
// file_search tool, or "" when none is attached.
func KnowledgeStoreID(a openai.Assistant) string {
	if a.ToolResources == nil || a.ToolResources.FileSearch == nil {
		return ""
	}
	if ids := a.ToolResources.FileSearch.VectorStoreIDs; len(ids) > 0 {
		return ids[0]
	}
	return ""
}

func hasFileSearch(tools []openai.AssistantTool) bool {
	for _, tool := range tools {
		if tool.Type == openai.AssistantToolTypeFileSearch {
			return true
		}
	}
	return false
}
