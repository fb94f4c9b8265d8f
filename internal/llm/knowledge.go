// ABOUTME: Knowledge store management: vector stores and file uploads
// ABOUTME: Uploads collect a result per file instead of stopping at the first error
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrSkipped marks files not attempted because an earlier upload failed
var ErrSkipped = errors.New("skipped after earlier failure")

// UploadResult is the outcome for one input path
type UploadResult struct {
	Path   string
	FileID string
	Err    error
}

// OK reports whether the file was uploaded and attached
func (r UploadResult) OK() bool {
	return r.Err == nil
}

// UploadOptions controls UploadFiles
type UploadOptions struct {
	// StopOnError skips the remaining files after the first failure
	StopOnError bool
}

// UploadFiles uploads each path and attaches it to the assistant's knowledge
// store, creating and binding the store on first use. The returned slice has
// one entry per path in input order. The error is only set when the store
// itself cannot be resolved.
func (m *Manager) UploadFiles(ctx context.Context, assistantID string, paths []string, opts UploadOptions) ([]UploadResult, error) {
	storeID, err := m.EnsureKnowledgeStore(ctx, assistantID)
	if err != nil {
		return nil, err
	}

	results := make([]UploadResult, 0, len(paths))
	failed := false
	for _, path := range paths {
		if failed && opts.StopOnError {
			results = append(results, UploadResult{Path: path, Err: ErrSkipped})
			continue
		}

		fileID, err := m.uploadFile(ctx, storeID, path)
		if err != nil {
			failed = true
			m.logger.Warn("upload failed", zap.String("path", path), zap.Error(err))
		} else {
			m.logger.Debug("uploaded file",
				zap.String("path", path),
				zap.String("file_id", fileID),
				zap.String("vector_store_id", storeID))
		}
		results = append(results, UploadResult{Path: path, FileID: fileID, Err: err})
	}

	return results, nil
}

// uploadFile returns the file ID even when attaching fails, so the caller
// can see the orphaned upload.
func (m *Manager) uploadFile(ctx context.Context, storeID, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	file, err := m.api.CreateFile(ctx, openai.FileRequest{
		FileName: filepath.Base(path),
		FilePath: path,
		Purpose:  string(openai.PurposeAssistants),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", path, err)
	}

	if _, err := m.api.CreateVectorStoreFile(ctx, storeID, openai.VectorStoreFileRequest{FileID: file.ID}); err != nil {
		return file.ID, fmt.Errorf("attaching %s to store %s: %w", file.ID, storeID, err)
	}
	return file.ID, nil
}

// EnsureKnowledgeStore returns the assistant's vector store, creating one and
// enabling file_search on the assistant when it has none.
func (m *Manager) EnsureKnowledgeStore(ctx context.Context, assistantID string) (string, error) {
	assistant, err := m.GetAssistant(ctx, assistantID)
	if err != nil {
		return "", err
	}
	if id := KnowledgeStoreID(assistant); id != "" {
		return id, nil
	}

	name := assistantID
	if assistant.Name != nil && *assistant.Name != "" {
		name = *assistant.Name
	}
	store, err := m.CreateKnowledgeStore(ctx, name+" knowledge", map[string]any{"assistant_id": assistantID})
	if err != nil {
		return "", err
	}

	tools := assistant.Tools
	if !hasFileSearch(tools) {
		tools = append(tools, openai.AssistantTool{Type: openai.AssistantToolTypeFileSearch})
	}
	_, err = m.api.ModifyAssistant(ctx, assistantID, openai.AssistantRequest{
		Model: assistant.Model,
		Tools: tools,
		ToolResources: &openai.AssistantToolResource{
			FileSearch: &openai.AssistantToolFileSearch{VectorStoreIDs: []string{store.ID}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("attaching store %s to assistant %s: %w", store.ID, assistantID, err)
	}

	m.logger.Info("attached knowledge store",
		zap.String("assistant_id", assistantID),
		zap.String("vector_store_id", store.ID))
	return store.ID, nil
}

// CreateKnowledgeStore creates an empty vector store
func (m *Manager) CreateKnowledgeStore(ctx context.Context, name string, metadata map[string]any) (openai.VectorStore, error) {
	store, err := m.api.CreateVectorStore(ctx, openai.VectorStoreRequest{
		Name:     name,
		Metadata: metadata,
	})
	if err != nil {
		return openai.VectorStore{}, fmt.Errorf("creating knowledge store: %w", err)
	}
	return store, nil
}

// ListKnowledgeStores returns up to limit vector stores
func (m *Manager) ListKnowledgeStores(ctx context.Context, limit int) ([]openai.VectorStore, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	list, err := m.api.ListVectorStores(ctx, openai.Pagination{Limit: intPtr(limit)})
	if err != nil {
		return nil, fmt.Errorf("listing knowledge stores: %w", err)
	}
	return list.VectorStores, nil
}

// ListKnowledgeFiles returns the files attached to a vector store
func (m *Manager) ListKnowledgeFiles(ctx context.Context, storeID string) ([]openai.VectorStoreFile, error) {
	list, err := m.api.ListVectorStoreFiles(ctx, storeID, openai.Pagination{Limit: intPtr(maxListLimit)})
	if err != nil {
		return nil, fmt.Errorf("listing files in store %s: %w", storeID, err)
	}
	return list.VectorStoreFiles, nil
}

// DeleteKnowledgeStore deletes a vector store. Uploaded files remain.
func (m *Manager) DeleteKnowledgeStore(ctx context.Context, storeID string) error {
	resp, err := m.api.DeleteVectorStore(ctx, storeID)
	if err != nil {
		return fmt.Errorf("deleting knowledge store %s: %w", storeID, err)
	}
	if !resp.Deleted {
		return fmt.Errorf("knowledge store %s was not deleted", storeID)
	}
	return nil
}
