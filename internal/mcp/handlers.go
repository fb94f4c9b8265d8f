// ABOUTME: MCP tool handler implementations for the assistant manager
// ABOUTME: Tool failures are returned as tool errors so the agent sees them
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/harper/assistant-manager/internal/llm"
	"github.com/harper/assistant-manager/internal/textutil"
	"github.com/harper/assistant-manager/internal/thread"
)

// Assistants is the part of llm.Manager the tools use
type Assistants interface {
	GenerateTip(ctx context.Context, req llm.TipRequest) (*llm.Tip, error)
	ListAssistants(ctx context.Context, limit int) ([]openai.Assistant, error)
}

// PosterFactory returns the poster for one publish call
type PosterFactory func(ctx context.Context, dryRun bool) (thread.Poster, error)

// Deps are the services behind the tools. Nil services make their tools
// report that they are not configured.
type Deps struct {
	Assistants   Assistants
	NewPoster    PosterFactory
	MaxGraphemes int
	Strict       bool
	Logger       *zap.Logger
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	assistants   Assistants
	newPoster    PosterFactory
	maxGraphemes int
	strict       bool
	logger       *zap.Logger
}

// NewHandlers creates handlers over deps
func NewHandlers(deps Deps) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxGraphemes := deps.MaxGraphemes
	if maxGraphemes <= 0 {
		maxGraphemes = thread.DefaultMaxGraphemes
	}
	return &Handlers{
		assistants:   deps.Assistants,
		newPoster:    deps.NewPoster,
		maxGraphemes: maxGraphemes,
		strict:       deps.Strict,
		logger:       logger,
	}
}

type assistantSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Model            string `json:"model"`
	KnowledgeStoreID string `json:"knowledge_store_id,omitempty"`
}

// GenerateTip handles the generate_tip tool
func (h *Handlers) GenerateTip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("topic argument is required and must be a string"), nil
	}
	assistantID, err := request.RequireString("assistant_id")
	if err != nil {
		return mcp.NewToolResultError("assistant_id argument is required and must be a string"), nil
	}
	if h.assistants == nil {
		return mcp.NewToolResultError("OpenAI is not configured: set OPENAI_API_KEY"), nil
	}

	logger := h.requestLogger("generate_tip")
	tip, err := h.assistants.GenerateTip(ctx, llm.TipRequest{
		AssistantID: assistantID,
		Topic:       topic,
		MaxTokens:   request.GetInt("max_tokens", llm.DefaultMaxTokens),
	})
	if err != nil {
		logger.Warn("tip generation failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("tip generation failed: %v", err)), nil
	}

	if !request.GetBool("raw", false) {
		tip.Text = textutil.PlainText(tip.Text)
	}
	logger.Info("generated tip", zap.String("run_id", tip.RunID))

	return jsonResult(tip)
}

// PublishPost handles the publish_post tool
func (h *Handlers) PublishPost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text must not be blank"), nil
	}
	if h.newPoster == nil {
		return mcp.NewToolResultError("Bluesky is not configured: set BLUESKY_IDENTIFIER and BLUESKY_PASSWORD"), nil
	}

	dryRun := request.GetBool("dry_run", false)
	logger := h.requestLogger("publish_post")

	poster, err := h.newPoster(ctx, dryRun)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("connecting to Bluesky: %v", err)), nil
	}

	publisher := thread.NewPublisher(poster,
		thread.WithMaxGraphemes(request.GetInt("max_graphemes", h.maxGraphemes)),
		thread.WithStrict(request.GetBool("strict", h.strict)),
		thread.WithLogger(logger))

	result, err := publisher.Publish(ctx, text)
	if err != nil {
		msg := fmt.Sprintf("publishing failed: %v", err)
		if len(result.URLs) > 0 {
			msg = fmt.Sprintf("%s\nalready published:\n%s", msg, result)
		}
		if errors.Is(err, thread.ErrSubmissionFailed) {
			logger.Warn("publish stopped", zap.Int("published", len(result.URLs)), zap.Error(err))
		}
		return mcp.NewToolResultError(msg), nil
	}

	return jsonResult(map[string]interface{}{
		"urls":     result.URLs,
		"threaded": result.Threaded,
		"dry_run":  dryRun,
	})
}

// ListAssistants handles the list_assistants tool
func (h *Handlers) ListAssistants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.assistants == nil {
		return mcp.NewToolResultError("OpenAI is not configured: set OPENAI_API_KEY"), nil
	}

	assistants, err := h.assistants.ListAssistants(ctx, request.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing assistants failed: %v", err)), nil
	}

	summaries := make([]assistantSummary, 0, len(assistants))
	for _, a := range assistants {
		s := assistantSummary{ID: a.ID, Model: a.Model, KnowledgeStoreID: llm.KnowledgeStoreID(a)}
		if a.Name != nil {
			s.Name = *a.Name
		}
		summaries = append(summaries, s)
	}

	return jsonResult(map[string]interface{}{
		"assistants": summaries,
		"count":      len(summaries),
	})
}

func (h *Handlers) requestLogger(tool string) *zap.Logger {
	return h.logger.With(zap.String("tool", tool), zap.String("request_id", uuid.NewString()))
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
