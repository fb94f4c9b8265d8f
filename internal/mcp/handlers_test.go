// ABOUTME: Tests for MCP tool handlers
// ABOUTME: Uses a fake assistant service and the dry-run poster
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/assistant-manager/internal/bluesky"
	"github.com/harper/assistant-manager/internal/llm"
	"github.com/harper/assistant-manager/internal/thread"
)

type fakeAssistants struct {
	tip        *llm.Tip
	err        error
	assistants []openai.Assistant
	lastReq    llm.TipRequest
	lastLimit  int
}

func (f *fakeAssistants) GenerateTip(_ context.Context, req llm.TipRequest) (*llm.Tip, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	tip := *f.tip
	return &tip, nil
}

func (f *fakeAssistants) ListAssistants(_ context.Context, limit int) ([]openai.Assistant, error) {
	f.lastLimit = limit
	return f.assistants, f.err
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content should be text")
	return text.Text
}

func dryRunFactory(poster *bluesky.DryRunPoster) PosterFactory {
	return func(ctx context.Context, dryRun bool) (thread.Poster, error) {
		return poster, nil
	}
}

func TestRegisterTools(t *testing.T) {
	server := mcpserver.NewMCPServer("test", "0.0.0")
	RegisterTools(server, Deps{})

	tools := server.ListTools()
	for _, name := range []string{"generate_tip", "publish_post", "list_assistants"} {
		assert.Contains(t, tools, name)
	}
	assert.Len(t, tools, 3)
}

func TestGenerateTip(t *testing.T) {
	fake := &fakeAssistants{tip: &llm.Tip{
		Topic:       "testing",
		Text:        "Use **table-driven** tests【1:0†go.md】.",
		AssistantID: "asst_1",
		RunID:       "run_1",
	}}
	h := NewHandlers(Deps{Assistants: fake})

	result, err := h.GenerateTip(context.Background(), callRequest(map[string]interface{}{
		"topic":        "testing",
		"assistant_id": "asst_1",
		"max_tokens":   float64(80),
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var tip llm.Tip
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &tip))
	assert.Equal(t, "Use table-driven tests.", tip.Text)
	assert.Equal(t, "run_1", tip.RunID)
	assert.Equal(t, llm.TipRequest{AssistantID: "asst_1", Topic: "testing", MaxTokens: 80}, fake.lastReq)
}

func TestGenerateTip_RawAndDefaults(t *testing.T) {
	fake := &fakeAssistants{tip: &llm.Tip{Text: "**raw**"}}
	h := NewHandlers(Deps{Assistants: fake})

	result, err := h.GenerateTip(context.Background(), callRequest(map[string]interface{}{
		"topic":        "go",
		"assistant_id": "asst_1",
		"raw":          true,
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), `"text":"**raw**"`)
	assert.Equal(t, llm.DefaultMaxTokens, fake.lastReq.MaxTokens)
}

func TestGenerateTip_Errors(t *testing.T) {
	tests := []struct {
		name     string
		deps     Deps
		args     map[string]interface{}
		contains string
	}{
		{"missing topic", Deps{Assistants: &fakeAssistants{}}, map[string]interface{}{"assistant_id": "a"}, "topic argument is required"},
		{"missing assistant", Deps{Assistants: &fakeAssistants{}}, map[string]interface{}{"topic": "go"}, "assistant_id argument is required"},
		{"not configured", Deps{}, map[string]interface{}{"topic": "go", "assistant_id": "a"}, "OPENAI_API_KEY"},
		{"run failed", Deps{Assistants: &fakeAssistants{err: llm.ErrRunFailed}}, map[string]interface{}{"topic": "go", "assistant_id": "a"}, "tip generation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewHandlers(tt.deps).GenerateTip(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.contains)
		})
	}
}

func TestPublishPost_DryRunThread(t *testing.T) {
	poster := bluesky.NewDryRunPoster("tips.test")
	var gotDryRun bool
	h := NewHandlers(Deps{NewPoster: func(ctx context.Context, dryRun bool) (thread.Poster, error) {
		gotDryRun = dryRun
		return poster, nil
	}})

	text := strings.Repeat("a", 200) + ". " + strings.Repeat("b", 200) + "."
	result, err := h.PublishPost(context.Background(), callRequest(map[string]interface{}{
		"text":    text,
		"dry_run": true,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.True(t, gotDryRun)

	var body struct {
		URLs     []string `json:"urls"`
		Threaded bool     `json:"threaded"`
		DryRun   bool     `json:"dry_run"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &body))
	assert.Len(t, body.URLs, 2)
	assert.True(t, body.Threaded)
	assert.True(t, body.DryRun)
	assert.Len(t, poster.Posts(), 2)
}

func TestPublishPost_MaxGraphemes(t *testing.T) {
	poster := bluesky.NewDryRunPoster("tips.test")
	h := NewHandlers(Deps{NewPoster: dryRunFactory(poster), MaxGraphemes: 1000})

	text := strings.Repeat("a", 200) + ". " + strings.Repeat("b", 200) + "."

	_, err := h.PublishPost(context.Background(), callRequest(map[string]interface{}{"text": text}))
	require.NoError(t, err)
	assert.Len(t, poster.Posts(), 1)

	_, err = h.PublishPost(context.Background(), callRequest(map[string]interface{}{
		"text":          "One sentence here. Another one there.",
		"max_graphemes": float64(25),
	}))
	require.NoError(t, err)
	assert.Len(t, poster.Posts(), 3)
}

func TestPublishPost_Errors(t *testing.T) {
	h := NewHandlers(Deps{})
	result, err := h.PublishPost(context.Background(), callRequest(map[string]interface{}{"text": "hi"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "BLUESKY_IDENTIFIER")

	h = NewHandlers(Deps{NewPoster: func(context.Context, bool) (thread.Poster, error) {
		return nil, errors.New("bad password")
	}})
	result, err = h.PublishPost(context.Background(), callRequest(map[string]interface{}{"text": "hi"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "bad password")

	result, err = h.PublishPost(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestPublishPost_BlankText(t *testing.T) {
	poster := bluesky.NewDryRunPoster("tips.test")
	connected := false
	h := NewHandlers(Deps{NewPoster: func(context.Context, bool) (thread.Poster, error) {
		connected = true
		return poster, nil
	}})

	for _, text := range []string{"", "   ", strings.Repeat(" ", 310)} {
		result, err := h.PublishPost(context.Background(), callRequest(map[string]interface{}{"text": text}))
		require.NoError(t, err)
		assert.True(t, result.IsError, "blank text %q must not report success", text)
		assert.Contains(t, resultText(t, result), "blank")
	}
	assert.False(t, connected)
	assert.Empty(t, poster.Posts())
}

func TestPublishPost_Strict(t *testing.T) {
	poster := bluesky.NewDryRunPoster("tips.test")
	oversized := strings.Repeat("x", 310)

	h := NewHandlers(Deps{NewPoster: dryRunFactory(poster)})
	result, err := h.PublishPost(context.Background(), callRequest(map[string]interface{}{
		"text":   oversized,
		"strict": true,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Empty(t, poster.Posts())

	h = NewHandlers(Deps{NewPoster: dryRunFactory(poster), Strict: true})
	result, err = h.PublishPost(context.Background(), callRequest(map[string]interface{}{"text": oversized}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Empty(t, poster.Posts())

	result, err = h.PublishPost(context.Background(), callRequest(map[string]interface{}{
		"text":   oversized,
		"strict": false,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Len(t, poster.Posts(), 1)
}

func TestListAssistants(t *testing.T) {
	name := "Tips"
	fake := &fakeAssistants{assistants: []openai.Assistant{
		{
			ID:    "asst_1",
			Name:  &name,
			Model: "gpt-4o",
			ToolResources: &openai.AssistantToolResource{
				FileSearch: &openai.AssistantToolFileSearch{VectorStoreIDs: []string{"vs_1"}},
			},
		},
		{ID: "asst_2", Model: "gpt-4o-mini"},
	}}
	h := NewHandlers(Deps{Assistants: fake})

	result, err := h.ListAssistants(context.Background(), callRequest(map[string]interface{}{"limit": float64(5)}))
	require.NoError(t, err)
	assert.Equal(t, 5, fake.lastLimit)

	var body struct {
		Assistants []assistantSummary `json:"assistants"`
		Count      int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, assistantSummary{ID: "asst_1", Name: "Tips", Model: "gpt-4o", KnowledgeStoreID: "vs_1"}, body.Assistants[0])
	assert.Equal(t, "", body.Assistants[1].Name)
}

func TestListAssistants_Errors(t *testing.T) {
	result, err := NewHandlers(Deps{}).ListAssistants(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	h := NewHandlers(Deps{Assistants: &fakeAssistants{err: errors.New("boom")}})
	result, err = h.ListAssistants(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "boom")
}
