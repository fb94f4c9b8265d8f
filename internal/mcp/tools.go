// ABOUTME: MCP tool definitions and registration for the assistant manager
// ABOUTME: Exposes tip generation, publishing, and assistant listing to LLM agents
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, deps Deps) *Handlers {
	handlers := NewHandlers(deps)

	// 1. generate_tip - ask an assistant for a tip on a topic
	server.AddTool(mcp.Tool{
		Name:        "generate_tip",
		Description: "Generate a concise, practical tip about a topic using an OpenAI assistant and its knowledge files.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Topic to generate a tip about",
				},
				"assistant_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the assistant to use",
				},
				"max_tokens": map[string]interface{}{
					"type":        "number",
					"description": "Maximum completion tokens for the tip (default: 150)",
					"default":     150,
				},
				"raw": map[string]interface{}{
					"type":        "boolean",
					"description": "Return the reply as-is instead of plain text (default: false)",
					"default":     false,
				},
			},
			Required: []string{"topic", "assistant_id"},
		},
	}, handlers.GenerateTip)

	// 2. publish_post - publish text to Bluesky, threading when too long
	server.AddTool(mcp.Tool{
		Name:        "publish_post",
		Description: "Publish text to Bluesky. Text longer than one post is split at sentence boundaries into a numbered reply thread.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Text to publish",
				},
				"dry_run": map[string]interface{}{
					"type":        "boolean",
					"description": "Split and link the posts without publishing (default: false)",
					"default":     false,
				},
				"max_graphemes": map[string]interface{}{
					"type":        "number",
					"description": "Per-post length limit in graphemes (default: 300)",
				},
				"strict": map[string]interface{}{
					"type":        "boolean",
					"description": "Fail instead of publishing a part longer than the limit (default: AMGR_STRICT)",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.PublishPost)

	// 3. list_assistants - list available assistants
	server.AddTool(mcp.Tool{
		Name:        "list_assistants",
		Description: "List OpenAI assistants with their model and knowledge store.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of assistants to return (default: 20)",
					"default":     20,
				},
			},
		},
	}, handlers.ListAssistants)

	return handlers
}
