// ABOUTME: OpenAI client construction and the Assistants API surface we depend on
// ABOUTME: Builds a go-openai client from explicit config with org and project headers
package llm

import (
	"context"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/harper/assistant-manager/internal/config"
)

const (
	// DefaultInstructions is the system prompt given to new assistants
	DefaultInstructions = "You are a helpful assistant that generates daily tips based on provided knowledge and topics."
	// DefaultMaxTokens bounds the length of a generated tip
	DefaultMaxTokens = 150

	requestTimeout = 60 * time.Second
)

// AssistantAPI is the subset of *openai.Client used by Manager.
type AssistantAPI interface {
	CreateAssistant(ctx context.Context, request openai.AssistantRequest) (openai.Assistant, error)
	RetrieveAssistant(ctx context.Context, assistantID string) (openai.Assistant, error)
	ModifyAssistant(ctx context.Context, assistantID string, request openai.AssistantRequest) (openai.Assistant, error)
	ListAssistants(ctx context.Context, limit *int, order *string, after *string, before *string) (openai.AssistantsList, error)
	DeleteAssistant(ctx context.Context, assistantID string) (openai.AssistantDeleteResponse, error)

	CreateFile(ctx context.Context, request openai.FileRequest) (openai.File, error)

	CreateVectorStore(ctx context.Context, request openai.VectorStoreRequest) (openai.VectorStore, error)
	ListVectorStores(ctx context.Context, pagination openai.Pagination) (openai.VectorStoresList, error)
	DeleteVectorStore(ctx context.Context, vectorStoreID string) (openai.VectorStoreDeleteResponse, error)
	CreateVectorStoreFile(ctx context.Context, vectorStoreID string, request openai.VectorStoreFileRequest) (openai.VectorStoreFile, error)
	ListVectorStoreFiles(ctx context.Context, vectorStoreID string, pagination openai.Pagination) (openai.VectorStoreFilesList, error)

	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
}

var _ AssistantAPI = (*openai.Client)(nil)

// NewOpenAIClient creates a go-openai client from explicit configuration,
// failing fast with config.ErrMissingCredentials when the API key is absent.
func NewOpenAIClient(cfg config.OpenAI) (*openai.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.OrgID = cfg.OrgID
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	httpClient := &http.Client{Timeout: requestTimeout}
	if cfg.ProjectID != "" {
		httpClient.Transport = &projectTransport{project: cfg.ProjectID, base: http.DefaultTransport}
	}
	clientCfg.HTTPClient = httpClient

	return openai.NewClientWithConfig(clientCfg), nil
}

// projectTransport adds the OpenAI-Project header, which go-openai has no setting for.
type projectTransport struct {
	project string
	base    http.RoundTripper
}

func (t *projectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("OpenAI-Project", t.project)
	return t.base.RoundTrip(req)
}

// ManagerConfig holds Manager settings
type ManagerConfig struct {
	Model           string
	PollInterval    time.Duration
	MaxPollInterval time.Duration
}

// Manager manages assistants, their knowledge stores, and tip generation
type Manager struct {
	api             AssistantAPI
	model           string
	pollInterval    time.Duration
	maxPollInterval time.Duration
	logger          *zap.Logger
}

// NewManager creates a Manager over api. A nil logger disables logging.
func NewManager(api AssistantAPI, cfg ManagerConfig, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.MaxPollInterval < cfg.PollInterval {
		cfg.MaxPollInterval = cfg.PollInterval
	}

	return &Manager{
		api:             api,
		model:           cfg.Model,
		pollInterval:    cfg.PollInterval,
		maxPollInterval: cfg.MaxPollInterval,
		logger:          logger,
	}
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
