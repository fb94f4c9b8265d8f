// ABOUTME: Tip generation through an assistant thread and run
// ABOUTME: Polls the run with capped exponential backoff until it settles
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/harper/assistant-manager/internal/util"
)

const tipPrompt = "Generate a helpful tip about %s. Be concise and practical."

var (
	// ErrRunFailed is returned when a run ends in a non-successful state
	ErrRunFailed = errors.New("assistant run did not complete")
	// ErrNoResponse is returned when a completed run produced no text
	ErrNoResponse = errors.New("assistant returned no text")
)

// TipRequest asks an assistant for a tip
type TipRequest struct {
	AssistantID string
	Topic       string
	MaxTokens   int
}

// Tip is a generated tip and where it came from
type Tip struct {
	Topic       string `json:"topic"`
	Text        string `json:"text"`
	AssistantID string `json:"assistant_id"`
	ThreadID    string `json:"thread_id"`
	RunID       string `json:"run_id"`
}

// GenerateTip runs the assistant on a fresh thread and returns its reply
func (m *Manager) GenerateTip(ctx context.Context, req TipRequest) (*Tip, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, errors.New("topic is required")
	}
	if req.AssistantID == "" {
		return nil, errors.New("assistant ID is required")
	}

	thread, err := m.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return nil, fmt.Errorf("creating thread: %w", err)
	}

	_, err = m.api.CreateMessage(ctx, thread.ID, openai.MessageRequest{
		Role:    string(openai.ThreadMessageRoleUser),
		Content: fmt.Sprintf(tipPrompt, topic),
	})
	if err != nil {
		return nil, fmt.Errorf("adding message to thread %s: %w", thread.ID, err)
	}

	runReq := openai.RunRequest{AssistantID: req.AssistantID}
	if req.MaxTokens > 0 {
		runReq.MaxCompletionTokens = req.MaxTokens
	}
	run, err := m.api.CreateRun(ctx, thread.ID, runReq)
	if err != nil {
		return nil, fmt.Errorf("starting run: %w", err)
	}

	run, err = m.waitForRun(ctx, thread.ID, run)
	if err != nil {
		return nil, err
	}

	switch run.Status {
	case openai.RunStatusCompleted:
	case openai.RunStatusIncomplete:
		m.logger.Warn("run stopped early, using partial reply",
			zap.String("run_id", run.ID),
			zap.Int("max_tokens", req.MaxTokens))
	default:
		detail := ""
		if run.LastError != nil {
			detail = ": " + run.LastError.Message
		}
		return nil, fmt.Errorf("%w: run %s ended %s%s", ErrRunFailed, run.ID, run.Status, detail)
	}

	text, err := m.latestReply(ctx, thread.ID, run.ID)
	if err != nil {
		return nil, err
	}

	return &Tip{
		Topic:       topic,
		Text:        text,
		AssistantID: req.AssistantID,
		ThreadID:    thread.ID,
		RunID:       run.ID,
	}, nil
}

func (m *Manager) waitForRun(ctx context.Context, threadID string, run openai.Run) (openai.Run, error) {
	for attempt := 0; runPending(run.Status); attempt++ {
		wait := util.PollInterval(m.pollInterval, m.maxPollInterval, attempt)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return run, fmt.Errorf("waiting for run %s: %w", run.ID, ctx.Err())
		case <-timer.C:
		}

		next, err := m.api.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			return run, fmt.Errorf("checking run %s: %w", run.ID, err)
		}
		run = next
		m.logger.Debug("run status",
			zap.String("run_id", run.ID),
			zap.String("status", string(run.Status)),
			zap.Int("attempt", attempt))
	}
	return run, nil
}

func runPending(status openai.RunStatus) bool {
	switch status {
	case openai.RunStatusQueued, openai.RunStatusInProgress, openai.RunStatusCancelling:
		return true
	}
	return false
}

// latestReply returns the text of the newest assistant message from the run
func (m *Manager) latestReply(ctx context.Context, threadID, runID string) (string, error) {
	list, err := m.api.ListMessage(ctx, threadID, intPtr(10), strPtr("desc"), nil, nil, strPtr(runID))
	if err != nil {
		return "", fmt.Errorf("listing messages in thread %s: %w", threadID, err)
	}

	for _, msg := range list.Messages {
		if msg.Role != string(openai.ThreadMessageRoleAssistant) {
			continue
		}
		var parts []string
		for _, content := range msg.Content {
			if content.Text != nil && strings.TrimSpace(content.Text.Value) != "" {
				parts = append(parts, content.Text.Value)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n"), nil
		}
	}
	return "", fmt.Errorf("%w: run %s", ErrNoResponse, runID)
}
