// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing, validation, and credential checks
package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Model != DefaultModel {
		t.Errorf("Model = %s, want %s", cfg.Model, DefaultModel)
	}
	if cfg.Bluesky.Host != "https://bsky.social" {
		t.Errorf("Bluesky.Host = %s, want https://bsky.social", cfg.Bluesky.Host)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 500ms", cfg.PollInterval)
	}
	if cfg.MaxPollInterval != 5*time.Second {
		t.Errorf("MaxPollInterval = %v, want 5s", cfg.MaxPollInterval)
	}
	if cfg.MaxGraphemes != 300 {
		t.Errorf("MaxGraphemes = %d, want 300", cfg.MaxGraphemes)
	}
	if cfg.OpenAI.APIKey != "" {
		t.Errorf("OpenAI.APIKey = %q, want empty", cfg.OpenAI.APIKey)
	}
	if cfg.Strict {
		t.Error("Strict = true, want false")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("OPENAI_ORG_ID", "org-123")
	os.Setenv("OPENAI_PROJECT_ID", "proj-456")
	os.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")
	os.Setenv("BLUESKY_HOST", "https://pds.example.com")
	os.Setenv("BLUESKY_IDENTIFIER", "tips.bsky.social")
	os.Setenv("BLUESKY_PASSWORD", "app-password")
	os.Setenv("AMGR_MODEL", "gpt-4o")
	os.Setenv("AMGR_POLL_INTERVAL", "250ms")
	os.Setenv("AMGR_POLL_MAX_INTERVAL", "2s")
	os.Setenv("AMGR_MAX_GRAPHEMES", "500")
	os.Setenv("AMGR_STRICT", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OpenAI.APIKey != "test-key" {
		t.Errorf("OpenAI.APIKey = %s, want test-key", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.OrgID != "org-123" {
		t.Errorf("OpenAI.OrgID = %s, want org-123", cfg.OpenAI.OrgID)
	}
	if cfg.OpenAI.ProjectID != "proj-456" {
		t.Errorf("OpenAI.ProjectID = %s, want proj-456", cfg.OpenAI.ProjectID)
	}
	if cfg.OpenAI.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("OpenAI.BaseURL = %s, want http://localhost:8080/v1", cfg.OpenAI.BaseURL)
	}
	if cfg.Bluesky.Host != "https://pds.example.com" {
		t.Errorf("Bluesky.Host = %s, want https://pds.example.com", cfg.Bluesky.Host)
	}
	if cfg.Bluesky.Identifier != "tips.bsky.social" {
		t.Errorf("Bluesky.Identifier = %s, want tips.bsky.social", cfg.Bluesky.Identifier)
	}
	if cfg.Bluesky.Password != "app-password" {
		t.Errorf("Bluesky.Password = %s, want app-password", cfg.Bluesky.Password)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %s, want gpt-4o", cfg.Model)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.PollInterval)
	}
	if cfg.MaxPollInterval != 2*time.Second {
		t.Errorf("MaxPollInterval = %v, want 2s", cfg.MaxPollInterval)
	}
	if cfg.MaxGraphemes != 500 {
		t.Errorf("MaxGraphemes = %d, want 500", cfg.MaxGraphemes)
	}
	if !cfg.Strict {
		t.Error("Strict = false, want true")
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("AMGR_MAX_GRAPHEMES", "lots")
	os.Setenv("AMGR_POLL_INTERVAL", "soon")
	os.Setenv("AMGR_STRICT", "sometimes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.MaxGraphemes != DefaultMaxGraphemes {
		t.Errorf("MaxGraphemes = %d, want %d", cfg.MaxGraphemes, DefaultMaxGraphemes)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 500ms", cfg.PollInterval)
	}
	if cfg.Strict {
		t.Error("Strict = true, want false for an unparseable value")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{MaxGraphemes: 300, PollInterval: time.Second, MaxPollInterval: time.Second}, false},
		{"budget too small", Config{MaxGraphemes: 5, PollInterval: time.Second, MaxPollInterval: time.Second}, true},
		{"zero poll interval", Config{MaxGraphemes: 300, PollInterval: 0, MaxPollInterval: time.Second}, true},
		{"max below base", Config{MaxGraphemes: 300, PollInterval: 2 * time.Second, MaxPollInterval: time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBluesky_Validate(t *testing.T) {
	tests := []struct {
		name        string
		bsky        Bluesky
		wantMissing bool
		wantErr     bool
		mention     string
	}{
		{
			name:    "complete",
			bsky:    Bluesky{Host: DefaultBlueskyHost, Identifier: "me.bsky.social", Password: "pw"},
			wantErr: false,
		},
		{
			name:        "missing password",
			bsky:        Bluesky{Host: DefaultBlueskyHost, Identifier: "me.bsky.social"},
			wantMissing: true,
			wantErr:     true,
			mention:     "BLUESKY_PASSWORD",
		},
		{
			name:        "missing both",
			bsky:        Bluesky{Host: DefaultBlueskyHost},
			wantMissing: true,
			wantErr:     true,
			mention:     "BLUESKY_IDENTIFIER, BLUESKY_PASSWORD",
		},
		{
			name:    "bad host",
			bsky:    Bluesky{Host: "not a url", Identifier: "me", Password: "pw"},
			wantErr: true,
			mention: "BLUESKY_HOST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bsky.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if got := errors.Is(err, ErrMissingCredentials); got != tt.wantMissing {
				t.Errorf("errors.Is(err, ErrMissingCredentials) = %v, want %v", got, tt.wantMissing)
			}
			if !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("error %q should mention %s", err.Error(), tt.mention)
			}
		})
	}
}

func TestOpenAI_Validate(t *testing.T) {
	if err := (OpenAI{APIKey: "sk-test"}).Validate(); err != nil {
		t.Errorf("Validate() with key = %v, want nil", err)
	}

	err := (OpenAI{}).Validate()
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("Validate() without key = %v, want ErrMissingCredentials", err)
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("error %q should mention OPENAI_API_KEY", err.Error())
	}
}

func TestEnvName(t *testing.T) {
	tests := []struct {
		prefix string
		field  string
		want   string
	}{
		{"OPENAI", "APIKey", "OPENAI_API_KEY"},
		{"BLUESKY", "Identifier", "BLUESKY_IDENTIFIER"},
		{"BLUESKY", "Other", "BLUESKY_OTHER"},
	}

	for _, tt := range tests {
		if got := envName(tt.prefix, tt.field); got != tt.want {
			t.Errorf("envName(%q, %q) = %q, want %q", tt.prefix, tt.field, got, tt.want)
		}
	}
}
