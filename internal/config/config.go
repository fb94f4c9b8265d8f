// ABOUTME: Centralized configuration for the assistant manager CLI
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrMissingCredentials is returned when a remote service is used without credentials.
var ErrMissingCredentials = errors.New("missing credentials")

const (
	// DefaultModel is the model new assistants use unless overridden
	DefaultModel = "gpt-4-1106-preview"
	// DefaultBlueskyHost is the PDS used for Bluesky sessions
	DefaultBlueskyHost = "https://bsky.social"
	// DefaultMaxGraphemes is the Bluesky post length limit
	DefaultMaxGraphemes = 300

	minMaxGraphemes = 10
)

var validate = validator.New()

// OpenAI holds OpenAI API settings
type OpenAI struct {
	APIKey    string `validate:"required"`
	OrgID     string
	ProjectID string
	BaseURL   string `validate:"omitempty,url"`
}

// Bluesky holds Bluesky account settings
type Bluesky struct {
	Host       string `validate:"required,url"`
	Identifier string `validate:"required"`
	Password   string `validate:"required"`
}

// Config holds all configuration for the CLI
type Config struct {
	OpenAI  OpenAI
	Bluesky Bluesky

	// Assistant settings
	Model           string
	PollInterval    time.Duration
	MaxPollInterval time.Duration

	// Publishing settings
	MaxGraphemes int
	Strict       bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAI: OpenAI{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			OrgID:     os.Getenv("OPENAI_ORG_ID"),
			ProjectID: os.Getenv("OPENAI_PROJECT_ID"),
			BaseURL:   os.Getenv("OPENAI_BASE_URL"),
		},
		Bluesky: Bluesky{
			Host:       getEnv("BLUESKY_HOST", DefaultBlueskyHost),
			Identifier: os.Getenv("BLUESKY_IDENTIFIER"),
			Password:   os.Getenv("BLUESKY_PASSWORD"),
		},
		Model:           getEnv("AMGR_MODEL", DefaultModel),
		PollInterval:    getEnvDuration("AMGR_POLL_INTERVAL", 500*time.Millisecond),
		MaxPollInterval: getEnvDuration("AMGR_POLL_MAX_INTERVAL", 5*time.Second),
		MaxGraphemes:    getEnvInt("AMGR_MAX_GRAPHEMES", DefaultMaxGraphemes),
		Strict:          getEnvBool("AMGR_STRICT", false),
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges. Credentials are checked separately, when a
// command actually needs the service.
func (c *Config) Validate() error {
	if c.MaxGraphemes < minMaxGraphemes {
		return fmt.Errorf("AMGR_MAX_GRAPHEMES must be at least %d, got %d", minMaxGraphemes, c.MaxGraphemes)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("AMGR_POLL_INTERVAL must be positive, got %v", c.PollInterval)
	}
	if c.MaxPollInterval < c.PollInterval {
		return fmt.Errorf("AMGR_POLL_MAX_INTERVAL (%v) must not be below AMGR_POLL_INTERVAL (%v)", c.MaxPollInterval, c.PollInterval)
	}
	return nil
}

// Validate checks that OpenAI credentials are present.
func (o OpenAI) Validate() error {
	return validateStruct("OPENAI", o)
}

// Validate checks that Bluesky credentials are present.
func (b Bluesky) Validate() error {
	return validateStruct("BLUESKY", b)
}

// validateStruct runs struct tags and turns missing required fields into
// ErrMissingCredentials naming the environment variables to set.
func validateStruct(prefix string, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var missing, invalid []string
	for _, fe := range validationErrors {
		name := envName(prefix, fe.Field())
		if fe.Tag() == "required" {
			missing = append(missing, name)
		} else {
			invalid = append(invalid, fmt.Sprintf("%s is not a valid %s", name, fe.Tag()))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return errors.New(strings.Join(invalid, "; "))
}

var envFieldNames = map[string]string{
	"APIKey":     "API_KEY",
	"BaseURL":    "BASE_URL",
	"Host":       "HOST",
	"Identifier": "IDENTIFIER",
	"Password":   "PASSWORD",
}

func envName(prefix, field string) string {
	if name, ok := envFieldNames[field]; ok {
		return prefix + "_" + name
	}
	return prefix + "_" + strings.ToUpper(field)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
