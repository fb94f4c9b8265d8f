// ABOUTME: Root command, global flags, and per-invocation setup
// ABOUTME: Loads .env, builds the logger, and runs commands under a signal-aware context
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/assistant-manager/internal/config"
	"github.com/harper/assistant-manager/internal/logging"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

var outputFormats = []string{"auto", "json", "text"}

const banner = `
  █████╗ ███╗   ███╗ ██████╗ ██████╗
 ██╔══██╗████╗ ████║██╔════╝ ██╔══██╗
 ███████║██╔████╔██║██║  ███╗██████╔╝
 ██╔══██║██║╚██╔╝██║██║   ██║██╔══██╗
 ██║  ██║██║ ╚═╝ ██║╚██████╔╝██║  ██║
 ╚═╝  ╚═╝╚═╝     ╚═╝ ╚═════╝ ╚═╝  ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amgr",
		Short: "Manage OpenAI assistants and publish their tips to Bluesky",
		Long: banner + `
amgr creates OpenAI assistants, feeds them knowledge files, asks them
for tips, and publishes the results to Bluesky. Text longer than one
post is split at sentence boundaries into a numbered reply thread.

Credentials are read from the environment or a .env file:
  OPENAI_API_KEY, BLUESKY_IDENTIFIER, BLUESKY_PASSWORD`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = appFrom(cmd).logger.Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, or text")

	cmd.AddCommand(
		NewAssistantCmd(),
		NewUploadCmd(),
		NewStoreCmd(),
		NewTipCmd(),
		NewPostCmd(),
		NewProfileCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command until completion or interrupt
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}

// setup validates global flags and attaches the per-invocation app state
func setup(cmd *cobra.Command, args []string) error {
	if verbose && quiet {
		return errors.New("--verbose and --quiet are mutually exclusive")
	}
	if !containsString(outputFormats, outputFormat) {
		return fmt.Errorf("invalid --format %q: must be one of auto, json, text", outputFormat)
	}

	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	logger, err := logging.New(logging.Options{
		Verbose: verbose,
		Quiet:   quiet,
		JSON:    outputFormat == "json",
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appKey{}, &app{logger: logger}))
	return nil
}

type appKey struct{}

// app is the state shared by one command invocation
type app struct {
	logger *zap.Logger
	cfg    *config.Config
}

// appFrom returns the invocation state, falling back to a quiet default when
// a command runs without the root (as in tests).
func appFrom(cmd *cobra.Command) *app {
	if ctx := cmd.Context(); ctx != nil {
		if a, ok := ctx.Value(appKey{}).(*app); ok {
			return a
		}
	}
	return &app{logger: zap.NewNop()}
}

// config loads configuration once per invocation
func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	a.cfg = cfg
	return cfg, nil
}
