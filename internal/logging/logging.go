// ABOUTME: zap logger construction for the CLI and MCP server
// ABOUTME: Maps --verbose/--quiet/--format to level and encoding, always on stderr
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction
type Options struct {
	Verbose bool
	Quiet   bool
	JSON    bool
}

// Level returns the minimum level for the options.
func (o Options) Level() zapcore.Level {
	switch {
	case o.Verbose:
		return zapcore.DebugLevel
	case o.Quiet:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a logger writing to stderr. Stdout is reserved for command
// output and the MCP stdio transport.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.JSON {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.TimeKey = ""
	}

	cfg.Level = zap.NewAtomicLevelAt(opts.Level())
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = !opts.Verbose
	cfg.DisableCaller = !opts.Verbose

	return cfg.Build()
}
