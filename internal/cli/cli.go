// Package cli implements the taskflow command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskflow/pkg/buildinfo"
	"github.com/matzehuels/taskflow/pkg/config"
	"github.com/matzehuels/taskflow/pkg/observability"
)

// appName is the application name used for display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit statuses beyond the usual 0 and 1.
const (
	ExitCycles    = 2
	ExitCancelled = 130
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        *config.Config
	stdin      io.Reader
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
		stdin:  os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the configuration loaded for the running command.
func (c *CLI) Config() *config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Taskflow finds dependency cycles in task lists",
		Long: `Taskflow loads task lists from files, Redis or MongoDB, reports every
circular dependency among them and renders the dependency graph.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/taskflow/config.toml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.projectsCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies its log level before any
// subcommand runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if level == LogDebug {
		EnableDebugHooks(c.Logger)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// EnableDebugHooks routes load, analysis, cache and HTTP events to l.
func EnableDebugHooks(l *log.Logger) {
	hooks := observability.NewLogHooks(l)
	observability.SetAnalysisHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
}

// =============================================================================
// Exit Codes
// =============================================================================

// ExitError carries a process exit status alongside the error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps the error returned by a command to a process exit status:
// 0 for nil, 130 for cancellation, the carried code for an [ExitError],
// and 1 otherwise.
func ExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return 0
	case stderrors.As(err, &exitErr):
		return exitErr.Code
	case stderrors.Is(err, context.Canceled):
		return ExitCancelled
	}
	return 1
}

// errCycles reports that a checked task set was rejected.
func errCycles(err error) error {
	return &ExitError{Code: ExitCycles, Err: fmt.Errorf("check failed: %w", err)}
}
