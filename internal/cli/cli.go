// Package cli implements the mvnresolve command-line interface.
//
// The commands are thin wrappers over [engine.Engine]: they parse arguments,
// build an engine from the configuration file and print what the engine
// returns.
//
// # Commands
//
//   - versions: List the versions of an artifact
//   - fetch: Download one artifact into the local repository
//   - tree: Print the dependency tree of an artifact
//   - deps: Resolve and download the dependency closure of an artifact
//   - cache: Manage the repository metadata cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mvnresolve/pkg/buildinfo"
	"github.com/matzehuels/mvnresolve/pkg/config"
	"github.com/matzehuels/mvnresolve/pkg/engine"
)

// appName is the application name used for display.
const appName = "mvnresolve"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	ConfigPath string

	// engineOpts are appended to every engine the CLI builds.
	engineOpts []engine.Option
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "mvnresolve resolves Maven dependency graphs",
		Long:         `mvnresolve lists versions, downloads artifacts and resolves transitive dependency trees from Maven-layout repositories.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "configuration file (.toml, .yaml)")

	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or returns the defaults when it is unset.
func (c *CLI) loadConfig() (engine.Config, error) {
	if c.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(c.ConfigPath)
}

// newEngine builds an engine from the configuration. The caller closes it.
func (c *CLI) newEngine(ctx context.Context) (*engine.Engine, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	opts := append([]engine.Option{engine.WithLogger(loggerFromContext(ctx))}, c.engineOpts...)
	return engine.New(cfg, opts...)
}
