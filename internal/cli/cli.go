// Package cli is the command-line shell over the app controller: it edits
// the saved résumé, paginates it, renders page markup and exports files.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cvBuilder/internal/app"
	"cvBuilder/internal/config"
)

const skipRuntime = "skip-runtime"

// CLI holds state shared by all commands for one invocation.
type CLI struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
	runID  string
	rt     *app.Runtime

	// build is swapped in tests.
	build func(ctx context.Context, cfg *config.Config, logger *slog.Logger, runID string) (*app.Runtime, error)
}

// New creates a CLI writing results to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{out: out, errOut: errOut, build: app.Build}
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "cvbuilder",
		Short:             "Build, paginate and export an Arabic CV",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.showCommand(),
		c.importCommand(),
		c.setCommand(),
		c.paginateCommand(),
		c.renderCommand(),
		c.exportCommand(),
		c.resetCommand(),
		c.historyCommand(),
		c.templatesCommand(),
	)
	return root
}

// Execute runs the root command and closes the runtime even when the
// command fails.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	err := root.ExecuteContext(ctx)
	if err != nil {
		if cerr := c.teardown(); cerr != nil && c.logger != nil {
			c.logger.Error("close runtime failed", slog.Any("error", cerr))
		}
		code := app.Code(err)
		if c.logger != nil {
			c.logger.Error("command failed", slog.Int("code", code), slog.Any("error", err))
		}
		return fmt.Errorf("[%d] %w", code, err)
	}
	return nil
}

func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.runID = uuid.NewString()
	c.logger = newLogger(c.errOut, cfg.Log.Level, c.verbose).With(slog.String("run_id", c.runID))
	slog.SetDefault(c.logger)

	if cmd.Annotations[skipRuntime] != "" {
		return nil
	}
	rt, err := c.build(cmd.Context(), cfg, c.logger, c.runID)
	if err != nil {
		return err
	}
	c.rt = rt
	c.logger.Debug("runtime ready",
		slog.String("command", cmd.Name()),
		slog.String("measure", cfg.Measure.Driver),
		slog.String("store", cfg.Store.Driver),
	)
	return nil
}

func (c *CLI) teardown() error {
	if c.rt == nil {
		return nil
	}
	rt := c.rt
	c.rt = nil
	return rt.Close()
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
