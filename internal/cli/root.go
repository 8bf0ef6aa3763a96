// Package cli defines the command-line interface for rssd.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/seantiz/rssd/internal/config"
	"github.com/seantiz/rssd/internal/render"
	"github.com/seantiz/rssd/internal/render/null"
	"github.com/seantiz/rssd/internal/render/opengl"
	"github.com/seantiz/rssd/internal/render/webgpu"
)

// Options stores global CLI options shared between commands. Flags override
// the values loaded from the environment.
type Options struct {
	Config config.Config

	// closeLog releases the log file opened for the running command.
	closeLog func() error
}

// Execute builds the root command, runs it with the provided args and returns
// any error.
func Execute(args []string) error {
	opts := &Options{Config: config.Load()}
	cmd := newRootCommand(opts, NewRegistry())
	cmd.SetArgs(args)
	return cmd.Execute()
}

// NewRegistry returns the render systems this binary ships with, in
// selection order.
func NewRegistry() *render.Registry {
	reg := render.NewRegistry()
	reg.Register(opengl.New())
	reg.Register(webgpu.New())
	reg.Register(null.New())
	return reg
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, reg *render.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rssd",
		Short:         "rssd hosts a render engine and its scene manager",
		Long:          "rssd opens a render window through a pluggable render system, loads scene files into it and renders them on a background loop controlled over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("log-level") {
				opts.Config.LogLevel = config.ParseLogLevel(cmd.Flag("log-level").Value.String())
			}

			var out io.Writer = cmd.ErrOrStderr()
			opts.closeLog = func() error { return nil }
			if cmd.Name() == "run" {
				w, closeLog, err := config.LogOutput(opts.Config.LogFile)
				if err != nil {
					return err
				}
				out, opts.closeLog = w, closeLog
			}

			logger := config.NewLogger(out, opts.Config.LogLevel, opts.Config.LogFormat)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", opts.Config.LogLevel)
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if opts.closeLog != nil {
				return opts.closeLog()
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.Config.LogFormat, "log-format", opts.Config.LogFormat, "Log format (json, text)")
	cmd.PersistentFlags().StringVar(&opts.Config.DisplayConfig, "display", opts.Config.DisplayConfig, "Path to the display configuration file")

	cmd.AddCommand(
		newRunCommand(opts, reg),
		newRenderSystemsCommand(reg),
		newValidateSceneCommand(),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return config.NewLogger(os.Stderr, slog.LevelInfo, "text")
}
