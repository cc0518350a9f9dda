package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"todo-cli/internal/bridge"
	"todo-cli/internal/config"
	"todo-cli/internal/format"
	"todo-cli/internal/logging"
	"todo-cli/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Backend    string
	Path       string
	LogLevel   string
	Format     string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "A small local-first todo list (CLI + TUI + web)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Scriptable commands
  todo add "water the plants"
  todo ls --filter active --format json
  todo mv 0 2

  # Serve the list in a browser
  todo web
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("TODO_BACKEND", ""), "Blob store backend (sqlite|file|memory; default from config)")
	cmd.PersistentFlags().StringVar(&app.Path, "path", envOr("TODO_PATH", ""), "Blob store location (default from config)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TODO_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TODO_FORMAT", "text"), "Output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newClearCompletedCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// session is everything a command needs: the effective config, a logger and
// a loaded store behind its dispatcher.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	d      *bridge.Dispatcher
}

type sessionOptions struct {
	// logToFile sends logs to cfg.LogFile instead of stderr.
	logToFile bool
	dispatch  []bridge.DispatcherOption
}

func resolveConfig(app *App) (*config.Config, error) {
	return config.LoadWith(config.Overrides{
		Backend:  strings.TrimSpace(app.Backend),
		Path:     strings.TrimSpace(app.Path),
		LogLevel: strings.TrimSpace(app.LogLevel),
	})
}

func openSession(ctx context.Context, app *App, opt sessionOptions) (*session, error) {
	cfg, err := resolveConfig(app)
	if err != nil {
		return nil, err
	}
	logOpt := logging.Options{Level: cfg.LogLevel}
	if opt.logToFile {
		logOpt.File = cfg.LogFile
	}
	logger, err := logging.New(logOpt)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	blob, err := store.OpenBlobStore(cfg.Backend, cfg.Path)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	s := store.New(blob, store.WithLogger(logger))
	s.Load(ctx)

	dopts := append([]bridge.DispatcherOption{bridge.WithLogger(logger)}, opt.dispatch...)
	return &session{
		cfg:    cfg,
		logger: logger,
		store:  s,
		d:      bridge.NewDispatcher(s, dopts...),
	}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
