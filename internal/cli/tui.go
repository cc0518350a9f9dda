package cli

import (
	"todo-cli/internal/config"
	"todo-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal UI (same as running todo with no command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	// The TUI owns the terminal, so logs go to the log file.
	sess, err := openSession(cmd.Context(), app, sessionOptions{logToFile: true})
	if err != nil {
		return writeErr(cmd, err)
	}
	defer sess.close()

	watch := ""
	if sess.cfg.Backend != config.BackendMemory {
		watch = sess.cfg.Path
	}
	return tui.Run(cmd.Context(), sess.d, tui.Options{WatchPath: watch, Logger: sess.logger})
}
