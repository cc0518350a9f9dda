package cli

import (
	"strings"

	"todo-cli/internal/bridge"
	"todo-cli/internal/model"
	"todo-cli/internal/store"

	"github.com/spf13/cobra"
)

func newThemeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [toggle|light|dark]",
		Short: "Show or change the color theme shared by the TUI and web UI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, sessionOptions{})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.close()

			ctx := cmd.Context()
			if len(args) == 0 {
				return writeOut(cmd, app, themeOutput{Theme: sess.store.Theme(ctx)})
			}

			arg := strings.ToLower(strings.TrimSpace(args[0]))
			var t model.Theme
			if arg == "toggle" {
				snap, err := sess.d.Dispatch(ctx, bridge.ThemeToggled{})
				if err != nil {
					return writeErr(cmd, err)
				}
				t = snap.Theme
			} else {
				want, err := model.ParseTheme(arg)
				if err != nil {
					return writeErr(cmd, store.ValidationError{Field: "theme", Reason: "must be one of toggle|light|dark, got " + arg})
				}
				t = sess.store.SetTheme(ctx, want)
			}
			warnPersist(cmd, sess.store)
			return writeOut(cmd, app, themeOutput{Theme: t})
		},
	}
}
