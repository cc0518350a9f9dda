package cli

import (
	"strings"

	"todo-cli/internal/bridge"
	"todo-cli/internal/model"
	"todo-cli/internal/store"

	"github.com/spf13/cobra"
)

func parseFilterArg(s string) (model.Filter, error) {
	f, err := model.ParseFilter(s)
	if err != nil {
		return "", store.ValidationError{Field: "filter", Reason: "must be one of all|active|completed, got " + strings.TrimSpace(s)}
	}
	return f, nil
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a todo at the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, sessionOptions{})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.close()

			text := strings.Join(args, " ")
			if err := store.ValidateText(text); err != nil {
				return writeErr(cmd, err)
			}
			it, _ := sess.store.Add(cmd.Context(), text)
			warnPersist(cmd, sess.store)
			return writeOut(cmd, app, itemOutput{Item: it})
		},
	}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a todo between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runByID(cmd, app, args[0], func(id int64) bridge.Event { return bridge.ToggleRequested{ID: id} })
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runByID(cmd, app, args[0], func(id int64) bridge.Event { return bridge.DeleteRequested{ID: id} })
		},
	}
}

func runByID(cmd *cobra.Command, app *App, arg string, ev func(int64) bridge.Event) error {
	id, err := parseID(arg)
	if err != nil {
		return writeErr(cmd, err)
	}
	sess, err := openSession(cmd.Context(), app, sessionOptions{})
	if err != nil {
		return writeErr(cmd, err)
	}
	defer sess.close()

	if !sess.store.Has(id) {
		warnNotFound(cmd, id)
	}
	snap, err := sess.d.Dispatch(cmd.Context(), ev(id))
	if err != nil {
		return writeErr(cmd, err)
	}
	warnPersist(cmd, sess.store)
	return writeOut(cmd, app, listOutput{snap})
}

func newClearCompletedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), app, sessionOptions{})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.close()

			snap, err := sess.d.Dispatch(cmd.Context(), bridge.ClearCompletedRequested{})
			if err != nil {
				return writeErr(cmd, err)
			}
			warnPersist(cmd, sess.store)
			return writeOut(cmd, app, listOutput{snap})
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilterArg(filter)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd.Context(), app, sessionOptions{})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.close()

			snap, err := sess.d.Dispatch(cmd.Context(), bridge.FilterChanged{Filter: f})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, listOutput{snap})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", string(model.FilterAll), "Which todos to show (all|active|completed)")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Move a todo to another position",
		Long: strings.TrimSpace(`
Move the todo at position <from> to position <to> (0-based, as printed by ` + "`todo ls`" + `).

With --filter, positions count only the todos shown under that filter; todos
hidden by the filter keep their relative order.
`),
		Example: strings.TrimSpace(`
todo mv 0 2
todo mv --filter active 1 0
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseIndex("from", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			to, err := parseIndex("to", args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := parseFilterArg(filter)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd.Context(), app, sessionOptions{})
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.close()

			if _, err := sess.d.Dispatch(cmd.Context(), bridge.FilterChanged{Filter: f}); err != nil {
				return writeErr(cmd, err)
			}
			snap, err := sess.d.Dispatch(cmd.Context(), bridge.ReorderRequested{From: from, To: to})
			if err != nil {
				return writeErr(cmd, err)
			}
			warnPersist(cmd, sess.store)
			return writeOut(cmd, app, listOutput{snap})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", string(model.FilterAll), "Count positions within this filter (all|active|completed)")
	return cmd
}
