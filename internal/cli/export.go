package cli

import (
	"fmt"

	"todo-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		filter string
		title  string
		render bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the list as a Markdown task list",
		Example: `todo export > todos.md
todo export --filter active --render`,
		Args: cobra.NoArgs,
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

			md := publish.RenderMarkdown(sess.store.Items(), publish.RenderOptions{Title: title, Filter: f})
			if !render {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			out, err := publish.RenderTerminal(md, sess.store.Theme(cmd.Context()), width)
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "Which todos to export (all|active|completed)")
	cmd.Flags().StringVar(&title, "title", "", "Document title (default: Todos)")
	cmd.Flags().BoolVar(&render, "render", false, "Render the Markdown for the terminal (glamour)")
	cmd.Flags().IntVar(&width, "width", 80, "Word-wrap width for --render")
	return cmd
}
