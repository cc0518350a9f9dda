// Package publish exports the list as Markdown, optionally rendered for a terminal.
package publish

import (
	"bytes"
	"strings"

	"todo-cli/internal/model"
	"todo-cli/internal/view"

	"github.com/charmbracelet/glamour"
)

type RenderOptions struct {
	Title  string
	Filter model.Filter
}

// RenderMarkdown writes the items visible under opt.Filter as a task list.
func RenderMarkdown(items model.Collection, opt RenderOptions) string {
	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Todos"
	}
	f := opt.Filter
	if f == "" {
		f = model.FilterAll
	}
	p := view.Project(items, f)

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + escapeMarkdown(title))
	writeLn("")
	if p.Empty != nil {
		writeLn("_" + p.Empty.Message + "_")
		writeLn("")
		writeLn(p.Empty.Hint)
	} else {
		for _, it := range p.Items {
			box := "[ ]"
			if it.Completed {
				box = "[x]"
			}
			writeLn("- " + box + " " + escapeMarkdown(it.Text))
		}
	}
	writeLn("")
	writeLn("_" + p.ItemsLeft + "_")
	return buf.String()
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"|", `\|`,
	"\n", " ",
	"\r", " ",
)

// escapeMarkdown keeps item text literal when rendered.
func escapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}

// RenderTerminal renders md with a fixed glamour style picked from the theme.
// Fixed styles avoid the terminal background queries WithAutoStyle makes.
func RenderTerminal(md string, theme model.Theme, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	style := "light"
	if theme == model.ThemeDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
