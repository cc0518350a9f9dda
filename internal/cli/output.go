package cli

import (
	"fmt"
	"io"
	"strings"

	"todo-cli/internal/bridge"
	"todo-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

var (
	styleDone  = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.AdaptiveColor{Light: "#9495A5", Dark: "#5B5E7E"})
	styleMuted = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9495A5", Dark: "#777A92"})
	styleID    = lipgloss.NewStyle().Faint(true)
)

// listOutput is the snapshot as printed by `todo ls` and the mutation commands.
// JSON and YAML get the snapshot itself.
type listOutput struct {
	bridge.Snapshot
}

func (o listOutput) WriteText(w io.Writer) error {
	if o.Empty != nil {
		if _, err := fmt.Fprintln(w, o.Empty.Message); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, styleMuted.Render(o.Empty.Hint)); err != nil {
			return err
		}
	}
	for pos, it := range o.Items {
		if _, err := fmt.Fprintln(w, itemLine(pos, it)); err != nil {
			return err
		}
	}
	footer := o.ItemsLeft
	if o.Filter != model.FilterAll {
		footer += " · " + string(o.Filter)
	}
	if o.CompletedCount > 0 {
		footer += fmt.Sprintf(" · %d completed", o.CompletedCount)
	}
	_, err := fmt.Fprintln(w, styleMuted.Render(footer))
	return err
}

func itemLine(pos int, it model.Item) string {
	box := "[ ]"
	text := cleanText(it.Text)
	if it.Completed {
		box = "[x]"
		text = styleDone.Render(text)
	}
	return fmt.Sprintf("%2d. %s %s %s", pos, box, text, styleID.Render(fmt.Sprintf("(%d)", it.ID)))
}

// cleanText keeps stored text from driving the terminal.
func cleanText(s string) string {
	s = xansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}

// itemOutput is printed by `todo add`.
type itemOutput struct {
	Item model.Item `json:"item" yaml:"item"`
}

func (o itemOutput) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "added %d: %s\n", o.Item.ID, cleanText(o.Item.Text))
	return err
}

type themeOutput struct {
	Theme model.Theme `json:"theme" yaml:"theme"`
}

func (o themeOutput) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, o.Theme)
	return err
}

func (o webStarted) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, o.URL)
	return err
}
