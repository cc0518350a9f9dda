package tui

import (
	"strings"

	"todo-cli/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

// sanitizeText keeps item text from injecting terminal control sequences.
func sanitizeText(s string) string {
	s = xansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

func (m appModel) renderRow(i int, it model.Item, width int) string {
	check := "○"
	if it.Completed {
		check = "●"
	}
	marker := "  "
	dragging := m.mode == modeDrag && m.drag.Dragging(it.ID)
	over := m.mode == modeDrag && m.drag.Over(it.ID)
	switch {
	case over:
		marker = "➜ "
	case dragging:
		marker = "≡ "
	}

	text := sanitizeText(it.Text)
	avail := width - xansi.StringWidth(marker) - 4
	if avail < 4 {
		avail = 4
	}
	if xansi.StringWidth(text) > avail {
		text = xansi.Truncate(text, avail, "…")
	}
	if it.Completed {
		text = styleCompleted().Render(text)
	}

	line := marker + check + " " + text
	switch {
	case dragging:
		return " " + styleDragging().Render(line)
	case over:
		return " " + styleDropTarget().Render(line)
	case i == m.cursor && m.mode != modeDrag:
		return " " + styleSelected().Render(line)
	}
	return " " + line
}
