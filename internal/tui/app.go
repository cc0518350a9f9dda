package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todo-cli/internal/bridge"
	"todo-cli/internal/model"
	"todo-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeDrag
)

// storeChangedMsg is sent by the file watcher when another process writes the store.
type storeChangedMsg struct{}

type appModel struct {
	ctx context.Context
	d   *bridge.Dispatcher

	snap   bridge.Snapshot
	cursor int
	mode   mode

	drag       bridge.DragState
	dragTarget int

	input    textinput.Model
	keys     keyMap
	help     help.Model
	showHelp bool

	status    string
	statusErr bool

	width  int
	height int
}

func newAppModel(ctx context.Context, d *bridge.Dispatcher) appModel {
	in := textinput.New()
	in.Placeholder = "Create a new todo..."
	in.Prompt = "+ "
	in.CharLimit = 500

	m := appModel{
		ctx:   ctx,
		d:     d,
		input: in,
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
	m.setSnapshot(d.Snapshot(ctx))
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m *appModel) setSnapshot(s bridge.Snapshot) {
	m.snap = s
	applyTheme(s.Theme)
	if m.cursor >= len(s.Items) {
		m.cursor = len(s.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *appModel) dispatch(ev bridge.Event) {
	snap, err := m.d.Dispatch(m.ctx, ev)
	m.setSnapshot(snap)
	m.status, m.statusErr = "", false
	if err != nil {
		var verr store.ValidationError
		if errors.As(err, &verr) {
			// Blank input is silently ignored.
			return
		}
		m.status, m.statusErr = err.Error(), true
	}
}

// sameSnapshot reports whether a and b render the same list.
func sameSnapshot(a, b bridge.Snapshot) bool {
	if a.Filter != b.Filter || a.Theme != b.Theme || a.Total != b.Total ||
		a.CompletedCount != b.CompletedCount || len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		x, y := a.Items[i], b.Items[i]
		if x.ID != y.ID || x.Text != y.Text || x.Completed != y.Completed {
			return false
		}
	}
	return true
}

func (m appModel) selected() (model.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Items) {
		return model.Item{}, false
	}
	return m.snap.Items[m.cursor], true
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-6)
		return m, nil

	case storeChangedMsg:
		snap := m.d.Reload(m.ctx)
		if sameSnapshot(snap, m.snap) {
			return m, nil
		}
		if m.mode == modeDrag {
			// Positions would shift under the gesture.
			m.drag.Abort()
			m.mode = modeList
		}
		m.setSnapshot(snap)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeDrag:
			return m.updateDrag(msg), nil
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m appModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.input.Value()
		m.input.Reset()
		m.dispatch(bridge.AddRequested{Text: text})
		if strings.TrimSpace(text) != "" {
			m.cursor = 0
		}
		return m, nil
	case tea.KeyEsc:
		m.input.Reset()
		m.input.Blur()
		m.mode = modeList
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Toggle):
		if it, ok := m.selected(); ok {
			m.dispatch(bridge.ToggleRequested{ID: it.ID})
		}
	case key.Matches(msg, m.keys.Delete):
		if it, ok := m.selected(); ok {
			m.dispatch(bridge.DeleteRequested{ID: it.ID})
		}
	case key.Matches(msg, m.keys.ClearCompleted):
		m.dispatch(bridge.ClearCompletedRequested{})
	case key.Matches(msg, m.keys.NextFilter):
		m.dispatch(bridge.FilterChanged{Filter: nextFilter(m.snap.Filter)})
		m.cursor = 0
	case key.Matches(msg, m.keys.FilterAll):
		m.dispatch(bridge.FilterChanged{Filter: model.FilterAll})
		m.cursor = 0
	case key.Matches(msg, m.keys.FilterActive):
		m.dispatch(bridge.FilterChanged{Filter: model.FilterActive})
		m.cursor = 0
	case key.Matches(msg, m.keys.FilterDone):
		m.dispatch(bridge.FilterChanged{Filter: model.FilterCompleted})
		m.cursor = 0
	case key.Matches(msg, m.keys.Grab):
		if it, ok := m.selected(); ok {
			m.drag.Begin(m.cursor, it.ID)
			m.dragTarget = m.cursor
			m.mode = modeDrag
		}
	case key.Matches(msg, m.keys.Theme):
		m.dispatch(bridge.ThemeToggled{})
	case key.Matches(msg, m.keys.Reload):
		m.setSnapshot(m.d.Reload(m.ctx))
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

// updateDrag moves the drop target; the list itself only changes on drop.
func (m appModel) updateDrag(msg tea.KeyMsg) appModel {
	moveTarget := func(to int) {
		if to < 0 || to >= len(m.snap.Items) {
			return
		}
		m.drag.Leave(m.snap.Items[m.dragTarget].ID)
		m.dragTarget = to
		if to != m.drag.Source() {
			m.drag.Enter(m.snap.Items[to].ID)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		moveTarget(m.dragTarget - 1)
	case key.Matches(msg, m.keys.Down):
		moveTarget(m.dragTarget + 1)
	case key.Matches(msg, m.keys.Drop):
		ev, ok := m.drag.Drop(m.dragTarget)
		m.mode = modeList
		if ok {
			m.dispatch(ev)
			m.cursor = m.dragTarget
		}
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.drag.Abort()
		m.mode = modeList
	}
	return m
}

func nextFilter(f model.Filter) model.Filter {
	for i, cand := range model.Filters {
		if cand == f {
			return model.Filters[(i+1)%len(model.Filters)]
		}
	}
	return model.FilterAll
}

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}

	var b strings.Builder
	themeLabel := "☀ light"
	if m.snap.Theme == model.ThemeDark {
		themeLabel = "☾ dark"
	}
	title := styleTitle().Render("TODO")
	gap := max(1, w-lipgloss.Width(title)-lipgloss.Width(themeLabel)-2)
	b.WriteString(" " + title + strings.Repeat(" ", gap) + styleMuted().Render(themeLabel) + "\n\n")

	if m.mode == modeAdd {
		b.WriteString(" " + m.input.View() + "\n\n")
	}

	if m.snap.Empty != nil {
		b.WriteString("  " + m.snap.Empty.Message + "\n")
		b.WriteString("  " + styleMuted().Render(m.snap.Empty.Hint) + "\n")
	} else {
		for i, it := range m.snap.Items {
			b.WriteString(m.renderRow(i, it, w) + "\n")
		}
	}

	b.WriteString("\n" + m.renderFooter() + "\n")
	if m.status != "" {
		st := styleMuted()
		if m.statusErr {
			st = styleError()
		}
		b.WriteString(" " + st.Render(m.status) + "\n")
	}
	if m.mode == modeDrag {
		b.WriteString(" " + styleMuted().Render("moving: ↑/↓ choose position, enter drop, esc cancel") + "\n")
	}
	b.WriteString(" " + m.help.View(m.keys) + "\n")
	return b.String()
}

func (m appModel) renderFooter() string {
	parts := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		label := strings.ToUpper(string(f[:1])) + string(f[1:])
		if f == m.snap.Filter {
			parts = append(parts, styleActiveFilter().Render(label))
		} else {
			parts = append(parts, styleMuted().Render(label))
		}
	}
	clearHint := ""
	if m.snap.CompletedCount > 0 {
		clearHint = "   " + styleMuted().Render(fmt.Sprintf("C: clear completed (%d)", m.snap.CompletedCount))
	}
	return " " + m.snap.ItemsLeft + "   " + strings.Join(parts, " ") + clearHint
}
