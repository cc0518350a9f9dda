// Package tui is the interactive terminal renderer.
package tui

import (
	"context"

	"todo-cli/internal/bridge"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	// WatchPath is the store file to watch for writes by other processes. Empty disables watching.
	WatchPath string
	Logger    *zap.Logger
}

func Run(ctx context.Context, d *bridge.Dispatcher, opt Options) error {
	logger := opt.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	applyColorProfilePreference()

	m := newAppModel(ctx, d)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if opt.WatchPath != "" {
		stop, err := watchStore(opt.WatchPath, func() { p.Send(storeChangedMsg{}) }, logger)
		if err != nil {
			// The TUI still works; it just won't notice writes from other processes.
			logger.Warn("store watcher unavailable", zap.Error(err))
		} else {
			defer stop()
		}
	}

	_, err := p.Run()
	return err
}
