package tui

import (
	charmLog "github.com/charmbracelet/log"

	"github.com/hylla/kanto/internal/app"
	"github.com/hylla/kanto/internal/cloud"
	"github.com/hylla/kanto/internal/domain"
)

type Option func(*Model)

// WithService wires the app service used for disk and cloud I/O.
func WithService(svc *app.Service) Option {
	return func(m *Model) {
		m.svc = svc
	}
}

// WithRunner wires the background I/O runner.
func WithRunner(runner *app.Runner) Option {
	return func(m *Model) {
		m.runner = runner
	}
}

// WithLogger replaces the default discarding logger.
func WithLogger(logger *charmLog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithBoards seeds an initial board set, bypassing the load-on-start path.
func WithBoards(boards domain.Boards) Option {
	return func(m *Model) {
		m.boards = boards
		m.refreshProjection()
	}
}

// WithSession seeds an authenticated cloud session.
func WithSession(sess cloud.Session) Option {
	return func(m *Model) {
		m.session = sess
	}
}

// WithThemes adds custom themes loaded from the theme directory.
func WithThemes(themes []Theme) Option {
	return func(m *Model) {
		m.extraThemes = append(m.extraThemes, themes...)
		m.theme = m.themeByName(m.cfg.DefaultTheme)
	}
}
