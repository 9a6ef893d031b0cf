package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/homepage/internal/debuglog"
)

const (
	minScrollStep     = 40 * time.Millisecond
	defaultScrollStep = 150 * time.Millisecond
)

// runPage loads the ticker and keeps the feeds fresh until the app quits.
// Surface updates reach the program through the sink.
func (a *App) runPage() tea.Cmd {
	return func() tea.Msg {
		a.page.Run(a.ctx)
		return nil
	}
}

func (a *App) loadContent() tea.Cmd {
	return func() tea.Msg {
		if err := a.page.LoadContent(a.ctx); err != nil {
			debuglog.Warnf("loading content: %v", err)
			return contentLoadedMsg{err: wrapErr("load content", err)}
		}
		return contentLoadedMsg{}
	}
}

func (a *App) refreshFeeds() tea.Cmd {
	return func() tea.Msg {
		registry := a.page.Registry()
		registry.Refresh(a.ctx)
		return feedsRefreshedMsg{statuses: registry.Statuses()}
	}
}

func (a *App) openLink(url string) tea.Cmd {
	opener := a.opener
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return errorMsg{err: wrapErr("open link", err)}
		}
		return linkOpenedMsg{url: url}
	}
}

func (a *App) scrollTick() tea.Cmd {
	step := scrollStep(a.sink.snapshot().marquee)
	switch {
	case step <= 0:
		step = defaultScrollStep
	case step < minScrollStep:
		step = minScrollStep
	}
	return tea.Tick(step, func(time.Time) tea.Msg {
		return scrollTickMsg{}
	})
}

// wrapErr prefixes err with the action that failed. nil stays nil so
// commands can wrap unconditionally.
func wrapErr(action string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", action, err)
}
