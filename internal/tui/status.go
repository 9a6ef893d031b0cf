package tui

import (
	"fmt"
	"strings"

	"github.com/pders01/homepage/internal/feed"
)

// Canonical short status messages used across the app.
const (
	MsgLoading      = "Loading…"
	MsgRefreshing   = "Refreshing feeds…"
	MsgNoLink       = "Nothing focused"
	MsgTapAgain     = "Selected: tap again to open"
	MsgDesktopMode  = "Desktop mode: focus hovers"
	MsgMobileMode   = "Mobile mode: enter taps"
	MsgSelectionOff = "Selection cleared"
)

func MsgOpened(url string) string {
	return "Opened " + url
}

// MsgFeedSummary renders one "name:state" pair per feed.
func MsgFeedSummary(statuses []feed.Status) string {
	if len(statuses) == 0 {
		return "no feeds"
	}
	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		parts = append(parts, fmt.Sprintf("%s:%s", s.Feed, s.State))
	}
	return strings.Join(parts, " • ")
}

// feedSummaryKind picks the worst severity across the feeds.
func feedSummaryKind(statuses []feed.Status) StatusKind {
	kind := StatusSuccess
	for _, s := range statuses {
		switch s.State {
		case feed.Unavailable:
			return StatusError
		case feed.Stale:
			kind = StatusWarn
		case feed.Cold:
			if kind == StatusSuccess {
				kind = StatusInfo
			}
		}
	}
	return kind
}
