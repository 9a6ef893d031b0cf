package tui

import "github.com/pders01/homepage/internal/feed"

// surfaceChangedMsg wakes the program after the footer sink changed.
type surfaceChangedMsg struct{}

// activateTabMsg asks the app to switch to the named tab.
type activateTabMsg struct {
	name string
}

type remeasureMsg struct{}

type scrollTickMsg struct{}

type contentLoadedMsg struct {
	err error
}

type feedsRefreshedMsg struct {
	statuses []feed.Status
}

type linkOpenedMsg struct {
	url string
}

type statusMsg struct {
	text string
	kind StatusKind
}

type errorMsg struct {
	err error
}
