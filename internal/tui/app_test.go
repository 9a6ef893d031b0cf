package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/homepage/internal/config"
	"github.com/pders01/homepage/internal/feed"
	"github.com/pders01/homepage/internal/interaction"
	"github.com/pders01/homepage/internal/storage"
	"github.com/pders01/homepage/internal/ticker"
	"github.com/pders01/homepage/internal/tooltip"
)

const testList = `{"items":[
	{"tab":"apps","href":"https://alpha.example","text":"Alpha","tooltip":"Alpha does things"},
	{"tab":"apps","href":"https://beta.example","text":"Beta"},
	{"tab":"links","href":"https://gamma.example","text":"Gamma","tooltip":"Gamma link"}
]}`

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, os.WriteFile(path, []byte(testList), 0o644))

	cfg := config.TestConfig()
	cfg.Content.ListPath = path

	a := NewApp(storage.NewMemoryKV(), cfg)
	t.Cleanup(a.cancel)

	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	a.Update(a.loadContent()())
	require.Len(t, a.grids, 2)
	return a
}

func send(a *App, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = a.Update(msg)
	}
	return cmd
}

func TestDesktopFocusHovers(t *testing.T) {
	a := newTestApp(t)

	send(a, keyRight)
	mode, text := a.Page().Surface().State()
	assert.Equal(t, tooltip.Expanded, mode)
	assert.Equal(t, "Alpha does things", text)

	// Beta has no tooltip: leaving Alpha schedules the revert
	send(a, keyRight)
	assert.True(t, a.Page().Surface().Pending())
	assert.Equal(t, 1, a.cursor)
}

func TestDesktopEnterOpensLink(t *testing.T) {
	a := newTestApp(t)
	var opened []string
	a.opener.WithStart(func(name string, args ...string) error {
		opened = append(opened, args[len(args)-1])
		return nil
	})

	send(a, keyRight)
	cmd := send(a, keyEnter)
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, linkOpenedMsg{url: "https://alpha.example"}, msg)
	assert.Equal(t, []string{"https://alpha.example"}, opened)

	send(a, msg)
	assert.Contains(t, a.status, "Opened")
}

func TestMobileDoubleTap(t *testing.T) {
	a := newTestApp(t)
	a.opener.WithStart(func(string, ...string) error { return nil })

	send(a, runeKey("m"))
	assert.True(t, a.isMobile())

	send(a, keyRight)
	mode, _ := a.Page().Surface().State()
	assert.Equal(t, tooltip.Default, mode, "focus does not hover on mobile")

	cmd := send(a, keyEnter)
	assert.Nil(t, cmd, "first tap does not navigate")
	assert.Equal(t, MsgTapAgain, a.status)
	alpha := a.grids[0].Icons[0]
	assert.Equal(t, interaction.Element(alpha.Link), a.Page().Machine().Selected())
	assert.True(t, alpha.Link.HasClass(interaction.SelectedClass))

	cmd = send(a, keyEnter)
	require.NotNil(t, cmd, "second tap navigates")
	assert.Nil(t, a.Page().Machine().Selected())
	assert.Equal(t, linkOpenedMsg{url: "https://alpha.example"}, cmd())
}

func TestMobileResetKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"escape", keyEsc},
		{"outside tap", runeKey("o")},
		{"blur key", runeKey("b")},
		{"hide key", runeKey("h")},
		{"terminal blur", tea.BlurMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			send(a, runeKey("m"), keyRight, keyEnter)
			require.NotNil(t, a.Page().Machine().Selected())

			send(a, tt.msg)
			assert.Nil(t, a.Page().Machine().Selected())
			assert.True(t, a.Page().Surface().Pending())
		})
	}
}

func TestToggleBackToDesktopClearsSelection(t *testing.T) {
	a := newTestApp(t)
	send(a, runeKey("m"), keyRight, keyEnter)

	send(a, runeKey("m"))
	assert.False(t, a.isMobile())
	assert.Nil(t, a.Page().Machine().Selected())

	mode, text := a.Page().Surface().State()
	assert.Equal(t, tooltip.Expanded, mode)
	assert.Equal(t, "Alpha does things", text, "focused icon hovers again")
}

func TestTabSwitchResetsCursor(t *testing.T) {
	a := newTestApp(t)
	send(a, keyRight, keyTab)

	assert.Equal(t, 1, a.tab)
	assert.Equal(t, -1, a.cursor)
	assert.True(t, a.Page().Surface().Pending())

	send(a, activateTabMsg{name: "apps"})
	assert.Equal(t, 0, a.tab)
}

func TestTapWithoutFocus(t *testing.T) {
	a := newTestApp(t)
	assert.Nil(t, send(a, keyEnter))
	assert.Equal(t, MsgNoLink, a.status)
}

func TestSurfaceChangedResetsScroll(t *testing.T) {
	a := newTestApp(t)
	a.offset = 12

	a.sink.ShowMarquee(ticker.Render("hello", nil, ticker.DefaultRepeat))
	send(a, surfaceChangedMsg{})
	assert.Equal(t, 0, a.offset)

	send(a, scrollTickMsg{})
	assert.Equal(t, 1, a.offset)

	a.sink.ShowExpanded("text")
	send(a, surfaceChangedMsg{}, scrollTickMsg{})
	assert.Equal(t, 1, a.offset, "expanded text does not scroll")
}

func TestView(t *testing.T) {
	a := newTestApp(t)
	a.sink.ShowMarquee(ticker.Render("hello world", nil, ticker.DefaultRepeat))

	view := a.View()
	assert.Contains(t, view, "apps")
	assert.Contains(t, view, "links")
	assert.Contains(t, view, "Alpha")
	assert.Contains(t, view, "hello world")
	assert.Contains(t, view, "desktop mode")

	a.sink.ShowExpanded("Expanded tooltip text")
	send(a, remeasureMsg{})
	assert.Contains(t, a.View(), "Expanded tooltip text")
}

func TestView_NoContent(t *testing.T) {
	a := NewApp(storage.NewMemoryKV(), config.TestConfig())
	defer a.cancel()
	assert.Contains(t, a.View(), "list.json")
}

func TestContentLoadError(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Content.ListPath = filepath.Join(t.TempDir(), "missing.json")
	a := NewApp(storage.NewMemoryKV(), cfg)
	defer a.cancel()

	send(a, a.loadContent()())
	require.Error(t, a.err)
	assert.Contains(t, a.View(), "load content")
}

func TestFeedsRefreshedStatus(t *testing.T) {
	a := newTestApp(t)
	send(a, feedsRefreshedMsg{statuses: []feed.Status{
		{Feed: feed.PriceFeed, State: feed.Fresh},
		{Feed: feed.SentimentFeed, State: feed.Stale},
	}})
	assert.Equal(t, "price:fresh • sentiment:stale", a.status)
	assert.Equal(t, StatusWarn, a.statusKind)
}

func TestQuit(t *testing.T) {
	a := newTestApp(t)
	cmd := send(a, runeKey("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Error(t, a.ctx.Err())
}

func TestHelpToggle(t *testing.T) {
	a := newTestApp(t)
	send(a, runeKey("?"))
	assert.True(t, a.help.ShowAll)
	assert.Contains(t, a.View(), "tap outside")
}

func TestScrollStep(t *testing.T) {
	m := ticker.Render(strings.Repeat("x", 100), nil, 5)
	step := scrollStep(m)
	assert.Greater(t, step, time.Duration(0))
	assert.Less(t, step, m.Duration)

	assert.Equal(t, time.Duration(0), scrollStep(ticker.Marquee{}))
}
