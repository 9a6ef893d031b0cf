package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/homepage/internal/config"
	"github.com/pders01/homepage/internal/interaction"
)

// KeyMap maps keys to the page events they emulate.
type KeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Tap        key.Binding
	Outside    key.Binding
	Escape     key.Binding
	Blur       key.Binding
	Hide       key.Binding
	ToggleMode key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func NewKeyMap(b config.KeyBindings) KeyMap {
	bind := func(k, desc string, extra ...string) key.Binding {
		keys := append([]string{k}, extra...)
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(k, desc))
	}
	return KeyMap{
		Left:       bind("left", "prev icon"),
		Right:      bind("right", "next icon"),
		Up:         bind("up", "row up"),
		Down:       bind("down", "row down"),
		NextTab:    bind("tab", "next tab"),
		PrevTab:    bind("shift+tab", "prev tab"),
		Tap:        bind(b.Tap, "tap / open"),
		Outside:    bind(b.Outside, "tap outside"),
		Escape:     bind(b.Escape, "escape"),
		Blur:       bind(b.Blur, "blur window"),
		Hide:       bind(b.Hide, "hide page"),
		ToggleMode: bind(b.ToggleMode, "desktop/mobile"),
		Refresh:    bind(b.Refresh, "refresh feeds"),
		Help:       bind(b.Help, "help"),
		Quit:       bind(b.Quit, "quit", "ctrl+c"),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tap, k.ToggleMode, k.Refresh, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Tap, k.Outside, k.Escape, k.Blur, k.Hide},
		{k.ToggleMode, k.Refresh, k.Help, k.Quit},
	}
}

type KeyHandler struct {
	app  *App
	keys KeyMap
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, keys: NewKeyMap(cfg.Keys.Bindings)}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	k := kh.keys

	switch {
	case key.Matches(msg, k.Quit):
		a.cancel()
		return a, tea.Quit
	case key.Matches(msg, k.Left):
		a.moveCursor(-1)
	case key.Matches(msg, k.Right):
		a.moveCursor(1)
	case key.Matches(msg, k.Up):
		a.moveCursor(-a.columns())
	case key.Matches(msg, k.Down):
		a.moveCursor(a.columns())
	case key.Matches(msg, k.NextTab):
		a.switchTab(a.tab + 1)
	case key.Matches(msg, k.PrevTab):
		a.switchTab(a.tab - 1)
	case key.Matches(msg, k.Tap):
		return a, a.tap()
	case key.Matches(msg, k.Outside):
		a.dispatch(interaction.Event{Kind: interaction.PointerDown, Target: a.background()})
	case key.Matches(msg, k.Escape):
		a.dispatch(interaction.Event{Kind: interaction.KeyDown, Key: interaction.EscapeKey})
	case key.Matches(msg, k.Blur):
		a.dispatch(interaction.Event{Kind: interaction.WindowBlur})
	case key.Matches(msg, k.Hide):
		a.dispatch(interaction.Event{Kind: interaction.VisibilityChange, Hidden: true})
	case key.Matches(msg, k.ToggleMode):
		a.toggleMode()
	case key.Matches(msg, k.Refresh):
		a.setStatus(MsgRefreshing, StatusInfo)
		return a, a.refreshFeeds()
	case key.Matches(msg, k.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}
