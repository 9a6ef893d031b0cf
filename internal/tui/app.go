package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/homepage/internal/browser"
	"github.com/pders01/homepage/internal/config"
	"github.com/pders01/homepage/internal/content"
	"github.com/pders01/homepage/internal/feed"
	"github.com/pders01/homepage/internal/interaction"
	"github.com/pders01/homepage/internal/page"
	"github.com/pders01/homepage/internal/storage"
	"github.com/pders01/homepage/internal/ticker"
	"github.com/pders01/homepage/internal/tooltip"
)

const (
	iconCellWidth = 18
	// header, tabs, two separators, status and help
	chromeLines = 6
)

// App is the terminal preview of the page: the icon grid stands in for
// the document and keys stand in for pointer and window events.
type App struct {
	config     *config.Config
	page       *page.Page
	sink       *Sink
	opener     *browser.Opener
	keyHandler *KeyHandler
	help       help.Model

	ctx    context.Context
	cancel context.CancelFunc

	mobile atomic.Bool

	grids  []content.Grid
	tab    int
	cursor int

	width      int
	height     int
	gridHeight int
	offset     int
	seen       int

	statuses   []feed.Status
	status     string
	statusKind StatusKind
	err        error
}

func NewApp(kv storage.KV, cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		config: cfg,
		sink:   NewSink(),
		opener: browser.NewOpener(cfg.UI.Opener),
		help:   help.New(),
		ctx:    ctx,
		cancel: cancel,
		cursor: -1,
		width:  80,
		height: 24,
	}
	a.mobile.Store(cfg.UI.Mobile)
	a.page = page.New(cfg, kv, a.sink, page.Options{
		Mobile: a.mobile.Load,
		Hooks: page.Hooks{
			Remeasure:   func() { a.sink.Post(remeasureMsg{}) },
			ActivateTab: func(name string) { a.sink.Post(activateTabMsg{name: name}) },
		},
	})
	a.keyHandler = NewKeyHandler(a, cfg)
	ApplyColors(cfg.UI.Colors)
	a.layout()
	return a
}

// Attach connects the app to the program that runs it.
func (a *App) Attach(p *tea.Program) {
	a.sink.Attach(p)
}

// Page exposes the wired page, mainly for tests.
func (a *App) Page() *page.Page {
	return a.page
}

func (a *App) Init() tea.Cmd {
	a.setStatus(MsgLoading, StatusInfo)
	return tea.Batch(
		a.runPage(),
		a.loadContent(),
		a.scrollTick(),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.layout()

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.BlurMsg:
		a.dispatch(interaction.Event{Kind: interaction.WindowBlur})

	case surfaceChangedMsg:
		f := a.sink.snapshot()
		if f.version != a.seen && f.mode == tooltip.Default {
			a.offset = 0
		}
		a.seen = f.version
		a.statuses = a.page.Registry().Statuses()

	case remeasureMsg:
		a.layout()

	case activateTabMsg:
		for i, g := range a.grids {
			if g.Name == msg.name {
				a.switchTab(i)
				break
			}
		}

	case scrollTickMsg:
		if a.sink.snapshot().mode == tooltip.Default {
			a.offset++
		}
		return a, a.scrollTick()

	case contentLoadedMsg:
		if msg.err != nil {
			a.err = msg.err
			break
		}
		a.grids = a.page.Grids()
		if a.tab >= len(a.grids) {
			a.tab = 0
		}

	case feedsRefreshedMsg:
		a.statuses = msg.statuses
		a.setStatus(MsgFeedSummary(msg.statuses), feedSummaryKind(msg.statuses))

	case linkOpenedMsg:
		a.setStatus(MsgOpened(truncateMiddle(msg.url, a.width/2)), StatusSuccess)

	case statusMsg:
		a.setStatus(msg.text, msg.kind)

	case errorMsg:
		a.err = msg.err
	}

	return a, nil
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
	a.err = nil
}

// layout sizes the grid around the footer, whose height depends on what
// the surface shows.
func (a *App) layout() {
	a.gridHeight = a.height - chromeLines - a.footerHeight()
	if a.gridHeight < 3 {
		a.gridHeight = 3
	}
}

func (a *App) footerHeight() int {
	f := a.sink.snapshot()
	if f.mode != tooltip.Expanded || a.width <= 2 {
		return 1
	}
	return lipgloss.Height(ExpandedStyle.Width(a.width).Render(f.text))
}

func (a *App) isMobile() bool {
	return a.mobile.Load()
}

func (a *App) dispatch(ev interaction.Event) interaction.Outcome {
	return a.page.Dispatch(ev)
}

func (a *App) currentGrid() *content.Grid {
	if a.tab < 0 || a.tab >= len(a.grids) {
		return nil
	}
	return &a.grids[a.tab]
}

func (a *App) focusedIcon() *content.Icon {
	g := a.currentGrid()
	if g == nil || a.cursor < 0 || a.cursor >= len(g.Icons) {
		return nil
	}
	return &g.Icons[a.cursor]
}

// background is the element hit by a tap that misses every icon.
func (a *App) background() interaction.Element {
	if g := a.currentGrid(); g != nil {
		return g.Root
	}
	return nil
}

func (a *App) columns() int {
	cols := a.width / iconCellWidth
	if cols < 1 {
		cols = 1
	}
	return cols
}

// moveCursor moves focus by delta icons. On desktop, focus is the pointer:
// leaving one icon and entering the next.
func (a *App) moveCursor(delta int) {
	g := a.currentGrid()
	if g == nil || len(g.Icons) == 0 {
		return
	}
	next := a.cursor + delta
	if a.cursor < 0 {
		next = 0
	}
	if next < 0 {
		next = 0
	}
	if next >= len(g.Icons) {
		next = len(g.Icons) - 1
	}
	if next == a.cursor {
		return
	}

	a.leaveFocused()
	a.cursor = next
	a.enterFocused()
}

func (a *App) enterFocused() {
	if icon := a.focusedIcon(); icon != nil && !a.isMobile() {
		a.dispatch(interaction.Event{Kind: interaction.PointerEnter, Target: icon.Label})
	}
}

func (a *App) leaveFocused() {
	if icon := a.focusedIcon(); icon != nil && !a.isMobile() {
		a.dispatch(interaction.Event{Kind: interaction.PointerLeave, Target: icon.Label})
	}
}

func (a *App) switchTab(i int) {
	if len(a.grids) == 0 {
		return
	}
	i = ((i % len(a.grids)) + len(a.grids)) % len(a.grids)
	if i == a.tab {
		return
	}
	a.leaveFocused()
	a.tab = i
	a.cursor = -1
}

// tap clicks the focused icon. Navigation goes ahead unless a handler
// prevented it.
func (a *App) tap() tea.Cmd {
	icon := a.focusedIcon()
	if icon == nil {
		a.setStatus(MsgNoLink, StatusWarn)
		return nil
	}
	out := a.dispatch(interaction.Event{Kind: interaction.Click, Target: icon.Label})
	if out.PreventDefault {
		a.setStatus(MsgTapAgain, StatusInfo)
		return nil
	}
	return a.openLink(icon.Item.Link())
}

func (a *App) toggleMode() {
	if a.isMobile() {
		a.page.Machine().Reset()
		a.mobile.Store(false)
		a.enterFocused()
		a.setStatus(MsgDesktopMode, StatusInfo)
		return
	}
	a.leaveFocused()
	a.mobile.Store(true)
	a.setStatus(MsgMobileMode, StatusInfo)
}

func (a *App) View() string {
	modeLabel := "desktop"
	if a.isMobile() {
		modeLabel = "mobile"
	}
	header := renderHeader(CompactLogo+" preview", fmt.Sprintf("%s mode • %s", modeLabel, MsgFeedSummary(a.statuses)), a.width)

	names := make([]string, 0, len(a.grids))
	for _, g := range a.grids {
		names = append(names, g.Name)
	}

	var body string
	if g := a.currentGrid(); g != nil && len(g.Icons) > 0 {
		body = a.renderGrid(g)
	} else {
		body = renderCentered(a.width, a.gridHeight, GetWelcomeMessage())
	}

	return lipgloss.JoinVertical(
		lipgloss.Top,
		header,
		renderTabs(names, a.tab),
		renderSeparator(a.width),
		lipgloss.NewStyle().Height(a.gridHeight).MaxHeight(a.gridHeight).Render(body),
		renderSeparator(a.width),
		a.renderFooter(),
		a.renderStatus(),
		a.help.View(a.keyHandler.keys),
	)
}

func (a *App) renderGrid(g *content.Grid) string {
	cols := a.columns()
	var rows []string
	var row []string
	for i, icon := range g.Icons {
		style := IconStyle
		switch {
		case icon.Link.HasClass(interaction.SelectedClass):
			style = SelectedIconStyle
		case i == a.cursor:
			style = FocusedIconStyle
		}
		row = append(row, style.Width(iconCellWidth-2).Render(truncateEnd(icon.Item.Text, iconCellWidth-4)))
		if len(row) == cols {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderFooter() string {
	f := a.sink.snapshot()
	if f.mode == tooltip.Expanded {
		return ExpandedStyle.Width(a.width).Render(f.text)
	}
	text := strings.ReplaceAll(f.marquee.Text, "\u00a0", " ")
	return MarqueeStyle.Width(a.width).Render(marqueeWindow(text, a.offset, a.width))
}

func (a *App) renderStatus() string {
	if a.err != nil {
		return StatusErrorStyle.Render(truncateEnd(fmt.Sprintf("✗ %v", a.err), a.width))
	}
	return a.statusKind.Style().Render(truncateEnd(a.status, a.width))
}

// scrollStep is how long one character takes to cross the footer, so
// that one unit scrolls past in the marquee duration.
func scrollStep(m ticker.Marquee) time.Duration {
	period := utf8.RuneCountInString(m.Unit) + utf8.RuneCountInString(ticker.UnitSeparator)
	if m.Duration <= 0 || period <= 0 {
		return 0
	}
	return m.Duration / time.Duration(period)
}
