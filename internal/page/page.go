// Package page assembles the footer ticker, the feeds behind it, the
// tooltip surface and the icon interaction into one explicitly wired
// unit.
package page

import (
	"context"
	"strings"

	"github.com/pders01/homepage/internal/clock"
	"github.com/pders01/homepage/internal/config"
	"github.com/pders01/homepage/internal/content"
	"github.com/pders01/homepage/internal/debuglog"
	"github.com/pders01/homepage/internal/feed"
	"github.com/pders01/homepage/internal/interaction"
	"github.com/pders01/homepage/internal/storage"
	"github.com/pders01/homepage/internal/ticker"
	"github.com/pders01/homepage/internal/tooltip"
)

// Hooks are host collaborators. Any of them may be nil.
type Hooks struct {
	// Remeasure is called after the footer changes size.
	Remeasure func()
	// ActivateTab selects a tab by name once content is loaded.
	ActivateTab func(name string)
}

func (h Hooks) remeasure() {
	if h.Remeasure != nil {
		h.Remeasure()
	}
}

func (h Hooks) activateTab(name string) {
	if h.ActivateTab != nil {
		h.ActivateTab(name)
	}
}

type Options struct {
	Clock clock.Clock
	Hooks Hooks
	// Mobile reports whether taps or hovers drive the tooltip. Defaults
	// to the ui.mobile setting.
	Mobile interaction.ModeFunc
}

type Page struct {
	cfg        *config.Config
	hooks      Hooks
	fetcher    *feed.Fetcher
	registry   *feed.Registry
	ticker     *ticker.Ticker
	surface    *tooltip.Surface
	dispatcher *interaction.Dispatcher
	machine    *interaction.Machine
	logger     *debuglog.FieldLogger

	grids []content.Grid
}

func New(cfg *config.Config, kv storage.KV, sink tooltip.Sink, opts Options) *Page {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	mobile := opts.Mobile
	if mobile == nil {
		forced := cfg.UI.Mobile
		mobile = func() bool { return forced }
	}

	p := &Page{
		cfg:        cfg,
		hooks:      opts.Hooks,
		fetcher:    feed.NewFetcher(cfg),
		dispatcher: interaction.NewDispatcher(),
		logger:     debuglog.WithFields(map[string]any{"component": "page"}),
	}
	p.registry = feed.NewDefaultRegistry(cfg, kv, clk, p.onFeedResolved)
	p.ticker = ticker.New(p.registry, cfg.Ticker.DefaultMessage, cfg.Ticker.Repeat)
	p.surface = tooltip.New(sink, p.ticker, clk, cfg.Tooltip.RevertDelay, p.hooks.remeasure)
	p.machine = interaction.NewMachine(p.surface, mobile, cfg.Tooltip.TapPrompt)
	p.machine.Register(p.dispatcher)
	return p
}

func (p *Page) onFeedResolved(res feed.Result) {
	p.logger.With("feed", res.Feed).With("state", res.State).Debugf("feed resolved")
	p.surface.Refresh()
}

// Load shows the static message, then resolves every feed concurrently.
// A missing or failing message source keeps the default message; feeds
// load either way.
func (p *Page) Load(ctx context.Context) {
	source := strings.TrimSpace(p.cfg.Ticker.MessageSource)
	if source != "" {
		msg, err := ticker.LoadMessage(ctx, p.fetcher, source)
		switch {
		case err != nil:
			p.logger.With("source", source).Warnf("loading ticker message: %v", err)
		case msg != "":
			p.ticker.SetMessage(msg)
		}
	}
	p.surface.ShowDefault()
	p.registry.Refresh(ctx)
}

// Run loads the page and keeps the feeds refreshed until ctx is done.
func (p *Page) Run(ctx context.Context) {
	p.Load(ctx)
	p.registry.Run(ctx, p.cfg.Feeds.RefreshInterval)
}

// LoadContent reads the icon list and activates the first tab. Without a
// configured list it does nothing.
func (p *Page) LoadContent(ctx context.Context) error {
	source := strings.TrimSpace(p.cfg.Content.ListPath)
	if source == "" {
		return nil
	}
	list, err := content.Load(ctx, p.fetcher, source)
	if err != nil {
		return err
	}
	p.grids = content.BuildGrids(list)
	if len(p.grids) > 0 {
		p.hooks.activateTab(p.grids[0].Name)
	}
	p.hooks.remeasure()
	return nil
}

// Dispatch forwards a host event to the interaction layer.
func (p *Page) Dispatch(ev interaction.Event) interaction.Outcome {
	return p.dispatcher.Dispatch(ev)
}

func (p *Page) Grids() []content.Grid         { return p.grids }
func (p *Page) Registry() *feed.Registry      { return p.registry }
func (p *Page) Ticker() *ticker.Ticker        { return p.ticker }
func (p *Page) Surface() *tooltip.Surface     { return p.surface }
func (p *Page) Machine() *interaction.Machine { return p.machine }
