package feed

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pders01/homepage/internal/clock"
	"github.com/pders01/homepage/internal/config"
	"github.com/pders01/homepage/internal/debuglog"
	"github.com/pders01/homepage/internal/storage"
)

// Resolver is one feed as the registry sees it.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context) Result
}

// Registry holds the ticker feeds in display order and remembers the last
// fragment each produced.
type Registry struct {
	resolvers        []Resolver
	onChange         func(Result)
	showPlaceholders bool

	mu      sync.RWMutex
	results map[string]Result
}

// NewRegistry registers resolvers in display order. onChange runs once
// after every completed resolution, from the goroutine that resolved it.
func NewRegistry(onChange func(Result), resolvers ...Resolver) *Registry {
	return &Registry{
		resolvers: resolvers,
		onChange:  onChange,
		results:   make(map[string]Result, len(resolvers)),
	}
}

// NewDefaultRegistry wires the price and sentiment feeds from cfg.
func NewDefaultRegistry(cfg *config.Config, kv storage.KV, clk clock.Clock, onChange func(Result)) *Registry {
	fetcher := NewFetcher(cfg)

	var resolvers []Resolver
	if cfg.Feeds.Price.Enabled {
		resolvers = append(resolvers, NewPriceCache(cfg.Feeds.Price.URL, cfg.Feeds.Price.TTL, fetcher, kv, clk))
	}
	if cfg.Feeds.Sentiment.Enabled {
		resolvers = append(resolvers, NewSentimentCache(cfg.Feeds.Sentiment.URL, cfg.Feeds.Sentiment.TTL, fetcher, kv, clk))
	}
	r := NewRegistry(onChange, resolvers...)
	r.showPlaceholders = cfg.Feeds.ShowPlaceholders
	return r
}

// ShowPlaceholders controls whether feeds that are Unavailable contribute
// their placeholder fragment to CurrentPrefixes.
func (r *Registry) ShowPlaceholders(show bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.showPlaceholders = show
}

// Refresh resolves every feed concurrently and returns once all have
// completed. Each completion is recorded and announced independently, so
// the order in which feeds finish does not matter.
func (r *Registry) Refresh(ctx context.Context) {
	var g errgroup.Group
	for _, res := range r.resolvers {
		g.Go(func() error {
			result := res.Resolve(ctx)
			r.record(result)
			if r.onChange != nil {
				r.onChange(result)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Run refreshes every interval until ctx is done. The TTLs still decide
// whether a refresh touches the network.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			debuglog.Debugf("periodic feed refresh")
			r.Refresh(ctx)
		}
	}
}

func (r *Registry) record(result Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.Feed] = result
}

// CurrentPrefixes returns the latest fragment of every feed that has
// produced one, in registration order. Feeds never resolved contribute
// nothing, and neither do Unavailable feeds unless placeholders are shown.
func (r *Registry) CurrentPrefixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefixes := make([]string, 0, len(r.resolvers))
	for _, res := range r.resolvers {
		result, ok := r.results[res.Name()]
		if !ok || result.Fragment == "" {
			continue
		}
		if result.State == Unavailable && !r.showPlaceholders {
			continue
		}
		prefixes = append(prefixes, result.Fragment)
	}
	return prefixes
}

// Status is the per-feed view used by the CLI and the preview footer.
type Status struct {
	Feed       string
	State      State
	Fragment   string
	ResolvedAt time.Time
}

func (r *Registry) Statuses() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Status, 0, len(r.resolvers))
	for _, res := range r.resolvers {
		status := Status{Feed: res.Name(), State: Cold}
		if result, ok := r.results[res.Name()]; ok {
			status.State = result.State
			status.Fragment = result.Fragment
			status.ResolvedAt = result.ResolvedAt
		}
		out = append(out, status)
	}
	return out
}
