package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/homepage/internal/clock"
	"github.com/pders01/homepage/internal/config"
	"github.com/pders01/homepage/internal/page"
	"github.com/pders01/homepage/internal/storage"
	"github.com/pders01/homepage/internal/ticker"
)

type lastMarquee struct {
	m atomic.Value
}

func (l *lastMarquee) ShowMarquee(m ticker.Marquee) { l.m.Store(m) }
func (l *lastMarquee) ShowExpanded(string)          {}

func (l *lastMarquee) unit() string {
	m, _ := l.m.Load().(ticker.Marquee)
	return m.Unit
}

type upstream struct {
	server    *httptest.Server
	priceHits atomic.Int32
	fngHits   atomic.Int32
	down      atomic.Bool
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("/rate", func(w http.ResponseWriter, r *http.Request) {
		u.priceHits.Add(1)
		if u.down.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"rate":"61.25"}`))
	})
	mux.HandleFunc("/fng", func(w http.ResponseWriter, r *http.Request) {
		u.fngHits.Add(1)
		if u.down.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data":[{"value":"72","value_classification":"Greed"}]}`))
	})
	u.server = httptest.NewServer(mux)
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) config(dbPath string) *config.Config {
	cfg := config.TestConfig()
	cfg.Database.Path = dbPath
	cfg.Feeds.Price.URL = u.server.URL + "/rate"
	cfg.Feeds.Sentiment.URL = u.server.URL + "/fng"
	return cfg
}

// load simulates one page load against a freshly opened database.
func load(t *testing.T, cfg *config.Config, clk clock.Clock) string {
	t.Helper()
	store, err := storage.NewStore(cfg.Database.Path)
	require.NoError(t, err)
	defer store.Close()

	sink := &lastMarquee{}
	page.New(cfg, store, sink, page.Options{Clock: clk}).Load(context.Background())
	return sink.unit()
}

func TestReloadWithinTTLSkipsNetwork(t *testing.T) {
	u := newUpstream(t)
	cfg := u.config(filepath.Join(t.TempDir(), "cache.db"))
	clk := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	first := load(t, cfg, clk)
	assert.Equal(t, "— BSV $61.25 —"+ticker.PrefixSeparator+"— F&G 72 Greed —"+ticker.MessageSeparator+cfg.Ticker.DefaultMessage, first)
	assert.EqualValues(t, 1, u.priceHits.Load())
	assert.EqualValues(t, 1, u.fngHits.Load())

	clk.Set(clk.Now().Add(5 * time.Minute))
	second := load(t, cfg, clk)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, u.priceHits.Load(), "price still fresh after reload")
	assert.EqualValues(t, 1, u.fngHits.Load())

	// price expires, sentiment does not
	clk.Set(clk.Now().Add(10 * time.Minute))
	load(t, cfg, clk)
	assert.EqualValues(t, 2, u.priceHits.Load())
	assert.EqualValues(t, 1, u.fngHits.Load())
}

func TestReloadWhileUpstreamDownServesStale(t *testing.T) {
	u := newUpstream(t)
	cfg := u.config(filepath.Join(t.TempDir(), "cache.db"))
	clk := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	load(t, cfg, clk)

	u.down.Store(true)
	clk.Set(clk.Now().Add(48 * time.Hour))
	unit := load(t, cfg, clk)

	assert.Contains(t, unit, "— BSV $61.25 —")
	assert.Contains(t, unit, "— F&G 72 Greed —")
	assert.EqualValues(t, 2, u.priceHits.Load())
	assert.EqualValues(t, 2, u.fngHits.Load())
}
