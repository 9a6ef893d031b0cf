package feed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pders01/homepage/internal/clock"
	"github.com/pders01/homepage/internal/debuglog"
	"github.com/pders01/homepage/internal/storage"
)

// Keys names the storage slots one feed persists into. Label is optional.
type Keys struct {
	Value     string
	Label     string
	FetchedAt string
}

// Payload is the string form of a cached value as it sits in storage.
type Payload struct {
	Value string
	Label string
}

// CachedValue is a decoded payload together with its fetch time.
type CachedValue[T any] struct {
	Value     T
	FetchedAt time.Time
}

// Source describes one remote feed: how to fetch it, how to move it in and
// out of storage, and how to print it.
type Source[T any] struct {
	Name        string
	Keys        Keys
	TTL         time.Duration
	Fetch       func(ctx context.Context) (T, error)
	Encode      func(T) Payload
	Decode      func(Payload) (T, error)
	Format      func(T) string
	Placeholder string
}

// Result is what a resolution hands back: always something displayable.
type Result struct {
	Feed       string
	Fragment   string
	State      State
	ResolvedAt time.Time
}

// TTLCache answers "what should this feed show right now", consulting the
// store before the network and falling back to the store when the network
// fails.
type TTLCache[T any] struct {
	src    Source[T]
	kv     storage.KV
	clock  clock.Clock
	group  singleflight.Group
	logger *debuglog.FieldLogger
}

func NewTTLCache[T any](src Source[T], kv storage.KV, clk clock.Clock) *TTLCache[T] {
	if clk == nil {
		clk = clock.Real()
	}
	return &TTLCache[T]{
		src:    src,
		kv:     kv,
		clock:  clk,
		logger: debuglog.WithFields(map[string]any{"feed": src.Name}),
	}
}

func (c *TTLCache[T]) Name() string {
	return c.src.Name
}

func (c *TTLCache[T]) TTL() time.Duration {
	return c.src.TTL
}

// Resolve returns the fragment to display. Concurrent calls share one
// resolution. Failures are logged and degrade to the cached value or the
// placeholder; they are never returned.
func (c *TTLCache[T]) Resolve(ctx context.Context) Result {
	v, _, _ := c.group.Do(c.src.Name, func() (any, error) {
		return c.resolve(ctx), nil
	})
	return v.(Result)
}

func (c *TTLCache[T]) resolve(ctx context.Context) Result {
	now := c.clock.Now()

	// A timestamp from the future (clock moved back) counts as expired.
	cached, err := c.Peek()
	age := now.Sub(cached.FetchedAt)
	if err == nil && !cached.FetchedAt.IsZero() && age >= 0 && age < c.src.TTL {
		c.logger.Debugf("cache hit, age %s", age.Round(time.Second))
		return c.result(c.src.Format(cached.Value), Fresh, now)
	}

	value, fetchErr := c.src.Fetch(ctx)
	if fetchErr == nil {
		c.store(value, now)
		return c.result(c.src.Format(value), Fresh, now)
	}

	if err == nil {
		c.logger.With("state", Stale).Warnf("refresh failed, using cached value: %v", fetchErr)
		return c.result(c.src.Format(cached.Value), Stale, now)
	}

	c.logger.With("state", Unavailable).Warnf("refresh failed, nothing cached: %v (%v)", fetchErr, err)
	return c.result(c.src.Placeholder, Unavailable, now)
}

func (c *TTLCache[T]) result(fragment string, state State, at time.Time) Result {
	return Result{
		Feed:       c.src.Name,
		Fragment:   fragment,
		State:      state,
		ResolvedAt: at,
	}
}

// Peek decodes whatever is stored for the feed without touching the
// network. A missing timestamp yields a zero FetchedAt.
func (c *TTLCache[T]) Peek() (CachedValue[T], error) {
	var out CachedValue[T]

	raw, ok := c.kv.Get(c.src.Keys.Value)
	if !ok || raw == "" {
		return out, ErrCacheMiss
	}

	payload := Payload{Value: raw}
	if c.src.Keys.Label != "" {
		payload.Label, _ = c.kv.Get(c.src.Keys.Label)
	}

	value, err := c.src.Decode(payload)
	if err != nil {
		return out, fmt.Errorf("%w: stored value: %v", ErrMalformed, err)
	}
	out.Value = value

	if ts, ok := c.kv.Get(c.src.Keys.FetchedAt); ok {
		if ms, parseErr := strconv.ParseInt(ts, 10, 64); parseErr == nil {
			out.FetchedAt = time.UnixMilli(ms)
		}
	}

	return out, nil
}

func (c *TTLCache[T]) store(value T, now time.Time) {
	payload := c.src.Encode(value)

	writes := []struct{ key, value string }{
		{c.src.Keys.Value, payload.Value},
	}
	if c.src.Keys.Label != "" {
		writes = append(writes, struct{ key, value string }{c.src.Keys.Label, payload.Label})
	}
	writes = append(writes, struct{ key, value string }{c.src.Keys.FetchedAt, strconv.FormatInt(now.UnixMilli(), 10)})

	for _, w := range writes {
		if err := c.kv.Set(w.key, w.value); err != nil {
			c.logger.Errorf("persisting %s: %v", w.key, err)
			return
		}
	}
	c.logger.Debugf("stored fresh value %q", payload.Value)
}
