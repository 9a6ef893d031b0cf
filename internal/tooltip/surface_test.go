package tooltip

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/homepage/internal/clock"
	"github.com/pders01/homepage/internal/ticker"
)

type recordingSink struct {
	mu       sync.Mutex
	marquees []ticker.Marquee
	expanded []string
}

func (r *recordingSink) ShowMarquee(m ticker.Marquee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marquees = append(r.marquees, m)
}

func (r *recordingSink) ShowExpanded(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expanded = append(r.expanded, text)
}

func (r *recordingSink) defaults() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.marquees)
}

type staticSource string

func (s staticSource) Current() ticker.Marquee {
	return ticker.Render(string(s), nil, ticker.DefaultRepeat)
}

func newSurface(t *testing.T) (*Surface, *recordingSink, *clock.Fake) {
	t.Helper()
	sink := &recordingSink{}
	clk := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return New(sink, staticSource("hello"), clk, DefaultRevertDelay, nil), sink, clk
}

func TestShowExpanded_SupersededNeverRevertsEarly(t *testing.T) {
	s, sink, clk := newSurface(t)

	s.ShowExpanded("X")
	clk.Advance(500 * time.Millisecond)
	s.ShowExpanded("Y")
	clk.Advance(5 * time.Second)

	assert.Equal(t, 0, sink.defaults())
	assert.Equal(t, []string{"X", "Y"}, sink.expanded)

	mode, text := s.State()
	assert.Equal(t, Expanded, mode)
	assert.Equal(t, "Y", text)
}

func TestClearToDefault_TwiceRevertsOnce(t *testing.T) {
	s, sink, clk := newSurface(t)

	s.ShowExpanded("X")
	s.ClearToDefault()
	clk.Advance(1 * time.Second)
	s.ClearToDefault()
	assert.Equal(t, 1, clk.Pending())

	clk.Advance(1500 * time.Millisecond)
	assert.Equal(t, 0, sink.defaults(), "second clear restarted the delay")

	clk.Advance(time.Second)
	assert.Equal(t, 1, sink.defaults())

	clk.Advance(10 * time.Second)
	assert.Equal(t, 1, sink.defaults())
	assert.False(t, s.Pending())
}

func TestClearToDefault_KeepsTextUntilRevert(t *testing.T) {
	s, _, clk := newSurface(t)

	s.ShowExpanded("X")
	s.ClearToDefault()

	mode, text := s.State()
	assert.Equal(t, Expanded, mode)
	assert.Equal(t, "X", text)
	assert.True(t, s.Pending())

	clk.Advance(DefaultRevertDelay)
	mode, text = s.State()
	assert.Equal(t, Default, mode)
	assert.Empty(t, text)
}

func TestShowExpanded_CancelsPendingRevert(t *testing.T) {
	s, sink, clk := newSurface(t)

	s.ClearToDefault()
	clk.Advance(1900 * time.Millisecond)
	s.ShowExpanded("Z")
	clk.Advance(time.Minute)

	assert.Equal(t, 0, sink.defaults())
	assert.Equal(t, 0, clk.Pending())
}

func TestShowExpanded_EmptyClears(t *testing.T) {
	s, sink, clk := newSurface(t)

	s.ShowExpanded("X")
	s.ShowExpanded("")
	assert.True(t, s.Pending())

	clk.Advance(DefaultRevertDelay)
	assert.Equal(t, 1, sink.defaults())
}

func TestRefresh_OnlyInDefaultMode(t *testing.T) {
	s, sink, _ := newSurface(t)

	s.ShowDefault()
	s.Refresh()
	assert.Equal(t, 2, sink.defaults())

	s.ShowExpanded("X")
	s.Refresh()
	assert.Equal(t, 2, sink.defaults(), "feed updates do not clobber expanded text")
}

func TestRevert_RendersLatestMarquee(t *testing.T) {
	sink := &recordingSink{}
	clk := clock.NewFake(time.Now())
	tk := ticker.New(nil, "before", ticker.DefaultRepeat)
	s := New(sink, tk, clk, 0, nil)

	s.ShowExpanded("X")
	s.ClearToDefault()
	tk.SetMessage("after")
	clk.Advance(DefaultRevertDelay)

	require.Len(t, sink.marquees, 1)
	assert.Equal(t, "after", sink.marquees[0].Unit)
}

func TestRemeasureHook(t *testing.T) {
	calls := 0
	sink := &recordingSink{}
	s := New(sink, staticSource("m"), clock.NewFake(time.Now()), time.Second, func() { calls++ })

	s.ShowExpanded("X")
	s.ClearToDefault()
	assert.Equal(t, 2, calls)

	// absent hook is a no-op
	s2 := New(sink, staticSource("m"), clock.NewFake(time.Now()), time.Second, nil)
	assert.NotPanics(t, func() {
		s2.ShowExpanded("X")
		s2.ClearToDefault()
	})
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "default", Default.String())
	assert.Equal(t, "expanded", Expanded.String())
	assert.Equal(t, "unknown", Mode(9).String())
}
