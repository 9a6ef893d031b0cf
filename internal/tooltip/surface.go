// Package tooltip owns the footer surface that alternates between the
// scrolling ticker and the expanded text of a hovered or tapped icon.
package tooltip

import (
	"sync"
	"time"

	"github.com/pders01/homepage/internal/clock"
	"github.com/pders01/homepage/internal/debuglog"
	"github.com/pders01/homepage/internal/ticker"
)

// DefaultRevertDelay is how long cleared text stays up before the ticker
// comes back.
const DefaultRevertDelay = 2 * time.Second

type Mode int

const (
	Default Mode = iota
	Expanded
)

func (m Mode) String() string {
	switch m {
	case Default:
		return "default"
	case Expanded:
		return "expanded"
	default:
		return "unknown"
	}
}

// Sink is the visible surface. Calls are serialized by the Surface and must
// not call back into it.
type Sink interface {
	ShowMarquee(m ticker.Marquee)
	ShowExpanded(text string)
}

// MarqueeSource supplies the ticker content to show in Default mode.
type MarqueeSource interface {
	Current() ticker.Marquee
}

// Surface is the single writer of the footer display state and its revert
// timer.
type Surface struct {
	sink      Sink
	source    MarqueeSource
	clock     clock.Clock
	delay     time.Duration
	remeasure func()

	mu    sync.Mutex
	mode  Mode
	text  string
	timer clock.Timer
	gen   uint64
}

// New creates a Surface in Default mode. Nothing is rendered until
// ShowDefault. remeasure may be nil.
func New(sink Sink, source MarqueeSource, clk clock.Clock, delay time.Duration, remeasure func()) *Surface {
	if clk == nil {
		clk = clock.Real()
	}
	if delay <= 0 {
		delay = DefaultRevertDelay
	}
	return &Surface{
		sink:      sink,
		source:    source,
		clock:     clk,
		delay:     delay,
		remeasure: remeasure,
	}
}

// ShowExpanded replaces the ticker with text and cancels any pending
// revert. Empty text behaves like ClearToDefault.
func (s *Surface) ShowExpanded(text string) {
	if text == "" {
		s.ClearToDefault()
		return
	}

	s.mu.Lock()
	s.cancelLocked()
	s.mode = Expanded
	s.text = text
	s.sink.ShowExpanded(text)
	s.mu.Unlock()

	s.measure()
}

// ClearToDefault schedules the return to the ticker after the revert
// delay. The current text stays visible until then; a later call or a new
// ShowExpanded supersedes the pending revert.
func (s *Surface) ClearToDefault() {
	s.mu.Lock()
	s.cancelLocked()
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.delay, func() { s.revert(gen) })
	s.mu.Unlock()

	s.measure()
}

// ShowDefault renders the ticker immediately and drops any pending revert.
func (s *Surface) ShowDefault() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.renderDefaultLocked()
}

// Refresh re-renders the ticker if it is what is currently shown. Expanded
// text is left alone; the next revert picks up the new content.
func (s *Surface) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != Default {
		return
	}
	s.renderDefaultLocked()
}

// State reports the current mode and, when Expanded, the visible text.
func (s *Surface) State() (Mode, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == Expanded {
		return s.mode, s.text
	}
	return s.mode, ""
}

// Pending reports whether a revert is armed.
func (s *Surface) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *Surface) revert(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.timer = nil
	debuglog.Debugf("tooltip revert fired")
	s.renderDefaultLocked()
}

// cancelLocked stops the armed timer and bumps the generation so a timer
// already past Stop cannot render.
func (s *Surface) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Surface) renderDefaultLocked() {
	s.mode = Default
	s.text = ""
	if s.source == nil {
		return
	}
	s.sink.ShowMarquee(s.source.Current())
}

func (s *Surface) measure() {
	if s.remeasure != nil {
		s.remeasure()
	}
}
