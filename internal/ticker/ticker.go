// Package ticker composes the scrolling footer text from the feed fragments
// and the static message.
package ticker

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	// Separators use no-break spaces so HTML hosts keep the gaps.

	// PrefixSeparator sits between two feed fragments.
	PrefixSeparator = "\u00a0\u00a0"
	// MessageSeparator sits between the last fragment and the message.
	MessageSeparator = "\u00a0\u00a0\u00a0"
	// UnitSeparator sits between repetitions of the unit.
	UnitSeparator = "\u00a0\u00a0\u00a0•\u00a0\u00a0\u00a0"

	DefaultRepeat = 5

	minDuration    = 10 * time.Second
	secondsPerRune = 0.15
)

// Marquee is one rendering of the ticker.
type Marquee struct {
	// Unit is prefixes plus message, shown once.
	Unit string
	// Text is Unit repeated for the endless-scroll effect.
	Text string
	// Duration is how long one full scroll of Text should take.
	Duration time.Duration
}

// Compose builds the unit: non-empty prefixes, then the message.
func Compose(message string, prefixes []string) string {
	parts := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return message
	}
	head := strings.Join(parts, PrefixSeparator)
	if message == "" {
		return head
	}
	return head + MessageSeparator + message
}

// ScrollDuration grows with the unit length so long content scrolls at a
// roughly constant speed, with a floor of ten seconds.
func ScrollDuration(unit string) time.Duration {
	seconds := float64(utf8.RuneCountInString(unit)) * secondsPerRune
	d := time.Duration(seconds * float64(time.Second))
	if d < minDuration {
		return minDuration
	}
	return d
}

func Render(message string, prefixes []string, repeat int) Marquee {
	if repeat < 1 {
		repeat = DefaultRepeat
	}
	unit := Compose(message, prefixes)

	units := make([]string, repeat)
	for i := range units {
		units[i] = unit
	}

	return Marquee{
		Unit:     unit,
		Text:     strings.Join(units, UnitSeparator),
		Duration: ScrollDuration(unit),
	}
}

// PrefixSource supplies the current feed fragments.
type PrefixSource interface {
	CurrentPrefixes() []string
}

// Ticker holds the static message and renders it against the live feed
// fragments. Rendering is idempotent; callers may re-render at will.
type Ticker struct {
	prefixes PrefixSource
	repeat   int

	mu      sync.RWMutex
	message string
}

func New(prefixes PrefixSource, initialMessage string, repeat int) *Ticker {
	return &Ticker{
		prefixes: prefixes,
		repeat:   repeat,
		message:  initialMessage,
	}
}

func (t *Ticker) SetMessage(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.message = message
}

func (t *Ticker) Message() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.message
}

// Current renders the ticker from the latest message and fragments.
func (t *Ticker) Current() Marquee {
	var prefixes []string
	if t.prefixes != nil {
		prefixes = t.prefixes.CurrentPrefixes()
	}
	return Render(t.Message(), prefixes, t.repeat)
}
