package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/homepage/internal/ticker"
	"github.com/pders01/homepage/internal/tooltip"
)

// footer is what the surface last asked to show.
type footer struct {
	mode    tooltip.Mode
	marquee ticker.Marquee
	text    string
	version int
}

// Sink receives tooltip surface updates from any goroutine and wakes the
// program. It never blocks on the program: Send runs on its own goroutine
// because surface updates can originate inside Update.
type Sink struct {
	mu     sync.Mutex
	state  footer
	notify func(tea.Msg)
}

func NewSink() *Sink {
	return &Sink{}
}

// Attach routes wake-ups to the running program.
func (s *Sink) Attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = p.Send
}

// Post delivers msg to the program without blocking. It is dropped when
// no program is attached.
func (s *Sink) Post(msg tea.Msg) {
	s.mu.Lock()
	notify := s.notify
	s.mu.Unlock()

	if notify != nil {
		go notify(msg)
	}
}

func (s *Sink) ShowMarquee(m ticker.Marquee) {
	s.update(func(f *footer) {
		f.mode = tooltip.Default
		f.marquee = m
		f.text = ""
	})
}

func (s *Sink) ShowExpanded(text string) {
	s.update(func(f *footer) {
		f.mode = tooltip.Expanded
		f.text = text
	})
}

func (s *Sink) update(fn func(*footer)) {
	s.mu.Lock()
	fn(&s.state)
	s.state.version++
	s.mu.Unlock()

	s.Post(surfaceChangedMsg{})
}

func (s *Sink) snapshot() footer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
