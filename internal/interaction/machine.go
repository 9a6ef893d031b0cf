package interaction

import (
	"strings"
	"sync"

	"github.com/pders01/homepage/internal/debuglog"
)

const (
	IconWrapperClass = "icon-wrapper"
	TooltipAttr      = "data-tooltip"
	SelectedClass    = "mobile-selected"
	DefaultTapPrompt = "Tap again to open"
	EscapeKey        = "Escape"
)

var (
	iconWrapper     = WithClass(IconWrapperClass)
	iconWithTooltip = All(WithClass(IconWrapperClass), WithAttr(TooltipAttr))
	link            = WithTag("a")
)

// Surface is what the machine drives on the footer.
type Surface interface {
	ShowExpanded(text string)
	ClearToDefault()
}

// ModeFunc reports whether the page is in mobile mode. It is consulted on
// every event so the mode can change at runtime.
type ModeFunc func() bool

// Machine owns the mobile selection slot: at most one link carries the
// selected class at a time.
type Machine struct {
	surface Surface
	mobile  ModeFunc
	prompt  string

	mu       sync.Mutex
	selected Element
}

func NewMachine(surface Surface, mobile ModeFunc, prompt string) *Machine {
	if mobile == nil {
		mobile = func() bool { return false }
	}
	if prompt == "" {
		prompt = DefaultTapPrompt
	}
	return &Machine{surface: surface, mobile: mobile, prompt: prompt}
}

// Register subscribes the machine to every event it reacts to.
func (m *Machine) Register(d *Dispatcher) {
	d.Subscribe(PointerEnter, m.onPointerEnter)
	d.Subscribe(PointerLeave, m.onPointerLeave)
	d.Subscribe(Click, m.onClick)
	d.Subscribe(PointerDown, m.onPointerDown)
	d.Subscribe(KeyDown, m.onKeyDown)
	d.Subscribe(WindowBlur, func(*Event) { m.Reset() })
	d.Subscribe(VisibilityChange, m.onVisibilityChange)
}

// Selected returns the currently selected link, or nil.
func (m *Machine) Selected() Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Reset drops the selection and lets the surface fall back to the ticker.
// Without a selection it does nothing.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Machine) resetLocked() {
	if m.selected == nil {
		return
	}
	m.selected.RemoveClass(SelectedClass)
	m.selected = nil
	m.surface.ClearToDefault()
}

func (m *Machine) onPointerEnter(ev *Event) {
	if m.mobile() || ev.Target == nil {
		return
	}
	if wrap := Closest(ev.Target, iconWithTooltip); wrap != nil {
		text, _ := wrap.Attr(TooltipAttr)
		m.surface.ShowExpanded(text)
	}
}

func (m *Machine) onPointerLeave(ev *Event) {
	if m.mobile() || ev.Target == nil {
		return
	}
	if Closest(ev.Target, iconWithTooltip) != nil {
		m.surface.ClearToDefault()
	}
}

// onClick implements double tap: the first tap on a link selects it and
// blocks navigation, the second lets navigation through.
func (m *Machine) onClick(ev *Event) {
	if !m.mobile() || ev.Target == nil {
		return
	}
	wrap := Closest(ev.Target, iconWrapper)
	if wrap == nil {
		return
	}
	anchor := Closest(wrap, link)
	if anchor == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selected != nil && m.selected != anchor {
		m.selected.RemoveClass(SelectedClass)
		m.selected = nil
	}

	if !anchor.HasClass(SelectedClass) {
		ev.PreventDefault()
		anchor.AddClass(SelectedClass)
		m.selected = anchor
		m.surface.ShowExpanded(m.tapText(wrap))
		return
	}

	debuglog.Debugf("second tap, navigating")
	m.resetLocked()
}

func (m *Machine) tapText(wrap Element) string {
	if text, ok := wrap.Attr(TooltipAttr); ok && text != "" {
		return text
	}
	if text := strings.TrimSpace(wrap.Text()); text != "" {
		return text
	}
	return m.prompt
}

func (m *Machine) onPointerDown(ev *Event) {
	if !m.mobile() {
		return
	}
	if ev.Target != nil && Closest(ev.Target, iconWrapper) != nil {
		return
	}
	m.Reset()
}

func (m *Machine) onKeyDown(ev *Event) {
	if ev.Key == EscapeKey {
		m.Reset()
	}
}

func (m *Machine) onVisibilityChange(ev *Event) {
	if ev.Hidden {
		m.Reset()
	}
}
