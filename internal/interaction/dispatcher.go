package interaction

import "sync"

type EventKind int

const (
	PointerEnter EventKind = iota
	PointerLeave
	Click
	PointerDown
	KeyDown
	WindowBlur
	VisibilityChange
)

func (k EventKind) String() string {
	switch k {
	case PointerEnter:
		return "pointerenter"
	case PointerLeave:
		return "pointerleave"
	case Click:
		return "click"
	case PointerDown:
		return "pointerdown"
	case KeyDown:
		return "keydown"
	case WindowBlur:
		return "blur"
	case VisibilityChange:
		return "visibilitychange"
	default:
		return "unknown"
	}
}

// Event is one input delivered to subscribers. Target is nil for window
// level events.
type Event struct {
	Kind   EventKind
	Target Element
	Key    string
	Hidden bool

	prevented bool
}

// PreventDefault asks the host to skip its default action, such as
// following a link.
func (e *Event) PreventDefault() {
	e.prevented = true
}

func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

type Handler func(*Event)

// Outcome is what the host needs to know after dispatch.
type Outcome struct {
	PreventDefault bool
}

// Dispatcher is an explicit subscription registry. Handlers run
// synchronously in subscription order.
type Dispatcher struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[EventKind][]subscription
}

type subscription struct {
	id      int
	handler Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[EventKind][]subscription)}
}

// Subscribe registers handler for kind and returns a function that removes
// it again.
func (d *Dispatcher) Subscribe(kind EventKind, handler Handler) (unsubscribe func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.handlers[kind] = append(d.handlers[kind], subscription{id: id, handler: handler})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		subs := d.handlers[kind]
		for i, s := range subs {
			if s.id == id {
				d.handlers[kind] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers ev to every handler subscribed to its kind.
func (d *Dispatcher) Dispatch(ev Event) Outcome {
	// Snapshot under lock; handlers may subscribe or unsubscribe.
	d.mu.RLock()
	subs := d.handlers[ev.Kind]
	d.mu.RUnlock()

	for _, s := range subs {
		s.handler(&ev)
	}
	return Outcome{PreventDefault: ev.prevented}
}
