package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_OrderAndOutcome(t *testing.T) {
	d := NewDispatcher()
	var calls []string

	d.Subscribe(Click, func(*Event) { calls = append(calls, "first") })
	d.Subscribe(Click, func(ev *Event) {
		calls = append(calls, "second")
		ev.PreventDefault()
	})
	d.Subscribe(KeyDown, func(*Event) { calls = append(calls, "key") })

	out := d.Dispatch(Event{Kind: Click})
	assert.True(t, out.PreventDefault)
	assert.Equal(t, []string{"first", "second"}, calls)

	out = d.Dispatch(Event{Kind: PointerDown})
	assert.False(t, out.PreventDefault)
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	d := NewDispatcher()
	count := 0
	unsubscribe := d.Subscribe(WindowBlur, func(*Event) { count++ })

	d.Dispatch(Event{Kind: WindowBlur})
	unsubscribe()
	d.Dispatch(Event{Kind: WindowBlur})

	assert.Equal(t, 1, count)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "click", Click.String())
	assert.Equal(t, "visibilitychange", VisibilityChange.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}
