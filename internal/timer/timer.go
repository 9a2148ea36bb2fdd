// Package timer turns discrete "mark now" actions into timestamps.
// Field timers are single-shot; item timers dispatch on their shape. The
// pair shape is a two-state machine per item (Idle/Running) keyed solely
// on Current, so every click has exactly one effect and a replayed click
// sequence always reproduces the same pairs.
package timer

import (
	"time"

	"github.com/dparedesb/servicetimes/internal/rows"
)

// SetField stamps a field timer with the current time. Re-invocation
// overwrites with the later time; that is accepted, not an error.
func SetField(r *rows.Row, field string, now time.Time) {
	if r.FieldTimers == nil {
		r.FieldTimers = make(map[string]*string)
	}
	ts := rows.Clock(now)
	r.FieldTimers[field] = &ts
}

// Toggle advances an item timer. Single shape: stamp (or overwrite) the
// ordered-at time. Pair shape: Idle starts an interval, Running closes
// it and appends the completed pair. A missing timer entry is created
// with the given shape first, so screens can populate items lazily.
func Toggle(r *rows.Row, item string, shape rows.TimerShape, now time.Time) {
	if r.ItemTimers == nil {
		r.ItemTimers = make(map[string]*rows.ItemTimer)
	}
	t, ok := r.ItemTimers[item]
	if !ok || t == nil {
		t = rows.NewItemTimer(shape)
		r.ItemTimers[item] = t
	}

	ts := rows.Clock(now)
	switch t.Shape {
	case rows.ShapeSingle:
		t.At = &ts
	case rows.ShapePair:
		if t.Current == nil {
			t.Current = &ts
			return
		}
		t.Pairs = append(t.Pairs, rows.TimePair{Start: *t.Current, End: ts})
		t.Current = nil
	}
}

// RemovePair deletes one completed interval by index. It never touches
// Current, so a running capture survives the deletion.
func RemovePair(r *rows.Row, item string, index int) {
	t := r.ItemTimers[item]
	if t == nil || t.Shape != rows.ShapePair {
		return
	}
	if index < 0 || index >= len(t.Pairs) {
		return
	}
	t.Pairs = append(t.Pairs[:index], t.Pairs[index+1:]...)
}
