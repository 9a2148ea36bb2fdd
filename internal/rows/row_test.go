package rows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestClock(t *testing.T) {
	at := time.Date(2025, 3, 14, 13, 5, 7, 123_000_000, time.UTC)
	assert.Equal(t, "13:05:07.123", Clock(at))

	midnight := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "00:00:00.000", Clock(midnight))
}

func TestWeekday(t *testing.T) {
	// 2025-03-14 is a Friday.
	assert.Equal(t, "viernes", Weekday(time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "domingo", Weekday(time.Date(2025, 3, 16, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "miércoles", Weekday(time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)))
}

func TestItemTimerIsSet(t *testing.T) {
	var nilTimer *ItemTimer
	assert.False(t, nilTimer.IsSet())

	single := NewItemTimer(ShapeSingle)
	assert.False(t, single.IsSet())
	single.At = strPtr("10:00:00.000")
	assert.True(t, single.IsSet())

	pair := NewItemTimer(ShapePair)
	assert.False(t, pair.IsSet())
	pair.Current = strPtr("10:00:00.000")
	assert.False(t, pair.IsSet(), "a pending start is not a captured time")
	assert.True(t, pair.Running())
	pair.Pairs = append(pair.Pairs, TimePair{Start: "10:00:00.000", End: "10:01:00.000"})
	assert.True(t, pair.IsSet())
}

func TestRowClone(t *testing.T) {
	r := Row{
		ID:          "row-1",
		Description: "window table",
		FieldTimers: map[string]*string{
			"arribo":   strPtr("10:00:00.000"),
			"finPago":  nil,
			"finPedido": nil,
		},
		ItemQuantities: map[string]int{"helados": 2},
		ItemTimers: map[string]*ItemTimer{
			"helados": {
				Shape:   ShapePair,
				Current: strPtr("10:05:00.000"),
				Pairs:   []TimePair{{Start: "09:00:00.000", End: "09:02:00.000"}},
			},
		},
		PaymentMethod: PaymentCash,
	}

	c := r.Clone()
	require.Equal(t, r, c)

	// Mutations on the clone must not reach the original.
	*c.FieldTimers["arribo"] = "11:11:11.111"
	c.ItemQuantities["helados"] = 9
	c.ItemTimers["helados"].Pairs[0].End = "changed"
	*c.ItemTimers["helados"].Current = "changed"

	assert.Equal(t, "10:00:00.000", *r.FieldTimers["arribo"])
	assert.Equal(t, 2, r.ItemQuantities["helados"])
	assert.Equal(t, "09:02:00.000", r.ItemTimers["helados"].Pairs[0].End)
	assert.Equal(t, "10:05:00.000", *r.ItemTimers["helados"].Current)
}
