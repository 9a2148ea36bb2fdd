package screen

import (
	"time"

	"github.com/dparedesb/servicetimes/internal/rows"
)

// Payload builds the flattened shape persisted on submit. It drops the
// transient and UI-only fields (id, editing flag, description, turn
// label), inlines the screen's timers by name, and stamps the Spanish
// weekday derived at submit time.
func Payload(cfg Config, r rows.Row, now time.Time) map[string]any {
	out := map[string]any{
		"diaSemana": rows.Weekday(now),
	}
	for _, f := range cfg.FieldTimers {
		out[f] = timerValue(r.FieldTimers[f])
	}
	for _, item := range cfg.Items {
		t := r.ItemTimers[item]
		switch cfg.TimerShape {
		case rows.ShapePair:
			pairs := []rows.TimePair{}
			if t != nil && t.Pairs != nil {
				pairs = t.Pairs
			}
			out[item] = pairs
		case rows.ShapeSingle:
			if t == nil {
				out[item] = ""
			} else {
				out[item] = timerValue(t.At)
			}
		}
	}
	if cfg.HasQuantities {
		out["cantidades"] = r.ItemQuantities
	}
	if cfg.HasPayment {
		out["metodoPago"] = r.PaymentMethod
	}
	if cfg.TableRules {
		out["consumoInterno"] = r.InternalConsumption
	}
	out["observacion"] = r.Observation
	return out
}

func timerValue(ts *string) string {
	if ts == nil {
		return ""
	}
	return *ts
}
