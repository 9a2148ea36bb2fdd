// Package validate holds the submit-time coherence rules. The checks run
// only when the operator submits, never while typing, and the first
// failing rule wins so the UI surfaces a single message.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dparedesb/servicetimes/internal/rows"
	"github.com/dparedesb/servicetimes/internal/screen"
)

var (
	ErrMissingTimers         = errors.New("required timers not set")
	ErrNoItems               = errors.New("no item quantities recorded")
	ErrNoPreparations        = errors.New("no preparation intervals recorded")
	ErrQuantityTimerMismatch = errors.New("item quantity and timer disagree")
	ErrTableTimersMissing    = errors.New("table occupancy timers not set")
	ErrTableTimersForbidden  = errors.New("table timers set without internal consumption")
)

// Failure identifies which rule rejected the row and what it points at.
// It wraps one of the sentinel errors above for errors.Is dispatch.
type Failure struct {
	Reason error
	Item   string
	Fields []string
}

func (f *Failure) Error() string {
	msg := f.Reason.Error()
	if f.Item != "" {
		msg = fmt.Sprintf("%s: %s", msg, f.Item)
	}
	if len(f.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(f.Fields, ", "))
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Reason }

// Reason returns the metric/UI label for a failure: the sentinel text
// for a *Failure, a generic label otherwise.
func Reason(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason.Error()
	}
	return "invalid"
}

// Check applies the screen's rules in order and returns nil or the first
// failure. It never mutates the row.
func Check(r rows.Row, cfg screen.Config) error {
	if f := checkRequiredTimers(r, cfg); f != nil {
		return f
	}
	if cfg.HasQuantities {
		if f := checkAnyItem(r, cfg); f != nil {
			return f
		}
	}
	if cfg.TimerShape == rows.ShapePair && len(cfg.Items) > 0 {
		if f := checkAnyPreparation(r, cfg); f != nil {
			return f
		}
	}
	if cfg.HasQuantities {
		if f := checkQuantityTimerCoherence(r, cfg); f != nil {
			return f
		}
	}
	if cfg.TableRules {
		if f := checkTableCoherence(r, cfg); f != nil {
			return f
		}
	}
	return nil
}

func checkRequiredTimers(r rows.Row, cfg screen.Config) *Failure {
	var missing []string
	for _, f := range cfg.RequiredFieldTimers {
		if r.FieldTimers[f] == nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &Failure{Reason: ErrMissingTimers, Fields: missing}
	}
	return nil
}

func checkAnyItem(r rows.Row, cfg screen.Config) *Failure {
	for _, item := range cfg.Items {
		if r.ItemQuantities[item] > 0 {
			return nil
		}
	}
	return &Failure{Reason: ErrNoItems}
}

func checkAnyPreparation(r rows.Row, cfg screen.Config) *Failure {
	for _, item := range cfg.Items {
		if t := r.ItemTimers[item]; t != nil && len(t.Pairs) > 0 {
			return nil
		}
	}
	return &Failure{Reason: ErrNoPreparations}
}

func checkQuantityTimerCoherence(r rows.Row, cfg screen.Config) *Failure {
	for _, item := range cfg.Items {
		qty := r.ItemQuantities[item]
		set := r.ItemTimers[item].IsSet()
		if qty > 0 && !set {
			return &Failure{Reason: ErrQuantityTimerMismatch, Item: item}
		}
		if qty == 0 && set {
			return &Failure{Reason: ErrQuantityTimerMismatch, Item: item}
		}
	}
	return nil
}

func checkTableCoherence(r rows.Row, cfg screen.Config) *Failure {
	occupy := r.FieldTimers[cfg.TableOccupyField]
	release := r.FieldTimers[cfg.TableReleaseField]
	if r.InternalConsumption {
		if occupy == nil || release == nil {
			return &Failure{Reason: ErrTableTimersMissing, Fields: []string{cfg.TableOccupyField, cfg.TableReleaseField}}
		}
		return nil
	}
	if occupy != nil || release != nil {
		return &Failure{Reason: ErrTableTimersForbidden, Fields: []string{cfg.TableOccupyField, cfg.TableReleaseField}}
	}
	return nil
}
