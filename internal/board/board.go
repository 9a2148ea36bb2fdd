// Package board wires one screen's row store to the sync gateway. Every
// operator action mutates the local store first and then emits the
// matching intent — optimistic update, fire-and-forget network — while
// incoming snapshots are reconciled back in through ApplySnapshot.
package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dparedesb/servicetimes/internal/audit"
	"github.com/dparedesb/servicetimes/internal/draft"
	"github.com/dparedesb/servicetimes/internal/gateway"
	"github.com/dparedesb/servicetimes/internal/metrics"
	"github.com/dparedesb/servicetimes/internal/reconcile"
	"github.com/dparedesb/servicetimes/internal/rows"
	"github.com/dparedesb/servicetimes/internal/screen"
	"github.com/dparedesb/servicetimes/internal/timer"
	"github.com/dparedesb/servicetimes/internal/validate"
)

var (
	ErrRowNotFound    = errors.New("row not found")
	ErrConsumptionOff = errors.New("table is not for internal consumption")
)

var paymentMethods = map[string]bool{
	rows.PaymentCash:    true,
	rows.PaymentCard:    true,
	rows.PaymentVoucher: true,
	rows.PaymentDigital: true,
	rows.PaymentOther:   true,
}

type Board struct {
	cfg      screen.Config
	store    *rows.Store
	gw       gateway.Gateway
	trail    audit.Recorder
	drafts   draft.Store
	logger   *zap.Logger
	terminal string

	timeNow func() time.Time
}

func New(cfg screen.Config, store *rows.Store, gw gateway.Gateway, trail audit.Recorder, logger *zap.Logger, terminal string) *Board {
	return &Board{
		cfg:      cfg,
		store:    store,
		gw:       gw,
		trail:    trail,
		logger:   logger,
		terminal: terminal,
		timeNow:  time.Now,
	}
}

// UseDraftStore makes the board persist its open rows after every
// change, so a terminal restart picks the unsubmitted work back up.
func (b *Board) UseDraftStore(ds draft.Store) {
	b.drafts = ds
}

func (b *Board) saveDrafts() {
	if b.drafts == nil {
		return
	}
	if err := b.drafts.Save(b.store.Rows()); err != nil {
		b.logger.Warn("failed to persist drafts", zap.Error(err))
	}
}

type updateIntent struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// emit sends an intent and feeds the audit trail. Errors are logged and
// swallowed: the local mutation already happened and stands regardless.
func (b *Board) emit(ctx context.Context, verb, rowID string, payload any) {
	event := gateway.Event(verb, b.cfg.Collection)
	if err := b.gw.Emit(ctx, event, payload); err != nil {
		b.logger.Warn("failed to emit intent",
			zap.String("event", event),
			zap.String("row_id", rowID),
			zap.Error(err))
	}
	metrics.IntentsEmittedTotal.WithLabelValues(verb).Inc()
	if b.trail != nil {
		b.trail.Record(audit.Intent{
			Event:    event,
			RowID:    rowID,
			Screen:   b.cfg.Name,
			Terminal: b.terminal,
			At:       b.timeNow(),
		})
	}
	b.saveDrafts()
}

// RequestSnapshot asks the backend for the current row set.
func (b *Board) RequestSnapshot(ctx context.Context) {
	b.emit(ctx, gateway.VerbGet, "", nil)
}

// Run consumes snapshot broadcasts until the context ends or the
// gateway closes its channel.
func (b *Board) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-b.gw.Snapshots():
			if !ok {
				return nil
			}
			b.ApplySnapshot(snap)
		}
	}
}

// ApplySnapshot reconciles a broadcast into the store per the merge
// rule: editing rows survive, everything else converges to the backend.
func (b *Board) ApplySnapshot(snap gateway.Snapshot) {
	merged, kept := reconcile.Merge(b.store.Rows(), snap.Rows)
	b.store.ReplaceAll(merged)
	b.saveDrafts()

	metrics.SnapshotsAppliedTotal.Inc()
	if kept > 0 {
		metrics.RowsPreservedEditingTotal.Add(float64(kept))
	}
	metrics.OpenRows.Set(float64(b.store.Len()))

	b.logger.Debug("snapshot applied",
		zap.Int("rows", len(merged)),
		zap.Int("kept_editing", kept))
}

// AddRow creates the screen's blank row, continues the turn numbering
// where the screen uses one, and announces the new row.
func (b *Board) AddRow(ctx context.Context) rows.Row {
	r := screen.BlankRow(b.cfg, rows.NewID(), b.timeNow())
	if b.cfg.HasTurn {
		r.AssignedTurn = screen.NextTurn(b.store.Rows())
	}
	b.store.Add(r)
	metrics.OpenRows.Set(float64(b.store.Len()))
	b.emit(ctx, gateway.VerbNew, r.ID, r)
	return r
}

// DeleteRow drops the row locally and tells the backend to do the same.
func (b *Board) DeleteRow(ctx context.Context, id string) error {
	if _, ok := b.store.Get(id); !ok {
		return ErrRowNotFound
	}
	b.store.Remove(id)
	metrics.OpenRows.Set(float64(b.store.Len()))
	b.emit(ctx, gateway.VerbRemove, id, id)
	return nil
}

// MarkField stamps a field timer with "now". On table screens the
// occupy/release pair cannot be stamped while consumption is off.
func (b *Board) MarkField(ctx context.Context, id, field string) error {
	if !contains(b.cfg.FieldTimers, field) {
		return fmt.Errorf("unknown field timer %q on screen %s", field, b.cfg.Name)
	}
	if b.cfg.TableRules && (field == b.cfg.TableOccupyField || field == b.cfg.TableReleaseField) {
		r, ok := b.store.Get(id)
		if !ok {
			return ErrRowNotFound
		}
		if !r.InternalConsumption {
			return ErrConsumptionOff
		}
	}

	now := b.timeNow()
	r, ok := b.store.Apply(id, func(r *rows.Row) {
		timer.SetField(r, field, now)
	})
	if !ok {
		return ErrRowNotFound
	}
	b.emit(ctx, gateway.VerbUpdate, id, updateIntent{ID: id, Data: map[string]any{"tiempos": r.FieldTimers}})
	return nil
}

// ToggleItem advances an item timer: stamps the ordered-at time on
// single-shot screens, starts or closes an interval on pair screens.
func (b *Board) ToggleItem(ctx context.Context, id, item string) error {
	if !contains(b.cfg.Items, item) {
		return fmt.Errorf("unknown item %q on screen %s", item, b.cfg.Name)
	}
	now := b.timeNow()
	r, ok := b.store.Apply(id, func(r *rows.Row) {
		timer.Toggle(r, item, b.cfg.TimerShape, now)
	})
	if !ok {
		return ErrRowNotFound
	}
	b.emit(ctx, gateway.VerbUpdate, id, updateIntent{ID: id, Data: map[string]any{"pedido": r.ItemTimers}})
	return nil
}

// RemovePrepPair deletes one captured interval.
func (b *Board) RemovePrepPair(ctx context.Context, id, item string, index int) error {
	if !contains(b.cfg.Items, item) {
		return fmt.Errorf("unknown item %q on screen %s", item, b.cfg.Name)
	}
	r, ok := b.store.Apply(id, func(r *rows.Row) {
		timer.RemovePair(r, item, index)
	})
	if !ok {
		return ErrRowNotFound
	}
	b.emit(ctx, gateway.VerbUpdate, id, updateIntent{ID: id, Data: map[string]any{"pedido": r.ItemTimers}})
	return nil
}

func (b *Board) SetQuantity(ctx context.Context, id, item string, qty int) error {
	if !b.cfg.HasQuantities {
		return fmt.Errorf("screen %s does not track quantities", b.cfg.Name)
	}
	if !contains(b.cfg.Items, item) {
		return fmt.Errorf("unknown item %q on screen %s", item, b.cfg.Name)
	}
	if qty < 0 {
		return fmt.Errorf("quantity must not be negative")
	}
	r, ok := b.store.Apply(id, func(r *rows.Row) {
		if r.ItemQuantities == nil {
			r.ItemQuantities = make(map[string]int)
		}
		r.ItemQuantities[item] = qty
	})
	if !ok {
		return ErrRowNotFound
	}
	b.emit(ctx, gateway.VerbUpdate, id, updateIntent{ID: id, Data: map[string]any{"cantidades": r.ItemQuantities}})
	return nil
}

func (b *Board) SetDescription(ctx context.Context, id, value string) error {
	return b.setText(ctx, id, "descripcion", value)
}

func (b *Board) SetObservation(ctx context.Context, id, value string) error {
	return b.setText(ctx, id, "observacion", value)
}

func (b *Board) SetTurn(ctx context.Context, id, value string) error {
	if !b.cfg.HasTurn {
		return fmt.Errorf("screen %s does not use turn labels", b.cfg.Name)
	}
	return b.setText(ctx, id, "turnoAsignado", value)
}

func (b *Board) SetPaymentMethod(ctx context.Context, id, method string) error {
	if !b.cfg.HasPayment {
		return fmt.Errorf("screen %s does not track payment", b.cfg.Name)
	}
	if !paymentMethods[method] {
		return fmt.Errorf("unknown payment method %q", method)
	}
	return b.setText(ctx, id, "metodoPago", method)
}

func (b *Board) setText(ctx context.Context, id, field, value string) error {
	if _, ok := b.store.Get(id); !ok {
		return ErrRowNotFound
	}
	b.store.UpdateField(id, field, value)
	b.emit(ctx, gateway.VerbUpdate, id, updateIntent{ID: id, Data: map[string]any{field: value}})
	return nil
}

// SetEditing flips the per-row focus flag. Purely local: the flag is
// never sent to the backend and suspends merges for the whole row.
func (b *Board) SetEditing(id string, editing bool) {
	b.store.SetEditing(id, editing)
}

// SetConsumption toggles internal consumption. Turning it off clears
// both table timers in the same operation so the invalid combination
// never lingers, and the combined state goes out as one intent.
func (b *Board) SetConsumption(ctx context.Context, id string, on bool) error {
	if !b.cfg.TableRules {
		return fmt.Errorf("screen %s does not track consumption", b.cfg.Name)
	}
	r, ok := b.store.Apply(id, func(r *rows.Row) {
		r.InternalConsumption = on
		if !on {
			if r.FieldTimers == nil {
				r.FieldTimers = make(map[string]*string)
			}
			r.FieldTimers[b.cfg.TableOccupyField] = nil
			r.FieldTimers[b.cfg.TableReleaseField] = nil
		}
	})
	if !ok {
		return ErrRowNotFound
	}
	b.emit(ctx, gateway.VerbUpdate, id, updateIntent{ID: id, Data: map[string]any{
		"consumoInterno": on,
		"tiempos":        r.FieldTimers,
	}})
	return nil
}

// Submit validates the row and, on acceptance, emits the persist and
// remove intents and drops the row locally without waiting for the
// backend. A validation failure blocks the submission, is reported to
// the caller and leaves the row untouched and editable.
func (b *Board) Submit(ctx context.Context, id string) error {
	r, ok := b.store.Get(id)
	if !ok {
		return ErrRowNotFound
	}

	if err := validate.Check(r, b.cfg); err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues(validate.Reason(err)).Inc()
		b.logger.Info("submission rejected",
			zap.String("row_id", id),
			zap.String("reason", err.Error()))
		return err
	}

	now := b.timeNow()
	payload := screen.Payload(b.cfg, r, now)
	b.emit(ctx, gateway.VerbPersist, id, updateIntent{ID: id, Data: payload})

	b.store.Remove(id)
	metrics.OpenRows.Set(float64(b.store.Len()))
	b.emit(ctx, gateway.VerbRemove, id, id)
	metrics.RowsSubmittedTotal.Inc()

	b.logger.Info("row submitted", zap.String("row_id", id), zap.String("screen", b.cfg.Name))
	return nil
}

// Rows exposes the current local row set in display order.
func (b *Board) Rows() []rows.Row {
	return b.store.Rows()
}

// Screen returns the board's screen configuration.
func (b *Board) Screen() screen.Config {
	return b.cfg
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
