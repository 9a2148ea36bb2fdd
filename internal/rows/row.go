package rows

// TimerShape distinguishes the two item-timer layouts used by different
// capture screens: a single "ordered at" timestamp, or start/stop pairs
// accumulated while an item is being prepared.
type TimerShape string

const (
	ShapeSingle TimerShape = "single"
	ShapePair   TimerShape = "pair"
)

// TimePair is one completed start/stop interval.
type TimePair struct {
	Start string `json:"inicio"`
	End   string `json:"fin"`
}

// ItemTimer is the tagged variant over the two timer layouts. Exactly one
// of the shape-specific fields is meaningful, selected by Shape.
type ItemTimer struct {
	Shape TimerShape `json:"shape"`

	// Single shape: the moment the item was ordered, nil until set.
	At *string `json:"at,omitempty"`

	// Pair shape: Current holds the pending start time while an interval
	// is running, Pairs the completed intervals in capture order.
	Current *string    `json:"current,omitempty"`
	Pairs   []TimePair `json:"pairs,omitempty"`
}

// NewItemTimer returns an empty timer of the given shape.
func NewItemTimer(shape TimerShape) *ItemTimer {
	t := &ItemTimer{Shape: shape}
	if shape == ShapePair {
		t.Pairs = []TimePair{}
	}
	return t
}

// IsSet reports whether the timer carries any captured time: a non-nil
// timestamp for the single shape, at least one completed pair otherwise.
func (t *ItemTimer) IsSet() bool {
	if t == nil {
		return false
	}
	switch t.Shape {
	case ShapeSingle:
		return t.At != nil
	case ShapePair:
		return len(t.Pairs) > 0
	}
	return false
}

// Running reports whether a pair-shaped timer has a pending start.
func (t *ItemTimer) Running() bool {
	return t != nil && t.Shape == ShapePair && t.Current != nil
}

func (t *ItemTimer) clone() *ItemTimer {
	if t == nil {
		return nil
	}
	c := &ItemTimer{Shape: t.Shape}
	if t.At != nil {
		at := *t.At
		c.At = &at
	}
	if t.Current != nil {
		cur := *t.Current
		c.Current = &cur
	}
	if t.Pairs != nil {
		c.Pairs = make([]TimePair, len(t.Pairs))
		copy(c.Pairs, t.Pairs)
	}
	return c
}

// Payment methods accepted by the register screens.
const (
	PaymentCash    = "efectivo"
	PaymentCard    = "tarjeta"
	PaymentVoucher = "bono"
	PaymentDigital = "digital"
	PaymentOther   = "otro"
)

// Row is one open, not-yet-persisted unit of customer tracking shared by
// every terminal looking at the same screen.
type Row struct {
	ID          string `json:"id"`
	Description string `json:"descripcion"`

	// FieldTimers maps a screen field name ("arribo", "finPago", ...) to
	// the moment it was marked, nil while unmarked.
	FieldTimers map[string]*string `json:"tiempos"`

	// ItemQuantities and ItemTimers are keyed by item name and present
	// only on screens that track items.
	ItemQuantities map[string]int        `json:"cantidades,omitempty"`
	ItemTimers     map[string]*ItemTimer `json:"pedido,omitempty"`

	PaymentMethod       string `json:"metodoPago,omitempty"`
	AssignedTurn        string `json:"turnoAsignado,omitempty"`
	InternalConsumption bool   `json:"consumoInterno,omitempty"`
	Observation         string `json:"observacion"`

	// IsEditing marks the row as having input focus on this terminal.
	// It suspends snapshot merges for the row and is never persisted.
	IsEditing bool `json:"isEditing"`
}

// Clone returns a deep copy. Stored rows are never handed out by
// reference, so concurrent handlers cannot alias each other's state.
func (r Row) Clone() Row {
	c := r
	if r.FieldTimers != nil {
		c.FieldTimers = make(map[string]*string, len(r.FieldTimers))
		for k, v := range r.FieldTimers {
			if v == nil {
				c.FieldTimers[k] = nil
				continue
			}
			ts := *v
			c.FieldTimers[k] = &ts
		}
	}
	if r.ItemQuantities != nil {
		c.ItemQuantities = make(map[string]int, len(r.ItemQuantities))
		for k, v := range r.ItemQuantities {
			c.ItemQuantities[k] = v
		}
	}
	if r.ItemTimers != nil {
		c.ItemTimers = make(map[string]*ItemTimer, len(r.ItemTimers))
		for k, v := range r.ItemTimers {
			c.ItemTimers[k] = v.clone()
		}
	}
	return c
}
