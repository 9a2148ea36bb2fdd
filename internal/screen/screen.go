package screen

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dparedesb/servicetimes/internal/rows"
)

// Config describes one capture screen. Every screen in the system is the
// same row engine under a different configuration: which field timers
// exist, which are required at submit time, which items are tracked and
// with what timer shape, and whether the table-occupancy rules apply.
type Config struct {
	Name       string
	Collection string

	FieldTimers         []string
	RequiredFieldTimers []string

	// StampOnCreate lists field timers stamped the moment a blank row is
	// added (the arrival screen stamps "arribo" on creation).
	StampOnCreate []string

	Items         []string
	TimerShape    rows.TimerShape
	HasQuantities bool

	HasPayment bool
	HasTurn    bool

	// TableRules enables the internal-consumption coherence rules over
	// the occupy/release pair named below.
	TableRules        bool
	TableOccupyField  string
	TableReleaseField string
}

var registerItems = []string{"helados", "copas", "gofres", "bebidas", "crepes"}

var (
	// Arrival tracks a customer from walking in to finishing payment.
	Arrival = Config{
		Name:                "arrival",
		Collection:          "arribo",
		FieldTimers:         []string{"arribo", "inicioAtencionCaja", "finPedido", "finPago"},
		RequiredFieldTimers: []string{"arribo", "inicioAtencionCaja", "finPedido", "finPago"},
		StampOnCreate:       []string{"arribo"},
		HasPayment:          true,
	}

	// Orders records what was ordered and when each item went out.
	Orders = Config{
		Name:                "orders",
		Collection:          "pedidos",
		FieldTimers:         []string{"llamado"},
		RequiredFieldTimers: []string{"llamado"},
		Items:               registerItems,
		TimerShape:          rows.ShapeSingle,
		HasQuantities:       true,
		HasTurn:             true,
	}

	// Products captures preparation intervals per product.
	Products = Config{
		Name:          "products",
		Collection:    "productos",
		Items:         registerItems,
		TimerShape:    rows.ShapePair,
		HasQuantities: true,
		HasTurn:       true,
	}

	// Tables records table occupancy for customers consuming on site.
	Tables = Config{
		Name:              "tables",
		Collection:        "mesas",
		FieldTimers:       []string{"ocuparMesa", "liberacionMesa"},
		HasTurn:           true,
		TableRules:        true,
		TableOccupyField:  "ocuparMesa",
		TableReleaseField: "liberacionMesa",
	}
)

var byName = map[string]Config{
	Arrival.Name:  Arrival,
	Orders.Name:   Orders,
	Products.Name: Products,
	Tables.Name:   Tables,
}

func ByName(name string) (Config, error) {
	cfg, ok := byName[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown screen %q", name)
	}
	return cfg, nil
}

// BlankRow builds the screen's empty row: all field timers unset except
// the ones stamped on creation, item timers initialized to the screen's
// shape, quantities at zero, cash as the default payment method.
func BlankRow(cfg Config, id string, now time.Time) rows.Row {
	r := rows.Row{
		ID:          id,
		FieldTimers: make(map[string]*string, len(cfg.FieldTimers)),
	}
	for _, f := range cfg.FieldTimers {
		r.FieldTimers[f] = nil
	}
	for _, f := range cfg.StampOnCreate {
		ts := rows.Clock(now)
		r.FieldTimers[f] = &ts
	}
	if len(cfg.Items) > 0 {
		r.ItemTimers = make(map[string]*rows.ItemTimer, len(cfg.Items))
		for _, item := range cfg.Items {
			r.ItemTimers[item] = rows.NewItemTimer(cfg.TimerShape)
		}
		if cfg.HasQuantities {
			r.ItemQuantities = make(map[string]int, len(cfg.Items))
			for _, item := range cfg.Items {
				r.ItemQuantities[item] = 0
			}
		}
	}
	if cfg.HasPayment {
		r.PaymentMethod = rows.PaymentCash
	}
	return r
}

// NextTurn continues the turn numbering from the last open row. A last
// row without a numeric turn label yields an empty label.
func NextTurn(existing []rows.Row) string {
	if len(existing) == 0 {
		return ""
	}
	last := existing[len(existing)-1].AssignedTurn
	n, err := strconv.Atoi(last)
	if err != nil {
		return ""
	}
	return strconv.Itoa(n + 1)
}
