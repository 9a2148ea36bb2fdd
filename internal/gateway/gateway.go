//go:generate mockgen -source ./gateway.go -destination=./mocks/gateway.go -package=gateway_mocks
package gateway

import (
	"context"

	"github.com/dparedesb/servicetimes/internal/rows"
)

// Event verbs of the backend contract. Outbound events are named
// "<verb>_<collection>"; the only inbound event is the full snapshot,
// "update_<collection>".
const (
	VerbGet      = "get"
	VerbNew      = "nuevo"
	VerbUpdate   = "actualizar"
	VerbPersist  = "guardar"
	VerbRemove   = "eliminar"
	VerbSnapshot = "update"
)

// Event builds the wire event name for a verb and collection.
func Event(verb, collection string) string {
	return verb + "_" + collection
}

// Snapshot is one authoritative broadcast: the full ordered set of open
// rows for a collection.
type Snapshot struct {
	Collection string
	Rows       []rows.Row
}

// Gateway is the publish/subscribe channel to the backend. Emit is
// fire-and-forget: delivery is not acknowledged and a lost intent is
// recovered only by the next snapshot. Implementations must keep
// Snapshots open until Close.
type Gateway interface {
	Open(ctx context.Context) error
	Close() error
	Emit(ctx context.Context, event string, payload any) error
	Snapshots() <-chan Snapshot
}
