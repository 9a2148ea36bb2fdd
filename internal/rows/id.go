package rows

import "github.com/google/uuid"

// NewID returns the client-side identifier for a freshly added row. The
// id stays stable for the row's lifetime and is stripped before persisting.
func NewID() string {
	return uuid.NewString()
}
