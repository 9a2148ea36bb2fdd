// Package reconcile merges authoritative backend snapshots into the
// local row set without clobbering rows the operator is typing into.
package reconcile

import "github.com/dparedesb/servicetimes/internal/rows"

// Merge folds an incoming snapshot into the local rows. The incoming
// order becomes canonical. A local row flagged as editing survives
// unchanged; every other id takes the incoming version, and local ids
// absent from the snapshot are dropped — the backend is authoritative
// for presence. Local edits made while not flagged editing are lost
// here; once focus is released, the next broadcast wins.
//
// The second return value counts the rows preserved by the editing
// flag. Merge itself is pure: no intents, no store mutation.
func Merge(local, incoming []rows.Row) ([]rows.Row, int) {
	byID := make(map[string]rows.Row, len(local))
	for _, r := range local {
		byID[r.ID] = r
	}

	out := make([]rows.Row, 0, len(incoming))
	kept := 0
	for _, in := range incoming {
		if lr, ok := byID[in.ID]; ok && lr.IsEditing {
			out = append(out, lr)
			kept++
			continue
		}
		out = append(out, in)
	}
	return out, kept
}
