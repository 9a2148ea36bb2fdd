package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dparedesb/servicetimes/internal/rows"
)

func TestMergeEditingRowSurvives(t *testing.T) {
	local := []rows.Row{
		{ID: "a", Description: "draft", IsEditing: true},
	}
	incoming := []rows.Row{
		{ID: "a", Description: "remote version"},
	}

	out, kept := Merge(local, incoming)
	require.Len(t, out, 1)
	assert.Equal(t, 1, kept)
	assert.Equal(t, "draft", out[0].Description)
	assert.True(t, out[0].IsEditing)
}

func TestMergeNonEditingRowConverges(t *testing.T) {
	local := []rows.Row{
		{ID: "a", Description: "stale local edit", IsEditing: false},
	}
	incoming := []rows.Row{
		{ID: "a", Description: "remote version"},
	}

	out, kept := Merge(local, incoming)
	require.Len(t, out, 1)
	assert.Equal(t, 0, kept)
	assert.Equal(t, incoming[0], out[0], "a non-editing row takes the incoming version exactly")
}

func TestMergePresenceAuthority(t *testing.T) {
	local := []rows.Row{
		{ID: "a"},
		{ID: "gone", IsEditing: false},
	}
	incoming := []rows.Row{
		{ID: "a"},
	}

	out, _ := Merge(local, incoming)
	assert.Equal(t, []string{"a"}, ids(out), "local ids absent from the snapshot are dropped")
}

func TestMergeAdoptsUnknownRows(t *testing.T) {
	local := []rows.Row{}
	incoming := []rows.Row{
		{ID: "x", Description: "created on another terminal"},
	}

	out, _ := Merge(local, incoming)
	require.Len(t, out, 1)
	assert.Equal(t, incoming[0], out[0])
}

func TestMergeIncomingOrderIsCanonical(t *testing.T) {
	local := []rows.Row{
		{ID: "a"}, {ID: "b"}, {ID: "c", IsEditing: true},
	}
	incoming := []rows.Row{
		{ID: "c"}, {ID: "a"}, {ID: "d"},
	}

	out, kept := Merge(local, incoming)
	assert.Equal(t, []string{"c", "a", "d"}, ids(out))
	assert.Equal(t, 1, kept)
}

func TestMergeEmptySnapshotClearsAll(t *testing.T) {
	local := []rows.Row{{ID: "a"}, {ID: "b", IsEditing: true}}

	out, kept := Merge(local, nil)
	assert.Empty(t, out)
	assert.Equal(t, 0, kept, "even an editing row cannot survive without a matching incoming row")
}

func ids(rs []rows.Row) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
