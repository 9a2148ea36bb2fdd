package draft

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dparedesb/servicetimes/internal/rows"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.json")
	fs := NewFileStore(path)

	ts := "10:00:00.000"
	saved := []rows.Row{
		{ID: "a", Description: "mesa 4", FieldTimers: map[string]*string{"arribo": &ts, "finPago": nil}},
		{ID: "b", AssignedTurn: "7", ItemQuantities: map[string]int{"helados": 2}},
	}
	require.NoError(t, fs.Save(saved))

	got, err := fs.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, saved[0].ID, got[0].ID)
	require.NotNil(t, got[0].FieldTimers["arribo"])
	assert.Equal(t, ts, *got[0].FieldTimers["arribo"])
	assert.Nil(t, got[0].FieldTimers["finPago"])
	assert.Equal(t, 2, got[1].ItemQuantities["helados"])
}

func TestFileStoreDropsEditingFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.json")
	fs := NewFileStore(path)

	require.NoError(t, fs.Save([]rows.Row{{ID: "a", Description: "mid-edit", IsEditing: true}}))

	// On disk and on restore the flag is gone: nothing holds focus on a
	// restarted terminal, so a persisted flag would block snapshot
	// convergence for the row forever.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"isEditing": false`)

	got, err := fs.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsEditing)
	assert.Equal(t, "mid-edit", got[0].Description)
}

func TestFileStoreLoadRestoresEditingAsOff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.json")
	raw := `{"saved_at":"2025-03-14T10:00:00Z","rows":[{"id":"a","isEditing":true}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	got, err := NewFileStore(path).Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsEditing)
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	got, err := fs.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.json")
	fs := NewFileStore(path)

	require.NoError(t, fs.Save([]rows.Row{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, fs.Save([]rows.Row{{ID: "c"}}))

	got, err := fs.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}
