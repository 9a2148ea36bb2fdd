package rows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAddRemoveOrder(t *testing.T) {
	s := NewStore()
	s.Add(Row{ID: "a"})
	s.Add(Row{ID: "b"})
	s.Add(Row{ID: "c"})

	require.Equal(t, 3, s.Len())
	ids := rowIDs(s.Rows())
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	s.Remove("b")
	assert.Equal(t, []string{"a", "c"}, rowIDs(s.Rows()))

	// Removing an unknown id is a no-op.
	s.Remove("zzz")
	assert.Equal(t, 2, s.Len())
}

func TestStoreAddExistingKeepsPosition(t *testing.T) {
	s := NewStore()
	s.Add(Row{ID: "a", Description: "first"})
	s.Add(Row{ID: "b"})
	s.Add(Row{ID: "a", Description: "second"})

	assert.Equal(t, []string{"a", "b"}, rowIDs(s.Rows()))
	r, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "second", r.Description)
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add(Row{ID: "a", FieldTimers: map[string]*string{"arribo": nil}})

	r, ok := s.Get("a")
	require.True(t, ok)
	ts := "10:00:00.000"
	r.FieldTimers["arribo"] = &ts

	stored, _ := s.Get("a")
	assert.Nil(t, stored.FieldTimers["arribo"], "mutating a returned row must not touch the store")
}

func TestStoreSetEditing(t *testing.T) {
	s := NewStore()
	s.Add(Row{ID: "a"})

	s.SetEditing("a", true)
	r, _ := s.Get("a")
	assert.True(t, r.IsEditing)

	s.SetEditing("a", false)
	r, _ = s.Get("a")
	assert.False(t, r.IsEditing)

	// Unknown id: no panic, no effect.
	s.SetEditing("zzz", true)
}

func TestStoreReplaceAll(t *testing.T) {
	s := NewStore()
	s.Add(Row{ID: "a"})
	s.Add(Row{ID: "b"})

	s.ReplaceAll([]Row{{ID: "c"}, {ID: "a"}})
	assert.Equal(t, []string{"c", "a"}, rowIDs(s.Rows()))

	_, ok := s.Get("b")
	assert.False(t, ok)
}

func TestStoreApply(t *testing.T) {
	s := NewStore()
	s.Add(Row{ID: "a"})

	updated, ok := s.Apply("a", func(r *Row) {
		r.Description = "edited"
	})
	require.True(t, ok)
	assert.Equal(t, "edited", updated.Description)

	stored, _ := s.Get("a")
	assert.Equal(t, "edited", stored.Description)

	_, ok = s.Apply("zzz", func(r *Row) {})
	assert.False(t, ok)
}

func TestStoreUpdateFieldPaths(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		value  any
		verify func(t *testing.T, r Row)
	}{
		{
			name:  "description",
			path:  "descripcion",
			value: "two adults",
			verify: func(t *testing.T, r Row) {
				assert.Equal(t, "two adults", r.Description)
			},
		},
		{
			name:  "field timer",
			path:  "tiempos.arribo",
			value: "10:00:00.000",
			verify: func(t *testing.T, r Row) {
				require.NotNil(t, r.FieldTimers["arribo"])
				assert.Equal(t, "10:00:00.000", *r.FieldTimers["arribo"])
			},
		},
		{
			name:  "field timer cleared",
			path:  "tiempos.arribo",
			value: nil,
			verify: func(t *testing.T, r Row) {
				assert.Nil(t, r.FieldTimers["arribo"])
			},
		},
		{
			name:  "quantity from json number",
			path:  "cantidades.helados",
			value: float64(3),
			verify: func(t *testing.T, r Row) {
				assert.Equal(t, 3, r.ItemQuantities["helados"])
			},
		},
		{
			name:  "nested item timer current",
			path:  "pedido.helados.current",
			value: "10:30:00.000",
			verify: func(t *testing.T, r Row) {
				require.NotNil(t, r.ItemTimers["helados"])
				require.NotNil(t, r.ItemTimers["helados"].Current)
				assert.Equal(t, "10:30:00.000", *r.ItemTimers["helados"].Current)
			},
		},
		{
			name:  "consumption flag",
			path:  "consumoInterno",
			value: true,
			verify: func(t *testing.T, r Row) {
				assert.True(t, r.InternalConsumption)
			},
		},
		{
			name:  "unknown path ignored",
			path:  "nope.nothing",
			value: "x",
			verify: func(t *testing.T, r Row) {
				assert.Equal(t, Row{ID: "a"}, r)
			},
		},
		{
			name:  "negative quantity ignored",
			path:  "cantidades.helados",
			value: -1,
			verify: func(t *testing.T, r Row) {
				assert.Empty(t, r.ItemQuantities)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.Add(Row{ID: "a"})
			s.UpdateField("a", tt.path, tt.value)
			r, ok := s.Get("a")
			require.True(t, ok)
			tt.verify(t, r)
		})
	}
}

func rowIDs(rs []Row) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}
