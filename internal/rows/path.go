package rows

import "strings"

// UpdateField patches one nested field addressed by a dotted path, e.g.
// "tiempos.arribo", "cantidades.helados" or "pedido.helados.current".
// Unknown ids and unknown paths are no-ops, like every other store
// operation; value types that do not fit the target are ignored too.
func (s *Store) UpdateField(id, path string, value any) {
	s.Apply(id, func(r *Row) {
		patch(r, strings.Split(path, "."), value)
	})
}

func patch(r *Row, segs []string, value any) {
	switch segs[0] {
	case "descripcion":
		if v, ok := asString(value); ok {
			r.Description = v
		}
	case "observacion":
		if v, ok := asString(value); ok {
			r.Observation = v
		}
	case "metodoPago":
		if v, ok := asString(value); ok {
			r.PaymentMethod = v
		}
	case "turnoAsignado":
		if v, ok := asString(value); ok {
			r.AssignedTurn = v
		}
	case "consumoInterno":
		if v, ok := value.(bool); ok {
			r.InternalConsumption = v
		}
	case "tiempos":
		if len(segs) != 2 {
			return
		}
		if r.FieldTimers == nil {
			r.FieldTimers = make(map[string]*string)
		}
		if value == nil {
			r.FieldTimers[segs[1]] = nil
			return
		}
		if v, ok := asString(value); ok {
			r.FieldTimers[segs[1]] = &v
		}
	case "cantidades":
		if len(segs) != 2 {
			return
		}
		if v, ok := asInt(value); ok && v >= 0 {
			if r.ItemQuantities == nil {
				r.ItemQuantities = make(map[string]int)
			}
			r.ItemQuantities[segs[1]] = v
		}
	case "pedido":
		if len(segs) != 3 {
			return
		}
		patchItemTimer(r, segs[1], segs[2], value)
	}
}

func patchItemTimer(r *Row, item, field string, value any) {
	if r.ItemTimers == nil {
		r.ItemTimers = make(map[string]*ItemTimer)
	}
	t, ok := r.ItemTimers[item]
	if !ok || t == nil {
		shape := ShapePair
		if field == "at" {
			shape = ShapeSingle
		}
		t = NewItemTimer(shape)
		r.ItemTimers[item] = t
	}
	switch field {
	case "at":
		if value == nil {
			t.At = nil
			return
		}
		if v, ok := asString(value); ok {
			t.At = &v
		}
	case "current":
		if value == nil {
			t.Current = nil
			return
		}
		if v, ok := asString(value); ok {
			t.Current = &v
		}
	}
}

func asString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	}
	return "", false
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		// JSON numbers decode as float64.
		return int(v), true
	}
	return 0, false
}
