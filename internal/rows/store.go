package rows

import "sync"

// Store holds the ordered set of open rows for one screen. Every
// accessor returns deep copies and every operation is a no-op when the
// id is unknown, so UI and network callbacks never need error paths.
type Store struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*Row
}

func NewStore() *Store {
	return &Store{byID: make(map[string]*Row)}
}

// Add appends the row in display order. An id already present is
// overwritten in place, keeping its position.
func (s *Store) Add(r Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := r.Clone()
	if _, ok := s.byID[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.byID[r.ID] = &c
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, rid := range s.order {
		if rid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) Get(id string) (Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return Row{}, false
	}
	return r.Clone(), true
}

// Rows returns the open rows in display order.
func (s *Store) Rows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Row, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *Store) SetEditing(id string, editing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.byID[id]; ok {
		r.IsEditing = editing
	}
}

// ReplaceAll swaps in a reconciled row set, which becomes the new
// canonical order.
func (s *Store) ReplaceAll(rs []Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = make([]string, 0, len(rs))
	s.byID = make(map[string]*Row, len(rs))
	for _, r := range rs {
		if _, ok := s.byID[r.ID]; ok {
			continue
		}
		c := r.Clone()
		s.order = append(s.order, r.ID)
		s.byID[r.ID] = &c
	}
}

// Apply runs fn against the stored row under the lock and returns the
// resulting state. The copy-in/copy-out keeps handlers free of aliasing:
// fn mutates a private instance which then replaces the stored one.
func (s *Store) Apply(id string, fn func(*Row)) (Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return Row{}, false
	}
	c := r.Clone()
	fn(&c)
	c.ID = id
	stored := c.Clone()
	s.byID[id] = &stored
	return c, true
}
