package runtime

// StaticStore is the process-wide arena for static storage. Slots are
// assigned per lexical declaration site at load time, so two textually
// identical static declarations in different scopes occupy distinct cells
// and no name matching is ever involved in static identity resolution.
//
// A slot's cell is allocated the first time its declaration statement
// executes and survives until the engine instance is discarded; re-entering
// the scope finds the existing cell untouched.
type StaticStore struct {
	slots []*Cell
}

// NewStaticStore sizes the arena for the given number of declaration sites.
func NewStaticStore(slotCount int) *StaticStore {
	if slotCount < 0 {
		slotCount = 0
	}
	return &StaticStore{slots: make([]*Cell, slotCount)}
}

// SlotCount reports the arena capacity.
func (s *StaticStore) SlotCount() int {
	return len(s.slots)
}

// Bind returns the slot's cell, allocating it on first execution. The second
// result is true exactly once per slot: when the caller must run the
// declaration's initializer.
func (s *StaticStore) Bind(slot int, width Width) (*Cell, bool) {
	if slot < 0 {
		slot = 0
	}
	if slot >= len(s.slots) {
		// Hand-built trees may skip the load-time sizing pass.
		grown := make([]*Cell, slot+1)
		copy(grown, s.slots)
		s.slots = grown
	}
	if cell := s.slots[slot]; cell != nil {
		return cell, false
	}
	cell := NewCell(width)
	s.slots[slot] = cell
	return cell, true
}

// Peek returns the slot's cell without allocating, for inspection in tests.
func (s *StaticStore) Peek(slot int) (*Cell, bool) {
	if slot < 0 || slot >= len(s.slots) || s.slots[slot] == nil {
		return nil, false
	}
	return s.slots[slot], true
}
