package types

// Snapshot records which units were registered by the last successful pass.
// Units keep the order in which they were enumerated.
type Snapshot struct {
	order []Handle
	units map[Handle]Unit
}

// NewSnapshot builds a snapshot from enumerated units.
// A handle seen twice keeps its first position and its last unit.
func NewSnapshot(units []Unit) Snapshot {
	s := Snapshot{
		order: make([]Handle, 0, len(units)),
		units: make(map[Handle]Unit, len(units)),
	}
	for _, u := range units {
		if _, exists := s.units[u.Handle]; !exists {
			s.order = append(s.order, u.Handle)
		}
		s.units[u.Handle] = u
	}
	return s
}

// Len returns the number of units
func (s Snapshot) Len() int { return len(s.order) }

// Contains reports whether the handle was registered
func (s Snapshot) Contains(h Handle) bool {
	_, ok := s.units[h]
	return ok
}

// Get returns the unit for a handle
func (s Snapshot) Get(h Handle) (Unit, bool) {
	u, ok := s.units[h]
	return u, ok
}

// Units returns the units in enumeration order
func (s Snapshot) Units() []Unit {
	out := make([]Unit, 0, len(s.order))
	for _, h := range s.order {
		out = append(out, s.units[h])
	}
	return out
}
