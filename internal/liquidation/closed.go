package liquidation

// ClosedSet memoizes vault IDs known to be permanently closed. Closure is
// monotonic on-chain, so membership never needs to be revoked and a cold set
// after a restart is merely slower, never wrong.
//
// The set is only ever touched from the single scan goroutine, so it carries
// no lock.
type ClosedSet struct {
	ids map[uint64]struct{}
}

// NewClosedSet returns an empty set.
func NewClosedSet() *ClosedSet {
	return &ClosedSet{ids: make(map[uint64]struct{})}
}

// Known reports whether the vault was previously marked closed.
func (s *ClosedSet) Known(id uint64) bool {
	_, ok := s.ids[id]
	return ok
}

// Mark records the vault as permanently closed.
func (s *ClosedSet) Mark(id uint64) {
	s.ids[id] = struct{}{}
}

// Len returns the number of vaults known closed.
func (s *ClosedSet) Len() int {
	return len(s.ids)
}
