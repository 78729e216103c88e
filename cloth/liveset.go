package cloth

// liveSet tracks which dense IDs are still active
// Membership and removal are O(1); iteration is in ascending ID order
type liveSet[T ~int32] struct {
	alive []bool
	count int
}

// add appends a new active ID and returns it
func (s *liveSet[T]) add() T {
	s.alive = append(s.alive, true)
	s.count++
	return T(len(s.alive) - 1)
}

func (s *liveSet[T]) has(id T) bool {
	return id >= 0 && int(id) < len(s.alive) && s.alive[id]
}

// remove deactivates id, returns false if it was not active
func (s *liveSet[T]) remove(id T) bool {
	if !s.has(id) {
		return false
	}
	s.alive[id] = false
	s.count--
	return true
}

func (s *liveSet[T]) len() int {
	return s.count
}

// snapshot appends the active IDs to dst[:0]
func (s *liveSet[T]) snapshot(dst []T) []T {
	dst = dst[:0]
	for i, ok := range s.alive {
		if ok {
			dst = append(dst, T(i))
		}
	}
	return dst
}
