package resource

// Set collects the handles acquired by one load. Releasing the set deletes
// them in reverse order of acquisition, so a failed load rolls back cleanly
// and a successful one is torn down by the same call.
type Set struct {
	handles []*Handle
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{}
}

// Track adds handles to the set and returns the first one. Nil handles are
// skipped.
func (s *Set) Track(handles ...*Handle) *Handle {
	var first *Handle
	for _, h := range handles {
		if h == nil {
			continue
		}
		if first == nil {
			first = h
		}
		s.handles = append(s.handles, h)
	}
	return first
}

// Len returns the number of tracked handles
func (s *Set) Len() int {
	return len(s.handles)
}

// Count returns the number of tracked handles of the given kind
func (s *Set) Count(kind Kind) int {
	n := 0
	for _, h := range s.handles {
		if h.Kind() == kind {
			n++
		}
	}
	return n
}

// Release releases every tracked handle, newest first, and empties the set
func (s *Set) Release() {
	for i := len(s.handles) - 1; i >= 0; i-- {
		s.handles[i].Release()
	}
	s.handles = nil
}
