package collector

// AcceptedSet holds the candidates already in the output.
// It is not safe for concurrent use; the Controller is its only writer.
type AcceptedSet struct {
	items map[string]struct{}
}

// NewAcceptedSet creates a set preloaded with existing lines.
func NewAcceptedSet(existing ...string) *AcceptedSet {
	s := &AcceptedSet{items: make(map[string]struct{}, len(existing))}
	for _, line := range existing {
		s.Add(line)
	}
	return s
}

// Add inserts candidate and reports whether it was not present.
func (s *AcceptedSet) Add(candidate string) bool {
	if _, ok := s.items[candidate]; ok {
		return false
	}
	s.items[candidate] = struct{}{}
	return true
}

// Contains reports whether candidate is in the set.
func (s *AcceptedSet) Contains(candidate string) bool {
	_, ok := s.items[candidate]
	return ok
}

// Len returns the number of candidates in the set.
func (s *AcceptedSet) Len() int {
	return len(s.items)
}
