package lang

import "sort"

// symbols tracks name resolution during generation.
//
// bound is a multiset of the names currently in scope: entering a binding
// adds one occurrence and leaving removes exactly one, so an outer binding
// of the same name stays visible afterward. free collects every referenced
// name that was not bound at the point of reference.
type symbols struct {
	boundSet map[string]int
	free     map[string]struct{}
}

func newSymbols() *symbols {
	return &symbols{
		boundSet: make(map[string]int),
		free:     make(map[string]struct{}),
	}
}

func (s *symbols) bind(name string) { s.boundSet[name]++ }

func (s *symbols) unbind(name string) {
	switch n := s.boundSet[name]; {
	case n > 1:
		s.boundSet[name] = n - 1
	case n == 1:
		delete(s.boundSet, name)
	}
}

func (s *symbols) bound(name string) bool { return s.boundSet[name] > 0 }

// sorted returns the free names in lexicographic order.
func (s *symbols) sorted() []string { return sortedKeys(s.free) }

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
