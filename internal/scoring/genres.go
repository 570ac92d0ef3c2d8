package scoring

// GenreSet is an order-insensitive set of normalized genre names.
type GenreSet map[string]struct{}

// NewGenreSet builds a set from a genre list. Entries are expected to be normalized already.
func NewGenreSet(genres []string) GenreSet {
	s := make(GenreSet, len(genres))
	for _, g := range genres {
		if g == "" {
			continue
		}
		s[g] = struct{}{}
	}
	return s
}

// Add inserts every genre of the list.
func (s GenreSet) Add(genres ...string) {
	for _, g := range genres {
		if g != "" {
			s[g] = struct{}{}
		}
	}
}

// Has reports membership.
func (s GenreSet) Has(g string) bool {
	_, ok := s[g]
	return ok
}

// Overlap counts the genres present in both sets.
func (s GenreSet) Overlap(other GenreSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for g := range small {
		if _, ok := large[g]; ok {
			n++
		}
	}
	return n
}

// Overlap counts the genres shared by two genre lists, ignoring duplicates.
func Overlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return NewGenreSet(a).Overlap(NewGenreSet(b))
}
