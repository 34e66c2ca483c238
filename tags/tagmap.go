// Package tags provides the ordered tag dictionary the classifier consumes.
package tags

// Pair is a single (key, value) tag.
type Pair struct {
	Key   string
	Value string
}

// TagMap is an ordered, multi-valued key/value list. OSM primitives carry
// tags as a flat map, but the classifier needs to preserve input order for
// deterministic output and needs to tolerate duplicate keys (some OSM data
// does carry them, even though it is against the wiki).
type TagMap struct {
	pairs []Pair
}

// FromStringMap builds a TagMap from a plain map. Map iteration order is
// randomized by the Go runtime, so callers that care about deterministic
// row ordering across duplicate-classification keys should prefer New and Add.
func FromStringMap(m map[string]string) *TagMap {
	tm := &TagMap{pairs: make([]Pair, 0, len(m))}
	for k, v := range m {
		tm.pairs = append(tm.pairs, Pair{k, v})
	}
	return tm
}

// New builds an empty TagMap with room for n pairs.
func New(n int) *TagMap {
	return &TagMap{pairs: make([]Pair, 0, n)}
}

// Add appends a (key, value) pair, preserving any existing pair with the
// same key.
func (tm *TagMap) Add(key, value string) {
	tm.pairs = append(tm.pairs, Pair{key, value})
}

// Len returns the number of pairs still in the map.
func (tm *TagMap) Len() int {
	return len(tm.pairs)
}

// Pairs returns the underlying pairs in input order. Callers must not
// mutate the returned slice.
func (tm *TagMap) Pairs() []Pair {
	return tm.pairs
}

// Get returns the first value stored under key, if any.
func (tm *TagMap) Get(key string) (string, bool) {
	for _, p := range tm.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}
