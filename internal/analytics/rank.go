package analytics

import "slices"

// grouped accumulates a value per key, remembering first-seen key order.
type grouped[K comparable, V any] struct {
	keys  []K
	vals  []V
	index map[K]int
}

func newGrouped[K comparable, V any]() *grouped[K, V] {
	return &grouped[K, V]{index: make(map[K]int)}
}

// at returns the accumulator for key, creating it on first use. The pointer
// is valid until the next call to at.
func (g *grouped[K, V]) at(key K) *V {
	i, ok := g.index[key]
	if !ok {
		i = len(g.keys)
		g.index[key] = i
		g.keys = append(g.keys, key)
		var zero V
		g.vals = append(g.vals, zero)
	}
	return &g.vals[i]
}

func (g *grouped[K, V]) len() int {
	return len(g.keys)
}

// topN stable-sorts a copy of rows and returns at most n of them. The result
// is never nil so it encodes as an empty JSON array.
func topN[T any](rows []T, n int, order func(a, b T) int) []T {
	if n <= 0 || len(rows) == 0 {
		return []T{}
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, order)
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n:n]
}
