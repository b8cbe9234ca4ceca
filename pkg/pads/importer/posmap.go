package importer

import "github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"

// PositionMap holds at most one item per canonical position. Putting a value
// at an occupied position replaces the earlier value but keeps its slot, so
// iteration follows first-insertion order while the later record wins.
type PositionMap[V any] struct {
	index  map[sexp.Point]int
	keys   []sexp.Point
	values []V
}

// NewPositionMap creates an empty map
func NewPositionMap[V any]() *PositionMap[V] {
	return &PositionMap[V]{index: make(map[sexp.Point]int)}
}

// Put stores v at p and reports whether an earlier value was replaced
func (m *PositionMap[V]) Put(p sexp.Point, v V) bool {
	if i, ok := m.index[p]; ok {
		m.values[i] = v
		return true
	}
	m.index[p] = len(m.values)
	m.keys = append(m.keys, p)
	m.values = append(m.values, v)
	return false
}

// Get returns the value at p
func (m *PositionMap[V]) Get(p sexp.Point) (V, bool) {
	if i, ok := m.index[p]; ok {
		return m.values[i], true
	}
	var zero V
	return zero, false
}

// Has reports whether p is occupied
func (m *PositionMap[V]) Has(p sexp.Point) bool {
	_, ok := m.index[p]
	return ok
}

// Len returns the number of occupied positions
func (m *PositionMap[V]) Len() int {
	return len(m.values)
}

// Values returns the stored values in first-insertion order
func (m *PositionMap[V]) Values() []V {
	return append([]V(nil), m.values...)
}

// Keys returns the occupied positions in first-insertion order
func (m *PositionMap[V]) Keys() []sexp.Point {
	return append([]sexp.Point(nil), m.keys...)
}
