package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
)

func TestPositionMapLaterRecordWins(t *testing.T) {
	m := NewPositionMap[string]()
	p := sexp.Point{X: 10, Y: 20}
	q := sexp.Point{X: 30, Y: 40}

	assert.False(t, m.Put(p, "first"))
	assert.False(t, m.Put(q, "other"))
	assert.True(t, m.Put(p, "second"))

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"second", "other"}, m.Values())
	assert.Equal(t, []sexp.Point{p, q}, m.Keys())

	v, ok := m.Get(p)
	assert.True(t, ok)
	assert.Equal(t, "second", v)
	assert.False(t, m.Has(sexp.Point{}))
}
