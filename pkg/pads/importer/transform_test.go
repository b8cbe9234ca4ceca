package importer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

func TestTransformPageFlip(t *testing.T) {
	xf := NewTransform(254, 11000)
	assert.Equal(t, int64(11000*254), xf.PageHeight)

	assert.Equal(t, sexp.Point{X: 0, Y: xf.PageHeight}, xf.ToCanonical(pads.Coord{}))
	assert.Equal(t, sexp.Point{X: 0, Y: 0}, xf.ToCanonical(pads.Coord{Y: 11000}))
	assert.Equal(t, sexp.Point{X: 254, Y: -254}, xf.ToLocal(pads.Coord{X: 1, Y: 1}))
}

func TestTransformRoundsHalfAwayFromZero(t *testing.T) {
	xf := Transform{Scale: 1}
	assert.Equal(t, int64(3), xf.ToCanonicalLen(2.5))
	assert.Equal(t, int64(-3), xf.ToCanonicalLen(-2.5))
	assert.Equal(t, int64(2), xf.ToCanonicalLen(2.4999))
}

func TestTransformRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
	}{
		{"mils", 254},
		{"coarse", 3.7},
		{"fine", 10000},
	}
	coords := []pads.Coord{
		{X: 0, Y: 0},
		{X: 1234.5678, Y: -98.7654},
		{X: -0.0001, Y: 0.0001},
		{X: 17000, Y: 11000},
		{X: 333.333, Y: 666.666},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xf := NewTransform(tt.scale, 11000)
			tol := xf.Tolerance() + 1e-9
			for _, c := range coords {
				back := xf.ToForeign(xf.ToCanonical(c))
				assert.LessOrEqual(t, math.Abs(back.X-c.X), tol, "x of %v", c)
				assert.LessOrEqual(t, math.Abs(back.Y-c.Y), tol, "y of %v", c)

				local := xf.LocalToForeign(xf.ToLocal(c))
				assert.LessOrEqual(t, math.Abs(local.X-c.X), tol, "local x of %v", c)
				assert.LessOrEqual(t, math.Abs(local.Y-c.Y), tol, "local y of %v", c)
			}
		})
	}
}

func TestBoundsToForeign(t *testing.T) {
	xf := NewTransform(254, 11000)
	bb := sexp.NewBoundingBox()
	bb.Expand(xf.ToLocal(pads.Coord{X: -50, Y: 20}))
	bb.Expand(xf.ToLocal(pads.Coord{X: 50, Y: -20}))

	min, max := xf.BoundsToForeign(bb)
	assert.Equal(t, pads.Coord{X: -50, Y: -20}, min)
	assert.Equal(t, pads.Coord{X: 50, Y: 20}, max)
}
