package importer

import (
	"math"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

// Transform converts foreign coordinates (Y up) into canonical internal units
// (Y down). It is the only place foreign coordinates become canonical ones.
//
// Rounding is round-half-away-from-zero, so converting the same foreign value
// always yields the same integer and wire endpoints can be compared to pin
// positions with ==.
type Transform struct {
	Scale      float64 // Internal units per foreign unit
	PageHeight int64   // Canonical page height used for the Y flip
}

// NewTransform builds a transform for a page whose height is given in foreign units
func NewTransform(scale, foreignPageHeight float64) Transform {
	t := Transform{Scale: scale}
	t.PageHeight = t.ToCanonicalLen(foreignPageHeight)
	return t
}

// ToCanonicalLen scales a foreign length
func (t Transform) ToCanonicalLen(v float64) int64 {
	return int64(math.Round(v * t.Scale))
}

// ToCanonical converts a sheet position: canonicalY = PageHeight - scale(foreignY)
func (t Transform) ToCanonical(p pads.Coord) sexp.Point {
	return sexp.Point{
		X: t.ToCanonicalLen(p.X),
		Y: t.PageHeight - t.ToCanonicalLen(p.Y),
	}
}

// ToLocal converts a symbol-local position. Symbol space has no page, so the
// flip is about the symbol origin.
func (t Transform) ToLocal(p pads.Coord) sexp.Point {
	return sexp.Point{
		X: t.ToCanonicalLen(p.X),
		Y: -t.ToCanonicalLen(p.Y),
	}
}

// ToForeignLen is the inverse of ToCanonicalLen
func (t Transform) ToForeignLen(v int64) float64 {
	return float64(v) / t.Scale
}

// ToForeign is the inverse of ToCanonical, exact up to Tolerance
func (t Transform) ToForeign(p sexp.Point) pads.Coord {
	return pads.Coord{
		X: t.ToForeignLen(p.X),
		Y: t.ToForeignLen(t.PageHeight - p.Y),
	}
}

// LocalToForeign is the inverse of ToLocal
func (t Transform) LocalToForeign(p sexp.Point) pads.Coord {
	return pads.Coord{
		X: t.ToForeignLen(p.X),
		Y: -t.ToForeignLen(p.Y),
	}
}

// Tolerance is the largest per-axis error of a foreign -> canonical -> foreign round trip
func (t Transform) Tolerance() float64 {
	return 0.5 / t.Scale
}

// BoundsToForeign converts a symbol-local bounding box back to foreign units
func (t Transform) BoundsToForeign(bb sexp.BoundingBox) (min, max pads.Coord) {
	a := t.LocalToForeign(bb.Min)
	b := t.LocalToForeign(bb.Max)
	return pads.Coord{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		pads.Coord{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}
