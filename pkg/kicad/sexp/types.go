// Package sexp provides the value types shared by the canonical schematic model
// and its s-expression serialization.
package sexp

import "fmt"

// Internal unit conversion constants
// Canonical coordinates are integers in internal units (IU) of 100 nm, which
// is what KiCad's schematic editor uses. One mil is exactly 254 IU.
const (
	IUPerMM  = 10000
	IUPerMil = 254
)

// Point is a 2D coordinate in internal units. Y grows downward.
type Point struct {
	X int64
	Y int64
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// MM returns the coordinate in millimeters
func (p Point) MM() (float64, float64) {
	return float64(p.X) / IUPerMM, float64(p.Y) / IUPerMM
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Angle represents rotation in degrees
type Angle float64

// Normalize folds the angle into [0, 360)
func (a Angle) Normalize() Angle {
	for a < 0 {
		a += 360
	}
	for a >= 360 {
		a -= 360
	}
	return a
}

// Size represents dimensions in internal units
type Size struct {
	Width  int64
	Height int64
}

// Color represents RGBA color
type Color struct {
	R, G, B, A float64 // Color components (0.0-1.0)
}

// Stroke defines line/outline appearance
type Stroke struct {
	Width int64  // Line width in IU, 0 means default
	Type  string // Line type (default, solid, dash, dot, etc.)
}

// Fill defines area fill
type Fill struct {
	Type string // none, outline, background
}

// BoundingBox represents a rectangular boundary
type BoundingBox struct {
	Min Point // Minimum (top-left) corner
	Max Point // Maximum (bottom-right) corner
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() BoundingBox {
	const big = int64(1) << 62
	return BoundingBox{
		Min: Point{X: big, Y: big},
		Max: Point{X: -big, Y: -big},
	}
}

// IsEmpty checks if the bounding box is empty
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Contains checks if a point is within the bounding box
func (bb BoundingBox) Contains(p Point) bool {
	return p.X >= bb.Min.X && p.X <= bb.Max.X &&
		p.Y >= bb.Min.Y && p.Y <= bb.Max.Y
}

// Expand expands the bounding box to include a point
func (bb *BoundingBox) Expand(p Point) {
	if p.X < bb.Min.X {
		bb.Min.X = p.X
	}
	if p.Y < bb.Min.Y {
		bb.Min.Y = p.Y
	}
	if p.X > bb.Max.X {
		bb.Max.X = p.X
	}
	if p.Y > bb.Max.Y {
		bb.Max.Y = p.Y
	}
}

// ExpandBox expands to include another bounding box
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() int64 {
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() int64 {
	return bb.Max.Y - bb.Min.Y
}

// Center returns the center point of the bounding box
func (bb BoundingBox) Center() Point {
	return Point{
		X: (bb.Min.X + bb.Max.X) / 2,
		Y: (bb.Min.Y + bb.Max.Y) / 2,
	}
}

// UUID represents a unique identifier
type UUID string

// Effects represents text effects (font, justification, etc.)
type Effects struct {
	Font    Font
	Justify Justify
	Hide    bool
}

// Font represents font properties
type Font struct {
	Size      Size  // Glyph size
	Thickness int64 // Line thickness for stroke fonts, 0 means default
	Bold      bool
	Italic    bool
}

// HAlign is the horizontal text alignment
type HAlign uint8

const (
	HAlignCenter HAlign = iota
	HAlignLeft
	HAlignRight
)

func (h HAlign) String() string {
	switch h {
	case HAlignLeft:
		return "left"
	case HAlignRight:
		return "right"
	default:
		return "center"
	}
}

// VAlign is the vertical text alignment
type VAlign uint8

const (
	VAlignCenter VAlign = iota
	VAlignTop
	VAlignBottom
)

func (v VAlign) String() string {
	switch v {
	case VAlignTop:
		return "top"
	case VAlignBottom:
		return "bottom"
	default:
		return "center"
	}
}

// Justify represents text justification
type Justify struct {
	Horizontal HAlign
	Vertical   VAlign
	Mirror     bool
}

// Property represents a key-value field attached to a symbol
type Property struct {
	Key      string
	Value    string
	Position Point // Absolute position on the sheet
	Angle    Angle
	Effects  Effects
}
