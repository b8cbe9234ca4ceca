package schematic

import (
	"fmt"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
)

// GraphicKind is the closed set of drawing primitives
type GraphicKind uint8

const (
	GraphicPolyline GraphicKind = iota
	GraphicArc
	GraphicCircle
	GraphicRectangle
	GraphicText
)

func (k GraphicKind) String() string {
	switch k {
	case GraphicPolyline:
		return "polyline"
	case GraphicArc:
		return "arc"
	case GraphicCircle:
		return "circle"
	case GraphicRectangle:
		return "rectangle"
	case GraphicText:
		return "text"
	}
	return fmt.Sprintf("GraphicKind(%d)", uint8(k))
}

// Graphic is one drawing primitive. Which fields are meaningful depends on Kind:
//
//	polyline:  Points
//	arc:       Start, Mid, End
//	circle:    Center, Radius
//	rectangle: Start, End
//	text:      Start (anchor), Text, Angle, Effects
type Graphic struct {
	Kind    GraphicKind
	Points  []Point
	Start   Point
	Mid     Point
	End     Point
	Center  Point
	Radius  int64
	Text    string
	Angle   Angle
	Effects Effects
	Stroke  Stroke
	Fill    Fill
}

// Clone returns a copy that shares no slices with g
func (g Graphic) Clone() Graphic {
	c := g
	c.Points = append([]Point(nil), g.Points...)
	return c
}

// Bounds returns the extent of the primitive. Text contributes its anchor only.
func (g Graphic) Bounds() BoundingBox {
	bb := sexp.NewBoundingBox()
	switch g.Kind {
	case GraphicPolyline:
		for _, p := range g.Points {
			bb.Expand(p)
		}
	case GraphicArc:
		bb.Expand(g.Start)
		bb.Expand(g.Mid)
		bb.Expand(g.End)
	case GraphicCircle:
		bb.Expand(Point{X: g.Center.X - g.Radius, Y: g.Center.Y - g.Radius})
		bb.Expand(Point{X: g.Center.X + g.Radius, Y: g.Center.Y + g.Radius})
	case GraphicRectangle:
		bb.Expand(g.Start)
		bb.Expand(g.End)
	case GraphicText:
		bb.Expand(g.Start)
	}
	return bb
}

// Translate returns the primitive moved by offset
func (g Graphic) Translate(offset Point) Graphic {
	c := g.Clone()
	switch c.Kind {
	case GraphicPolyline:
		for i := range c.Points {
			c.Points[i] = c.Points[i].Add(offset)
		}
	case GraphicArc:
		c.Start = c.Start.Add(offset)
		c.Mid = c.Mid.Add(offset)
		c.End = c.End.Add(offset)
	case GraphicCircle:
		c.Center = c.Center.Add(offset)
	case GraphicRectangle, GraphicText:
		c.Start = c.Start.Add(offset)
		c.End = c.End.Add(offset)
	}
	return c
}

// SymbolBounds computes the extent of every unit's graphics and pins
func SymbolBounds(units []SymbolUnit) BoundingBox {
	bb := sexp.NewBoundingBox()
	for _, u := range units {
		for _, g := range u.Graphics {
			bb.ExpandBox(g.Bounds())
		}
		for _, p := range u.Pins {
			bb.Expand(p.Position)
			bb.Expand(p.Position.Add(pinVector(p)))
		}
	}
	return bb
}

// pinVector returns the offset from a pin's connection point to its body end
func pinVector(p Pin) Point {
	switch p.Angle.Normalize() {
	case 90:
		return Point{Y: -p.Length}
	case 180:
		return Point{X: -p.Length}
	case 270:
		return Point{Y: p.Length}
	default:
		return Point{X: p.Length}
	}
}
