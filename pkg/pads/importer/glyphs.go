package importer

import (
	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
)

// Built-in glyph names used when a power net has no explicit symbol
const (
	glyphGround = "GND"
	glyphSupply = "VCC"
)

func mil(v int64) int64 { return v * sexp.IUPerMil }

func milPt(x, y int64) sexp.Point { return sexp.Point{X: mil(x), Y: mil(y)} }

// builtinGlyph draws a ground (body below the pin) or supply (body above the
// pin) symbol. The connection point is the symbol origin.
func builtinGlyph(name string, kind PowerKind) *schematic.LibSymbol {
	stroke := sexp.Stroke{Width: 0}
	none := sexp.Fill{Type: "none"}

	var graphics []schematic.Graphic
	var valueY int64
	switch kind {
	case PowerGround:
		graphics = []schematic.Graphic{
			{Kind: schematic.GraphicPolyline, Points: []sexp.Point{milPt(0, 0), milPt(0, 50)}, Stroke: stroke, Fill: none},
			{Kind: schematic.GraphicPolyline, Points: []sexp.Point{milPt(0, 50), milPt(50, 50), milPt(0, 100), milPt(-50, 50), milPt(0, 50)}, Stroke: stroke, Fill: none},
		}
		valueY = mil(150)
	default:
		graphics = []schematic.Graphic{
			{Kind: schematic.GraphicPolyline, Points: []sexp.Point{milPt(0, 0), milPt(0, -50)}, Stroke: stroke, Fill: none},
			{Kind: schematic.GraphicPolyline, Points: []sexp.Point{milPt(-30, -50), milPt(30, -50)}, Stroke: stroke, Fill: none},
		}
		valueY = mil(-100)
	}

	ls := &schematic.LibSymbol{
		Name:  "power:" + name,
		Power: true,
		Units: []schematic.SymbolUnit{
			{Number: 0},
			{
				Number:   1,
				Graphics: graphics,
				Pins: []schematic.Pin{{
					Type:   schematic.PinPowerIn,
					Angle:  pinAngleFor(kind),
					Name:   name,
					Number: "1",
					Hide:   true,
				}},
			},
		},
	}
	ls.Properties = powerFields(name)
	ls.Properties[1].Position = sexp.Point{Y: valueY}
	return ls
}

// pinAngleFor points the zero-length pin into the glyph body
func pinAngleFor(kind PowerKind) sexp.Angle {
	if kind == PowerGround {
		return 270
	}
	return 90
}
