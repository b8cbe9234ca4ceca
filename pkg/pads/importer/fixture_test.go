package importer

import (
	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

// testDesign returns a small single-sheet design with one part of each kind
// the importer treats specially. Callers append parts, signals and
// connectors as their scenario needs.
func testDesign() *pads.Design {
	return &pads.Design{
		Parameters: pads.Parameters{
			SheetSize:     "B",
			DesignName:    "fixture",
			BorderName:    "BORDER_B",
			GateSeparator: "-",
		},
		SheetHeaders: []pads.SheetHeader{{Number: 1, Name: "Main"}},
		Decals: []pads.Decal{
			{
				Name: "RES_H",
				Primitives: []pads.Primitive{
					{Kind: pads.PrimRectangle, Points: []pads.Coord{{X: -50, Y: -20}, {X: 50, Y: 20}}, Width: 10},
				},
				Terminals: []pads.Terminal{
					{Position: pads.Coord{X: -100}, Rotation: 0, Length: 50, Number: "1"},
					{Position: pads.Coord{X: 100}, Rotation: 180, Length: 50, Number: "2"},
				},
			},
			{
				Name: "CONN_PIN",
				Primitives: []pads.Primitive{
					{Kind: pads.PrimCircle, Center: pads.Coord{X: 120}, Radius: 20, Width: 10},
				},
				Terminals: []pads.Terminal{
					{Position: pads.Coord{}, Rotation: 0, Length: 100, Number: "1"},
				},
			},
			{
				Name: "NAND",
				Primitives: []pads.Primitive{
					{Kind: pads.PrimOpen, Points: []pads.Coord{{X: 0, Y: 100}, {X: 0, Y: -100}, {X: 100, Y: -100}}, Width: 10},
					{Kind: pads.PrimText, Points: []pads.Coord{{X: 20, Y: 0}}, Text: "&", Height: 50},
				},
				Terminals: []pads.Terminal{
					{Position: pads.Coord{X: -100, Y: 50}, Length: 100},
					{Position: pads.Coord{X: -100, Y: -50}, Length: 100},
					{Position: pads.Coord{X: 300}, Rotation: 180, Length: 100},
				},
			},
			{
				Name: "GND_SYM",
				Primitives: []pads.Primitive{
					{Kind: pads.PrimOpen, Points: []pads.Coord{{X: 0, Y: 0}, {X: 0, Y: -50}}},
					{Kind: pads.PrimOpen, Points: []pads.Coord{{X: -50, Y: -50}, {X: 50, Y: -50}}},
				},
				Terminals: []pads.Terminal{{Position: pads.Coord{}, Number: "1"}},
			},
		},
		PartTypes: []pads.PartType{
			{
				Name:     "RES10K",
				Category: pads.CategoryResistor,
				Gates: []pads.Gate{{
					Decals: []string{"RES_H"},
					Pins:   []pads.GatePin{{Number: "1", Name: "1"}, {Number: "2", Name: "2"}},
				}},
			},
			{
				Name:     "HDR2",
				Category: pads.CategoryConnector,
				Gates: []pads.Gate{{
					Decals: []string{"CONN_PIN"},
					Pins:   []pads.GatePin{{Number: "1"}},
				}},
			},
			{
				Name:     "7400",
				Category: pads.CategoryIC,
				Gates: []pads.Gate{
					nandGate("1", "2", "3"),
					nandGate("4", "5", "6"),
					nandGate("9", "10", "8"),
					nandGate("12", "13", "11"),
				},
				SignalPins: []pads.SignalPin{{Number: "14", Signal: "VCC"}, {Number: "7", Signal: "GND"}},
			},
			{
				Name:     "$GND_SYMS",
				Category: pads.CategoryPower,
				Power:    true,
				Variants: []pads.Variant{
					{Index: 0, Decal: "GND_SYM", PinType: pads.VariantGround},
					{Index: 1, Decal: "GND_SYM", PinType: pads.VariantOffPage},
				},
			},
			{
				Name:     "$OSR_SYMS",
				Category: "",
				Variants: []pads.Variant{{Index: 0, Decal: "GND_SYM", PinType: pads.VariantOffPage}},
			},
		},
	}
}

func nandGate(a, b, y string) pads.Gate {
	return pads.Gate{
		Decals: []string{"NAND"},
		Pins: []pads.GatePin{
			{Number: a, Name: "A", Type: pads.PinTypeLoad},
			{Number: b, Name: "B", Type: pads.PinTypeLoad},
			{Number: y, Name: "Y", Type: pads.PinTypeSource},
		},
	}
}

func mustImport(t testingT, d *pads.Design) (*schematic.Schematic, *Report) {
	t.Helper()
	sch, report, err := Import(d, DefaultOptions())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	return sch, report
}

type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

// symbolsByRef indexes the instances of a sheet by reference and unit
func symbolsByRef(sheet *schematic.Sheet) map[string]*schematic.SymbolInstance {
	out := make(map[string]*schematic.SymbolInstance)
	for _, s := range sheet.Symbols {
		key := s.Reference
		if s.Unit > 1 {
			key = key + "#" + string(rune('0'+s.Unit))
		}
		out[key] = s
	}
	return out
}

func labelsWithText(sheet *schematic.Sheet, text string) []schematic.Label {
	var out []schematic.Label
	for _, l := range sheet.Labels {
		if l.Text == text {
			out = append(out, l)
		}
	}
	return out
}
