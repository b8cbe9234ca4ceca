// Package schematic holds the canonical in-memory schematic model that
// importers populate and the writer serializes as .kicad_sch files.
package schematic

import (
	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
)

// Re-export shared types from sexp package for convenience
type Point = sexp.Point
type Angle = sexp.Angle
type Size = sexp.Size
type Stroke = sexp.Stroke
type Fill = sexp.Fill
type UUID = sexp.UUID
type Effects = sexp.Effects
type Font = sexp.Font
type Justify = sexp.Justify
type Property = sexp.Property
type BoundingBox = sexp.BoundingBox

// DefaultTextSize is the default glyph height for fields and labels (50 mil)
const DefaultTextSize = 50 * sexp.IUPerMil

// Schematic is a complete imported design: a root sheet plus, for
// multi-page designs, one sub-sheet per foreign sheet number.
type Schematic struct {
	Root       *Sheet       // Root sheet (the only sheet for single-page designs)
	Sheets     []*Sheet     // Sub-sheets ordered by ascending sheet number
	LibSymbols []*LibSymbol // Library symbols referenced by instances, in creation order
}

// AllSheets returns the root followed by every sub-sheet
func (s *Schematic) AllSheets() []*Sheet {
	out := make([]*Sheet, 0, len(s.Sheets)+1)
	if s.Root != nil {
		out = append(out, s.Root)
	}
	return append(out, s.Sheets...)
}

// SheetByNumber returns the sheet holding the given foreign sheet number
func (s *Schematic) SheetByNumber(n int) *Sheet {
	for _, sh := range s.AllSheets() {
		if sh.Number == n && sh.Number != 0 {
			return sh
		}
	}
	return nil
}

// PageGeometry is the drawing page size in internal units
type PageGeometry struct {
	Paper  string // Paper name (e.g. "A4", "B", "User")
	Width  int64
	Height int64
}

// TitleBlock contains schematic title block information
type TitleBlock struct {
	Title   string
	Date    string
	Company string
}

// Sheet owns everything placed on one page.
type Sheet struct {
	ID         UUID
	Number     int    // Foreign sheet number, 0 for a synthetic root
	Page       string // Page number shown in the title block
	Name       string
	Geometry   PageGeometry
	TitleBlock TitleBlock
	Symbols    []*SymbolInstance
	Wires      []Wire
	Junctions  []Junction
	Labels     []Label
	Texts      []Text
	Graphics   []Graphic
	SheetRefs  []SheetRef // Hierarchical references (root sheet only)
}

// SheetRef is a hierarchical sheet box on the root sheet pointing at a sub-sheet
type SheetRef struct {
	ID       UUID
	Sheet    *Sheet
	Position Point
	Size     Size
	FileName string
}

// LibSymbol is a resolved library symbol in internal units. It is shared by
// every instance built from the same definition and style and is never
// modified once the resolver has returned it.
type LibSymbol struct {
	Name         string       // Unique library identifier
	Power        bool         // Global power symbol
	ShowPinNames bool         // Draw pin name text
	ShowPinNums  bool         // Draw pin number text
	Properties   []Property   // Default fields (Reference, Value, ...)
	Units        []SymbolUnit // Units[0] is the common unit, 1..N are gates
	Bounds       BoundingBox  // Extent of all units in symbol-local space
}

// SymbolUnit is one unit of a multi-unit symbol. Unit 0 is drawn with every unit.
type SymbolUnit struct {
	Number   int
	Graphics []Graphic
	Pins     []Pin
}

// UnitCount returns the number of selectable units (excluding the common unit)
func (ls *LibSymbol) UnitCount() int {
	n := 0
	for _, u := range ls.Units {
		if u.Number > 0 {
			n++
		}
	}
	return n
}

// Unit returns the unit with the given number
func (ls *LibSymbol) Unit(n int) (*SymbolUnit, bool) {
	for i := range ls.Units {
		if ls.Units[i].Number == n {
			return &ls.Units[i], true
		}
	}
	return nil, false
}

// PinsOf returns the pins drawn for a unit, including common pins
func (ls *LibSymbol) PinsOf(unit int) []Pin {
	var pins []Pin
	for _, u := range ls.Units {
		if u.Number == 0 || u.Number == unit {
			pins = append(pins, u.Pins...)
		}
	}
	return pins
}

// Clone returns a deep copy that can be given a new name and flags
func (ls *LibSymbol) Clone() *LibSymbol {
	c := *ls
	c.Properties = append([]Property(nil), ls.Properties...)
	c.Units = make([]SymbolUnit, len(ls.Units))
	for i, u := range ls.Units {
		c.Units[i] = SymbolUnit{
			Number:   u.Number,
			Graphics: make([]Graphic, len(u.Graphics)),
			Pins:     append([]Pin(nil), u.Pins...),
		}
		for j, g := range u.Graphics {
			c.Units[i].Graphics[j] = g.Clone()
		}
	}
	return &c
}

// PinType is the electrical type of a pin
type PinType string

const (
	PinPassive       PinType = "passive"
	PinInput         PinType = "input"
	PinOutput        PinType = "output"
	PinBidirectional PinType = "bidirectional"
	PinTriState      PinType = "tri_state"
	PinOpenCollector PinType = "open_collector"
	PinPowerIn       PinType = "power_in"
	PinPowerOut      PinType = "power_out"
	PinUnspecified   PinType = "unspecified"
)

// Pin represents a symbol pin. Position is the connection point; the pin
// extends Length units in the direction given by Angle.
type Pin struct {
	Type     PinType
	Position Point
	Angle    Angle // 0 = pin body extends right of the connection point
	Length   int64
	Name     string
	Number   string
	Hide     bool
}

// SymbolInstance is a symbol placed on a sheet. Lib is a non-owning handle
// into the resolver's arena.
type SymbolInstance struct {
	Lib         *LibSymbol
	Position    Point
	Orientation Orientation
	Unit        int
	UUID        UUID // Unique per instance
	LinkID      UUID // Stable identity used for layout cross-probing; empty unless primary unit
	Reference   string
	Properties  []Property
	Power       bool
}

// Property returns the value of the named field
func (si *SymbolInstance) Property(key string) (string, bool) {
	for _, p := range si.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Layer distinguishes signal wires from buses
type Layer uint8

const (
	LayerWire Layer = iota
	LayerBus
)

// Wire is a single straight segment
type Wire struct {
	Start Point
	End   Point
	Layer Layer
	UUID  UUID
}

// Junction represents a wire junction dot
type Junction struct {
	Position Point
	UUID     UUID
}

// LabelKind selects local or global net labels
type LabelKind uint8

const (
	LabelLocal LabelKind = iota
	LabelGlobal
)

// LabelSpin is the direction the label text runs away from its anchor
type LabelSpin uint8

const (
	SpinRight  LabelSpin = iota // text runs to the right, 0°
	SpinUp                      // 90°
	SpinLeft                    // 180°
	SpinBottom                  // 270°
)

// Angle returns the label rotation in degrees
func (s LabelSpin) Angle() Angle {
	return Angle(90 * int(s))
}

// Label names the net of the wire it is anchored to
type Label struct {
	Kind     LabelKind
	Text     string
	Position Point
	Spin     LabelSpin
	Effects  Effects
	UUID     UUID
}

// Text represents free text on a sheet
type Text struct {
	Text     string
	Position Point
	Angle    Angle
	Effects  Effects
	UUID     UUID
}

// GetSymbol returns an instance by reference designator and unit
func (s *Sheet) GetSymbol(ref string, unit int) *SymbolInstance {
	for _, sym := range s.Symbols {
		if sym.Reference == ref && sym.Unit == unit {
			return sym
		}
	}
	return nil
}

// GetLabels returns all label texts on the sheet without duplicates
func (s *Sheet) GetLabels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, l := range s.Labels {
		if !seen[l.Text] {
			seen[l.Text] = true
			labels = append(labels, l.Text)
		}
	}
	return labels
}

// GetBoundingBox calculates the bounding box of all placed elements
func (s *Sheet) GetBoundingBox() BoundingBox {
	bbox := sexp.NewBoundingBox()

	for _, w := range s.Wires {
		bbox.Expand(w.Start)
		bbox.Expand(w.End)
	}

	for _, sym := range s.Symbols {
		if sym.Lib == nil || sym.Lib.Bounds.IsEmpty() {
			bbox.Expand(sym.Position)
			continue
		}
		bb := sym.Lib.Bounds
		for _, corner := range []Point{bb.Min, bb.Max, {X: bb.Min.X, Y: bb.Max.Y}, {X: bb.Max.X, Y: bb.Min.Y}} {
			bbox.Expand(sym.Position.Add(sym.Orientation.Apply(corner)))
		}
	}

	for _, l := range s.Labels {
		bbox.Expand(l.Position)
	}
	for _, j := range s.Junctions {
		bbox.Expand(j.Position)
	}
	for _, t := range s.Texts {
		bbox.Expand(t.Position)
	}
	for _, g := range s.Graphics {
		bbox.ExpandBox(g.Bounds())
	}

	return bbox
}
