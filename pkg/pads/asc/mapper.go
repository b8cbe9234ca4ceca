// Package asc reads a line-oriented text dump of legacy schematic records.
//
// Every line is a keyword followed by values separated by blanks; quoted
// strings may contain blanks and backslash escapes, and # starts a comment.
// Coordinates are foreign units with Y up. Child records attach to the most
// recent block record:
//
//	SHEET <size> [<width> <height>]
//	DESIGN "<name>"
//	BORDER "<group>"
//	GATESEP "<separator>"
//	COMPANY "<name>"
//	DATE "<date>"
//	SHEETHDR <number> "<name>"
//	DECAL <name>
//	  LINE <width> <x> <y> <x> <y> ...
//	  CLOSED <width> <x> <y> <x> <y> ... [FILLED]
//	  CIRCLE <width> <cx> <cy> <radius> [FILLED]
//	  ARC <width> <x1> <y1> <x2> <y2> <x3> <y3>
//	  RECT <width> <x1> <y1> <x2> <y2> [FILLED]
//	  TEXT <x> <y> <rotation> <justify> <height> "<text>"
//	  PIN <x> <y> <rotation> <length> [<number> ["<name>"]]
//	PARTTYPE <name> <category> [POWER]
//	  GATE <decal> [<alternate decal> ...]
//	  GPIN <number> <type> ["<name>"]
//	  SIGPIN <number> <signal>
//	  VARIANT <index> <decal> <G|P|O>
//	PART <ref> <parttype> <sheet> <x> <y> <rotation> <mirror> <gate> [<decal>]
//	  ATTR "<name>" "<value>" <dx> <dy> <rotation> <justify> <height> [VISIBLE]
//	SIGNAL <name> <sheet>
//	  WIRE <from> <to> <x> <y> <x> <y> ... [BUS]
//	OPC <id> "<signal>" <parttype> <sheet> <x> <y> <rotation> <variant>
//	DOT <id> <sheet> <x> <y>
//	FTEXT <sheet> <x> <y> <rotation> <justify> <height> "<text>"
//	GROUP <name> <sheet> <x> <y>
//	  primitives as in DECAL
//	END
package asc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

// ErrRecord marks a malformed record
var ErrRecord = errors.New("malformed record")

type block uint8

const (
	blockNone block = iota
	blockDecal
	blockPartType
	blockPart
	blockSignal
	blockGroup
)

// mapper walks the records and keeps track of the open block
type mapper struct {
	design *pads.Design
	block  block
}

// Map converts parsed records into a design
func Map(f *File) (*pads.Design, error) {
	m := &mapper{design: &pads.Design{}}
	for _, rec := range f.Records {
		if err := m.record(rec); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", rec.Pos.Line, rec.Keyword, err)
		}
	}
	return m.design, nil
}

func (m *mapper) record(rec *Record) error {
	v := &fields{vals: rec.Texts()}
	d := m.design

	switch strings.ToUpper(rec.Keyword) {
	case "SHEET":
		d.Parameters.SheetSize = v.str(0)
		if v.len() >= 3 {
			d.Parameters.SheetWidth = v.float(1)
			d.Parameters.SheetHeight = v.float(2)
		}
	case "DESIGN":
		d.Parameters.DesignName = v.str(0)
	case "BORDER":
		d.Parameters.BorderName = v.str(0)
	case "GATESEP":
		d.Parameters.GateSeparator = v.str(0)
	case "COMPANY":
		d.Parameters.Company = v.str(0)
	case "DATE":
		d.Parameters.Date = v.str(0)
	case "SHEETHDR":
		d.SheetHeaders = append(d.SheetHeaders, pads.SheetHeader{Number: v.int(0), Name: v.str(1)})

	case "DECAL":
		d.Decals = append(d.Decals, pads.Decal{Name: v.str(0)})
		m.block = blockDecal
	case "LINE", "CLOSED", "CIRCLE", "ARC", "RECT", "TEXT":
		p, err := primitive(strings.ToUpper(rec.Keyword), v)
		if err != nil {
			return err
		}
		switch m.block {
		case blockDecal:
			dec := &d.Decals[len(d.Decals)-1]
			dec.Primitives = append(dec.Primitives, p)
		case blockGroup:
			g := &d.Groups[len(d.Groups)-1]
			g.Primitives = append(g.Primitives, p)
		default:
			return fmt.Errorf("%w: primitive outside DECAL or GROUP", ErrRecord)
		}
	case "PIN":
		if m.block != blockDecal {
			return fmt.Errorf("%w: PIN outside DECAL", ErrRecord)
		}
		if v.len() < 4 {
			return fmt.Errorf("%w: PIN needs x, y, rotation and length", ErrRecord)
		}
		dec := &d.Decals[len(d.Decals)-1]
		dec.Terminals = append(dec.Terminals, pads.Terminal{
			Position: pads.Coord{X: v.float(0), Y: v.float(1)},
			Rotation: v.float(2),
			Length:   v.float(3),
			Number:   v.str(4),
			Name:     v.str(5),
		})

	case "PARTTYPE":
		d.PartTypes = append(d.PartTypes, pads.PartType{
			Name:     v.str(0),
			Category: strings.ToUpper(v.str(1)),
			Power:    strings.EqualFold(v.str(2), "POWER"),
		})
		m.block = blockPartType
	case "GATE":
		pt, err := m.partType()
		if err != nil {
			return err
		}
		pt.Gates = append(pt.Gates, pads.Gate{Decals: v.tail(0)})
	case "GPIN":
		pt, err := m.partType()
		if err != nil {
			return err
		}
		if len(pt.Gates) == 0 {
			return fmt.Errorf("%w: GPIN before GATE", ErrRecord)
		}
		g := &pt.Gates[len(pt.Gates)-1]
		g.Pins = append(g.Pins, pads.GatePin{Number: v.str(0), Type: strings.ToUpper(v.str(1)), Name: v.str(2)})
	case "SIGPIN":
		pt, err := m.partType()
		if err != nil {
			return err
		}
		pt.SignalPins = append(pt.SignalPins, pads.SignalPin{Number: v.str(0), Signal: v.str(1)})
	case "VARIANT":
		pt, err := m.partType()
		if err != nil {
			return err
		}
		pt.Variants = append(pt.Variants, pads.Variant{Index: v.int(0), Decal: v.str(1), PinType: strings.ToUpper(v.str(2))})

	case "PART":
		if v.len() < 8 {
			return fmt.Errorf("%w: PART needs 8 values, got %d", ErrRecord, v.len())
		}
		d.Parts = append(d.Parts, pads.Part{
			Reference: v.str(0),
			PartType:  v.str(1),
			Sheet:     v.int(2),
			Position:  pads.Coord{X: v.float(3), Y: v.float(4)},
			Rotation:  v.float(5),
			Mirror:    v.int(6),
			Gate:      v.int(7),
			Decal:     v.str(8),
		})
		m.block = blockPart
	case "ATTR":
		if m.block != blockPart {
			return fmt.Errorf("%w: ATTR outside PART", ErrRecord)
		}
		part := &d.Parts[len(d.Parts)-1]
		part.Attributes = append(part.Attributes, pads.Attribute{
			Name:     v.str(0),
			Value:    v.str(1),
			Position: pads.Coord{X: v.float(2), Y: v.float(3)},
			Rotation: v.float(4),
			Justify:  v.int(5),
			Height:   v.float(6),
			Visible:  strings.EqualFold(v.str(7), "VISIBLE"),
		})

	case "SIGNAL":
		d.Signals = append(d.Signals, pads.Signal{Name: v.str(0), Sheet: v.int(1)})
		m.block = blockSignal
	case "WIRE":
		if m.block != blockSignal {
			return fmt.Errorf("%w: WIRE outside SIGNAL", ErrRecord)
		}
		coords := &fields{vals: v.tail(2)}
		bus := coords.trimFlag("BUS")
		pts, err := coords.points()
		if err != nil {
			return err
		}
		sig := &d.Signals[len(d.Signals)-1]
		sig.Wires = append(sig.Wires, pads.Wire{From: v.str(0), To: v.str(1), Vertices: pts, Bus: bus})

	case "OPC":
		if v.len() < 8 {
			return fmt.Errorf("%w: OPC needs 8 values, got %d", ErrRecord, v.len())
		}
		d.Connectors = append(d.Connectors, pads.OffPageConnector{
			ID:       v.int(0),
			Signal:   v.str(1),
			PartType: v.str(2),
			Sheet:    v.int(3),
			Position: pads.Coord{X: v.float(4), Y: v.float(5)},
			Rotation: v.float(6),
			Variant:  v.int(7),
		})
		m.block = blockNone
	case "DOT":
		d.TiedDots = append(d.TiedDots, pads.TiedDot{
			ID:       v.int(0),
			Sheet:    v.int(1),
			Position: pads.Coord{X: v.float(2), Y: v.float(3)},
		})
		m.block = blockNone
	case "FTEXT":
		d.Texts = append(d.Texts, pads.FreeText{
			Sheet:    v.int(0),
			Position: pads.Coord{X: v.float(1), Y: v.float(2)},
			Rotation: v.float(3),
			Justify:  v.int(4),
			Height:   v.float(5),
			Text:     v.str(6),
		})
		m.block = blockNone
	case "GROUP":
		d.Groups = append(d.Groups, pads.GraphicsGroup{
			Name:   v.str(0),
			Sheet:  v.int(1),
			Origin: pads.Coord{X: v.float(2), Y: v.float(3)},
		})
		m.block = blockGroup
	case "END":
		m.block = blockNone
	default:
		return fmt.Errorf("%w: unknown keyword", ErrRecord)
	}
	return v.err
}

func (m *mapper) partType() (*pads.PartType, error) {
	if m.block != blockPartType {
		return nil, fmt.Errorf("%w: record outside PARTTYPE", ErrRecord)
	}
	return &m.design.PartTypes[len(m.design.PartTypes)-1], nil
}

// primitive decodes one drawing primitive record
func primitive(kw string, v *fields) (pads.Primitive, error) {
	filled := v.trimFlag("FILLED")

	var p pads.Primitive
	switch kw {
	case "LINE", "CLOSED", "ARC", "RECT":
		if v.len() < 1 {
			return p, fmt.Errorf("%w: missing line width", ErrRecord)
		}
		pts, err := (&fields{vals: v.tail(1)}).points()
		if err != nil {
			return p, err
		}
		p = pads.Primitive{Width: v.float(0), Points: pts, Filled: filled}
		switch kw {
		case "LINE":
			p.Kind = pads.PrimOpen
		case "CLOSED":
			p.Kind = pads.PrimClosed
		case "ARC":
			p.Kind = pads.PrimArc
		case "RECT":
			p.Kind = pads.PrimRectangle
		}
	case "CIRCLE":
		p = pads.Primitive{
			Kind:   pads.PrimCircle,
			Width:  v.float(0),
			Center: pads.Coord{X: v.float(1), Y: v.float(2)},
			Radius: v.float(3),
			Filled: filled,
		}
	case "TEXT":
		p = pads.Primitive{
			Kind:     pads.PrimText,
			Points:   []pads.Coord{{X: v.float(0), Y: v.float(1)}},
			Rotation: v.float(2),
			Justify:  v.int(3),
			Height:   v.float(4),
			Text:     v.str(5),
		}
	}
	return p, v.err
}

// fields gives positional access to record values. Missing values read as
// zero or empty; the first conversion error is kept in err.
type fields struct {
	vals []string
	err  error
}

func (f *fields) len() int {
	return len(f.vals)
}

func (f *fields) str(i int) string {
	if i < len(f.vals) {
		return f.vals[i]
	}
	return ""
}

// tail returns a copy of the values from index i on
func (f *fields) tail(i int) []string {
	if i >= len(f.vals) {
		return nil
	}
	return append([]string(nil), f.vals[i:]...)
}

// trimFlag drops a trailing keyword flag and reports whether it was present
func (f *fields) trimFlag(flag string) bool {
	n := len(f.vals)
	if n > 0 && strings.EqualFold(f.vals[n-1], flag) {
		f.vals = f.vals[:n-1]
		return true
	}
	return false
}

func (f *fields) float(i int) float64 {
	s := f.str(i)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f.fail(i, s)
	}
	return v
}

func (f *fields) int(i int) int {
	s := f.str(i)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f.fail(i, s)
	}
	return n
}

func (f *fields) fail(i int, s string) {
	if f.err == nil {
		f.err = fmt.Errorf("%w: value %d %q is not a number", ErrRecord, i+1, s)
	}
}

// points reads the values as x y pairs
func (f *fields) points() ([]pads.Coord, error) {
	if len(f.vals)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of coordinates", ErrRecord)
	}
	pts := make([]pads.Coord, 0, len(f.vals)/2)
	for i := 0; i+1 < len(f.vals); i += 2 {
		pts = append(pts, pads.Coord{X: f.float(i), Y: f.float(i + 1)})
	}
	return pts, f.err
}
