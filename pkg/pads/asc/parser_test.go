package asc

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

func TestParseRecords(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)

	f, err := p.ParseString("# header\nPART R1 RES10K 1 1000 2000 90 0 0\n\n  ATTR \"Value\" \"10 K\" 0 -100 0 0 50 VISIBLE # trailing")
	require.NoError(t, err)
	require.Len(t, f.Records, 2)

	part := f.Records[0]
	assert.Equal(t, "PART", part.Keyword)
	assert.Equal(t, 2, part.Pos.Line)
	assert.Equal(t, []string{"R1", "RES10K", "1", "1000", "2000", "90", "0", "0"}, part.Texts())

	attr := f.Records[1]
	assert.Equal(t, "10 K", attr.Texts()[1], "quoted values keep their blanks")
	assert.Equal(t, "VISIBLE", attr.Texts()[7])
}

func TestParseRejectsUnterminatedString(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)

	_, err = p.ParseString(`DESIGN "demo`)
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	d, err := ReadFile(filepath.Join("..", "..", "..", "testdata", "demo.asc"))
	require.NoError(t, err)

	assert.Equal(t, "B", d.Parameters.SheetSize)
	assert.Equal(t, "demo", d.Parameters.DesignName)
	assert.Equal(t, "BORDER_B", d.Parameters.BorderName)
	assert.Equal(t, "-", d.Parameters.GateSeparator)
	assert.Equal(t, []pads.SheetHeader{{Number: 1, Name: "Main"}}, d.SheetHeaders)

	require.Len(t, d.Decals, 2)
	res := d.Decals[0]
	assert.Equal(t, "RES_H", res.Name)
	require.Len(t, res.Primitives, 1)
	assert.Equal(t, pads.PrimRectangle, res.Primitives[0].Kind)
	require.Len(t, res.Terminals, 2)
	assert.Equal(t, pads.Terminal{Position: pads.Coord{X: 100}, Rotation: 180, Length: 50, Number: "2"}, res.Terminals[1])

	require.Len(t, d.PartTypes, 2)
	assert.Equal(t, pads.CategoryResistor, d.PartTypes[0].Category)
	require.Len(t, d.PartTypes[0].Gates, 1)
	assert.Len(t, d.PartTypes[0].Gates[0].Pins, 2)
	gnd := d.PartTypes[1]
	assert.True(t, gnd.Power)
	v, ok := gnd.Variant(1)
	require.True(t, ok)
	assert.Equal(t, pads.VariantOffPage, v.PinType)

	require.Len(t, d.Parts, 2)
	r1 := d.Parts[0]
	assert.Equal(t, pads.Coord{X: 1000, Y: 2000}, r1.Position)
	assert.Equal(t, 90.0, r1.Rotation)
	footprint, ok := r1.Attribute("PCB DECAL")
	require.True(t, ok)
	assert.Equal(t, "R0603", footprint.Value)
	assert.False(t, footprint.Visible)

	require.Len(t, d.Signals, 3)
	wire := d.Signals[1].Wires[0]
	assert.Equal(t, "R1.2", wire.From)
	assert.Len(t, wire.Vertices, 4)
	assert.False(t, wire.Bus)
	assert.True(t, d.Signals[2].Wires[0].Bus, "a trailing BUS flag marks a bus wire")
	assert.False(t, d.Signals[2].Wires[1].Bus)

	require.Len(t, d.Connectors, 1)
	assert.Equal(t, pads.OffPageConnector{
		ID: 1, Signal: "GND", PartType: "$GND_SYMS", Sheet: 1,
		Position: pads.Coord{X: 1000, Y: 1800},
	}, d.Connectors[0])

	require.Len(t, d.TiedDots, 1)
	require.Len(t, d.Texts, 1)
	assert.Equal(t, "Demo sheet", d.Texts[0].Text)
	require.Len(t, d.Groups, 1)
	assert.Len(t, d.Groups[0].Primitives, 1)
}

func TestMapErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"unknown keyword", "DESIGN \"x\"\nBOGUS 1", "line 2"},
		{"pin outside decal", "PIN 0 0 0 50", "line 1"},
		{"short part", "PART R1 RES 1", "line 1"},
		{"bad number", "DOT 1 1 abc 0", "line 1"},
		{"odd coordinates", "SIGNAL A 1\nWIRE a b 0 0 10", "line 2"},
		{"gate pin before gate", "PARTTYPE X IC\nGPIN 1 S", "line 2"},
		{"attribute outside part", "SIGNAL A 1\nATTR \"a\" \"b\"", "line 2"},
		{"primitive outside block", "END\nLINE 1 0 0 1 1", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRecord), "got %v", err)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestMapKeywordsAreCaseInsensitive(t *testing.T) {
	d, err := Read(strings.NewReader("decal SQ\n  rect 10 0 0 10 10 filled\n  pin 0 0 0 5 1 \"A\""))
	require.NoError(t, err)
	require.Len(t, d.Decals, 1)
	assert.True(t, d.Decals[0].Primitives[0].Filled)
	assert.Equal(t, "A", d.Decals[0].Terminals[0].Name)
}
