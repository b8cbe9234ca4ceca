package pads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetNumbers(t *testing.T) {
	d := &Design{
		SheetHeaders: []SheetHeader{{Number: 4, Name: "IO"}},
		Parts:        []Part{{Reference: "R1", Sheet: 2}, {Reference: "R2", Sheet: 2}},
		Signals:      []Signal{{Name: "CLK", Sheet: 1}},
		Connectors:   []OffPageConnector{{ID: 1, Sheet: 0}},
		TiedDots:     []TiedDot{{ID: 1, Sheet: 3}},
		Texts:        []FreeText{{Text: "x", Sheet: 2}},
		Groups:       []GraphicsGroup{{Name: "g", Sheet: 5}},
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, d.SheetNumbers())

	name, ok := d.SheetName(4)
	assert.True(t, ok)
	assert.Equal(t, "IO", name)
	_, ok = d.SheetName(2)
	assert.False(t, ok)

	assert.Empty(t, (&Design{}).SheetNumbers())
}

func TestSheetNumbersSkipBorderGroup(t *testing.T) {
	d := &Design{
		Parameters: Parameters{BorderName: "BORDER_B"},
		Parts:      []Part{{Reference: "R1", Sheet: 1}},
		Groups: []GraphicsGroup{
			{Name: "border_b", Sheet: 2},
			{Name: "LOGO", Sheet: 3},
		},
	}
	assert.Equal(t, []int{1, 3}, d.SheetNumbers())
	assert.True(t, d.IsBorderGroup(d.Groups[0]))
	assert.False(t, d.IsBorderGroup(d.Groups[1]))
	assert.False(t, (&Design{}).IsBorderGroup(GraphicsGroup{}), "no border template configured")
}

func TestLookups(t *testing.T) {
	d := &Design{
		PartTypes:  []PartType{{Name: "7400", Variants: []Variant{{Index: 2}}}},
		Decals:     []Decal{{Name: "NAND"}},
		Connectors: []OffPageConnector{{ID: 9, Signal: "GND"}},
		Parts: []Part{{
			Reference:  "U1-A",
			Attributes: []Attribute{{Name: "Value", Value: "74HC00"}},
		}},
	}

	pt, ok := d.PartType("7400")
	require.True(t, ok)
	_, ok = pt.Variant(2)
	assert.True(t, ok)
	_, ok = pt.Variant(0)
	assert.False(t, ok)
	_, ok = d.PartType("7404")
	assert.False(t, ok)

	_, ok = d.Decal("NAND")
	assert.True(t, ok)

	c, ok := d.Connector(9)
	require.True(t, ok)
	assert.Equal(t, "GND", c.Signal)
	_, ok = d.Connector(1)
	assert.False(t, ok)

	attr, ok := d.Parts[0].Attribute("VALUE")
	assert.True(t, ok, "attribute names match case-insensitively")
	assert.Equal(t, "74HC00", attr.Value)
}
