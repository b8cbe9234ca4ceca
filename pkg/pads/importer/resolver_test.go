package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

func newTestResolver(d *pads.Design) *Resolver {
	opts := DefaultOptions()
	return NewResolver(d, NewTransform(opts.Scale, 11000), &opts)
}

func TestResolverBuildsOnce(t *testing.T) {
	r := newTestResolver(testDesign())
	key := SymbolKey{Definition: "RES10K", Style: StylePart(0)}

	first, ok := r.GetOrCreate(key)
	require.True(t, ok)
	second, ok := r.GetOrCreate(key)
	require.True(t, ok)

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Builds())
	assert.Len(t, r.Symbols(), 1)
}

func TestResolverRemembersFailures(t *testing.T) {
	r := newTestResolver(testDesign())
	key := SymbolKey{Definition: "NOPE", Style: StylePart(0)}

	_, ok := r.GetOrCreate(key)
	assert.False(t, ok)
	_, ok = r.GetOrCreate(key)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Builds())
	assert.Empty(t, r.Symbols())
}

func TestResolverPartSymbol(t *testing.T) {
	r := newTestResolver(testDesign())
	ls, ok := r.GetOrCreate(SymbolKey{Definition: "RES10K", Style: StylePart(0)})
	require.True(t, ok)

	assert.Equal(t, "legacy:RES10K", ls.Name)
	assert.False(t, ls.Power)
	assert.False(t, ls.Bounds.IsEmpty())

	pins := ls.PinsOf(1)
	require.Len(t, pins, 2)
	assert.Equal(t, "1", pins[0].Number)
	assert.Equal(t, int64(-100*254), pins[0].Position.X)
	assert.Equal(t, int64(50*254), pins[0].Length)
	assert.Equal(t, schematic.PinPassive, pins[0].Type)
}

func TestResolverPowerSymbolIsACopy(t *testing.T) {
	r := newTestResolver(testDesign())
	decal, ok := r.GetOrCreate(SymbolKey{Definition: "GND_SYM", Style: StyleDecal()})
	require.True(t, ok)
	power, ok := r.GetOrCreate(SymbolKey{Definition: "GND_SYM", Style: StylePower(PowerGround)})
	require.True(t, ok)

	assert.NotSame(t, decal, power)
	assert.True(t, power.Power)
	assert.False(t, decal.Power, "the shared decal symbol stays untouched")

	for _, p := range power.PinsOf(1) {
		assert.True(t, p.Hide)
		assert.Equal(t, schematic.PinPowerIn, p.Type)
	}
	for _, p := range decal.PinsOf(1) {
		assert.False(t, p.Hide)
	}
}

func TestResolverBuiltinGlyphs(t *testing.T) {
	r := newTestResolver(testDesign())
	gnd, ok := r.GetOrCreate(builtinKey(PowerGround))
	require.True(t, ok)
	vcc, ok := r.GetOrCreate(builtinKey(PowerSupply))
	require.True(t, ok)

	assert.Equal(t, "power:GND", gnd.Name)
	assert.Equal(t, "power:VCC", vcc.Name)
	assert.True(t, gnd.Power)
	// ground hangs below the pin, supply rises above it
	assert.Greater(t, gnd.Bounds.Max.Y, int64(0))
	assert.Less(t, vcc.Bounds.Min.Y, int64(0))
}

func TestResolvePowerStyle(t *testing.T) {
	d := testDesign()
	d.PartTypes = append(d.PartTypes, pads.PartType{Name: "$PWR_FLAG", Category: pads.CategoryPower, Power: true})
	r := newTestResolver(d)

	tests := []struct {
		name     string
		opc      pads.OffPageConnector
		isPower  bool
		kind     PowerKind
		explicit bool
	}{
		{"ground variant", pads.OffPageConnector{Signal: "NET1", PartType: "$GND_SYMS", Variant: 0}, true, PowerGround, true},
		{"off-page variant named GND", pads.OffPageConnector{Signal: "GND", PartType: "$GND_SYMS", Variant: 1}, false, PowerNone, true},
		{"name heuristic ground", pads.OffPageConnector{Signal: "agnd", PartType: "UNKNOWN"}, true, PowerGround, false},
		{"name heuristic rail", pads.OffPageConnector{Signal: "+3V3", PartType: "UNKNOWN"}, true, PowerSupply, false},
		{"power flag without variant", pads.OffPageConnector{Signal: "VMOTOR", PartType: "$PWR_FLAG"}, true, PowerSupply, false},
		{"plain signal", pads.OffPageConnector{Signal: "DATA0", PartType: "UNKNOWN"}, false, PowerNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style, isPower := r.ResolvePowerStyle(&tt.opc)
			assert.Equal(t, tt.isPower, isPower)
			assert.Equal(t, tt.kind, style.Kind)
			assert.Equal(t, tt.explicit, style.Explicit)
		})
	}
}

func TestPowerOrientationTable(t *testing.T) {
	tests := []struct {
		kind   PowerKind
		dx, dy int64
		want   schematic.Orientation
	}{
		{PowerGround, 0, -10, schematic.Orient0},
		{PowerGround, 0, 10, schematic.Orient180},
		{PowerGround, -10, 0, schematic.Orient90},
		{PowerGround, 10, 0, schematic.Orient270},
		{PowerSupply, 0, 10, schematic.Orient0},
		{PowerSupply, 0, -10, schematic.Orient180},
		{PowerSupply, 10, 0, schematic.Orient90},
		{PowerSupply, -10, 0, schematic.Orient270},
		// ties resolve horizontally
		{PowerGround, 10, 10, schematic.Orient270},
		{PowerSupply, -10, 10, schematic.Orient270},
	}
	for _, tt := range tests {
		got, ok := PowerOrientation(tt.kind, tt.dx, tt.dy)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, "%v (%d,%d)", tt.kind, tt.dx, tt.dy)
	}

	got, ok := PowerOrientation(PowerGround, 0, 0)
	assert.False(t, ok)
	assert.Equal(t, schematic.Orient0, got)
}

func TestPlacementOrientationRotatesFirst(t *testing.T) {
	p := schematic.Point{X: 1}

	o := PlacementOrientation(90, pads.MirrorHorizontal)
	assert.Equal(t, schematic.Compose(schematic.OrientMirrorH, schematic.Orient90), o)
	assert.Equal(t, schematic.Point{X: 0, Y: -1}, o.Apply(p))

	assert.Equal(t, schematic.Orient180, PlacementOrientation(0, pads.MirrorHorizontal|pads.MirrorVertical))
	assert.Equal(t, schematic.Orient270, PlacementOrientation(-90, 0))
}

func TestLabelSpin(t *testing.T) {
	assert.Equal(t, schematic.SpinLeft, LabelSpin(10, 0))
	assert.Equal(t, schematic.SpinRight, LabelSpin(-10, 0))
	assert.Equal(t, schematic.SpinBottom, LabelSpin(0, -10))
	assert.Equal(t, schematic.SpinUp, LabelSpin(0, 10))
	assert.Equal(t, schematic.SpinLeft, LabelSpin(10, -10), "ties resolve horizontally")
	assert.Equal(t, schematic.SpinRight, LabelSpin(0, 0))
}

func TestResolverNamesDoNotCollide(t *testing.T) {
	r := newTestResolver(testDesign())

	ground, ok := r.GetOrCreate(SymbolKey{Definition: "GND_SYM", Style: StylePower(PowerGround)})
	require.True(t, ok)
	supply, ok := r.GetOrCreate(SymbolKey{Definition: "GND_SYM", Style: StylePower(PowerSupply)})
	require.True(t, ok)

	assert.Equal(t, "power:GND_SYM", ground.Name)
	assert.Equal(t, "power:GND_SYM_2", supply.Name)

	names := make(map[string]bool)
	for _, ls := range r.Symbols() {
		assert.False(t, names[ls.Name], "%s used twice", ls.Name)
		names[ls.Name] = true
	}
}
