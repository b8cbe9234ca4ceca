package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

// SymbolKey identifies one library symbol in the arena: a definition name
// (part-type, decal or built-in glyph) and a style discriminator.
type SymbolKey struct {
	Definition string
	Style      string
}

func (k SymbolKey) String() string {
	return k.Definition + "/" + k.Style
}

// Style discriminators
const (
	styleDecal   = "decal"
	stylePart    = "part:"
	stylePin     = "pin:"
	stylePower   = "power:"
	styleBuiltin = "builtin:"
)

// StylePart selects a whole part-type drawn with gate alternate decal alt
func StylePart(alt int) string { return stylePart + strconv.Itoa(alt) }

// StyleConnectorPin selects the single-pin symbol of a connector decal
func StyleConnectorPin(pin string) string { return stylePin + pin }

// StyleDecal selects a decal drawn as a plain single-unit symbol
func StyleDecal() string { return styleDecal }

// StylePower selects a decal drawn as a global power symbol
func StylePower(kind PowerKind) string { return stylePower + kind.String() }

// StyleBuiltin selects a built-in power glyph; Definition is the glyph name
func StyleBuiltin(kind PowerKind) string { return styleBuiltin + kind.String() }

// Resolver builds library symbols from foreign definitions and keeps them in
// an arena owned by one import run. Each key is built at most once; later
// lookups return the same symbol. Failed builds are remembered too.
type Resolver struct {
	design *pads.Design
	xf     Transform
	text   TextMapper
	opts   *Options

	arena  map[SymbolKey]*schematic.LibSymbol
	failed map[SymbolKey]bool
	names  map[string]bool
	order  []*schematic.LibSymbol
	builds int
}

// NewResolver creates a resolver with an empty arena
func NewResolver(design *pads.Design, xf Transform, opts *Options) *Resolver {
	return &Resolver{
		design: design,
		xf:     xf,
		text:   TextMapper{xf: xf},
		opts:   opts,
		arena:  make(map[SymbolKey]*schematic.LibSymbol),
		failed: make(map[SymbolKey]bool),
		names:  make(map[string]bool),
	}
}

// GetOrCreate returns the library symbol for key, building it on first use.
// The second result is false when the definition cannot be resolved.
func (r *Resolver) GetOrCreate(key SymbolKey) (*schematic.LibSymbol, bool) {
	if ls, ok := r.arena[key]; ok {
		return ls, true
	}
	if r.failed[key] {
		return nil, false
	}

	r.builds++
	ls, ok := r.build(key)
	if !ok {
		r.failed[key] = true
		return nil, false
	}
	ls.Bounds = schematic.SymbolBounds(ls.Units)
	ls.Name = r.uniqueName(ls.Name)
	r.arena[key] = ls
	r.order = append(r.order, ls)
	return ls, true
}

// uniqueName claims name for a new symbol, appending _2, _3... when an
// earlier symbol of the run already holds it
func (r *Resolver) uniqueName(name string) string {
	candidate := name
	for n := 2; r.names[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
	r.names[candidate] = true
	return candidate
}

// Builds returns how many times a symbol build was attempted
func (r *Resolver) Builds() int {
	return r.builds
}

// Symbols returns every resolved symbol in creation order
func (r *Resolver) Symbols() []*schematic.LibSymbol {
	return append([]*schematic.LibSymbol(nil), r.order...)
}

func (r *Resolver) build(key SymbolKey) (*schematic.LibSymbol, bool) {
	switch {
	case key.Style == styleDecal:
		return r.buildDecal(key.Definition)
	case strings.HasPrefix(key.Style, stylePart):
		alt, err := strconv.Atoi(strings.TrimPrefix(key.Style, stylePart))
		if err != nil {
			return nil, false
		}
		return r.buildPart(key.Definition, alt)
	case strings.HasPrefix(key.Style, stylePin):
		return r.buildConnectorPin(key.Definition, strings.TrimPrefix(key.Style, stylePin))
	case strings.HasPrefix(key.Style, stylePower):
		return r.buildPower(key.Definition)
	case strings.HasPrefix(key.Style, styleBuiltin):
		kind, ok := parsePowerKind(strings.TrimPrefix(key.Style, styleBuiltin))
		if !ok {
			return nil, false
		}
		return builtinGlyph(key.Definition, kind), true
	}
	return nil, false
}

// buildPart composes one unit per gate
func (r *Resolver) buildPart(name string, alt int) (*schematic.LibSymbol, bool) {
	pt, ok := r.design.PartType(name)
	if !ok || len(pt.Gates) == 0 {
		return nil, false
	}

	ls := &schematic.LibSymbol{
		Name:         libName("legacy", name, alt),
		ShowPinNames: true,
		ShowPinNums:  true,
		Units:        []schematic.SymbolUnit{{Number: 0}},
	}

	pinCount := 0
	for gi, gate := range pt.Gates {
		if len(gate.Decals) == 0 {
			return nil, false
		}
		decalName := gate.Decals[0]
		if alt >= 0 && alt < len(gate.Decals) {
			decalName = gate.Decals[alt]
		}
		decal, ok := r.design.Decal(decalName)
		if !ok {
			return nil, false
		}

		unit := schematic.SymbolUnit{Number: gi + 1, Graphics: r.graphics(decal.Primitives)}
		for ti, term := range decal.Terminals {
			if ti >= len(gate.Pins) {
				break
			}
			gp := gate.Pins[ti]
			unit.Pins = append(unit.Pins, schematic.Pin{
				Type:     pinType(gp.Type),
				Position: r.xf.ToLocal(term.Position),
				Angle:    r.text.Angle(term.Rotation),
				Length:   r.xf.ToCanonicalLen(term.Length),
				Name:     DecodeText(gp.Name),
				Number:   gp.Number,
			})
		}
		pinCount += len(unit.Pins)
		ls.Units = append(ls.Units, unit)
	}

	for _, sp := range pt.SignalPins {
		ls.Units[0].Pins = append(ls.Units[0].Pins, schematic.Pin{
			Type:   schematic.PinPowerIn,
			Name:   DecodeText(sp.Signal),
			Number: sp.Number,
			Hide:   true,
		})
	}

	// Generic "1"/"2" names on two-terminal passives carry no information
	if pinCount == 2 && r.isPassive(pt) {
		ls.ShowPinNames = false
	}

	ls.Properties = defaultFields(referencePrefix(pt), pt.Name, schematic.SymbolBounds(ls.Units))
	return ls, true
}

// buildConnectorPin draws one pin of a connector whose pins are placed separately
func (r *Resolver) buildConnectorPin(decalName, pin string) (*schematic.LibSymbol, bool) {
	decal, ok := r.design.Decal(decalName)
	if !ok {
		return nil, false
	}

	unit := schematic.SymbolUnit{Number: 1, Graphics: r.graphics(decal.Primitives)}
	if term, ok := connectorTerminal(decal, pin); ok {
		unit.Pins = append(unit.Pins, schematic.Pin{
			Type:     schematic.PinPassive,
			Position: r.xf.ToLocal(term.Position),
			Angle:    r.text.Angle(term.Rotation),
			Length:   r.xf.ToCanonicalLen(term.Length),
			Name:     pin,
			Number:   pin,
		})
	}

	ls := &schematic.LibSymbol{
		Name:        fmt.Sprintf("legacy:%s_pin%s", sanitize(decalName), pin),
		ShowPinNums: true,
		Units:       []schematic.SymbolUnit{{Number: 0}, unit},
	}
	ls.Properties = defaultFields("J", decalName, schematic.SymbolBounds(ls.Units))
	return ls, true
}

// connectorTerminal picks the terminal numbered pin, falling back to the
// first terminal of single-pin connector decals
func connectorTerminal(decal *pads.Decal, pin string) (pads.Terminal, bool) {
	for _, t := range decal.Terminals {
		if t.Number == pin {
			return t, true
		}
	}
	if len(decal.Terminals) > 0 {
		return decal.Terminals[0], true
	}
	return pads.Terminal{}, false
}

func (r *Resolver) buildDecal(decalName string) (*schematic.LibSymbol, bool) {
	decal, ok := r.design.Decal(decalName)
	if !ok {
		return nil, false
	}
	unit := schematic.SymbolUnit{Number: 1, Graphics: r.graphics(decal.Primitives)}
	for i, term := range decal.Terminals {
		num := term.Number
		if num == "" {
			num = strconv.Itoa(i + 1)
		}
		unit.Pins = append(unit.Pins, schematic.Pin{
			Type:     schematic.PinPassive,
			Position: r.xf.ToLocal(term.Position),
			Angle:    r.text.Angle(term.Rotation),
			Length:   r.xf.ToCanonicalLen(term.Length),
			Name:     DecodeText(term.Name),
			Number:   num,
		})
	}
	ls := &schematic.LibSymbol{
		Name:         "legacy:" + sanitize(decalName),
		ShowPinNames: true,
		ShowPinNums:  true,
		Units:        []schematic.SymbolUnit{{Number: 0}, unit},
	}
	ls.Properties = defaultFields("U", decalName, schematic.SymbolBounds(ls.Units))
	return ls, true
}

// buildPower clones the plain decal symbol and turns it into a global power
// symbol; the cached decal symbol itself is left untouched
func (r *Resolver) buildPower(decalName string) (*schematic.LibSymbol, bool) {
	base, ok := r.GetOrCreate(SymbolKey{Definition: decalName, Style: styleDecal})
	if !ok {
		return nil, false
	}
	ls := base.Clone()
	ls.Name = "power:" + sanitize(decalName)
	ls.Power = true
	ls.ShowPinNames = false
	ls.ShowPinNums = false
	for i := range ls.Units {
		for j := range ls.Units[i].Pins {
			p := &ls.Units[i].Pins[j]
			p.Type = schematic.PinPowerIn
			p.Hide = true
		}
	}
	ls.Properties = powerFields(decalName)
	return ls, true
}

func (r *Resolver) graphics(prims []pads.Primitive) []schematic.Graphic {
	out := make([]schematic.Graphic, 0, len(prims))
	for _, p := range prims {
		if g, ok := convertPrimitive(r.xf.ToLocal, r.xf, r.text, p); ok {
			out = append(out, g)
		}
	}
	return out
}

// convertPrimitive maps one foreign primitive through the given point
// conversion. Malformed primitives are dropped.
func convertPrimitive(pt func(pads.Coord) sexp.Point, xf Transform, text TextMapper, p pads.Primitive) (schematic.Graphic, bool) {
	stroke := sexp.Stroke{Width: xf.ToCanonicalLen(p.Width)}
	fill := sexp.Fill{Type: "none"}
	if p.Filled {
		fill.Type = "outline"
	}

	switch p.Kind {
	case pads.PrimOpen, pads.PrimClosed:
		if len(p.Points) < 2 {
			return schematic.Graphic{}, false
		}
		g := schematic.Graphic{Kind: schematic.GraphicPolyline, Stroke: stroke, Fill: fill}
		for _, c := range p.Points {
			g.Points = append(g.Points, pt(c))
		}
		if p.Kind == pads.PrimClosed && g.Points[0] != g.Points[len(g.Points)-1] {
			g.Points = append(g.Points, g.Points[0])
		}
		return g, true
	case pads.PrimCircle:
		return schematic.Graphic{
			Kind:   schematic.GraphicCircle,
			Center: pt(p.Center),
			Radius: xf.ToCanonicalLen(p.Radius),
			Stroke: stroke,
			Fill:   fill,
		}, true
	case pads.PrimArc:
		if len(p.Points) < 3 {
			return schematic.Graphic{}, false
		}
		return schematic.Graphic{
			Kind:   schematic.GraphicArc,
			Start:  pt(p.Points[0]),
			Mid:    pt(p.Points[1]),
			End:    pt(p.Points[2]),
			Stroke: stroke,
			Fill:   fill,
		}, true
	case pads.PrimRectangle:
		if len(p.Points) < 2 {
			return schematic.Graphic{}, false
		}
		return schematic.Graphic{
			Kind:   schematic.GraphicRectangle,
			Start:  pt(p.Points[0]),
			End:    pt(p.Points[1]),
			Stroke: stroke,
			Fill:   fill,
		}, true
	case pads.PrimText:
		if len(p.Points) < 1 {
			return schematic.Graphic{}, false
		}
		s := DecodeText(p.Text)
		angle := text.Angle(p.Rotation)
		pos, eff := text.Place(pt(p.Points[0]), angle, s, text.Effects(p.Height, p.Justify, false))
		return schematic.Graphic{
			Kind:    schematic.GraphicText,
			Start:   pos,
			Text:    s,
			Angle:   angle,
			Effects: eff,
		}, true
	}
	return schematic.Graphic{}, false
}

func (r *Resolver) isPassive(pt *pads.PartType) bool {
	for _, c := range r.opts.PassiveCategories {
		if strings.EqualFold(c, pt.Category) {
			return true
		}
	}
	return false
}

func pinType(code string) schematic.PinType {
	switch strings.ToUpper(code) {
	case pads.PinTypeSource:
		return schematic.PinOutput
	case pads.PinTypeBidirect:
		return schematic.PinBidirectional
	case pads.PinTypeOpenCollect:
		return schematic.PinOpenCollector
	case pads.PinTypeTristate:
		return schematic.PinTriState
	case pads.PinTypeLoad:
		return schematic.PinInput
	case pads.PinTypePower, pads.PinTypeGround:
		return schematic.PinPowerIn
	case pads.PinTypeUnconnected:
		return schematic.PinUnspecified
	}
	return schematic.PinPassive
}

var refPrefixes = map[string]string{
	pads.CategoryResistor:  "R",
	pads.CategoryCapacitor: "C",
	pads.CategoryInductor:  "L",
	pads.CategoryConnector: "J",
	pads.CategoryIC:        "U",
	pads.CategoryPower:     "#PWR",
}

func referencePrefix(pt *pads.PartType) string {
	if p, ok := refPrefixes[strings.ToUpper(pt.Category)]; ok {
		return p
	}
	return "U"
}

// defaultFields places Reference above and Value below the symbol body
func defaultFields(ref, value string, bb sexp.BoundingBox) []sexp.Property {
	top, bottom := int64(-fieldGap), int64(fieldGap)
	if !bb.IsEmpty() {
		top = bb.Min.Y - fieldGap
		bottom = bb.Max.Y + fieldGap
	}
	return []sexp.Property{
		{Key: "Reference", Value: ref, Position: sexp.Point{Y: top}, Effects: defaultFieldEffects()},
		{Key: "Value", Value: value, Position: sexp.Point{Y: bottom}, Effects: defaultFieldEffects()},
	}
}

func powerFields(value string) []sexp.Property {
	hidden := defaultFieldEffects()
	hidden.Hide = true
	return []sexp.Property{
		{Key: "Reference", Value: "#PWR", Effects: hidden},
		{Key: "Value", Value: value, Position: sexp.Point{Y: fieldGap}, Effects: defaultFieldEffects()},
	}
}

// fieldGap is the distance between a symbol body and its default fields (50 mil)
const fieldGap = 50 * sexp.IUPerMil

func defaultFieldEffects() sexp.Effects {
	return sexp.Effects{Font: sexp.Font{Size: sexp.Size{Width: schematic.DefaultTextSize, Height: schematic.DefaultTextSize}}}
}

func libName(lib, name string, alt int) string {
	if alt > 0 {
		return fmt.Sprintf("%s:%s_alt%d", lib, sanitize(name), alt)
	}
	return lib + ":" + sanitize(name)
}

// sanitize replaces characters that are not valid in a library item name
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '\\', ' ', '"', '\t', '\n':
			return '_'
		}
		return r
	}, name)
}
