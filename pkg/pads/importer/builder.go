package importer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

// Attribute names with a fixed meaning
const (
	attrRefDes    = "Ref.Des."
	attrPartType  = "Part Type"
	attrValue     = "Value"
	attrFootprint = "PCB DECAL"
)

// Fixed placement of the Value field on passives, relative to the instance
var passiveValueOffset = sexp.Point{Y: 100 * sexp.IUPerMil}

// builder carries the state of one import run: the symbol arena and the
// sheet-number to sheet-context map. Nothing else persists between records.
type builder struct {
	design *pads.Design
	opts   *Options
	report *Report

	xf       Transform
	text     TextMapper
	resolver *Resolver
	page     schematic.PageGeometry
	sep      string
	ns       uuid.UUID

	sch      *schematic.Schematic
	contexts map[int]*sheetContext
	order    []*sheetContext

	ids     int
	powerNo int
	// references of per-pin connector placements
	connectorPins map[string]bool
}

func newBuilder(design *pads.Design, opts *Options, report *Report) *builder {
	params := design.Parameters
	page := PageGeometryFor(params.SheetSize, params.SheetWidth, params.SheetHeight, opts.Scale, opts.DefaultPage)
	xf := Transform{Scale: opts.Scale, PageHeight: page.Height}

	sep := params.GateSeparator
	if sep == "" {
		sep = opts.GateSeparator
	}

	return &builder{
		design:        design,
		opts:          opts,
		report:        report,
		xf:            xf,
		text:          TextMapper{xf: xf},
		resolver:      NewResolver(design, xf, opts),
		page:          page,
		sep:           sep,
		ns:            designNamespace(params.DesignName),
		sch:           &schematic.Schematic{},
		contexts:      make(map[int]*sheetContext),
		connectorPins: make(map[string]bool),
	}
}

// designNamespace scopes every generated identifier to the design name
func designNamespace(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("legacysch:"+name))
}

// StableID is the identity shared by every gate of a reference designator.
// It only depends on the design name and the reference with its gate suffix
// stripped, so repeated imports produce the same value.
func StableID(designName, baseRef string) schematic.UUID {
	return schematic.UUID(uuid.NewSHA1(designNamespace(designName), []byte("ref:"+baseRef)).String())
}

// newID returns the next element identifier. Identifiers follow record order.
func (b *builder) newID(kind string) schematic.UUID {
	b.ids++
	return schematic.UUID(uuid.NewSHA1(b.ns, []byte(fmt.Sprintf("%s:%d", kind, b.ids))).String())
}

// placeParts turns every placement into a symbol instance on its sheet
func (b *builder) placeParts() {
	for i := range b.design.Parts {
		part := &b.design.Parts[i]
		if _, pin, ok := pads.ConnectorPin(part.Reference); ok && pin != "" {
			b.connectorPins[part.Reference] = true
		}
	}

	for i := range b.design.Parts {
		part := &b.design.Parts[i]
		inst, ok := b.placePart(part)
		if !ok {
			continue
		}
		ctx, ok := b.context(part.Sheet)
		if !ok {
			b.report.warnf(part.Reference, "sheet %d does not exist", part.Sheet)
			continue
		}
		ctx.sheet.Symbols = append(ctx.sheet.Symbols, inst)
	}
}

func (b *builder) placePart(part *pads.Part) (*schematic.SymbolInstance, bool) {
	pt, ok := b.design.PartType(part.PartType)
	if !ok {
		b.report.warnf(part.Reference, "unknown part-type %q", part.PartType)
		return nil, false
	}

	key, unit, ok := b.symbolKey(part, pt)
	if !ok {
		return nil, false
	}
	ls, ok := b.resolver.GetOrCreate(key)
	if !ok {
		b.report.warnf(part.Reference, "cannot build symbol %s", key)
		return nil, false
	}

	power := pt.Power || strings.EqualFold(pt.Category, pads.CategoryPower)
	baseRef, _ := pads.SplitGate(part.Reference, b.sep)

	inst := &schematic.SymbolInstance{
		Lib:         ls,
		Position:    b.xf.ToCanonical(part.Position),
		Orientation: PlacementOrientation(part.Rotation, part.Mirror),
		Unit:        unit,
		UUID:        b.newID("symbol"),
		Reference:   baseRef,
		Power:       power,
	}
	if part.Gate == 0 && !power {
		inst.LinkID = StableID(b.design.Parameters.DesignName, baseRef)
	}
	inst.Properties = b.fields(part, pt, ls, inst)
	return inst, true
}

// symbolKey selects the library symbol and unit for a placement
func (b *builder) symbolKey(part *pads.Part, pt *pads.PartType) (SymbolKey, int, bool) {
	if b.connectorPins[part.Reference] {
		_, pin, _ := pads.ConnectorPin(part.Reference)
		decal := b.placementDecal(part, pt)
		if decal == "" {
			b.report.warnf(part.Reference, "part-type %q has no decal", pt.Name)
			return SymbolKey{}, 0, false
		}
		return SymbolKey{Definition: decal, Style: StyleConnectorPin(pin)}, 1, true
	}

	if part.Gate < 0 || part.Gate >= len(pt.Gates) {
		b.report.warnf(part.Reference, "gate %d out of range for part-type %q", part.Gate, pt.Name)
		return SymbolKey{}, 0, false
	}
	alt := 0
	if part.Decal != "" {
		for i, d := range pt.Gates[part.Gate].Decals {
			if d == part.Decal {
				alt = i
				break
			}
		}
	}
	return SymbolKey{Definition: pt.Name, Style: StylePart(alt)}, part.Gate + 1, true
}

func (b *builder) placementDecal(part *pads.Part, pt *pads.PartType) string {
	if part.Decal != "" {
		return part.Decal
	}
	gate := 0
	if part.Gate >= 0 && part.Gate < len(pt.Gates) {
		gate = part.Gate
	}
	if gate < len(pt.Gates) && len(pt.Gates[gate].Decals) > 0 {
		return pt.Gates[gate].Decals[0]
	}
	return ""
}

// PlacementOrientation rotates first and then applies the mirror flags
func PlacementOrientation(rotation float64, mirror int) schematic.Orientation {
	return schematic.Compose(mirrorOrientation(mirror), schematic.Rotation(rotation))
}

func mirrorOrientation(flags int) schematic.Orientation {
	o := schematic.Orient0
	if flags&pads.MirrorVertical != 0 {
		o = schematic.Compose(schematic.OrientMirrorV, o)
	}
	if flags&pads.MirrorHorizontal != 0 {
		o = schematic.Compose(schematic.OrientMirrorH, o)
	}
	return o
}

// fields builds Reference, Value, Footprint and the remaining attributes.
// Library defaults are offsets from the symbol origin.
func (b *builder) fields(part *pads.Part, pt *pads.PartType, ls *schematic.LibSymbol, inst *schematic.SymbolInstance) []sexp.Property {
	ref := b.field(part, attrRefDes, "Reference", inst.Reference, ls, inst.Position)
	value := b.field(part, attrPartType, "Value", pt.Name, ls, inst.Position)

	if b.resolver.isPassive(pt) {
		if a, ok := part.Attribute(attrValue); ok && a.Value != "" {
			value.Value = DecodeText(a.Value)
			value.Position = inst.Position.Add(passiveValueOffset)
			value.Angle = 0
			value.Effects = defaultFieldEffects()
		}
	}
	if inst.Power {
		ref.Effects.Hide = true
	}

	props := []sexp.Property{ref, value}
	footprint := sexp.Property{Key: "Footprint", Position: inst.Position, Effects: defaultFieldEffects()}
	footprint.Effects.Hide = true
	if a, ok := part.Attribute(attrFootprint); ok {
		footprint.Value = DecodeText(a.Value)
	} else if part.Decal != "" && !b.connectorPins[part.Reference] {
		footprint.Value = part.Decal
	}
	props = append(props, footprint)

	for _, a := range part.Attributes {
		switch {
		case strings.EqualFold(a.Name, attrRefDes),
			strings.EqualFold(a.Name, attrPartType),
			strings.EqualFold(a.Name, attrFootprint):
			continue
		case strings.EqualFold(a.Name, attrValue) && b.resolver.isPassive(pt):
			continue
		}
		props = append(props, b.attributeField(part, a, a.Name, DecodeText(a.Value)))
	}
	return props
}

// field uses the placement's attribute override when present, otherwise the
// library default for key
func (b *builder) field(part *pads.Part, attr, key, value string, ls *schematic.LibSymbol, origin sexp.Point) sexp.Property {
	if a, ok := part.Attribute(attr); ok {
		return b.attributeField(part, a, key, value)
	}
	p := sexp.Property{Key: key, Value: value, Position: origin, Effects: defaultFieldEffects()}
	for _, lp := range ls.Properties {
		if lp.Key == key {
			p.Position = origin.Add(lp.Position)
			p.Effects = lp.Effects
		}
	}
	return p
}

func (b *builder) attributeField(part *pads.Part, a pads.Attribute, key, value string) sexp.Property {
	return sexp.Property{
		Key:      key,
		Value:    value,
		Position: b.xf.ToCanonical(part.Position.Add(a.Position)),
		Angle:    b.text.Angle(a.Rotation),
		Effects:  b.text.Effects(a.Height, a.Justify, !a.Visible),
	}
}

// placeTexts adds free text records to their sheets
func (b *builder) placeTexts() {
	for _, t := range b.design.Texts {
		ctx, ok := b.context(t.Sheet)
		if !ok {
			b.report.warnf("", "text %q on missing sheet %d", t.Text, t.Sheet)
			continue
		}
		s := DecodeText(t.Text)
		if strings.TrimSpace(s) == "" {
			continue
		}
		angle := b.text.Angle(t.Rotation)
		pos, eff := b.text.Place(b.xf.ToCanonical(t.Position), angle, s, b.text.Effects(t.Height, t.Justify, false))
		ctx.sheet.Texts = append(ctx.sheet.Texts, schematic.Text{
			Text:     s,
			Position: pos,
			Angle:    angle,
			Effects:  eff,
			UUID:     b.newID("text"),
		})
	}
}

// placeGroups adds graphics groups to their sheets. The page border group is
// replaced by the output format's own frame and is skipped.
func (b *builder) placeGroups() {
	for _, g := range b.design.Groups {
		if b.design.IsBorderGroup(g) {
			continue
		}
		ctx, ok := b.context(g.Sheet)
		if !ok {
			b.report.warnf(g.Name, "graphics group on missing sheet %d", g.Sheet)
			continue
		}
		origin := g.Origin
		toSheet := func(c pads.Coord) sexp.Point { return b.xf.ToCanonical(origin.Add(c)) }
		for _, p := range g.Primitives {
			gr, ok := convertPrimitive(toSheet, b.xf, b.text, p)
			if !ok {
				b.report.warnf(g.Name, "malformed primitive dropped")
				continue
			}
			ctx.sheet.Graphics = append(ctx.sheet.Graphics, gr)
		}
	}
}
