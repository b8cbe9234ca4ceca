package importer

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/kicad/sexp"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

// endpoint is one end of a foreign polyline in canonical coordinates.
// Delta points from the end toward the nearest distinct vertex of its wire.
type endpoint struct {
	token pads.Token
	pos   sexp.Point
	delta sexp.Point
}

// net is the canonical geometry of one signal record
type net struct {
	signal    *pads.Signal
	ctx       *sheetContext
	endpoints []endpoint
	// touches counts every vertex occurrence per position, across all wires
	touches map[sexp.Point]int
}

// connect reconstructs connectivity in five passes: wire segments, junctions,
// connector-pin labels, power symbols and finally net labels.
func (b *builder) connect() {
	nets := b.expandSegments()
	b.placeJunctions()
	b.labelConnectorPins(nets)
	skip := b.placePowerSymbols(nets)
	b.labelNets(nets, skip)

	for _, ctx := range b.order {
		ctx.sheet.Junctions = ctx.junctions.Values()
		ctx.sheet.Labels = ctx.labels.Values()
		ctx.sheet.Symbols = append(ctx.sheet.Symbols, ctx.powers.Values()...)
	}
}

// expandSegments splits every polyline of N vertices into N-1 wires and
// records its endpoints. Zero-length segments are dropped, and polylines with
// fewer than two vertices are ignored.
func (b *builder) expandSegments() []*net {
	var nets []*net
	for i := range b.design.Signals {
		sig := &b.design.Signals[i]
		ctx, ok := b.context(sig.Sheet)
		if !ok {
			b.report.warnf(sig.Name, "signal on missing sheet %d", sig.Sheet)
			continue
		}
		n := &net{signal: sig, ctx: ctx, touches: make(map[sexp.Point]int)}

		for _, w := range sig.Wires {
			if len(w.Vertices) < 2 {
				continue
			}
			pts := make([]sexp.Point, len(w.Vertices))
			for j, v := range w.Vertices {
				pts[j] = b.xf.ToCanonical(v)
				n.touches[pts[j]]++
			}

			layer := schematic.LayerWire
			if w.Bus {
				layer = schematic.LayerBus
			}
			for j := 0; j+1 < len(pts); j++ {
				if pts[j] == pts[j+1] {
					continue
				}
				ctx.sheet.Wires = append(ctx.sheet.Wires, schematic.Wire{
					Start: pts[j],
					End:   pts[j+1],
					Layer: layer,
					UUID:  b.newID("wire"),
				})
			}

			n.endpoints = append(n.endpoints,
				endpoint{token: pads.ClassifyToken(w.From), pos: pts[0], delta: adjacentDelta(pts)},
				endpoint{token: pads.ClassifyToken(w.To), pos: pts[len(pts)-1], delta: adjacentDelta(reversed(pts))},
			)
		}
		nets = append(nets, n)
	}
	return nets
}

// adjacentDelta returns the offset from pts[0] to the first vertex that differs from it
func adjacentDelta(pts []sexp.Point) sexp.Point {
	for _, p := range pts[1:] {
		if p != pts[0] {
			return p.Sub(pts[0])
		}
	}
	return sexp.Point{}
}

func reversed(pts []sexp.Point) []sexp.Point {
	out := make([]sexp.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// placeJunctions turns each tied dot into a junction on its sheet
func (b *builder) placeJunctions() {
	for _, dot := range b.design.TiedDots {
		ctx, ok := b.context(dot.Sheet)
		if !ok {
			b.report.warnf(fmt.Sprintf("dot %d", dot.ID), "junction on missing sheet %d", dot.Sheet)
			continue
		}
		pos := b.xf.ToCanonical(dot.Position)
		ctx.junctions.Put(pos, schematic.Junction{Position: pos, UUID: b.newID("junction")})
	}
}

// labelConnectorPins names wires ending on a per-pin connector with the
// literal endpoint token
func (b *builder) labelConnectorPins(nets []*net) {
	for _, n := range nets {
		for _, ep := range n.endpoints {
			if !b.isConnectorPinToken(ep.token) {
				continue
			}
			n.ctx.labels.Put(ep.pos, b.label(schematic.LabelLocal, ep.token.Raw, ep.pos, ep.delta))
		}
	}
}

func (b *builder) isConnectorPinToken(tok pads.Token) bool {
	switch tok.Kind {
	case pads.TokenOffPage, pads.TokenDot:
		return false
	case pads.TokenPin:
		if b.connectorPins[tok.Reference] {
			return true
		}
	}
	return b.connectorPins[tok.Raw]
}

// LabelSpin points the label text away from the wire it sits on. Ties between
// the horizontal and vertical delta resolve horizontally.
func LabelSpin(dx, dy int64) schematic.LabelSpin {
	switch wireDirection(dx, dy) {
	case dirRight:
		return schematic.SpinLeft
	case dirUp:
		return schematic.SpinBottom
	case dirDown:
		return schematic.SpinUp
	}
	return schematic.SpinRight
}

func (b *builder) label(kind schematic.LabelKind, text string, pos, delta sexp.Point) schematic.Label {
	eff := defaultFieldEffects()
	eff.Justify.Horizontal = sexp.HAlignLeft
	eff.Justify.Vertical = sexp.VAlignBottom
	return schematic.Label{
		Kind:     kind,
		Text:     DecodeText(text),
		Position: pos,
		Spin:     LabelSpin(delta.X, delta.Y),
		Effects:  eff,
		UUID:     b.newID("label"),
	}
}

// placePowerSymbols places a power symbol for every off-page connector that
// resolves to a power style and returns the names of the signals it covered
func (b *builder) placePowerSymbols(nets []*net) map[string]bool {
	skip := make(map[string]bool)
	for i := range b.design.Connectors {
		opc := &b.design.Connectors[i]
		if strings.TrimSpace(opc.Signal) == "" {
			continue
		}
		style, isPower := b.resolver.ResolvePowerStyle(opc)
		if !isPower {
			continue
		}
		skip[opc.Signal] = true

		ref := pads.OffPageToken(opc.ID)
		ctx, ok := b.context(opc.Sheet)
		if !ok {
			b.report.warnf(ref, "power connector on missing sheet %d", opc.Sheet)
			continue
		}
		ls, ok := b.resolver.GetOrCreate(style.Key)
		if !ok {
			b.report.warnf(ref, "cannot build power symbol %s for %q", style.Key, opc.Signal)
			continue
		}

		pos := b.xf.ToCanonical(opc.Position)
		delta, found := connectorDelta(nets, ctx, opc.ID, pos)
		orient, wired := PowerOrientation(style.Kind, delta.X, delta.Y)
		if !found || !wired {
			b.report.reviewf(ref, "power symbol %q has no adjacent wire, placed unrotated", opc.Signal)
		}

		b.powerNo++
		inst := &schematic.SymbolInstance{
			Lib:         ls,
			Position:    pos,
			Orientation: orient,
			Unit:        1,
			UUID:        b.newID("power"),
			Reference:   fmt.Sprintf("#PWR%03d", b.powerNo),
			Power:       true,
		}
		inst.Properties = b.powerInstanceFields(inst, ls, opc.Signal)
		ctx.powers.Put(pos, inst)
	}
	return skip
}

// connectorDelta finds the wire leaving an off-page connector: an endpoint
// token naming it, or failing that an endpoint at its position
func connectorDelta(nets []*net, ctx *sheetContext, id int, pos sexp.Point) (sexp.Point, bool) {
	for _, n := range nets {
		if n.ctx != ctx {
			continue
		}
		for _, ep := range n.endpoints {
			if ep.token.Kind == pads.TokenOffPage && ep.token.ID == id {
				return ep.delta, true
			}
		}
	}
	for _, n := range nets {
		if n.ctx != ctx {
			continue
		}
		for _, ep := range n.endpoints {
			if ep.pos == pos {
				return ep.delta, true
			}
		}
	}
	return sexp.Point{}, false
}

func (b *builder) powerInstanceFields(inst *schematic.SymbolInstance, ls *schematic.LibSymbol, signal string) []sexp.Property {
	ref := sexp.Property{Key: "Reference", Value: inst.Reference, Position: inst.Position, Effects: defaultFieldEffects()}
	ref.Effects.Hide = true
	value := sexp.Property{Key: "Value", Value: DecodeText(signal), Position: inst.Position, Effects: defaultFieldEffects()}
	for _, lp := range ls.Properties {
		if lp.Key == "Value" {
			value.Position = inst.Position.Add(inst.Orientation.Apply(lp.Position))
		}
	}
	return []sexp.Property{ref, value}
}
