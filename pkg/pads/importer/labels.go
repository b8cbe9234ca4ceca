package importer

import (
	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

// labelNets names every user-named signal not already covered by a power
// symbol. Off-page connector endpoints get global labels. A signal record
// with no connector endpoint gets one local label on its first dangling
// endpoint. A signal with nothing dangling stays unlabeled.
func (b *builder) labelNets(nets []*net, skip map[string]bool) {
	for _, n := range nets {
		name := n.signal.Name
		if pads.IsAutoNetName(name) || skip[name] || len(n.endpoints) == 0 {
			continue
		}

		connected := false
		for _, ep := range n.endpoints {
			if ep.token.Kind != pads.TokenOffPage {
				continue
			}
			if opc, ok := b.design.Connector(ep.token.ID); ok {
				if _, isPower := b.resolver.ResolvePowerStyle(opc); isPower {
					continue
				}
			}
			n.ctx.labels.Put(ep.pos, b.label(schematic.LabelGlobal, name, ep.pos, ep.delta))
			connected = true
		}
		if connected {
			continue
		}

		if ep, ok := b.firstDangling(n); ok {
			n.ctx.labels.Put(ep.pos, b.label(schematic.LabelLocal, name, ep.pos, ep.delta))
		}
	}
}

// firstDangling returns the first endpoint that is not a pin, a dot, a
// labelled connector pin or a point shared with another vertex of the signal
func (b *builder) firstDangling(n *net) (endpoint, bool) {
	for _, ep := range n.endpoints {
		if ep.token.Kind != pads.TokenUnnamed || b.isConnectorPinToken(ep.token) {
			continue
		}
		if n.touches[ep.pos] == 1 {
			return ep, true
		}
	}
	return endpoint{}, false
}
