package importer

import (
	"regexp"
	"strings"

	"github.com/OpenTraceLab/legacysch/pkg/kicad/schematic"
	"github.com/OpenTraceLab/legacysch/pkg/pads"
)

// PowerKind is the drawing style of a power symbol
type PowerKind uint8

const (
	PowerNone   PowerKind = iota
	PowerGround           // pin-down: the body hangs below the connection point
	PowerSupply           // pin-up: the body rises above the connection point
)

func (k PowerKind) String() string {
	switch k {
	case PowerGround:
		return "ground"
	case PowerSupply:
		return "supply"
	}
	return "none"
}

func parsePowerKind(s string) (PowerKind, bool) {
	switch s {
	case "ground":
		return PowerGround, true
	case "supply":
		return PowerSupply, true
	}
	return PowerNone, false
}

// PowerStyle is the outcome of power style resolution for one off-page connector
type PowerStyle struct {
	Kind     PowerKind
	Key      SymbolKey // Symbol to place
	Explicit bool      // Decided by the part-type variant table
}

// ResolvePowerStyle decides whether an off-page connector is a power rail and
// which symbol draws it. An explicit variant always wins: G and P variants are
// power, O is an explicit off-page connector and is never turned into power by
// name. Without a matching variant, the part-type power flag or the net-name
// heuristic selects a built-in glyph.
func (r *Resolver) ResolvePowerStyle(opc *pads.OffPageConnector) (PowerStyle, bool) {
	pt, hasType := r.design.PartType(opc.PartType)
	if hasType {
		if v, ok := pt.Variant(opc.Variant); ok {
			var kind PowerKind
			switch strings.ToUpper(v.PinType) {
			case pads.VariantGround:
				kind = PowerGround
			case pads.VariantPower:
				kind = PowerSupply
			default:
				return PowerStyle{Explicit: true}, false
			}
			return PowerStyle{
				Kind:     kind,
				Key:      SymbolKey{Definition: v.Decal, Style: StylePower(kind)},
				Explicit: true,
			}, true
		}
	}

	kind := r.classifyNet(opc.Signal)
	if kind == PowerNone {
		if !hasType || !pt.Power {
			return PowerStyle{}, false
		}
		kind = PowerSupply
	}
	return PowerStyle{Kind: kind, Key: builtinKey(kind)}, true
}

func builtinKey(kind PowerKind) SymbolKey {
	name := glyphSupply
	if kind == PowerGround {
		name = glyphGround
	}
	return SymbolKey{Definition: name, Style: StyleBuiltin(kind)}
}

// supplyVoltage matches rail names like +5V, -12V, +3V3 and +3.3V
var supplyVoltage = regexp.MustCompile(`^[+-]\d+(\.\d+)?V\d*$`)

func (r *Resolver) classifyNet(name string) PowerKind {
	name = strings.TrimSpace(name)
	if name == "" {
		return PowerNone
	}
	for _, g := range r.opts.GroundNames {
		if strings.EqualFold(g, name) {
			return PowerGround
		}
	}
	for _, s := range r.opts.SupplyNames {
		if strings.EqualFold(s, name) {
			return PowerSupply
		}
	}
	if supplyVoltage.MatchString(strings.ToUpper(name)) {
		return PowerSupply
	}
	return PowerNone
}

// Wire directions from a connection point toward its adjacent vertex
type direction uint8

const (
	dirNone direction = iota
	dirUp
	dirDown
	dirLeft
	dirRight
)

// wireDirection compares the canonical deltas from p to next. Ties between
// the horizontal and vertical delta resolve horizontally.
func wireDirection(dx, dy int64) direction {
	if dx == 0 && dy == 0 {
		return dirNone
	}
	if abs64(dx) >= abs64(dy) {
		if dx > 0 {
			return dirRight
		}
		return dirLeft
	}
	// canonical Y grows downward
	if dy < 0 {
		return dirUp
	}
	return dirDown
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// powerOrientation turns the symbol so its body faces away from the wire
var powerOrientation = map[PowerKind]map[direction]schematic.Orientation{
	PowerGround: {
		dirUp:    schematic.Orient0,
		dirDown:  schematic.Orient180,
		dirLeft:  schematic.Orient90,
		dirRight: schematic.Orient270,
	},
	PowerSupply: {
		dirDown:  schematic.Orient0,
		dirUp:    schematic.Orient180,
		dirRight: schematic.Orient90,
		dirLeft:  schematic.Orient270,
	},
}

// PowerOrientation looks up the rotation for a power symbol whose wire leaves
// in direction d. The second result is false when there is no wire.
func PowerOrientation(kind PowerKind, dx, dy int64) (schematic.Orientation, bool) {
	o, ok := powerOrientation[kind][wireDirection(dx, dy)]
	if !ok {
		return schematic.Orient0, false
	}
	return o, true
}
