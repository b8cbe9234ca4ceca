// Package pads describes the records of the legacy schematic format as they
// come out of the upstream reader. Coordinates are foreign units (mils by
// default) with Y growing upward. Nothing in this package converts them; that
// is the importer's transform.
package pads

import "strings"

// Coord is a point in foreign units
type Coord struct {
	X float64
	Y float64
}

// Add returns c translated by d
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// Design is everything the upstream reader produced for one file.
type Design struct {
	Parameters   Parameters
	SheetHeaders []SheetHeader
	PartTypes    []PartType
	Decals       []Decal
	Parts        []Part
	Signals      []Signal
	Connectors   []OffPageConnector
	TiedDots     []TiedDot
	Texts        []FreeText
	Groups       []GraphicsGroup
}

// Parameters are the global design settings
type Parameters struct {
	SheetSize     string  // Named size (A..E, A4..A0) or empty when Width/Height are set
	SheetWidth    float64 // Foreign units, used when SheetSize is unknown
	SheetHeight   float64
	DesignName    string
	BorderName    string // Name of the graphics group used as the page border
	GateSeparator string // Character between reference and gate letter, e.g. "-"
	Company       string
	Date          string
}

// SheetHeader names a sheet
type SheetHeader struct {
	Number int
	Name   string
}

// PrimitiveKind is the closed set of decal drawing primitives
type PrimitiveKind uint8

const (
	PrimOpen      PrimitiveKind = iota // open polyline
	PrimClosed                         // closed polygon
	PrimCircle                         // Center + Radius
	PrimArc                            // Points[0..2] = start, mid, end
	PrimRectangle                      // Points[0..1] = opposite corners
	PrimText
)

// Primitive is one drawing element of a decal or graphics group
type Primitive struct {
	Kind     PrimitiveKind
	Points   []Coord
	Center   Coord
	Radius   float64
	Width    float64 // Line width
	Filled   bool
	Text     string
	Rotation float64 // Degrees, text only
	Justify  int     // Justification code, text only
	Height   float64 // Text height
}

// Terminal is a pin location on a decal
type Terminal struct {
	Position Coord
	Rotation float64 // Degrees; 0 means the pin body extends toward +X
	Length   float64
	Number   string // Terminal number as drawn, may be empty
	Name     string
}

// Decal is a named graphical template for one gate
type Decal struct {
	Name       string
	Primitives []Primitive
	Terminals  []Terminal
}

// PinType codes as written in gate pin tables
const (
	PinTypeSource      = "S"
	PinTypeBidirect    = "B"
	PinTypeOpenCollect = "C"
	PinTypeTristate    = "T"
	PinTypeLoad        = "L"
	PinTypeTerminator  = "Z"
	PinTypePower       = "P"
	PinTypeGround      = "G"
	PinTypeUnconnected = "U"
)

// GatePin maps a part pin to a decal terminal; pins are in terminal order
type GatePin struct {
	Number string
	Name   string
	Type   string
}

// Gate is one logical unit of a part-type
type Gate struct {
	Decals []string // Alternate decals, the first is the default
	Pins   []GatePin
}

// SignalPin is a hidden pin tied to a named net (e.g. VCC on a logic gate)
type SignalPin struct {
	Number string
	Signal string
}

// Variant pin types for power and connector part-types
const (
	VariantGround  = "G"
	VariantPower   = "P"
	VariantOffPage = "O"
)

// Variant is one entry of a power/connector part-type's variant table
type Variant struct {
	Index   int
	Decal   string
	PinType string
}

// Category tags for part-types
const (
	CategoryResistor  = "RES"
	CategoryCapacitor = "CAP"
	CategoryInductor  = "IND"
	CategoryConnector = "CON"
	CategoryIC        = "IC"
	CategoryPower     = "PWR"
)

// PartType describes one component family
type PartType struct {
	Name       string
	Category   string
	Gates      []Gate
	SignalPins []SignalPin
	Variants   []Variant
	Power      bool // Power-class flag
}

// Variant returns the variant with the given index
func (pt *PartType) Variant(index int) (Variant, bool) {
	for _, v := range pt.Variants {
		if v.Index == index {
			return v, true
		}
	}
	return Variant{}, false
}

// Attribute is a per-placement attribute override
type Attribute struct {
	Name     string
	Value    string
	Visible  bool
	Position Coord // Offset from the part origin
	Rotation float64
	Justify  int
	Height   float64
}

// Mirror flag bits of a placement
const (
	MirrorVertical   = 1 << 0
	MirrorHorizontal = 1 << 1
)

// Part is one placed gate of a component
type Part struct {
	Reference  string
	PartType   string
	Decal      string // Decal used for this placement, empty means the gate default
	Position   Coord
	Rotation   float64 // 0, 90, 180 or 270
	Mirror     int     // MirrorVertical | MirrorHorizontal
	Gate       int     // 0-based gate index
	Attributes []Attribute
	Sheet      int
}

// Attribute returns the named attribute override
func (p *Part) Attribute(name string) (Attribute, bool) {
	for _, a := range p.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attribute{}, false
}

// Wire is one polyline of a signal with its two endpoint tokens
type Wire struct {
	From     string
	To       string
	Vertices []Coord
	Bus      bool
}

// Signal groups the wires of one net on one sheet
type Signal struct {
	Name  string
	Sheet int
	Wires []Wire
}

// OffPageConnector marks a net continuing elsewhere or a power rail
type OffPageConnector struct {
	ID       int
	Signal   string
	PartType string // Part-type holding the variant table, e.g. "$GND_SYMS"
	Position Coord
	Rotation float64
	Sheet    int
	Variant  int
}

// TiedDot is an explicit junction marker
type TiedDot struct {
	ID       int
	Position Coord
	Sheet    int
}

// FreeText is sheet-level text
type FreeText struct {
	Position Coord
	Rotation float64
	Justify  int
	Height   float64
	Text     string
	Sheet    int
}

// GraphicsGroup is a named group of primitives placed at an origin
type GraphicsGroup struct {
	Name       string
	Origin     Coord
	Sheet      int
	Primitives []Primitive
}
