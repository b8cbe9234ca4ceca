package schematic

import (
	"fmt"
	"math"
)

// Orientation is one of the eight placements reachable from a symbol's
// default drawing by quarter-turn rotation and mirroring. Each mirrored state
// is "rotate first, then mirror about the Y axis".
type Orientation uint8

const (
	Orient0 Orientation = iota
	Orient90
	Orient180
	Orient270
	OrientMirrorY0
	OrientMirrorY90
	OrientMirrorY180
	OrientMirrorY270
)

// Convenient aliases for the pure mirror states
const (
	OrientMirrorH = OrientMirrorY0   // x -> -x
	OrientMirrorV = OrientMirrorY180 // y -> -y
)

// matrix is the 2x2 integer transform x' = A*x + B*y, y' = C*x + D*y in Y-down space
type matrix struct{ A, B, C, D int64 }

// Rotations are counter-clockwise as seen on the page.
var orientMatrix = [8]matrix{
	Orient0:          {1, 0, 0, 1},
	Orient90:         {0, 1, -1, 0},
	Orient180:        {-1, 0, 0, -1},
	Orient270:        {0, -1, 1, 0},
	OrientMirrorY0:   {-1, 0, 0, 1},
	OrientMirrorY90:  {0, -1, -1, 0},
	OrientMirrorY180: {1, 0, 0, -1},
	OrientMirrorY270: {0, 1, 1, 0},
}

// composeTable[a][b] is the orientation of applying b first, then a
var composeTable [8][8]Orientation

func init() {
	for a := range orientMatrix {
		for b := range orientMatrix {
			m := mul(orientMatrix[a], orientMatrix[b])
			composeTable[a][b] = fromMatrix(m)
		}
	}
}

func mul(x, y matrix) matrix {
	return matrix{
		A: x.A*y.A + x.B*y.C,
		B: x.A*y.B + x.B*y.D,
		C: x.C*y.A + x.D*y.C,
		D: x.C*y.B + x.D*y.D,
	}
}

func fromMatrix(m matrix) Orientation {
	for o, om := range orientMatrix {
		if om == m {
			return Orientation(o)
		}
	}
	panic(fmt.Sprintf("schematic: matrix %+v is not an orientation", m))
}

// Compose returns the orientation of applying b first, then a
func Compose(a, b Orientation) Orientation {
	return composeTable[a&7][b&7]
}

// Rotation returns the unmirrored orientation for a rotation in degrees.
// Angles that are not a multiple of 90 snap to the nearest quarter turn.
func Rotation(degrees float64) Orientation {
	q := int(math.Round(degrees/90)) % 4
	if q < 0 {
		q += 4
	}
	return Orientation(q)
}

// Apply transforms a symbol-local point
func (o Orientation) Apply(p Point) Point {
	m := orientMatrix[o&7]
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.C*p.X + m.D*p.Y,
	}
}

// Quarter returns the rotation part in quarter turns (0..3)
func (o Orientation) Quarter() int {
	return int(o&7) % 4
}

// Mirrored reports whether the orientation mirrors about the Y axis after rotating
func (o Orientation) Mirrored() bool {
	return o&7 >= OrientMirrorY0
}

// Angle returns the rotation part in degrees
func (o Orientation) Angle() Angle {
	return Angle(90 * o.Quarter())
}

func (o Orientation) String() string {
	if o.Mirrored() {
		return fmt.Sprintf("mirror-y+%d", 90*o.Quarter())
	}
	return fmt.Sprintf("rot%d", 90*o.Quarter())
}
