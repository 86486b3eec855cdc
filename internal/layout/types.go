package layout

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Payload is a chip data document as it arrives from the host, already
// decoded from JSON. It is handed around untouched until a loader decodes it.
type Payload map[string]any

// Kind is the geometry type of a shape.
type Kind int

const (
	Wire Kind = iota
	Rect
	Via
)

func (k Kind) String() string {
	switch k {
	case Rect:
		return "Rect"
	case Via:
		return "Via"
	default:
		return "Wire"
	}
}

// ParseKind maps the payload "type" field to a Kind. Anything that is not a
// via or a rectangle is drawn as a wire.
func ParseKind(s string) Kind {
	switch s {
	case "Via":
		return Via
	case "Rect":
		return Rect
	default:
		return Wire
	}
}

// Color channels are in 0..1.
type Color struct {
	R float64 `mapstructure:"r"`
	G float64 `mapstructure:"g"`
	B float64 `mapstructure:"b"`
}

// DefaultColor is used for shapes that arrive without one.
var DefaultColor = Color{R: 0.7, G: 0.7, B: 0.7}

// Hex returns the color as #RRGGBB, clamping each channel.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int(v*255 + 0.5)
}

// Shape is one drawable element. For a via only From.X, From.Y and the two
// Z values are meaningful; To is kept on the same x/y column.
type Shape struct {
	Kind  Kind
	From  math32.Vector3
	To    math32.Vector3
	Name  string
	Class string
	Color Color
}

// Document is a decoded payload.
type Document struct {
	Shapes []Shape
}

// Bounds returns the box enclosing every shape endpoint. It is empty when
// there are no shapes.
func Bounds(shapes []Shape) math32.Box3 {
	bb := math32.B3Empty()
	for _, s := range shapes {
		bb.ExpandByPoint(s.From)
		bb.ExpandByPoint(s.To)
	}
	return bb
}
