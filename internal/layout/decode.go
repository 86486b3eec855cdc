package layout

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/go-viper/mapstructure/v2"
)

const DefaultClass = "Net_Class_Default"

var ErrInvalidShapes = errors.New("layout: shapes must be an array of objects")

type rawShape struct {
	Type       string  `mapstructure:"type"`
	X1         float64 `mapstructure:"x1"`
	Y1         float64 `mapstructure:"y1"`
	Z1         float64 `mapstructure:"z1"`
	X2         float64 `mapstructure:"x2"`
	Y2         float64 `mapstructure:"y2"`
	Z2         float64 `mapstructure:"z2"`
	Name       string  `mapstructure:"name"`
	Comment    string  `mapstructure:"comment"`
	ShapeClass string  `mapstructure:"shapeClass"`
	Color      *Color  `mapstructure:"color"`
}

// Decode turns a payload into shapes. A payload without "shapes" is an empty
// document. Numbers may arrive as ints, floats or numeric strings.
func Decode(p Payload) (Document, error) {
	raw, ok := p["shapes"]
	if !ok || raw == nil {
		return Document{}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return Document{}, fmt.Errorf("%w: got %T", ErrInvalidShapes, raw)
	}
	doc := Document{Shapes: make([]Shape, 0, len(items))}
	for i, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return Document{}, fmt.Errorf("%w: element %d is %T", ErrInvalidShapes, i, item)
		}
		var rs rawShape
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &rs,
		})
		if err != nil {
			return Document{}, err
		}
		if err := dec.Decode(item); err != nil {
			return Document{}, fmt.Errorf("layout: shape %d: %w", i, err)
		}
		doc.Shapes = append(doc.Shapes, rs.shape(i))
	}
	return doc, nil
}

func (rs rawShape) shape(index int) Shape {
	s := Shape{
		Kind:  ParseKind(rs.Type),
		From:  math32.Vec3(float32(rs.X1), float32(rs.Y1), float32(rs.Z1)),
		To:    math32.Vec3(float32(rs.X2), float32(rs.Y2), float32(rs.Z2)),
		Name:  rs.Name,
		Class: rs.ShapeClass,
		Color: DefaultColor,
	}
	if s.Kind == Via {
		// vias are vertical: only the z range comes from the second point
		s.To.X, s.To.Y = s.From.X, s.From.Y
	}
	if s.Name == "" {
		s.Name = rs.Comment
	}
	if s.Name == "" {
		s.Name = fmt.Sprintf("Net_%d", index)
	}
	if s.Class == "" {
		s.Class = DefaultClass
	}
	if rs.Color != nil {
		s.Color = *rs.Color
	}
	return s
}
