package animations

// Shape kinds recognized by the playback engine.
const (
	ShapeCircle      = "circle"
	ShapeEllipse     = "ellipse"
	ShapeSquare      = "square"
	ShapeRectangle   = "rectangle"
	ShapeRoundedRect = "roundedRect"
	ShapePolygon     = "polygon"
)

// buildShape assembles the template shape production, discriminated on the
// "type" key. Each kind requires its own dimensions and shares the decoration
// fields.
func buildShape(offset node) node {
	point := &tupleNode{
		what:        "an [x, y] point",
		items:       []node{anyNumberNode, anyNumberNode},
		requiredLen: 2,
	}
	decorate := func(kind string, dims ...field) *objectNode {
		fields := []field{
			{key: "type", node: &enumNode{what: "a shape kind", values: []string{kind}}, required: true, doc: "Shape kind discriminator."},
		}
		fields = append(fields, dims...)
		fields = append(fields,
			field{key: "name", node: slugNode, doc: "Identifier other effects can refer to."},
			field{key: "fillColor", node: hexColorNode, doc: "Fill colour."},
			field{key: "fillAlpha", node: alphaNode, doc: "Fill opacity within (0, 1]."},
			field{key: "lineSize", node: nonNegativeNumberNode, doc: "Outline width in pixels."},
			field{key: "lineColor", node: hexColorNode, doc: "Outline colour."},
			field{key: "offset", node: offset, doc: "Offset from the template origin."},
			field{key: "gridUnits", node: booleanNode, doc: "Interpret dimensions in grid units instead of pixels."},
			field{key: "isMask", node: booleanNode, doc: "Use the shape as a mask for the effect."},
		)
		return &objectNode{
			what:   "a " + kind + " shape",
			closed: true,
			fields: fields,
		}
	}

	width := field{key: "width", node: positiveNumberNode, required: true, doc: "Width of the shape."}
	height := field{key: "height", node: positiveNumberNode, required: true, doc: "Height of the shape."}

	circle := decorate(ShapeCircle,
		field{key: "radius", node: positiveNumberNode, required: true, doc: "Circle radius."})
	ellipse := decorate(ShapeEllipse, width, height)
	square := decorate(ShapeSquare, width)
	rectangle := decorate(ShapeRectangle, width, height)
	roundedRect := decorate(ShapeRoundedRect, width, height,
		field{key: "radius", node: nonNegativeNumberNode, doc: "Corner radius."})
	polygon := decorate(ShapePolygon,
		field{key: "points", node: &arrayNode{
			what:     "an array of points",
			item:     point,
			nonEmpty: true,
			doc:      "Polygon vertices as [x, y] pairs.",
		}, required: true})

	return &typedUnionNode{
		what:  "a shape",
		order: []string{ShapeCircle, ShapeEllipse, ShapeSquare, ShapeRectangle, ShapeRoundedRect, ShapePolygon},
		kinds: map[string]node{
			ShapeCircle:      circle,
			ShapeEllipse:     ellipse,
			ShapeSquare:      square,
			ShapeRectangle:   rectangle,
			ShapeRoundedRect: roundedRect,
			ShapePolygon:     polygon,
		},
		doc: "Template-drawn region rendered with the effect.",
	}
}
