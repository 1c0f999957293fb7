package animations

import "github.com/invopop/jsonschema"

// Filter kinds recognized by the playback engine.
const (
	FilterColorMatrix = "ColorMatrix"
	FilterGlow        = "Glow"
	FilterBlur        = "Blur"
	FilterNoise       = "Noise"
	FilterClip        = "Clip"
)

func filterKindField(kind string) field {
	return field{
		key:      "type",
		node:     &enumNode{what: "a filter kind", values: []string{kind}},
		required: true,
		doc:      "Filter kind discriminator.",
	}
}

// buildFilter assembles the visual filter production, discriminated on the
// "type" key. Every kind carries its own closed option object; Clip takes no
// options at all.
func buildFilter() node {
	colorMatrix := &objectNode{
		what:   "a ColorMatrix filter",
		closed: true,
		fields: []field{
			filterKindField(FilterColorMatrix),
			{key: "options", node: &objectNode{
				what:     "ColorMatrix options",
				closed:   true,
				nonEmpty: true,
				fields: []field{
					{key: "hue", node: angleNode, doc: "Hue rotation in degrees."},
					{key: "brightness", node: nonNegativeNumberNode, doc: "Brightness multiplier; 1 leaves the sprite unchanged."},
					{key: "contrast", node: nonNegativeNumberNode, doc: "Contrast multiplier."},
					{key: "saturate", node: nonNegativeNumberNode, doc: "Saturation multiplier."},
				},
			}, required: true},
		},
	}
	glow := &objectNode{
		what:   "a Glow filter",
		closed: true,
		fields: []field{
			filterKindField(FilterGlow),
			{key: "options", node: &objectNode{
				what:     "Glow options",
				closed:   true,
				nonEmpty: true,
				fields: []field{
					{key: "distance", node: positiveNumberNode, doc: "Glow distance in pixels."},
					{key: "outerStrength", node: nonNegativeNumberNode, doc: "Strength of the glow outside the sprite."},
					{key: "innerStrength", node: nonNegativeNumberNode, doc: "Strength of the glow inside the sprite."},
					{key: "color", node: hexColorNode, doc: "Glow colour."},
					{key: "quality", node: alphaNode, doc: "Render quality within (0, 1]."},
					{key: "knockout", node: booleanNode, doc: "Draw only the glow, knocking out the sprite."},
				},
			}, required: true},
		},
	}
	blurOptions := &objectNode{
		what:     "Blur options",
		closed:   true,
		nonEmpty: true,
		fields: []field{
			{key: "strength", node: positiveNumberNode, doc: "Blur strength."},
			{key: "blur", node: positiveNumberNode, doc: "Uniform blur; mutually exclusive with blurX and blurY."},
			{key: "blurX", node: positiveNumberNode, doc: "Horizontal blur."},
			{key: "blurY", node: positiveNumberNode, doc: "Vertical blur."},
			{key: "quality", node: positiveIntegerNode, doc: "Number of blur passes."},
			{key: "resolution", node: positiveNumberNode, doc: "Resolution of the blur filter."},
		},
		refines: []refineRule{
			{
				check: func(obj map[string]any, path Path, st *checkState) {
					if _, uniform := obj["blur"]; !uniform {
						return
					}
					_, hasX := obj["blurX"]
					_, hasY := obj["blurY"]
					if hasX || hasY {
						st.add(IssueRefinement, path, "blur must not be combined with blurX or blurY")
					}
				},
				schemaExtra: &jsonschema.Schema{
					Not: &jsonschema.Schema{
						AnyOf: []*jsonschema.Schema{
							{Required: []string{"blur", "blurX"}},
							{Required: []string{"blur", "blurY"}},
						},
					},
				},
			},
		},
	}
	blur := &objectNode{
		what:   "a Blur filter",
		closed: true,
		fields: []field{
			filterKindField(FilterBlur),
			{key: "options", node: blurOptions, required: true},
		},
	}
	noise := &objectNode{
		what:   "a Noise filter",
		closed: true,
		fields: []field{
			filterKindField(FilterNoise),
			{key: "options", node: &objectNode{
				what:     "Noise options",
				closed:   true,
				nonEmpty: true,
				fields: []field{
					{key: "noise", node: alphaNode, doc: "Noise intensity within (0, 1]."},
					{key: "seed", node: nonNegativeNumberNode, doc: "Seed for the noise generator."},
				},
			}, required: true},
		},
	}
	clip := &objectNode{
		what:   "a Clip filter",
		closed: true,
		fields: []field{
			filterKindField(FilterClip),
		},
	}

	return &typedUnionNode{
		what:  "a filter",
		order: []string{FilterColorMatrix, FilterGlow, FilterBlur, FilterNoise, FilterClip},
		kinds: map[string]node{
			FilterColorMatrix: colorMatrix,
			FilterGlow:        glow,
			FilterBlur:        blur,
			FilterNoise:       noise,
			FilterClip:        clip,
		},
		doc: "Visual filter applied to the effect sprite.",
	}
}
