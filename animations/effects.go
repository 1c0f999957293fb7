package animations

import "github.com/invopop/jsonschema"

// easingNames mirrors the animation curves the playback engine ships.
var easingNames = []string{
	"linear",
	"easeInSine", "easeOutSine", "easeInOutSine",
	"easeInQuad", "easeOutQuad", "easeInOutQuad",
	"easeInCubic", "easeOutCubic", "easeInOutCubic",
	"easeInQuart", "easeOutQuart", "easeInOutQuart",
	"easeInQuint", "easeOutQuint", "easeInOutQuint",
	"easeInExpo", "easeOutExpo", "easeInOutExpo",
	"easeInCirc", "easeOutCirc", "easeInOutCirc",
	"easeInBack", "easeOutBack", "easeInOutBack",
	"easeInElastic", "easeOutElastic", "easeInOutElastic",
	"easeInBounce", "easeOutBounce", "easeInOutBounce",
}

// buildEffectOptions assembles the options attached to one effect instance.
// Every field is optional but the object itself must never be empty, which
// catches entries that exist without accomplishing anything. Scalar-or-object
// unions (fadeIn, scale, repeats and friends) stay distinct forms here; the
// typed model normalizes them after validation.
func buildEffectOptions(sound, presets, offset, filter, shape node) node {
	easing := &enumNode{what: "an easing curve", values: easingNames}

	fade := func(doc string) node {
		return &unionNode{
			what: "a duration or easing object",
			variants: []node{
				durationNode,
				&objectNode{
					what:   "an easing object",
					closed: true,
					fields: []field{
						{key: "value", node: durationNode, required: true, doc: "Duration in milliseconds."},
						{key: "ease", node: easing, doc: "Easing curve."},
						{key: "delay", node: durationNode, doc: "Delay before the fade starts."},
					},
				},
			},
			doc: doc,
		}
	}

	maxGreaterThanMin := refineRule{
		check: func(obj map[string]any, path Path, st *checkState) {
			min, okMin := asNumber(obj["min"])
			max, okMax := asNumber(obj["max"])
			if okMin && okMax && max <= min {
				st.add(IssueRefinement, path, "max must be greater than min")
			}
		},
	}
	span := func(value node, doc string) node {
		return &objectNode{
			what:   "a {min, max} range",
			closed: true,
			fields: []field{
				{key: "min", node: value, required: true, doc: "Lower bound, inclusive."},
				{key: "max", node: value, required: true, doc: "Upper bound; must be greater than min."},
			},
			refines: []refineRule{maxGreaterThanMin},
			doc:     doc,
		}
	}

	scale := &unionNode{
		what: "a scale factor or range",
		variants: []node{
			positiveNumberNode,
			span(positiveNumberNode, "Random scale range sampled per play."),
		},
		doc: "Uniform scale applied to the sprite.",
	}
	scaleToObject := &unionNode{
		what: "a scale factor or scale object",
		variants: []node{
			positiveNumberNode,
			&objectNode{
				what:   "a scale object",
				closed: true,
				fields: []field{
					{key: "value", node: positiveNumberNode, required: true, doc: "Scale factor relative to the target's size."},
					{key: "uniform", node: booleanNode, doc: "Scale both axes by the same factor."},
					{key: "considerTokenScale", node: booleanNode, doc: "Multiply by the token's own scale."},
				},
			},
		},
		doc: "Scale the effect relative to the object it plays on.",
	}

	pause := &unionNode{
		what: "a number or {min, max} range",
		variants: []node{
			anyNumberNode,
			span(anyNumberNode, "Random pause range sampled per play."),
		},
	}

	repeats := &unionNode{
		what: "a repeat count or repeat object",
		variants: []node{
			positiveIntegerNode,
			&objectNode{
				what:   "a repeat object",
				closed: true,
				fields: []field{
					{key: "count", node: positiveIntegerNode, required: true, doc: "Number of times the effect plays."},
					{key: "delayMin", node: durationNode, doc: "Minimum delay between repeats."},
					{key: "delayMax", node: durationNode, doc: "Maximum delay between repeats; requires delayMin."},
				},
				refines: []refineRule{{
					check: func(obj map[string]any, path Path, st *checkState) {
						rawMax, hasMax := obj["delayMax"]
						if !hasMax {
							return
						}
						rawMin, hasMin := obj["delayMin"]
						if !hasMin {
							st.add(IssueRefinement, path, "delayMax requires delayMin")
							return
						}
						min, okMin := asNumber(rawMin)
						max, okMax := asNumber(rawMax)
						if okMin && okMax && max <= min {
							st.add(IssueRefinement, path, "delayMax must be greater than delayMin")
						}
					},
					schemaExtra: &jsonschema.Schema{
						Extras: map[string]interface{}{
							"dependentRequired": map[string][]string{"delayMax": {"delayMin"}},
						},
					},
				}},
			},
		},
		doc: "How many times the effect plays.",
	}

	opacity := &numberNode{
		what:         "an opacity",
		min:          num(0),
		exclusiveMin: true,
		max:          num(1),
		exclusiveMax: true,
		doc:          "Opacity strictly inside (0, 1).",
	}

	propertyAnimation := &objectNode{
		what:   "a property animation",
		closed: true,
		fields: []field{
			{key: "target", node: freeStringNode, required: true, doc: "Sprite or filter the animation drives."},
			{key: "property", node: freeStringNode, required: true, doc: "Dotted property path on the target, e.g. position.x."},
			{key: "options", node: &objectNode{
				what:   "property animation options",
				closed: true,
				fields: []field{
					{key: "duration", node: durationNode, required: true, doc: "Animation duration in milliseconds."},
					{key: "from", node: anyNumberNode, doc: "Starting value; defaults to the current value."},
					{key: "to", node: anyNumberNode, doc: "Ending value."},
					{key: "delay", node: durationNode, doc: "Delay before the animation starts."},
					{key: "ease", node: easing, doc: "Easing curve."},
					{key: "gridUnits", node: booleanNode, doc: "Interpret from/to in grid units."},
					{key: "loops", node: positiveIntegerNode, doc: "Number of loops; only meaningful for loopProperty."},
				},
			}, required: true},
		},
	}
	propertyAnimations := &arrayNode{
		what:     "an array of property animations",
		item:     propertyAnimation,
		nonEmpty: true,
		unique:   true,
	}

	shapes := &unionNode{
		what: "a shape or array of shapes",
		variants: []node{
			shape,
			&arrayNode{
				what:     "an array of shapes",
				item:     shape,
				nonEmpty: true,
				unique:   true,
			},
		},
	}

	return &objectNode{
		what:     "an effect options object",
		closed:   true,
		nonEmpty: true,
		fields: []field{
			{key: "sound", node: sound},
			{key: "preset", node: presets},
			{key: "id", node: slugNode, doc: "Identifier other entries and sync groups can refer to."},
			{key: "name", node: freeStringNode, doc: "Human-readable label shown by the playback engine."},
			{key: "syncGroup", node: slugNode, doc: "Effects sharing a sync group start on the same tick."},
			{key: "rotate", node: angleNode, doc: "Static rotation applied to the sprite."},
			{key: "randomRotation", node: booleanNode, doc: "Rotate the sprite by a random amount per play."},
			{key: "scale", node: scale},
			{key: "scaleToObject", node: scaleToObject},
			{key: "spriteOffset", node: offset, doc: "Offset of the sprite from its anchor."},
			{key: "mirrorX", node: booleanNode, doc: "Mirror the sprite horizontally."},
			{key: "mirrorY", node: booleanNode, doc: "Mirror the sprite vertically."},
			{key: "fadeIn", node: fade("Fade the effect in.")},
			{key: "fadeOut", node: fade("Fade the effect out.")},
			{key: "wait", node: pause, doc: "Milliseconds before the next effect in the sequence starts."},
			{key: "delay", node: pause, doc: "Milliseconds before this effect starts."},
			{key: "repeats", node: repeats},
			{key: "opacity", node: opacity},
			{key: "tint", node: hexColorNode, doc: "Tint applied to the sprite."},
			{key: "filter", node: filter},
			{key: "animateProperty", node: propertyAnimations, doc: "One-shot property animations."},
			{key: "loopProperty", node: propertyAnimations, doc: "Looping property animations."},
			{key: "shape", node: shapes},
		},
		doc: "Options attached to one visual or audio effect instance.",
	}
}
