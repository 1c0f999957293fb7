package animations

// buildOffset assembles the offset production. At least one axis must be set,
// and each axis is either a fixed non-zero distance or a [from, to] range the
// playback engine samples at runtime.
func buildOffset() node {
	offsetRange := &tupleNode{
		what:        "a numeric range",
		items:       []node{anyNumberNode, anyNumberNode},
		requiredLen: 2,
		refine: func(arr []any, path Path, st *checkState) {
			if len(arr) != 2 {
				return
			}
			from, okFrom := asNumber(arr[0])
			to, okTo := asNumber(arr[1])
			if okFrom && okTo && from == to {
				st.add(IssueRefinement, path, "range bounds must be distinct")
			}
		},
	}
	axis := &unionNode{
		what: "a non-zero number or a numeric range",
		variants: []node{
			nonZeroNumberNode,
			offsetRange,
		},
	}
	return &objectNode{
		what:       "an offset object",
		closed:     true,
		nonEmpty:   true,
		atLeastOne: []string{"x", "y"},
		fields: []field{
			{key: "x", node: axis, doc: "Horizontal offset in pixels, or a [from, to] random range."},
			{key: "y", node: axis, doc: "Vertical offset in pixels, or a [from, to] random range."},
			{key: "flipX", node: booleanNode, doc: "Mirror the offset horizontally."},
			{key: "flipY", node: booleanNode, doc: "Mirror the offset vertically."},
		},
		doc: "Positional offset applied to the effect.",
	}
}

// buildPresetOptions assembles the placement configuration. Each strategy
// sub-object must be non-empty when present; an empty strategy would select a
// placement mode while configuring nothing.
func buildPresetOptions(offset, sound node) node {
	attachTo := &objectNode{
		what:     "attachment options",
		closed:   true,
		nonEmpty: true,
		fields: []field{
			{key: "align", node: &enumNode{
				what:   "an alignment",
				values: []string{"center", "top", "bottom", "left", "right", "top-left", "top-right", "bottom-left", "bottom-right"},
			}, doc: "Where on the token the effect snaps."},
			{key: "edge", node: &enumNode{
				what:   "an edge mode",
				values: []string{"inner", "on", "outer"},
			}, doc: "How the effect sits relative to the token edge."},
			{key: "bindVisibility", node: booleanNode, doc: "Hide the effect whenever the token is hidden."},
			{key: "bindAlpha", node: booleanNode, doc: "Match the token's alpha."},
			{key: "followRotation", node: booleanNode, doc: "Rotate with the token."},
			{key: "randomOffset", node: positiveNumberNode, doc: "Scatter the attachment point by up to this many grid units."},
			{key: "offset", node: offset},
		},
	}
	atLocation := &objectNode{
		what:     "location options",
		closed:   true,
		nonEmpty: true,
		fields: []field{
			{key: "cacheLocation", node: booleanNode, doc: "Pin the effect to the location captured at trigger time."},
			{key: "offset", node: offset},
			{key: "randomOffset", node: positiveNumberNode, doc: "Scatter the location by up to this many grid units."},
			{key: "gridUnits", node: booleanNode, doc: "Interpret the offset in grid units instead of pixels."},
		},
	}
	rotateTowards := &objectNode{
		what:     "rotation options",
		closed:   true,
		nonEmpty: true,
		fields: []field{
			{key: "rotationOffset", node: angleNode, doc: "Extra rotation applied after facing the target."},
			{key: "cacheLocation", node: booleanNode, doc: "Face the location captured at trigger time."},
			{key: "attachTo", node: booleanNode, doc: "Keep facing the target as it moves."},
			{key: "offset", node: offset},
		},
	}
	stretchTo := &objectNode{
		what:     "stretch options",
		closed:   true,
		nonEmpty: true,
		fields: []field{
			{key: "attachTo", node: booleanNode, doc: "Keep both endpoints attached as tokens move."},
			{key: "onlyX", node: booleanNode, doc: "Stretch along the x axis only."},
			{key: "tiling", node: booleanNode, doc: "Tile the effect texture instead of stretching it."},
			{key: "offset", node: offset},
		},
	}
	bounce := &objectNode{
		what:     "bounce options",
		closed:   true,
		nonEmpty: true,
		fields: []field{
			{key: "file", node: fileNode, required: true, doc: "Effect file played on each bounce."},
			{key: "sound", node: sound, doc: "Sound played on each bounce."},
		},
	}
	return &objectNode{
		what:     "a preset options object",
		closed:   true,
		nonEmpty: true,
		fields: []field{
			{key: "attachTo", node: attachTo, doc: "Attach the effect to the triggering token."},
			{key: "atLocation", node: atLocation, doc: "Play the effect at a fixed location."},
			{key: "rotateTowards", node: rotateTowards, doc: "Rotate the effect to face its target."},
			{key: "stretchTo", node: stretchTo, doc: "Stretch the effect between source and target."},
			{key: "bounce", node: bounce, doc: "Ricochet configuration for missed ranged attacks."},
			{key: "locally", node: booleanNode, doc: "Play only for the triggering player."},
			{key: "persistent", node: booleanNode, doc: "Keep the effect until it is removed explicitly."},
		},
		doc: "Placement strategy configuration for the entry's preset.",
	}
}
