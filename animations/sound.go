package animations

// buildSound assembles the sound production: a bare file reference, a sound
// object with playback controls, or a non-empty unique array of either.
func buildSound(predicateList node) node {
	soundObject := &objectNode{
		what:     "a sound object",
		closed:   true,
		nonEmpty: true,
		fields: []field{
			{key: "file", node: fileNode, required: true, doc: "Audio asset to play."},
			{key: "volume", node: alphaNode, doc: "Playback volume within (0, 1]."},
			{key: "duration", node: durationNode, doc: "Cut playback after this many milliseconds."},
			{key: "fadeIn", node: durationNode, doc: "Fade-in time in milliseconds."},
			{key: "fadeOut", node: durationNode, doc: "Fade-out time in milliseconds."},
			{key: "delay", node: durationNode, doc: "Delay before playback starts, in milliseconds."},
			{key: "predicate", node: predicateList, doc: "Conditions gating this sound."},
		},
	}
	return &unionNode{
		what: "a sound",
		variants: []node{
			fileNode,
			soundObject,
			&arrayNode{
				what: "an array of sounds",
				item: &unionNode{
					what: "a sound",
					variants: []node{
						fileNode,
						soundObject,
					},
				},
				nonEmpty: true,
				unique:   true,
			},
		},
		doc: "Audio played alongside the effect.",
	}
}
