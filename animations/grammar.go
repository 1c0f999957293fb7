package animations

// tokenImagesKey is the reserved top-level key holding token image swap rules.
const tokenImagesKey = "_tokenImages"

// grammar bundles the process-wide productions. It is built once at package
// load and never mutated; validation and export walk the same nodes.
type grammar struct {
	predicate      node
	entry          node
	entries        node
	tokenImages    node
	tokenImageList node
}

var rules = newGrammar()

func newGrammar() *grammar {
	g := &grammar{}
	pred := &defNode{name: "predicate", article: "a predicate", resolve: func() node { return g.predicate }}
	entryRef := &defNode{name: "animationEntry", article: "an animation object", resolve: func() node { return g.entry }}

	g.predicate = buildPredicate(pred)
	predicateList := &arrayNode{
		what:     "an array of predicates",
		item:     pred,
		nonEmpty: true,
		unique:   true,
		doc:      "Conditions that must all hold for the entry to apply.",
	}

	offset := buildOffset()
	sound := buildSound(predicateList)
	filter := buildFilter()
	shape := buildShape(offset)
	presets := buildPresetOptions(offset, sound)
	options := buildEffectOptions(sound, presets, offset, filter, shape)

	g.entry = buildAnimationObject(predicateList, options, entryRef)
	g.entries = &arrayNode{
		what:       "an array of animation objects",
		item:       entryRef,
		nonEmpty:   true,
		unique:     true,
		crossEntry: true,
		doc:        "Animation entries for one roll option.",
	}
	g.tokenImageList, g.tokenImages = buildTokenImages(predicateList)
	return g
}
