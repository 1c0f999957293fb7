package animations

// triggerNames are the game events an animation entry can respond to.
var triggerNames = []string{
	"attack-roll", "damage-roll", "spell-cast", "damage-taken",
	"saving-throw", "skill-check", "flat-check", "initiative",
	"start-turn", "end-turn", "place-template", "action",
	"self-effect", "toggle", "effect", "condition",
}

// presetNames are the placement strategies the playback engine implements.
var presetNames = []string{"onToken", "ranged", "melee", "template", "sound", "macro"}

// buildAnimationObject assembles the recursive animation entry production.
// Every field is optional because nested contents entries inherit whatever
// they leave unspecified from their parent; the playback engine resolves that
// inheritance, not the validator.
func buildAnimationObject(predicateList, options, entryRef node) node {
	trigger := &enumNode{what: "a trigger", values: triggerNames, doc: "Game event this entry responds to."}
	triggers := &unionNode{
		what: "a trigger or array of triggers",
		variants: []node{
			trigger,
			&arrayNode{what: "an array of triggers", item: trigger, nonEmpty: true, unique: true},
		},
	}
	files := &unionNode{
		what: "a file or array of files",
		variants: []node{
			fileNode,
			&arrayNode{what: "an array of files", item: fileNode, nonEmpty: true, unique: true},
		},
		doc: "Effect asset or assets to play.",
	}
	overrides := &arrayNode{
		what:     "an array of roll options",
		item:     rollOptionNode,
		nonEmpty: true,
		unique:   true,
	}
	contents := &arrayNode{
		what:       "an array of animation objects",
		item:       entryRef,
		nonEmpty:   true,
		unique:     true,
		crossEntry: true,
	}
	return &objectNode{
		what:     "an animation object",
		closed:   true,
		nonEmpty: true,
		fields: []field{
			{key: "trigger", node: triggers},
			{key: "preset", node: &enumNode{what: "a preset", values: presetNames, doc: "Placement strategy for the effect."}},
			{key: "file", node: files},
			{key: "predicate", node: predicateList},
			{key: "options", node: options},
			{key: "overrides", node: overrides, doc: "Entries elsewhere in the document this entry replaces."},
			{key: "default", node: booleanNode, doc: "Fallback entry used when no sibling's predicate matches."},
			{key: "reference", node: rollOptionNode, doc: "Entry to inherit configuration from."},
			{key: "contents", node: contents, doc: "Nested entries inheriting unspecified fields from this one."},
		},
		doc: "One configured effect, or a nested group of effects.",
	}
}
