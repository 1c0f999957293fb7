package animations

// buildTokenImages assembles the token image swap grammar. The first return
// value is the descriptor array itself, used as the export root; the second
// wraps it in an open object so the reserved key can be validated in place on
// the document root without disturbing sibling animation keys.
func buildTokenImages(predicateList node) (node, node) {
	ruleTuple := &tupleNode{
		what:        "a [roll option, image, scale] rule",
		items:       []node{rollOptionNode, filePathNode, positiveNumberNode},
		requiredLen: 2,
		doc:         "Compact rule: roll option, image path, optional scale.",
	}
	ruleObject := &objectNode{
		what:   "a token image rule object",
		closed: true,
		fields: []field{
			{key: "predicate", node: predicateList, required: true, doc: "Conditions under which the image applies."},
			{key: "img", node: filePathNode, required: true, doc: "Image shown while the rule matches."},
			{key: "scale", node: positiveNumberNode, doc: "Scale applied to the swapped image."},
			{key: "tint", node: hexColorNode, doc: "Tint applied to the swapped image."},
			{key: "alpha", node: alphaNode, doc: "Opacity of the swapped image."},
		},
	}
	rule := &unionNode{
		what: "a token image rule",
		variants: []node{
			ruleTuple,
			ruleObject,
		},
	}
	descriptor := &objectNode{
		what:   "a token image descriptor",
		closed: true,
		fields: []field{
			{key: "name", node: freeStringNode, required: true, doc: "Label shown in the token image picker."},
			{key: "requires", node: freeStringNode, doc: "Module the artwork ships with."},
			{key: "uuid", node: uuidRefNode, required: true, doc: "Document the image rules attach to."},
			{key: "rules", node: &arrayNode{
				what:     "an array of token image rules",
				item:     rule,
				nonEmpty: true,
				unique:   true,
			}, required: true, doc: "Swap rules evaluated in order."},
		},
	}
	list := &arrayNode{
		what:     "an array of token image descriptors",
		item:     descriptor,
		nonEmpty: true,
		unique:   true,
		doc:      "Token image swap rules, independent of the animation entries.",
	}
	wrapper := &objectNode{
		what: "a document carrying token images",
		fields: []field{
			{key: tokenImagesKey, node: list},
		},
	}
	return list, wrapper
}
