package animations

import "regexp"

// String formats shared across the grammar. Patterns are exported to JSON
// Schema literally, so they stay within the syntax both Go and ECMA regex
// engines accept.
var (
	slugPattern       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	rollOptionPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*(?::[a-z0-9]+(?:-[a-z0-9]+)*)*(?::[+-]?[0-9]+)?$`)
	filePathPattern   = regexp.MustCompile(`^(?:[^":<>?\\|/]+/)+[^":<>?\\|/]+\.[a-zA-Z0-9]{3,4}$`)
	hexColorPattern   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	uuidRefPattern    = regexp.MustCompile(`^[A-Za-z0-9]+(?:\.[A-Za-z0-9]+)+$`)

	// Database references are dot-delimited; any segment may instead be a
	// brace-enclosed comma-separated alternation such as {fire,ice}.
	databaseRefPattern = regexp.MustCompile(`^(?:[a-z0-9]+(?:[-_][a-z0-9]+)*|\{[a-z0-9_-]+(?:,[a-z0-9_-]+)+\})(?:\.(?:[a-z0-9]+(?:[-_][a-z0-9]+)*|\{[a-z0-9_-]+(?:,[a-z0-9_-]+)+\}))+$`)
)

var (
	slugNode = &stringNode{
		article: "a slug",
		pattern: slugPattern,
		hint:    "lowercase words separated by single hyphens",
	}
	rollOptionNode = &stringNode{
		article: "a roll option",
		pattern: rollOptionPattern,
		hint:    "colon-separated slug segments with an optional signed-integer tail",
	}
	filePathNode = &stringNode{
		article: "a file path",
		pattern: filePathPattern,
		hint:    `forward-slash segments without ":<>?\| and a 3 or 4 character extension`,
	}
	databaseRefNode = &stringNode{
		article: "a database reference",
		pattern: databaseRefPattern,
		hint:    "dot-separated segments; a segment may be a {a,b} alternation",
	}
	hexColorNode = &stringNode{
		article: "a hex colour",
		pattern: hexColorPattern,
		hint:    "# followed by 3 or 6 hex digits",
	}
	uuidRefNode = &stringNode{
		article: "a document identifier",
		pattern: uuidRefPattern,
		hint:    "dot-separated alphanumeric segments",
	}
	freeStringNode = &stringNode{article: "a string"}
)

var (
	anyNumberNode         = &numberNode{}
	nonZeroNumberNode     = &numberNode{what: "a non-zero number", nonzero: true}
	nonNegativeNumberNode = &numberNode{what: "a non-negative number", min: num(0)}
	positiveNumberNode    = &numberNode{what: "a positive number", min: num(0), exclusiveMin: true}
	durationNode          = &numberNode{what: "a duration in milliseconds", min: num(0)}
	positiveIntegerNode   = &numberNode{what: "a positive whole number", min: num(1), integer: true}
	booleanNode           = &boolNode{}
)

// angleNode bounds rotations to (-180, 180] and rejects 0; a zero rotation is
// spelled by omitting the field entirely.
var angleNode = &numberNode{
	what:         "an angle",
	min:          num(-180),
	exclusiveMin: true,
	max:          num(180),
	nonzero:      true,
	doc:          "Angle in degrees within (-180, 180], 0 excluded.",
}

var alphaNode = &numberNode{
	what:         "an alpha value",
	min:          num(0),
	exclusiveMin: true,
	max:          num(1),
	doc:          "Opacity within (0, 1].",
}

// fileNode accepts either a pre-registered database reference or an on-disk
// asset path. Both spellings appear throughout designer configs.
var fileNode = &unionNode{
	what: "a database reference or file path",
	variants: []node{
		databaseRefNode,
		filePathNode,
	},
}
