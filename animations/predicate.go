package animations

import "fmt"

// Predicate form keywords, in the order exported schemas list them.
var (
	comparisonOps = []string{"eq", "gt", "gte", "lt", "lte"}
	combinatorOps = []string{"and", "or", "xor", "nand", "nor", "iff"}
)

// buildPredicate assembles the predicate mini-language: a bare roll option, a
// comparison of a roll option against a roll option or number, or a boolean
// combinator over sub-predicates. pred refers back to the full production so
// combinators can nest. Only structural well-formedness is defined here;
// evaluation against live game state belongs to the playback engine.
func buildPredicate(pred node) node {
	operand := &unionNode{
		what: "a roll option or a number",
		variants: []node{
			rollOptionNode,
			anyNumberNode,
		},
	}
	comparisonPair := &tupleNode{
		what:        "a comparison pair",
		items:       []node{rollOptionNode, operand},
		requiredLen: 2,
	}
	subPredicates := &arrayNode{
		what:     "an array of predicates",
		item:     pred,
		nonEmpty: true,
		unique:   true,
	}

	forms := make(map[string]node, len(comparisonOps)+len(combinatorOps)+2)
	for _, op := range comparisonOps {
		forms[op] = &objectNode{
			what:   fmt.Sprintf("a %s comparison", op),
			closed: true,
			fields: []field{
				{key: op, node: comparisonPair, required: true, doc: "Roll option compared against a roll option or a number."},
			},
		}
	}
	for _, op := range combinatorOps {
		forms[op] = &objectNode{
			what:   fmt.Sprintf("a %s combinator", op),
			closed: true,
			fields: []field{
				{key: op, node: subPredicates, required: true, doc: "Sub-predicates joined by the combinator."},
			},
		}
	}
	forms["not"] = &objectNode{
		what:   "a not combinator",
		closed: true,
		fields: []field{
			{key: "not", node: pred, required: true, doc: "Predicate to negate."},
		},
	}
	forms["if"] = &objectNode{
		what:   "an if/then rule",
		closed: true,
		fields: []field{
			{key: "if", node: pred, required: true, doc: "Condition predicate."},
			{key: "then", node: pred, required: true, doc: "Predicate that must hold whenever the condition does."},
		},
	}

	order := make([]string, 0, len(forms))
	order = append(order, comparisonOps...)
	order = append(order, combinatorOps...)
	order = append(order, "not", "if")

	return &unionNode{
		what: "a predicate",
		variants: []node{
			rollOptionNode,
			&keyedUnionNode{
				what:  "a predicate object",
				order: order,
				kinds: forms,
			},
		},
		doc: "A roll option or a boolean expression over roll options.",
	}
}
