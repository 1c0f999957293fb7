package animations

import (
	"fmt"
	"strings"
)

// IssueCode classifies a single validation finding.
type IssueCode string

const (
	// IssueInvalidType reports a JSON value of the wrong type where another
	// was required (an array where an object was expected, and so on).
	IssueInvalidType IssueCode = "invalid-type"
	// IssueInvalidString reports a string that fails a required format.
	IssueInvalidString IssueCode = "invalid-string-format"
	// IssueInvalidNumber reports a number outside its allowed domain.
	IssueInvalidNumber IssueCode = "invalid-number"
	// IssueInvalidEnum reports a value outside a fixed set of choices.
	IssueInvalidEnum IssueCode = "invalid-enum"
	// IssueInvalidUnion reports a value that matches none of a union's forms.
	IssueInvalidUnion IssueCode = "invalid-union"
	// IssueUnrecognizedKeys reports unknown keys on a closed object.
	IssueUnrecognizedKeys IssueCode = "unrecognized-keys"
	// IssueRefinement reports a well-shaped value that violates a semantic
	// rule such as non-empty, unique items, or a cross-field constraint.
	IssueRefinement IssueCode = "custom-refinement-failure"
)

// Path locates a value inside a document as the ordered sequence of object
// keys (string) and array indices (int) from the root.
type Path []any

// Child returns a copy of the path extended by one segment. Issues keep the
// path they were created with, so the receiver must never be mutated.
func (p Path) Child(segment any) Path {
	next := make(Path, len(p)+1)
	copy(next, p)
	next[len(p)] = segment
	return next
}

// String renders the path in dotted form with bracketed indices, for example
// `strike[0].options.fadeIn`.
func (p Path) String() string {
	if len(p) == 0 {
		return "(document root)"
	}
	var b strings.Builder
	for i, segment := range p {
		switch s := segment.(type) {
		case string:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s)
		case int:
			fmt.Fprintf(&b, "[%d]", s)
		default:
			fmt.Fprintf(&b, "[%v]", s)
		}
	}
	return b.String()
}

// Issue is a single validation finding: what went wrong, where, and a
// designer-readable explanation.
type Issue struct {
	Code    IssueCode `json:"kind"`
	Path    Path      `json:"path"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Result aggregates every issue found in one validation pass. Success is true
// exactly when Issues is empty.
type Result struct {
	Success bool    `json:"success"`
	Issues  []Issue `json:"issues,omitempty"`
}
