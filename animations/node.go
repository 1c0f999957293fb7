package animations

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/invopop/jsonschema"
)

// node is one production of the configuration grammar. check appends issues
// found in v at path to the state; describe names the production for union
// error messages; schema renders the production as a JSON Schema fragment.
type node interface {
	check(v any, path Path, st *checkState)
	describe() string
	schema() *jsonschema.Schema
}

// checkState threads the issue accumulator and the cross-entry hook through a
// validation pass. Issues are collected, never raised.
type checkState struct {
	issues []Issue
	cross  CrossEntryCheck
}

func (st *checkState) add(code IssueCode, path Path, format string, args ...any) {
	st.issues = append(st.issues, Issue{Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

// typeName names a decoded JSON value for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	case float64, float32, int, int64, json.Number:
		return "a number"
	default:
		return fmt.Sprintf("a %T value", v)
	}
}

// asNumber widens the numeric types callers may hand in. encoding/json always
// produces float64, but documents assembled in Go tend to carry untyped ints.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// canonicalKey renders a value in a key-order-insensitive canonical form used
// as the basis for structural equality. encoding/json writes object keys
// sorted, so two objects differing only in key order encode identically.
func canonicalKey(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("!unencodable %v", v)
	}
	return string(data)
}

func closedSchema(s *jsonschema.Schema) *jsonschema.Schema {
	if s.Extras == nil {
		s.Extras = map[string]interface{}{}
	}
	s.Extras["additionalProperties"] = false
	return s
}

// stringNode validates a string, optionally against a fixed format.
type stringNode struct {
	article string         // e.g. "a slug", used in messages
	pattern *regexp.Regexp // nil accepts any non-empty string
	hint    string         // appended to format failures
	doc     string
}

func (n *stringNode) check(v any, path Path, st *checkState) {
	s, ok := v.(string)
	if !ok {
		st.add(IssueInvalidType, path, "expected %s, received %s", n.article, typeName(v))
		return
	}
	if s == "" {
		st.add(IssueInvalidString, path, "must not be empty")
		return
	}
	if n.pattern != nil && !n.pattern.MatchString(s) {
		if n.hint != "" {
			st.add(IssueInvalidString, path, "%q is not %s (%s)", s, n.article, n.hint)
			return
		}
		st.add(IssueInvalidString, path, "%q is not %s", s, n.article)
	}
}

func (n *stringNode) describe() string { return n.article }

func (n *stringNode) schema() *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "string", Description: n.doc}
	if n.pattern != nil {
		s.Pattern = n.pattern.String()
	} else {
		s.MinLength = 1
	}
	return s
}

// numberNode validates a number against an optional bounded domain.
type numberNode struct {
	what         string // e.g. "a duration in milliseconds"
	min, max     *float64
	exclusiveMin bool
	exclusiveMax bool
	nonzero      bool
	integer      bool
	doc          string
}

func num(v float64) *float64 { return &v }

func (n *numberNode) check(v any, path Path, st *checkState) {
	f, ok := asNumber(v)
	if !ok {
		st.add(IssueInvalidType, path, "expected %s, received %s", n.describe(), typeName(v))
		return
	}
	if n.integer && f != float64(int64(f)) {
		st.add(IssueInvalidNumber, path, "must be a whole number")
	}
	if n.min != nil {
		if n.exclusiveMin && f <= *n.min {
			st.add(IssueInvalidNumber, path, "must be greater than %v", *n.min)
		} else if !n.exclusiveMin && f < *n.min {
			st.add(IssueInvalidNumber, path, "must be at least %v", *n.min)
		}
	}
	if n.max != nil {
		if n.exclusiveMax && f >= *n.max {
			st.add(IssueInvalidNumber, path, "must be less than %v", *n.max)
		} else if !n.exclusiveMax && f > *n.max {
			st.add(IssueInvalidNumber, path, "must be at most %v", *n.max)
		}
	}
	if n.nonzero && f == 0 {
		st.add(IssueRefinement, path, "must not be 0")
	}
}

func (n *numberNode) describe() string {
	if n.what != "" {
		return n.what
	}
	return "a number"
}

func (n *numberNode) schema() *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "number", Description: n.doc}
	if n.integer {
		s.Type = "integer"
	}
	bounds := map[string]interface{}{}
	if n.min != nil {
		if n.exclusiveMin {
			bounds["exclusiveMinimum"] = *n.min
		} else {
			bounds["minimum"] = *n.min
		}
	}
	if n.max != nil {
		if n.exclusiveMax {
			bounds["exclusiveMaximum"] = *n.max
		} else {
			bounds["maximum"] = *n.max
		}
	}
	if len(bounds) > 0 {
		s.Extras = bounds
	}
	if n.nonzero {
		s.Not = &jsonschema.Schema{Enum: []interface{}{0}}
	}
	return s
}

// boolNode validates a boolean flag.
type boolNode struct {
	doc string
}

func (n *boolNode) check(v any, path Path, st *checkState) {
	if _, ok := v.(bool); !ok {
		st.add(IssueInvalidType, path, "expected a boolean, received %s", typeName(v))
	}
}

func (n *boolNode) describe() string { return "a boolean" }

func (n *boolNode) schema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: n.doc}
}

// enumNode validates a string against a fixed set of choices.
type enumNode struct {
	what   string
	values []string
	doc    string
}

func (n *enumNode) check(v any, path Path, st *checkState) {
	s, ok := v.(string)
	if !ok {
		st.add(IssueInvalidType, path, "expected %s, received %s", n.what, typeName(v))
		return
	}
	for _, allowed := range n.values {
		if s == allowed {
			return
		}
	}
	st.add(IssueInvalidEnum, path, "%q is not %s (expected one of %s)", s, n.what, strings.Join(n.values, ", "))
}

func (n *enumNode) describe() string { return n.what }

func (n *enumNode) schema() *jsonschema.Schema {
	values := make([]interface{}, len(n.values))
	for i, v := range n.values {
		values[i] = v
	}
	return &jsonschema.Schema{Type: "string", Enum: values, Description: n.doc}
}

// arrayNode validates a homogeneous array. unique compares items by their
// canonical encoding; crossEntry additionally hands the raw array to the
// validator's cross-entry hook.
type arrayNode struct {
	what       string
	item       node
	nonEmpty   bool
	unique     bool
	crossEntry bool
	doc        string
}

func (n *arrayNode) check(v any, path Path, st *checkState) {
	arr, ok := v.([]any)
	if !ok {
		st.add(IssueInvalidType, path, "expected %s, received %s", n.describe(), typeName(v))
		return
	}
	if n.nonEmpty && len(arr) == 0 {
		st.add(IssueRefinement, path, "must contain at least one entry")
	}
	for i, item := range arr {
		n.item.check(item, path.Child(i), st)
	}
	if n.unique && len(arr) > 1 {
		seen := make(map[string]int, len(arr))
		for i, item := range arr {
			key := canonicalKey(item)
			if first, dup := seen[key]; dup {
				st.add(IssueRefinement, path.Child(i), "duplicates entry %d (entries must be unique)", first)
				continue
			}
			seen[key] = i
		}
	}
	if n.crossEntry && st.cross != nil {
		st.cross(arr, func(issue Issue) {
			prefixed := make(Path, 0, len(path)+len(issue.Path))
			prefixed = append(prefixed, path...)
			prefixed = append(prefixed, issue.Path...)
			issue.Path = prefixed
			st.issues = append(st.issues, issue)
		})
	}
}

func (n *arrayNode) describe() string { return n.what }

func (n *arrayNode) schema() *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "array", Items: n.item.schema(), Description: n.doc}
	if n.nonEmpty {
		s.MinItems = 1
	}
	if n.unique {
		s.UniqueItems = true
	}
	return s
}

// tupleNode validates a fixed-arity array with positional element types.
// Elements from requiredLen onward are optional.
type tupleNode struct {
	what        string
	items       []node
	requiredLen int
	refine      func(arr []any, path Path, st *checkState)
	doc         string
}

func (n *tupleNode) check(v any, path Path, st *checkState) {
	arr, ok := v.([]any)
	if !ok {
		st.add(IssueInvalidType, path, "expected %s, received %s", n.describe(), typeName(v))
		return
	}
	if len(arr) < n.requiredLen || len(arr) > len(n.items) {
		if n.requiredLen == len(n.items) {
			st.add(IssueRefinement, path, "must contain exactly %d elements", n.requiredLen)
		} else {
			st.add(IssueRefinement, path, "must contain between %d and %d elements", n.requiredLen, len(n.items))
		}
	}
	for i, item := range arr {
		if i >= len(n.items) {
			break
		}
		n.items[i].check(item, path.Child(i), st)
	}
	if n.refine != nil {
		n.refine(arr, path, st)
	}
}

func (n *tupleNode) describe() string { return n.what }

func (n *tupleNode) schema() *jsonschema.Schema {
	prefix := make([]*jsonschema.Schema, len(n.items))
	for i, item := range n.items {
		prefix[i] = item.schema()
	}
	return &jsonschema.Schema{
		Type:        "array",
		MinItems:    n.requiredLen,
		MaxItems:    len(n.items),
		Description: n.doc,
		Extras: map[string]interface{}{
			"prefixItems": prefix,
			"items":       false,
		},
	}
}

// field is one property of an objectNode. doc overrides the node's own schema
// description so shared primitives can carry field-specific documentation.
type field struct {
	key      string
	node     node
	required bool
	doc      string
}

// refineRule is a cross-field constraint on an objectNode. schemaExtra, when
// set, is appended to the exported schema's allOf so the rule survives export
// where JSON Schema can express it.
type refineRule struct {
	check       func(obj map[string]any, path Path, st *checkState)
	schemaExtra *jsonschema.Schema
}

// objectNode validates an object against a fixed field list. closed rejects
// unknown keys; nonEmpty rejects objects without any own key; atLeastOne
// requires at least one of the named keys to be present.
type objectNode struct {
	what       string
	fields     []field
	closed     bool
	nonEmpty   bool
	atLeastOne []string
	refines    []refineRule
	doc        string
}

func (n *objectNode) check(v any, path Path, st *checkState) {
	obj, ok := v.(map[string]any)
	if !ok {
		st.add(IssueInvalidType, path, "expected %s, received %s", n.describe(), typeName(v))
		return
	}
	if n.nonEmpty && len(obj) == 0 {
		st.add(IssueRefinement, path, "must not be empty")
		return
	}
	if n.closed {
		var unknown []string
		for key := range obj {
			known := false
			for _, f := range n.fields {
				if f.key == key {
					known = true
					break
				}
			}
			if !known {
				unknown = append(unknown, strconv.Quote(key))
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			st.add(IssueUnrecognizedKeys, path, "unrecognized key(s) %s", strings.Join(unknown, ", "))
		}
	}
	for _, f := range n.fields {
		value, present := obj[f.key]
		if !present {
			if f.required {
				st.add(IssueInvalidType, path.Child(f.key), "required key is missing")
			}
			continue
		}
		f.node.check(value, path.Child(f.key), st)
	}
	if len(n.atLeastOne) > 0 {
		found := false
		for _, key := range n.atLeastOne {
			if _, present := obj[key]; present {
				found = true
				break
			}
		}
		if !found {
			st.add(IssueRefinement, path, "must set at least one of %s", strings.Join(n.atLeastOne, ", "))
		}
	}
	for _, rule := range n.refines {
		rule.check(obj, path, st)
	}
}

func (n *objectNode) describe() string { return n.what }

func (n *objectNode) schema() *jsonschema.Schema {
	props := orderedmap.New()
	var required []string
	for _, f := range n.fields {
		ps := f.node.schema()
		if f.doc != "" {
			ps.Description = f.doc
		}
		props.Set(f.key, ps)
		if f.required {
			required = append(required, f.key)
		}
	}
	s := &jsonschema.Schema{
		Type:        "object",
		Properties:  props,
		Required:    required,
		Description: n.doc,
	}
	if n.closed {
		closedSchema(s)
	}
	if n.nonEmpty {
		s.MinProperties = 1
	}
	if len(n.atLeastOne) > 0 {
		anyOf := make([]*jsonschema.Schema, len(n.atLeastOne))
		for i, key := range n.atLeastOne {
			anyOf[i] = &jsonschema.Schema{Required: []string{key}}
		}
		s.AnyOf = anyOf
	}
	for _, rule := range n.refines {
		if rule.schemaExtra != nil {
			s.AllOf = append(s.AllOf, rule.schemaExtra)
		}
	}
	return s
}

// unionNode validates a value against several alternative forms. A variant
// "engages" when the value at least matched its root type; the issues of the
// most specific engaged variant are reported verbatim so callers see the real
// defect instead of one ambiguous error per variant. With no engaged variant
// the union reports a single invalid-union issue naming the expected forms.
type unionNode struct {
	what     string
	variants []node
	doc      string
}

func (n *unionNode) check(v any, path Path, st *checkState) {
	type attempt struct {
		issues  []Issue
		engaged bool
		depth   int
	}
	attempts := make([]attempt, 0, len(n.variants))
	for _, variant := range n.variants {
		scratch := &checkState{cross: st.cross}
		variant.check(v, path, scratch)
		if len(scratch.issues) == 0 {
			return
		}
		a := attempt{issues: scratch.issues}
		for _, issue := range scratch.issues {
			if len(issue.Path) > a.depth {
				a.depth = len(issue.Path)
			}
			if len(issue.Path) > len(path) || issue.Code != IssueInvalidType {
				a.engaged = true
			}
		}
		attempts = append(attempts, a)
	}
	best := -1
	for i, a := range attempts {
		if !a.engaged {
			continue
		}
		if best == -1 || a.depth > attempts[best].depth ||
			(a.depth == attempts[best].depth && len(a.issues) < len(attempts[best].issues)) {
			best = i
		}
	}
	if best >= 0 {
		st.issues = append(st.issues, attempts[best].issues...)
		return
	}
	st.add(IssueInvalidUnion, path, "expected %s, received %s", n.describe(), typeName(v))
}

func (n *unionNode) describe() string {
	if n.what != "" {
		return n.what
	}
	parts := make([]string, len(n.variants))
	for i, variant := range n.variants {
		parts[i] = variant.describe()
	}
	return strings.Join(parts, " or ")
}

func (n *unionNode) schema() *jsonschema.Schema {
	variants := make([]*jsonschema.Schema, len(n.variants))
	for i, variant := range n.variants {
		variants[i] = variant.schema()
	}
	return &jsonschema.Schema{OneOf: variants, Description: n.doc}
}

// typedUnionNode dispatches an object on the value of its "type" key, the
// discriminator used by filters and shapes. Dispatching before validation
// keeps errors scoped to the one variant the author meant.
type typedUnionNode struct {
	what  string
	order []string
	kinds map[string]node
	doc   string
}

func (n *typedUnionNode) check(v any, path Path, st *checkState) {
	obj, ok := v.(map[string]any)
	if !ok {
		st.add(IssueInvalidType, path, "expected %s, received %s", n.describe(), typeName(v))
		return
	}
	raw, present := obj["type"]
	if !present {
		st.add(IssueInvalidType, path.Child("type"), "required key is missing")
		return
	}
	kind, ok := raw.(string)
	if !ok {
		st.add(IssueInvalidType, path.Child("type"), "expected a string, received %s", typeName(raw))
		return
	}
	variant, ok := n.kinds[kind]
	if !ok {
		st.add(IssueInvalidEnum, path.Child("type"), "%q is not a recognized type (expected one of %s)", kind, strings.Join(n.order, ", "))
		return
	}
	variant.check(v, path, st)
}

func (n *typedUnionNode) describe() string { return n.what }

func (n *typedUnionNode) schema() *jsonschema.Schema {
	variants := make([]*jsonschema.Schema, len(n.order))
	for i, kind := range n.order {
		variants[i] = n.kinds[kind].schema()
	}
	return &jsonschema.Schema{OneOf: variants, Description: n.doc}
}

// keyedUnionNode dispatches an object on its single distinguishing key, the
// shape of predicate combinators and comparisons.
type keyedUnionNode struct {
	what  string
	order []string
	kinds map[string]node
	doc   string
}

func (n *keyedUnionNode) check(v any, path Path, st *checkState) {
	obj, ok := v.(map[string]any)
	if !ok {
		st.add(IssueInvalidType, path, "expected %s, received %s", n.describe(), typeName(v))
		return
	}
	for _, key := range n.order {
		if _, present := obj[key]; present {
			n.kinds[key].check(v, path, st)
			return
		}
	}
	st.add(IssueInvalidUnion, path, "expected %s (one of the keys %s)", n.describe(), strings.Join(n.order, ", "))
}

func (n *keyedUnionNode) describe() string { return n.what }

func (n *keyedUnionNode) schema() *jsonschema.Schema {
	variants := make([]*jsonschema.Schema, len(n.order))
	for i, key := range n.order {
		variants[i] = n.kinds[key].schema()
	}
	return &jsonschema.Schema{OneOf: variants, Description: n.doc}
}

// defNode names a grammar production that participates in recursion. check
// delegates to the production resolved at call time; schema emits a $defs
// reference so exported documents stay finite.
type defNode struct {
	name    string
	article string
	resolve func() node
}

func (n *defNode) check(v any, path Path, st *checkState) {
	n.resolve().check(v, path, st)
}

func (n *defNode) describe() string { return n.article }

func (n *defNode) schema() *jsonschema.Schema {
	return &jsonschema.Schema{Ref: "#/$defs/" + n.name}
}
