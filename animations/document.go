// Package animations validates the declarative JSON documents that attach
// visual and audio effects to game actions, and exports the same grammar as
// JSON Schema for external editor tooling.
//
// Validation never raises and never stops early: every call walks the whole
// document and returns the full list of issues with reconstructed paths, so a
// designer can fix a configuration file in a single pass.
package animations

import "sort"

// CrossEntryCheck inspects one candidate array of animation entries during
// validation, receiving the raw array and an issue sink. Reported paths are
// taken to be relative to the array; the validator prepends the array's own
// document path before merging, the same reconstruction applied to its own
// issues.
type CrossEntryCheck func(entries []any, report func(Issue))

// Validator drives the document grammar. The zero value validates without a
// cross-entry hook; Validate is a pure function of its input and safe for
// concurrent use.
type Validator struct {
	// CrossEntry, when set, runs once per array of animation entries.
	CrossEntry CrossEntryCheck
}

// Validate checks one decoded JSON document against the animations grammar.
// The root must be a plain object mapping roll options to an alias or an
// entry array, with the reserved _tokenImages key holding swap rules. Every
// top-level key is validated independently, so a malformed entry under one
// key never hides problems under another; keys are visited in sorted order to
// keep issue order deterministic.
func (v *Validator) Validate(doc any) Result {
	st := &checkState{}
	if v != nil {
		st.cross = v.CrossEntry
	}
	if root, ok := doc.(map[string]any); ok {
		keys := make([]string, 0, len(root))
		for key := range root {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if key == tokenImagesKey {
				rules.tokenImages.check(root, Path{}, st)
				continue
			}
			rollOptionNode.check(key, Path{key}, st)
			value := root[key]
			if _, isAlias := value.(string); isAlias {
				rollOptionNode.check(value, Path{key}, st)
				continue
			}
			rules.entries.check(value, Path{key}, st)
		}
	} else {
		switch doc.(type) {
		case nil:
			st.add(IssueInvalidType, Path{}, "expected a configuration object, received null")
		case []any:
			st.add(IssueInvalidType, Path{}, "expected a configuration object, received an array")
		default:
			st.add(IssueInvalidType, Path{}, "expected a configuration object, received %s", typeName(doc))
		}
	}
	return Result{Success: len(st.issues) == 0, Issues: st.issues}
}

// Validate checks doc against the animations grammar without a cross-entry
// hook.
func Validate(doc any) Result {
	var v Validator
	return v.Validate(doc)
}
