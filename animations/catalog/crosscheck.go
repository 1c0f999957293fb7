package catalog

import (
	"fmt"
	"sort"
	"strings"

	"rune-and-ruin/graphics/animations"
)

// CheckEntries is the cross-entry hook the resolver wires into validation.
// Within one array of sibling entries it enforces what single-entry grammar
// cannot see: at most one entry may be flagged default, and no two entries
// may claim the same reference.
func CheckEntries(entries []any, report func(animations.Issue)) {
	var defaults []int
	references := make(map[string]int)
	for i, raw := range entries {
		object, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if flagged, ok := object["default"].(bool); ok && flagged {
			defaults = append(defaults, i)
		}
		reference, ok := object["reference"].(string)
		if !ok || reference == "" {
			continue
		}
		if first, dup := references[reference]; dup {
			report(animations.Issue{
				Code:    animations.IssueRefinement,
				Path:    animations.Path{i, "reference"},
				Message: fmt.Sprintf("reference %q already claimed by entry %d", reference, first),
			})
			continue
		}
		references[reference] = i
	}
	if len(defaults) > 1 {
		for _, i := range defaults[1:] {
			report(animations.Issue{
				Code:    animations.IssueRefinement,
				Path:    animations.Path{i, "default"},
				Message: fmt.Sprintf("only one entry may be flagged default (entry %d already is)", defaults[0]),
			})
		}
	}
}

// CheckReferences validates the layered catalog as a whole: alias targets
// must exist and terminate in an entry array, reference fields must name a
// roll option present somewhere in the catalog, and no entry may be
// reachable from itself through reference chains.
func CheckReferences(entries map[string]Entry) []animations.Issue {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var issues []animations.Issue
	for _, key := range keys {
		entry := entries[key]
		if entry.Alias != "" {
			issues = append(issues, checkAliasChain(entries, key)...)
			continue
		}
		for i, object := range entry.Objects {
			issues = append(issues, checkObjectReferences(entries, animations.Path{key, i}, object)...)
		}
	}
	issues = append(issues, checkReferenceCycles(entries, keys)...)
	return issues
}

// checkReferenceCycles walks the key-to-key reference graph. Aliases are
// transparent: an edge lands on the terminal entry its target resolves to,
// so a cycle closed through an alias is still caught. Pure alias loops are
// checkAliasChain's to report.
func checkReferenceCycles(entries map[string]Entry, keys []string) []animations.Issue {
	edges := make(map[string][]string, len(entries))
	for _, key := range keys {
		entry := entries[key]
		if entry.Alias != "" {
			continue
		}
		targets := make(map[string]struct{})
		collectReferenceTargets(entry.Objects, targets)
		for target := range targets {
			terminal, ok := resolveTerminal(entries, target)
			if !ok {
				continue
			}
			edges[key] = append(edges[key], terminal)
		}
		sort.Strings(edges[key])
	}
	var issues []animations.Issue
	for _, key := range keys {
		chain := findCycle(edges, key)
		if chain == nil {
			continue
		}
		issues = append(issues, animations.Issue{
			Code:    animations.IssueRefinement,
			Path:    animations.Path{key},
			Message: fmt.Sprintf("entries reference each other in a cycle (%s)", strings.Join(chain, " -> ")),
		})
	}
	return issues
}

func collectReferenceTargets(objects []animations.AnimationObject, targets map[string]struct{}) {
	for _, object := range objects {
		if object.Reference != "" {
			targets[object.Reference] = struct{}{}
		}
		collectReferenceTargets(object.Contents, targets)
	}
}

// resolveTerminal follows alias links until it lands on an entry array. The
// second return is false when the chain dangles or loops; those cases are
// reported elsewhere.
func resolveTerminal(entries map[string]Entry, key string) (string, bool) {
	seen := make(map[string]struct{})
	current := key
	for {
		entry, ok := entries[current]
		if !ok {
			return "", false
		}
		if entry.Alias == "" {
			return current, true
		}
		if _, looped := seen[current]; looped {
			return "", false
		}
		seen[current] = struct{}{}
		current = entry.Alias
	}
}

// findCycle reports the first reference chain leading from start back to
// itself, or nil when none exists. Edges are pre-sorted, so the chain picked
// for a given graph is stable.
func findCycle(edges map[string][]string, start string) []string {
	var walk func(current string, path []string) []string
	walk = func(current string, path []string) []string {
		for _, next := range edges[current] {
			if next == start {
				return append(append([]string(nil), path...), next)
			}
			onPath := false
			for _, seen := range path {
				if seen == next {
					onPath = true
					break
				}
			}
			if onPath {
				continue
			}
			if chain := walk(next, append(path, next)); chain != nil {
				return chain
			}
		}
		return nil
	}
	return walk(start, []string{start})
}

func checkAliasChain(entries map[string]Entry, key string) []animations.Issue {
	seen := map[string]struct{}{key: {}}
	current := entries[key].Alias
	for {
		next, ok := entries[current]
		if !ok {
			return []animations.Issue{{
				Code:    animations.IssueRefinement,
				Path:    animations.Path{key},
				Message: fmt.Sprintf("alias points at unknown roll option %q", current),
			}}
		}
		if next.Alias == "" {
			return nil
		}
		if _, looped := seen[current]; looped {
			return []animations.Issue{{
				Code:    animations.IssueRefinement,
				Path:    animations.Path{key},
				Message: fmt.Sprintf("alias chain through %q loops without reaching an entry array", current),
			}}
		}
		seen[current] = struct{}{}
		current = next.Alias
	}
}

func checkObjectReferences(entries map[string]Entry, path animations.Path, object animations.AnimationObject) []animations.Issue {
	var issues []animations.Issue
	if object.Reference != "" {
		if _, ok := entries[object.Reference]; !ok {
			issues = append(issues, animations.Issue{
				Code:    animations.IssueRefinement,
				Path:    path.Child("reference"),
				Message: fmt.Sprintf("references unknown roll option %q", object.Reference),
			})
		}
	}
	if len(object.Contents) > 0 {
		contents := path.Child("contents")
		for i, nested := range object.Contents {
			issues = append(issues, checkObjectReferences(entries, contents.Child(i), nested)...)
		}
	}
	return issues
}
