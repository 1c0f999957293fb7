package animations

import (
	"errors"
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/invopop/jsonschema"
)

// Names of the exportable top-level grammars.
const (
	SchemaAnimations  = "animations"
	SchemaTokenImages = "tokenImages"
)

var errUnknownSchema = errors.New("animations: unknown schema name")

// ExportSchema renders one of the two top-level grammars as a JSON Schema
// document. Output is a pure function of the static grammar: closed objects
// emit additionalProperties false, string formats keep their literal regex
// pattern, and field documentation lands in description. An unknown name is
// programmer error and fails hard instead of producing an issue list.
func ExportSchema(name string) (*jsonschema.Schema, error) {
	switch name {
	case SchemaAnimations:
		return animationsSchema(), nil
	case SchemaTokenImages:
		return tokenImagesSchema(), nil
	default:
		return nil, fmt.Errorf("%w %q (expected %q or %q)", errUnknownSchema, name, SchemaAnimations, SchemaTokenImages)
	}
}

func animationsSchema() *jsonschema.Schema {
	props := orderedmap.New()
	props.Set(tokenImagesKey, rules.tokenImageList.schema())
	alias := rollOptionNode.schema()
	alias.Description = "Alias to another roll option."
	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Animations",
		Description: "Animation entries keyed by roll option, plus reserved token image swap rules.",
		Type:        "object",
		Properties:  props,
		PatternProperties: map[string]*jsonschema.Schema{
			rollOptionPattern.String(): {
				OneOf: []*jsonschema.Schema{
					alias,
					rules.entries.schema(),
				},
				Description: "An alias to another roll option, or the entries played for this one.",
			},
		},
		Extras: map[string]interface{}{"additionalProperties": false},
		Definitions: jsonschema.Definitions{
			"predicate":      rules.predicate.schema(),
			"animationEntry": rules.entry.schema(),
		},
	}
}

func tokenImagesSchema() *jsonschema.Schema {
	props := orderedmap.New()
	props.Set(tokenImagesKey, rules.tokenImageList.schema())
	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Token Images",
		Description: "Standalone document carrying token image swap rules.",
		Type:        "object",
		Properties:  props,
		Required:    []string{tokenImagesKey},
		Extras:      map[string]interface{}{"additionalProperties": false},
		Definitions: jsonschema.Definitions{
			"predicate": rules.predicate.schema(),
		},
	}
}
