// Command schema writes the exported JSON Schemas for editor integration.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"rune-and-ruin/graphics/animations"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the JSON schemas")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	outputs := []struct {
		name string
		file string
	}{
		{animations.SchemaAnimations, "animations.schema.json"},
		{animations.SchemaTokenImages, "token-images.schema.json"},
	}

	for _, output := range outputs {
		schema, err := animations.ExportSchema(output.name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to export %s: %v\n", output.name, err)
			os.Exit(1)
		}
		if err := writeSchema(filepath.Join(outDir, output.file), schema); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", output.file, err)
			os.Exit(1)
		}
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
