// Command animvet validates animation documents from the command line. The
// default output lists every finding as one "path: message" line; -json emits
// machine-readable results instead. With -crosscheck each document is also
// validated against the exported JSON Schema and any disagreement between the
// engine and the schema is reported.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"

	"rune-and-ruin/graphics/animations"
	"rune-and-ruin/graphics/animations/catalog"
)

type fileReport struct {
	Path       string            `json:"path"`
	Result     animations.Result `json:"result"`
	Error      string            `json:"error,omitempty"`
	Crosscheck *crosscheckReport `json:"crosscheck,omitempty"`
}

type crosscheckReport struct {
	EngineValid  bool     `json:"engineValid"`
	SchemaValid  bool     `json:"schemaValid"`
	Agree        bool     `json:"agree"`
	SchemaErrors []string `json:"schemaErrors,omitempty"`
}

func main() {
	jsonOut := flag.Bool("json", false, "Emit machine-readable JSON results")
	crosscheck := flag.Bool("crosscheck", false, "Also validate against the exported JSON Schema and report disagreements")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: animvet [flags] file.json...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var compiled *gojsonschema.Schema
	if *crosscheck {
		var err error
		compiled, err = compileExportedSchema()
		if err != nil {
			logrus.Fatalf("failed to compile the exported schema: %v", err)
		}
	}

	validator := animations.Validator{CrossEntry: catalog.CheckEntries}

	failed := false
	reports := make([]fileReport, 0, flag.NArg())
	for _, path := range flag.Args() {
		report := validateFile(validator, compiled, path)
		reports = append(reports, report)
		if !reportOK(report) {
			failed = true
		}
	}

	if *jsonOut {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			logrus.Fatalf("failed to encode results: %v", err)
		}
		fmt.Println(string(data))
	} else {
		printReports(reports)
	}

	if failed {
		os.Exit(1)
	}
}

func validateFile(validator animations.Validator, compiled *gojsonschema.Schema, path string) fileReport {
	report := fileReport{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		report.Error = fmt.Sprintf("malformed JSON: %v", err)
		return report
	}

	report.Result = validator.Validate(doc)

	if compiled != nil {
		schemaResult, err := compiled.Validate(gojsonschema.NewBytesLoader(data))
		if err != nil {
			report.Error = fmt.Sprintf("schema validation failed: %v", err)
			return report
		}
		check := &crosscheckReport{
			EngineValid: report.Result.Success,
			SchemaValid: schemaResult.Valid(),
		}
		for _, desc := range schemaResult.Errors() {
			check.SchemaErrors = append(check.SchemaErrors, desc.String())
		}
		check.Agree = agreement(report.Result, check.SchemaValid)
		report.Crosscheck = check
	}
	return report
}

// Refinements such as cross-entry rules are engine-side checks JSON Schema
// cannot express, so a document failing only those is not a disagreement.
func agreement(result animations.Result, schemaValid bool) bool {
	if result.Success == schemaValid {
		return true
	}
	return schemaValid && onlyRefinements(result.Issues)
}

func onlyRefinements(issues []animations.Issue) bool {
	if len(issues) == 0 {
		return false
	}
	for _, issue := range issues {
		if issue.Code != animations.IssueRefinement {
			return false
		}
	}
	return true
}

func reportOK(report fileReport) bool {
	if report.Error != "" || !report.Result.Success {
		return false
	}
	if report.Crosscheck != nil && !report.Crosscheck.Agree {
		return false
	}
	return true
}

func printReports(reports []fileReport) {
	for _, report := range reports {
		switch {
		case report.Error != "":
			fmt.Printf("%s: %s\n", report.Path, report.Error)
		case report.Result.Success:
			fmt.Printf("%s: ok\n", report.Path)
		default:
			fmt.Printf("%s: %d issue(s)\n", report.Path, len(report.Result.Issues))
			for _, issue := range report.Result.Issues {
				fmt.Printf("  %s\n", issue)
			}
		}
		if report.Crosscheck != nil && !report.Crosscheck.Agree {
			fmt.Printf("  engine and schema disagree (engine valid=%v, schema valid=%v)\n",
				report.Crosscheck.EngineValid, report.Crosscheck.SchemaValid)
			for _, desc := range report.Crosscheck.SchemaErrors {
				fmt.Printf("    schema: %s\n", desc)
			}
		}
	}
}

func compileExportedSchema() (*gojsonschema.Schema, error) {
	schema, err := animations.ExportSchema(animations.SchemaAnimations)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	// The schema library dialect-switches on $schema and predates our draft;
	// without the marker it accepts keywords from every draft it knows.
	delete(raw, "$schema")
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(raw))
}
