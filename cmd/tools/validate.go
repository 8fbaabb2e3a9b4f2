package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tushar-indygen/leadform"
)

func runValidate(args []string) error {
	flags := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags.SetOutput(os.Stdout)
	flags.Usage = func() {
		fmt.Println("Usage: leadform-tools validate [options]")
		fmt.Println("")
		fmt.Println("Options:")
		flags.PrintDefaults()
	}

	schemaFile := flags.String("schema-file", "", "Path to a single JSON form schema file")
	schemaDir := flags.String("schema-dir", "", "Directory of JSON form schema files (mutually exclusive with -schema-file)")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	var paths []string
	switch {
	case *schemaFile != "" && *schemaDir != "":
		return fmt.Errorf("-schema-file and -schema-dir are mutually exclusive")
	case *schemaFile != "":
		paths = []string{*schemaFile}
	case *schemaDir != "":
		entries, err := os.ReadDir(*schemaDir)
		if err != nil {
			return fmt.Errorf("read schema directory(%s): %w", *schemaDir, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".meta.json") {
				continue
			}
			paths = append(paths, filepath.Join(*schemaDir, name))
		}
		sort.Strings(paths)
		if len(paths) == 0 {
			return fmt.Errorf("no schema files found in %s", *schemaDir)
		}
	default:
		return fmt.Errorf("either -schema-file or -schema-dir must be provided")
	}

	failed := 0
	for _, path := range paths {
		if err := validateSchemaFile(path); err != nil {
			fmt.Printf("FAIL  %s: %v\n", path, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d schema files failed validation", failed, len(paths))
	}
	return nil
}

func validateSchemaFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	schema, err := leadform.ParseSchema(data)
	if err != nil {
		return err
	}
	if err := schema.Validate(); err != nil {
		return err
	}

	fieldCount := 0
	var warnings []string
	for _, page := range schema.Pages {
		fieldCount += len(page.Fields)
		for _, field := range page.Fields {
			if !field.Type.IsSupported() {
				warnings = append(warnings, fmt.Sprintf("field %q has unsupported type %q and will render as a placeholder", field.ID, field.Type))
			}
			if field.Pattern != "" {
				if _, err := regexp.Compile(field.Pattern); err != nil {
					warnings = append(warnings, fmt.Sprintf("field %q has an uncompilable pattern, validation will be skipped: %v", field.ID, err))
				}
			}
			if len(field.Options) == 0 && (field.Type == leadform.FieldTypeMultipleChoice || field.Type == leadform.FieldTypeSelect) {
				warnings = append(warnings, fmt.Sprintf("field %q is a choice field with no options", field.ID))
			}
		}
	}

	fmt.Printf("OK    %s: %d pages, %d fields\n", path, len(schema.Pages), fieldCount)
	for _, w := range warnings {
		fmt.Printf("      warning: %s\n", w)
	}
	return nil
}
