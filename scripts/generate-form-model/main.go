package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-formdef/pkg/openapi"
)

func main() {
	var (
		schemaPath = flag.String("schema", "pkg/openapi/testdata/petstore.yaml", "OpenAPI document path")
		outputDir  = flag.String("output", "pkg/openapi/testdata/generated", "directory receiving forms/ and options/")
		validate   = flag.Bool("validate", true, "validate the OpenAPI document before importing")
	)
	flag.Parse()

	ctx := context.Background()

	data, err := openapi.Load(ctx, openapi.SourceFromFile(*schemaPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load document: %v\n", err)
		os.Exit(1)
	}

	imported, err := openapi.ImportAll(ctx, data, openapi.WithValidation(*validate))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to import schemas: %v\n", err)
		os.Exit(1)
	}

	for _, item := range imported {
		name := item.Form.Type + ".json"
		if err := writeJSON(filepath.Join(*outputDir, "forms", name), item.Form); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write form %s: %v\n", item.Form.Type, err)
			os.Exit(1)
		}
		if len(item.Subtypes) > 0 {
			if err := writeJSON(filepath.Join(*outputDir, "options", name), item.Subtypes); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write options %s: %v\n", item.Form.Type, err)
				os.Exit(1)
			}
		}
		for _, skipped := range item.Skipped {
			fmt.Fprintf(os.Stderr, "%s: skipped property %s\n", item.Form.Type, skipped)
		}
	}

	fmt.Printf("✓ Wrote %d form definitions to %s\n", len(imported), *outputDir)
}

func writeJSON(path string, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(payload, '\n'), 0o644)
}
