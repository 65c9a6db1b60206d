package main

import (
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdef/pkg/openapi"
)

type importedFile struct {
	Form    any            `yaml:"form"`
	Options map[string]any `yaml:"options,omitempty"`
}

func newImportCommand(root *rootOptions) *cobra.Command {
	var (
		prefix   string
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "import-openapi <document> [schema]",
		Short: "Print raw form definitions for OpenAPI component schemas as YAML",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := sourceFor(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			data, err := openapi.Load(ctx, src, openapi.WithHTTPFallback(0))
			if err != nil {
				return err
			}

			opts := []openapi.ImportOption{openapi.WithFormPrefix(prefix), openapi.WithValidation(validate)}
			var imported []openapi.Imported
			if len(args) == 2 {
				one, err := openapi.ImportSchema(ctx, data, args[1], opts...)
				if err != nil {
					return err
				}
				imported = []openapi.Imported{one}
			} else {
				imported, err = openapi.ImportAll(ctx, data, opts...)
				if err != nil {
					return err
				}
			}

			logger := root.logger()
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			for _, item := range imported {
				if len(item.Skipped) > 0 {
					logger.Warn("skipped properties", "form", item.Form.Type, "properties", item.Skipped)
				}
				file := importedFile{Form: item.Form}
				if len(item.Subtypes) > 0 {
					file.Options = make(map[string]any, len(item.Subtypes))
					for subtype, options := range item.Subtypes {
						file.Options[subtype] = options
					}
				}
				if err := enc.Encode(file); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "prefix for generated form types and subtypes")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate the whole document first")
	return cmd
}

func sourceFor(raw string) (openapi.Source, error) {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return openapi.SourceFromURL(path)
	}
	return openapi.SourceFromFile(path), nil
}
