package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdef/internal/logging"
	"github.com/goliatone/go-formdef/pkg/dom/prompt"
	"github.com/goliatone/go-formdef/pkg/engine"
)

func newFillCommand(root *rootOptions) *cobra.Command {
	var (
		objectPath string
		prefix     string
		creation   bool
		attempts   int
	)
	cmd := &cobra.Command{
		Use:   "fill <form>",
		Short: "Fill a form interactively and print the validated object as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := root.kit()
			if err != nil {
				return err
			}
			form, err := root.form(kit, args[0])
			if err != nil {
				return err
			}
			obj, err := readObject(objectPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			mode := engine.Mode{IDPrefix: prefix, Creation: creation}
			view, err := kit.RenderEdit(ctx, form, obj, mode)
			if err != nil {
				return err
			}
			kit.FinalizeEditor()

			filler := prompt.New(
				prompt.WithDriver(root.driver),
				prompt.WithLogger(logging.ModuleLogger(root.provider, logging.PromptModule)),
			)
			for attempt := 1; ; attempt++ {
				if err := filler.Fill(ctx, view.Document); err != nil {
					return err
				}
				result, err := kit.Validate(ctx, form, view.Document, mode)
				if err == nil {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(result)
				}

				failures := engine.FieldErrors(err)
				if len(failures) == 0 || attempt >= attempts {
					return err
				}
				codes := make([]string, 0, len(failures))
				for code := range failures {
					codes = append(codes, code)
				}
				sort.Strings(codes)
				for _, code := range codes {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", code, failures[code])
				}
			}
		},
	}
	cmd.Flags().StringVar(&objectPath, "object", "", "JSON or YAML file with the starting values")
	cmd.Flags().StringVar(&prefix, "prefix", "", "prefix for control ids")
	cmd.Flags().BoolVar(&creation, "create", false, "fill a new object (applies hideCreate)")
	cmd.Flags().IntVar(&attempts, "attempts", 3, "how many times to prompt again after validation errors")
	return cmd
}
