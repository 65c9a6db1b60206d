package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdef/pkg/definition"
	"github.com/goliatone/go-formdef/pkg/model"
	"github.com/goliatone/go-formdef/pkg/orchestrator"
)

type violation struct {
	file     string
	location string
	message  string
}

func newLintCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check form definition files for invalid fields, unknown types and empty selects",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{root.formsDir}
			}
			// Forms are loaded from the arguments, not from --forms.
			kit, err := root.kitWithoutForms()
			if err != nil {
				return err
			}

			var violations []violation
			for _, path := range paths {
				found, err := lintPath(kit, path)
				if err != nil {
					return err
				}
				violations = append(violations, found...)
			}

			out := cmd.OutOrStdout()
			if len(violations) == 0 {
				_, err := fmt.Fprintln(out, "no problems found")
				return err
			}
			sort.SliceStable(violations, func(i, j int) bool {
				if violations[i].file != violations[j].file {
					return violations[i].file < violations[j].file
				}
				return violations[i].location < violations[j].location
			})
			for _, v := range violations {
				fmt.Fprintf(out, "%s: %s: %s\n", v.file, v.location, v.message)
			}
			return fmt.Errorf("%d problem(s) found", len(violations))
		},
	}
}

func (o *rootOptions) kitWithoutForms() (*orchestrator.Orchestrator, error) {
	saved := o.formsDir
	o.formsDir = ""
	defer func() { o.formsDir = saved }()
	return o.kit()
}

func lintPath(kit *orchestrator.Orchestrator, path string) ([]violation, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return lintFile(kit, path)
	}

	var out []violation
	err = filepath.WalkDir(path, func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		switch filepath.Ext(name) {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		found, err := lintFile(kit, name)
		if err != nil {
			return err
		}
		out = append(out, found...)
		return nil
	})
	return out, err
}

func lintFile(kit *orchestrator.Orchestrator, path string) ([]violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raws, err := definition.ParseRawForms(data, path)
	if err != nil {
		return []violation{{file: path, location: "-", message: err.Error()}}, nil
	}

	types := kit.Engine().FieldTypes().Types()
	var out []violation
	for i, raw := range raws {
		location := fmt.Sprintf("form[%d]", i)
		if raw.Type == "" {
			out = append(out, violation{file: path, location: location, message: "form type is required"})
			continue
		}
		location = raw.Type
		form := definition.Normalize(raw)
		for _, diagnostic := range form.Diagnostics {
			out = append(out, violation{file: path, location: location, message: diagnostic})
		}
		for _, field := range form.Fields {
			if msg := lintField(kit, types, field); msg != "" {
				out = append(out, violation{file: path, location: location + "." + field.Code, message: msg})
			}
		}
	}
	return out, nil
}

func lintField(kit *orchestrator.Orchestrator, types []string, field model.Field) string {
	if !slices.Contains(types, field.Type) {
		return fmt.Sprintf("unknown field type %q", field.Type)
	}
	if field.Type != model.KindSelect {
		return ""
	}
	if field.Subtype == "" {
		return "select field has no subtype"
	}
	if !kit.HasOptions(field.Subtype) && !field.AllowClear {
		return fmt.Sprintf("no options for subtype %q", field.Subtype)
	}
	return ""
}
