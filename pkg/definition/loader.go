package definition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdef/pkg/model"
)

// LoadFS walks fsys and defines every raw form found in JSON or YAML files.
// A file holds either a single form or a list of forms. Files are processed
// in lexical order so later files win when they redefine a type.
func LoadFS(fsys fs.FS, reg *Registry) ([]model.Form, error) {
	if fsys == nil || reg == nil {
		return nil, nil
	}

	var forms []model.Form
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		raws, err := ParseRawForms(data, path)
		if err != nil {
			return err
		}
		for _, raw := range raws {
			form, err := reg.Define(raw)
			if err != nil {
				return fmt.Errorf("definition: %s: %w", path, err)
			}
			forms = append(forms, form)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return forms, nil
}

// ParseRawForms decodes one raw form or a list of raw forms from JSON, falling
// back to YAML.
func ParseRawForms(data []byte, source string) ([]model.RawForm, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("definition: file %s is empty", source)
	}

	if trimmed[0] == '[' {
		var list []model.RawForm
		if err := json.Unmarshal(trimmed, &list); err == nil {
			return list, nil
		}
	} else {
		var single model.RawForm
		if err := json.Unmarshal(trimmed, &single); err == nil {
			return []model.RawForm{single}, nil
		}
	}

	var node yaml.Node
	if err := yaml.Unmarshal(trimmed, &node); err != nil {
		return nil, fmt.Errorf("definition: parse %s: invalid JSON or YAML: %w", source, err)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var list []model.RawForm
		if err := node.Decode(&list); err != nil {
			return nil, fmt.Errorf("definition: decode %s: %w", source, err)
		}
		return list, nil
	}
	var single model.RawForm
	if err := node.Decode(&single); err != nil {
		return nil, fmt.Errorf("definition: decode %s: %w", source, err)
	}
	return []model.RawForm{single}, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
