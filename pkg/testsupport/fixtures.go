package testsupport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdef/pkg/definition"
	"github.com/goliatone/go-formdef/pkg/model"
)

// MustLoadRawForms reads a JSON or YAML fixture holding one form or a list.
func MustLoadRawForms(t *testing.T, path string) []model.RawForm {
	t.Helper()

	raws, err := LoadRawForms(path)
	if err != nil {
		t.Fatalf("load raw forms: %v", err)
	}
	return raws
}

// LoadRawForms returns the raw forms of a fixture without requiring
// testing.T, so setup functions can use it.
func LoadRawForms(path string) ([]model.RawForm, error) {
	if path == "" {
		return nil, errors.New("testsupport: fixture path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read fixture: %w", err)
	}
	return definition.ParseRawForms(data, path)
}

// MustDefine normalizes raw in a fresh registry and returns the form.
func MustDefine(t *testing.T, raw model.RawForm) model.Form {
	t.Helper()

	form, err := definition.NewRegistry().Define(raw)
	if err != nil {
		t.Fatalf("define %q: %v", raw.Type, err)
	}
	return form
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
