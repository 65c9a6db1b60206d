package definition

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdef/pkg/interfaces"
	"github.com/goliatone/go-formdef/pkg/model"
)

type captureLogger struct {
	errors []string
}

func (c *captureLogger) Trace(string, ...any)                            {}
func (c *captureLogger) Debug(string, ...any)                            {}
func (c *captureLogger) Info(string, ...any)                             {}
func (c *captureLogger) Warn(string, ...any)                             {}
func (c *captureLogger) Error(msg string, _ ...any)                      { c.errors = append(c.errors, msg) }
func (c *captureLogger) Fatal(string, ...any)                            {}
func (c *captureLogger) WithContext(context.Context) interfaces.Logger { return c }

func TestDefine_DedupKeepsFirstPositionAndLastAttributes(t *testing.T) {
	reg := NewRegistry()
	form, err := reg.Define(model.RawForm{
		Type: "letters",
		Elements: []model.Field{
			{Code: "a", Type: model.KindStr, Name: "A1"},
			{Code: "b", Type: model.KindStr, Name: "B"},
			{Code: "a", Type: model.KindStr, Name: "A2"},
		},
	})
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, form.Codes()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if field, _ := form.Field("a"); field.Name != "A2" {
		t.Fatalf("expected last attributes, got %q", field.Name)
	}
}

func TestDefine_SkipsInvalidElements(t *testing.T) {
	logger := &captureLogger{}
	reg := NewRegistry(WithLogger(logger))

	form, err := reg.Define(model.RawForm{
		Type: "mixed",
		Elements: []model.Field{
			{Code: "nameless", Type: model.KindStr},
			{Code: "kind", Type: model.KindConst, Value: "x"},
			{Type: model.KindInt, Name: "No code"},
			{Code: "typeless", Name: "Typeless"},
			{Code: "ok", Type: model.KindInt, Name: "OK"},
		},
	})
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if diff := cmp.Diff([]string{"kind", "ok"}, form.Codes()); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if len(form.Diagnostics) != 3 || len(logger.errors) != 3 {
		t.Fatalf("expected 3 diagnostics, got %v (logged %d)", form.Diagnostics, len(logger.errors))
	}
	if !strings.Contains(form.Diagnostics[0], "name") {
		t.Fatalf("expected name diagnostic, got %q", form.Diagnostics[0])
	}
}

func TestDefine_ReplacesPreviousDefinition(t *testing.T) {
	reg := NewRegistry()
	reg.Define(model.RawForm{Type: "x", Elements: []model.Field{{Code: "a", Type: model.KindStr, Name: "A"}}})
	reg.Define(model.RawForm{Type: "x", Elements: []model.Field{{Code: "b", Type: model.KindStr, Name: "B"}}})

	form, ok := reg.Get("x")
	if !ok {
		t.Fatal("expected stored form")
	}
	if diff := cmp.Diff([]string{"b"}, form.Codes()); diff != "" {
		t.Fatalf("expected full replace (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestDefine_RequiresType(t *testing.T) {
	_, err := NewRegistry().Define(model.RawForm{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/person.yaml": {Data: []byte(`
type: person
elements:
  - {code: name, type: str, name: Name, min_len: 1, max_len: 20}
  - {code: age, type: int, name: Age, min: 0, max: 120}
`)},
		"forms/more.json": {Data: []byte(`[
  {"type": "tag", "elements": [{"code": "label", "type": "str", "name": "Label"}]},
  {"type": "flag", "elements": [{"code": "on", "type": "bool", "name": "On", "hideCreate": true}]}
]`)},
		"forms/notes.txt": {Data: []byte("ignored")},
	}

	reg := NewRegistry()
	forms, err := LoadFS(fsys, reg)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if len(forms) != 3 {
		t.Fatalf("expected 3 forms, got %d", len(forms))
	}
	if diff := cmp.Diff([]string{"flag", "person", "tag"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	person, _ := reg.Get("person")
	age, _ := person.Field("age")
	if age.Min == nil || *age.Max != 120 {
		t.Fatalf("expected bounds from YAML, got %#v", age)
	}
	flag, _ := reg.Get("flag")
	if field, _ := flag.Field("on"); !field.HideCreate {
		t.Fatal("expected hideCreate from JSON")
	}
}

func TestParseRawForms_Errors(t *testing.T) {
	if _, err := ParseRawForms([]byte("   "), "empty.yaml"); err == nil {
		t.Fatal("expected empty file error")
	}
	if _, err := ParseRawForms([]byte("type: [unclosed"), "bad.yaml"); err == nil {
		t.Fatal("expected parse error")
	}
}
