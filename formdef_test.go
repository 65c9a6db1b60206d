package formdef

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdef/pkg/openapi"
)

func TestPersonRoundTrip(t *testing.T) {
	kit := New()
	form, err := kit.DefineForm(RawForm{Type: "person", Elements: []Field{
		{Code: "name", Type: "str", Name: "Name", MinLen: Int(1), MaxLen: Int(20)},
		{Code: "age", Type: "int", Name: "Age", Min: Int(0), Max: Int(120)},
	}})
	if err != nil {
		t.Fatalf("DefineForm: %v", err)
	}

	ctx := context.Background()
	view, err := kit.RenderEdit(ctx, form, Object{"name": "Ann", "age": 30}, Mode{})
	if err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	kit.FinalizeEditor()

	got, err := kit.Validate(ctx, form, view.Document, Mode{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff(Object{"name": "Ann", "age": 30}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestImportOpenAPIFromFile(t *testing.T) {
	kit := New()
	form, err := ImportOpenAPI(context.Background(), kit, openapi.SourceFromFile("pkg/openapi/testdata/petstore.yaml"), "Pet")
	if err != nil {
		t.Fatalf("ImportOpenAPI: %v", err)
	}
	if stored, ok := kit.Form("Pet"); !ok || len(stored.Fields) != len(form.Fields) {
		t.Fatalf("expected Pet to be defined, got %+v", stored)
	}
}
