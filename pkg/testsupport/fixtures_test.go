package testsupport

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadRawForms(t *testing.T) {
	raws := MustLoadRawForms(t, "testdata/forms.yaml")
	types := []string{raws[0].Type, raws[1].Type}
	if diff := CompareGolden([]string{"person", "note"}, types); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	if form := MustDefine(t, raws[1]); !form.Fields[0].Long {
		t.Fatalf("expected long body field, got %+v", form.Fields[0])
	}
	if _, err := LoadRawForms(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRecordingLogger(t *testing.T) {
	logs := NewRecordingLogger()
	logs.Error("first", "k", 1)
	scoped := logs.WithFields(map[string]any{"module": "x"})
	scoped.Error("second")
	scoped.Debug("third")

	if diff := cmp.Diff([]string{"first", "second"}, logs.Messages("error")); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	entries := logs.Entries()
	if entries[1].Fields["module"] != "x" || entries[0].Fields != nil {
		t.Fatalf("unexpected fields %+v", entries)
	}
}
