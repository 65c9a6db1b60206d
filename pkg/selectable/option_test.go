package selectable

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestOption_LabelFallsBackToValue(t *testing.T) {
	if got := Bare("red").LabelString(); got != "red" {
		t.Fatalf("bare label: got %q", got)
	}
	if got := Pair(1, "One").LabelString(); got != "One" {
		t.Fatalf("pair label: got %q", got)
	}
}

func TestValuesEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "identical strings", a: "x", b: "x", want: true},
		{name: "string and int", a: "1", b: 1, want: true},
		{name: "float and int", a: 2.0, b: 2, want: true},
		{name: "different numbers", a: 1, b: 2, want: false},
		{name: "nil and value", a: nil, b: "", want: false},
		{name: "both nil", a: nil, b: nil, want: true},
		{name: "non numeric strings", a: "a", b: "b", want: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ValuesEqual(tc.a, tc.b); got != tc.want {
				t.Fatalf("ValuesEqual(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestOption_JSONRoundTripShapes(t *testing.T) {
	var options []Option
	if err := json.Unmarshal([]byte(`["plain", [2, "Two"]]`), &options); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(options) != 2 || options[0].IsPair() || !options[1].IsPair() {
		t.Fatalf("unexpected decode: %#v", options)
	}
	if options[1].LabelString() != "Two" || !options[1].Matches("2") {
		t.Fatalf("unexpected pair: %#v", options[1])
	}

	if err := json.Unmarshal([]byte(`[[1, 2, 3]]`), &options); err == nil {
		t.Fatal("expected error for three element option")
	}
}

func TestFind(t *testing.T) {
	options := []Option{Pair(1, "One"), Pair(2, "Two")}
	found, ok := Find(options, "2")
	if !ok || found.LabelString() != "Two" {
		t.Fatalf("expected Two, got %#v (ok=%v)", found, ok)
	}
	if _, ok := Find(options, 3); ok {
		t.Fatal("expected no match")
	}
}

func TestLoadSourceFS(t *testing.T) {
	fsys := fstest.MapFS{
		"options/colors.yaml": {Data: []byte("colors:\n  - red\n  - [g, Green]\n")},
		"options/sizes.json":  {Data: []byte(`{"sizes": [[1, "Small"], [2, "Large"]]}`)},
		"README.md":           {Data: []byte("ignored")},
	}
	src, err := LoadSourceFS(fsys)
	if err != nil {
		t.Fatalf("LoadSourceFS: %v", err)
	}
	if diff := cmp.Diff([]string{"colors", "sizes"}, src.Subtypes()); diff != "" {
		t.Fatalf("subtypes mismatch (-want +got):\n%s", diff)
	}
	colors, ok := src.Options("colors")
	if !ok || len(colors) != 2 || colors[1].LabelString() != "Green" {
		t.Fatalf("unexpected colors: %#v", colors)
	}
}

func TestLoadSourceFS_EmptyFile(t *testing.T) {
	fsys := fstest.MapFS{"bad.yaml": {Data: []byte("  ")}}
	if _, err := LoadSourceFS(fsys); err == nil {
		t.Fatal("expected error for empty file")
	}
}
