package formdef

import (
	"io/fs"
	"strings"
	"testing"
)

func TestRuntimeAssetsFSContainsHelper(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), "formdef.js")
	if err != nil {
		t.Fatalf("expected runtime helper to be readable: %v", err)
	}
	for _, want := range []string{"data-fd-counter", "applyErrors"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected helper to mention %q", want)
		}
	}
}
