package formdef

import (
	"embed"
	"io/fs"
)

//go:embed pkg/runtime/assets/*.js
var embeddedRuntimeAssets embed.FS

// RuntimeAssetsFS exposes the browser helper that keeps length counters and
// toggle labels live and shows or hides the inline error slots.
//
// Typical mount:
//
//	mux.Handle("/formdef/",
//	  http.StripPrefix("/formdef/",
//	    http.FileServerFS(formdef.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedRuntimeAssets, "pkg/runtime/assets")
	if err != nil {
		return embeddedRuntimeAssets
	}
	return sub
}
