package formdef

import (
	"io/fs"

	"github.com/goliatone/go-formdef/pkg/engine"
)

// EmbeddedTemplates exposes the built-in wrapper templates so callers can copy
// or extend them and pass their own renderer with engine.WithTemplates.
func EmbeddedTemplates() fs.FS {
	return engine.TemplatesFS()
}
