package template

import (
	"io"
)

// TemplateRenderer is the seam the engine renders its wrapper markup
// through. The default implementation lives in the pongo subpackage.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
