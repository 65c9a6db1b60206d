package engine

import (
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdef/pkg/fieldtypes"
)

// Partial keys looked up in a theme selection. A theme maps them to template
// paths known to the engine's template renderer.
const (
	PartialField = "forms.field"
	PartialForm  = "forms.form"
	PartialView  = "forms.view"

	PartialInput    = fieldtypes.PartialInput
	PartialTextarea = fieldtypes.PartialTextarea
	PartialSelect   = fieldtypes.PartialSelect
	PartialCheckbox = fieldtypes.PartialCheckbox
)

// DefaultPartials maps every partial key to its embedded template.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialField:    fieldTemplate,
		PartialForm:     formTemplate,
		PartialView:     viewTemplate,
		PartialInput:    inputTemplate,
		PartialTextarea: textareaTemplate,
		PartialSelect:   selectTemplate,
		PartialCheckbox: checkboxTemplate,
	}
}

// WithTheme renders with the templates and tokens of selection. Tokens become
// CSS custom properties on the form and view wrappers.
func WithTheme(selection *gotheme.Selection) Option {
	return func(e *Engine) {
		e.theme = selection
	}
}

// WithCSSVariablePrefix namespaces the CSS properties derived from theme
// tokens.
func WithCSSVariablePrefix(prefix string) Option {
	return func(e *Engine) {
		e.cssPrefix = strings.TrimSpace(prefix)
	}
}

type themeContext struct {
	name     string
	variant  string
	partials map[string]string
	style    string
}

func newThemeContext(selection *gotheme.Selection, cssPrefix string) themeContext {
	ctx := themeContext{partials: DefaultPartials()}
	if selection == nil {
		return ctx
	}
	ctx.name = selection.Theme
	ctx.variant = selection.Variant
	ctx.partials = selection.Partials(DefaultPartials())
	ctx.style = cssVarsStyle(selection.CSSVariables(cssPrefix))
	return ctx
}

func (t themeContext) template(key string) string {
	if name := strings.TrimSpace(t.partials[key]); name != "" {
		return name
	}
	return DefaultPartials()[key]
}

// decorate adds the theme keys used by the wrapper templates.
func (t themeContext) decorate(data map[string]any) map[string]any {
	data["theme_name"] = t.name
	data["theme_variant"] = t.variant
	data["theme_style"] = t.style
	return data
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteByte(';')
	}
	return b.String()
}
