// Package formdef renders declarative forms read-only and as editable
// controls, then reads and validates the edited values back. It is a thin
// facade over pkg/orchestrator.
package formdef

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdef/pkg/engine"
	"github.com/goliatone/go-formdef/pkg/fieldtypes"
	"github.com/goliatone/go-formdef/pkg/interfaces"
	"github.com/goliatone/go-formdef/pkg/model"
	"github.com/goliatone/go-formdef/pkg/openapi"
	"github.com/goliatone/go-formdef/pkg/orchestrator"
	"github.com/goliatone/go-formdef/pkg/selectable"
)

// Kit owns the registries of one application.
type Kit = orchestrator.Orchestrator

// Option configures a Kit.
type Option = orchestrator.Option

type (
	Object   = model.Object
	Field    = model.Field
	RawForm  = model.RawForm
	Form     = model.Form
	Mode     = engine.Mode
	EditView = engine.EditView
	Handlers = fieldtypes.Handlers
	Hooks    = selectable.Hooks
)

// New constructs a Kit, mirroring orchestrator.New.
func New(options ...Option) *Kit {
	return orchestrator.New(options...)
}

// WithLoggerProvider resolves module loggers from provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return orchestrator.WithLoggerProvider(provider)
}

// WithFormsFS defines every form file found in fsys.
func WithFormsFS(fsys fs.FS) Option {
	return orchestrator.WithFormsFS(fsys)
}

// WithOptionsFS loads select option lists from fsys.
func WithOptionsFS(fsys fs.FS) Option {
	return orchestrator.WithOptionsFS(fsys)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// the theme is resolved before the first render.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return orchestrator.WithThemeSelector(selector, name, variant)
}

// WithThemeProvider constructs a go-theme selector from provider using the
// supplied defaults.
func WithThemeProvider(provider theme.ThemeProvider, defaultTheme, defaultVariant string) Option {
	return orchestrator.WithThemeProvider(provider, defaultTheme, defaultVariant)
}

// WithSubtypeProvider installs self-contained subtypes such as
// components/timezones.
func WithSubtypeProvider(providers ...orchestrator.SubtypeProvider) Option {
	return orchestrator.WithSubtypeProvider(providers...)
}

// Int returns a pointer to v for the optional numeric field attributes.
func Int(v int) *int {
	return model.Int(v)
}

// ImportOpenAPI loads an OpenAPI document and defines a form on kit from the
// component schema called schemaName.
func ImportOpenAPI(ctx context.Context, kit *Kit, src openapi.Source, schemaName string, options ...openapi.LoaderOption) (Form, error) {
	data, err := openapi.Load(ctx, src, options...)
	if err != nil {
		return Form{}, err
	}
	return kit.ImportOpenAPI(ctx, data, schemaName)
}
