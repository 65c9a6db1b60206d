package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdef/internal/logging"
	"github.com/goliatone/go-formdef/pkg/definition"
	"github.com/goliatone/go-formdef/pkg/dom"
	"github.com/goliatone/go-formdef/pkg/engine"
	"github.com/goliatone/go-formdef/pkg/fieldtypes"
	"github.com/goliatone/go-formdef/pkg/interfaces"
	"github.com/goliatone/go-formdef/pkg/model"
	"github.com/goliatone/go-formdef/pkg/openapi"
	"github.com/goliatone/go-formdef/pkg/selectable"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithDefinitions injects the form definition registry.
func WithDefinitions(reg *definition.Registry) Option {
	return func(o *Orchestrator) {
		o.definitions = reg
	}
}

// WithFieldTypes injects the field type registry.
func WithFieldTypes(reg *fieldtypes.Registry) Option {
	return func(o *Orchestrator) {
		o.types = reg
	}
}

// WithSubtypes injects the selectable subtype registry.
func WithSubtypes(reg *selectable.Registry) Option {
	return func(o *Orchestrator) {
		o.subtypes = reg
	}
}

// WithOptionsSource injects the lookup select fields read their options from.
// SetOptions and ImportOpenAPI only work with a *selectable.StaticSource.
func WithOptionsSource(src selectable.Source) Option {
	return func(o *Orchestrator) {
		o.options = src
	}
}

// WithLoggerProvider resolves module loggers from provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *Orchestrator) {
		o.provider = provider
	}
}

// WithEngineOptions forwards options to the engine. Registries, options
// source and logger are set by the orchestrator and should not be passed
// here.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *Orchestrator) {
		o.engineOptions = append(o.engineOptions, opts...)
	}
}

// WithFormsFS defines every form found in fsys during construction.
func WithFormsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.formsFS = fsys
	}
}

// WithOptionsFS loads option lists from fsys into a static options source.
func WithOptionsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.optionsFS = fsys
	}
}

// WithThemeSelector resolves the theme used by every render through
// selector. name and variant may be empty to use the selector defaults.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
		o.themeName = name
		o.themeVariant = variant
	}
}

// WithThemeProvider builds a go-theme selector over provider with the given
// defaults.
func WithThemeProvider(provider theme.ThemeProvider, defaultTheme, defaultVariant string) Option {
	return func(o *Orchestrator) {
		if provider == nil {
			return
		}
		o.themeSelector = &theme.Selector{
			Registry:       provider,
			DefaultTheme:   defaultTheme,
			DefaultVariant: defaultVariant,
		}
	}
}

// SubtypeProvider bundles the option list and hooks of one selectable
// subtype, such as the timezones component.
type SubtypeProvider interface {
	Subtype() string
	SelectOptions() ([]selectable.Option, error)
	Hooks() selectable.Hooks
}

// WithSubtypeProvider registers the hooks of each provider and installs its
// options into the static options source.
func WithSubtypeProvider(providers ...SubtypeProvider) Option {
	return func(o *Orchestrator) {
		o.providers = append(o.providers, providers...)
	}
}

// Orchestrator owns the registries of one application and exposes the form
// entry points over them. Construction errors are kept and returned by every
// operation.
type Orchestrator struct {
	definitions   *definition.Registry
	types         *fieldtypes.Registry
	subtypes      *selectable.Registry
	options       selectable.Source
	provider      interfaces.LoggerProvider
	logger        interfaces.Logger
	engineOptions []engine.Option
	formsFS       fs.FS
	optionsFS     fs.FS
	providers     []SubtypeProvider
	themeSelector theme.ThemeSelector
	themeName     string
	themeVariant  string

	engine        *engine.Engine
	initialiseErr error
}

// New constructs an Orchestrator. Missing collaborators default to the
// built-in field types, empty registries and an empty static options source.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	o.logger = logging.ModuleLogger(o.provider, logging.RootModule)

	if o.definitions == nil {
		o.definitions = definition.NewRegistry(
			definition.WithLogger(logging.ModuleLogger(o.provider, logging.DefinitionModule)),
		)
	}
	if o.types == nil {
		o.types = fieldtypes.NewRegistry()
	}
	if o.subtypes == nil {
		o.subtypes = selectable.NewRegistry()
	}
	if o.options == nil {
		src, err := selectable.LoadSourceFS(o.optionsFS)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load options: %w", err)
			return
		}
		o.options = src
	}

	for _, provider := range o.providers {
		if err := o.installProvider(provider); err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: subtype provider: %w", err)
			return
		}
	}

	opts := append([]engine.Option{}, o.engineOptions...)
	if o.themeSelector != nil {
		selection, err := o.themeSelector.Select(o.themeName, o.themeVariant)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: select theme: %w", err)
			return
		}
		if selection != nil {
			o.logger.Debug("theme selected", "theme", selection.Theme, "variant", selection.Variant)
			opts = append(opts, engine.WithTheme(selection))
		}
	}
	opts = append(opts,
		engine.WithFieldTypes(o.types),
		engine.WithSubtypes(o.subtypes),
		engine.WithOptionsSource(o.options),
		engine.WithLogger(logging.ModuleLogger(o.provider, logging.EngineModule)),
	)
	eng, err := engine.New(opts...)
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: build engine: %w", err)
		return
	}
	o.engine = eng

	if o.formsFS != nil {
		forms, err := definition.LoadFS(o.formsFS, o.definitions)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load forms: %w", err)
			return
		}
		o.logger.Debug("forms loaded", "count", len(forms))
	}
}

func (o *Orchestrator) installProvider(provider SubtypeProvider) error {
	if provider == nil {
		return nil
	}
	subtype := provider.Subtype()
	options, err := provider.SelectOptions()
	if err != nil {
		return fmt.Errorf("%s: %w", subtype, err)
	}
	if err := o.SetOptions(subtype, options...); err != nil {
		return fmt.Errorf("%s: %w", subtype, err)
	}
	o.subtypes.Register(subtype, provider.Hooks())
	o.logger.Debug("subtype provider installed", "subtype", subtype, "options", len(options))
	return nil
}

// Err returns the error recorded during construction, if any.
func (o *Orchestrator) Err() error {
	return o.initialiseErr
}

// Engine returns the configured engine.
func (o *Orchestrator) Engine() *engine.Engine {
	return o.engine
}

// DefineForm normalizes and stores raw.
func (o *Orchestrator) DefineForm(raw model.RawForm) (model.Form, error) {
	if o.initialiseErr != nil {
		return model.Form{}, o.initialiseErr
	}
	return o.definitions.Define(raw)
}

// Form returns the definition stored under formType.
func (o *Orchestrator) Form(formType string) (model.Form, bool) {
	return o.definitions.Get(formType)
}

// Forms lists the defined form types.
func (o *Orchestrator) Forms() []string {
	return o.definitions.Names()
}

// RenderView renders obj read-only.
func (o *Orchestrator) RenderView(ctx context.Context, form model.Form, obj model.Object) (string, error) {
	if o.initialiseErr != nil {
		return "", o.initialiseErr
	}
	return o.engine.RenderView(ctx, form, obj)
}

// RenderEdit renders the editable form for obj.
func (o *Orchestrator) RenderEdit(ctx context.Context, form model.Form, obj model.Object, mode engine.Mode) (*engine.EditView, error) {
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	return o.engine.RenderEdit(ctx, form, obj, mode)
}

// FinalizeEditor runs the enhancement callbacks queued by RenderEdit.
func (o *Orchestrator) FinalizeEditor() int {
	if o.engine == nil {
		return 0
	}
	return o.engine.FinalizeEditor()
}

// Extract reads the form values back out of doc.
func (o *Orchestrator) Extract(ctx context.Context, form model.Form, doc *dom.Document, mode engine.Mode) (model.Object, error) {
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	return o.engine.Extract(ctx, form, doc, mode)
}

// Validate extracts and validates the form values held by doc.
func (o *Orchestrator) Validate(ctx context.Context, form model.Form, doc *dom.Document, mode engine.Mode) (model.Object, error) {
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	return o.engine.Validate(ctx, form, doc, mode)
}

// RegisterFieldType adds or overrides the handlers of a field type.
func (o *Orchestrator) RegisterFieldType(typeName string, handlers fieldtypes.Handlers) {
	o.types.Register(typeName, handlers)
}

// RegisterSelectableSubtype adds or overrides the hooks of a subtype.
func (o *Orchestrator) RegisterSelectableSubtype(subtype string, hooks selectable.Hooks) {
	o.subtypes.Register(subtype, hooks)
}

// ErrStaticOptionsRequired is returned when options are written to a source
// that is not a *selectable.StaticSource.
var ErrStaticOptionsRequired = errors.New("orchestrator: options source is not writable")

// SetOptions replaces the option list of subtype.
func (o *Orchestrator) SetOptions(subtype string, options ...selectable.Option) error {
	static, ok := o.options.(*selectable.StaticSource)
	if !ok {
		return ErrStaticOptionsRequired
	}
	static.Set(subtype, options...)
	return nil
}

// HasOptions reports whether the options source knows subtype.
func (o *Orchestrator) HasOptions(subtype string) bool {
	if o.options == nil {
		return false
	}
	_, ok := o.options.Options(subtype)
	return ok
}

// ImportOpenAPI defines a form from the component schema called schemaName
// and installs the option lists generated for its enums.
func (o *Orchestrator) ImportOpenAPI(ctx context.Context, data []byte, schemaName string, opts ...openapi.ImportOption) (model.Form, error) {
	if o.initialiseErr != nil {
		return model.Form{}, o.initialiseErr
	}
	imported, err := openapi.ImportSchema(ctx, data, schemaName, opts...)
	if err != nil {
		return model.Form{}, err
	}
	for subtype, options := range imported.Subtypes {
		if err := o.SetOptions(subtype, options...); err != nil {
			return model.Form{}, err
		}
	}
	if len(imported.Skipped) > 0 {
		o.logger.Warn("openapi properties without a field type",
			"schema", schemaName, "properties", imported.Skipped)
	}
	return o.definitions.Define(imported.Form)
}
