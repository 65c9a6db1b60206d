package engine

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	gotheme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formdef/internal/logging"
	"github.com/goliatone/go-formdef/pkg/dom"
	"github.com/goliatone/go-formdef/pkg/fieldtypes"
	"github.com/goliatone/go-formdef/pkg/interfaces"
	"github.com/goliatone/go-formdef/pkg/model"
	"github.com/goliatone/go-formdef/pkg/render/template"
	"github.com/goliatone/go-formdef/pkg/render/template/pongo"
	"github.com/goliatone/go-formdef/pkg/selectable"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const (
	fieldTemplate    = "templates/field.tmpl"
	formTemplate     = "templates/form.tmpl"
	viewTemplate     = "templates/view.tmpl"
	inputTemplate    = "templates/input.tmpl"
	textareaTemplate = "templates/textarea.tmpl"
	selectTemplate   = "templates/select.tmpl"
	checkboxTemplate = "templates/checkbox.tmpl"
)

// ErrorSlotSuffix is appended to a control id to address its error slot.
const ErrorSlotSuffix = dom.ErrorSlotSuffix

// MissingPolicy decides what Extract does with a visible field whose type has
// no extract handler.
type MissingPolicy int

const (
	// SkipMissing logs the field and leaves its key out of the result.
	SkipMissing MissingPolicy = iota
	// FailMissing aborts the extraction.
	FailMissing
)

// Enhancer upgrades a rendered control after the host inserted the edit
// markup. Enhancers run from FinalizeEditor.
type Enhancer func(ctrl dom.Control)

// Mode addresses controls and decides field visibility for one edit cycle.
type Mode struct {
	IDPrefix string
	Creation bool
}

// ControlID returns the id of the control rendered for code.
func (m Mode) ControlID(code string) string {
	return m.IDPrefix + code
}

// ErrorSlotID returns the id of the inline error slot rendered for code.
func (m Mode) ErrorSlotID(code string) string {
	return dom.ErrorSlotID(m.ControlID(code))
}

// Hidden reports whether field is left out in this mode.
func (m Mode) Hidden(field model.Field) bool {
	if m.Creation {
		return field.HideCreate
	}
	return field.HideEdit
}

// Option configures an Engine.
type Option func(*Engine)

// WithFieldTypes sets the field type handler registry.
func WithFieldTypes(reg *fieldtypes.Registry) Option {
	return func(e *Engine) {
		if reg != nil {
			e.types = reg
		}
	}
}

// WithSubtypes sets the selectable subtype registry.
func WithSubtypes(reg *selectable.Registry) Option {
	return func(e *Engine) {
		if reg != nil {
			e.subtypes = reg
		}
	}
}

// WithOptionsSource sets the lookup select fields read their options from.
func WithOptionsSource(src selectable.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.options = src
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTemplates replaces the renderer used for the wrappers, the view rows
// and the built-in controls. It must resolve every template DefaultPartials
// names.
func WithTemplates(renderer template.TemplateRenderer) Option {
	return func(e *Engine) {
		if renderer != nil {
			e.templates = renderer
		}
	}
}

// WithMissingExtractor sets the policy for fields without an extract handler.
func WithMissingExtractor(policy MissingPolicy) Option {
	return func(e *Engine) {
		e.missing = policy
	}
}

// WithEnhancer registers the callback queued for every control that asks for
// enhancement during RenderEdit.
func WithEnhancer(fn Enhancer) Option {
	return func(e *Engine) {
		e.enhancer = fn
	}
}

// WithDescriptionPolicy sets the sanitizer applied to field descriptions.
func WithDescriptionPolicy(policy *bluemonday.Policy) Option {
	return func(e *Engine) {
		if policy != nil {
			e.policy = policy
		}
	}
}

// Engine renders, extracts and validates forms against injected registries.
type Engine struct {
	types     *fieldtypes.Registry
	subtypes  *selectable.Registry
	options   selectable.Source
	logger    interfaces.Logger
	templates template.TemplateRenderer
	missing   MissingPolicy
	enhancer  Enhancer
	policy    *bluemonday.Policy
	theme     *gotheme.Selection
	cssPrefix string
	themed    themeContext

	mu      sync.Mutex
	pending []func()
}

// New builds an Engine. Without options it uses the built-in field types, an
// empty subtype registry, no options source and the embedded templates.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: logging.NoOp(),
		policy: bluemonday.UGCPolicy(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.types == nil {
		e.types = fieldtypes.NewRegistry()
	}
	if e.subtypes == nil {
		e.subtypes = selectable.NewRegistry()
	}
	if e.options == nil {
		e.options = selectable.NewStaticSource(nil)
	}
	e.themed = newThemeContext(e.theme, e.cssPrefix)
	if e.templates == nil {
		renderer, err := DefaultTemplates()
		if err != nil {
			return nil, err
		}
		e.templates = renderer
	}
	return e, nil
}

// DefaultTemplates returns a renderer over the embedded templates.
func DefaultTemplates() (template.TemplateRenderer, error) {
	renderer, err := pongo.New(pongo.WithFS(embeddedTemplates))
	if err != nil {
		return nil, fmt.Errorf("engine: default templates: %w", err)
	}
	return renderer, nil
}

// TemplatesFS exposes the embedded templates so callers can copy and
// override them.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// Theme returns the theme selection in use, or nil.
func (e *Engine) Theme() *gotheme.Selection {
	return e.theme
}

// FieldTypes returns the field type registry in use.
func (e *Engine) FieldTypes() *fieldtypes.Registry {
	return e.types
}

// Subtypes returns the selectable subtype registry in use.
func (e *Engine) Subtypes() *selectable.Registry {
	return e.subtypes
}

func (e *Engine) log(ctx context.Context) interfaces.Logger {
	logger := logging.Ensure(e.logger)
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}

func (e *Engine) env(logger interfaces.Logger, enhance func(dom.Control)) fieldtypes.Env {
	return fieldtypes.Env{
		Options:  e.options,
		Subtypes: e.subtypes,
		Logger:   logger,
		Render:   e.renderControl,
		Enhance:  enhance,
	}
}

func (e *Engine) renderControl(partial string, data map[string]any) (string, error) {
	return e.templates.RenderTemplate(e.themed.template(partial), data)
}
