package fieldtypes

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formdef/internal/logging"
	"github.com/goliatone/go-formdef/pkg/dom"
	"github.com/goliatone/go-formdef/pkg/interfaces"
	"github.com/goliatone/go-formdef/pkg/model"
	"github.com/goliatone/go-formdef/pkg/selectable"
)

// Partial keys of the built-in controls. The renderer resolves them against
// the active theme.
const (
	PartialInput    = "forms.input"
	PartialTextarea = "forms.textarea"
	PartialSelect   = "forms.select"
	PartialCheckbox = "forms.checkbox"
)

// ErrRendererMissing is returned by edit handlers when Env carries no control
// renderer.
var ErrRendererMissing = errors.New("fieldtypes: control renderer not configured")

// ControlRenderer renders the template registered under a partial key.
type ControlRenderer func(partial string, data map[string]any) (string, error)

// Env gives handlers access to the collaborators configured on the engine.
type Env struct {
	Options  selectable.Source
	Subtypes *selectable.Registry
	Logger   interfaces.Logger
	// Render renders control templates. The engine resolves partial keys
	// through its theme.
	Render ControlRenderer
	// Enhance queues a control for the post-render enhancement pass. It is
	// nil outside of edit rendering.
	Enhance func(ctrl dom.Control)
}

// Log returns the configured logger or a no-op one.
func (e Env) Log() interfaces.Logger {
	return logging.Ensure(e.Logger)
}

func (e Env) render(partial string, data map[string]any) (string, error) {
	if e.Render == nil {
		return "", fmt.Errorf("%w: %s", ErrRendererMissing, partial)
	}
	return e.Render(partial, data)
}

func (e Env) enqueue(ctrl dom.Control) {
	if e.Enhance != nil {
		e.Enhance(ctrl)
	}
}

// EditResult is what an edit handler produces: the control markup and the
// initial control state under the id it was given.
type EditResult struct {
	HTML    string
	Control dom.Control
}

// ViewFunc renders a read-only value as text. ok=false renders nothing.
type ViewFunc func(env Env, field model.Field, value any) (text string, ok bool, err error)

// EditFunc renders the editable control addressed by id. ok=false renders
// nothing, not even the field wrapper.
type EditFunc func(env Env, field model.Field, value any, id string) (EditResult, bool, error)

// ExtractFunc reads the field value back out of its control. ctrl is nil when
// the document has no control under the field's id. ok=false means the value
// is undefined, which aborts the whole extraction; a nil value with ok=true is
// a legitimate null.
type ExtractFunc func(env Env, field model.Field, ctrl *dom.Control) (value any, ok bool, err error)

// ValidateFunc returns a non-empty comment when value is not acceptable.
type ValidateFunc func(env Env, field model.Field, value any) string

// Handlers is the set of behaviours registered for one field type. Nil
// entries are left untouched by Register.
type Handlers struct {
	View     ViewFunc
	Edit     EditFunc
	Extract  ExtractFunc
	Validate ValidateFunc
}

// Registry maps field type names to handlers, one map per concern. Entries
// can be added or overwritten at any time; there is no removal.
type Registry struct {
	mu       sync.RWMutex
	view     map[string]ViewFunc
	edit     map[string]EditFunc
	extract  map[string]ExtractFunc
	validate map[string]ValidateFunc
}

// NewRegistry returns a registry holding the built-in field types.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	registerBuiltins(reg)
	return reg
}

// NewEmptyRegistry returns a registry without any field type.
func NewEmptyRegistry() *Registry {
	return &Registry{
		view:     make(map[string]ViewFunc),
		edit:     make(map[string]EditFunc),
		extract:  make(map[string]ExtractFunc),
		validate: make(map[string]ValidateFunc),
	}
}

// Register installs the non-nil handlers for typeName.
func (r *Registry) Register(typeName string, handlers Handlers) {
	if r == nil {
		return
	}
	typeName = strings.TrimSpace(typeName)
	if typeName == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if handlers.View != nil {
		r.view[typeName] = handlers.View
	}
	if handlers.Edit != nil {
		r.edit[typeName] = handlers.Edit
	}
	if handlers.Extract != nil {
		r.extract[typeName] = handlers.Extract
	}
	if handlers.Validate != nil {
		r.validate[typeName] = handlers.Validate
	}
}

func (r *Registry) View(typeName string) (ViewFunc, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.view[typeName]
	return fn, ok
}

func (r *Registry) Edit(typeName string) (EditFunc, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.edit[typeName]
	return fn, ok
}

func (r *Registry) Extract(typeName string) (ExtractFunc, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.extract[typeName]
	return fn, ok
}

func (r *Registry) Validate(typeName string) (ValidateFunc, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.validate[typeName]
	return fn, ok
}

// Types lists every type with at least one handler, sorted.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for name := range r.view {
		seen[name] = struct{}{}
	}
	for name := range r.edit {
		seen[name] = struct{}{}
	}
	for name := range r.extract {
		seen[name] = struct{}{}
	}
	for name := range r.validate {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
