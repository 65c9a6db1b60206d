package selectable

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formdef/pkg/model"
)

// ViewHook replaces the default "show the matching option label" rendering.
type ViewHook func(field model.Field, value any, options []Option) (text string, ok bool, err error)

// OptionsHook filters or transforms the option list before it populates an
// edit control. value is the field's current value.
type OptionsHook func(field model.Field, options []Option, value any) []Option

// ExtractHook post-processes the raw selection read from a control.
type ExtractHook func(field model.Field, raw any) (any, error)

// ValidateHook applies subtype business rules. A non-empty return value is
// the error comment shown to the user.
type ValidateHook func(field model.Field, value any) string

// Hooks groups the optional overrides for one subtype.
type Hooks struct {
	View     ViewHook
	Options  OptionsHook
	Extract  ExtractHook
	Validate ValidateHook
}

// Registry holds subtype hooks. Registration adds or overwrites entries;
// nothing is ever removed.
type Registry struct {
	mu       sync.RWMutex
	view     map[string]ViewHook
	options  map[string]OptionsHook
	extract  map[string]ExtractHook
	validate map[string]ValidateHook
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		view:     make(map[string]ViewHook),
		options:  make(map[string]OptionsHook),
		extract:  make(map[string]ExtractHook),
		validate: make(map[string]ValidateHook),
	}
}

// Register installs the non-nil hooks for subtype. Omitted hooks keep any
// previous registration.
func (r *Registry) Register(subtype string, hooks Hooks) {
	if r == nil {
		return
	}
	subtype = strings.TrimSpace(subtype)
	if subtype == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if hooks.View != nil {
		r.view[subtype] = hooks.View
	}
	if hooks.Options != nil {
		r.options[subtype] = hooks.Options
	}
	if hooks.Extract != nil {
		r.extract[subtype] = hooks.Extract
	}
	if hooks.Validate != nil {
		r.validate[subtype] = hooks.Validate
	}
}

// View returns the view hook for subtype.
func (r *Registry) View(subtype string) (ViewHook, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	hook, ok := r.view[subtype]
	return hook, ok
}

// Options returns the options hook for subtype.
func (r *Registry) Options(subtype string) (OptionsHook, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	hook, ok := r.options[subtype]
	return hook, ok
}

// Extract returns the extract hook for subtype.
func (r *Registry) Extract(subtype string) (ExtractHook, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	hook, ok := r.extract[subtype]
	return hook, ok
}

// Validate returns the validate hook for subtype.
func (r *Registry) Validate(subtype string) (ValidateHook, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	hook, ok := r.validate[subtype]
	return hook, ok
}

// Subtypes lists every subtype with at least one hook.
func (r *Registry) Subtypes() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, m := range []map[string]struct{}{
		keys(r.view), keys(r.options), keys(r.extract), keys(r.validate),
	} {
		for name := range m {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func keys[V any](m map[string]V) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for name := range m {
		out[name] = struct{}{}
	}
	return out
}
