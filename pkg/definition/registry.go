package definition

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-formdef/internal/logging"
	"github.com/goliatone/go-formdef/pkg/interfaces"
	"github.com/goliatone/go-formdef/pkg/model"
)

// TextCodeFormTypeRequired tags the error returned for a raw form without a
// type.
const TextCodeFormTypeRequired = "FORM_TYPE_REQUIRED"

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for definition diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry stores normalized forms by type. Defining a type again replaces
// the previous definition.
type Registry struct {
	mu     sync.RWMutex
	forms  map[string]model.Form
	logger interfaces.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		forms:  make(map[string]model.Form),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(reg)
		}
	}
	return reg
}

// Define normalizes raw and stores it under raw.Type. Elements that fail the
// descriptor checks are logged, listed in Form.Diagnostics and skipped; the
// remaining elements are still defined. Only a missing form type is an error.
func (r *Registry) Define(raw model.RawForm) (model.Form, error) {
	formType := strings.TrimSpace(raw.Type)
	if formType == "" {
		return model.Form{}, goerrors.Wrap(
			validation.Errors{"type": validation.ErrRequired},
			goerrors.CategoryValidation,
			"form definition requires a type",
		).WithTextCode(TextCodeFormTypeRequired)
	}

	form := Normalize(raw)
	for _, diagnostic := range form.Diagnostics {
		r.logger.Error("invalid field descriptor", "form", formType, "problem", diagnostic)
	}

	r.mu.Lock()
	r.forms[formType] = form
	r.mu.Unlock()

	return form, nil
}

// Get returns the form stored under formType.
func (r *Registry) Get(formType string) (model.Form, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	form, ok := r.forms[formType]
	return form, ok
}

// Names lists defined form types, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.forms))
	for name := range r.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize builds a Form from raw without storing it. Fields are unique by
// code: the first occurrence fixes the position, the last one provides the
// attributes.
func Normalize(raw model.RawForm) model.Form {
	form := model.Form{Type: strings.TrimSpace(raw.Type)}
	index := make(map[string]int, len(raw.Elements))

	for pos, element := range raw.Elements {
		if err := ValidateField(element); err != nil {
			form.Diagnostics = append(form.Diagnostics, fmt.Sprintf("element %d (%q): %v", pos, element.Code, err))
			continue
		}
		if at, seen := index[element.Code]; seen {
			form.Fields[at] = element
			continue
		}
		index[element.Code] = len(form.Fields)
		form.Fields = append(form.Fields, element)
	}
	return form
}

// ValidateField checks the required descriptor attributes: type, code, and a
// name unless the field is a const.
func ValidateField(field model.Field) error {
	return validation.ValidateStruct(&field,
		validation.Field(&field.Type, validation.Required),
		validation.Field(&field.Code, validation.Required),
		validation.Field(&field.Name, validation.When(field.Type != model.KindConst, validation.Required)),
	)
}
