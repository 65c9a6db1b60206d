package engine

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-formdef/pkg/dom"
	"github.com/goliatone/go-formdef/pkg/model"
)

// UncheckedMessage is shown for a field whose validate handler panicked.
const UncheckedMessage = "value could not be validated"

// Validate extracts the form and checks every visible field. Failing fields
// get their error slot shown with the handler comment, passing fields get it
// hidden. The extracted object is returned unchanged when every field
// passes; otherwise the result is nil and the error carries the comments (see
// FieldErrors). An extraction failure is returned as is.
func (e *Engine) Validate(ctx context.Context, form model.Form, doc *dom.Document, mode Mode) (model.Object, error) {
	if doc == nil {
		doc = dom.New()
	}
	obj, err := e.Extract(ctx, form, doc, mode)
	if err != nil {
		return nil, err
	}
	logger := e.log(ctx)
	env := e.env(logger, nil)

	failures := validation.Errors{}
	for _, field := range form.Fields {
		if mode.Hidden(field) {
			continue
		}
		slot := mode.ErrorSlotID(field.Code)

		value, extracted := obj[field.Code]
		check, ok := e.types.Validate(field.Type)
		if !extracted || !ok {
			if extracted {
				logger.Error("no validate handler for field type",
					"form", form.Type, "field", field.Code, "type", field.Type)
			}
			doc.HideError(slot)
			continue
		}

		var comment string
		if !collect(logger, "validate", form, field, func() error {
			comment = check(env, field, value)
			return nil
		}) {
			comment = UncheckedMessage
		}

		if comment == "" {
			doc.HideError(slot)
			continue
		}
		doc.ShowError(slot, comment)
		failures[field.Code] = errors.New(comment)
	}

	if len(failures) > 0 {
		logger.Debug("form validation failed", "form", form.Type, "fields", len(failures))
		return nil, validationError(failures)
	}
	return obj, nil
}
