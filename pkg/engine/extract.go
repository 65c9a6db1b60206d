package engine

import (
	"context"

	"github.com/goliatone/go-formdef/pkg/dom"
	"github.com/goliatone/go-formdef/pkg/model"
)

// Extract reads every visible field back out of doc. Fields hidden in mode get
// no key. The first handler error, panic or undefined value aborts the whole
// extraction and nil is returned; a nil value is a legitimate null. A field
// type without an extract handler is handled by the MissingPolicy.
func (e *Engine) Extract(ctx context.Context, form model.Form, doc *dom.Document, mode Mode) (model.Object, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	logger := e.log(ctx)
	env := e.env(logger, nil)
	if doc == nil {
		doc = dom.New()
	}

	out := make(model.Object, len(form.Fields))
	for _, field := range form.Fields {
		if mode.Hidden(field) {
			continue
		}
		extract, ok := e.types.Extract(field.Type)
		if !ok {
			if e.missing == FailMissing {
				logger.Error("no extract handler for field type, aborting",
					"form", form.Type, "field", field.Code, "type", field.Type)
				return nil, missingExtractorError(field)
			}
			logger.Error("no extract handler for field type",
				"form", form.Type, "field", field.Code, "type", field.Type)
			continue
		}

		ctrl, _ := doc.Control(mode.ControlID(field.Code))
		var (
			value   any
			present bool
		)
		if err := failFast(logger, form, field, func() error {
			var err error
			value, present, err = extract(env, field, ctrl)
			if err == nil && !present {
				err = ErrUndefinedValue
			}
			return err
		}); err != nil {
			return nil, err
		}
		out[field.Code] = value
	}
	return out, nil
}
