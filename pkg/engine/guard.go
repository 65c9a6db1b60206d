package engine

import (
	"github.com/goliatone/go-formdef/pkg/interfaces"
	"github.com/goliatone/go-formdef/pkg/model"
)

// protect runs fn and converts a panic into a *PanicError.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}

// collect is the view/edit policy: a failing field is logged and the caller
// moves on to the next one. It reports whether fn succeeded.
func collect(logger interfaces.Logger, op string, form model.Form, field model.Field, fn func() error) bool {
	if err := protect(fn); err != nil {
		logger.Error("field handler failed",
			"op", op,
			"form", form.Type,
			"field", field.Code,
			"type", field.Type,
			"error", err,
		)
		return false
	}
	return true
}

// failFast is the extraction policy: the first failing field aborts the
// whole operation.
func failFast(logger interfaces.Logger, form model.Form, field model.Field, fn func() error) error {
	if err := protect(fn); err != nil {
		logger.Error("extraction aborted",
			"form", form.Type,
			"field", field.Code,
			"type", field.Type,
			"error", err,
		)
		return extractionError(field, err)
	}
	return nil
}
