package engine

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-formdef/pkg/model"
)

const (
	TextCodeExtractorMissing = "EXTRACTOR_MISSING"
	TextCodeExtractionFailed = "EXTRACTION_FAILED"
	TextCodeValidationFailed = "VALIDATION_FAILED"
	TextCodeContextCanceled  = "FORM_CONTEXT_CANCELED"
)

var (
	// ErrUndefinedValue reports an extract handler that produced no value.
	ErrUndefinedValue = errors.New("extract handler returned an undefined value")
	// ErrNoHandler reports a field type without the handler an operation needs.
	ErrNoHandler = errors.New("no handler registered for field type")
)

// PanicError carries a recovered handler panic.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v", e.Value)
}

func missingExtractorError(field model.Field) error {
	return goerrors.Wrap(
		fmt.Errorf("%w %q (field %q)", ErrNoHandler, field.Type, field.Code),
		goerrors.CategoryValidation,
		"field type has no extract handler",
	).WithTextCode(TextCodeExtractorMissing)
}

func extractionError(field model.Field, err error) error {
	return goerrors.Wrap(
		fmt.Errorf("field %q: %w", field.Code, err),
		goerrors.CategoryCommand,
		"form extraction failed",
	).WithTextCode(TextCodeExtractionFailed)
}

func validationError(failures validation.Errors) error {
	return goerrors.Wrap(failures, goerrors.CategoryValidation, "form validation failed").
		WithTextCode(TextCodeValidationFailed)
}

func contextError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryCommand, "form operation cancelled").
		WithTextCode(TextCodeContextCanceled)
}

// FieldErrors returns the per-field comments carried by a Validate error,
// keyed by field code.
func FieldErrors(err error) map[string]string {
	var failures validation.Errors
	if !errors.As(err, &failures) {
		return nil
	}
	out := make(map[string]string, len(failures))
	for code, failure := range failures {
		if failure != nil {
			out[code] = failure.Error()
		}
	}
	return out
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return contextError(err)
	}
	return nil
}
