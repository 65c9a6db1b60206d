package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formdef/pkg/dom"
	"github.com/goliatone/go-formdef/pkg/fieldtypes"
	"github.com/goliatone/go-formdef/pkg/model"
)

// EditView is the result of RenderEdit: the markup to insert and the control
// state it was seeded with, addressed by the same ids Extract and Validate
// read.
type EditView struct {
	HTML     string
	Document *dom.Document
	// Fields lists the codes that produced markup, in order.
	Fields []string
}

// RenderEdit renders the editable controls for obj. Fields hidden in mode and
// fields whose edit handler renders nothing produce no markup at all. Every
// other field is wrapped with its label, sanitized description and a hidden
// error slot. Handler failures are logged and the field is skipped, along
// with any enhancement it asked for.
func (e *Engine) RenderEdit(ctx context.Context, form model.Form, obj model.Object, mode Mode) (*EditView, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	logger := e.log(ctx)
	var queued []dom.Control
	env := e.env(logger, func(ctrl dom.Control) {
		queued = append(queued, ctrl)
	})

	view := &EditView{Document: dom.New()}
	fragments := make([]string, 0, len(form.Fields))

	for _, field := range form.Fields {
		if mode.Hidden(field) {
			continue
		}
		edit, ok := e.types.Edit(field.Type)
		if !ok {
			logger.Error("no edit handler for field type",
				"form", form.Type, "field", field.Code, "type", field.Type)
			continue
		}

		id := mode.ControlID(field.Code)
		queued = queued[:0]
		var (
			result  fieldtypes.EditResult
			present bool
		)
		if !collect(logger, "edit", form, field, func() error {
			var err error
			result, present, err = edit(env, field, obj[field.Code], id)
			return err
		}) {
			continue
		}
		if !present {
			continue
		}

		var fragment string
		if !collect(logger, "wrap", form, field, func() error {
			var err error
			fragment, err = e.wrapField(form, field, mode, result.HTML)
			return err
		}) {
			continue
		}

		ctrl := result.Control
		if ctrl.ID == "" {
			ctrl.ID = id
		}
		if ctrl.Label == "" {
			ctrl.Label = field.Label()
		}
		view.Document.Add(ctrl)
		view.Document.HideError(mode.ErrorSlotID(field.Code))
		for _, pending := range queued {
			e.enqueue(pending)
		}
		view.Fields = append(view.Fields, field.Code)
		fragments = append(fragments, fragment)
	}

	out, err := e.templates.RenderTemplate(e.themed.template(PartialForm), e.themed.decorate(map[string]any{
		"type":   form.Type,
		"fields": fragments,
	}))
	if err != nil {
		return nil, fmt.Errorf("engine: render edit %q: %w", form.Type, err)
	}
	view.HTML = out
	return view, nil
}

func (e *Engine) wrapField(form model.Form, field model.Field, mode Mode, control string) (string, error) {
	description := ""
	if desc := strings.TrimSpace(field.Desc); desc != "" {
		description = e.policy.Sanitize(desc)
	}
	return e.templates.RenderTemplate(e.themed.template(PartialField), map[string]any{
		"form":        form.Type,
		"type":        field.Type,
		"code":        field.Code,
		"id":          mode.ControlID(field.Code),
		"error_id":    mode.ErrorSlotID(field.Code),
		"label":       field.Label(),
		"description": description,
		"control":     control,
	})
}
