package engine

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-formdef/pkg/model"
)

type viewRow struct {
	Code  string
	Label string
	Text  string
}

// RenderView renders obj read-only as one "Label: value" row per field, in
// definition order. A field whose type has no view handler, or whose handler
// fails, is logged and left out; the other fields still render.
func (e *Engine) RenderView(ctx context.Context, form model.Form, obj model.Object) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}
	logger := e.log(ctx)
	env := e.env(logger, nil)

	rows := make([]viewRow, 0, len(form.Fields))
	for _, field := range form.Fields {
		view, ok := e.types.View(field.Type)
		if !ok {
			logger.Error("no view handler for field type",
				"form", form.Type, "field", field.Code, "type", field.Type)
			continue
		}

		var (
			text    string
			present bool
		)
		if !collect(logger, "view", form, field, func() error {
			var err error
			text, present, err = view(env, field, obj[field.Code])
			return err
		}) {
			continue
		}
		if !present {
			continue
		}
		rows = append(rows, viewRow{Code: field.Code, Label: field.Label(), Text: text})
	}

	data := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		data = append(data, map[string]any{
			"code":  row.Code,
			"label": row.Label,
			"value": multiline(row.Text),
		})
	}

	out, err := e.templates.RenderTemplate(e.themed.template(PartialView), e.themed.decorate(map[string]any{
		"type": form.Type,
		"rows": data,
	}))
	if err != nil {
		return "", fmt.Errorf("engine: render view %q: %w", form.Type, err)
	}
	return out, nil
}

// multiline escapes text and keeps its line breaks visible.
func multiline(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(lines, "<br>")
}
