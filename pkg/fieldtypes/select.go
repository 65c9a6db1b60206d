package fieldtypes

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-formdef/pkg/dom"
	"github.com/goliatone/go-formdef/pkg/model"
	"github.com/goliatone/go-formdef/pkg/selectable"
)

// ClearValue is the option value standing for "no selection" when a select
// field allows clearing. The extractor turns it into nil.
const ClearValue = "__fd_null__"

// NotSelectedMessage is the comment returned for a missing required
// selection.
const NotSelectedMessage = "value not selected"

func subtypeOptions(env Env, field model.Field) ([]selectable.Option, bool) {
	if env.Options == nil {
		return nil, false
	}
	return env.Options.Options(field.Subtype)
}

func viewSelect(env Env, field model.Field, value any) (string, bool, error) {
	options, found := subtypeOptions(env, field)
	if hook, ok := env.Subtypes.View(field.Subtype); ok {
		return hook(field, value, options)
	}
	if !found {
		env.Log().Error("selectable options missing", "field", field.Code, "subtype", field.Subtype)
		return "", false, nil
	}

	if field.Multiple {
		labels := make([]string, 0)
		for _, current := range valueList(value) {
			if option, ok := selectable.Find(options, current); ok {
				labels = append(labels, option.LabelString())
			}
		}
		if len(labels) == 0 {
			return field.EmptyOption, true, nil
		}
		return strings.Join(labels, ", "), true, nil
	}

	if option, ok := selectable.Find(options, value); ok {
		return option.LabelString(), true, nil
	}
	return field.EmptyOption, true, nil
}

func editSelect(env Env, field model.Field, value any, id string) (EditResult, bool, error) {
	options, found := subtypeOptions(env, field)
	if !found {
		env.Log().Error("selectable options missing", "field", field.Code, "subtype", field.Subtype)
	}
	if hook, ok := env.Subtypes.Options(field.Subtype); ok {
		options = hook(field, options, value)
	}

	current := valueList(value)
	ctrl := dom.Control{
		ID:       id,
		Kind:     dom.KindSelect,
		Label:    field.Label(),
		Multiple: field.Multiple,
	}

	type entry struct {
		value    string
		label    string
		selected bool
	}
	entries := make([]entry, 0, len(options)+1)
	if field.AllowClear {
		entries = append(entries, entry{value: ClearValue, label: field.EmptyOption, selected: len(current) == 0})
	}
	for _, option := range options {
		selected := false
		for _, v := range current {
			if option.Matches(v) {
				selected = true
				break
			}
		}
		entries = append(entries, entry{value: option.ValueString(), label: option.LabelString(), selected: selected})
	}

	selectedAt := -1
	for idx, e := range entries {
		ctrl.Options = append(ctrl.Options, e.value)
		ctrl.OptionLabels = append(ctrl.OptionLabels, e.label)
		if !e.selected {
			continue
		}
		if field.Multiple {
			ctrl.Values = append(ctrl.Values, e.value)
		} else if selectedAt < 0 {
			selectedAt = idx
		} else {
			entries[idx].selected = false
		}
	}
	if !field.Multiple && len(entries) > 0 {
		// Browsers select the first option of a single select when none is
		// marked selected.
		if selectedAt < 0 {
			selectedAt = 0
			entries[0].selected = true
		}
		ctrl.Values = []string{entries[selectedAt].value}
	}

	rows := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]any{"value": e.value, "label": e.label, "selected": e.selected})
	}
	emptyAlert := ""
	if len(options) == 0 && !field.AllowClear {
		emptyAlert = fmt.Sprintf("no options available for %q", field.Subtype)
	}

	out, err := env.render(PartialSelect, map[string]any{
		"id":          id,
		"subtype":     field.Subtype,
		"multiple":    field.Multiple,
		"options":     rows,
		"empty_alert": emptyAlert,
	})
	if err != nil {
		return EditResult{}, false, err
	}

	env.enqueue(ctrl)

	return EditResult{HTML: out, Control: ctrl}, true, nil
}

func extractSelect(env Env, field model.Field, ctrl *dom.Control) (any, bool, error) {
	if ctrl == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrControlMissing, field.Code)
	}
	options, _ := subtypeOptions(env, field)

	var raw any
	if field.Multiple {
		values := make([]any, 0, len(ctrl.Values))
		for _, v := range ctrl.Values {
			if v == ClearValue {
				continue
			}
			values = append(values, typedOption(options, v))
		}
		raw = values
	} else if len(ctrl.Values) > 0 && ctrl.Values[0] != ClearValue {
		raw = typedOption(options, ctrl.Values[0])
	}

	if hook, ok := env.Subtypes.Extract(field.Subtype); ok {
		value, err := hook(field, raw)
		if err != nil {
			return nil, false, err
		}
		return value, true, nil
	}
	return raw, true, nil
}

func validateSelect(env Env, field model.Field, value any) string {
	if isAbsent(value) && !field.AllowClear {
		return NotSelectedMessage
	}
	if hook, ok := env.Subtypes.Validate(field.Subtype); ok {
		return hook(field, value)
	}
	return ""
}

// typedOption maps the control text back to the option's original value.
func typedOption(options []selectable.Option, raw string) any {
	for _, option := range options {
		if option.ValueString() == raw {
			return option.Value()
		}
	}
	return raw
}

func valueList(value any) []any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{value}
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, rv.Index(i).Interface())
	}
	return out
}

func isAbsent(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return rv.Len() == 0
	}
	return false
}
