package fieldtypes

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/goliatone/go-formdef/pkg/dom"
	"github.com/goliatone/go-formdef/pkg/model"
	"github.com/goliatone/go-formdef/pkg/selectable"
)

// UndefinedText is shown by the str view when the value is absent.
const UndefinedText = "undefined"

// OutOfRangeMessage is the int comment for digits that do not fit an int.
const OutOfRangeMessage = "value is out of range"

const (
	defaultOnLabel  = "yes"
	defaultOffLabel = "no"
)

// ErrControlMissing is returned by extractors that need a control when the
// document has none under the field's id.
var ErrControlMissing = errors.New("fieldtypes: control not found")

// NotANumber is what the int extractor yields for text that does not start
// with an integer. It counts as a present value that fails validation.
type NotANumber struct {
	Raw string
}

func (n NotANumber) String() string {
	return "NaN"
}

func registerBuiltins(reg *Registry) {
	reg.Register(model.KindInt, Handlers{
		View:     viewInt,
		Edit:     editInt,
		Extract:  extractInt,
		Validate: validateInt,
	})
	reg.Register(model.KindStr, Handlers{
		View:     viewStr,
		Edit:     editStr,
		Extract:  extractStr,
		Validate: validateStr,
	})
	reg.Register(model.KindStr2Str, Handlers{
		View: viewStr2Str,
	})
	reg.Register(model.KindBool, Handlers{
		View:     viewBool,
		Edit:     editBool,
		Extract:  extractBool,
		Validate: func(Env, model.Field, any) string { return "" },
	})
	reg.Register(model.KindSelect, Handlers{
		View:     viewSelect,
		Edit:     editSelect,
		Extract:  extractSelect,
		Validate: validateSelect,
	})
	reg.Register(model.KindConst, Handlers{
		View:     func(Env, model.Field, any) (string, bool, error) { return "", false, nil },
		Edit:     func(Env, model.Field, any, string) (EditResult, bool, error) { return EditResult{}, false, nil },
		Extract:  extractConst,
		Validate: validateSelect,
	})
}

// int

func viewInt(_ Env, _ model.Field, value any) (string, bool, error) {
	if value == nil {
		return "", false, nil
	}
	return selectable.Stringify(value), true, nil
}

func editInt(env Env, field model.Field, value any, id string) (EditResult, bool, error) {
	current := "0"
	if value != nil {
		current = selectable.Stringify(value)
	}

	out, err := env.render(PartialInput, map[string]any{
		"id":         id,
		"input_type": "number",
		"class":      "fd-input fd-input-int",
		"value":      current,
		"min":        optionalInt(field.Min),
		"max":        optionalInt(field.Max),
	})
	if err != nil {
		return EditResult{}, false, err
	}

	return EditResult{
		HTML: out,
		Control: dom.Control{
			ID:     id,
			Kind:   dom.KindNumber,
			Label:  field.Label(),
			Values: []string{current},
		},
	}, true, nil
}

func extractInt(_ Env, field model.Field, ctrl *dom.Control) (any, bool, error) {
	if ctrl == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrControlMissing, field.Code)
	}
	return ParseIntPrefix(ctrl.Value()), true, nil
}

func validateInt(_ Env, field model.Field, value any) string {
	if value == nil {
		return ""
	}
	if _, nan := value.(NotANumber); nan {
		return "value is not a number"
	}
	if f, big := value.(float64); big && (f >= math.MaxInt || f <= math.MinInt) {
		if field.Min != nil || field.Max != nil {
			return rangeMessage("value must be", field.Min, field.Max, "")
		}
		return OutOfRangeMessage
	}
	n, err := cast.ToIntE(value)
	if err != nil {
		return "value is not a number"
	}
	if (field.Min != nil && n < *field.Min) || (field.Max != nil && n > *field.Max) {
		return rangeMessage("value must be", field.Min, field.Max, "")
	}
	return ""
}

func optionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// ParseIntPrefix reads a base-10 integer from the start of s, skipping
// leading white space and ignoring anything after the digits. Text without a
// leading integer yields NotANumber. Digits that overflow int yield a
// float64 so range checks still apply.
func ParseIntPrefix(s string) any {
	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(trimmed) && (trimmed[end] == '-' || trimmed[end] == '+') {
		end++
	}
	digits := end
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == digits {
		return NotANumber{Raw: s}
	}
	n, err := strconv.Atoi(trimmed[:end])
	if err == nil {
		return n
	}
	if f, ferr := strconv.ParseFloat(trimmed[:end], 64); ferr == nil {
		return f
	}
	return NotANumber{Raw: s}
}

// str

func viewStr(_ Env, _ model.Field, value any) (string, bool, error) {
	if value == nil {
		return UndefinedText, true, nil
	}
	return selectable.Stringify(value), true, nil
}

func editStr(env Env, field model.Field, value any, id string) (EditResult, bool, error) {
	current := ""
	if value != nil {
		current = selectable.Stringify(value)
	}
	if field.MaxLen != nil && *field.MaxLen >= 0 && utf8.RuneCountInString(current) > *field.MaxLen {
		current = string([]rune(current)[:*field.MaxLen])
	}

	data := map[string]any{
		"id":         id,
		"input_type": "text",
		"class":      "fd-input",
		"value":      current,
		"max_len":    optionalInt(field.MaxLen),
	}
	if field.MaxLen != nil {
		data["remaining"] = *field.MaxLen - utf8.RuneCountInString(current)
	}

	kind, partial := dom.KindInput, PartialInput
	if field.Long {
		kind, partial = dom.KindTextarea, PartialTextarea
	}
	out, err := env.render(partial, data)
	if err != nil {
		return EditResult{}, false, err
	}

	return EditResult{
		HTML: out,
		Control: dom.Control{
			ID:     id,
			Kind:   kind,
			Label:  field.Label(),
			Values: []string{current},
		},
	}, true, nil
}

func extractStr(_ Env, field model.Field, ctrl *dom.Control) (any, bool, error) {
	if ctrl == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrControlMissing, field.Code)
	}
	return ctrl.Value(), true, nil
}

func validateStr(_ Env, field model.Field, value any) string {
	if field.MinLen == nil && field.MaxLen == nil {
		return ""
	}
	length := 0
	if value != nil {
		length = utf8.RuneCountInString(selectable.Stringify(value))
	}
	if (field.MinLen != nil && length < *field.MinLen) || (field.MaxLen != nil && length > *field.MaxLen) {
		return rangeMessage("length must be", field.MinLen, field.MaxLen, " characters")
	}
	return ""
}

func rangeMessage(prefix string, lower, upper *int, unit string) string {
	switch {
	case lower != nil && upper != nil:
		return fmt.Sprintf("%s between %d and %d%s", prefix, *lower, *upper, unit)
	case lower != nil:
		return fmt.Sprintf("%s at least %d%s", prefix, *lower, unit)
	default:
		return fmt.Sprintf("%s at most %d%s", prefix, *upper, unit)
	}
}

// str2str

func viewStr2Str(_ Env, _ model.Field, value any) (string, bool, error) {
	if value == nil {
		return "", false, nil
	}
	pairs, err := cast.ToStringMapStringE(value)
	if err != nil {
		return "", false, fmt.Errorf("fieldtypes: str2str value: %w", err)
	}
	keys := make([]string, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+": "+pairs[key])
	}
	return strings.Join(lines, "\n"), true, nil
}

// bool

func viewBool(_ Env, field model.Field, value any) (string, bool, error) {
	on, off := boolLabels(field)
	if truthy(value) {
		return on, true, nil
	}
	return off, true, nil
}

func editBool(env Env, field model.Field, value any, id string) (EditResult, bool, error) {
	on, off := boolLabels(field)
	checked := value == true || selectable.ValuesEqual(value, 1)
	label := off
	if checked {
		label = on
	}

	out, err := env.render(PartialCheckbox, map[string]any{
		"id":      id,
		"on":      on,
		"off":     off,
		"label":   label,
		"checked": checked,
	})
	if err != nil {
		return EditResult{}, false, err
	}

	return EditResult{
		HTML: out,
		Control: dom.Control{
			ID:      id,
			Kind:    dom.KindCheckbox,
			Label:   field.Label(),
			Checked: checked,
		},
	}, true, nil
}

func extractBool(_ Env, field model.Field, ctrl *dom.Control) (any, bool, error) {
	if ctrl == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrControlMissing, field.Code)
	}
	return ctrl.Checked, true, nil
}

func boolLabels(field model.Field) (string, string) {
	on, off := field.On, field.Off
	if on == "" {
		on = defaultOnLabel
	}
	if off == "" {
		off = defaultOffLabel
	}
	return on, off
}

func truthy(value any) bool {
	if value == nil {
		return false
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return false
	}
	return b
}

// const

func extractConst(_ Env, field model.Field, _ *dom.Control) (any, bool, error) {
	switch fn := field.Value.(type) {
	case model.ValueFunc:
		return fn(), true, nil
	case func() any:
		return fn(), true, nil
	default:
		return field.Value, true, nil
	}
}
