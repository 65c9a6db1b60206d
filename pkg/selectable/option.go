package selectable

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Option is one entry of a selectable list: either a bare value, used as its
// own label, or a (value, label) pair.
type Option struct {
	value any
	label any
	pair  bool
}

// Bare builds an option whose label is its value.
func Bare(value any) Option {
	return Option{value: value}
}

// Pair builds a (value, label) option.
func Pair(value, label any) Option {
	return Option{value: value, label: label, pair: true}
}

// Value returns the value half.
func (o Option) Value() any {
	return o.value
}

// Label returns the label half, or the value for bare options.
func (o Option) Label() any {
	if o.pair {
		return o.label
	}
	return o.value
}

// IsPair reports whether the option was declared as a pair.
func (o Option) IsPair() bool {
	return o.pair
}

// ValueString renders the value the way it appears in a control.
func (o Option) ValueString() string {
	return Stringify(o.value)
}

// LabelString renders the label text.
func (o Option) LabelString() string {
	return Stringify(o.Label())
}

// Matches compares the option value to v. Equal values match, and so do
// values whose string or numeric forms agree ("1" matches 1).
func (o Option) Matches(v any) bool {
	return ValuesEqual(o.value, v)
}

// ValuesEqual compares a and b tolerating string/number representation
// mismatches.
func ValuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if isComparable(a) && isComparable(b) && a == b {
		return true
	}
	if Stringify(a) == Stringify(b) {
		return true
	}
	af, aerr := cast.ToFloat64E(a)
	bf, berr := cast.ToFloat64E(b)
	if aerr != nil || berr != nil {
		return false
	}
	if !numericLike(a) || !numericLike(b) {
		return false
	}
	return af == bf
}

// Stringify renders scalar values without float noise.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func isComparable(v any) bool {
	return reflect.TypeOf(v).Comparable()
}

func numericLike(v any) bool {
	switch typed := v.(type) {
	case string:
		_, err := cast.ToFloat64E(typed)
		return err == nil && typed != ""
	case bool:
		return false
	default:
		_, err := cast.ToFloat64E(v)
		return err == nil
	}
}

// MarshalJSON encodes bare options as scalars and pairs as two-element lists.
func (o Option) MarshalJSON() ([]byte, error) {
	if o.pair {
		return json.Marshal([]any{o.value, o.label})
	}
	return json.Marshal(o.value)
}

// MarshalYAML mirrors MarshalJSON.
func (o Option) MarshalYAML() (any, error) {
	if o.pair {
		return []any{o.value, o.label}, nil
	}
	return o.value, nil
}

// UnmarshalJSON accepts a scalar or a two-element list.
func (o *Option) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := fromAny(raw)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// UnmarshalYAML accepts a scalar or a two-element sequence.
func (o *Option) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := fromAny(raw)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func fromAny(raw any) (Option, error) {
	list, ok := raw.([]any)
	if !ok {
		return Bare(raw), nil
	}
	if len(list) != 2 {
		return Option{}, fmt.Errorf("selectable: option pair must have 2 entries, got %d", len(list))
	}
	return Pair(list[0], list[1]), nil
}

// Find returns the first option matching value.
func Find(options []Option, value any) (Option, bool) {
	for _, option := range options {
		if option.Matches(value) {
			return option, true
		}
	}
	return Option{}, false
}
