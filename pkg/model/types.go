package model

// Built-in field kinds understood by the default handler registry.
const (
	KindInt     = "int"
	KindStr     = "str"
	KindStr2Str = "str2str"
	KindBool    = "bool"
	KindSelect  = "select"
	KindConst   = "const"
)

// BuiltinKinds lists the kinds registered by fieldtypes.NewRegistry.
func BuiltinKinds() []string {
	return []string{KindInt, KindStr, KindStr2Str, KindBool, KindSelect, KindConst}
}

// Object is the value bag a form is rendered from and extracted into.
type Object = map[string]any

// ValueFunc produces a const field value at extraction time.
type ValueFunc func() any

// Field describes one form field. Only Code, Type and (Name unless the type is
// const) are required; the remaining attributes are read by the handlers that
// understand them.
type Field struct {
	Code    string `json:"code" yaml:"code"`
	Type    string `json:"type" yaml:"type"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Subtype string `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Desc    string `json:"desc,omitempty" yaml:"desc,omitempty"`

	HideCreate bool `json:"hideCreate,omitempty" yaml:"hideCreate,omitempty"`
	HideEdit   bool `json:"hideEdit,omitempty" yaml:"hideEdit,omitempty"`

	AllowClear  bool   `json:"allow_clear,omitempty" yaml:"allow_clear,omitempty"`
	EmptyOption string `json:"empty_option,omitempty" yaml:"empty_option,omitempty"`
	Multiple    bool   `json:"multiple,omitempty" yaml:"multiple,omitempty"`

	MaxLen *int `json:"max_len,omitempty" yaml:"max_len,omitempty"`
	MinLen *int `json:"min_len,omitempty" yaml:"min_len,omitempty"`
	Long   bool `json:"long,omitempty" yaml:"long,omitempty"`

	Min *int `json:"min,omitempty" yaml:"min,omitempty"`
	Max *int `json:"max,omitempty" yaml:"max,omitempty"`

	On  string `json:"on,omitempty" yaml:"on,omitempty"`
	Off string `json:"off,omitempty" yaml:"off,omitempty"`

	// Value holds the const literal, or a ValueFunc / func() any evaluated on
	// every extraction.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// Attrs carries attributes for custom field types.
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Label returns the display label, falling back to the code.
func (f Field) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Code
}

// Attr returns a custom attribute.
func (f Field) Attr(key string) (any, bool) {
	if f.Attrs == nil {
		return nil, false
	}
	value, ok := f.Attrs[key]
	return value, ok
}

// RawForm is a form description before normalization.
type RawForm struct {
	Type     string  `json:"type" yaml:"type"`
	Elements []Field `json:"elements" yaml:"elements"`
}

// Form is a normalized form definition: fields are unique by Code and keep
// the order of their first occurrence.
type Form struct {
	Type   string  `json:"type"`
	Fields []Field `json:"fields"`
	// Diagnostics lists the elements that were skipped during normalization.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Field looks up a field by code.
func (f Form) Field(code string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Code == code {
			return field, true
		}
	}
	return Field{}, false
}

// Codes returns field codes in definition order.
func (f Form) Codes() []string {
	codes := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		codes = append(codes, field.Code)
	}
	return codes
}

// Int returns a pointer to v, handy for the optional numeric attributes.
func Int(v int) *int {
	return &v
}
