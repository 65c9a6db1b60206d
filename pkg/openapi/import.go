package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cast"

	"github.com/goliatone/go-formdef/pkg/model"
	"github.com/goliatone/go-formdef/pkg/selectable"
)

// OrderExtension orders properties; properties without it sort after the
// ordered ones, by name.
const OrderExtension = "x-order"

// LabelsExtension maps enum values to display labels.
const LabelsExtension = "x-enum-labels"

// ErrSchemaNotFound is returned when the requested component schema does not
// exist.
var ErrSchemaNotFound = errors.New("openapi: schema not found")

// Imported is one component schema converted to a raw form, plus the option
// lists generated for its enum properties, keyed by subtype.
type Imported struct {
	Form     model.RawForm
	Subtypes map[string][]selectable.Option
	// Skipped lists properties that have no field type equivalent.
	Skipped []string
}

// ImportOption configures an import.
type ImportOption func(*importConfig)

type importConfig struct {
	validate   bool
	formPrefix string
}

// WithValidation validates the whole document before importing.
func WithValidation(enabled bool) ImportOption {
	return func(cfg *importConfig) {
		cfg.validate = enabled
	}
}

// WithFormPrefix is prepended to every generated form type and subtype.
func WithFormPrefix(prefix string) ImportOption {
	return func(cfg *importConfig) {
		cfg.formPrefix = prefix
	}
}

// ImportSchema converts the component schema called name.
func ImportSchema(ctx context.Context, data []byte, name string, opts ...ImportOption) (Imported, error) {
	schemas, cfg, err := componentSchemas(ctx, data, opts)
	if err != nil {
		return Imported{}, err
	}
	ref, ok := schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return Imported{}, fmt.Errorf("%w: %q", ErrSchemaNotFound, name)
	}
	return convertObject(cfg, name, ref.Value), nil
}

// ImportAll converts every object component schema, sorted by name.
func ImportAll(ctx context.Context, data []byte, opts ...ImportOption) ([]Imported, error) {
	schemas, cfg, err := componentSchemas(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(schemas))
	for name, ref := range schemas {
		if ref == nil || ref.Value == nil || !isType(ref.Value, openapi3.TypeObject) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Imported, 0, len(names))
	for _, name := range names {
		out = append(out, convertObject(cfg, name, schemas[name].Value))
	}
	return out, nil
}

func componentSchemas(ctx context.Context, data []byte, opts []ImportOption) (openapi3.Schemas, importConfig, error) {
	cfg := importConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, cfg, err
	}
	if len(data) == 0 {
		return nil, cfg, errors.New("openapi: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, cfg, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, cfg, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, cfg, errors.New("openapi: document has no component schemas")
	}
	return doc.Components.Schemas, cfg, nil
}

type property struct {
	name   string
	order  int
	schema *openapi3.Schema
}

func convertObject(cfg importConfig, name string, schema *openapi3.Schema) Imported {
	formType := cfg.formPrefix + name
	result := Imported{
		Form:     model.RawForm{Type: formType},
		Subtypes: map[string][]selectable.Option{},
	}

	required := make(map[string]bool, len(schema.Required))
	for _, key := range schema.Required {
		required[key] = true
	}

	props := make([]property, 0, len(schema.Properties))
	for key, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			result.Skipped = append(result.Skipped, key)
			continue
		}
		props = append(props, property{name: key, order: orderOf(ref.Value), schema: ref.Value})
	}
	sort.SliceStable(props, func(i, j int) bool {
		if props[i].order != props[j].order {
			return props[i].order < props[j].order
		}
		return props[i].name < props[j].name
	})

	for _, prop := range props {
		field, options, ok := convertProperty(formType, prop.name, prop.schema, required[prop.name])
		if !ok {
			result.Skipped = append(result.Skipped, prop.name)
			continue
		}
		if options != nil {
			result.Subtypes[field.Subtype] = options
		}
		result.Form.Elements = append(result.Form.Elements, field)
	}
	sort.Strings(result.Skipped)
	return result
}

func convertProperty(formType, name string, schema *openapi3.Schema, required bool) (model.Field, []selectable.Option, bool) {
	field := model.Field{
		Code:       name,
		Name:       schema.Title,
		Desc:       schema.Description,
		HideCreate: schema.ReadOnly,
		HideEdit:   schema.ReadOnly,
	}
	if field.Name == "" {
		field.Name = name
	}

	if len(schema.Enum) > 0 {
		field.Type = model.KindSelect
		field.Subtype = formType + "." + name
		field.AllowClear = !required
		return field, enumOptions(schema), true
	}

	switch {
	case isType(schema, openapi3.TypeInteger):
		field.Type = model.KindInt
		field.Min = boundOf(schema.Min, math.Ceil)
		field.Max = boundOf(schema.Max, math.Floor)
	case isType(schema, openapi3.TypeString):
		field.Type = model.KindStr
		if schema.MinLength > 0 {
			field.MinLen = model.Int(int(schema.MinLength))
		}
		if schema.MaxLength != nil {
			field.MaxLen = model.Int(int(*schema.MaxLength))
		}
		if schema.Format == "textarea" || (schema.MaxLength != nil && *schema.MaxLength > 255) {
			field.Long = true
		}
	case isType(schema, openapi3.TypeBoolean):
		field.Type = model.KindBool
	case isType(schema, openapi3.TypeArray):
		if schema.Items == nil || schema.Items.Value == nil || len(schema.Items.Value.Enum) == 0 {
			return model.Field{}, nil, false
		}
		field.Type = model.KindSelect
		field.Subtype = formType + "." + name
		field.Multiple = true
		field.AllowClear = !required
		return field, enumOptions(schema.Items.Value), true
	case isType(schema, openapi3.TypeObject) && stringMap(schema):
		field.Type = model.KindStr2Str
		field.HideCreate, field.HideEdit = true, true
	default:
		return model.Field{}, nil, false
	}
	return field, nil, true
}

func enumOptions(schema *openapi3.Schema) []selectable.Option {
	labels := map[string]string{}
	if raw, ok := schema.Extensions[LabelsExtension]; ok {
		if decoded, err := cast.ToStringMapStringE(decodeExtension(raw)); err == nil {
			labels = decoded
		}
	}
	options := make([]selectable.Option, 0, len(schema.Enum))
	for _, value := range schema.Enum {
		if label, ok := labels[selectable.Stringify(value)]; ok {
			options = append(options, selectable.Pair(value, label))
			continue
		}
		options = append(options, selectable.Bare(value))
	}
	return options
}

// stringMap reports an object whose values are free-form strings.
func stringMap(schema *openapi3.Schema) bool {
	if len(schema.Properties) > 0 {
		return false
	}
	extra := schema.AdditionalProperties.Schema
	return extra != nil && extra.Value != nil && isType(extra.Value, openapi3.TypeString)
}

func isType(schema *openapi3.Schema, typ string) bool {
	if schema == nil || schema.Type == nil {
		return false
	}
	for _, candidate := range schema.Type.Slice() {
		if candidate == typ {
			return true
		}
	}
	return false
}

func boundOf(value *float64, round func(float64) float64) *int {
	if value == nil {
		return nil
	}
	return model.Int(int(round(*value)))
}

func orderOf(schema *openapi3.Schema) int {
	raw, ok := schema.Extensions[OrderExtension]
	if !ok {
		return math.MaxInt
	}
	order, err := cast.ToIntE(decodeExtension(raw))
	if err != nil {
		return math.MaxInt
	}
	return order
}

func decodeExtension(raw any) any {
	switch v := raw.(type) {
	case json.RawMessage:
		var out any
		if err := json.Unmarshal(v, &out); err == nil {
			return out
		}
	case []byte:
		var out any
		if err := json.Unmarshal(v, &out); err == nil {
			return out
		}
	case string:
		return strings.TrimSpace(v)
	}
	return raw
}
