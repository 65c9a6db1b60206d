package engine

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-formdef/pkg/dom"
	"github.com/goliatone/go-formdef/pkg/fieldtypes"
	"github.com/goliatone/go-formdef/pkg/model"
	"github.com/goliatone/go-formdef/pkg/render/template"
	"github.com/goliatone/go-formdef/pkg/selectable"
	"github.com/goliatone/go-formdef/pkg/testsupport"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func personForm(t *testing.T) model.Form {
	t.Helper()
	return testsupport.MustDefine(t, model.RawForm{
		Type: "person",
		Elements: []model.Field{
			{Code: "name", Type: model.KindStr, Name: "Name", MinLen: model.Int(1), MaxLen: model.Int(20)},
			{Code: "age", Type: model.KindInt, Name: "Age", Min: model.Int(0), Max: model.Int(120)},
		},
	})
}

func TestPersonScenario(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	form := personForm(t)
	mode := Mode{}

	view, err := e.RenderEdit(ctx, form, model.Object{"name": "Ann", "age": 30}, mode)
	if err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	want := model.Object{"name": "Ann", "age": 30}

	got, err := e.Extract(ctx, form, view.Document, mode)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("extract mismatch (-want +got):\n%s", diff)
	}

	validated, err := e.Validate(ctx, form, view.Document, mode)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff(want, validated); diff != "" {
		t.Fatalf("validate mismatch (-want +got):\n%s", diff)
	}
	if visible := view.Document.VisibleErrors(); len(visible) != 0 {
		t.Fatalf("expected no visible errors, got %v", visible)
	}
}

func TestRenderView_OmitsConst(t *testing.T) {
	e := newEngine(t)
	form := model.Form{Type: "note", Fields: []model.Field{
		{Code: "kind", Type: model.KindConst, Name: "Secret Kind", Value: "memo"},
		{Code: "greeting", Type: model.KindStr, Name: "Greeting"},
	}}

	out, err := e.RenderView(context.Background(), form, model.Object{"kind": "memo", "greeting": "hi"})
	if err != nil {
		t.Fatalf("RenderView: %v", err)
	}
	if !strings.Contains(out, "Greeting") || !strings.Contains(out, "hi") {
		t.Fatalf("expected str row, got %q", out)
	}
	if strings.Contains(out, "Secret Kind") {
		t.Fatalf("const field leaked into view: %q", out)
	}
}

func TestRenderView_EscapesAndKeepsOrder(t *testing.T) {
	e := newEngine(t)
	form := model.Form{Type: "doc", Fields: []model.Field{
		{Code: "b", Type: model.KindStr, Name: "Second"},
		{Code: "a", Type: model.KindStr2Str, Name: "First"},
	}}
	out, err := e.RenderView(context.Background(), form, model.Object{
		"b": "<script>",
		"a": map[string]string{"x": "1", "y": "2"},
	})
	if err != nil {
		t.Fatalf("RenderView: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("value not escaped: %q", out)
	}
	if strings.Index(out, "Second") > strings.Index(out, "First") {
		t.Fatalf("rows out of order: %q", out)
	}
	if !strings.Contains(out, "x: 1<br>y: 2") {
		t.Fatalf("expected line breaks, got %q", out)
	}
}

func TestRenderView_IsolatesFaults(t *testing.T) {
	types := fieldtypes.NewRegistry()
	types.Register("boom", fieldtypes.Handlers{
		View: func(fieldtypes.Env, model.Field, any) (string, bool, error) {
			panic("exploded")
		},
	})
	types.Register("broken", fieldtypes.Handlers{
		View: func(fieldtypes.Env, model.Field, any) (string, bool, error) {
			return "", false, errors.New("broken")
		},
	})
	logs := testsupport.NewRecordingLogger()
	e := newEngine(t, WithFieldTypes(types), WithLogger(logs))
	form := model.Form{Type: "t", Fields: []model.Field{
		{Code: "x", Type: "boom", Name: "Boom"},
		{Code: "y", Type: "unknown", Name: "Unknown"},
		{Code: "z", Type: "broken", Name: "Broken"},
		{Code: "n", Type: model.KindStr, Name: "Name"},
	}}

	out, err := e.RenderView(context.Background(), form, model.Object{"n": "Ann"})
	if err != nil {
		t.Fatalf("RenderView: %v", err)
	}
	for _, label := range []string{"Boom", "Unknown", "Broken"} {
		if strings.Contains(out, label) {
			t.Fatalf("failing field %s rendered: %q", label, out)
		}
	}
	if !strings.Contains(out, "Ann") {
		t.Fatalf("healthy field missing: %q", out)
	}
	want := []string{"field handler failed", "no view handler for field type", "field handler failed"}
	if diff := cmp.Diff(want, logs.Messages("error")); diff != "" {
		t.Fatalf("logged errors mismatch (-want +got):\n%s", diff)
	}
}

func TestHideRulesMatchInEditAndExtract(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	form := model.Form{Type: "t", Fields: []model.Field{
		{Code: "secret", Type: model.KindStr, Name: "Secret", HideCreate: true},
		{Code: "title", Type: model.KindStr, Name: "Title"},
	}}
	obj := model.Object{"secret": "s", "title": "t"}

	creation := Mode{IDPrefix: "p-", Creation: true}
	view, err := e.RenderEdit(ctx, form, obj, creation)
	if err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	if strings.Contains(view.HTML, "p-secret") || strings.Contains(view.HTML, "Secret") {
		t.Fatalf("hidden field rendered: %q", view.HTML)
	}
	got, err := e.Extract(ctx, form, view.Document, creation)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, ok := got["secret"]; ok {
		t.Fatalf("hidden field extracted: %v", got)
	}

	editing := Mode{IDPrefix: "p-"}
	view, err = e.RenderEdit(ctx, form, obj, editing)
	if err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	if !strings.Contains(view.HTML, `id="p-secret"`) {
		t.Fatalf("expected field in edit mode: %q", view.HTML)
	}
	got, err = e.Extract(ctx, form, view.Document, editing)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if diff := cmp.Diff(model.Object{"secret": "s", "title": "t"}, got); diff != "" {
		t.Fatalf("extract mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEdit_WrapsField(t *testing.T) {
	e := newEngine(t)
	form := model.Form{Type: "t", Fields: []model.Field{
		{Code: "title", Type: model.KindStr, Name: "Title", Desc: `Short <b>title</b><script>alert(1)</script>`},
		{Code: "kind", Type: model.KindConst, Name: "Kind", Value: "x"},
	}}
	view, err := e.RenderEdit(context.Background(), form, nil, Mode{IDPrefix: "f-"})
	if err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	for _, want := range []string{`for="f-title"`, `id="f-title-error"`, "<b>title</b>", "hidden"} {
		if !strings.Contains(view.HTML, want) {
			t.Fatalf("expected %q in %q", want, view.HTML)
		}
	}
	if strings.Contains(view.HTML, "<script>") {
		t.Fatalf("description not sanitized: %q", view.HTML)
	}
	if strings.Contains(view.HTML, "Kind") {
		t.Fatalf("const field produced a wrapper: %q", view.HTML)
	}
	if diff := cmp.Diff([]string{"title"}, view.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if slot := view.Document.ErrorSlot("f-title-error"); slot.Visible {
		t.Fatalf("error slot should start hidden: %+v", slot)
	}
}

func TestExtract_ShortCircuits(t *testing.T) {
	types := fieldtypes.NewRegistry()
	types.Register("undefined", fieldtypes.Handlers{
		Extract: func(fieldtypes.Env, model.Field, *dom.Control) (any, bool, error) {
			return nil, false, nil
		},
	})
	types.Register("panics", fieldtypes.Handlers{
		Extract: func(fieldtypes.Env, model.Field, *dom.Control) (any, bool, error) {
			panic("nope")
		},
	})
	e := newEngine(t, WithFieldTypes(types))

	for _, typ := range []string{"undefined", "panics"} {
		t.Run(typ, func(t *testing.T) {
			doc := dom.New()
			doc.Add(dom.Control{ID: "title", Kind: dom.KindInput, Values: []string{"x"}})
			form := model.Form{Type: "t", Fields: []model.Field{
				{Code: "title", Type: model.KindStr, Name: "Title"},
				{Code: "bad", Type: typ, Name: "Bad"},
			}}
			got, err := e.Extract(context.Background(), form, doc, Mode{})
			if got != nil {
				t.Fatalf("expected nil result, got %v", got)
			}
			if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
				t.Fatalf("expected command error, got %v", err)
			}
		})
	}
}

func TestExtract_NullIsPresent(t *testing.T) {
	e := newEngine(t)
	form := model.Form{Type: "t", Fields: []model.Field{
		{Code: "k", Type: model.KindConst, Value: nil},
	}}
	got, err := e.Extract(context.Background(), form, dom.New(), Mode{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if diff := cmp.Diff(model.Object{"k": nil}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_MissingExtractorPolicy(t *testing.T) {
	types := fieldtypes.NewRegistry()
	types.Register("viewonly", fieldtypes.Handlers{
		View: func(fieldtypes.Env, model.Field, any) (string, bool, error) { return "v", true, nil },
	})
	form := model.Form{Type: "t", Fields: []model.Field{
		{Code: "v", Type: "viewonly", Name: "V"},
		{Code: "k", Type: model.KindConst, Value: 1},
	}}

	skip := newEngine(t, WithFieldTypes(types))
	got, err := skip.Extract(context.Background(), form, dom.New(), Mode{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if diff := cmp.Diff(model.Object{"k": 1}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	strict := newEngine(t, WithFieldTypes(types), WithMissingExtractor(FailMissing))
	got, err = strict.Extract(context.Background(), form, dom.New(), Mode{})
	if got != nil || !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v / %v", got, err)
	}
	if !errors.Is(err, ErrNoHandler) {
		t.Fatalf("expected ErrNoHandler in chain, got %v", err)
	}
}

func TestExtract_CancelledContext(t *testing.T) {
	e := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Extract(ctx, personForm(t), dom.New(), Mode{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestValidate_Gate(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	form := personForm(t)
	mode := Mode{IDPrefix: "person-"}

	view, err := e.RenderEdit(ctx, form, model.Object{"name": "Ann", "age": 30}, mode)
	if err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	view.Document.Apply(url.Values{"person-name": {""}, "person-age": {"130"}})

	got, err := e.Validate(ctx, form, view.Document, mode)
	if got != nil {
		t.Fatalf("expected nil result, got %v", got)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]string{
		"name": "length must be between 1 and 20 characters",
		"age":  "value must be between 0 and 120",
	}
	if diff := cmp.Diff(want, FieldErrors(err)); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if slot := view.Document.ErrorSlot("person-age-error"); !slot.Visible || slot.Message != want["age"] {
		t.Fatalf("unexpected age slot %+v", slot)
	}

	view.Document.Apply(url.Values{"person-name": {"Bo"}, "person-age": {"40"}})
	got, err = e.Validate(ctx, form, view.Document, mode)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff(model.Object{"name": "Bo", "age": 40}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if visible := view.Document.VisibleErrors(); len(visible) != 0 {
		t.Fatalf("error slots should be hidden again, got %v", visible)
	}
}

func TestValidate_ExtractionFailureReturnsNil(t *testing.T) {
	e := newEngine(t)
	got, err := e.Validate(context.Background(), personForm(t), dom.New(), Mode{})
	if got != nil || err == nil {
		t.Fatalf("expected extraction failure, got %v / %v", got, err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command error, got %v", err)
	}
}

func TestIntRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	form := model.Form{Type: "t", Fields: []model.Field{{Code: "n", Type: model.KindInt, Name: "N"}}}
	mode := Mode{IDPrefix: "x-"}

	view, err := e.RenderEdit(ctx, form, model.Object{"n": 42}, mode)
	if err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	got, err := e.Extract(ctx, form, view.Document, mode)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if diff := cmp.Diff(model.Object{"n": 42}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectAllowClear(t *testing.T) {
	ctx := context.Background()
	source := selectable.NewStaticSource(map[string][]selectable.Option{
		"color": {selectable.Pair("r", "Red"), selectable.Pair("g", "Green")},
	})
	e := newEngine(t, WithOptionsSource(source))
	form := model.Form{Type: "t", Fields: []model.Field{
		{Code: "color", Type: model.KindSelect, Subtype: "color", Name: "Color", AllowClear: true},
	}}

	view, err := e.RenderEdit(ctx, form, model.Object{}, Mode{})
	if err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	got, err := e.Extract(ctx, form, view.Document, Mode{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if diff := cmp.Diff(model.Object{"color": nil}, got); diff != "" {
		t.Fatalf("extract mismatch (-want +got):\n%s", diff)
	}
	validated, err := e.Validate(ctx, form, view.Document, Mode{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff(model.Object{"color": nil}, validated); diff != "" {
		t.Fatalf("validate mismatch (-want +got):\n%s", diff)
	}
}

func TestFinalizeEditor(t *testing.T) {
	var seen []string
	source := selectable.NewStaticSource(map[string][]selectable.Option{
		"color": {selectable.Bare("red"), selectable.Bare("blue")},
	})
	e := newEngine(t,
		WithOptionsSource(source),
		WithEnhancer(func(ctrl dom.Control) {
			if ctrl.ID == "b" {
				panic("widget failed")
			}
			seen = append(seen, ctrl.ID)
		}),
	)
	form := model.Form{Type: "t", Fields: []model.Field{
		{Code: "a", Type: model.KindSelect, Subtype: "color", Name: "A"},
		{Code: "b", Type: model.KindSelect, Subtype: "color", Name: "B"},
		{Code: "c", Type: model.KindSelect, Subtype: "color", Name: "C"},
	}}
	if _, err := e.RenderEdit(context.Background(), form, nil, Mode{}); err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	if e.Pending() != 3 {
		t.Fatalf("expected 3 pending callbacks, got %d", e.Pending())
	}
	if ran := e.FinalizeEditor(); ran != 3 {
		t.Fatalf("expected 3 callbacks, got %d", ran)
	}
	if diff := cmp.Diff([]string{"a", "c"}, seen); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if ran := e.FinalizeEditor(); ran != 0 {
		t.Fatalf("queue should be empty, ran %d", ran)
	}
}

type failingTemplates struct {
	template.TemplateRenderer
	fail string
}

func (f failingTemplates) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if name == f.fail {
		return "", errors.New("template broken")
	}
	return f.TemplateRenderer.RenderTemplate(name, data, out...)
}

func TestRenderEdit_SkippedFieldsQueueNoEnhancement(t *testing.T) {
	defaults, err := DefaultTemplates()
	if err != nil {
		t.Fatalf("DefaultTemplates: %v", err)
	}
	var enhanced []string
	enhancer := WithEnhancer(func(ctrl dom.Control) { enhanced = append(enhanced, ctrl.ID) })
	source := WithOptionsSource(selectable.NewStaticSource(map[string][]selectable.Option{
		"color": {selectable.Bare("red")},
	}))
	form := model.Form{Type: "t", Fields: []model.Field{
		{Code: "c", Type: model.KindSelect, Subtype: "color", Name: "C"},
	}}

	e := newEngine(t, source, enhancer, WithTemplates(failingTemplates{TemplateRenderer: defaults, fail: fieldTemplate}))
	view, err := e.RenderEdit(context.Background(), form, nil, Mode{})
	if err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	if _, found := view.Document.Control("c"); found || len(view.Fields) != 0 {
		t.Fatalf("field with a failing wrapper must be skipped: %v", view.Fields)
	}
	if ran := e.FinalizeEditor(); ran != 0 || len(enhanced) != 0 {
		t.Fatalf("expected no enhancement, ran=%d enhanced=%v", ran, enhanced)
	}

	types := fieldtypes.NewRegistry()
	types.Register("flaky", fieldtypes.Handlers{
		Edit: func(env fieldtypes.Env, _ model.Field, _ any, id string) (fieldtypes.EditResult, bool, error) {
			env.Enhance(dom.Control{ID: id})
			return fieldtypes.EditResult{}, false, errors.New("half rendered")
		},
	})
	e = newEngine(t, source, enhancer, WithFieldTypes(types))
	form.Fields = append(form.Fields, model.Field{Code: "f", Type: "flaky", Name: "F"})
	view, err = e.RenderEdit(context.Background(), form, nil, Mode{})
	if err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	if diff := cmp.Diff([]string{"c"}, view.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	e.FinalizeEditor()
	if diff := cmp.Diff([]string{"c"}, enhanced); diff != "" {
		t.Fatalf("enhanced mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEdit_BuiltinControlsEscape(t *testing.T) {
	source := selectable.NewStaticSource(map[string][]selectable.Option{
		"roles": {selectable.Pair(1, "Admin"), selectable.Pair(2, "R&D")},
	})
	e := newEngine(t, WithOptionsSource(source))
	form := model.Form{Type: "t", Fields: []model.Field{
		{Code: "title", Type: model.KindStr, Name: "Title", MaxLen: model.Int(5)},
		{Code: "body", Type: model.KindStr, Name: "Body", Long: true},
		{Code: "age", Type: model.KindInt, Name: "Age", Min: model.Int(0), Max: model.Int(120)},
		{Code: "active", Type: model.KindBool, Name: "Active", On: "On", Off: "Off"},
		{Code: "role", Type: model.KindSelect, Subtype: "roles", Name: "Role"},
	}}
	obj := model.Object{"title": `<b>"hello`, "body": "a & b", "active": true, "role": "2"}

	view, err := e.RenderEdit(context.Background(), form, obj, Mode{})
	if err != nil {
		t.Fatalf("RenderEdit: %v", err)
	}
	for _, want := range []string{
		`value="&lt;b&gt;&quot;h"`,
		`<span id="title-counter" class="fd-counter" data-max="5">0</span>`,
		`a &amp; b</textarea>`,
		`type="number" id="age" name="age" class="fd-input fd-input-int" value="0" min="0" max="120"`,
		` checked><span class="fd-toggle-label" data-fd-toggle="active">On</span>`,
		`<option value="2" selected>R&amp;D</option>`,
	} {
		if !strings.Contains(view.HTML, want) {
			t.Fatalf("expected %q in %q", want, view.HTML)
		}
	}
}

func TestModeAddressing(t *testing.T) {
	m := Mode{IDPrefix: "p-"}
	if m.ControlID("a") != "p-a" || m.ErrorSlotID("a") != "p-a-error" {
		t.Fatalf("unexpected ids %q %q", m.ControlID("a"), m.ErrorSlotID("a"))
	}
	f := model.Field{HideCreate: true}
	if m.Hidden(f) || !(Mode{Creation: true}).Hidden(f) {
		t.Fatal("hideCreate should only apply in creation mode")
	}
}
