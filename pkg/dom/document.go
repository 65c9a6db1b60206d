package dom

import (
	"net/url"
	"slices"
	"sync"
)

// Kind identifies the control flavour a field handler rendered.
type Kind string

const (
	KindInput    Kind = "input"
	KindNumber   Kind = "number"
	KindTextarea Kind = "textarea"
	KindCheckbox Kind = "checkbox"
	KindSelect   Kind = "select"
)

// Control is the current state of one rendered form control.
type Control struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	Label    string   `json:"label,omitempty"`
	Values   []string `json:"values,omitempty"`
	Checked  bool     `json:"checked,omitempty"`
	Multiple bool     `json:"multiple,omitempty"`
	// Options lists the selectable values for select controls, in render order.
	Options []string `json:"options,omitempty"`
	// OptionLabels mirrors Options with the human readable labels.
	OptionLabels []string `json:"option_labels,omitempty"`
}

// Value returns the first value, or "" when the control is empty.
func (c Control) Value() string {
	if len(c.Values) == 0 {
		return ""
	}
	return c.Values[0]
}

func (c Control) clone() Control {
	c.Values = slices.Clone(c.Values)
	c.Options = slices.Clone(c.Options)
	c.OptionLabels = slices.Clone(c.OptionLabels)
	return c
}

// ErrorSlot is the inline error area rendered next to a field.
type ErrorSlot struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
	Message string `json:"message,omitempty"`
}

// Document holds the live state of an edit form: its controls, addressed by
// id, and the inline error slots. It stands in for the browser document on
// the server side.
type Document struct {
	mu       sync.RWMutex
	controls map[string]*Control
	order    []string
	errors   map[string]ErrorSlot
}

// New returns an empty document.
func New() *Document {
	return &Document{
		controls: make(map[string]*Control),
		errors:   make(map[string]ErrorSlot),
	}
}

// Add registers a control, replacing any control with the same id while
// keeping its original position.
func (d *Document) Add(ctrl Control) {
	if d == nil || ctrl.ID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.controls[ctrl.ID]; !exists {
		d.order = append(d.order, ctrl.ID)
	}
	copied := ctrl.clone()
	d.controls[ctrl.ID] = &copied
}

// Control returns a copy of the control addressed by id.
func (d *Document) Control(id string) (*Control, bool) {
	if d == nil {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctrl, ok := d.controls[id]
	if !ok {
		return nil, false
	}
	copied := ctrl.clone()
	return &copied, true
}

// Controls returns copies of every control in insertion order.
func (d *Document) Controls() []Control {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Control, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.controls[id].clone())
	}
	return out
}

// SetValue replaces the values of a control. It reports false when the id is
// unknown.
func (d *Document) SetValue(id string, values ...string) bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	ctrl, ok := d.controls[id]
	if !ok {
		return false
	}
	ctrl.Values = slices.Clone(values)
	return true
}

// SetChecked toggles a checkbox control.
func (d *Document) SetChecked(id string, checked bool) bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	ctrl, ok := d.controls[id]
	if !ok {
		return false
	}
	ctrl.Checked = checked
	return true
}

// Apply copies a submitted form into the document. Checkboxes are checked
// when their name was posted; every other control takes the posted values
// when present and keeps its current state otherwise, except selects which
// browsers omit when nothing is selected.
func (d *Document) Apply(values url.Values) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range d.order {
		ctrl := d.controls[id]
		posted, present := values[id]
		switch ctrl.Kind {
		case KindCheckbox:
			ctrl.Checked = present
		case KindSelect:
			ctrl.Values = slices.Clone(posted)
		default:
			if present {
				ctrl.Values = slices.Clone(posted)
			}
		}
	}
}

// ErrorSlotSuffix is appended to a control id to address its error slot.
const ErrorSlotSuffix = "-error"

// ErrorSlotID returns the id of the error slot rendered next to controlID.
func ErrorSlotID(controlID string) string {
	return controlID + ErrorSlotSuffix
}

// ShowError makes the error slot visible with the supplied message.
func (d *Document) ShowError(id, message string) {
	if d == nil || id == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors[id] = ErrorSlot{ID: id, Visible: true, Message: message}
}

// HideError hides the error slot. Hiding a slot that was never shown is a
// no-op apart from recording the slot.
func (d *Document) HideError(id string) {
	if d == nil || id == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	slot := d.errors[id]
	slot.ID = id
	slot.Visible = false
	slot.Message = ""
	d.errors[id] = slot
}

// ErrorSlot returns the state of an error slot.
func (d *Document) ErrorSlot(id string) ErrorSlot {
	if d == nil {
		return ErrorSlot{ID: id}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	slot, ok := d.errors[id]
	if !ok {
		return ErrorSlot{ID: id}
	}
	return slot
}

// VisibleErrors returns the visible error messages keyed by slot id.
func (d *Document) VisibleErrors() map[string]string {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]string)
	for id, slot := range d.errors {
		if slot.Visible {
			out[id] = slot.Message
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() *Document {
	out := New()
	if d == nil {
		return out
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	out.order = slices.Clone(d.order)
	for id, ctrl := range d.controls {
		copied := ctrl.clone()
		out.controls[id] = &copied
	}
	for id, slot := range d.errors {
		out.errors[id] = slot
	}
	return out
}
