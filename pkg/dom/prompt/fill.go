// Package prompt fills a rendered dom.Document from a terminal, standing in
// for a person editing the form in a browser.
package prompt

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdef/internal/logging"
	"github.com/goliatone/go-formdef/pkg/dom"
	"github.com/goliatone/go-formdef/pkg/interfaces"
)

// Option configures a Filler.
type Option func(*Filler)

// WithDriver swaps the prompt driver.
func WithDriver(driver Driver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithErrorSlotID sets how the error slot of a control is addressed. It must
// match the addressing used when the document was rendered.
func WithErrorSlotID(fn func(controlID string) string) Option {
	return func(f *Filler) {
		if fn != nil {
			f.slotID = fn
		}
	}
}

// WithPageSize limits how many select options are shown at once.
func WithPageSize(size int) Option {
	return func(f *Filler) {
		f.pageSize = size
	}
}

// Filler asks for a value for every control of a document, in render order,
// offering the current state as the default.
type Filler struct {
	driver   Driver
	logger   interfaces.Logger
	pageSize int
	slotID   func(controlID string) string
}

// New returns a Filler using the survey driver unless overridden.
func New(opts ...Option) *Filler {
	f := &Filler{
		driver: NewSurveyDriver(),
		logger: logging.NoOp(),
		slotID: dom.ErrorSlotID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for each control and writes the answers back into doc. Visible
// error slots are shown before the control they belong to.
func (f *Filler) Fill(ctx context.Context, doc *dom.Document) error {
	if doc == nil {
		return nil
	}
	errorsBySlot := doc.VisibleErrors()
	for _, ctrl := range doc.Controls() {
		help := errorsBySlot[f.slotID(ctrl.ID)]
		if err := f.fillControl(ctx, doc, ctrl, help); err != nil {
			return fmt.Errorf("prompt: control %q: %w", ctrl.ID, err)
		}
	}
	return nil
}

func (f *Filler) fillControl(ctx context.Context, doc *dom.Document, ctrl dom.Control, help string) error {
	message := ctrl.Label
	if message == "" {
		message = ctrl.ID
	}
	if help != "" {
		message = fmt.Sprintf("%s (%s)", message, help)
	}
	f.logger.Debug("prompting control", "id", ctrl.ID, "kind", ctrl.Kind)

	switch ctrl.Kind {
	case dom.KindCheckbox:
		answer, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: ctrl.Checked, Help: help})
		if err != nil {
			return err
		}
		doc.SetChecked(ctrl.ID, answer)

	case dom.KindSelect:
		return f.fillSelect(ctx, doc, ctrl, message, help)

	case dom.KindTextarea:
		answer, err := f.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: ctrl.Value(), Help: help})
		if err != nil {
			return err
		}
		doc.SetValue(ctrl.ID, answer)

	case dom.KindNumber:
		answer, err := f.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   ctrl.Value(),
			Help:      help,
			Validator: integerText,
		})
		if err != nil {
			return err
		}
		doc.SetValue(ctrl.ID, answer)

	default:
		answer, err := f.driver.Input(ctx, InputConfig{Message: message, Default: ctrl.Value(), Help: help})
		if err != nil {
			return err
		}
		doc.SetValue(ctrl.ID, answer)
	}
	return nil
}

func (f *Filler) fillSelect(ctx context.Context, doc *dom.Document, ctrl dom.Control, message, help string) error {
	if len(ctrl.Options) == 0 {
		f.logger.Warn("select control has no options", "id", ctrl.ID)
		return nil
	}
	labels := optionLabels(ctrl)
	cfg := SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: -1,
		Help:         help,
		PageSize:     f.pageSize,
	}

	if ctrl.Multiple {
		for _, value := range ctrl.Values {
			if idx := slices.Index(ctrl.Options, value); idx >= 0 {
				cfg.Defaults = append(cfg.Defaults, idx)
			}
		}
		picked, err := f.driver.MultiSelect(ctx, cfg)
		if err != nil {
			return err
		}
		values := make([]string, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(ctrl.Options) {
				values = append(values, ctrl.Options[idx])
			}
		}
		doc.SetValue(ctrl.ID, values...)
		return nil
	}

	cfg.DefaultIndex = slices.Index(ctrl.Options, ctrl.Value())
	picked, err := f.driver.Select(ctx, cfg)
	if err != nil {
		return err
	}
	if picked < 0 || picked >= len(ctrl.Options) {
		return fmt.Errorf("selection %d out of range", picked)
	}
	doc.SetValue(ctrl.ID, ctrl.Options[picked])
	return nil
}

func optionLabels(ctrl dom.Control) []string {
	labels := make([]string, len(ctrl.Options))
	for i, value := range ctrl.Options {
		label := value
		if i < len(ctrl.OptionLabels) && strings.TrimSpace(ctrl.OptionLabels[i]) != "" {
			label = ctrl.OptionLabels[i]
		}
		labels[i] = label
	}
	return labels
}

func integerText(text string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(text)); err != nil {
		return fmt.Errorf("%q is not a whole number", text)
	}
	return nil
}
