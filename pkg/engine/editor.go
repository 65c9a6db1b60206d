package engine

import (
	"github.com/goliatone/go-formdef/internal/logging"
	"github.com/goliatone/go-formdef/pkg/dom"
)

func (e *Engine) enqueue(ctrl dom.Control) {
	if e.enhancer == nil {
		return
	}
	enhance := e.enhancer
	e.mu.Lock()
	e.pending = append(e.pending, func() { enhance(ctrl) })
	e.mu.Unlock()
}

// Pending reports how many enhancement callbacks are waiting.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// FinalizeEditor runs the enhancement callbacks queued by RenderEdit once, in
// the order they were queued, and clears the queue. Rendering again before
// finalizing appends to the same queue. A panicking callback is logged and
// the remaining ones still run.
func (e *Engine) FinalizeEditor() int {
	e.mu.Lock()
	queue := e.pending
	e.pending = nil
	e.mu.Unlock()

	logger := logging.Ensure(e.logger)
	for _, fn := range queue {
		if err := protect(func() error { fn(); return nil }); err != nil {
			logger.Error("editor enhancement failed", "error", err)
		}
	}
	return len(queue)
}
