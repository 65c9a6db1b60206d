package timezones

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-formdef/pkg/selectable"
)

// HTTPError lets guard errors pick the response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is an HTTPError with a fixed code.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// optionsResponse uses the option list encoding of the options files, so a
// client can feed Data straight into a select.
type optionsResponse struct {
	Data []selectable.Option `json:"data"`
}

// Handler is an alias of NewHandler.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

// NewHandler builds the search handler from default options plus overrides.
func NewHandler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the search handler from opts. Defaults are
// reapplied, so a zero Options is valid.
func HandlerWithOptions(opts Options) http.Handler {
	return &searchHandler{opts: opts.normalize()}
}

type searchHandler struct {
	opts Options
}

func (h *searchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			code := guardStatus(err)
			http.Error(w, http.StatusText(code), code)
			return
		}
	}

	zones, err := h.zones()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	results := SearchOptions(zones, query.Get(h.opts.SearchParam), atoi(query.Get(h.opts.LimitParam)), h.opts)
	if results == nil {
		results = []selectable.Option{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(optionsResponse{Data: results})
}

func (h *searchHandler) zones() ([]string, error) {
	if h.opts.Zones != nil {
		return h.opts.Zones, nil
	}
	return DefaultZones()
}

func guardStatus(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode() > 0 {
		return httpErr.StatusCode()
	}
	return http.StatusForbidden
}

// atoi returns 0 for empty or malformed input, which selects the default
// limit.
func atoi(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
