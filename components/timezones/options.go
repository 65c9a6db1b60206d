package timezones

import "net/http"

// EmptySearchMode decides what an empty search returns.
type EmptySearchMode string

const (
	EmptySearchNone EmptySearchMode = "none"
	EmptySearchTop  EmptySearchMode = "top"
)

const (
	DefaultSubtype      = "timezone"
	DefaultRoutePath    = "/api/timezones"
	DefaultSearchParam  = "q"
	DefaultLimitParam   = "limit"
	DefaultSearchLimit  = 50
	DefaultMaxLimit     = 200
	defaultEmptySetting = EmptySearchNone
)

// GuardFunc gates search requests. A returned HTTPError picks the status.
type GuardFunc func(r *http.Request) error

// Options configures the component.
type Options struct {
	// Subtype is the selectable subtype name the component answers for.
	Subtype string

	RoutePath       string
	SearchParam     string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	Guard           GuardFunc

	// Zones replaces the embedded list when non-nil.
	Zones []string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{}.normalize()
}

func NewOptions(fns ...OptionFn) Options {
	var opts Options
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	return opts.normalize()
}

func (o Options) normalize() Options {
	o.Subtype = orDefault(o.Subtype, DefaultSubtype)
	o.RoutePath = orDefault(o.RoutePath, DefaultRoutePath)
	o.SearchParam = orDefault(o.SearchParam, DefaultSearchParam)
	o.LimitParam = orDefault(o.LimitParam, DefaultLimitParam)
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = DefaultSearchLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = DefaultMaxLimit
	}
	if o.EmptySearchMode == "" {
		o.EmptySearchMode = defaultEmptySetting
	}
	if o.Zones != nil {
		o.Zones = append([]string{}, o.Zones...)
	}
	return o
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// WithSubtype renames the subtype.
func WithSubtype(name string) OptionFn {
	return func(o *Options) { o.Subtype = name }
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) { o.RoutePath = path }
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) { o.SearchParam = name }
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) { o.LimitParam = name }
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) { o.DefaultLimit = limit }
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) { o.MaxLimit = limit }
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) { o.EmptySearchMode = mode }
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

// WithZones replaces the embedded list. A nil slice restores it.
func WithZones(zones []string) OptionFn {
	return func(o *Options) {
		if zones == nil {
			o.Zones = nil
			return
		}
		o.Zones = append([]string{}, zones...)
	}
}

func clampLimit(limit int, opts Options) int {
	switch {
	case limit < 0:
		return 0
	case limit == 0:
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
