package timezones

import (
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formdef/pkg/model"
	"github.com/goliatone/go-formdef/pkg/selectable"
)

// UnknownZoneMessage is the validation comment for values outside the list.
const UnknownZoneMessage = "unknown time zone"

// Mux is the subset of *http.ServeMux the component registers on.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Component serves the timezone subtype: option list, hooks and search
// endpoint share one zone list.
type Component struct {
	opts Options

	once  sync.Once
	zones []string
	err   error
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Config returns a copy of the component configuration.
func (c *Component) Config() Options {
	if c == nil {
		return DefaultOptions()
	}
	return c.opts.normalize()
}

// Subtype is the selectable subtype name.
func (c *Component) Subtype() string {
	return c.Config().Subtype
}

// Zones returns the configured zones, sorted, falling back to the embedded
// list.
func (c *Component) Zones() ([]string, error) {
	c.once.Do(func() {
		if c.opts.Zones != nil {
			c.zones = append([]string{}, c.opts.Zones...)
			sort.Strings(c.zones)
			return
		}
		c.zones, c.err = DefaultZones()
	})
	if c.err != nil {
		return nil, c.err
	}
	return append([]string{}, c.zones...), nil
}

// SelectOptions returns every zone as a (zone, label) option.
func (c *Component) SelectOptions() ([]selectable.Option, error) {
	zones, err := c.Zones()
	if err != nil {
		return nil, err
	}
	return toOptions(zones), nil
}

// Source answers option lookups for the component subtype only.
func (c *Component) Source() selectable.Source {
	return selectable.SourceFunc(func(subtype string) ([]selectable.Option, bool) {
		if subtype != c.opts.Subtype {
			return nil, false
		}
		options, err := c.SelectOptions()
		if err != nil {
			return nil, false
		}
		return options, true
	})
}

// Hooks returns the subtype hooks. Validation rejects zones missing from the
// list; extraction trims whitespace around typed zone names.
func (c *Component) Hooks() selectable.Hooks {
	return selectable.Hooks{
		Extract:  c.extract,
		Validate: c.validate,
	}
}

func (c *Component) extract(_ model.Field, raw any) (any, error) {
	switch typed := raw.(type) {
	case string:
		return strings.TrimSpace(typed), nil
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
				continue
			}
			out = append(out, item)
		}
		return out, nil
	default:
		return raw, nil
	}
}

func (c *Component) validate(_ model.Field, value any) string {
	zones, err := c.Zones()
	if err != nil {
		return UnknownZoneMessage
	}
	values, ok := value.([]any)
	if !ok {
		values = []any{value}
	}
	for _, v := range values {
		if v == nil {
			continue
		}
		zone := selectable.Stringify(v)
		if zone == "" {
			continue
		}
		if !contains(zones, zone) {
			return UnknownZoneMessage
		}
	}
	return ""
}

// Handler returns the JSON search handler.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	zones, err := c.Zones()
	opts := c.Config()
	if err == nil {
		opts.Zones = zones
	}
	return HandlerWithOptions(opts)
}

// RegisterRoutes mounts the search handler on mux under basePath and
// returns the full path.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("timezones: mux is nil")
	}
	mount := MountPath(basePath, c.Config().RoutePath)
	mux.Handle(mount, c.Handler())
	return mount, nil
}

// MountPath joins basePath and routePath into a clean absolute path.
func MountPath(basePath, routePath string) string {
	joined := path.Join("/", strings.TrimSpace(basePath), strings.TrimSpace(routePath))
	if joined == "." {
		return "/"
	}
	return joined
}

func contains(zones []string, zone string) bool {
	for _, z := range zones {
		if z == zone {
			return true
		}
	}
	return false
}
