package timezones

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formdef/pkg/selectable"
)

// Search returns the zones containing query, case insensitive, prefix matches
// first. An empty query returns nothing unless EmptySearchTop is configured.
func Search(zones []string, query string, limit int, opts Options) []string {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchTop {
			return nil
		}
		return append([]string{}, zones[:min(limit, len(zones))]...)
	}

	q := strings.ToLower(query)
	matches := make([]matchedZone, 0, 32)
	for _, zone := range zones {
		lower := strings.ToLower(zone)
		if !strings.Contains(lower, q) && !strings.Contains(strings.ToLower(Label(zone)), q) {
			continue
		}
		matches = append(matches, matchedZone{name: zone, isPrefix: strings.HasPrefix(lower, q)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].name < matches[j].name
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.name)
	}
	return out
}

// SearchOptions is Search returning select options labelled with Label.
func SearchOptions(zones []string, query string, limit int, opts Options) []selectable.Option {
	return toOptions(Search(zones, query, limit, opts))
}

func toOptions(zones []string) []selectable.Option {
	out := make([]selectable.Option, 0, len(zones))
	for _, zone := range zones {
		out = append(out, selectable.Pair(zone, Label(zone)))
	}
	return out
}

type matchedZone struct {
	name     string
	isPrefix bool
}
