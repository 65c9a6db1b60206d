package timezones

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/iana_timezones.txt
var dataFS embed.FS

const defaultListPath = "data/iana_timezones.txt"

var (
	defaultOnce  sync.Once
	defaultZones []string
	defaultErr   error
)

// DefaultZones returns a copy of the embedded zone list, sorted.
func DefaultZones() ([]string, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()
		defaultZones, defaultErr = LoadZones(f)
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]string{}, defaultZones...), nil
}

// LoadZones reads one zone per line, skipping blanks and # comments. The
// result is deduplicated and sorted. Names containing spaces are rejected.
func LoadZones(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("timezones: missing reader")
	}

	scanner := bufio.NewScanner(r)
	zones := make([]string, 0, 128)
	seen := map[string]struct{}{}

	for line := 1; scanner.Scan(); line++ {
		zone := strings.TrimSpace(scanner.Text())
		if zone == "" || strings.HasPrefix(zone, "#") {
			continue
		}
		if strings.ContainsAny(zone, " \t") {
			return nil, fmt.Errorf("timezones: line %d: invalid zone %q", line, zone)
		}
		if _, ok := seen[zone]; ok {
			continue
		}
		seen[zone] = struct{}{}
		zones = append(zones, zone)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Strings(zones)
	return zones, nil
}

// Label turns a zone name into display text: "America/New_York" becomes
// "America / New York".
func Label(zone string) string {
	return strings.ReplaceAll(strings.ReplaceAll(zone, "_", " "), "/", " / ")
}
