package selectable

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Source supplies the option list for a subtype. The engine only reads from
// it; keeping it populated is the host's job.
type Source interface {
	Options(subtype string) ([]Option, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(subtype string) ([]Option, bool)

// Options implements Source.
func (fn SourceFunc) Options(subtype string) ([]Option, bool) {
	if fn == nil {
		return nil, false
	}
	return fn(subtype)
}

// StaticSource is a map backed Source safe for concurrent refreshes.
type StaticSource struct {
	mu      sync.RWMutex
	options map[string][]Option
}

var _ Source = (*StaticSource)(nil)

// NewStaticSource returns a source seeded with the provided lists.
func NewStaticSource(seed map[string][]Option) *StaticSource {
	src := &StaticSource{options: make(map[string][]Option, len(seed))}
	for subtype, options := range seed {
		src.options[subtype] = slices.Clone(options)
	}
	return src
}

// Options implements Source.
func (s *StaticSource) Options(subtype string) ([]Option, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	options, ok := s.options[subtype]
	if !ok {
		return nil, false
	}
	return slices.Clone(options), true
}

// Set replaces the option list of a subtype.
func (s *StaticSource) Set(subtype string, options ...Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.options == nil {
		s.options = make(map[string][]Option)
	}
	s.options[subtype] = slices.Clone(options)
}

// Subtypes returns the known subtypes sorted by name.
func (s *StaticSource) Subtypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.options))
	for name := range s.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadSourceFS reads every JSON/YAML file in fsys. Each file maps subtype
// names to option lists; later files override earlier subtypes.
func LoadSourceFS(fsys fs.FS) (*StaticSource, error) {
	src := NewStaticSource(nil)
	if fsys == nil {
		return src, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isOptionsFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("selectable: read %s: %w", path, err)
		}
		lists, err := parseOptionLists(data, path)
		if err != nil {
			return err
		}
		for subtype, options := range lists {
			src.Set(strings.TrimSpace(subtype), options...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return src, nil
}

func parseOptionLists(data []byte, source string) (map[string][]Option, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("selectable: file %s is empty", source)
	}
	var lists map[string][]Option
	if err := json.Unmarshal(data, &lists); err == nil {
		return lists, nil
	}
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("selectable: parse %s: %w", source, err)
	}
	return lists, nil
}

func isOptionsFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
