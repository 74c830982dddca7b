package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// Store is the in-memory settings store for a single invocation.
// Keys are case-insensitive and keep their file order. The store is
// never written back to the file it was loaded from.
type Store struct {
	path    string
	loaded  bool
	section *ini.Section
	suites  map[string]string
}

// NewStore returns an empty store with a single [config] section
func NewStore() *Store {
	f := ini.Empty()
	section, _ := f.NewSection(SectionConfig) // only fails on an empty name
	return &Store{
		section: section,
		suites:  make(map[string]string),
	}
}

// LoadStore reads path into a new store. A missing file is not an error:
// the returned store is empty and Loaded reports false.
func LoadStore(path string) (*Store, error) {
	s := NewStore()
	s.path = path

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}

	raw, err := ini.LoadSources(ini.LoadOptions{
		SkipUnrecognizableLines: true,
		IgnoreInlineComment:     true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}

	// Keys outside any section land in DEFAULT; they apply to [config]
	// unless the section sets them itself.
	for _, k := range raw.Section(ini.DefaultSection).Keys() {
		s.Set(k.Name(), k.Value())
	}
	if sec, err := raw.GetSection(SectionConfig); err == nil {
		for _, k := range sec.Keys() {
			s.Set(k.Name(), k.Value())
		}
	}
	if sec, err := raw.GetSection(SectionSuites); err == nil {
		for _, k := range sec.Keys() {
			s.suites[k.Name()] = k.Value()
		}
	}

	s.loaded = true
	return s, nil
}

// Path returns the file the store was loaded from, if any
func (s *Store) Path() string {
	return s.path
}

// Loaded reports whether the store was read from an existing file
func (s *Store) Loaded() bool {
	return s.loaded
}

// Has reports whether key is present, even with an empty value
func (s *Store) Has(key string) bool {
	return s.section.HasKey(normalize(key))
}

// Get returns the value of key, or "" when absent
func (s *Store) Get(key string) string {
	k, err := s.section.GetKey(normalize(key))
	if err != nil {
		return ""
	}
	return k.Value()
}

// Lookup returns the value of key and whether it is present and non-empty
func (s *Store) Lookup(key string) (string, bool) {
	v := s.Get(key)
	return v, v != ""
}

// Set writes value under key, replacing any previous value
func (s *Store) Set(key, value string) {
	name := normalize(key)
	if k, err := s.section.GetKey(name); err == nil {
		k.SetValue(value)
		return
	}
	_, _ = s.section.NewKey(name, value) // only fails on an empty name
}

// Keys returns the stored keys in insertion order
func (s *Store) Keys() []string {
	return s.section.KeyStrings()
}

// Suites returns the [suites] section: filter name to suite id
func (s *Store) Suites() map[string]string {
	out := make(map[string]string, len(s.suites))
	for k, v := range s.suites {
		out[k] = v
	}
	return out
}

func normalize(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// WriteTemplate writes a run.config with the built-in defaults to path.
// It refuses to overwrite an existing file unless force is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", path)
		}
	}

	f := ini.Empty()
	section, err := f.NewSection(SectionConfig)
	if err != nil {
		return err
	}
	section.Comment = "pwrun settings. Command line flags take precedence over these values."
	for _, entry := range Template {
		k, err := section.NewKey(entry.Key, entry.Value)
		if err != nil {
			return err
		}
		k.Comment = entry.Comment
	}

	suites, err := f.NewSection(SectionSuites)
	if err != nil {
		return err
	}
	suites.Comment = "FILTER value to TestRail suite id"
	if _, err := suites.NewKey("@Critical_Path", "87764"); err != nil {
		return err
	}

	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
