package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var extensions = []string{".yaml", ".yml", ".json"}

type ProfileLoader struct {
	cache       sync.Map
	validator   *Validator
	searchPaths []string
}

func NewProfileLoader(searchPaths []string) (*ProfileLoader, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	return &ProfileLoader{
		validator:   validator,
		searchPaths: searchPaths,
	}, nil
}

// Load resolves a profile by path or by name in the search paths, trying the
// YAML and JSON extensions in turn. Parsed profiles are cached by name.
func (l *ProfileLoader) Load(name string) (*Profile, error) {
	if cached, ok := l.cache.Load(name); ok {
		return cached.(*Profile), nil
	}

	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	p, err := l.Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	l.cache.Store(name, p)
	return p, nil
}

func (l *ProfileLoader) resolve(name string) (string, error) {
	if filepath.Ext(name) != "" {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	for _, searchPath := range l.searchPaths {
		for _, ext := range extensions {
			full := filepath.Join(searchPath, name+ext)
			if _, err := os.Stat(full); err == nil {
				return full, nil
			}
		}
	}
	return "", fmt.Errorf("profile not found: %s (searched in: %v)", name, l.searchPaths)
}

// Parse validates and decodes profile data. ext selects YAML (".yaml",
// ".yml") or JSON (anything else).
func (l *ProfileLoader) Parse(data []byte, ext string) (*Profile, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML: %w", err)
		}
		data = converted
	}

	if err := l.validator.ValidateProfile(data); err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}

func (l *ProfileLoader) ClearCache() {
	l.cache.Range(func(key, value interface{}) bool {
		l.cache.Delete(key)
		return true
	})
}

// Entry describes a profile file found in the search paths.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Info Info   `json:"device_profile"`
}

// List loads every profile file in the search paths. Files that fail to
// load are returned as errors next to the valid entries.
func (l *ProfileLoader) List() ([]Entry, []error) {
	var entries []Entry
	var errs []error
	for _, searchPath := range l.searchPaths {
		files, err := os.ReadDir(searchPath)
		if err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, err)
			}
			continue
		}
		for _, f := range files {
			ext := filepath.Ext(f.Name())
			if f.IsDir() || !knownExtension(ext) {
				continue
			}
			path := filepath.Join(searchPath, f.Name())
			p, err := l.Load(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			entries = append(entries, Entry{Name: strings.TrimSuffix(f.Name(), ext), Path: path, Info: p.Info})
		}
	}
	return entries, errs
}

func knownExtension(ext string) bool {
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
