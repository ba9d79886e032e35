package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/localfinder/localfinder-cli/internal/adapters/driven/storage/memory"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Prefix starts every generated variable name.
const Prefix = "LOCALFINDER_"

// DefaultDotenvFile is read from the working directory when present.
const DefaultDotenvFile = ".env"

// aliases lists extra variable names per key, highest precedence first.
//
//nolint:gosec // G101: These are variable names, not credentials.
var aliases = map[string][]string{
	"api.base_url":       {"LOCALFINDER_API_URL", "VITE_API_URL"},
	"api.image_base_url": {"LOCALFINDER_IMG_URL", "VITE_IMG_API_URL"},
	"maps.api_key":       {"VITE_GOOGLE_MAPS_API_KEY"},
}

// ConfigStore reads values from the process environment and dotenv files
// before falling back to base. Writes always go to base.
type ConfigStore struct {
	base   driven.ConfigStore
	files  []string
	lookup func(string) (string, bool)

	mu     sync.RWMutex
	dotenv map[string]string
}

// NewConfigStore wraps base. files are dotenv files read in order; earlier
// files win, and missing files are skipped. The process environment beats
// every file.
func NewConfigStore(base driven.ConfigStore, files ...string) (*ConfigStore, error) {
	s := &ConfigStore{
		base:   base,
		files:  files,
		lookup: os.LookupEnv,
	}
	if err := s.readDotenv(); err != nil {
		return nil, err
	}
	return s, nil
}

// VariableNames returns the variables consulted for key, highest precedence first.
func VariableNames(key string) []string {
	generated := Prefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	names := []string{generated}
	for _, alias := range aliases[key] {
		if alias != generated {
			names = append(names, alias)
		}
	}
	return names
}

// Source returns the variable that currently overrides key, or "" when the
// value comes from the underlying store.
func (s *ConfigStore) Source(key string) string {
	name, _, ok := s.override(key)
	if !ok {
		return ""
	}
	return name
}

// override finds the first variable set for key.
func (s *ConfigStore) override(key string) (name, value string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, name := range VariableNames(key) {
		if v, ok := s.lookup(name); ok && v != "" {
			return name, v, true
		}
		if v, ok := s.dotenv[name]; ok && v != "" {
			return name, v, true
		}
	}
	return "", "", false
}

// Get retrieves a configuration value, preferring the environment.
func (s *ConfigStore) Get(key string) (any, bool) {
	if _, v, ok := s.override(key); ok {
		return v, true
	}
	return s.base.Get(key)
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	return memory.AsString(val)
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, _ := s.Get(key)
	return memory.AsInt(val)
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, _ := s.Get(key)
	return memory.AsBool(val)
}

// GetFloat retrieves a floating-point configuration value.
func (s *ConfigStore) GetFloat(key string) float64 {
	val, _ := s.Get(key)
	return memory.AsFloat(val)
}

// Set stores value in the underlying store. An environment override for the
// same key keeps taking precedence.
func (s *ConfigStore) Set(key string, value any) error {
	return s.base.Set(key, value)
}

// Save persists the underlying store.
func (s *ConfigStore) Save() error {
	return s.base.Save()
}

// Load re-reads the dotenv files and the underlying store.
func (s *ConfigStore) Load() error {
	if err := s.readDotenv(); err != nil {
		return err
	}
	return s.base.Load()
}

// Path returns the underlying store's path.
func (s *ConfigStore) Path() string {
	return s.base.Path()
}

func (s *ConfigStore) readDotenv() error {
	merged := make(map[string]string)
	for _, file := range s.files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("read %s: %w", file, err)
		}
		for k, v := range values {
			if _, seen := merged[k]; !seen {
				merged[k] = v
			}
		}
	}

	s.mu.Lock()
	s.dotenv = merged
	s.mu.Unlock()
	return nil
}
