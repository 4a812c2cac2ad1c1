package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// File edits the persisted YAML configuration. Unlike Load it never reads
// the environment, so what it shows and writes is exactly what is on disk.
type File struct {
	path string
	v    *viper.Viper
}

// UnknownKeyError is returned for keys that are not part of the configuration.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown config key: %s (valid keys: %s)", e.Key, strings.Join(Keys(), ", "))
}

// OpenFile loads the config file at path, or DefaultPath when path is empty.
// A missing file is not an error; it is created by the first Save.
// Parameters:
//   - path: config file location.
// Returns:
//   - *File: editable file handle.
//   - error: non-nil when an existing file cannot be parsed.
func OpenFile(path string) (*File, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetConfigPermissions(0o600)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return &File{path: path, v: v}, nil
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the stored value for key and whether the file sets it.
func (f *File) Get(key string) (string, bool, error) {
	key = strings.ToLower(key)
	if _, ok := defaults[key]; !ok {
		return "", false, &UnknownKeyError{Key: key}
	}
	if !f.v.IsSet(key) {
		return "", false, nil
	}
	val := f.v.Get(key)
	switch typed := val.(type) {
	case []interface{}:
		parts := make([]string, len(typed))
		for i, p := range typed {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ","), true, nil
	case []string:
		return strings.Join(typed, ","), true, nil
	}
	return fmt.Sprint(val), true, nil
}

// Set coerces value to the key's type, stores it and saves the file.
func (f *File) Set(key, value string) error {
	key = strings.ToLower(key)
	def, ok := defaults[key]
	if !ok {
		return &UnknownKeyError{Key: key}
	}

	var coerced interface{}
	switch def.(type) {
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		coerced = b
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected an integer", key)
		}
		coerced = n
	case time.Duration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected a duration such as 2s or 1m", key)
		}
		coerced = d.String()
	case []string:
		var items []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		coerced = items
	default:
		coerced = value
	}

	f.v.Set(key, coerced)
	return f.Save()
}

// Unset removes key from the file and saves it.
func (f *File) Unset(key string) error {
	key = strings.ToLower(key)
	if _, ok := defaults[key]; !ok {
		return &UnknownKeyError{Key: key}
	}

	settings := f.v.AllSettings()
	deleteNested(settings, strings.Split(key, "."))

	nv := viper.New()
	nv.SetConfigFile(f.path)
	nv.SetConfigType("yaml")
	nv.SetConfigPermissions(0o600)
	if err := nv.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("failed to rebuild config: %w", err)
	}
	f.v = nv
	return f.Save()
}

// Save writes the file, creating its directory when needed.
func (f *File) Save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := f.v.WriteConfigAs(f.path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetAPIKey stores the API key.
func (f *File) SetAPIKey(key string) error {
	return f.Set("api.key", key)
}

// APIKey returns the stored API key, or "".
func (f *File) APIKey() string {
	return f.v.GetString("api.key")
}

func deleteNested(m map[string]interface{}, parts []string) {
	if len(parts) == 1 {
		delete(m, parts[0])
		return
	}
	child, ok := m[parts[0]].(map[string]interface{})
	if !ok {
		return
	}
	deleteNested(child, parts[1:])
	if len(child) == 0 {
		delete(m, parts[0])
	}
}
