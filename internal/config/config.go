// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for heritage.
//
// Configuration file location:
//   - ~/.heritage/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/heritage-tui/internal/logging"
	"github.com/jeranaias/heritage-tui/internal/model"
	"github.com/jeranaias/heritage-tui/internal/storage"
	"github.com/jeranaias/heritage-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete heritage configuration.
type Config struct {
	API   APIConfig   `toml:"api" json:"api"`
	Chat  ChatConfig  `toml:"chat" json:"chat"`
	Store StoreConfig `toml:"store" json:"store"`
	Log   LogConfig   `toml:"log" json:"log"`
	UI    UIConfig    `toml:"ui" json:"ui"`
}

// APIConfig locates the heritage backend.
type APIConfig struct {
	BaseURL   string `toml:"base_url" json:"base_url"`
	UserAgent string `toml:"user_agent" json:"user_agent"`
}

// ChatConfig holds per-query defaults.
type ChatConfig struct {
	// Language is the reply language: en, ta or hi.
	Language string `toml:"language" json:"language"`

	// Latitude and Longitude are sent with every query when both are set.
	Latitude  *float64 `toml:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `toml:"longitude,omitempty" json:"longitude,omitempty"`
}

// StoreConfig selects where the session is persisted.
type StoreConfig struct {
	// Backend is bolt, sqlite, json or memory.
	Backend string `toml:"backend" json:"backend"`
	// Path overrides the default file under the config directory.
	Path string `toml:"path" json:"path"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}

// UIConfig contains display preferences.
type UIConfig struct {
	Theme        string `toml:"theme" json:"theme"` // auto, dark, light
	Markdown     bool   `toml:"markdown" json:"markdown"`
	SpeakReplies bool   `toml:"speak_replies" json:"speak_replies"`
	NoColor      bool   `toml:"no_color" json:"no_color"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			UserAgent: "heritage-tui",
		},
		Chat: ChatConfig{
			Language: string(model.DefaultLanguage),
		},
		Store: StoreConfig{
			Backend: string(storage.BackendBolt),
		},
		Log: LogConfig{
			Level: logging.DefaultLevel,
		},
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the heritage configuration directory path.
// HERITAGE_HOME overrides it.
func ConfigDir() (string, error) {
	if dir := os.Getenv("HERITAGE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".heritage"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// StorePath resolves the session store file.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	b, err := storage.ParseBackend(c.Store.Backend)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, b.DefaultFileName()), nil
}

// LogPath resolves the log file.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "heritage.log"), nil
}

// HistoryPath is the liner history file for the plain REPL.
func HistoryPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chat_history"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads ~/.heritage/config.toml, falling back to defaults when it does
// not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return LoadFrom(path)
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFrom loads configuration from a specific file path with full validation.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ReadFile decodes path over the defaults without environment overrides or
// validation. A missing file yields the defaults. It is used when editing
// the file so that overrides are never written back.
func ReadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if err := decodeFile(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to read config from %s: %w", path, err)
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	fillDefaults(cfg)
	return nil
}

// fillDefaults fills in zero values a file may have set explicitly.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = defaults.API.UserAgent
	}
	if cfg.Chat.Language == "" {
		cfg.Chat.Language = defaults.Chat.Language
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = defaults.Store.Backend
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration as TOML.
// SECURITY: 0600, the file may name a private backend.
// RELIABILITY: Atomic write prevents a torn file on crash.
func SaveTo(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# heritage configuration file\n")
	buf.WriteString("# Generated by heritage - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, value, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("api.base_url", c.API.BaseURL, "must be an http:// or https:// URL with a host")
	}

	if _, err := model.ParseLanguage(c.Chat.Language); err != nil {
		add("chat.language", c.Chat.Language, "must be one of: en, ta, hi")
	}
	if (c.Chat.Latitude == nil) != (c.Chat.Longitude == nil) {
		add("chat.latitude", "", "latitude and longitude must be set together")
	}
	if c.Chat.Latitude != nil && (*c.Chat.Latitude < -90 || *c.Chat.Latitude > 90) {
		add("chat.latitude", strconv.FormatFloat(*c.Chat.Latitude, 'f', -1, 64), "must be between -90 and 90")
	}
	if c.Chat.Longitude != nil && (*c.Chat.Longitude < -180 || *c.Chat.Longitude > 180) {
		add("chat.longitude", strconv.FormatFloat(*c.Chat.Longitude, 'f', -1, 64), "must be between -180 and 180")
	}

	if _, err := storage.ParseBackend(c.Store.Backend); err != nil {
		add("store.backend", c.Store.Backend, "must be one of: bolt, sqlite, json, memory")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", c.Log.Level, "must be one of: debug, info, warn, error")
	}

	switch strings.ToLower(c.UI.Theme) {
	case "auto", "dark", "light":
	default:
		add("ui.theme", c.UI.Theme, "must be one of: auto, dark, light")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Language returns the configured language, or the default when invalid.
func (c *Config) Language() model.Language {
	l, err := model.ParseLanguage(c.Chat.Language)
	if err != nil {
		return model.DefaultLanguage
	}
	return l
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - HERITAGE_API_URL: overrides api.base_url
//   - HERITAGE_LANGUAGE: overrides chat.language
//   - HERITAGE_LATITUDE, HERITAGE_LONGITUDE: override chat.latitude/longitude
//   - HERITAGE_STORE: overrides store.backend
//   - HERITAGE_STORE_PATH: overrides store.path
//   - HERITAGE_LOG_LEVEL: overrides log.level
//   - NO_COLOR: sets ui.no_color
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("HERITAGE_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("HERITAGE_LANGUAGE"); v != "" {
		c.Chat.Language = v
	}
	if v := os.Getenv("HERITAGE_LATITUDE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Chat.Latitude = &f
		}
	}
	if v := os.Getenv("HERITAGE_LONGITUDE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Chat.Longitude = &f
		}
	}
	if v := os.Getenv("HERITAGE_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("HERITAGE_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("HERITAGE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.UI.NoColor = true
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "chat.language").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return nil, nil
		}
		return field.Elem().Interface(), nil
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type; an empty string clears an optional field.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("%s is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Float64:
			f, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(f)
			return nil
		case reflect.Bool:
			b, err := strconv.ParseBool(strVal)
			if err != nil {
				lower := strings.ToLower(strVal)
				b = lower == "yes" || lower == "on"
				if !b && lower != "no" && lower != "off" {
					return fmt.Errorf("invalid boolean value %q", strVal)
				}
			}
			field.SetBool(b)
			return nil
		case reflect.Ptr:
			if strVal == "" {
				field.Set(reflect.Zero(field.Type()))
				return nil
			}
			elem := reflect.New(field.Type().Elem())
			if err := setFieldValue(elem.Elem(), strVal); err != nil {
				return err
			}
			field.Set(elem)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if field.Kind() == reflect.Ptr && val.Type().ConvertibleTo(field.Type().Elem()) {
		elem := reflect.New(field.Type().Elem())
		elem.Elem().Set(val.Convert(field.Type().Elem()))
		field.Set(elem)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation, sorted.
func GetAllKeys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		prefix := tomlName(section)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, prefix+"."+tomlName(section.Type.Field(j)))
		}
	}
	sort.Strings(keys)
	return keys
}

func tomlName(f reflect.StructField) string {
	name := strings.Split(f.Tag.Get("toml"), ",")[0]
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Chat.Latitude != nil {
		lat := *c.Chat.Latitude
		clone.Chat.Latitude = &lat
	}
	if c.Chat.Longitude != nil {
		lon := *c.Chat.Longitude
		clone.Chat.Longitude = &lon
	}
	return &clone
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	_ = toml.NewEncoder(&buf).Encode(c)
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
