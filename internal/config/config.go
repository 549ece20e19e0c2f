package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ErrNoActiveConfig indicates no enabled provider entry was found. Service
// construction treats this as fatal; there is no retry path.
var ErrNoActiveConfig = errors.New("no active llm provider configuration")

// ProviderConfig is the immutable provider snapshot used for one service
// instance. Loaded once; never mutated afterward.
type ProviderConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	APIBase  string `mapstructure:"api_base"`
	Model    string `mapstructure:"model"`
	Active   bool   `mapstructure:"active"`
}

// Name returns the canonical (lower-cased, trimmed) provider identifier.
// All adapter selection matches against this form.
func (c ProviderConfig) Name() string {
	return strings.ToLower(strings.TrimSpace(c.Provider))
}

// IsMock reports whether this entry is the no-op mock provider.
func (c ProviderConfig) IsMock() bool { return c.Name() == "mock" }

// Store exposes the currently active provider configuration.
type Store interface {
	Active() (ProviderConfig, error)
}

// fileConfig is the on-disk shape of .loupe.yaml.
type fileConfig struct {
	Providers []ProviderConfig `mapstructure:"providers"`
}

// FileStore loads provider entries from .loupe.yaml (working directory or
// home) with LOUPE_* environment overrides.
type FileStore struct {
	v *viper.Viper
}

// NewFileStore builds a store reading from the given path, or the default
// search locations when path is empty.
func NewFileStore(path string) *FileStore {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".loupe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	v.SetEnvPrefix("LOUPE")
	v.AutomaticEnv()
	return &FileStore{v: v}
}

// Active returns the first enabled provider entry. A LOUPE_PROVIDER
// environment variable takes precedence over the file and builds the entry
// entirely from LOUPE_* variables.
func (s *FileStore) Active() (ProviderConfig, error) {
	if p := s.v.GetString("provider"); p != "" {
		return ProviderConfig{
			Provider: p,
			APIKey:   s.v.GetString("api_key"),
			APIBase:  s.v.GetString("api_base"),
			Model:    s.v.GetString("model"),
			Active:   true,
		}, nil
	}

	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return ProviderConfig{}, ErrNoActiveConfig
		}
		return ProviderConfig{}, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := s.v.Unmarshal(&fc); err != nil {
		return ProviderConfig{}, fmt.Errorf("parsing config file: %w", err)
	}
	for _, p := range fc.Providers {
		if p.Active && p.Name() != "" {
			return p, nil
		}
	}
	return ProviderConfig{}, ErrNoActiveConfig
}

// StaticStore returns a fixed configuration; used by tests and by callers
// that already hold a config snapshot.
type StaticStore struct {
	Config ProviderConfig
	Err    error
}

// Active implements Store.
func (s StaticStore) Active() (ProviderConfig, error) {
	if s.Err != nil {
		return ProviderConfig{}, s.Err
	}
	return s.Config, nil
}
