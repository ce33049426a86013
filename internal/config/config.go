// Package config loads the .docscan.toml project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up at the repository root.
const FileName = ".docscan.toml"

// DefaultDebounce is used when [watch] debounce is unset.
const DefaultDebounce = 500 * time.Millisecond

// KnownLanguages are the language names accepted in `languages`.
var KnownLanguages = []string{"javascript", "typescript", "tsx"}

type Config struct {
	// Modules overrides the component module allow-list when non-empty.
	Modules   []string `toml:"modules"`
	Languages []string `toml:"languages"`
	Exclude   Exclude  `toml:"exclude"`
	Watch     Watch    `toml:"watch"`
}

// Exclude holds glob patterns matched against base names.
type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Watch: Watch{Debounce: DefaultDebounce}}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads path, returning Default() when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks module names, languages and exclude patterns.
func (c *Config) Validate() error {
	for _, m := range c.Modules {
		if m == "" {
			return errors.New("modules: empty module name")
		}
	}
	for _, lang := range c.Languages {
		if !slices.Contains(KnownLanguages, lang) {
			return fmt.Errorf("languages: unknown language %q", lang)
		}
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch: negative debounce %s", c.Watch.Debounce)
	}
	if _, err := NewMatcher(c.Exclude.Dirs, c.Exclude.Files); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}
	return nil
}
