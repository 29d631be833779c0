// Package config loads the optional .noelse.yml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/noelse/internal/lang"
)

// FileName is looked up at the lint root when no path is given.
const FileName = ".noelse.yml"

// Config is the project file. Zero values mean "use the default".
type Config struct {
	Languages     []string `yaml:"languages,omitempty"`
	Ignore        []string `yaml:"ignore,omitempty"`
	MaxFileSize   int      `yaml:"max-file-size,omitempty"`
	PreserveScope bool     `yaml:"preserve-scope,omitempty"`
}

// Parse decodes data. Unknown keys are rejected so typos do not go
// unnoticed.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Find loads FileName from dir. A missing file yields an empty Config.
func Find(dir string) (*Config, error) {
	c, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return c, err
}

// Validate checks language names and limits.
func (c *Config) Validate() error {
	for _, name := range c.Languages {
		if _, ok := lang.Languages[name]; !ok {
			return fmt.Errorf("unsupported language %q", name)
		}
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max-file-size must not be negative, got %d", c.MaxFileSize)
	}
	return nil
}
