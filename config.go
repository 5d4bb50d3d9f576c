package equivrw

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/equivrw/internal/congr"
	"github.com/gnoswap-labs/equivrw/internal/search"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// DefaultConfigFile is the configuration file looked up when no path is
// given.
const DefaultConfigFile = ".equivrw.yaml"

// Config tunes the search and registers extra containers.
type Config struct {
	Name          string         `yaml:"name"`
	MaxSteps      int            `yaml:"max_steps"`
	Transparency  string         `yaml:"transparency"`
	Verbose       bool           `yaml:"verbose"`
	DisabledRules []string       `yaml:"disabled_rules,omitempty"`
	Functors      []FormerConfig `yaml:"functors,omitempty"`
}

// FormerConfig declares a container type and its map function. Params is
// 1 for List-like formers and 2 for Prod-like ones.
type FormerConfig struct {
	Name   string `yaml:"name"`
	Map    string `yaml:"map"`
	Params int    `yaml:"params"`
}

func DefaultConfig() Config {
	return Config{
		Name:         "equivrw",
		MaxSteps:     search.DefaultMaxSteps,
		Transparency: term.TransparencyNone.String(),
	}
}

// LoadConfig reads the configuration at path over the defaults. A missing
// file at the default location is not an error.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return config, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Validate checks the values that do not depend on a registry.
func (c Config) Validate() error {
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", c.MaxSteps)
	}
	if _, err := term.ParseTransparency(c.Transparency); err != nil {
		return err
	}
	for _, f := range c.Functors {
		if f.Name == "" || f.Map == "" {
			return fmt.Errorf("functor needs a name and a map, got %+v", f)
		}
		if f.Params != 1 && f.Params != 2 {
			return fmt.Errorf("functor %s: params must be 1 or 2, got %d", f.Name, f.Params)
		}
	}
	return nil
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// registry builds the rule registry c describes.
func (c Config) registry() (*congr.Registry, error) {
	reg := congr.Default()
	for _, f := range c.Functors {
		if err := reg.AddFormer(f.Params, congr.Former{Name: f.Name, Map: f.Map}); err != nil {
			return nil, err
		}
	}
	if err := reg.Disable(c.DisabledRules...); err != nil {
		return nil, err
	}
	return reg, nil
}

func (c Config) transparency() term.Transparency {
	tr, _ := term.ParseTransparency(c.Transparency)
	return tr
}
