// Package config handles configuration loading and shared data structures.
package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Attribution string    `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Datasets    []Dataset `yaml:"datasets" json:"datasets"`
}

// Dataset represents a single published GeoJSON dataset.
type Dataset struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	Name        string   `yaml:"name" json:"name"`
	Path        string   `yaml:"path" json:"-"`
	Title       string   `yaml:"title,omitempty" json:"title,omitempty"`
	Attribution string   `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty" json:"-"`
	Features    int      `yaml:"-" json:"features"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrapf(err, "config: parse %s", path)
	}

	seen := make(map[string]bool)
	for i, d := range cfg.Datasets {
		if d.Name == "" {
			return nil, eris.Errorf("config: dataset %d has no name", i+1)
		}
		if d.Path == "" {
			return nil, eris.Errorf("config: dataset %q has no path", d.Name)
		}
		for _, name := range append([]string{d.Name}, d.Aliases...) {
			if seen[name] {
				return nil, eris.Errorf("config: dataset name or alias %q used twice", name)
			}
			seen[name] = true
		}
	}

	return &cfg, nil
}
