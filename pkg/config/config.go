// Package config holds the settings shared by the CLI and the server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JoelBender/bsit-tags/pkg/tagname"
	"github.com/JoelBender/bsit-tags/pkg/translate"
)

// Config is the complete configuration
type Config struct {
	VendorID   int               `yaml:"vendor_id" json:"vendor_id"`
	BaseIRI    string            `yaml:"base_iri,omitempty" json:"base_iri,omitempty"`
	Prefixes   map[string]string `yaml:"prefixes,omitempty" json:"prefixes,omitempty"`
	MarkerTags bool              `yaml:"marker_tags" json:"marker_tags"`
	LogLevel   string            `yaml:"log_level" json:"log_level"`
	Server     ServerConfig      `yaml:"server" json:"server"`
	Store      StoreConfig       `yaml:"store" json:"store"`
}

// ServerConfig defines the HTTP listener
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// StoreConfig defines the run archive. An empty path disables archiving.
type StoreConfig struct {
	Path     string `yaml:"path,omitempty" json:"path,omitempty"`
	InMemory bool   `yaml:"in_memory,omitempty" json:"in_memory,omitempty"`
}

// Enabled reports whether runs can be archived
func (s StoreConfig) Enabled() bool {
	return s.Path != "" || s.InMemory
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		VendorID: translate.DefaultVendorID,
		LogLevel: "info",
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// LoadFromPath reads a YAML or JSON config file over the defaults
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is supplied by the user
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses config bytes over the defaults; ext selects the format
func Load(data []byte, ext string) (*Config, error) {
	c := Default()
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config json: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.VendorID < 0 || c.VendorID > 0xFFFF {
		return fmt.Errorf("vendor_id %d out of range 0..65535", c.VendorID)
	}

	if c.BaseIRI != "" {
		if _, err := translate.ParseIRI(c.BaseIRI); err != nil {
			return fmt.Errorf("base_iri: %w", err)
		}
	}

	for prefix, iri := range c.Prefixes {
		desc, err := tagname.Parse(prefix + ":")
		if err == nil && desc.Kind != tagname.KindPrefix {
			err = tagname.ErrInvalidPrefix
		}
		if err != nil {
			return fmt.Errorf("prefixes: %q: %w", prefix, err)
		}
		// Normalize to the bare IRI
		if c.Prefixes[prefix], err = translate.ParseIRI(iri); err != nil {
			return fmt.Errorf("prefixes: %q: %w", prefix, err)
		}
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	return nil
}

// Level returns the slog level named by LogLevel
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// TranslateOptions returns the Build options the config implies
func (c *Config) TranslateOptions(logger *slog.Logger) []translate.Option {
	opts := []translate.Option{translate.WithVendorID(c.VendorID)}
	if c.BaseIRI != "" {
		opts = append(opts, translate.WithBaseIRI(c.BaseIRI))
	}
	if len(c.Prefixes) > 0 {
		opts = append(opts, translate.WithPrefixes(c.Prefixes))
	}
	if c.MarkerTags {
		opts = append(opts, translate.WithMarkerTags())
	}
	if logger != nil {
		opts = append(opts, translate.WithLogger(logger))
	}
	return opts
}
