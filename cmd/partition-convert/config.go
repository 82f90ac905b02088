package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-partitions/pkg/community"
	"github.com/dd0wney/cluso-partitions/pkg/readwrite"
	"github.com/dd0wney/cluso-partitions/pkg/validation"
)

// Config describes one conversion. It can be loaded from YAML and is
// overridden by command-line flags.
type Config struct {
	Input     string `yaml:"input"`
	Output    string `yaml:"output"`
	From      string `yaml:"from" validate:"omitempty,oneof=csv json"`
	To        string `yaml:"to" validate:"omitempty,oneof=csv json"`
	Delimiter string `yaml:"delimiter" validate:"max=8"`
	NodeType  string `yaml:"node_type" validate:"omitempty,oneof=string int float"`
	LogLevel  string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// Metadata attached to partitions read from CSV
	Algorithm string         `yaml:"algorithm"`
	Params    map[string]any `yaml:"params"`
	Overlap   bool           `yaml:"overlap"`
	Coverage  float64        `yaml:"coverage"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &config, nil
}

// resolve fills formats from file extensions and applies defaults.
func (c *Config) resolve() error {
	if c.From == "" {
		c.From = formatFromPath(c.Input)
	}
	if c.To == "" {
		c.To = formatFromPath(c.Output)
	}
	c.Delimiter = validation.DefaultOr(c.Delimiter, readwrite.DefaultDelimiter)
	c.NodeType = validation.DefaultOr(c.NodeType, "string")
	c.LogLevel = validation.DefaultOr(c.LogLevel, "info")
	return validation.ValidateConfig(c)
}

// Validate implements validation.Validatable
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	formats := []string{readwrite.FormatCSV, readwrite.FormatJSON}
	return validation.NewConfigValidator("Config").
		Required("Input", c.Input).
		Required("Output", c.Output).
		OneOf("From", c.From, formats).
		OneOf("To", c.To, formats).
		When(c.Input != "" && c.Output != "", func(cv *validation.ConfigValidator) {
			cv.Custom("Output", func() error {
				if filepath.Clean(c.Input) == filepath.Clean(c.Output) {
					return fmt.Errorf("output must differ from input %q", c.Input)
				}
				return nil
			})
		}).
		// JSON input carries its own metadata
		When(c.From == readwrite.FormatCSV, func(cv *validation.ConfigValidator) {
			cv.RangeFloat("Coverage", c.Coverage, 0, 1).
				Custom("Params", func() error {
					for key := range c.Params {
						if err := validation.ValidateParameterKey(key); err != nil {
							return err
						}
					}
					return nil
				})
		}).
		Validate()
}

// hasMetadata reports whether any CSV metadata was configured.
func (c *Config) hasMetadata() bool {
	return c.Algorithm != "" || len(c.Params) > 0 || c.Overlap || c.Coverage != 0
}

func (c *Config) metadata() community.Metadata {
	return community.Metadata{
		MethodName:       c.Algorithm,
		MethodParameters: c.Params,
		Overlap:          c.Overlap,
		NodeCoverage:     c.Coverage,
	}
}

func (c *Config) nodeType() readwrite.NodeType {
	switch c.NodeType {
	case "int":
		return readwrite.AsInt64
	case "float":
		return readwrite.AsFloat
	default:
		return readwrite.AsString
	}
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return readwrite.FormatCSV
	case ".json":
		return readwrite.FormatJSON
	default:
		return ""
	}
}

// paramFlag collects repeated -param key=value flags. Values are decoded
// as YAML scalars, so "10" becomes an int and "true" a bool.
type paramFlag map[string]any

func (p paramFlag) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}

func (p paramFlag) Set(s string) error {
	key, raw, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected key=value, got %q", s)
	}

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return fmt.Errorf("param %s: %w", key, err)
	}
	p[key] = value
	return nil
}
