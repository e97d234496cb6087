package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Clone deep-copies c via a YAML round-trip, falling back to a
// shallow struct copy (sufficient here, since every field is either a
// pointer or a map the caller doesn't mutate after Merge) if encoding
// fails for some reason.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	data, err := c.ToYAML()
	if err != nil {
		shallow := *c
		return &shallow
	}
	clone, err := FromYAML(data)
	if err != nil {
		shallow := *c
		return &shallow
	}
	clone.Jobs = c.Jobs
	return clone
}
