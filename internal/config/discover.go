package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the project config file mintyml looks for in a working
// directory when no explicit path is given.
const FileName = ".mintyml.yaml"

// Load reads the config at explicitPath, or FileName inside
// workingDir if explicitPath is empty. It returns Default() with no
// error when no explicit path was given and no file is found.
func Load(explicitPath, workingDir string) (*Config, error) {
	path := explicitPath
	if path == "" {
		candidate := filepath.Join(workingDir, FileName)
		if _, err := os.Stat(candidate); err != nil {
			return Default(), nil
		}
		path = candidate
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := FromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
