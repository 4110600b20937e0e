package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const configFileName = "config.toml"

// Load reads config.toml. explicitPath wins over <homeDir>/config.toml;
// a missing default file yields an empty FileConfig, but a missing
// explicit path is an error. Returns the path actually loaded ("" when
// no file was read).
func Load(homeDir, explicitPath string) (*FileConfig, string, error) {
	path := explicitPath
	if path == "" {
		path = filepath.Join(homeDir, configFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && explicitPath == "" {
			return &FileConfig{}, "", nil
		}
		return nil, "", fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, "", fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, path, nil
}
