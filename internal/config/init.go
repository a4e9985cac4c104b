package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// InitDefaultFile writes the current Viper defaults to .factwing/config.yaml,
// creating the directory if needed. It refuses to overwrite an existing
// file so `config init` is safe to run against an already-configured
// project.
func InitDefaultFile() (string, error) {
	viper.SetFs(fs)

	if err := fs.MkdirAll(configDirName, 0o755); err != nil {
		return "", fmt.Errorf("config: creating %s: %w", configDirName, err)
	}

	path := filepath.Join(configDirName, configName+".yaml")
	if exists, err := afero.Exists(fs, path); err == nil && exists {
		return path, fmt.Errorf("config: %s already exists", path)
	}

	setDefaults()
	if err := viper.SafeWriteConfigAs(path); err != nil {
		return "", fmt.Errorf("config: writing %s: %w", path, err)
	}
	return path, nil
}
