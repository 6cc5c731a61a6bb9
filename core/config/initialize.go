package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into the directory, refusing
// to overwrite an existing one.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	return InitializeFs(afero.NewOsFs(), path, logger)
}

// InitializeFs writes the default configuration into the directory on the
// given filesystem.
func InitializeFs(fsys afero.Fs, path string, logger *log.Logger) (*Configuration, error) {
	configPath := filepath.Join(path, ConfigurationName)

	exists, err := afero.Exists(fsys, configPath)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("refusing to overwrite existing %s", configPath)
	}

	logger.Printf("Writing %s", configPath)
	if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0600); err != nil {
		return nil, err
	}

	return LoadFs(fsys, path)
}
