package config

import (
	"errors"
	"log/slog"
	"os"
)

// ProjectConfigFile is looked up in the working directory when no path is given.
const ProjectConfigFile = "imedict.yaml"

// Loader resolves which configuration file to use.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load returns the configuration at path, or the project file in the working
// directory when path is empty, or the defaults when neither exists. An
// explicit path that cannot be read is an error.
func (l *Loader) Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(ProjectConfigFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				l.logger.Warn("Cannot stat project config", slog.String("path", ProjectConfigFile), slog.String("error", err.Error()))
			}
			l.logger.Debug("No project config found, using defaults")
			return DefaultConfig(), nil
		}
		path = ProjectConfigFile
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Loaded config", slog.String("path", path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
