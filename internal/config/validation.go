package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks tool configuration for unusable or unsafe values. Paths
// from configuration files must stay inside the working tree: the generator
// writes artifacts relative to the output directory, so traversal segments
// here would let a config file write outside the project.
func Validate(config *Config) error {
	if err := validatePath("templates.dir", config.Templates.Dir); err != nil {
		return err
	}
	if err := validatePath("output.dir", config.Output.Dir); err != nil {
		return err
	}
	if err := validatePath("project.config_file", config.Project.ConfigFile); err != nil {
		return err
	}
	for _, p := range config.Watch.Paths {
		if err := validatePath("watch.paths", p); err != nil {
			return err
		}
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d outside valid range 1-65535", config.Server.Port)
	}
	if config.Engine.MaxDepth < 1 {
		return fmt.Errorf("config: engine.max_depth must be positive, got %d", config.Engine.MaxDepth)
	}
	if config.Watch.Debounce < 0 {
		return fmt.Errorf("config: watch.debounce must not be negative")
	}
	return nil
}

func validatePath(field, path string) error {
	if path == "" {
		return fmt.Errorf("config: %s must not be empty", field)
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("config: %s %q escapes the project directory", field, path)
	}
	return nil
}
