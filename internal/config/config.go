// Package config provides configuration management for pilotgen using Viper
// for flexible configuration loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with the PILOTGEN_ prefix. It manages the project configuration
// path, template discovery, output placement, preview server settings, and
// watch-mode options. The project configuration itself (the value tree that
// drives template rendering) is a separate document loaded by configtree.
package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Project   ProjectConfig   `yaml:"project" mapstructure:"project"`
	Templates TemplatesConfig `yaml:"templates" mapstructure:"templates"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Watch     WatchConfig     `yaml:"watch" mapstructure:"watch"`
	Engine    EngineConfig    `yaml:"engine" mapstructure:"engine"`
}

// ProjectConfig locates the project configuration document.
type ProjectConfig struct {
	ConfigFile string `yaml:"config_file" mapstructure:"config_file"`
}

// TemplatesConfig controls template discovery.
type TemplatesConfig struct {
	Dir             string   `yaml:"dir" mapstructure:"dir"`
	Suffix          string   `yaml:"suffix" mapstructure:"suffix"`
	ExcludePatterns []string `yaml:"exclude_patterns" mapstructure:"exclude_patterns"`
	// UseEmbedded falls back to the built-in template pack when the
	// templates directory is missing or empty.
	UseEmbedded bool `yaml:"use_embedded" mapstructure:"use_embedded"`
}

// OutputConfig controls where rendered artifacts land.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

type ServerConfig struct {
	Port int    `yaml:"port" mapstructure:"port"`
	Host string `yaml:"host" mapstructure:"host"`
	Open bool   `yaml:"open" mapstructure:"open"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
	Paths    []string      `yaml:"paths" mapstructure:"paths"`
}

type EngineConfig struct {
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle values set via viper (workaround for viper zero-value handling)
	if viper.IsSet("templates.dir") {
		config.Templates.Dir = viper.GetString("templates.dir")
	}
	if viper.IsSet("templates.use_embedded") {
		config.Templates.UseEmbedded = viper.GetBool("templates.use_embedded")
	}
	if viper.IsSet("watch.paths") && len(config.Watch.Paths) == 0 {
		if paths := viper.GetStringSlice("watch.paths"); len(paths) > 0 {
			config.Watch.Paths = paths
		}
	}

	applyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Project.ConfigFile == "" {
		config.Project.ConfigFile = "project-config.yml"
	}
	if config.Templates.Dir == "" {
		config.Templates.Dir = "templates"
	}
	if config.Templates.Suffix == "" {
		config.Templates.Suffix = ".template"
	}
	if !viper.IsSet("templates.use_embedded") {
		config.Templates.UseEmbedded = true
	}
	if config.Output.Dir == "" {
		config.Output.Dir = "."
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8520
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = 300 * time.Millisecond
	}
	if config.Engine.MaxDepth == 0 {
		config.Engine.MaxDepth = 64
	}
}
