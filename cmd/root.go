// Package cmd provides the pilotgen command-line interface.
//
// Configuration sources, highest priority first:
//  1. Command-line flags (--config, --port, ...)
//  2. PILOTGEN_CONFIG_FILE environment variable
//  3. Individual environment variables (PILOTGEN_SERVER_PORT, ...)
//  4. Configuration file (.pilotgen.yml in the current directory)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pilotgen/pilotgen/internal/logging"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "pilotgen",
	Short: "Generate AI assistant configuration artifacts from templates",
	Long: `pilotgen renders a project's configuration into the structured text
artifacts that drive AI coding assistants: Copilot instruction files, setup
workflows, issue templates, and Claude command documents.

Templates use a small directive language ({{VAR}}, {{#if FLAG}}, {{#each SEQ}})
over a YAML project configuration, so every artifact stays consistent with the
project's actual stack and conventions.

Quick Start:
  pilotgen init                   Set up a project configuration
  pilotgen generate               Render all artifacts
  pilotgen list                   List available templates
  pilotgen watch                  Regenerate on changes
  pilotgen serve                  Preview artifacts in the browser`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .pilotgen.yml, can also use PILOTGEN_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info",
		"log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("PILOTGEN_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pilotgen")
	}

	viper.SetEnvPrefix("PILOTGEN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults and environment cover it.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the logger commands share, honoring --log-level.
func newLogger() logging.Logger {
	logConfig := logging.DefaultConfig()
	logConfig.Level = logging.ParseLevel(logLevel)
	return logging.NewLogger(logConfig)
}
