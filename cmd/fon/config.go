// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validate = validator.New()

// Config is what the commands can be told by file, environment, or flags.
//
// Precedence, from highest: flags, environment (FON_*), config file, defaults.
type Config struct {
	// Staged files are created here instead of next to their target.
	TempDir string `mapstructure:"temp_dir" validate:"omitempty,dir"`

	// Verbose turns on the trace of opened and closed files.
	Verbose bool `mapstructure:"verbose"`

	Logging LoggingConfig `mapstructure:"logging"`
	Head    HeadConfig    `mapstructure:"head"`
	Names   NamesConfig   `mapstructure:"names"`
}

// LoggingConfig selects how the log is written to stderr.
type LoggingConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Encoding string `mapstructure:"encoding" validate:"oneof=json console"`
}

// HeadConfig holds the defaults of command 'head'.
type HeadConfig struct {
	Lines int `mapstructure:"lines" validate:"min=1"`
}

// NamesConfig restricts the names fon writes files under.
type NamesConfig struct {
	Check  bool   `mapstructure:"check"`
	Ranges string `mapstructure:"ranges"` // like "x0020-x007e x00c0-x017f"
	Form   string `mapstructure:"form" validate:"omitempty,oneof=nfc nfd nfkc nfkd"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("temp_dir", "")
	v.SetDefault("verbose", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("head.lines", 10)
	v.SetDefault("names.check", false)
	v.SetDefault("names.ranges", "")
	v.SetDefault("names.form", "")
}

// loadConfig reads the configuration for 'cmd',
// from the file at 'configPath', or the default location if empty.
func loadConfig(cmd *cobra.Command, configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "cannot read config file")
		}
	}

	for key, flag := range map[string]string{
		"temp_dir":   "temp-dir",
		"verbose":    "verbose",
		"head.lines": "lines",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal config")
	}
	if cfg.Verbose {
		cfg.Logging.Level = "debug"
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, formatValidationError(err)
	}
	return &cfg, nil
}

func formatValidationError(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		e := verrs[0]
		return errors.Errorf("configuration: %s fails on '%s' (value: %v)", e.Namespace(), e.Tag(), e.Value())
	}
	return err
}

// configDir is $XDG_CONFIG_HOME/fon, or its usual fallback.
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fon")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "fon")
}
