package logger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds logging configuration. Every field can be overridden from the
// environment.
type Config struct {
	Level          string `yaml:"level"             env:"CHARKLI_LOG_LEVEL"`
	ConsoleEnabled bool   `yaml:"console_enabled"   env:"CHARKLI_LOG_CONSOLE_ENABLED"`
	ConsoleFormat  string `yaml:"console_format"    env:"CHARKLI_LOG_CONSOLE_FORMAT"`
	FileEnabled    bool   `yaml:"file_enabled"      env:"CHARKLI_LOG_FILE_ENABLED"`
	FilePath       string `yaml:"file_path"         env:"CHARKLI_LOG_FILE_PATH"`
	FileFormat     string `yaml:"file_format"       env:"CHARKLI_LOG_FILE_FORMAT"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"  env:"CHARKLI_LOG_FILE_MAX_SIZE_MB"`
	FileMaxBackups int    `yaml:"file_max_backups"  env:"CHARKLI_LOG_FILE_MAX_BACKUPS"`
	FileMaxAgeDays int    `yaml:"file_max_age_days" env:"CHARKLI_LOG_FILE_MAX_AGE_DAYS"`
}

// DefaultConfig logs INFO and above as text to stdout.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       "logs/charkli.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// loggingFile is the part of the config file this package reads.
type loggingFile struct {
	Logging Config `yaml:"logging"`
}

// LoadConfig reads the logging block of the YAML file at configPath on top of
// the defaults, then applies environment overrides. A missing file is not an
// error. A malformed file returns the defaults together with the parse error.
func LoadConfig(configPath string) (Config, error) {
	file := loggingFile{Logging: DefaultConfig()}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return DefaultConfig(), fmt.Errorf("read logging config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &file); err != nil {
				return DefaultConfig(), fmt.Errorf("parse logging config: %w", err)
			}
		}
	}

	config := file.Logging
	if err := env.Parse(&config); err != nil {
		return config, fmt.Errorf("logging env overrides: %w", err)
	}
	return config, nil
}
