package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/wmctrl/internal/logging"
)

const (
	DefaultTitleCapacity         = 1000
	DefaultEmptyTitlePlaceholder = "---"
	DefaultLogLevel              = "warn"
)

// LoggingConfig controls diagnostic output on stderr and in an optional file.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the effective configuration.
type Config struct {
	// TitleCapacity is the title buffer size, terminator included.
	TitleCapacity int `yaml:"title_capacity"`
	// EmptyTitlePlaceholder is printed for windows without readable text.
	EmptyTitlePlaceholder string        `yaml:"empty_title_placeholder"`
	Logging               LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		TitleCapacity:         DefaultTitleCapacity,
		EmptyTitlePlaceholder: DefaultEmptyTitlePlaceholder,
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

func (c *Config) Validate() error {
	if c.TitleCapacity < 2 {
		return &ValidationError{Path: "title_capacity", Err: fmt.Errorf("title_capacity must be >= 2")}
	}
	if strings.TrimSpace(c.EmptyTitlePlaceholder) == "" {
		return &ValidationError{Path: "empty_title_placeholder", Err: fmt.Errorf("empty_title_placeholder must not be empty")}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	return nil
}
