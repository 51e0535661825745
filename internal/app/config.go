package app

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config contains global runtime configuration.
type Config struct {
	Workspace string
	LogLevel  string
	Timeout   time.Duration
	TopPorts  int
	NoColor   bool
	Quiet     bool
}

// MustLoadConfigFromViper builds Config from Viper-bound flags/env.
func MustLoadConfigFromViper() Config {
	ws := viper.GetString("workspace")
	if ws == "" {
		panic("workspace is empty")
	}
	return Config{
		Workspace: ws,
		LogLevel:  viper.GetString("log_level"),
		Timeout:   viper.GetDuration("timeout"),
		TopPorts:  viper.GetInt("top_ports"),
		NoColor:   viper.GetBool("no_color"),
		Quiet:     viper.GetBool("quiet"),
	}
}

// Validate returns error if configuration is invalid.
func (c Config) Validate() error {
	if c.Workspace == "" {
		return fmt.Errorf("workspace cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.TopPorts <= 0 {
		return fmt.Errorf("top-ports must be positive")
	}
	return nil
}
