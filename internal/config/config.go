package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the tool.
// Values are read by viper from a config file or environment variables.
type Config struct {
	// DataDir is where the BadgerDB state lives.
	DataDir string `mapstructure:"DATA_DIR"`

	// CodeLength is the length of generated short codes.
	CodeLength int `mapstructure:"CODE_LENGTH"`

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Ephemeral keeps all state in memory, nothing written to disk.
	Ephemeral bool `mapstructure:"EPHEMERAL"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Registering defaults also makes the keys visible to AutomaticEnv.
	viper.SetDefault("DATA_DIR", "./shortbox_data")
	viper.SetDefault("CODE_LENGTH", 6)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("EPHEMERAL", false)

	err = viper.ReadInConfig()
	if err != nil {
		// A missing config file is fine, env vars and defaults cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if config.CodeLength <= 0 {
		return Config{}, fmt.Errorf("CODE_LENGTH must be positive, got %d", config.CodeLength)
	}

	return config, nil
}
