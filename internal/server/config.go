package server

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the HTTP server settings, loaded from the environment.
type Config struct {
	Host string `envconfig:"HOST" default:"127.0.0.1"`
	Port int    `envconfig:"PORT" default:"8080"`
}

// LoadConfig reads the server configuration from BEDROCK_CHAT_* variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("BEDROCK_CHAT", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load server configuration: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
