package jsweb

import "github.com/jsweb-dev/jsweb/internal/runtimeconfig"

// Config exports the project configuration decoded from jsweb.yaml.
type Config = runtimeconfig.Config

// DatabaseConfig exports the database section of the configuration.
type DatabaseConfig = runtimeconfig.DatabaseConfig

// ServerConfig exports the server section of the configuration.
type ServerConfig = runtimeconfig.ServerConfig

// SessionConfig exports the session section of the configuration.
type SessionConfig = runtimeconfig.SessionConfig

// DefaultConfig returns the configuration used when jsweb.yaml omits values.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads and validates a jsweb.yaml file without constructing an app.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
