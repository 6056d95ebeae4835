package main

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read at startup.
const (
	EnvDriver      = "MCP_DB_DRIVER"
	EnvHost        = "MCP_DB_HOST"
	EnvPort        = "MCP_DB_PORT"
	EnvUser        = "MCP_DB_USER"
	EnvPassword    = "MCP_DB_PASSWORD"
	EnvDatabase    = "MCP_DB_NAME"
	EnvAllowWrites = "MCP_ALLOW_WRITES"
	EnvMaxRows     = "MCP_MAX_ROWS"
)

const DefaultMaxRows = 10000

// Config holds the connection parameters and the write gate. It is built
// once at startup from the environment and is read-only afterwards.
type Config struct {
	Driver      string
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	AllowWrites bool
	MaxRows     int
}

// LoadConfig reads the configuration from the process environment. The
// adapter decides which connection parameters are required and which port
// to default to; every missing required variable is reported in one error.
func LoadConfig(adapter DBAdapter) (*Config, error) {
	cfg := &Config{
		Driver:   adapter.DriverName(),
		Host:     os.Getenv(EnvHost),
		User:     os.Getenv(EnvUser),
		Password: os.Getenv(EnvPassword),
		Database: os.Getenv(EnvDatabase),
		MaxRows:  DefaultMaxRows,
	}

	cfg.Port = adapter.DefaultPort()
	if portStr := os.Getenv(EnvPort); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return nil, fmt.Errorf("invalid %s value: %q", EnvPort, portStr)
		}
		cfg.Port = port
	}

	if allowStr := os.Getenv(EnvAllowWrites); allowStr != "" {
		allow, err := strconv.ParseBool(allowStr)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %q", EnvAllowWrites, allowStr)
		}
		cfg.AllowWrites = allow
	}

	if maxStr := os.Getenv(EnvMaxRows); maxStr != "" {
		maxRows, err := strconv.Atoi(maxStr)
		if err != nil || maxRows <= 0 {
			return nil, fmt.Errorf("invalid %s value: %q", EnvMaxRows, maxStr)
		}
		cfg.MaxRows = maxRows
	}

	if missing := adapter.MissingConfig(cfg); len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	return cfg, nil
}
