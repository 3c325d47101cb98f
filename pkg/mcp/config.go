package mcp

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gameplay-tools/gameplay-mcp/pkg/config"
)

// Config holds HTTP transport configuration.
type Config struct {
	// Host is the interface to listen on.
	Host string `json:"host"`

	// Port is the TCP port to listen on. Zero picks a free port.
	Port int `json:"port"`

	// Path is the MCP JSON-RPC endpoint path (e.g., "/mcp").
	Path string `json:"path"`

	// AllowedOrigins is a list of allowed Origin headers.
	// Supports wildcards like "http://localhost:*".
	AllowedOrigins []string `json:"allowedOrigins"`

	// SessionTimeout is the idle timeout for sessions.
	SessionTimeout time.Duration `json:"sessionTimeout"`

	// MaxSessions is the maximum number of concurrent sessions.
	MaxSessions int `json:"maxSessions"`

	// ReadTimeout is the HTTP read timeout.
	ReadTimeout time.Duration `json:"readTimeout"`

	// WriteTimeout is the HTTP write timeout. It must exceed the longest
	// upstream fetch or slow tool calls are cut off.
	WriteTimeout time.Duration `json:"writeTimeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:           config.DefaultHost,
		Port:           config.DefaultPort,
		Path:           "/mcp",
		AllowedOrigins: []string{"*"},
		SessionTimeout: 30 * time.Minute,
		MaxSessions:    100,
		ReadTimeout:    config.DefaultReadTimeout,
		WriteTimeout:   config.DefaultWriteTimeout,
	}
}

// ConfigFrom derives a transport Config from the gateway's server settings.
func ConfigFrom(sc config.ServerConfig) *Config {
	cfg := DefaultConfig()
	cfg.Host = sc.Host
	cfg.Port = sc.Port
	if sc.ReadTimeout > 0 {
		cfg.ReadTimeout = sc.ReadTimeout
	}
	if sc.WriteTimeout > 0 {
		cfg.WriteTimeout = sc.WriteTimeout
	}
	return cfg
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", c.Port)
	}

	if c.Path == "" {
		return errors.New("path cannot be empty")
	}

	if c.Path[0] != '/' {
		return fmt.Errorf("path must start with '/', got %q", c.Path)
	}

	if c.MaxSessions < 1 {
		return fmt.Errorf("maxSessions must be at least 1, got %d", c.MaxSessions)
	}

	if c.SessionTimeout < time.Second {
		return errors.New("sessionTimeout must be at least 1 second")
	}

	return nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
