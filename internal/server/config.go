package server

import (
	"fmt"
	"net"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

const (
	DefaultAddress        = "0.0.0.0"
	DefaultPort           = 4000
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultReapInterval   = 60
	DefaultSendBuffer     = 256
	DefaultMaxMessageSize = 8192
)

var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"text", "json", "logfmt"}
)

// Config represents the complete server configuration
type Config struct {
	Server     ServerSettings
	Rooms      RoomSettings
	Connection ConnectionSettings
}

// ServerSettings contains listener and logging configuration
type ServerSettings struct {
	Address   string `hcl:"address,optional"`
	Port      int    `hcl:"port,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	LogFormat string `hcl:"log_format,optional"`
}

// RoomSettings controls the idle room reaper. A zero timeout disables it.
type RoomSettings struct {
	IdleTimeoutSeconds  int `hcl:"idle_timeout_seconds,optional"`
	ReapIntervalSeconds int `hcl:"reap_interval_seconds,optional"`
}

func (r RoomSettings) IdleTimeout() time.Duration {
	return time.Duration(r.IdleTimeoutSeconds) * time.Second
}

func (r RoomSettings) ReapInterval() time.Duration {
	return time.Duration(r.ReapIntervalSeconds) * time.Second
}

// ConnectionSettings tunes each WebSocket client
type ConnectionSettings struct {
	SendBuffer     int      `hcl:"send_buffer,optional"`
	MaxMessageSize int64    `hcl:"max_message_size,optional"`
	AllowedOrigins []string `hcl:"allowed_origins,optional"`
}

// configFile mirrors Config with every block optional
type configFile struct {
	Server     *ServerSettings     `hcl:"server,block"`
	Rooms      *RoomSettings       `hcl:"rooms,block"`
	Connection *ConnectionSettings `hcl:"connection,block"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:   DefaultAddress,
			Port:      DefaultPort,
			LogLevel:  DefaultLogLevel,
			LogFormat: DefaultLogFormat,
		},
		Rooms: RoomSettings{
			ReapIntervalSeconds: DefaultReapInterval,
		},
		Connection: ConnectionSettings{
			SendBuffer:     DefaultSendBuffer,
			MaxMessageSize: DefaultMaxMessageSize,
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields the
// defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw configFile
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := DefaultConfig()
	if raw.Server != nil {
		config.Server = *raw.Server
	}
	if raw.Rooms != nil {
		config.Rooms = *raw.Rooms
	}
	if raw.Connection != nil {
		config.Connection = *raw.Connection
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = DefaultAddress
	}
	if config.Server.Port == 0 {
		config.Server.Port = DefaultPort
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = DefaultLogLevel
	}
	if config.Server.LogFormat == "" {
		config.Server.LogFormat = DefaultLogFormat
	}
	if config.Rooms.ReapIntervalSeconds == 0 {
		config.Rooms.ReapIntervalSeconds = DefaultReapInterval
	}
	if config.Connection.SendBuffer == 0 {
		config.Connection.SendBuffer = DefaultSendBuffer
	}
	if config.Connection.MaxMessageSize == 0 {
		config.Connection.MaxMessageSize = DefaultMaxMessageSize
	}

	return config, nil
}

// ApplyEnv overrides the port from the PORT environment variable.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if !slices.Contains(LogLevels, c.Server.LogLevel) {
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}
	if !slices.Contains(LogFormats, c.Server.LogFormat) {
		return fmt.Errorf("invalid log format: %s", c.Server.LogFormat)
	}
	if c.Rooms.IdleTimeoutSeconds < 0 {
		return fmt.Errorf("idle timeout must not be negative")
	}
	if c.Rooms.ReapIntervalSeconds <= 0 {
		return fmt.Errorf("reap interval must be positive")
	}
	if c.Connection.SendBuffer <= 0 {
		return fmt.Errorf("send buffer must be positive")
	}
	if c.Connection.MaxMessageSize <= 0 {
		return fmt.Errorf("max message size must be positive")
	}
	return nil
}

// Address returns the full listen address
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}
