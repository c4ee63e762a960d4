package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`

	// PingInterval is the WebSocket keep-alive period; zero disables
	// pings.
	PingInterval time.Duration `mapstructure:"ping_interval" yaml:"ping_interval"`
	// SessionBuffer is the per-session outbound queue size.
	SessionBuffer int `mapstructure:"session_buffer" yaml:"session_buffer"`
	// InboundRateLimit caps inbound frames per connection per minute;
	// zero disables the limit.
	InboundRateLimit int `mapstructure:"inbound_rate_limit" yaml:"inbound_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "roomline.db",
		LogLevel:          "info",
		JWTSecret:         "change-me",
		JWTIssuer:         "roomline",
		JWTAudience:       "roomline-clients",
		PingInterval:      30 * time.Second,
		SessionBuffer:     32,
		InboundRateLimit:  0,
	}
}
