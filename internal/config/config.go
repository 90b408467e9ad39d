// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package config

import "time"

// Config is the complete application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Monitor    MonitorConfig    `koanf:"monitor"`
	Generator  GeneratorConfig  `koanf:"generator"`
	Simulation SimulationConfig `koanf:"simulation"`
	EventBus   EventBusConfig   `koanf:"event_bus"`
	Uploads    UploadsConfig    `koanf:"uploads"`
	WebSocket  WebSocketConfig  `koanf:"websocket"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path           string `koanf:"path"`
	MaxMemory      string `koanf:"max_memory"`
	Threads        int    `koanf:"threads"`
	SeedSampleData bool   `koanf:"seed_sample_data"`
}

// SecurityConfig holds authentication and request limiting settings.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	AccessTokenTTL    time.Duration `koanf:"access_token_ttl"`
	RefreshTokenTTL   time.Duration `koanf:"refresh_token_ttl"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	LoginRateLimit    int           `koanf:"login_rate_limit"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ThresholdConfig is one monitor threshold: Count operations within Window.
type ThresholdConfig struct {
	Count  int           `koanf:"count"`
	Window time.Duration `koanf:"window"`
}

// ThresholdsConfig holds the per-category thresholds.
type ThresholdsConfig struct {
	Create ThresholdConfig `koanf:"create"`
	Update ThresholdConfig `koanf:"update"`
	Delete ThresholdConfig `koanf:"delete"`
	Any    ThresholdConfig `koanf:"any"`
}

// MonitorConfig configures the activity threshold monitor.
type MonitorConfig struct {
	Enabled      bool             `koanf:"enabled"`
	Interval     time.Duration    `koanf:"interval"`
	ErrorBackoff time.Duration    `koanf:"error_backoff"`
	EvidenceSize int              `koanf:"evidence_size"`
	Thresholds   ThresholdsConfig `koanf:"thresholds"`
}

// GeneratorConfig configures the synthetic event generator.
type GeneratorConfig struct {
	MinInterval  time.Duration `koanf:"min_interval"`
	MaxInterval  time.Duration `koanf:"max_interval"`
	ErrorBackoff time.Duration `koanf:"error_backoff"`
	AutoStart    bool          `koanf:"auto_start"`
	OwnerID      string        `koanf:"owner_id"`
}

// SimulationConfig configures the activity simulation driver.
type SimulationConfig struct {
	MaxOperations int `koanf:"max_operations"`
}

// Event bus backends.
const (
	BusBackendMemory = "memory"
	BusBackendNATS   = "nats"
)

// EventBusConfig selects and tunes the event change bus.
type EventBusConfig struct {
	Backend         string        `koanf:"backend"`
	Topic           string        `koanf:"topic"`
	BufferSize      int64         `koanf:"buffer_size"`
	NATSURL         string        `koanf:"nats_url"`
	EmbeddedServer  bool          `koanf:"embedded_server"`
	EmbeddedHost    string        `koanf:"embedded_host"`
	EmbeddedPort    int           `koanf:"embedded_port"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
	SubscriberCount int           `koanf:"subscriber_count"`
	CloseTimeout    time.Duration `koanf:"close_timeout"`
}

// UploadsConfig configures file upload storage.
type UploadsConfig struct {
	Dir       string `koanf:"dir"`
	IndexPath string `koanf:"index_path"`
	MaxSize   int64  `koanf:"max_size"`
	BaseURL   string `koanf:"base_url"`
}

// WebSocketConfig configures the /ws/events endpoint.
type WebSocketConfig struct {
	AllowedOrigins    []string `koanf:"allowed_origins"`
	ControlRatePerSec float64  `koanf:"control_rate_per_sec"`
	ControlBurst      int      `koanf:"control_burst"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether Environment is "production".
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
