// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/eventpulse/config.yaml",
	"/etc/eventpulse/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// sliceConfigPaths may arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
	"websocket.allowed_origins",
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_sample_data":  "database.seed_sample_data",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"access_token_ttl":    "security.access_token_ttl",
	"refresh_token_ttl":   "security.refresh_token_ttl",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"login_rate_limit":    "security.login_rate_limit",
	"cors_origins":        "security.cors_origins",
	"trusted_proxies":     "security.trusted_proxies",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Monitor
	"monitor_enabled":          "monitor.enabled",
	"monitor_interval":         "monitor.interval",
	"monitor_error_backoff":    "monitor.error_backoff",
	"monitor_evidence_size":    "monitor.evidence_size",
	"monitor_create_threshold": "monitor.thresholds.create.count",
	"monitor_create_window":    "monitor.thresholds.create.window",
	"monitor_update_threshold": "monitor.thresholds.update.count",
	"monitor_update_window":    "monitor.thresholds.update.window",
	"monitor_delete_threshold": "monitor.thresholds.delete.count",
	"monitor_delete_window":    "monitor.thresholds.delete.window",
	"monitor_any_threshold":    "monitor.thresholds.any.count",
	"monitor_any_window":       "monitor.thresholds.any.window",

	// Generator
	"generator_min_interval":  "generator.min_interval",
	"generator_max_interval":  "generator.max_interval",
	"generator_error_backoff": "generator.error_backoff",
	"generator_auto_start":    "generator.auto_start",
	"generator_owner_id":      "generator.owner_id",

	// Simulation
	"simulation_max_operations": "simulation.max_operations",

	// Event bus
	"event_bus_backend":     "event_bus.backend",
	"event_bus_topic":       "event_bus.topic",
	"event_bus_buffer_size": "event_bus.buffer_size",
	"nats_url":              "event_bus.nats_url",
	"nats_embedded":         "event_bus.embedded_server",
	"nats_embedded_host":    "event_bus.embedded_host",
	"nats_embedded_port":    "event_bus.embedded_port",
	"nats_subscribers":      "event_bus.subscriber_count",
	"bus_breaker_failures":  "event_bus.breaker_failures",
	"bus_breaker_timeout":   "event_bus.breaker_timeout",

	// Uploads
	"upload_dir":        "uploads.dir",
	"upload_index_path": "uploads.index_path",
	"upload_max_size":   "uploads.max_size",
	"upload_base_url":   "uploads.base_url",

	// WebSocket
	"ws_allowed_origins": "websocket.allowed_origins",
	"ws_control_rate":    "websocket.control_rate_per_sec",
	"ws_control_burst":   "websocket.control_burst",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:           "./data/eventpulse.duckdb",
			MaxMemory:      "1GB",
			Threads:        0,
			SeedSampleData: true,
		},
		Security: SecurityConfig{
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			LoginRateLimit:  10,
			CORSOrigins:     []string{"http://localhost:5173"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Monitor: MonitorConfig{
			Enabled:      true,
			Interval:     120 * time.Second,
			ErrorBackoff: 300 * time.Second,
			EvidenceSize: 10,
			Thresholds: ThresholdsConfig{
				Create: ThresholdConfig{Count: 30, Window: 5 * time.Minute},
				Update: ThresholdConfig{Count: 50, Window: 5 * time.Minute},
				Delete: ThresholdConfig{Count: 20, Window: 5 * time.Minute},
				Any:    ThresholdConfig{Count: 70, Window: 5 * time.Minute},
			},
		},
		Generator: GeneratorConfig{
			MinInterval:  3 * time.Second,
			MaxInterval:  10 * time.Second,
			ErrorBackoff: 5 * time.Second,
		},
		Simulation: SimulationConfig{
			MaxOperations: 100,
		},
		EventBus: EventBusConfig{
			Backend:         BusBackendMemory,
			Topic:           "events_updates",
			BufferSize:      256,
			NATSURL:         "nats://127.0.0.1:4222",
			EmbeddedServer:  true,
			EmbeddedHost:    "127.0.0.1",
			EmbeddedPort:    4222,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
			SubscriberCount: 1,
			CloseTimeout:    5 * time.Second,
		},
		Uploads: UploadsConfig{
			Dir:       "./uploads",
			IndexPath: "./data/uploads.badger",
			MaxSize:   10 << 20,
			BaseURL:   "/api/v1/files",
		},
		WebSocket: WebSocketConfig{
			ControlRatePerSec: 2,
			ControlBurst:      5,
		},
	}
}

// Load reads configuration from defaults, file and environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadWithKoanf performs the layered load described in the package doc.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc returns "" for unmapped variables so koanf skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
