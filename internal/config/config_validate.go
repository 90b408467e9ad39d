// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package config

import (
	"fmt"
	"slices"
	"time"
)

// minJWTSecretLength matches the HS256 key size.
const minJWTSecretLength = 32

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateMonitor(); err != nil {
		return err
	}
	if err := c.validateGenerator(); err != nil {
		return err
	}
	if err := c.validateEventBus(); err != nil {
		return err
	}
	return c.validateUploads()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if c.Security.AccessTokenTTL <= 0 || c.Security.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.Security.RefreshTokenTTL < c.Security.AccessTokenTTL {
		return fmt.Errorf("REFRESH_TOKEN_TTL must not be shorter than ACCESS_TOKEN_TTL")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.Server.IsProduction() && slices.Contains(c.Security.CORSOrigins, "*") {
		return fmt.Errorf("CORS_ORIGINS must not contain * in production")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateMonitor() error {
	if !c.Monitor.Enabled {
		return nil
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("MONITOR_INTERVAL must be positive")
	}
	if c.Monitor.ErrorBackoff <= 0 {
		return fmt.Errorf("MONITOR_ERROR_BACKOFF must be positive")
	}
	if c.Monitor.EvidenceSize < 1 {
		return fmt.Errorf("MONITOR_EVIDENCE_SIZE must be at least 1")
	}
	thresholds := map[string]ThresholdConfig{
		"create": c.Monitor.Thresholds.Create,
		"update": c.Monitor.Thresholds.Update,
		"delete": c.Monitor.Thresholds.Delete,
		"any":    c.Monitor.Thresholds.Any,
	}
	for name, th := range thresholds {
		if th.Count < 1 {
			return fmt.Errorf("monitor %s threshold must be at least 1, got %d", name, th.Count)
		}
		if th.Window < time.Minute {
			return fmt.Errorf("monitor %s window must be at least one minute, got %v", name, th.Window)
		}
	}
	return nil
}

func (c *Config) validateGenerator() error {
	g := c.Generator
	if g.MinInterval <= 0 || g.MaxInterval <= 0 {
		return fmt.Errorf("generator intervals must be positive")
	}
	if g.MaxInterval < g.MinInterval {
		return fmt.Errorf("GENERATOR_MAX_INTERVAL (%v) is below GENERATOR_MIN_INTERVAL (%v)", g.MaxInterval, g.MinInterval)
	}
	if g.ErrorBackoff <= 0 {
		return fmt.Errorf("GENERATOR_ERROR_BACKOFF must be positive")
	}
	if c.Simulation.MaxOperations < 1 {
		return fmt.Errorf("SIMULATION_MAX_OPERATIONS must be at least 1")
	}
	return nil
}

func (c *Config) validateEventBus() error {
	b := c.EventBus
	switch b.Backend {
	case BusBackendMemory:
	case BusBackendNATS:
		if !b.EmbeddedServer && b.NATSURL == "" {
			return fmt.Errorf("NATS_URL is required when the embedded NATS server is disabled")
		}
		if b.SubscriberCount < 1 {
			return fmt.Errorf("NATS_SUBSCRIBERS must be at least 1")
		}
	default:
		return fmt.Errorf("EVENT_BUS_BACKEND must be %q or %q, got %q", BusBackendMemory, BusBackendNATS, b.Backend)
	}
	if b.Topic == "" {
		return fmt.Errorf("EVENT_BUS_TOPIC is required")
	}
	if b.BreakerFailures < 1 {
		return fmt.Errorf("BUS_BREAKER_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateUploads() error {
	if c.Uploads.Dir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.Uploads.IndexPath == "" {
		return fmt.Errorf("UPLOAD_INDEX_PATH is required")
	}
	if c.Uploads.MaxSize < 1 {
		return fmt.Errorf("UPLOAD_MAX_SIZE must be positive")
	}
	return nil
}
