// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

/*
Package config loads EventPulse configuration with koanf.

Sources are layered, later ones winning:

 1. Defaults from defaultConfig()
 2. A YAML file: $CONFIG_PATH, config.yaml, config.yml or /etc/eventpulse/config.yaml
 3. Environment variables listed in envMappings

Only mapped environment variables are read. Unknown variables are ignored so
that the process environment cannot leak into the configuration.

Example config.yaml:

	server:
	  port: 8000
	monitor:
	  interval: 2m
	  thresholds:
	    create: {count: 30, window: 5m}
	event_bus:
	  backend: nats
	  embedded_server: true

Load returns an error if the merged configuration fails Validate.
*/
package config
