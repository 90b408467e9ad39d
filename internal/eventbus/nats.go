// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

package eventbus

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/eventpulse/internal/config"
	"github.com/tomtom215/eventpulse/internal/logging"
	"github.com/tomtom215/eventpulse/internal/resilience"
)

const (
	natsReadyTimeout  = 10 * time.Second
	natsMaxReconnects = -1
	natsReconnectWait = 2 * time.Second
)

// EmbeddedServer is an in-process nats-server.
type EmbeddedServer struct {
	server *server.Server
}

// StartEmbeddedServer starts a nats-server on host:port. Port -1 picks a
// random free port.
func StartEmbeddedServer(host string, port int) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName: "eventpulse-bus",
		Host:       host,
		Port:       port,
		NoLog:      true,
		NoSigs:     true,
		MaxPayload: 1024 * 1024,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(natsReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within %s", natsReadyTimeout)
	}

	logging.Info().Str("url", ns.ClientURL()).Msg("embedded NATS server started")
	return &EmbeddedServer{server: ns}, nil
}

// ClientURL returns the URL clients connect to.
func (s *EmbeddedServer) ClientURL() string {
	return s.server.ClientURL()
}

// Shutdown stops the server and waits for it to exit.
func (s *EmbeddedServer) Shutdown() {
	s.server.Shutdown()
	s.server.WaitForShutdown()
}

func natsOptions(logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name("eventpulse"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(natsMaxReconnects),
		natsgo.ReconnectWait(natsReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

func newNATSBus(cfg *config.EventBusConfig, breaker *resilience.Breaker, logger watermill.LoggerAdapter) (*Bus, error) {
	url := cfg.NATSURL
	var embedded *EmbeddedServer
	if cfg.EmbeddedServer {
		srv, err := StartEmbeddedServer(cfg.EmbeddedHost, cfg.EmbeddedPort)
		if err != nil {
			return nil, err
		}
		embedded = srv
		url = srv.ClientURL()
	}

	bus, err := dialNATS(url, cfg, breaker, logger)
	if err != nil {
		if embedded != nil {
			embedded.Shutdown()
		}
		return nil, err
	}
	bus.server = embedded
	return bus, nil
}

func dialNATS(url string, cfg *config.EventBusConfig, breaker *resilience.Breaker, logger watermill.LoggerAdapter) (*Bus, error) {
	jsCfg := wmNats.JetStreamConfig{Disabled: true}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOptions(logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   jsCfg,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	subCfg := wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOptions(logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        jsCfg,
	}
	// More than one subscriber needs a queue group. The group is unique to
	// this process so every instance still sees every change.
	if cfg.SubscriberCount > 1 {
		subCfg.SubscribersCount = cfg.SubscriberCount
		subCfg.QueueGroupPrefix = "eventpulse-" + watermill.NewShortUUID()
	}

	sub, err := wmNats.NewSubscriber(subCfg, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}

	logging.Info().Str("url", url).Str("topic", cfg.Topic).Msg("connected event bus to NATS")
	return NewWithPubSub(pub, sub, cfg.Topic, breaker), nil
}
