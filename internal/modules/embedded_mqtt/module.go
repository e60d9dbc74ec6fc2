// Package embeddedmqtt runs an in-process broker so a single deck needs no
// external MQTT service. Clients are confined to the deck topic tree.
package embeddedmqtt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/listeners"
	"go.uber.org/zap"

	"github.com/mikey-austin/media_deck/internal/adapters/mqttserver"
	"github.com/mikey-austin/media_deck/pkg/deck"
)

// DefaultListen is used when no listen address is configured.
const DefaultListen = "127.0.0.1:1883"

// Config configures the embedded broker.
type Config struct {
	Listen         string
	TopicBase      string
	AllowAnonymous bool
	Username       string
	Password       string
	TLS            mqttserver.TLSFiles
}

// Module owns the broker for the life of the process.
type Module struct {
	log    *zap.Logger
	broker *mqtt.Server
	cfg    Config
}

// NewModule validates cfg and builds the broker. Nothing listens until Run.
func NewModule(log *zap.Logger, cfg Config) (*Module, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg = withDefaults(cfg)
	broker, err := newBroker(log, cfg)
	if err != nil {
		return nil, err
	}
	return &Module{log: log, broker: broker, cfg: cfg}, nil
}

func withDefaults(cfg Config) Config {
	if strings.TrimSpace(cfg.Listen) == "" {
		cfg.Listen = DefaultListen
	}
	cfg.TopicBase = strings.TrimSuffix(strings.TrimSpace(cfg.TopicBase), "/")
	if cfg.TopicBase == "" {
		cfg.TopicBase = deck.BaseTopic
	}
	return cfg
}

// Run serves until ctx ends.
func (m *Module) Run(ctx context.Context) error {
	tlsConfig, err := m.cfg.TLS.ServerConfig()
	if err != nil {
		return fmt.Errorf("listener tls: %w", err)
	}
	lc := listeners.Config{ID: "deck", Address: m.cfg.Listen, TLSConfig: tlsConfig}
	if err := m.broker.AddListener(listeners.NewTCP(lc)); err != nil {
		return fmt.Errorf("listen %s: %w", m.cfg.Listen, err)
	}

	done := make(chan error, 1)
	go func() { done <- m.broker.Serve() }()
	m.log.Info("embedded broker up",
		zap.String("url", BrokerURL(m.cfg.Listen, tlsConfig != nil)),
		zap.String("topics", m.cfg.TopicBase+"/#"),
		zap.Bool("anonymous", m.cfg.AllowAnonymous))

	select {
	case <-ctx.Done():
	case err := <-done:
		if err != nil {
			m.broker.Close()
			return fmt.Errorf("serve: %w", err)
		}
		<-ctx.Done()
	}
	return m.broker.Close()
}

func newBroker(log *zap.Logger, cfg Config) (*mqtt.Server, error) {
	if !cfg.AllowAnonymous && cfg.Username == "" {
		return nil, errors.New("embedded mqtt requires allow_anonymous or username")
	}
	broker := mqtt.New(&mqtt.Options{InlineClient: true, Logger: brokerLogger(log)})
	access := &deckAccess{base: cfg.TopicBase, anonymous: cfg.AllowAnonymous, user: cfg.Username, pass: cfg.Password}
	if err := broker.AddHook(access, nil); err != nil {
		return nil, err
	}
	return broker, nil
}

// BrokerURL is the address a local node dials to reach the embedded broker.
func BrokerURL(listen string, tlsEnabled bool) string {
	if tlsEnabled {
		return "mqtts://" + listen
	}
	return "mqtt://" + listen
}
