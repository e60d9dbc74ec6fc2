// Package mqttserver holds a deck node's connection to its MQTT broker.
package mqttserver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/mikey-austin/media_deck/pkg/deck"
)

// Options configures the node connection.
type Options struct {
	Broker    string
	NodeID    string
	TopicBase string
	User      string
	Pass      string
	TLS       TLSFiles
	Timeout   time.Duration
	Logger    *zap.Logger
	// Debug logs every message with a short payload preview.
	Debug bool
	// Offline is left retained on the node's presence topic by the broker
	// when the node vanishes without disconnecting.
	Offline []byte
}

// Client is the deck's paho connection.
type Client struct {
	paho  paho.Client
	log   *zap.Logger
	debug bool
}

// NewClient dials the broker as the configured node.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.NodeID) == "" {
		return nil, errors.New("mqtt client needs a node id")
	}
	if opts.TopicBase == "" {
		opts.TopicBase = deck.BaseTopic
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("broker", opts.Broker), zap.String("node", opts.NodeID))

	po, err := clientOptions(opts, time.Now())
	if err != nil {
		return nil, err
	}
	po.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warn("broker connection lost", zap.Error(err))
	})
	po.SetOnConnectHandler(func(paho.Client) {
		log.Debug("broker connected")
	})

	c := paho.NewClient(po)
	if token := c.Connect(); !token.WaitTimeout(opts.Timeout) {
		c.Disconnect(0)
		return nil, fmt.Errorf("connect %s: timed out", opts.Broker)
	} else if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.Broker, err)
	}
	return &Client{paho: c, log: log, debug: opts.Debug}, nil
}

func clientOptions(opts Options, now time.Time) (*paho.ClientOptions, error) {
	po := paho.NewClientOptions().AddBroker(opts.Broker)
	po.SetClientID(clientID(opts.NodeID, now))
	po.SetConnectTimeout(opts.Timeout)
	po.SetAutoReconnect(true)
	if opts.Offline != nil {
		po.SetBinaryWill(deck.TopicPresence(opts.TopicBase, opts.NodeID), opts.Offline, 1, true)
	}
	if opts.User != "" {
		po.SetUsername(opts.User)
		po.SetPassword(opts.Pass)
	}
	tlsConfig, err := opts.TLS.ClientConfig()
	if err != nil {
		return nil, err
	}
	if tlsConfig != nil {
		po.SetTLSConfig(tlsConfig)
	}
	return po, nil
}

// clientID is unique per dial so a reconnecting node never kicks its own
// stale session.
func clientID(node string, now time.Time) string {
	return fmt.Sprintf("deck-%s-%d", node, now.UnixNano())
}

// Publish sends one message and waits for the broker to take it.
func (c *Client) Publish(topic string, qos byte, retained bool, payload []byte) error {
	c.trace("publish", topic, payload)
	token := c.paho.Publish(topic, qos, retained, payload)
	token.Wait()
	return token.Error()
}

// Subscribe routes messages on topic to handler.
func (c *Client) Subscribe(topic string, qos byte, handler paho.MessageHandler) error {
	c.trace("subscribe", topic, nil)
	h := handler
	if c.debug {
		h = func(pc paho.Client, msg paho.Message) {
			c.trace("receive", msg.Topic(), msg.Payload())
			handler(pc, msg)
		}
	}
	token := c.paho.Subscribe(topic, qos, h)
	token.Wait()
	return token.Error()
}

// Unsubscribe drops a subscription.
func (c *Client) Unsubscribe(topic string) error {
	c.trace("unsubscribe", topic, nil)
	token := c.paho.Unsubscribe(topic)
	token.Wait()
	return token.Error()
}

// Close disconnects, waiting up to quiesce for in-flight work.
func (c *Client) Close(quiesce time.Duration) {
	c.paho.Disconnect(uint(quiesce.Milliseconds()))
}

func (c *Client) trace(op, topic string, payload []byte) {
	if !c.debug {
		return
	}
	c.log.Debug("mqtt "+op, zap.String("topic", topic), zap.Int("bytes", len(payload)), zap.String("payload", preview(payload)))
}

// preview keeps debug lines short; state snapshots run to a few KB.
func preview(payload []byte) string {
	const limit = 256
	if len(payload) <= limit {
		return string(payload)
	}
	return string(payload[:limit]) + "..."
}
