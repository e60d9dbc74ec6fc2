package embeddedmqtt

import (
	"log/slog"
	"testing"
	"time"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewBrokerAllowAnonymous(t *testing.T) {
	broker, err := newBroker(zap.NewNop(), withDefaults(Config{AllowAnonymous: true}))
	if err != nil {
		t.Fatalf("newBroker: %v", err)
	}
	if broker == nil {
		t.Fatalf("expected broker")
	}
}

func TestNewBrokerRequiresAuthConfig(t *testing.T) {
	if _, err := newBroker(zap.NewNop(), withDefaults(Config{})); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewModuleDefaults(t *testing.T) {
	m, err := NewModule(nil, Config{AllowAnonymous: true, TopicBase: " lab/deck/ "})
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if m.cfg.Listen != DefaultListen || m.cfg.TopicBase != "lab/deck" {
		t.Fatalf("unexpected defaults %+v", m.cfg)
	}
	m, err = NewModule(nil, Config{AllowAnonymous: true})
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if m.cfg.TopicBase != "deck/v1" {
		t.Fatalf("expected default topic base, got %q", m.cfg.TopicBase)
	}
}

func TestAccessChecksCredentials(t *testing.T) {
	h := &deckAccess{base: "deck/v1", user: "deck", pass: "secret"}
	connect := func(user, pass string) packets.Packet {
		return packets.Packet{Connect: packets.ConnectParams{Username: []byte(user), Password: []byte(pass)}}
	}
	if !h.OnConnectAuthenticate(nil, connect("deck", "secret")) {
		t.Fatalf("expected valid credentials to pass")
	}
	if h.OnConnectAuthenticate(nil, connect("deck", "nope")) {
		t.Fatalf("expected wrong password to fail")
	}
	if h.OnConnectAuthenticate(nil, connect("", "")) {
		t.Fatalf("expected anonymous login to fail")
	}
	h.anonymous = true
	if !h.OnConnectAuthenticate(nil, connect("", "")) {
		t.Fatalf("expected anonymous login to pass")
	}
}

func TestAccessConfinesTopics(t *testing.T) {
	h := &deckAccess{base: "deck/v1", anonymous: true}
	cases := map[string]bool{
		"deck/v1/node/den/input":    true,
		"deck/v1/#":                 true,
		"deck/v1":                   true,
		"deck/v10/node/den/input":   false,
		"#":                         false,
		"$SYS/broker/clients":       false,
		"other/deck/v1/node/den/in": false,
	}
	for topic, want := range cases {
		if got := h.OnACLCheck(nil, topic, true); got != want {
			t.Fatalf("%s: expected %v", topic, want)
		}
	}
}

func TestAccessHookProvides(t *testing.T) {
	h := &deckAccess{}
	assert.True(t, h.Provides(mqtt.OnConnectAuthenticate))
	assert.True(t, h.Provides(mqtt.OnACLCheck))
	assert.False(t, h.Provides(mqtt.OnPublish))
}

func TestInlinePublishSubscribe(t *testing.T) {
	broker, err := newBroker(zap.NewNop(), withDefaults(Config{AllowAnonymous: true}))
	if err != nil {
		t.Fatalf("newBroker: %v", err)
	}

	received := make(chan packets.Packet, 1)
	handler := func(_ *mqtt.Client, _ packets.Subscription, pk packets.Packet) {
		received <- pk
	}
	if err := broker.Subscribe("deck/v1/node/den/#", 1, handler); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := broker.Publish("deck/v1/node/den/state", []byte("payload"), false, 0); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case pk := <-received:
		if string(pk.Payload) != "payload" {
			t.Fatalf("unexpected payload")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestBrokerLoggerQuietsHangups(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := brokerLogger(zap.New(core))
	log.Warn("client disconnected", "error", "read connection: EOF")
	log.Error("bad packet", "error", "malformed")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "malformed", entries[1].ContextMap()["error"])
}

func TestBrokerLoggerHonoursLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := brokerLogger(zap.New(core))
	log.Debug("noise")
	log.Info("listening", slog.String("id", "deck"))
	if logs.Len() != 1 || logs.All()[0].ContextMap()["id"] != "deck" {
		t.Fatalf("expected one info entry, got %+v", logs.All())
	}
}

func TestBrokerURL(t *testing.T) {
	if BrokerURL("127.0.0.1:1883", false) != "mqtt://127.0.0.1:1883" {
		t.Fatalf("expected mqtt scheme")
	}
	if BrokerURL("127.0.0.1:8883", true) != "mqtts://127.0.0.1:8883" {
		t.Fatalf("expected mqtts scheme")
	}
}
