// Package remote mirrors the session over MQTT: it publishes retained
// state and presence and feeds remote button presses back into the loop.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/mikey-austin/media_deck/internal/adapters/clock"
	"github.com/mikey-austin/media_deck/internal/modules/session"
	"github.com/mikey-austin/media_deck/internal/ports"
	"github.com/mikey-austin/media_deck/pkg/deck"
)

// Transport is the MQTT surface the module needs.
type Transport interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Subscribe(topic string, qos byte, handler paho.MessageHandler) error
	Unsubscribe(topic string) error
	Close(quiesce time.Duration)
}

// Dialer connects a transport. It is retried until it succeeds or the
// context ends.
type Dialer func() (Transport, error)

// Loop is the session side of the bridge.
type Loop interface {
	Subscribe() <-chan session.Snapshot
	Send(ctx context.Context, in session.Input) error
}

// Config configures the remote module.
type Config struct {
	NodeID    string
	Name      string
	TopicBase string
	Retry     time.Duration
}

// Module bridges a session loop and an MQTT broker.
type Module struct {
	log    *zap.Logger
	dial   Dialer
	loop   Loop
	clock  ports.Clock
	config Config

	stateTopic    string
	presenceTopic string
	inputTopic    string
}

// NewModule initializes the remote module.
func NewModule(log *zap.Logger, dial Dialer, loop Loop, cfg Config) (*Module, error) {
	if strings.TrimSpace(cfg.NodeID) == "" {
		return nil, errors.New("remote node_id required")
	}
	if dial == nil || loop == nil {
		return nil, errors.New("remote requires a dialer and a session loop")
	}
	if strings.TrimSpace(cfg.TopicBase) == "" {
		cfg.TopicBase = deck.BaseTopic
	}
	if cfg.Name == "" {
		cfg.Name = cfg.NodeID
	}
	if cfg.Retry <= 0 {
		cfg.Retry = 500 * time.Millisecond
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Module{
		log:           log,
		dial:          dial,
		loop:          loop,
		clock:         clock.Clock{},
		config:        cfg,
		stateTopic:    deck.TopicState(cfg.TopicBase, cfg.NodeID),
		presenceTopic: deck.TopicPresence(cfg.TopicBase, cfg.NodeID),
		inputTopic:    deck.TopicInput(cfg.TopicBase, cfg.NodeID),
	}, nil
}

// Run connects, subscribes to input and publishes state until ctx ends.
func (m *Module) Run(ctx context.Context) error {
	client, err := m.connect(ctx)
	if err != nil {
		// cancelled before a broker was reachable
		return nil
	}
	defer client.Close(250 * time.Millisecond)

	updates := m.loop.Subscribe()

	handler := func(_ paho.Client, msg paho.Message) {
		m.handleInput(ctx, msg.Payload())
	}
	if err := client.Subscribe(m.inputTopic, 1, handler); err != nil {
		return err
	}
	defer client.Unsubscribe(m.inputTopic)

	if err := m.publishPresence(client, true); err != nil {
		return err
	}
	m.log.Info("remote control ready", zap.String("input", m.inputTopic), zap.String("state", m.stateTopic))

	var last []byte
	for {
		select {
		case <-ctx.Done():
			if err := m.publishPresence(client, false); err != nil {
				m.log.Warn("publish offline presence", zap.Error(err))
			}
			return nil
		case snap := <-updates:
			msg := StateFromSnapshot(m.config.NodeID, snap)
			key, _ := json.Marshal(msg)
			if string(key) == string(last) {
				continue
			}
			last = key
			msg.TS = m.clock.NowUnix()
			payload, err := json.Marshal(msg)
			if err != nil {
				m.log.Error("marshal state", zap.Error(err))
				continue
			}
			if err := client.Publish(m.stateTopic, 1, true, payload); err != nil {
				m.log.Warn("publish state", zap.Error(err))
			}
		}
	}
}

func (m *Module) connect(ctx context.Context) (Transport, error) {
	for {
		client, err := m.dial()
		if err == nil {
			return client, nil
		}
		m.log.Warn("mqtt connect failed, retrying", zap.Error(err), zap.Duration("retry", m.config.Retry))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.config.Retry):
		}
	}
}

func (m *Module) publishPresence(client Transport, online bool) error {
	payload, err := json.Marshal(m.presence(online))
	if err != nil {
		return err
	}
	return client.Publish(m.presenceTopic, 1, true, payload)
}

func (m *Module) presence(online bool) deck.Presence {
	return deck.Presence{
		NodeID: m.config.NodeID,
		Kind:   "player",
		Name:   m.config.Name,
		Online: online,
		TS:     m.clock.NowUnix(),
	}
}

// OfflinePresence is the will payload registered at connect time.
func (m *Module) OfflinePresence() (string, []byte) {
	payload, _ := json.Marshal(m.presence(false))
	return m.presenceTopic, payload
}

func (m *Module) handleInput(ctx context.Context, payload []byte) {
	msg, err := deck.DecodeInput(payload)
	if err != nil {
		m.log.Warn("invalid input", zap.Error(err))
		return
	}
	pressed, err := session.ParseButtons(msg.Pressed)
	if err != nil {
		m.log.Warn("invalid input", zap.String("id", msg.ID), zap.Error(err))
		return
	}
	held, err := session.ParseButtons(msg.Held)
	if err != nil {
		m.log.Warn("invalid input", zap.String("id", msg.ID), zap.Error(err))
		return
	}
	in := session.Input{Pressed: pressed, Held: held | pressed}
	if err := m.loop.Send(ctx, in); err != nil {
		m.log.Debug("input dropped", zap.String("id", msg.ID), zap.Error(err))
		return
	}
	m.log.Debug("remote input", zap.String("id", msg.ID), zap.String("from", msg.From), zap.Stringer("pressed", pressed))
}

// StateFromSnapshot converts a session snapshot to its wire form. TS is
// left for the caller.
func StateFromSnapshot(nodeID string, snap session.Snapshot) deck.StateMessage {
	msg := deck.StateMessage{
		NodeID: nodeID,
		Screen: snap.State.String(),
		Playback: deck.PlaybackState{
			Playing:  snap.Playing,
			Position: snap.Clock,
			Duration: snap.Duration,
			Volume:   snap.Volume,
			Speed:    snap.Playback.Speed,
			Loop:     snap.Playback.Loop.String(),
		},
		Filter: deck.FilterState{
			Brightness: snap.Filter.Brightness,
			Contrast:   snap.Filter.Contrast,
			Saturation: snap.Filter.Saturation,
			Gamma:      snap.Filter.Gamma,
			Sharpness:  snap.Filter.Sharpness,
			Aspect:     snap.Filter.Aspect.String(),
		},
		Marks:  len(snap.Bookmarks),
		Status: snap.Status,
	}
	if snap.Current != nil {
		msg.Current = &deck.MediaItem{
			Name:     snap.Current.DisplayName,
			Path:     snap.Current.SourcePath,
			Video:    snap.Current.IsVideo,
			Duration: snap.Current.DurationSeconds,
		}
	}
	if snap.Playlist != "" {
		msg.Playlist = &deck.PlaylistState{
			Name:   snap.Playlist,
			Cursor: snap.PlaylistCursor,
			Length: len(snap.PlaylistItems),
		}
	}
	return msg
}
