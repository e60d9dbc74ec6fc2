package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BaseTopic is the default MQTT topic prefix for the protocol.
const BaseTopic = "deck/v1"

// Presence describes a node presence payload.
type Presence struct {
	NodeID string `json:"nodeId"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Online bool   `json:"online"`
	TS     int64  `json:"ts"`
}

// StateMessage is the retained state of a player node.
type StateMessage struct {
	NodeID   string         `json:"nodeId"`
	Screen   string         `json:"screen"`
	Playback PlaybackState  `json:"playback"`
	Current  *MediaItem     `json:"current,omitempty"`
	Playlist *PlaylistState `json:"playlist,omitempty"`
	Filter   FilterState    `json:"filter"`
	Marks    int            `json:"bookmarks"`
	Status   string         `json:"status,omitempty"`
	TS       int64          `json:"ts"`
}

// PlaybackState describes the playback clock and properties.
type PlaybackState struct {
	Playing  bool    `json:"playing"`
	Position int     `json:"positionSeconds"`
	Duration int     `json:"durationSeconds"`
	Volume   int     `json:"volume"`
	Speed    float64 `json:"speed"`
	Loop     string  `json:"loop"`
}

// MediaItem describes the loaded item.
type MediaItem struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Video    bool   `json:"video"`
	Duration int    `json:"durationSeconds"`
}

// PlaylistState summarizes the active playlist.
type PlaylistState struct {
	Name   string `json:"name"`
	Cursor int    `json:"cursor"`
	Length int    `json:"length"`
}

// FilterState mirrors the color chain settings.
type FilterState struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Gamma      float64 `json:"gamma"`
	Sharpness  int     `json:"sharpness"`
	Aspect     string  `json:"aspect"`
}

// InputMessage injects controller buttons into a node.
type InputMessage struct {
	ID      string   `json:"id"`
	TS      int64    `json:"ts"`
	From    string   `json:"from"`
	Pressed []string `json:"pressed"`
	Held    []string `json:"held,omitempty"`
}

// DecodeInput parses and validates an input payload.
func DecodeInput(payload []byte) (InputMessage, error) {
	var msg InputMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return InputMessage{}, fmt.Errorf("decode input: %w", err)
	}
	if err := ValidateInput(msg); err != nil {
		return InputMessage{}, err
	}
	return msg, nil
}

// ValidateInput validates required fields.
func ValidateInput(msg InputMessage) error {
	if strings.TrimSpace(msg.ID) == "" {
		return errors.New("id is required")
	}
	if msg.TS <= 0 {
		return errors.New("ts must be a positive unix timestamp")
	}
	if strings.TrimSpace(msg.From) == "" {
		return errors.New("from is required")
	}
	if len(msg.Pressed) == 0 && len(msg.Held) == 0 {
		return errors.New("at least one button is required")
	}
	return nil
}

// TopicPresence builds the presence topic for a node.
func TopicPresence(topicBase, nodeID string) string {
	return fmt.Sprintf("%s/node/%s/presence", topicBase, nodeID)
}

// TopicState builds the state topic for a node.
func TopicState(topicBase, nodeID string) string {
	return fmt.Sprintf("%s/node/%s/state", topicBase, nodeID)
}

// TopicInput builds the input topic for a node.
func TopicInput(topicBase, nodeID string) string {
	return fmt.Sprintf("%s/node/%s/input", topicBase, nodeID)
}
