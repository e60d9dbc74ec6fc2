package embeddedmqtt

import (
	"bytes"
	"crypto/subtle"
	"strings"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"
)

// deckAccess authenticates clients and keeps every publish and subscribe
// inside the deck topic tree.
type deckAccess struct {
	mqtt.HookBase
	base      string
	anonymous bool
	user      string
	pass      string
}

func (h *deckAccess) ID() string { return "deck-access" }

func (h *deckAccess) Provides(b byte) bool {
	return bytes.Contains([]byte{mqtt.OnConnectAuthenticate, mqtt.OnACLCheck}, []byte{b})
}

func (h *deckAccess) OnConnectAuthenticate(_ *mqtt.Client, pk packets.Packet) bool {
	if h.anonymous {
		return true
	}
	userOK := subtle.ConstantTimeCompare(pk.Connect.Username, []byte(h.user)) == 1
	passOK := subtle.ConstantTimeCompare(pk.Connect.Password, []byte(h.pass)) == 1
	return userOK && passOK
}

// OnACLCheck receives topic names on publish and filters on subscribe.
func (h *deckAccess) OnACLCheck(_ *mqtt.Client, topic string, _ bool) bool {
	return inTree(h.base, topic)
}

func inTree(base, topic string) bool {
	return topic == base || strings.HasPrefix(topic, base+"/")
}
