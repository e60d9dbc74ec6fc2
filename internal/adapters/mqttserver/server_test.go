package mqttserver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTLSFilesEmpty(t *testing.T) {
	var files TLSFiles
	if files.Enabled() {
		t.Fatalf("expected zero files to disable tls")
	}
	for _, load := range []func() (any, error){
		func() (any, error) { return files.ClientConfig() },
		func() (any, error) { return files.ServerConfig() },
	} {
		cfg, err := load()
		require.NoError(t, err)
		assert.Nil(t, cfg)
	}
}

func TestTLSFilesNeedPair(t *testing.T) {
	if _, err := (TLSFiles{Cert: "cert.pem"}).ClientConfig(); err == nil {
		t.Fatalf("expected error for cert without key")
	}
}

func TestServerTLSNeedsKeyPairEvenWithCA(t *testing.T) {
	if _, err := (TLSFiles{CA: "ca.pem"}).ServerConfig(); err == nil {
		t.Fatalf("expected listener tls to require a key pair")
	}
}

func TestTLSFilesBadCA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, []byte("not a cert"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := (TLSFiles{CA: path}).ClientConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no certificates")
}

func TestClientOptionsCarryNodeIdentity(t *testing.T) {
	now := time.Unix(0, 42)
	po, err := clientOptions(Options{
		Broker:  "mqtt://127.0.0.1:1883",
		NodeID:  "den",
		User:    "deck",
		Pass:    "secret",
		Offline: []byte(`{"online":false}`),
	}, now)
	require.NoError(t, err)
	assert.Equal(t, "deck-den-42", po.ClientID)
	assert.Equal(t, "deck", po.Username)
	assert.True(t, po.WillEnabled)
	assert.True(t, po.WillRetained)
	assert.Equal(t, "deck/v1/node/den/presence", po.WillTopic)
	assert.Equal(t, []byte(`{"online":false}`), po.WillPayload)
	assert.Nil(t, po.TLSConfig)
}

func TestClientOptionsWithoutWill(t *testing.T) {
	po, err := clientOptions(Options{Broker: "mqtt://x:1883", NodeID: "den", TopicBase: "lab/deck"}, time.Now())
	require.NoError(t, err)
	if po.WillEnabled {
		t.Fatalf("expected no will without an offline payload")
	}
}

func TestNewClientNeedsNodeID(t *testing.T) {
	if _, err := NewClient(Options{Broker: "mqtt://127.0.0.1:1"}); err == nil {
		t.Fatalf("expected error without node id")
	}
}

func TestPreview(t *testing.T) {
	if got := preview([]byte("hello")); got != "hello" {
		t.Fatalf("unexpected %q", got)
	}
	got := preview([]byte(strings.Repeat("x", 3000)))
	if len(got) != 256+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncated payload, got %d bytes", len(got))
	}
}
