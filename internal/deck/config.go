package deck

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration for deck.
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Library      LibraryConfig      `toml:"library"`
	Playlists    PlaylistsConfig    `toml:"playlists"`
	Bookmarks    BookmarksConfig    `toml:"bookmarks"`
	Resume       ResumeConfig       `toml:"resume"`
	Player       PlayerConfig       `toml:"player"`
	MQTT         MQTTConfig         `toml:"mqtt"`
	EmbeddedMQTT EmbeddedMQTTConfig `toml:"embedded_mqtt"`
}

// ServerConfig defines process-wide settings.
type ServerConfig struct {
	NodeID    string `toml:"node_id"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogOutput string `toml:"log_output"`
	LogUTC    bool   `toml:"log_utc"`
}

// LibraryConfig points the file browser at a directory.
type LibraryConfig struct {
	Root      string `toml:"root"`
	TagTitles bool   `toml:"tag_titles"`
}

// PlaylistsConfig locates playlist files.
type PlaylistsConfig struct {
	Dir    string `toml:"dir"`
	Active string `toml:"active"`
}

// BookmarksConfig locates the bookmark file.
type BookmarksConfig struct {
	Path string `toml:"path"`
}

// ResumeConfig configures the position database.
type ResumeConfig struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db_path"`
}

// PlayerConfig configures the frame loop and framebuffer.
type PlayerConfig struct {
	FrameRate      int    `toml:"frame_rate"`
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
	BlurRadius     int    `toml:"blur_radius"`
	ScreenshotsDir string `toml:"screenshots_dir"`
	Console        bool   `toml:"console"`
}

// MQTTConfig configures the optional remote control link.
type MQTTConfig struct {
	Enabled   bool       `toml:"enabled"`
	Broker    string     `toml:"broker"`
	TopicBase string     `toml:"topic_base"`
	TLS       TLSConfig  `toml:"tls"`
	Auth      AuthConfig `toml:"auth"`
	Debug     bool       `toml:"debug"`
}

// TLSConfig holds TLS paths for MQTT.
type TLSConfig struct {
	CA   string `toml:"ca"`
	Cert string `toml:"cert"`
	Key  string `toml:"key"`
}

// AuthConfig holds MQTT auth credentials.
type AuthConfig struct {
	User string `toml:"user"`
	Pass string `toml:"pass"`
}

// EmbeddedMQTTConfig configures the embedded MQTT broker.
type EmbeddedMQTTConfig struct {
	Enabled        bool   `toml:"enabled"`
	Listen         string `toml:"listen"`
	AllowAnonymous bool   `toml:"allow_anonymous"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	TLSCA          string `toml:"tls_ca"`
	TLSCert        string `toml:"tls_cert"`
	TLSKey         string `toml:"tls_key"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() Config {
	return Config{
		Server:    ServerConfig{NodeID: "deck", LogLevel: "info", LogFormat: "text", LogOutput: "stderr"},
		Library:   LibraryConfig{Root: ".", TagTitles: true},
		Playlists: PlaylistsConfig{Dir: stateDir("playlists")},
		Bookmarks: BookmarksConfig{Path: stateDir("bookmarks.txt")},
		Resume:    ResumeConfig{Enabled: true},
		Player: PlayerConfig{
			FrameRate:      30,
			Width:          320,
			Height:         240,
			BlurRadius:     2,
			ScreenshotsDir: stateDir("screenshots"),
			Console:        true,
		},
		MQTT:         MQTTConfig{TopicBase: "deck/v1"},
		EmbeddedMQTT: EmbeddedMQTTConfig{Listen: "127.0.0.1:1883"},
	}
}

// LoadConfig loads a config file from path on top of the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, err
	}
	if info.IsDir() {
		return Config{}, errors.New("config path is a directory")
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefaultConfig loads the config at the default location. A missing
// file yields the defaults.
func LoadDefaultConfig() (Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return Config{}, err
	}
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// DefaultConfigPath returns the default config location.
func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "deck", "deck.toml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "deck", "deck.toml"), nil
}

// NodeName returns the trimmed node id, defaulting to "deck".
func (c Config) NodeName() string {
	if id := strings.TrimSpace(c.Server.NodeID); id != "" {
		return id
	}
	return "deck"
}

func stateDir(name string) string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "deck", name)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".deck", name)
	}
	return filepath.Join(home, ".local", "state", "deck", name)
}
