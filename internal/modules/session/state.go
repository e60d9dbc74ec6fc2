package session

import "errors"

// State is the screen the session is on.
type State int

const (
	StateMenu State = iota
	StateFileBrowser
	StatePlaylist
	StatePlayingVideo
	StatePlayingAudio
	StateSettings
	StateBookmarks
	StateEffects
)

var stateNames = []string{
	"menu",
	"file_browser",
	"playlist",
	"playing_video",
	"playing_audio",
	"settings",
	"bookmarks",
	"effects",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Playing reports whether s is one of the player screens.
func (s State) Playing() bool {
	return s == StatePlayingVideo || s == StatePlayingAudio
}

// Main menu entries, in display order.
const (
	MenuBrowser = iota
	MenuPlaylist
	MenuSettings
	MenuBookmarks
	MenuEffects
	MenuExit
)

// MenuItems labels the main menu.
var MenuItems = []string{"Browse Files", "Playlist", "Settings", "Bookmarks", "Effects", "Exit"}

// EffectItems labels the effects screen. The first five adjust the color
// chain; the rest are one-shot effects.
var EffectItems = []string{"Brightness", "Contrast", "Saturation", "Gamma", "Sharpness", "Sepia", "Grayscale", "Invert", "Blur"}

const chainItems = 5

// ErrExit is returned by HandleInput when the user asks to quit.
var ErrExit = errors.New("session exit requested")
