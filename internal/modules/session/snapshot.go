package session

import (
	"strconv"

	"github.com/mikey-austin/media_deck/internal/bookmark"
	"github.com/mikey-austin/media_deck/internal/filter"
	"github.com/mikey-austin/media_deck/internal/media"
)

// Snapshot is a value copy of everything a renderer or publisher needs.
type Snapshot struct {
	State  State  `json:"-"`
	Cursor Cursor `json:"cursor"`

	Current  *media.Entry `json:"current,omitempty"`
	Clock    int          `json:"clock"`
	Duration int          `json:"duration"`
	Playing  bool         `json:"playing"`
	Volume   int          `json:"volume"`

	Playlist       string        `json:"playlist,omitempty"`
	PlaylistCursor int           `json:"playlistCursor"`
	PlaylistItems  []media.Entry `json:"playlistItems,omitempty"`
	BrowserItems   []media.Item  `json:"browserItems,omitempty"`

	Bookmarks       []bookmark.Bookmark `json:"bookmarks,omitempty"`
	CurrentBookmark int                 `json:"currentBookmark"`

	Filter   filter.Settings  `json:"filter"`
	Playback PlaybackSettings `json:"playback"`
	Audio    AudioSettings    `json:"audio"`
	Subtitle SubtitleOverlay  `json:"subtitle"`

	SettingsPage int          `json:"settingsPage"`
	SettingsRows []SettingRow `json:"settingsRows,omitempty"`
	EffectRows   []SettingRow `json:"effectRows,omitempty"`

	Status string `json:"status,omitempty"`
}

// Snapshot copies the current session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:           s.state,
		Cursor:          s.cursor,
		Clock:           s.clock,
		Duration:        s.duration,
		Playing:         s.playing,
		Volume:          s.volume,
		PlaylistCursor:  -1,
		Bookmarks:       s.bookmarks.All(),
		CurrentBookmark: s.bookmarks.Current(),
		Filter:          s.filter,
		Playback:        s.playback,
		Audio:           s.audio,
		Subtitle:        s.subtitle,
		SettingsPage:    s.settingsPage,
		Status:          s.status,
	}
	if s.current != nil {
		e := *s.current
		snap.Current = &e
	}
	if pl := s.opts.Registry.Active(); pl != nil {
		snap.Playlist = pl.Name()
		snap.PlaylistCursor = pl.Cursor()
		snap.PlaylistItems = pl.Items()
	}
	if len(s.items) > 0 {
		snap.BrowserItems = append([]media.Item(nil), s.items...)
	}

	switch s.state {
	case StateSettings:
		for _, f := range settingsPages[s.settingsPage] {
			snap.SettingsRows = append(snap.SettingsRows, SettingRow{Label: f.label, Value: f.value(s)})
		}
	case StateEffects:
		snap.EffectRows = effectRows(s.filter)
	}
	return snap
}

func effectRows(f filter.Settings) []SettingRow {
	rows := make([]SettingRow, 0, len(EffectItems))
	values := []string{
		formatStep(f.Brightness),
		formatStep(f.Contrast),
		formatStep(f.Saturation),
		formatStep(f.Gamma),
		strconv.Itoa(f.Sharpness),
	}
	for i, label := range EffectItems {
		v := "apply"
		if i < len(values) {
			v = values[i]
		}
		rows = append(rows, SettingRow{Label: label, Value: v})
	}
	return rows
}

func formatStep(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
