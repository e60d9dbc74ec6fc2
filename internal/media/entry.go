// Package media describes playable entries and how they are discovered on
// disk.
package media

import (
	"path/filepath"
	"strings"
)

// Entry is a playable item. SourcePath is its identity.
type Entry struct {
	DisplayName     string `json:"displayName"`
	SourcePath      string `json:"sourcePath"`
	IsVideo         bool   `json:"isVideo"`
	DurationSeconds int    `json:"durationSeconds"`
}

// Kind classifies a file by extension.
type Kind int

const (
	KindOther Kind = iota
	KindVideo
	KindAudio
	KindPlaylist
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindPlaylist:
		return "playlist"
	default:
		return "other"
	}
}

var kindsByExt = map[string]Kind{
	".mp4":  KindVideo,
	".avi":  KindVideo,
	".mkv":  KindVideo,
	".mov":  KindVideo,
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".ogg":  KindAudio,
	".m4a":  KindAudio,
	".flac": KindAudio,
	".m3u":  KindPlaylist,
	".m3u8": KindPlaylist,
}

// Classify returns the kind of path based on its extension, ignoring case.
func Classify(path string) Kind {
	return kindsByExt[strings.ToLower(filepath.Ext(path))]
}

// IsVideoPath reports whether path has a video extension.
func IsVideoPath(path string) bool {
	return Classify(path) == KindVideo
}

// NewEntry builds an entry for path named after its base name.
func NewEntry(path string, durationSeconds int) Entry {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	return Entry{
		DisplayName:     baseName(path),
		SourcePath:      path,
		IsVideo:         IsVideoPath(path),
		DurationSeconds: durationSeconds,
	}
}

// Kind returns the entry's classification.
func (e Entry) Kind() Kind {
	if e.IsVideo {
		return KindVideo
	}
	return KindAudio
}

// baseName handles both separators since playlists may come from other
// systems.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
