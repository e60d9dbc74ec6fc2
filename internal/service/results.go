package service

import (
	"github.com/mikey-austin/media_deck/internal/bookmark"
	"github.com/mikey-austin/media_deck/internal/filter"
	"github.com/mikey-austin/media_deck/internal/media"
)

// PlaylistSummary describes one playlist in a listing.
type PlaylistSummary struct {
	Name     string `json:"name"`
	Items    int    `json:"items"`
	Duration int    `json:"durationSeconds"`
	Active   bool   `json:"active"`
}

// PlaylistListResult holds playlist summaries.
type PlaylistListResult struct {
	Playlists []PlaylistSummary `json:"playlists"`
}

// PlaylistEntry is a playlist item with its resume position.
type PlaylistEntry struct {
	media.Entry
	Resume int `json:"resumeSeconds,omitempty"`
}

// PlaylistShowResult holds one playlist's contents.
type PlaylistShowResult struct {
	Name    string          `json:"name"`
	Path    string          `json:"path"`
	Cursor  int             `json:"cursor"`
	Entries []PlaylistEntry `json:"entries"`
}

// ImportResult reports entries appended from a feed or file list.
type ImportResult struct {
	Playlist string `json:"playlist"`
	Added    int    `json:"added"`
	Total    int    `json:"total"`
}

// BookmarkListResult holds the bookmark file contents.
type BookmarkListResult struct {
	Path      string              `json:"path"`
	Source    string              `json:"source"`
	Bookmarks []bookmark.Bookmark `json:"bookmarks"`
	Skipped   int                 `json:"skipped,omitempty"`
}

// ScanResult holds a directory listing.
type ScanResult struct {
	Dir   string       `json:"dir"`
	Items []media.Item `json:"items"`
}

// FilterResult reports a processed image.
type FilterResult struct {
	Input    string          `json:"input"`
	Output   string          `json:"output"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Settings filter.Settings `json:"settings"`
	Effect   string          `json:"effect"`
}
