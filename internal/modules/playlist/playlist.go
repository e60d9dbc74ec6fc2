// Package playlist implements ordered media playlists with a wrapping
// cursor, M3U persistence and a registry of named playlists.
package playlist

import (
	"math/rand"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mikey-austin/media_deck/internal/media"
)

// FileExt is the extension used when saving playlists.
const FileExt = ".m3u"

// Rand supplies shuffle randomness.
type Rand interface {
	Intn(n int) int
}

// Playlist is an ordered list of entries with a cursor. The cursor is -1
// exactly when the playlist is empty.
type Playlist struct {
	name   string
	path   string
	items  []media.Entry
	cursor int
}

// New creates an empty playlist stored under dir.
func New(name, dir string) *Playlist {
	return &Playlist{
		name:   name,
		path:   filepath.Join(dir, safeFilename(name)+FileExt),
		cursor: -1,
	}
}

// Name returns the playlist name.
func (p *Playlist) Name() string { return p.name }

// Path returns where the playlist is persisted.
func (p *Playlist) Path() string { return p.path }

// Len returns the number of entries.
func (p *Playlist) Len() int { return len(p.items) }

// Cursor returns the current index, or -1 when empty.
func (p *Playlist) Cursor() int { return p.cursor }

// Items returns a copy of the entries.
func (p *Playlist) Items() []media.Entry {
	out := make([]media.Entry, len(p.items))
	copy(out, p.items)
	return out
}

// At returns the entry at index.
func (p *Playlist) At(index int) (media.Entry, bool) {
	if index < 0 || index >= len(p.items) {
		return media.Entry{}, false
	}
	return p.items[index], true
}

// Append adds e at the tail. The first entry becomes current.
func (p *Playlist) Append(e media.Entry) {
	p.items = append(p.items, e)
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// Current returns the entry under the cursor.
func (p *Playlist) Current() (media.Entry, bool) {
	return p.At(p.cursor)
}

// Next advances the cursor, wrapping from the tail to the head.
func (p *Playlist) Next() (media.Entry, bool) {
	if len(p.items) == 0 {
		return media.Entry{}, false
	}
	p.cursor = (p.cursor + 1) % len(p.items)
	return p.items[p.cursor], true
}

// Previous moves the cursor back, wrapping from the head to the tail.
func (p *Playlist) Previous() (media.Entry, bool) {
	if len(p.items) == 0 {
		return media.Entry{}, false
	}
	p.cursor = (p.cursor - 1 + len(p.items)) % len(p.items)
	return p.items[p.cursor], true
}

// Jump moves the cursor to index.
func (p *Playlist) Jump(index int) bool {
	if index < 0 || index >= len(p.items) {
		return false
	}
	p.cursor = index
	return true
}

// Remove deletes the entry at index. The cursor stays on the same entry
// when possible.
func (p *Playlist) Remove(index int) bool {
	if index < 0 || index >= len(p.items) {
		return false
	}
	p.items = append(p.items[:index], p.items[index+1:]...)
	switch {
	case len(p.items) == 0:
		p.cursor = -1
	case index < p.cursor:
		p.cursor--
	case p.cursor >= len(p.items):
		p.cursor = len(p.items) - 1
	}
	return true
}

// Shuffle permutes the entries with Fisher-Yates and moves the cursor to
// the new head. Playlists with fewer than two entries are left alone.
func (p *Playlist) Shuffle(rng Rand) {
	if len(p.items) < 2 {
		return
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	for i := len(p.items) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p.items[i], p.items[j] = p.items[j], p.items[i]
	}
	p.cursor = 0
}

// SortByName orders entries by display name ignoring case. Equal names keep
// their relative order.
func (p *Playlist) SortByName() {
	sort.SliceStable(p.items, func(i, j int) bool {
		return strings.ToLower(p.items[i].DisplayName) < strings.ToLower(p.items[j].DisplayName)
	})
	p.resetCursor()
}

// SortByDuration orders entries shortest first, keeping ties in order.
func (p *Playlist) SortByDuration() {
	sort.SliceStable(p.items, func(i, j int) bool {
		return p.items[i].DurationSeconds < p.items[j].DurationSeconds
	})
	p.resetCursor()
}

// TotalDuration sums the entry durations in seconds.
func (p *Playlist) TotalDuration() int {
	total := 0
	for _, e := range p.items {
		total += e.DurationSeconds
	}
	return total
}

func (p *Playlist) resetCursor() {
	if len(p.items) == 0 {
		p.cursor = -1
		return
	}
	p.cursor = 0
}
