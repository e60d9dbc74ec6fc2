package media

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"
	"go.uber.org/zap"

	"github.com/mikey-austin/media_deck/internal/core"
)

// DirEntry is one name returned by a Lister.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// Lister enumerates a directory.
type Lister interface {
	List(dir string) ([]DirEntry, error)
}

// OSLister lists directories on the local filesystem.
type OSLister struct{}

// List returns the entries of dir.
func (OSLister) List(dir string) ([]DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.NotFound("media.list", err)
		}
		return nil, err
	}
	out := make([]DirEntry, 0, len(entries))
	for _, entry := range entries {
		de := DirEntry{Name: entry.Name(), IsDir: entry.IsDir()}
		if !de.IsDir {
			if info, err := entry.Info(); err == nil {
				de.Size = info.Size()
			}
		}
		out = append(out, de)
	}
	return out, nil
}

// TitleReader looks up a display title embedded in a file.
type TitleReader interface {
	Title(path string) (string, bool)
}

// TagTitles reads ID3, MP4 and FLAC/Vorbis title tags.
type TagTitles struct{}

// Title returns the tagged title of path, if any.
func (TagTitles) Title(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	metadata, err := tag.ReadFrom(f)
	if err != nil {
		return "", false
	}
	title := strings.TrimSpace(metadata.Title())
	return title, title != ""
}

// Item is a browsable file.
type Item struct {
	Entry
	Kind Kind `json:"kind"`
}

// Browser turns a directory listing into playable items.
type Browser struct {
	Lister    Lister
	Estimator Estimator
	Titles    TitleReader
	Log       *zap.Logger
}

// Browse lists dir with the default browser.
func Browse(lister Lister, estimator Estimator, dir string) ([]Item, error) {
	return Browser{Lister: lister, Estimator: estimator}.Browse(dir)
}

// Browse returns the video, audio and playlist files in dir sorted by
// name. Directories and other files are dropped.
func (b Browser) Browse(dir string) ([]Item, error) {
	lister := b.Lister
	if lister == nil {
		lister = OSLister{}
	}
	log := b.Log
	if log == nil {
		log = zap.NewNop()
	}

	entries, err := lister.List(dir)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(entries))
	for _, de := range entries {
		if de.IsDir || strings.HasPrefix(de.Name, ".") {
			continue
		}
		kind := Classify(de.Name)
		if kind == KindOther {
			continue
		}
		path := filepath.Join(dir, de.Name)
		item := Item{Entry: NewEntry(path, 0), Kind: kind}
		if kind != KindPlaylist {
			if b.Estimator != nil {
				item.DurationSeconds = b.Estimator.Estimate(path, de.Size)
			}
			if b.Titles != nil && kind == KindAudio {
				if title, ok := b.Titles.Title(path); ok {
					item.DisplayName = title
				}
			}
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].DisplayName) < strings.ToLower(items[j].DisplayName)
	})
	log.Debug("browse", zap.String("dir", dir), zap.Int("items", len(items)))
	return items, nil
}
