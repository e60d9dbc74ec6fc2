package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey-austin/media_deck/internal/adapters/framebuffer"
	"github.com/mikey-austin/media_deck/internal/bookmark"
	"github.com/mikey-austin/media_deck/internal/core"
	"github.com/mikey-austin/media_deck/internal/filter"
	"github.com/mikey-austin/media_deck/internal/media"
	"github.com/mikey-austin/media_deck/internal/modules/playlist"
	"github.com/mikey-austin/media_deck/internal/ports"
)

// Scanner lists playable files in a directory.
type Scanner interface {
	Browse(dir string) ([]media.Item, error)
}

// Service orchestrates deck CLI use cases.
type Service struct {
	Playlists *playlist.Registry
	Scanner   Scanner
	Estimator media.Estimator
	Positions ports.PositionStore
	Resolver  Resolver
	Config    Config
	Log       *zap.Logger
}

// ListPlaylists summarizes every playlist.
func (s Service) ListPlaylists() (PlaylistListResult, error) {
	out := PlaylistListResult{Playlists: []PlaylistSummary{}}
	active := s.Playlists.Active()
	for _, name := range s.Playlists.Names() {
		pl, ok := s.Playlists.Get(name)
		if !ok {
			continue
		}
		out.Playlists = append(out.Playlists, PlaylistSummary{
			Name:     pl.Name(),
			Items:    pl.Len(),
			Duration: pl.TotalDuration(),
			Active:   active != nil && active.Name() == pl.Name(),
		})
	}
	return out, nil
}

// ShowPlaylist returns a playlist's entries with resume positions.
func (s Service) ShowPlaylist(selector string) (PlaylistShowResult, error) {
	pl, err := s.playlist(selector)
	if err != nil {
		return PlaylistShowResult{}, err
	}
	out := PlaylistShowResult{Name: pl.Name(), Path: pl.Path(), Cursor: pl.Cursor(), Entries: []PlaylistEntry{}}
	for _, e := range pl.Items() {
		entry := PlaylistEntry{Entry: e}
		if s.Positions != nil {
			pos, ok, err := s.Positions.Position(e.SourcePath)
			if err != nil {
				s.logger().Warn("resume lookup failed", zap.String("path", e.SourcePath), zap.Error(err))
			} else if ok {
				entry.Resume = pos
			}
		}
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}

// CreatePlaylist creates and saves an empty playlist.
func (s Service) CreatePlaylist(name string) (PlaylistShowResult, error) {
	pl, err := s.Playlists.Create(name)
	if err != nil {
		return PlaylistShowResult{}, fail("create playlist", err)
	}
	return PlaylistShowResult{Name: pl.Name(), Path: pl.Path(), Cursor: pl.Cursor(), Entries: []PlaylistEntry{}}, nil
}

// DeletePlaylist removes a playlist and its file.
func (s Service) DeletePlaylist(selector string) error {
	name, err := s.Resolver.ResolvePlaylist(selector)
	if err != nil {
		return err
	}
	return fail("delete playlist", s.Playlists.Delete(name))
}

// AddToPlaylist appends media files, estimating their durations.
func (s Service) AddToPlaylist(selector string, paths []string) (ImportResult, error) {
	pl, err := s.playlist(selector)
	if err != nil {
		return ImportResult{}, err
	}
	added := 0
	for _, path := range paths {
		kind := media.Classify(path)
		if kind != media.KindVideo && kind != media.KindAudio {
			return ImportResult{}, &core.CLIError{Code: core.ExitInvalid, Msg: fmt.Sprintf("not a media file: %s", path)}
		}
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return ImportResult{}, fail("add to playlist", core.NotFound("playlist.add", err))
			}
			return ImportResult{}, fail("add to playlist", err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		duration := 0
		if s.Estimator != nil {
			duration = s.Estimator.Estimate(abs, info.Size())
		}
		pl.Append(media.NewEntry(abs, duration))
		added++
	}
	if err := pl.Save(); err != nil {
		return ImportResult{}, fail("save playlist", err)
	}
	return ImportResult{Playlist: pl.Name(), Added: added, Total: pl.Len()}, nil
}

// ShufflePlaylist shuffles and saves a playlist.
func (s Service) ShufflePlaylist(selector string, rng playlist.Rand) (PlaylistShowResult, error) {
	return s.reorder(selector, func(pl *playlist.Playlist) { pl.Shuffle(rng) })
}

// SortPlaylist sorts a playlist by "name" or "duration" and saves it.
func (s Service) SortPlaylist(selector, by string) (PlaylistShowResult, error) {
	switch strings.ToLower(by) {
	case "", "name":
		return s.reorder(selector, (*playlist.Playlist).SortByName)
	case "duration":
		return s.reorder(selector, (*playlist.Playlist).SortByDuration)
	default:
		return PlaylistShowResult{}, &core.CLIError{Code: core.ExitUsage, Msg: fmt.Sprintf("unknown sort key %q", by)}
	}
}

func (s Service) reorder(selector string, fn func(*playlist.Playlist)) (PlaylistShowResult, error) {
	pl, err := s.playlist(selector)
	if err != nil {
		return PlaylistShowResult{}, err
	}
	fn(pl)
	if err := pl.Save(); err != nil {
		return PlaylistShowResult{}, fail("save playlist", err)
	}
	return s.ShowPlaylist(pl.Name())
}

// ImportFeed appends the enclosures of an RSS/Atom feed read from a URL or
// a local file.
func (s Service) ImportFeed(ctx context.Context, selector, source string) (ImportResult, error) {
	pl, err := s.playlist(selector)
	if err != nil {
		return ImportResult{}, err
	}

	var added int
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		added, err = playlist.ImportFeedURL(ctx, pl, source)
	} else {
		var f *os.File
		f, err = os.Open(source)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				err = core.NotFound("feed.open", err)
			}
			return ImportResult{}, fail("import feed", err)
		}
		defer f.Close()
		added, err = playlist.ImportFeed(pl, f)
	}
	if err != nil {
		return ImportResult{}, fail("import feed", err)
	}
	if err := pl.Save(); err != nil {
		return ImportResult{}, fail("save playlist", err)
	}
	s.logger().Info("feed imported", zap.String("playlist", pl.Name()), zap.String("source", source), zap.Int("added", added))
	return ImportResult{Playlist: pl.Name(), Added: added, Total: pl.Len()}, nil
}

// ListBookmarks reads the bookmark file. A missing file is an empty list.
func (s Service) ListBookmarks() (BookmarkListResult, error) {
	store, skipped, err := s.loadBookmarks()
	if err != nil {
		return BookmarkListResult{}, err
	}
	return BookmarkListResult{Path: s.Config.BookmarkPath, Source: store.Source(), Bookmarks: store.All(), Skipped: skipped}, nil
}

// AddBookmark appends a bookmark at the given second and saves the file.
func (s Service) AddBookmark(label string, at int, note string) (BookmarkListResult, error) {
	store, skipped, err := s.loadBookmarks()
	if err != nil {
		return BookmarkListResult{}, err
	}
	if strings.TrimSpace(label) == "" {
		label = fmt.Sprintf("Bookmark %d", store.Len()+1)
	}
	if store.Full() {
		return BookmarkListResult{}, fail("add bookmark", core.Capacity("bookmark.add", fmt.Sprintf("store holds %d bookmarks", bookmark.Capacity)))
	}
	if !store.Add(label, at, note) {
		return BookmarkListResult{}, fail("add bookmark", core.InvalidArgument("bookmark.add", "position must not be negative"))
	}
	if err := store.Save(s.Config.BookmarkPath); err != nil {
		return BookmarkListResult{}, fail("save bookmarks", err)
	}
	return BookmarkListResult{Path: s.Config.BookmarkPath, Source: store.Source(), Bookmarks: store.All(), Skipped: skipped}, nil
}

// RemoveBookmark deletes the bookmark at index and saves the file.
func (s Service) RemoveBookmark(index int) (BookmarkListResult, error) {
	store, skipped, err := s.loadBookmarks()
	if err != nil {
		return BookmarkListResult{}, err
	}
	if !store.Remove(index) {
		return BookmarkListResult{}, fail("remove bookmark", core.NotFound("bookmark.remove", fmt.Errorf("no bookmark at index %d", index)))
	}
	if err := store.Save(s.Config.BookmarkPath); err != nil {
		return BookmarkListResult{}, fail("save bookmarks", err)
	}
	return BookmarkListResult{Path: s.Config.BookmarkPath, Source: store.Source(), Bookmarks: store.All(), Skipped: skipped}, nil
}

func (s Service) loadBookmarks() (*bookmark.Store, int, error) {
	if s.Config.BookmarkPath == "" {
		return nil, 0, &core.CLIError{Code: core.ExitUsage, Msg: "bookmark path not configured"}
	}
	store := bookmark.NewStore("")
	skipped := 0
	err := store.Load(s.Config.BookmarkPath, func(line int, err error) {
		skipped++
		s.logger().Warn("skipped bookmark line", zap.Int("line", line), zap.Error(err))
	})
	if err != nil && !core.IsKind(err, core.KindNotFound) {
		return nil, 0, fail("load bookmarks", err)
	}
	return store, skipped, nil
}

// Scan lists the playable files of dir.
func (s Service) Scan(dir string) (ScanResult, error) {
	items, err := s.Scanner.Browse(dir)
	if err != nil {
		return ScanResult{}, fail("scan", err)
	}
	if items == nil {
		items = []media.Item{}
	}
	return ScanResult{Dir: dir, Items: items}, nil
}

// FilterImage runs the color chain and an optional effect over a PNG.
func (s Service) FilterImage(input, output string, settings filter.Settings, effect filter.Effect, radius int) (FilterResult, error) {
	frame, err := framebuffer.ReadPNG(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = core.NotFound("filter.read", err)
		}
		return FilterResult{}, fail("read image", err)
	}
	if err := filter.Apply(frame.Pix, frame.Width, frame.Height, settings); err != nil {
		return FilterResult{}, fail("apply filter", err)
	}
	if err := filter.ApplyEffect(frame.Pix, frame.Width, frame.Height, effect, radius); err != nil {
		return FilterResult{}, fail("apply effect", err)
	}
	if err := framebuffer.WritePNG(output, frame.Pix, frame.Width, frame.Height); err != nil {
		return FilterResult{}, fail("write image", err)
	}
	return FilterResult{Input: input, Output: output, Width: frame.Width, Height: frame.Height, Settings: settings, Effect: effect.String()}, nil
}

func (s Service) playlist(selector string) (*playlist.Playlist, error) {
	name, err := s.Resolver.ResolvePlaylist(selector)
	if err != nil {
		return nil, err
	}
	pl, ok := s.Playlists.Get(name)
	if !ok {
		return nil, &core.CLIError{Code: core.ExitNotFound, Msg: fmt.Sprintf("playlist not found: %s", name)}
	}
	return pl, nil
}

func (s Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// fail keeps engine errors intact so their kind picks the exit code.
func fail(op string, err error) error {
	if err == nil {
		return nil
	}
	var engineErr *core.Error
	if errors.As(err, &engineErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return core.WrapError(core.ExitRuntime, op, err)
}
