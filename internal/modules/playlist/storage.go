package playlist

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey-austin/media_deck/internal/core"
	"github.com/mikey-austin/media_deck/internal/media"
)

// DefaultNames are the playlists every registry starts with.
var DefaultNames = []string{"Favorites", "Recently Played", "Videos", "Music"}

// Save writes the playlist to its path.
func (p *Playlist) Save() error {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return writeAtomic(p.path, buf.Bytes())
}

// Load reads an .m3u or .m3u8 file. The playlist keeps the name recorded in
// its header, or is named after the file when there is none.
func Load(path string, onSkip SkipFunc) (*Playlist, error) {
	if media.Classify(path) != media.KindPlaylist {
		return nil, core.InvalidArgument("playlist.load", fmt.Sprintf("%s is not an m3u playlist", filepath.Base(path)))
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.NotFound("playlist.load", err)
		}
		return nil, err
	}
	defer f.Close()

	base := filepath.Base(path)
	pl := &Playlist{
		name:   strings.TrimSuffix(base, filepath.Ext(base)),
		path:   path,
		cursor: -1,
	}
	if err := Decode(f, pl, onSkip); err != nil {
		return nil, err
	}
	return pl, nil
}

// Registry owns the named playlists kept in one directory and tracks the
// active one.
type Registry struct {
	dir       string
	log       *zap.Logger
	mu        sync.Mutex
	playlists map[string]*Playlist
	order     []string
	active    string
}

// NewRegistry creates an empty registry rooted at dir.
func NewRegistry(dir string, log *zap.Logger) (*Registry, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("playlist dir required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{dir: dir, log: log, playlists: map[string]*Playlist{}}, nil
}

// Open seeds the default playlists, loads everything in the directory and
// activates the named playlist, falling back to the first default.
func (r *Registry) Open(active string) error {
	if err := r.Seed(); err != nil {
		return err
	}
	if err := r.LoadDir(); err != nil {
		return err
	}
	if active == "" {
		active = DefaultNames[0]
	}
	if err := r.SetActive(active); err != nil {
		r.log.Warn("active playlist missing, using default", zap.String("name", active))
		return r.SetActive(DefaultNames[0])
	}
	return nil
}

// Dir returns the directory playlists are stored in.
func (r *Registry) Dir() string {
	return r.dir
}

// Seed creates and persists the default playlists. Existing files are left
// untouched.
func (r *Registry) Seed() error {
	for _, name := range DefaultNames {
		pl := New(name, r.dir)
		if _, err := os.Stat(pl.Path()); err == nil {
			continue
		}
		if err := pl.Save(); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		r.put(pl)
		r.log.Info("seeded playlist", zap.String("name", name), zap.String("path", pl.Path()))
	}
	return nil
}

// LoadDir loads every playlist file in the registry directory.
func (r *Registry) LoadDir() error {
	entries, err := media.OSLister{}.List(r.dir)
	if err != nil {
		if core.IsKind(err, core.KindNotFound) {
			return nil
		}
		return err
	}
	for _, de := range entries {
		if de.IsDir || media.Classify(de.Name) != media.KindPlaylist {
			continue
		}
		if _, err := r.load(filepath.Join(r.dir, de.Name)); err != nil {
			r.log.Warn("playlist load failed", zap.String("file", de.Name), zap.Error(err))
		}
	}
	return nil
}

// Load reads the playlist at path into the registry and makes it active.
func (r *Registry) Load(path string) (*Playlist, error) {
	pl, err := r.load(path)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.active = pl.Name()
	r.mu.Unlock()
	return pl, nil
}

func (r *Registry) load(path string) (*Playlist, error) {
	pl, err := Load(path, func(line int, err error) {
		r.log.Warn("skipped playlist line", zap.String("path", path), zap.Int("line", line), zap.Error(err))
	})
	if err != nil {
		return nil, err
	}
	r.put(pl)
	r.log.Debug("loaded playlist", zap.String("name", pl.Name()), zap.Int("items", pl.Len()))
	return pl, nil
}

// Create returns the named playlist, creating and saving it if needed.
func (r *Registry) Create(name string) (*Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, core.InvalidArgument("playlist.create", "name required")
	}
	if pl, ok := r.Get(name); ok {
		return pl, nil
	}
	pl := New(name, r.dir)
	if err := pl.Save(); err != nil {
		return nil, err
	}
	r.put(pl)
	return pl, nil
}

// Delete removes the named playlist and its file.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pl, ok := r.playlists[name]
	if !ok {
		return core.NotFound("playlist.delete", fmt.Errorf("playlist %q", name))
	}
	if err := os.Remove(pl.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	delete(r.playlists, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.active == name {
		r.active = ""
	}
	return nil
}

// Get looks up a playlist by name.
func (r *Registry) Get(name string) (*Playlist, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pl, ok := r.playlists[name]
	return pl, ok
}

// Names returns the playlist names, defaults first then alphabetical.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	rank := func(name string) int {
		for i, d := range DefaultNames {
			if d == name {
				return i
			}
		}
		return len(DefaultNames)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Active returns the active playlist, or nil if none is set.
func (r *Registry) Active() *Playlist {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playlists[r.active]
}

// SetActive makes the named playlist active.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[name]; !ok {
		return core.NotFound("playlist.activate", fmt.Errorf("playlist %q", name))
	}
	r.active = name
	return nil
}

func (r *Registry) put(pl *Playlist) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[pl.Name()]; !ok {
		r.order = append(r.order, pl.Name())
	}
	r.playlists[pl.Name()] = pl
}

func writeAtomic(path string, payload []byte) error {
	tmp := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func safeFilename(name string) string {
	replacer := strings.NewReplacer(":", "_", "/", "_", "\\", "_")
	return replacer.Replace(name)
}
