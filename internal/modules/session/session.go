// Package session implements the media player state machine: menu,
// browsing, playlist, playback, bookmarks, settings and effects screens
// driven one frame of input at a time.
package session

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/mikey-austin/media_deck/internal/bookmark"
	"github.com/mikey-austin/media_deck/internal/filter"
	"github.com/mikey-austin/media_deck/internal/media"
	"github.com/mikey-austin/media_deck/internal/modules/playlist"
	"github.com/mikey-austin/media_deck/internal/ports"
)

const (
	seekStep   = 10
	volumeStep = 10
	maxVolume  = 100
)

// Browser lists the playable files of a directory.
type Browser interface {
	Browse(dir string) ([]media.Item, error)
}

// Framebuffer exposes the pixels effects are applied to.
type Framebuffer interface {
	Pixels() (buf []uint32, width, height int)
}

// Screenshotter persists a copy of the framebuffer.
type Screenshotter interface {
	Capture(buf []uint32, width, height int) (string, error)
}

// Options wires a Session to its collaborators. Registry is required.
type Options struct {
	Registry      *playlist.Registry
	Bookmarks     *bookmark.Store
	BookmarkPath  string
	Browser       Browser
	LibraryRoot   string
	Framebuffer   Framebuffer
	Screenshotter Screenshotter
	Positions     ports.PositionStore
	BlurRadius    int
	Rand          playlist.Rand
	Log           *zap.Logger
}

// Session owns all player state. It is not safe for concurrent use; a
// single goroutine drives it through HandleInput and Tick.
type Session struct {
	opts Options
	log  *zap.Logger

	state  State
	cursor Cursor
	items  []media.Item

	current  *media.Entry
	clock    int
	duration int
	playing  bool
	volume   int

	settingsPage int

	filter   filter.Settings
	playback PlaybackSettings
	audio    AudioSettings
	subtitle SubtitleOverlay

	bookmarks *bookmark.Store
	status    string
}

// New creates a session on the main menu.
func New(opts Options) (*Session, error) {
	if opts.Registry == nil {
		return nil, errors.New("playlist registry required")
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Browser == nil {
		opts.Browser = media.Browser{Lister: media.OSLister{}, Estimator: media.FileEstimator{Log: opts.Log}}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	if opts.Bookmarks == nil {
		opts.Bookmarks = bookmark.NewStore("")
	}

	s := &Session{
		opts:      opts,
		log:       opts.Log,
		state:     StateMenu,
		cursor:    NewCursor(len(MenuItems), len(MenuItems)),
		filter:    filter.DefaultSettings(),
		playback:  DefaultPlaybackSettings(),
		audio:     DefaultAudioSettings(),
		subtitle:  DefaultSubtitleOverlay(),
		bookmarks: opts.Bookmarks,
	}
	s.volume = s.audio.DefaultVolume
	return s, nil
}

// State returns the current screen.
func (s *Session) State() State { return s.state }

// Clock returns the playback position in seconds.
func (s *Session) Clock() int { return s.clock }

// Playing reports whether the playback clock is running.
func (s *Session) Playing() bool { return s.playing }

// PlaybackSpeed returns the current speed multiplier.
func (s *Session) PlaybackSpeed() float64 { return s.playback.Speed }

// Finished reports whether the loaded item has played to its end.
func (s *Session) Finished() bool {
	return s.current != nil && s.clock >= s.duration
}

// HandleInput applies one frame of input. It returns ErrExit when the user
// quits; every other outcome is reflected in the session state.
func (s *Session) HandleInput(in Input) error {
	if in.Pressed.Has(ButtonHome) && s.state != StateEffects {
		return ErrExit
	}

	switch s.state {
	case StateMenu:
		return s.handleMenu(in)
	case StateFileBrowser:
		s.handleBrowser(in)
	case StatePlaylist:
		s.handlePlaylist(in)
	case StatePlayingVideo, StatePlayingAudio:
		s.handlePlayer(in)
	case StateSettings:
		s.handleSettings(in)
	case StateBookmarks:
		s.handleBookmarks(in)
	case StateEffects:
		s.handleEffects(in)
	}
	return nil
}

// Tick advances the playback clock by one simulated second. The clock
// holds at the item duration; nothing advances to the next item.
func (s *Session) Tick() {
	if !s.state.Playing() || !s.playing {
		return
	}
	if s.clock < s.duration {
		s.clock++
	}
}

func (s *Session) handleMenu(in Input) error {
	s.navigate(in)
	if !in.Pressed.Has(ButtonA) {
		return nil
	}
	switch s.cursor.Selected {
	case MenuBrowser:
		s.enterBrowser()
	case MenuPlaylist:
		s.enterPlaylist()
	case MenuSettings:
		s.settingsPage = 0
		s.enter(StateSettings, NewCursor(len(settingsPages[0]), len(settingsPages[0])))
	case MenuBookmarks:
		s.enter(StateBookmarks, NewCursor(s.bookmarks.Len(), BookmarkPageSize))
	case MenuEffects:
		s.enter(StateEffects, NewCursor(len(EffectItems), len(EffectItems)))
	case MenuExit:
		return ErrExit
	}
	return nil
}

func (s *Session) handleBrowser(in Input) {
	s.navigate(in)
	switch {
	case in.Pressed.Has(ButtonA):
		if s.cursor.Selected >= len(s.items) {
			return
		}
		item := s.items[s.cursor.Selected]
		if item.Kind == media.KindPlaylist {
			if _, err := s.opts.Registry.Load(item.SourcePath); err != nil {
				s.fail("load playlist", err)
				return
			}
			s.enterPlaylist()
			return
		}
		s.play(item.Entry)
	case in.Pressed.Has(ButtonOne):
		if s.cursor.Selected >= len(s.items) || s.items[s.cursor.Selected].Kind == media.KindPlaylist {
			return
		}
		pl := s.opts.Registry.Active()
		if pl == nil {
			s.setStatus("no active playlist")
			return
		}
		pl.Append(s.items[s.cursor.Selected].Entry)
		s.savePlaylist(pl)
		s.setStatus(fmt.Sprintf("added to %s", pl.Name()))
	case in.Pressed.Has(ButtonB):
		s.backToMenu(MenuBrowser)
	}
}

func (s *Session) handlePlaylist(in Input) {
	s.navigate(in)
	pl := s.opts.Registry.Active()
	if in.Pressed.Has(ButtonB) {
		s.backToMenu(MenuBrowser)
		return
	}
	if pl == nil {
		return
	}
	switch {
	case in.Pressed.Has(ButtonA):
		if pl.Jump(s.cursor.Selected) {
			entry, _ := pl.Current()
			s.play(entry)
		}
	case in.Pressed.Has(ButtonPlus):
		pl.Shuffle(s.opts.Rand)
		s.savePlaylist(pl)
		s.cursor.Set(0)
	case in.Pressed.Has(ButtonOne):
		pl.SortByName()
		s.savePlaylist(pl)
		s.cursor.Set(0)
	case in.Pressed.Has(ButtonTwo):
		pl.SortByDuration()
		s.savePlaylist(pl)
		s.cursor.Set(0)
	case in.Pressed.Has(ButtonMinus):
		if pl.Remove(s.cursor.Selected) {
			s.savePlaylist(pl)
			s.cursor.SetCount(pl.Len())
		}
	}
}

func (s *Session) handlePlayer(in Input) {
	switch {
	case in.Pressed.Has(ButtonA):
		s.playing = !s.playing
	case in.Pressed.Has(ButtonB):
		s.stop()
		return
	case in.Pressed.Has(ButtonOne):
		s.addBookmark()
	case in.Pressed.Has(ButtonTwo):
		s.screenshot()
	case in.Pressed.Has(ButtonZ):
		s.playback.SetSlowMotion(!s.playback.SlowMotion)
	case in.Pressed.Has(ButtonC):
		s.playback.SetFastForward(!s.playback.FastForward)
	}

	if in.Held.Has(ButtonLeft) {
		s.seek(-seekStep)
	}
	if in.Held.Has(ButtonRight) {
		s.seek(seekStep)
	}
	if in.Held.Has(ButtonUp) || in.Pressed.Has(ButtonPlus) {
		s.setVolume(s.volume + volumeStep)
	}
	if in.Held.Has(ButtonDown) || in.Pressed.Has(ButtonMinus) {
		s.setVolume(s.volume - volumeStep)
	}
}

func (s *Session) handleSettings(in Input) {
	page := s.settingsPage
	switch {
	case in.Pressed.Has(ButtonLeft):
		page--
	case in.Pressed.Has(ButtonRight):
		page++
	}
	if page, _ = clamp(page, 0, len(settingsPages)-1); page != s.settingsPage {
		s.settingsPage = page
		s.cursor = NewCursor(len(settingsPages[page]), len(settingsPages[page]))
		return
	}

	s.navigate(in)
	switch {
	case in.Pressed.Has(ButtonA):
		field := settingsPages[s.settingsPage][s.cursor.Selected]
		field.toggle(s)
		s.log.Debug("setting changed", zap.String("setting", field.label), zap.String("value", field.value(s)))
	case in.Pressed.Has(ButtonB):
		s.backToMenu(MenuSettings)
	}
}

func (s *Session) handleBookmarks(in Input) {
	s.navigate(in)
	switch {
	case in.Pressed.Has(ButtonA):
		at, ok := s.bookmarks.JumpTo(s.cursor.Selected)
		if !ok {
			return
		}
		if s.current == nil {
			s.setStatus("nothing loaded")
			return
		}
		s.clock, _ = clamp(at, 0, s.duration)
	case in.Pressed.Has(ButtonOne):
		if s.current == nil {
			s.setStatus("nothing loaded")
			return
		}
		s.addBookmark()
		s.cursor.SetCount(s.bookmarks.Len())
	case in.Pressed.Has(ButtonTwo):
		if s.bookmarks.Remove(s.cursor.Selected) {
			s.saveBookmarks()
			s.cursor.SetCount(s.bookmarks.Len())
		}
	case in.Pressed.Has(ButtonB):
		s.backToMenu(MenuBookmarks)
	}
}

func (s *Session) handleEffects(in Input) {
	s.navigate(in)
	switch {
	case in.Pressed.Has(ButtonPlus):
		s.adjustEffect(1)
	case in.Pressed.Has(ButtonMinus):
		s.adjustEffect(-1)
	case in.Pressed.Has(ButtonA):
		s.applyEffect()
	case in.Pressed.Has(ButtonHome):
		s.filter = filter.DefaultSettings()
		s.setStatus("filters reset")
	case in.Pressed.Has(ButtonB):
		s.backToMenu(MenuEffects)
	}
}

// adjustEffect steps the selected chain value. Values are not range
// checked here, except that gamma may not reach zero.
func (s *Session) adjustEffect(dir int) {
	step := 0.1 * float64(dir)
	switch s.cursor.Selected {
	case 0:
		s.filter.Brightness = roundStep(s.filter.Brightness + step)
	case 1:
		s.filter.Contrast = roundStep(s.filter.Contrast + step)
	case 2:
		s.filter.Saturation = roundStep(s.filter.Saturation + step)
	case 3:
		next := roundStep(s.filter.Gamma + step)
		if next <= 0 {
			s.log.Warn("gamma adjustment rejected", zap.Float64("gamma", next))
			s.setStatus("gamma must stay positive")
			return
		}
		s.filter.Gamma = next
	case 4:
		s.filter.Sharpness += dir
	}
}

func (s *Session) applyEffect() {
	if s.opts.Framebuffer == nil {
		s.setStatus("no framebuffer")
		return
	}
	buf, w, h := s.opts.Framebuffer.Pixels()
	var err error
	if s.cursor.Selected < chainItems {
		err = filter.Apply(buf, w, h, s.filter)
	} else {
		effect := filter.Effect(s.cursor.Selected - chainItems + int(filter.EffectSepia))
		err = filter.ApplyEffect(buf, w, h, effect, s.opts.BlurRadius)
	}
	if err != nil {
		s.fail("apply effect", err)
		return
	}
	s.setStatus(EffectItems[s.cursor.Selected] + " applied")
}

func (s *Session) play(entry media.Entry) {
	e := entry
	s.current = &e
	s.clock = 0
	s.duration = entry.DurationSeconds
	s.playing = true
	s.volume = s.audio.DefaultVolume
	s.bookmarks.SetSource(entry.SourcePath)

	if s.playback.RememberPosition && s.opts.Positions != nil {
		pos, ok, err := s.opts.Positions.Position(entry.SourcePath)
		switch {
		case err != nil:
			s.log.Warn("resume lookup failed", zap.String("path", entry.SourcePath), zap.Error(err))
		case ok:
			s.clock, _ = clamp(pos, 0, s.duration)
		}
	}

	if entry.IsVideo {
		s.state = StatePlayingVideo
	} else {
		s.state = StatePlayingAudio
	}
	s.log.Info("playing", zap.String("path", entry.SourcePath), zap.Int("duration", s.duration), zap.Int("from", s.clock))
}

func (s *Session) stop() {
	if s.current != nil && s.playback.RememberPosition && s.opts.Positions != nil {
		if err := s.opts.Positions.SavePosition(s.current.SourcePath, s.clock); err != nil {
			s.log.Warn("resume save failed", zap.String("path", s.current.SourcePath), zap.Error(err))
		}
	}
	s.clock = 0
	s.playing = false
	s.backToMenu(MenuBrowser)
}

func (s *Session) seek(delta int) {
	s.clock, _ = clamp(s.clock+delta, 0, s.duration)
}

func (s *Session) setVolume(v int) {
	s.volume, _ = clamp(v, 0, maxVolume)
}

func (s *Session) addBookmark() {
	label := fmt.Sprintf("Bookmark %d", s.bookmarks.Len()+1)
	if !s.bookmarks.Add(label, s.clock, "Auto-generated bookmark") {
		s.log.Warn("bookmark rejected", zap.Int("count", s.bookmarks.Len()), zap.Int("capacity", bookmark.Capacity))
		s.setStatus("bookmarks full")
		return
	}
	s.saveBookmarks()
	s.setStatus(label + " added")
}

func (s *Session) saveBookmarks() {
	if s.opts.BookmarkPath == "" {
		return
	}
	if err := s.bookmarks.Save(s.opts.BookmarkPath); err != nil {
		s.fail("save bookmarks", err)
	}
}

func (s *Session) savePlaylist(pl *playlist.Playlist) {
	if err := pl.Save(); err != nil {
		s.fail("save playlist", err)
	}
}

func (s *Session) screenshot() {
	if s.opts.Framebuffer == nil || s.opts.Screenshotter == nil {
		s.setStatus("screenshots unavailable")
		return
	}
	buf, w, h := s.opts.Framebuffer.Pixels()
	path, err := s.opts.Screenshotter.Capture(buf, w, h)
	if err != nil {
		s.fail("screenshot", err)
		return
	}
	s.setStatus("saved " + path)
}

func (s *Session) enterBrowser() {
	items, err := s.opts.Browser.Browse(s.opts.LibraryRoot)
	if err != nil {
		s.fail("browse", err)
		items = nil
	}
	s.items = items
	s.enter(StateFileBrowser, NewCursor(len(items), ListPageSize))
}

func (s *Session) enterPlaylist() {
	count := 0
	if pl := s.opts.Registry.Active(); pl != nil {
		count = pl.Len()
	}
	s.enter(StatePlaylist, NewCursor(count, ListPageSize))
}

func (s *Session) enter(state State, cursor Cursor) {
	s.state = state
	s.cursor = cursor
}

func (s *Session) backToMenu(selected int) {
	s.enter(StateMenu, NewCursor(len(MenuItems), len(MenuItems)))
	s.cursor.Set(selected)
}

func (s *Session) navigate(in Input) {
	switch {
	case in.Pressed.Has(ButtonUp):
		s.cursor.Move(-1)
	case in.Pressed.Has(ButtonDown):
		s.cursor.Move(1)
	}
}

func (s *Session) setStatus(msg string) {
	s.status = msg
}

func (s *Session) fail(op string, err error) {
	s.log.Warn(op+" failed", zap.Error(err))
	s.status = fmt.Sprintf("%s: %v", op, err)
}

func roundStep(v float64) float64 {
	return math.Round(v*10) / 10
}
