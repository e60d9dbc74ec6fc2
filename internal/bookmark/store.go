// Package bookmark keeps a bounded, ordered list of time markers within a
// media item.
package bookmark

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mikey-austin/media_deck/internal/core"
)

// Capacity is the maximum number of bookmarks a store holds.
const Capacity = 50

// DefaultSpan is the length in seconds of a new bookmark.
const DefaultSpan = 30

// Bookmark marks a span of the current media item.
type Bookmark struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Note  string `json:"note,omitempty"`
}

// Store holds up to Capacity bookmarks in insertion order.
type Store struct {
	items   []Bookmark
	current int
	source  string
}

// NewStore creates an empty store for the named source.
func NewStore(source string) *Store {
	return &Store{items: make([]Bookmark, 0, Capacity), current: -1, source: source}
}

// Source returns the media item the bookmarks belong to.
func (s *Store) Source() string {
	return s.source
}

// SetSource records the media item the bookmarks belong to.
func (s *Store) SetSource(source string) {
	s.source = source
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	return len(s.items)
}

// Full reports whether another Add would be rejected.
func (s *Store) Full() bool {
	return len(s.items) >= Capacity
}

// At returns the bookmark at index.
func (s *Store) At(index int) (Bookmark, bool) {
	if index < 0 || index >= len(s.items) {
		return Bookmark{}, false
	}
	return s.items[index], true
}

// All returns a copy of the bookmarks.
func (s *Store) All() []Bookmark {
	out := make([]Bookmark, len(s.items))
	copy(out, s.items)
	return out
}

// Current returns the index of the last bookmark jumped to, or -1.
func (s *Store) Current() int {
	return s.current
}

// Add appends a bookmark at the given second. It is a no-op returning false
// when the store is full or at is negative.
func (s *Store) Add(label string, at int, note string) bool {
	if s.Full() || at < 0 {
		return false
	}
	s.items = append(s.items, Bookmark{Label: label, Start: at, End: at + DefaultSpan, Note: note})
	return true
}

// Remove deletes the bookmark at index, keeping the rest in order.
func (s *Store) Remove(index int) bool {
	if index < 0 || index >= len(s.items) {
		return false
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	switch {
	case s.current == index:
		s.current = -1
	case s.current > index:
		s.current--
	}
	return true
}

// JumpTo returns the start of the bookmark at index and marks it current.
func (s *Store) JumpTo(index int) (int, bool) {
	if index < 0 || index >= len(s.items) {
		return 0, false
	}
	s.current = index
	return s.items[index].Start, true
}

// Clear removes every bookmark.
func (s *Store) Clear() {
	s.items = s.items[:0]
	s.current = -1
}

// WriteTo serializes the store as a commented header followed by one
// label,start,end,note line per bookmark.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	write := func(format string, args ...any) error {
		c, err := fmt.Fprintf(bw, format, args...)
		n += int64(c)
		return err
	}
	if err := write("# Bookmarks for: %s\n", s.source); err != nil {
		return n, err
	}
	if err := write("# Format: label,start,end,note\n"); err != nil {
		return n, err
	}
	for _, b := range s.items {
		if err := write("%s,%d,%d,%s\n", sanitizeField(b.Label), b.Start, b.End, sanitizeLine(b.Note)); err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// SkipFunc receives records dropped while reading.
type SkipFunc func(line int, err error)

// Decode replaces the store contents with the records in r. Comment,
// blank and malformed lines are skipped; records past Capacity are dropped.
func (s *Store) Decode(r io.Reader, onSkip SkipFunc) error {
	s.Clear()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if src, ok := strings.CutPrefix(line, "# Bookmarks for:"); ok {
				s.source = strings.TrimSpace(src)
			}
			continue
		}
		b, err := parseLine(line)
		if err != nil {
			if onSkip != nil {
				onSkip(lineNo, err)
			}
			continue
		}
		if s.Full() {
			if onSkip != nil {
				onSkip(lineNo, core.Capacity("bookmark.read", fmt.Sprintf("store holds %d bookmarks", Capacity)))
			}
			continue
		}
		s.items = append(s.items, b)
	}
	return scanner.Err()
}

func parseLine(line string) (Bookmark, error) {
	parts := strings.SplitN(line, ",", 4)
	if len(parts) < 3 {
		return Bookmark{}, core.Malformed("bookmark.read", "expected label,start,end")
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || start < 0 {
		return Bookmark{}, core.Malformed("bookmark.read", fmt.Sprintf("bad start %q", parts[1]))
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || end < 0 {
		return Bookmark{}, core.Malformed("bookmark.read", fmt.Sprintf("bad end %q", parts[2]))
	}
	label := parts[0]
	if strings.HasPrefix(label, " #") {
		label = label[1:]
	}
	b := Bookmark{Label: label, Start: start, End: end}
	if len(parts) == 4 {
		b.Note = parts[3]
	}
	return b, nil
}

// Save writes the store to path, replacing any existing file.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Load replaces the store contents with the file at path.
func (s *Store) Load(path string, onSkip SkipFunc) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.NotFound("bookmark.load", err)
		}
		return err
	}
	defer f.Close()
	return s.Decode(f, onSkip)
}

// sanitizeField keeps a label on one field. A leading '#' is shifted by a
// space so the line is not read back as a comment.
func sanitizeField(v string) string {
	v = strings.NewReplacer(",", " ", "\n", " ", "\r", " ").Replace(v)
	if strings.HasPrefix(v, "#") {
		v = " " + v
	}
	return v
}

func sanitizeLine(v string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(v)
}
