package bookmark

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikey-austin/media_deck/internal/core"
)

func TestAddRejectsPastCapacity(t *testing.T) {
	store := NewStore("/media/a.mp4")
	for i := 0; i < Capacity; i++ {
		if !store.Add("b", i, "") {
			t.Fatalf("add %d rejected", i)
		}
	}
	if store.Add("overflow", 99, "") {
		t.Fatalf("expected 51st add to be rejected")
	}
	if store.Len() != Capacity {
		t.Fatalf("expected %d bookmarks, got %d", Capacity, store.Len())
	}
	last, _ := store.At(Capacity - 1)
	if last.Start != Capacity-1 {
		t.Fatalf("expected last bookmark untouched")
	}
}

func TestAddSetsDefaultSpan(t *testing.T) {
	store := NewStore("")
	store.Add("intro", 12, "note")
	b, ok := store.At(0)
	if !ok {
		t.Fatalf("expected bookmark")
	}
	if b.Start != 12 || b.End != 42 {
		t.Fatalf("unexpected span %d-%d", b.Start, b.End)
	}
	if store.Add("neg", -1, "") {
		t.Fatalf("expected negative time rejected")
	}
}

func TestRemoveCompacts(t *testing.T) {
	store := NewStore("")
	store.Add("a", 1, "")
	store.Add("b", 2, "")
	store.Add("c", 3, "")

	if store.Remove(5) || store.Remove(-1) {
		t.Fatalf("expected out of range remove to fail")
	}
	if !store.Remove(1) {
		t.Fatalf("expected remove")
	}
	got := []string{}
	for _, b := range store.All() {
		got = append(got, b.Label)
	}
	if strings.Join(got, ",") != "a,c" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestJumpTo(t *testing.T) {
	store := NewStore("")
	store.Add("a", 10, "")
	store.Add("b", 20, "")

	at, ok := store.JumpTo(1)
	if !ok || at != 20 {
		t.Fatalf("expected jump to 20, got %d %v", at, ok)
	}
	if store.Current() != 1 {
		t.Fatalf("expected current 1")
	}
	if _, ok := store.JumpTo(2); ok {
		t.Fatalf("expected out of range jump to fail")
	}
	store.Remove(0)
	if store.Current() != 0 {
		t.Fatalf("expected current to follow removal, got %d", store.Current())
	}
}

func TestRoundTrip(t *testing.T) {
	store := NewStore("/media/show.mkv")
	store.Add("Opening", 0, "theme, with commas")
	store.Add("Fight", 610, "")

	var buf bytes.Buffer
	if _, err := store.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# Bookmarks for: /media/show.mkv\n") {
		t.Fatalf("missing header: %q", buf.String())
	}

	loaded := NewStore("")
	if err := loaded.Decode(&buf, nil); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loaded.Source() != "/media/show.mkv" {
		t.Fatalf("expected source restored, got %q", loaded.Source())
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", loaded.Len())
	}
	first, _ := loaded.At(0)
	if first.Note != "theme, with commas" || first.End != 30 {
		t.Fatalf("unexpected first bookmark %+v", first)
	}
}

func TestDecodeSkipsMalformed(t *testing.T) {
	input := "# comment\n" +
		"\n" +
		"good,1,31,ok\n" +
		"short,1\n" +
		"bad,x,5,\n" +
		"also good,5,35\r\n"

	store := NewStore("")
	store.Add("stale", 1, "")

	skipped := []int{}
	err := store.Decode(strings.NewReader(input), func(line int, err error) {
		if !core.IsKind(err, core.KindMalformed) {
			t.Fatalf("expected malformed error, got %v", err)
		}
		skipped = append(skipped, line)
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected contents replaced with 2 bookmarks, got %d", store.Len())
	}
	if len(skipped) != 2 || skipped[0] != 4 || skipped[1] != 5 {
		t.Fatalf("unexpected skipped lines %v", skipped)
	}
	second, _ := store.At(1)
	if second.Label != "also good" || second.Note != "" {
		t.Fatalf("unexpected second bookmark %+v", second)
	}
}

func TestDecodeStopsAtCapacity(t *testing.T) {
	var b strings.Builder
	for i := 0; i < Capacity+5; i++ {
		b.WriteString("x,1,2,\n")
	}
	store := NewStore("")
	capacityHits := 0
	if err := store.Decode(strings.NewReader(b.String()), func(_ int, err error) {
		if core.IsKind(err, core.KindCapacity) {
			capacityHits++
		}
	}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if store.Len() != Capacity || capacityHits != 5 {
		t.Fatalf("expected %d kept and 5 dropped, got %d and %d", Capacity, store.Len(), capacityHits)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bookmarks.txt")
	store := NewStore("/media/a.mp3")
	store.Add("Chorus", 64, "")
	if err := store.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := NewStore("")
	if err := loaded.Load(path, nil); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("expected 1 bookmark")
	}

	err := loaded.Load(filepath.Join(t.TempDir(), "missing.txt"), nil)
	if !core.IsKind(err, core.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRoundTripKeepsHashLabels(t *testing.T) {
	store := NewStore("/media/a.mp4")
	store.Add("#1 intro", 5, "first")
	store.Add("ok", 40, "")

	var buf bytes.Buffer
	if _, err := store.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded := NewStore("")
	if err := loaded.Decode(&buf, nil); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 bookmarks, got %+v", loaded.All())
	}
	first, _ := loaded.At(0)
	if first.Label != "#1 intro" || first.Start != 5 || first.Note != "first" {
		t.Fatalf("unexpected first bookmark %+v", first)
	}
}
