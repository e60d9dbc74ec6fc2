package playlist

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey-austin/media_deck/internal/core"
	"github.com/mikey-austin/media_deck/internal/media"
)

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	pl := New("Evening Mix", dir)
	pl.Append(media.Entry{DisplayName: "A", SourcePath: "/a.mp3", DurationSeconds: 3})
	pl.Append(media.Entry{DisplayName: "B", SourcePath: "/b.mp4", IsVideo: true})
	if err := pl.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if pl.Path() != filepath.Join(dir, "Evening Mix.m3u") {
		t.Fatalf("unexpected path %s", pl.Path())
	}

	loaded, err := Load(pl.Path(), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name() != "Evening Mix" || loaded.Len() != 2 || loaded.Cursor() != 0 {
		t.Fatalf("unexpected playlist %s len=%d cursor=%d", loaded.Name(), loaded.Len(), loaded.Cursor())
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.m3u"), nil); !core.IsKind(err, core.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(txt, nil); !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestRegistryOpenSeedsDefaults(t *testing.T) {
	dir := t.TempDir()
	reg, err := NewRegistry(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if err := reg.Open(""); err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, name := range DefaultNames {
		if _, err := os.Stat(filepath.Join(dir, name+".m3u")); err != nil {
			t.Fatalf("expected %s persisted: %v", name, err)
		}
	}
	if reg.Active() == nil || reg.Active().Name() != "Favorites" {
		t.Fatalf("expected Favorites active")
	}
	names := reg.Names()
	if len(names) != len(DefaultNames) || names[1] != "Recently Played" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestRegistrySeedKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	fav := New("Favorites", dir)
	fav.Append(media.Entry{DisplayName: "Keep", SourcePath: "/keep.mp3"})
	if err := fav.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	extra := New("Zed", dir)
	extra.Append(media.Entry{DisplayName: "Z", SourcePath: "/z.mp3"})
	if err := extra.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reg, _ := NewRegistry(dir, nil)
	if err := reg.Open("Zed"); err != nil {
		t.Fatalf("open: %v", err)
	}
	got, ok := reg.Get("Favorites")
	if !ok || got.Len() != 1 {
		t.Fatalf("expected existing favorites preserved")
	}
	if reg.Active().Name() != "Zed" {
		t.Fatalf("expected Zed active")
	}
	names := reg.Names()
	if names[len(names)-1] != "Zed" {
		t.Fatalf("expected custom playlists after defaults: %v", names)
	}
}

func TestRegistryLoadActivates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "party.m3u8")
	if err := os.WriteFile(path, []byte("#EXTM3U\n#EXTINF:1,X\n/x.mp3\n#EXTINF:bad\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	reg, _ := NewRegistry(dir, zap.NewNop())
	if err := reg.Open(""); err != nil {
		t.Fatalf("open: %v", err)
	}
	pl, err := reg.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if pl.Name() != "party" || reg.Active() != pl {
		t.Fatalf("expected party active")
	}
}

func TestRegistryCreateAndDelete(t *testing.T) {
	dir := t.TempDir()
	reg, _ := NewRegistry(dir, nil)
	if _, err := reg.Create(" "); !core.IsKind(err, core.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for blank name")
	}
	pl, err := reg.Create("Gym")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	again, _ := reg.Create("Gym")
	if again != pl {
		t.Fatalf("expected create to return existing playlist")
	}
	if err := reg.SetActive("Gym"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := reg.Delete("Gym"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(pl.Path()); !os.IsNotExist(err) {
		t.Fatalf("expected file removed")
	}
	if reg.Active() != nil {
		t.Fatalf("expected no active playlist")
	}
	if err := reg.Delete("Gym"); !core.IsKind(err, core.KindNotFound) {
		t.Fatalf("expected not found")
	}
	if err := reg.SetActive("Gym"); !core.IsKind(err, core.KindNotFound) {
		t.Fatalf("expected not found")
	}
}

func TestNewRegistryRequiresDir(t *testing.T) {
	if _, err := NewRegistry("", nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRegistryKeepsNamesWithUnsafeCharacters(t *testing.T) {
	dir := t.TempDir()
	reg, _ := NewRegistry(dir, nil)
	pl, err := reg.Create("Live: 2024")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	pl.Append(media.Entry{DisplayName: "Opener", SourcePath: "/live/opener.mp3"})
	if err := pl.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(pl.Path()) != "Live_ 2024.m3u" {
		t.Fatalf("unexpected file name %s", pl.Path())
	}

	reopened, _ := NewRegistry(dir, nil)
	if err := reopened.Open("Live: 2024"); err != nil {
		t.Fatalf("open: %v", err)
	}
	got, ok := reopened.Get("Live: 2024")
	if !ok || got.Len() != 1 {
		t.Fatalf("expected playlist restored under its own name, names=%v", reopened.Names())
	}
	if reopened.Active() != got {
		t.Fatalf("expected Live: 2024 active, got %s", reopened.Active().Name())
	}
	if got.Path() != pl.Path() {
		t.Fatalf("expected path kept, got %s", got.Path())
	}
}

func TestLoadWithoutHeaderUsesFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.m3u")
	if err := os.WriteFile(path, []byte("/a.mp3\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	pl, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if pl.Name() != "plain" {
		t.Fatalf("expected file name, got %q", pl.Name())
	}
}
