package service

import (
	"strings"
	"testing"

	"github.com/mikey-austin/media_deck/internal/core"
)

type fakeNames []string

func (f fakeNames) Names() []string { return f }

func TestResolverAlias(t *testing.T) {
	resolver := Resolver{
		Playlists: fakeNames{"Favorites", "Road Trip"},
		Config:    Config{Aliases: map[string]string{"car": "Road Trip"}},
	}
	got, err := resolver.ResolvePlaylist("car")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "Road Trip" {
		t.Fatalf("expected alias resolution, got %q", got)
	}
}

func TestResolverDefault(t *testing.T) {
	resolver := Resolver{
		Playlists: fakeNames{"Favorites", "Music"},
		Config:    Config{DefaultPlaylist: "Music"},
	}
	got, err := resolver.ResolvePlaylist("  ")
	if err != nil || got != "Music" {
		t.Fatalf("expected default playlist, got %q %v", got, err)
	}

	resolver.Config.DefaultPlaylist = ""
	if _, err := resolver.ResolvePlaylist(""); core.ExitCode(err) != core.ExitUsage {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestResolverPrefixAndCase(t *testing.T) {
	resolver := Resolver{Playlists: fakeNames{"Favorites", "Music", "Music Videos", "Videos"}}
	cases := map[string]string{
		"music":   "Music",
		"fav":     "Favorites",
		"MUSIC V": "Music Videos",
		"Videos":  "Videos",
	}
	for selector, want := range cases {
		got, err := resolver.ResolvePlaylist(selector)
		if err != nil {
			t.Fatalf("resolve %q: %v", selector, err)
		}
		if got != want {
			t.Fatalf("resolve %q: expected %q, got %q", selector, want, got)
		}
	}
}

func TestResolverAmbiguous(t *testing.T) {
	resolver := Resolver{Playlists: fakeNames{"Music Videos", "Music", "Favorites"}}
	_, err := resolver.ResolvePlaylist("mu")
	if err == nil {
		t.Fatalf("expected ambiguous error")
	}
	if core.ExitCode(err) != core.ExitUsage {
		t.Fatalf("expected usage exit code, got %d", core.ExitCode(err))
	}
	if !strings.Contains(err.Error(), "Music, Music Videos") {
		t.Fatalf("expected sorted suggestions, got %v", err)
	}
}

func TestResolverNoMatch(t *testing.T) {
	resolver := Resolver{Playlists: fakeNames{"Favorites"}}
	if _, err := resolver.ResolvePlaylist("jazz"); core.ExitCode(err) != core.ExitNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
