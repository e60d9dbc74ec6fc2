package playlist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mikey-austin/media_deck/internal/core"
	"github.com/mikey-austin/media_deck/internal/media"
)

func TestEncodeFormat(t *testing.T) {
	pl := New("Road Trip", "/sd/playlists")
	pl.Append(media.Entry{DisplayName: "Intro", SourcePath: "/sd/music/intro.mp3", DurationSeconds: 95})
	pl.Append(media.Entry{DisplayName: "Clip", SourcePath: "/sd/video/clip.mp4", IsVideo: true})

	var buf bytes.Buffer
	if err := Encode(&buf, pl); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "#EXTM3U\n" +
		"# Playlist: Road Trip\n" +
		"# Items: 2\n" +
		"#EXTINF:95,Intro\n" +
		"/sd/music/intro.mp3\n" +
		"#EXTINF:0,Clip\n" +
		"/sd/video/clip.mp4\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pl := New("rt", "/tmp")
	pl.Append(media.Entry{DisplayName: "One, with comma", SourcePath: "/a/one.mp3", DurationSeconds: 180})
	pl.Append(media.Entry{DisplayName: "Two", SourcePath: "/a/two.MKV", IsVideo: true, DurationSeconds: 0})
	pl.Append(media.Entry{DisplayName: "Three", SourcePath: "/a/three.ogg", DurationSeconds: 7})

	var buf bytes.Buffer
	if err := Encode(&buf, pl); err != nil {
		t.Fatalf("encode: %v", err)
	}
	loaded := New("rt", "/tmp")
	if err := Decode(&buf, loaded, nil); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loaded.Len() != pl.Len() {
		t.Fatalf("expected %d items, got %d", pl.Len(), loaded.Len())
	}
	for i, want := range pl.Items() {
		got, _ := loaded.At(i)
		if got.DisplayName != want.DisplayName || got.SourcePath != want.SourcePath || got.IsVideo != want.IsVideo {
			t.Fatalf("item %d: expected %+v got %+v", i, want, got)
		}
		if got.DurationSeconds != want.DurationSeconds {
			t.Fatalf("item %d: expected duration %d got %d", i, want.DurationSeconds, got.DurationSeconds)
		}
	}
}

func TestDecodeBestEffort(t *testing.T) {
	input := "\ufeff#EXTM3U\r\n" +
		"# a comment\r\n" +
		"\r\n" +
		"#EXTINF:12,Named\r\n" +
		"/m/named.mp3\r\n" +
		"/m/bare.MP4\r\n" +
		"#EXTINF:oops,Broken\r\n" +
		"/m/after-broken.wav\r\n" +
		"#EXTINF:nocomma\r\n" +
		"#EXTINF:-1,Live\r\n" +
		"http://radio/stream.mp3\r\n" +
		"#EXTINF:30 tvg-id=\"x\",Attr\r\n" +
		"/m/attr.avi\r\n"

	pl := New("best", "/tmp")
	skipped := 0
	err := Decode(strings.NewReader(input), pl, func(_ int, err error) {
		if !core.IsKind(err, core.KindMalformed) {
			t.Fatalf("expected malformed, got %v", err)
		}
		skipped++
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped lines, got %d", skipped)
	}

	want := []media.Entry{
		{DisplayName: "Named", SourcePath: "/m/named.mp3", DurationSeconds: 12},
		{DisplayName: "bare.MP4", SourcePath: "/m/bare.MP4", IsVideo: true},
		{DisplayName: "after-broken.wav", SourcePath: "/m/after-broken.wav"},
		{DisplayName: "Live", SourcePath: "http://radio/stream.mp3"},
		{DisplayName: "Attr", SourcePath: "/m/attr.avi", IsVideo: true, DurationSeconds: 30},
	}
	if pl.Len() != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), pl.Len(), pl.Items())
	}
	for i, w := range want {
		got, _ := pl.At(i)
		if got != w {
			t.Fatalf("entry %d: expected %+v got %+v", i, w, got)
		}
	}
}

func TestDecodeInfoWithoutNameUsesFileName(t *testing.T) {
	pl := New("x", "/tmp")
	if err := Decode(strings.NewReader("#EXTINF:5,\n/m/song.mp3\n"), pl, nil); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, _ := pl.At(0)
	if got.DisplayName != "song.mp3" || got.DurationSeconds != 5 {
		t.Fatalf("unexpected entry %+v", got)
	}
}
