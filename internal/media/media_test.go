package media

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey-austin/media_deck/internal/core"
)

type fakeLister struct {
	entries []DirEntry
	err     error
}

func (f fakeLister) List(string) ([]DirEntry, error) {
	return f.entries, f.err
}

type fixedEstimator int

func (f fixedEstimator) Estimate(string, int64) int {
	return int(f)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		kind Kind
	}{
		{"/m/a.MP4", KindVideo},
		{"clip.mov", KindVideo},
		{"song.Mp3", KindAudio},
		{"b.wav", KindAudio},
		{"list.m3u", KindPlaylist},
		{"list.M3U8", KindPlaylist},
		{"notes.txt", KindOther},
		{"noext", KindOther},
	}
	for _, test := range tests {
		if got := Classify(test.path); got != test.kind {
			t.Fatalf("%s: expected %s got %s", test.path, test.kind, got)
		}
	}
}

func TestNewEntryNamesFromBase(t *testing.T) {
	e := NewEntry(`C:\music\track.ogg`, -4)
	if e.DisplayName != "track.ogg" {
		t.Fatalf("unexpected name %q", e.DisplayName)
	}
	if e.IsVideo || e.DurationSeconds != 0 {
		t.Fatalf("unexpected entry %+v", e)
	}
}

func TestBrowseFiltersAndSorts(t *testing.T) {
	lister := fakeLister{entries: []DirEntry{
		{Name: "zeta.mp3", Size: 10},
		{Name: "Alpha.mp4", Size: 10},
		{Name: "readme.txt"},
		{Name: "sub", IsDir: true},
		{Name: ".hidden.mp3"},
		{Name: "mix.m3u"},
	}}
	items, err := Browse(lister, fixedEstimator(180), "/sd")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].DisplayName != "Alpha.mp4" || !items[0].IsVideo || items[0].DurationSeconds != 180 {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].Kind != KindPlaylist || items[1].DurationSeconds != 0 {
		t.Fatalf("expected playlist second, got %+v", items[1])
	}
	if items[2].SourcePath != filepath.Join("/sd", "zeta.mp3") {
		t.Fatalf("unexpected path %s", items[2].SourcePath)
	}
}

func TestBrowsePropagatesListError(t *testing.T) {
	_, err := Browse(OSLister{}, nil, filepath.Join(t.TempDir(), "missing"))
	if !core.IsKind(err, core.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOSListerReportsSizes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.mp3"), make([]byte, 64), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "d"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	entries, err := OSLister{}.List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries")
	}
	for _, e := range entries {
		if e.Name == "a.mp3" && e.Size != 64 {
			t.Fatalf("expected size 64, got %d", e.Size)
		}
	}
}

func TestEstimateBySize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mp3")
	// 128 kbit/s is 16384 bytes per second
	if err := os.WriteFile(path, make([]byte, 16384*3), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	est := FileEstimator{}
	if got := est.Estimate(path, 0); got != 3 {
		t.Fatalf("expected 3 seconds, got %d", got)
	}
	if got := est.Estimate(filepath.Join(dir, "a.txt"), 1<<20); got != 0 {
		t.Fatalf("expected 0 for unknown extension, got %d", got)
	}
	if got := est.Estimate(filepath.Join(dir, "gone.mp3"), 1<<20); got != 0 {
		t.Fatalf("expected 0 for unreadable file, got %d", got)
	}
}

func TestEstimateWAVHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	sampleRate, channels, bits := 8000, 1, 16
	data := make([]byte, sampleRate*channels*bits/8*5)
	if err := os.WriteFile(path, wavFile(sampleRate, channels, bits, data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := (FileEstimator{}).Estimate(path, 0); got != 5 {
		t.Fatalf("expected 5 seconds, got %d", got)
	}
}

func TestEstimateWAVFallsBackOnBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	// 1400 kbit/s is 179200 bytes per second
	if err := os.WriteFile(path, make([]byte, 179200*2), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := (FileEstimator{}).Estimate(path, 0); got != 2 {
		t.Fatalf("expected 2 seconds, got %d", got)
	}
}

func wavFile(sampleRate, channels, bits int, data []byte) []byte {
	out := make([]byte, 44+len(data))
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+len(data)))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 1)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(sampleRate*channels*bits/8))
	binary.LittleEndian.PutUint16(out[32:], uint16(channels*bits/8))
	binary.LittleEndian.PutUint16(out[34:], uint16(bits))
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(len(data)))
	copy(out[44:], data)
	return out
}
