package framebuffer

import (
	"path/filepath"
	"strings"
	"testing"
)

type fixedClock struct{}

func (fixedClock) NowUnix() int64 { return 1700000000 }

type fixedIDs struct{}

func (fixedIDs) NewID() string { return "0123456789abcdef" }

func TestPNGRoundTrip(t *testing.T) {
	buf, err := New(4, 3)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := WritePNG(path, buf.Pix, buf.Width, buf.Height); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadPNG(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Width != 4 || got.Height != 3 {
		t.Fatalf("expected 4x3, got %dx%d", got.Width, got.Height)
	}
	for i := range buf.Pix {
		if got.Pix[i] != buf.Pix[i] {
			t.Fatalf("pixel %d: expected %08X got %08X", i, buf.Pix[i], got.Pix[i])
		}
	}
}

func TestNewRejectsEmpty(t *testing.T) {
	if _, err := New(0, 10); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPatternIsOpaque(t *testing.T) {
	buf, _ := New(8, 8)
	for i, p := range buf.Pix {
		if p>>24 != 0xFF {
			t.Fatalf("pixel %d not opaque: %08X", i, p)
		}
	}
	if buf.Pix[0] != 0xFF000000 {
		t.Fatalf("expected black origin, got %08X", buf.Pix[0])
	}
}

func TestScreenshotsCapture(t *testing.T) {
	dir := t.TempDir()
	shots := Screenshots{Dir: dir, Clock: fixedClock{}, IDs: fixedIDs{}}
	path, err := shots.Capture([]uint32{0xFFFF0000}, 1, 1)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if filepath.Base(path) != "screenshot-1700000000-01234567.png" {
		t.Fatalf("unexpected name %s", path)
	}
	if !strings.HasPrefix(path, dir) {
		t.Fatalf("expected path under %s", dir)
	}
	got, err := ReadPNG(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Pix[0] != 0xFFFF0000 {
		t.Fatalf("expected red pixel, got %08X", got.Pix[0])
	}
}

func TestWritePNGRejectsShortBuffer(t *testing.T) {
	if err := WritePNG(filepath.Join(t.TempDir(), "x.png"), []uint32{1}, 2, 2); err == nil {
		t.Fatalf("expected error")
	}
}
