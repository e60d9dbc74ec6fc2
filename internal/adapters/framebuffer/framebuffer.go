// Package framebuffer holds ARGB frames and moves them to and from PNG.
package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/mikey-austin/media_deck/internal/adapters/clock"
	"github.com/mikey-austin/media_deck/internal/adapters/idgen"
	"github.com/mikey-austin/media_deck/internal/ports"
)

// Buffer is a packed 0xAARRGGBB frame in row-major order.
type Buffer struct {
	Pix    []uint32
	Width  int
	Height int
}

// New allocates a width x height frame filled with a color test pattern.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	b := &Buffer{Pix: make([]uint32, width*height), Width: width, Height: height}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint32(x * 255 / max(width-1, 1))
			g := uint32(y * 255 / max(height-1, 1))
			blue := uint32((x + y) * 255 / max(width+height-2, 1))
			b.Pix[y*width+x] = 0xFF000000 | r<<16 | g<<8 | blue
		}
	}
	return b, nil
}

// Pixels exposes the frame to the session.
func (b *Buffer) Pixels() ([]uint32, int, int) {
	return b.Pix, b.Width, b.Height
}

// FromImage packs any image into a frame.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	b := &Buffer{Pix: make([]uint32, bounds.Dx()*bounds.Dy()), Width: bounds.Dx(), Height: bounds.Dy()}
	for i := range b.Pix {
		p := rgba.Pix[i*4 : i*4+4]
		b.Pix[i] = uint32(p[3])<<24 | uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
	}
	return b
}

// Image unpacks the frame.
func Image(pix []uint32, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height && i < len(pix); i++ {
		v := pix[i]
		img.SetNRGBA(i%width, i/width, color.NRGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: uint8(v >> 24),
		})
	}
	return img
}

// ReadPNG loads a frame from a PNG file.
func ReadPNG(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// WritePNG stores a frame as PNG via a temporary file.
func WritePNG(path string, pix []uint32, width, height int) error {
	if width <= 0 || height <= 0 || len(pix) < width*height {
		return errors.New("framebuffer too small for its dimensions")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".frame-*.png")
	if err != nil {
		return err
	}
	if err := png.Encode(tmp, Image(pix, width, height)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Screenshots writes captures into a directory.
type Screenshots struct {
	Dir   string
	Clock ports.Clock
	IDs   ports.IDGen
}

// NewScreenshots returns a capturer writing to dir.
func NewScreenshots(dir string) Screenshots {
	return Screenshots{Dir: dir, Clock: clock.Clock{}, IDs: idgen.Generator{}}
}

// Capture writes the frame to a new PNG and returns its path.
func (s Screenshots) Capture(pix []uint32, width, height int) (string, error) {
	if s.Dir == "" {
		return "", errors.New("screenshot dir required")
	}
	id := s.IDs.NewID()
	if len(id) > 8 {
		id = id[:8]
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("screenshot-%d-%s.png", s.Clock.NowUnix(), id))
	if err := WritePNG(path, pix, width, height); err != nil {
		return "", err
	}
	return path, nil
}
