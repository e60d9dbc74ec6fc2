// Package filter applies color transforms to 32-bit ARGB framebuffers in place.
//
// Pixels are packed as 0xAARRGGBB. Alpha is never processed: every pixel
// written back is fully opaque.
package filter

import (
	"fmt"
	"math"

	"github.com/mikey-austin/media_deck/internal/core"
)

// Aspect is the display aspect ratio mode.
type Aspect int

const (
	AspectAuto Aspect = iota
	Aspect4x3
	Aspect16x9
	AspectStretch
)

var aspectNames = []string{"auto", "4:3", "16:9", "stretch"}

func (a Aspect) String() string {
	if a < 0 || int(a) >= len(aspectNames) {
		return fmt.Sprintf("aspect(%d)", int(a))
	}
	return aspectNames[a]
}

// Next cycles to the following aspect mode.
func (a Aspect) Next() Aspect {
	return Aspect((int(a) + 1) % len(aspectNames))
}

// Settings configures the color chain. Values are stored as adjusted and
// only validated when applied.
type Settings struct {
	Brightness     float64 `json:"brightness"`
	Contrast       float64 `json:"contrast"`
	Saturation     float64 `json:"saturation"`
	Hue            float64 `json:"hue"`
	Gamma          float64 `json:"gamma"`
	Sharpness      int     `json:"sharpness"`
	NoiseReduction bool    `json:"noiseReduction"`
	Deinterlace    bool    `json:"deinterlace"`
	Aspect         Aspect  `json:"aspect"`
}

// DefaultSettings returns the identity chain.
func DefaultSettings() Settings {
	return Settings{
		Brightness: 1,
		Contrast:   1,
		Saturation: 1,
		Gamma:      1,
	}
}

// IsIdentity reports whether the chain would leave pixels unchanged.
func (s Settings) IsIdentity() bool {
	return s.Brightness == 1 && s.Contrast == 1 && s.Saturation == 1 && s.Gamma == 1 && s.Sharpness <= 0
}

// Validate checks the settings for values the chain cannot apply.
func (s Settings) Validate() error {
	if math.IsNaN(s.Gamma) || s.Gamma <= 0 {
		return core.InvalidArgument("filter.apply", fmt.Sprintf("gamma must be positive, got %g", s.Gamma))
	}
	fields := []struct {
		name string
		v    float64
	}{
		{"brightness", s.Brightness},
		{"contrast", s.Contrast},
		{"saturation", s.Saturation},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return core.InvalidArgument("filter.apply", f.name+" must be finite")
		}
	}
	return nil
}

// Apply runs brightness, contrast, gamma, saturation and sharpen over buf in
// that order and clamps the result to [0,255] per channel.
func Apply(buf []uint32, width, height int, s Settings) error {
	if err := checkBuffer("filter.apply", buf, width, height); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	invGamma := 1 / s.Gamma
	n := width * height
	for i := 0; i < n; i++ {
		r, g, b := unpack(buf[i])
		c := [3]float64{float64(r), float64(g), float64(b)}

		for k := range c {
			c[k] *= s.Brightness
			c[k] = (c[k]-128)*s.Contrast + 128
			// pow of a negative base is NaN
			if c[k] < 0 {
				c[k] = 0
			}
			c[k] = math.Pow(c[k]/255, invGamma) * 255
		}

		gray := (c[0] + c[1] + c[2]) / 3
		for k := range c {
			c[k] = gray + (c[k]-gray)*s.Saturation
		}
		if s.Sharpness > 0 {
			for k := range c {
				c[k] += (c[k] - gray) * float64(s.Sharpness) / 10
			}
		}

		buf[i] = pack(clampChannel(c[0]), clampChannel(c[1]), clampChannel(c[2]))
	}
	return nil
}

func checkBuffer(op string, buf []uint32, width, height int) error {
	if width <= 0 || height <= 0 {
		return core.InvalidArgument(op, fmt.Sprintf("dimensions must be positive, got %dx%d", width, height))
	}
	if len(buf) == 0 {
		return core.InvalidArgument(op, "buffer is empty")
	}
	if width > math.MaxInt/height {
		return core.InvalidArgument(op, "dimensions overflow")
	}
	if len(buf) < width*height {
		return core.InvalidArgument(op, fmt.Sprintf("buffer holds %d pixels, need %d", len(buf), width*height))
	}
	return nil
}

func unpack(p uint32) (int, int, int) {
	return int(p>>16) & 0xFF, int(p>>8) & 0xFF, int(p) & 0xFF
}

func pack(r, g, b int) uint32 {
	return 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// clampChannel rounds to the nearest level once, after every stage.
func clampChannel(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return int(math.Round(v))
}
