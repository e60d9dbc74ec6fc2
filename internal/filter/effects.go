package filter

import (
	"fmt"

	"github.com/mikey-austin/media_deck/internal/core"
)

// Effect selects a one-shot transform applied outside the color chain.
type Effect int

const (
	EffectNone Effect = iota
	EffectSepia
	EffectGrayscale
	EffectInvert
	EffectBlur
)

func (e Effect) String() string {
	switch e {
	case EffectSepia:
		return "sepia"
	case EffectGrayscale:
		return "grayscale"
	case EffectInvert:
		return "invert"
	case EffectBlur:
		return "blur"
	default:
		return "none"
	}
}

// ParseEffect maps a name to an Effect.
func ParseEffect(name string) (Effect, error) {
	for _, e := range []Effect{EffectNone, EffectSepia, EffectGrayscale, EffectInvert, EffectBlur} {
		if e.String() == name {
			return e, nil
		}
	}
	return EffectNone, core.InvalidArgument("filter.effect", fmt.Sprintf("unknown effect %q", name))
}

// ApplyEffect dispatches to the selected effect. Radius is used by blur only.
func ApplyEffect(buf []uint32, width, height int, effect Effect, radius int) error {
	switch effect {
	case EffectNone:
		return checkBuffer("filter.effect", buf, width, height)
	case EffectSepia:
		return Sepia(buf, width, height)
	case EffectGrayscale:
		return Grayscale(buf, width, height)
	case EffectInvert:
		return Invert(buf, width, height)
	case EffectBlur:
		return BoxBlur(buf, width, height, radius)
	default:
		return core.InvalidArgument("filter.effect", fmt.Sprintf("unknown effect %d", int(effect)))
	}
}

// Sepia applies the classic sepia tone matrix.
func Sepia(buf []uint32, width, height int) error {
	if err := checkBuffer("filter.sepia", buf, width, height); err != nil {
		return err
	}
	for i := 0; i < width*height; i++ {
		r, g, b := unpack(buf[i])
		fr, fg, fb := float64(r), float64(g), float64(b)
		tr := 0.393*fr + 0.769*fg + 0.189*fb
		tg := 0.349*fr + 0.686*fg + 0.168*fb
		tb := 0.272*fr + 0.534*fg + 0.131*fb
		buf[i] = pack(clampChannel(tr), clampChannel(tg), clampChannel(tb))
	}
	return nil
}

// Grayscale replaces each pixel with its luma.
func Grayscale(buf []uint32, width, height int) error {
	if err := checkBuffer("filter.grayscale", buf, width, height); err != nil {
		return err
	}
	for i := 0; i < width*height; i++ {
		r, g, b := unpack(buf[i])
		y := clampChannel(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
		buf[i] = pack(y, y, y)
	}
	return nil
}

// Invert negates every channel.
func Invert(buf []uint32, width, height int) error {
	if err := checkBuffer("filter.invert", buf, width, height); err != nil {
		return err
	}
	for i := 0; i < width*height; i++ {
		r, g, b := unpack(buf[i])
		buf[i] = pack(255-r, 255-g, 255-b)
	}
	return nil
}

// BoxBlur runs a separable mean filter with a window of 2*radius+1 samples.
// Windows shrink at the edges. The horizontal pass reads buf and writes a
// scratch buffer; the vertical pass reads the scratch buffer and writes buf.
func BoxBlur(buf []uint32, width, height int, radius int) error {
	if err := checkBuffer("filter.blur", buf, width, height); err != nil {
		return err
	}
	if radius < 0 {
		return core.InvalidArgument("filter.blur", fmt.Sprintf("radius must not be negative, got %d", radius))
	}
	if radius == 0 {
		return nil
	}

	scratch := make([]uint32, width*height)

	for y := 0; y < height; y++ {
		row := y * width
		blurLine(buf[row:row+width], 1, scratch[row:row+width], 1, width, radius)
	}
	for x := 0; x < width; x++ {
		blurLine(scratch[x:], width, buf[x:], width, height, radius)
	}
	return nil
}

// blurLine averages n samples read from src at the given stride into dst.
func blurLine(src []uint32, srcStride int, dst []uint32, dstStride int, n int, radius int) {
	var sum [3]int
	count := 0
	add := func(i int, sign int) {
		r, g, b := unpack(src[i*srcStride])
		sum[0] += sign * r
		sum[1] += sign * g
		sum[2] += sign * b
		count += sign
	}

	for i := 0; i < radius && i < n; i++ {
		add(i, 1)
	}
	for i := 0; i < n; i++ {
		if hi := i + radius; hi < n {
			add(hi, 1)
		}
		if lo := i - radius - 1; lo >= 0 {
			add(lo, -1)
		}
		dst[i*dstStride] = pack(sum[0]/count, sum[1]/count, sum[2]/count)
	}
}
