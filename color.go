package scratch

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// HSV is a pen color in hue/saturation/value form. Hue is in degrees
// [0, 360); saturation and value are in [0, 1].
type HSV struct {
	Hue        float64
	Saturation float64
	Value      float64
}

// DefaultPenColor is the color a fresh Pen starts with: full-saturation red.
var DefaultPenColor = HSV{Hue: 0, Saturation: 1, Value: 1}

// RGBA converts the color to an ebiten/image-ready RGBA value, alpha opaque.
func (c HSV) RGBA() color.RGBA {
	h := math.Mod(c.Hue, 360)
	if h < 0 {
		h += 360
	}
	s, v := clamp01(c.Saturation), clamp01(c.Value)

	cc := v * s
	x := cc * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - cc

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = cc, x, 0
	case h < 120:
		r, g, b = x, cc, 0
	case h < 180:
		r, g, b = 0, cc, x
	case h < 240:
		r, g, b = 0, x, cc
	case h < 300:
		r, g, b = x, 0, cc
	default:
		r, g, b = cc, 0, x
	}
	return color.RGBA{
		R: to255(r + m),
		G: to255(g + m),
		B: to255(b + m),
		A: 255,
	}
}

// HSVFromRGB converts an sRGB triple (each in [0,1]) to HSV.
func HSVFromRGB(r, g, b float64) HSV {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	var h float64
	switch {
	case delta == 0:
		h = 0
	case max == r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case max == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	var s float64
	if max != 0 {
		s = delta / max
	}
	return HSV{Hue: h, Saturation: s, Value: max}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func to255(f float64) uint8 {
	return uint8(math.Round(clamp01(f) * 255))
}

// mix blends toward other by fraction t in [0,1], interpolating hue (by the
// shorter arc), saturation, and value directly — matching the original's
// palette-crate Hsv::mix, which lerps the HSV components rather than their
// RGB conversion.
func (c HSV) mix(other HSV, t float64) HSV {
	delta := math.Mod(other.Hue-c.Hue+540, 360) - 180
	return HSV{
		Hue:        math.Mod(c.Hue+delta*t+360, 360),
		Saturation: c.Saturation + (other.Saturation-c.Saturation)*t,
		Value:      c.Value + (other.Value-c.Value)*t,
	}
}

var (
	black = HSV{Hue: 0, Saturation: 0, Value: 0}
	white = HSV{Hue: 0, Saturation: 0, Value: 1}
)

// SetShade implements setPenShadeToNumber's fold-and-mix: shade is reduced
// mod 200 and mirrored around 100, then blended toward black below the 50
// pivot or toward white at/above it. The 10/60 and 60 denominators and the
// 50/100/200 pivots are pinned reference constants — see
// original_source/src/blocks/pen.rs's set_shade test table.
func SetShade(c HSV, shade float64) HSV {
	folded := math.Mod(shade, 200)
	if folded < 0 {
		folded += 200
	}
	if folded > 100 {
		folded = 200 - folded
	}
	bright := HSV{Hue: c.Hue, Saturation: 1, Value: 1}
	if folded < 50 {
		return black.mix(bright, (10+folded)/60)
	}
	return bright.mix(white, (folded-50)/60)
}

// SetHue implements setPenHueToNumber: hue in [0,200] maps linearly onto
// [0,360); hue=200 collapses saturation and value to zero (a special-cased
// pivot, not a rounding artifact of the linear map).
func SetHue(c HSV, hue float64) HSV {
	if hue == 200 {
		return HSV{Hue: 360, Saturation: 0, Value: 0}
	}
	return HSV{Hue: hue / 200 * 360, Saturation: c.Saturation, Value: c.Value}
}

// ParseColor accepts a CSS hex color ("#rrggbb", "#rgb") or a packed 24-bit
// integer string, returning its HSV representation. Used by
// setPenColorToColor.
func ParseColor(s string) (HSV, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return HSV{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return packedToHSV(n), nil
}

func parseHexColor(s string) (HSV, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		expanded := make([]byte, 0, 6)
		for _, c := range h {
			expanded = append(expanded, byte(c), byte(c))
		}
		h = string(expanded)
	}
	if len(h) != 6 {
		return HSV{}, fmt.Errorf("parse color %q: expected 3 or 6 hex digits", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return HSV{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return packedToHSV(int64(n)), nil
}

func packedToHSV(n int64) HSV {
	r := float64((n>>16)&0xFF) / 255
	g := float64((n>>8)&0xFF) / 255
	b := float64(n&0xFF) / 255
	return HSVFromRGB(r, g, b)
}
