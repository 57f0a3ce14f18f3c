package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor is a color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor is a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult describes the color of a single pixel.
type ColorResult struct {
	Hex   string   `json:"hex"` // "#RRGGBB"
	RGB   RGBColor `json:"rgb"`
	Alpha uint8    `json:"alpha"`
	HSL   HSLColor `json:"hsl"`

	// Intensity is the channel mean (R+G+B)/3, the value the detection
	// pipeline sees for this pixel before smoothing.
	Intensity uint8 `json:"intensity"`
}

// SampleColor reads the color of the pixel at (x, y).
//
// Parameters:
//   - img: The source image to sample from.
//   - x, y: Pixel coordinates, 0-based from the top-left corner.
//
// Returns:
//   - *ColorResult: The color in hex, RGB and HSL form, plus its intensity.
//   - error: Non-nil if (x, y) lies outside the image.
//
// 16-bit images are reduced to 8 bits per channel by dropping the low byte.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r, g, b, a := img.At(x, y).RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)

	return &ColorResult{
		Hex:       fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB:       RGBColor{R: r8, G: g8, B: b8},
		Alpha:     uint8(a >> 8),
		HSL:       toHSL(r8, g8, b8),
		Intensity: uint8((int(r8) + int(g8) + int(b8)) / 3),
	}, nil
}

// toHSL converts 8-bit RGB to rounded HSL via go-colorful.
func toHSL(r, g, b uint8) HSLColor {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
