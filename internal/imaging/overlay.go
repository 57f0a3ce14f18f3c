package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/cell-tools-mcp/internal/detection"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultMarkerColor is the body color of a cell marker.
const DefaultMarkerColor = "#BD2A30"

// markerGlyph is the cell marker, 12 pixels wide and 14 tall. '1' pixels are
// drawn white, everything else in the marker color.
var markerGlyph = []string{
	"000000000000",
	"011011101010",
	"010101001010",
	"011001001110",
	"000000000000",
	"000000000000",
	"001100001100",
	"011111111110",
	"001100001100",
	"000000000000",
	"001100001100",
	"011111111110",
	"001100001100",
	"000000000000",
}

// MarkerWidth and MarkerHeight are the marker dimensions in pixels.
const (
	MarkerWidth  = 12
	MarkerHeight = 14
)

// markerColor parses hex with go-colorful, falling back to
// DefaultMarkerColor when hex is empty or malformed.
func markerColor(hex string) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(DefaultMarkerColor)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// DrawMarkers returns a copy of img with a marker drawn at every point.
//
// Each marker's top-left corner sits on its point, so markers extend right
// and down from the cell centre. Marker pixels falling outside the image are
// skipped. img itself is not modified.
func DrawMarkers(img image.Image, points []detection.Point, markerHex string) *image.NRGBA {
	out := imaging.Clone(img)
	bounds := out.Bounds()
	body := markerColor(markerHex)
	stroke := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	for _, p := range points {
		for row, line := range markerGlyph {
			for col, pixel := range line {
				px, py := p.X+col, p.Y+row
				if px < bounds.Min.X || px >= bounds.Max.X || py < bounds.Min.Y || py >= bounds.Max.Y {
					continue
				}
				if pixel == '1' {
					out.SetNRGBA(px, py, stroke)
				} else {
					out.SetNRGBA(px, py, body)
				}
			}
		}
	}
	return out
}

// MarkerOverlayResult contains the annotated image
type MarkerOverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Markers     int    `json:"markers"`
}

// MarkerOverlay draws markers for points on img and returns the result as a
// base64 PNG.
func MarkerOverlay(img image.Image, points []detection.Point, markerHex string) (*MarkerOverlayResult, error) {
	out := DrawMarkers(img, points, markerHex)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &MarkerOverlayResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Markers:     len(points),
	}, nil
}
