package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropResult contains the cropped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts the region [x1,x2) x [y1,y2) from img, optionally scaled.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	bounds := img.Bounds()

	// Validate coordinates
	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// CropAround extracts the square of half-width radius centred on (x, y),
// clipped to the image. It is used to inspect a single detected cell.
func CropAround(img image.Image, x, y, radius int, scale float64) (*CropResult, error) {
	if radius < 1 {
		return nil, fmt.Errorf("radius must be positive, got %d", radius)
	}
	bounds := img.Bounds()
	if !image.Pt(x, y).In(bounds) {
		return nil, fmt.Errorf("point (%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x, y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}

	region := image.Rect(x-radius, y-radius, x+radius+1, y+radius+1).Intersect(bounds)
	return Crop(img, region.Min.X, region.Min.Y, region.Max.X, region.Max.Y, scale)
}
