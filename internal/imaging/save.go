package imaging

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
)

// DefaultJPEGQuality is used by Save for .jpg and .jpeg files.
const DefaultJPEGQuality = 95

// encoderFor picks the bild encoder matching the extension of path.
func encoderFor(path string) (imgio.Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return imgio.BMPEncoder(), nil
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(DefaultJPEGQuality), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}

// Save writes img to path, choosing the encoding from the extension
// (.bmp, .png, .jpg or .jpeg).
func Save(path string, img image.Image) error {
	enc, err := encoderFor(path)
	if err != nil {
		return err
	}
	if err := imgio.Save(path, img, enc); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
