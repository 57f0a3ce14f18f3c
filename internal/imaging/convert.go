package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/cell-tools-mcp/internal/detection"
)

// ToColorImage converts img to the interleaved RGB layout consumed by the
// detection pipeline. The result is rebased so that the top-left pixel of
// img becomes (0, 0). Alpha is discarded.
func ToColorImage(img image.Image) (*detection.ColorImage, error) {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()

	out, err := detection.NewColorImage(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}

	for y := 0; y < out.Height; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < out.Width; x++ {
			i := x * 4
			out.SetRGB(x, y, row[i], row[i+1], row[i+2])
		}
	}
	return out, nil
}

// FromGrayBuffer renders the image area of buf, without its margin, as a
// grayscale image.
func FromGrayBuffer(buf *detection.GrayBuffer) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		src := buf.Pix[(y+buf.Pad)*buf.Stride+buf.Pad:]
		copy(img.Pix[y*img.Stride:y*img.Stride+buf.Width], src[:buf.Width])
	}
	return img
}
