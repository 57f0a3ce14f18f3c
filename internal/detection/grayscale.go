package detection

import "fmt"

// Grayscale reduces a color image to a padded single-channel buffer.
//
// Each interior value is the integer mean of the three channels, (R+G+B)/3.
// Image pixel (x, y) lands at buffer position (x+pad, y+pad). The margin is
// left at zero.
func Grayscale(img *ColorImage, pad int) (*GrayBuffer, error) {
	buf, err := NewGrayBuffer(img.Width, img.Height, pad)
	if err != nil {
		return nil, err
	}
	if err := GrayscaleInto(buf, img); err != nil {
		return nil, err
	}
	return buf, nil
}

// GrayscaleInto writes the grayscale reduction of img into an existing buffer.
// Margin pixels are not touched.
func GrayscaleInto(dst *GrayBuffer, img *ColorImage) error {
	if dst.Width != img.Width || dst.Height != img.Height {
		return fmt.Errorf("%w: image %dx%d, buffer %dx%d", ErrDimensionMismatch,
			img.Width, img.Height, dst.Width, dst.Height)
	}
	if len(img.Pix) < img.Width*img.Height*3 {
		return fmt.Errorf("%w: %d bytes for a %dx%d RGB image", ErrDimensionMismatch,
			len(img.Pix), img.Width, img.Height)
	}

	for y := 0; y < img.Height; y++ {
		src := img.Pix[y*img.Width*3 : (y+1)*img.Width*3]
		row := dst.Pix[(y+dst.Pad)*dst.Stride+dst.Pad:]
		for x := 0; x < img.Width; x++ {
			sum := int(src[3*x]) + int(src[3*x+1]) + int(src[3*x+2])
			row[x] = uint8(sum / 3)
		}
	}
	return nil
}
