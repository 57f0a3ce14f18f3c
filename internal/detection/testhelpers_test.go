package detection

import "testing"

// newFilledImage creates a width x height image of a single color.
func newFilledImage(t *testing.T, width, height int, r, g, b uint8) *ColorImage {
	t.Helper()
	img, err := NewColorImage(width, height)
	if err != nil {
		t.Fatalf("NewColorImage: %v", err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, r, g, b)
		}
	}
	return img
}

// paintDisc fills the disc of the given radius around (cx, cy) with v.
func paintDisc(img *ColorImage, cx, cy, radius int, v uint8) {
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGB(x, y, v, v, v)
			}
		}
	}
}

// paintSquare fills the size x size square with top-left (x0, y0) with v.
func paintSquare(img *ColorImage, x0, y0, size int, v uint8) {
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			img.SetRGB(x, y, v, v, v)
		}
	}
}

// newBinaryBuffer creates a zeroed width x height buffer with the given
// margin.
func newBinaryBuffer(t *testing.T, width, height, pad int) *GrayBuffer {
	t.Helper()
	buf, err := NewGrayBuffer(width, height, pad)
	if err != nil {
		t.Fatalf("NewGrayBuffer: %v", err)
	}
	return buf
}

// fillImageRect sets the image-coordinate rectangle [x0,x0+w) x [y0,y0+h) of
// buf to v.
func fillImageRect(buf *GrayBuffer, x0, y0, w, h int, v uint8) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			buf.Set(x+buf.Pad, y+buf.Pad, v)
		}
	}
}
