package detection

import "fmt"

// ColorImage is a decoded 3-channel 8-bit image.
//
// Pixels are stored row-major with channels interleaved as R,G,B:
//
//	Pix[(y*Width+x)*3+c]
//
// The pipeline never writes to a ColorImage.
type ColorImage struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewColorImage allocates a black ColorImage of the given size.
func NewColorImage(width, height int) (*ColorImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, width, height)
	}
	return &ColorImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}, nil
}

// RGB returns the three channel values at (x, y).
func (c *ColorImage) RGB(x, y int) (r, g, b uint8) {
	i := (y*c.Width + x) * 3
	return c.Pix[i], c.Pix[i+1], c.Pix[i+2]
}

// SetRGB sets the three channel values at (x, y).
func (c *ColorImage) SetRGB(x, y int, r, g, b uint8) {
	i := (y*c.Width + x) * 3
	c.Pix[i], c.Pix[i+1], c.Pix[i+2] = r, g, b
}

// GrayBuffer is a single-channel image surrounded by a fixed black margin.
//
// Image pixel (x, y) lives at buffer position (x+Pad, y+Pad). The margin is
// never treated as image content; border enforcement keeps it at zero so
// that erosion and detection can read up to Pad pixels past the image edge
// without bounds checks.
type GrayBuffer struct {
	// Width and Height are the dimensions of the unpadded image.
	Width  int
	Height int

	// Pad is the margin width on every side.
	Pad int

	// Stride is the padded row length, Width + 2*Pad.
	Stride int

	Pix []uint8
}

// NewGrayBuffer allocates a zeroed buffer for a width x height image with the
// given margin.
func NewGrayBuffer(width, height, pad int) (*GrayBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, width, height)
	}
	if pad < 0 {
		return nil, fmt.Errorf("%w: negative padding %d", ErrInvalidConfig, pad)
	}
	stride := width + 2*pad
	return &GrayBuffer{
		Width:  width,
		Height: height,
		Pad:    pad,
		Stride: stride,
		Pix:    make([]uint8, stride*(height+2*pad)),
	}, nil
}

// PaddedWidth returns the full row length including both margins.
func (b *GrayBuffer) PaddedWidth() int { return b.Stride }

// PaddedHeight returns the full column length including both margins.
func (b *GrayBuffer) PaddedHeight() int { return b.Height + 2*b.Pad }

// At returns the value at buffer coordinates (x, y).
func (b *GrayBuffer) At(x, y int) uint8 {
	return b.Pix[y*b.Stride+x]
}

// Set writes v at buffer coordinates (x, y).
func (b *GrayBuffer) Set(x, y int, v uint8) {
	b.Pix[y*b.Stride+x] = v
}

// Inside reports whether buffer coordinates (x, y) address the padded grid.
func (b *GrayBuffer) Inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Stride && y < b.PaddedHeight()
}

// reaches reports whether every interior pixel's neighborhood of Chebyshev
// radius r lies inside the padded grid.
func (b *GrayBuffer) reaches(r int) bool {
	x0, y0, x1, y1 := b.Interior()
	return b.Inside(x0-r, y0-r) && b.Inside(x1-1+r, y1-1+r)
}

// Interior returns the half-open buffer range [x0,x1) x [y0,y1) that holds
// real image pixels.
func (b *GrayBuffer) Interior() (x0, y0, x1, y1 int) {
	return b.Pad, b.Pad, b.Pad + b.Width, b.Pad + b.Height
}

// SameShape reports whether o can be used as a peer buffer of b.
func (b *GrayBuffer) SameShape(o *GrayBuffer) bool {
	return b.Width == o.Width && b.Height == o.Height && b.Pad == o.Pad
}

// Clone returns an independent copy of b.
func (b *GrayBuffer) Clone() *GrayBuffer {
	c := *b
	c.Pix = make([]uint8, len(b.Pix))
	copy(c.Pix, b.Pix)
	return &c
}

// Foreground counts the interior pixels equal to 255.
func (b *GrayBuffer) Foreground() int {
	x0, y0, x1, y1 := b.Interior()
	n := 0
	for y := y0; y < y1; y++ {
		row := b.Pix[y*b.Stride : (y+1)*b.Stride]
		for x := x0; x < x1; x++ {
			if row[x] == 255 {
				n++
			}
		}
	}
	return n
}

func checkPeers(dst, src *GrayBuffer) error {
	if dst == src {
		return ErrAliasedBuffers
	}
	if !dst.SameShape(src) {
		return fmt.Errorf("%w: src %dx%d+%d, dst %dx%d+%d", ErrDimensionMismatch,
			src.Width, src.Height, src.Pad, dst.Width, dst.Height, dst.Pad)
	}
	return nil
}
