package detection

import "fmt"

// Detector finds isolated bright blobs in a binarized buffer.
//
// A position qualifies as a blob centre when the hollow square ring at
// Chebyshev distance ExclusionRadius is entirely background and the filled
// square inside it (half-width ExclusionRadius-1, the capture region) holds
// at least one foreground pixel.
type Detector struct {
	ExclusionRadius int
}

// NewDetector returns a detector with the given exclusion radius.
func NewDetector(radius int) (*Detector, error) {
	if radius < 2 {
		return nil, fmt.Errorf("%w: exclusion radius must be at least 2, got %d", ErrInvalidConfig, radius)
	}
	return &Detector{ExclusionRadius: radius}, nil
}

// CaptureRadius returns the half-width of the capture region.
func (d *Detector) CaptureRadius() int {
	return d.ExclusionRadius - 1
}

// Detect scans buf and registers every blob centre it accepts.
//
// Parameters:
//   - buf: Binarized buffer. Detect zeroes the capture region of every
//     accepted centre, so the buffer is modified.
//   - reg: Registry that receives new centres.
//
// Returns:
//   - int: Number of centres accepted in this scan, including any that were
//     already registered.
//   - error: ErrBoundsViolation if buf's margin is narrower than the
//     exclusion radius. The buffer is not touched in that case.
//
// # Algorithm
//
// Every image pixel is tried as a candidate centre in row-major order, x
// varying fastest:
//
//  1. Exclusion frame: if any pixel on the ring at distance r is non-zero,
//     the candidate is rejected.
//  2. Capture: the inner square of half-width r-1 must contain a 255 pixel.
//  3. Suppression: the centre is registered (if new) and the whole capture
//     square is set to 0.
//
// Suppression makes the scan behave like a greedy non-maximum suppression:
// later candidates in this scan, and later erosion passes, cannot report the
// same blob again.
//
// # Limitations
//
// Blobs wider than the capture square are never accepted while they stay
// that wide; the erosion loop shrinks them until they fit. Blobs whose
// foreground merged during smoothing are reported once.
func (d *Detector) Detect(buf *GrayBuffer, reg *Registry) (int, error) {
	r := d.ExclusionRadius
	if !buf.reaches(r) {
		return 0, fmt.Errorf("%w: padding %d is narrower than exclusion radius %d",
			ErrBoundsViolation, buf.Pad, r)
	}

	accepted := 0
	x0, y0, x1, y1 := buf.Interior()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if !d.frameClear(buf, x, y) || !d.captures(buf, x, y) {
				continue
			}
			reg.Add(Cell{X: x, Y: y})
			d.suppress(buf, x, y)
			accepted++
		}
	}
	return accepted, nil
}

// frameClear reports whether the ring at distance r around (cx, cy) is all
// background.
func (d *Detector) frameClear(buf *GrayBuffer, cx, cy int) bool {
	r := d.ExclusionRadius
	top := buf.Pix[(cy-r)*buf.Stride:]
	bottom := buf.Pix[(cy+r)*buf.Stride:]
	for x := cx - r; x <= cx+r; x++ {
		if top[x] != 0 || bottom[x] != 0 {
			return false
		}
	}
	for y := cy - r + 1; y < cy+r; y++ {
		row := buf.Pix[y*buf.Stride:]
		if row[cx-r] != 0 || row[cx+r] != 0 {
			return false
		}
	}
	return true
}

// captures reports whether the capture square around (cx, cy) holds a
// foreground pixel.
func (d *Detector) captures(buf *GrayBuffer, cx, cy int) bool {
	c := d.CaptureRadius()
	for y := cy - c; y <= cy+c; y++ {
		row := buf.Pix[y*buf.Stride:]
		for x := cx - c; x <= cx+c; x++ {
			if row[x] == 255 {
				return true
			}
		}
	}
	return false
}

// suppress zeroes the capture square around (cx, cy).
func (d *Detector) suppress(buf *GrayBuffer, cx, cy int) {
	c := d.CaptureRadius()
	for y := cy - c; y <= cy+c; y++ {
		row := buf.Pix[y*buf.Stride:]
		clear(row[cx-c : cx+c+1])
	}
}
