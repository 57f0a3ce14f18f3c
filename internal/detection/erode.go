package detection

import (
	"fmt"
	"strings"
)

// StructuringElement is a 3x3 erosion mask centred on the pixel under test.
// Element [dy+1][dx+1] marks the neighbor at offset (dx, dy).
type StructuringElement [3][3]bool

var (
	// CrossElement checks the four edge-adjacent neighbors. It is symmetric
	// under 90° rotation and is the pipeline default.
	CrossElement = StructuringElement{
		{false, true, false},
		{true, true, true},
		{false, true, false},
	}

	// SquareElement checks all eight neighbors.
	SquareElement = StructuringElement{
		{true, true, true},
		{true, true, true},
		{true, true, true},
	}
)

// ParseStructuringElement maps a name ("cross" or "square") to an element.
func ParseStructuringElement(name string) (StructuringElement, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cross":
		return CrossElement, nil
	case "square":
		return SquareElement, nil
	default:
		return StructuringElement{}, fmt.Errorf("%w: unknown structuring element %q", ErrInvalidConfig, name)
	}
}

// String returns the element's name, or "custom".
func (se StructuringElement) String() string {
	switch se {
	case CrossElement:
		return "cross"
	case SquareElement:
		return "square"
	default:
		return "custom"
	}
}

// shrinks reports whether the element marks at least one neighbor other
// than the centre. An element that does not can never remove a pixel.
func (se StructuringElement) shrinks() bool {
	for dy := 0; dy < 3; dy++ {
		for dx := 0; dx < 3; dx++ {
			if se[dy][dx] && (dx != 1 || dy != 1) {
				return true
			}
		}
	}
	return false
}

// ErosionResult reports the outcome of one erosion pass.
type ErosionResult struct {
	// Survivors is the number of foreground pixels left after the pass.
	Survivors int `json:"survivors"`

	// FullyEroded is true when no foreground pixel survived the pass.
	FullyEroded bool `json:"fully_eroded"`
}

// Erode applies one pass of binary erosion from src into dst.
//
// A foreground (255) interior pixel stays 255 only if none of the element's
// marked neighbors is 0; otherwise it becomes 0. Every other pixel, margin
// included, is copied unchanged. FullyEroded starts true and is cleared as
// soon as any pixel survives.
//
// src must be binarized with a zero margin at least one pixel wide so that
// neighbor reads stay inside the buffer. dst and src must be distinct
// buffers of the same shape.
func Erode(dst, src *GrayBuffer, se StructuringElement) (ErosionResult, error) {
	if err := checkPeers(dst, src); err != nil {
		return ErosionResult{}, err
	}
	if !src.reaches(1) {
		return ErosionResult{}, fmt.Errorf("%w: erosion needs a margin of at least 1, got %d",
			ErrBoundsViolation, src.Pad)
	}

	copy(dst.Pix, src.Pix)

	// Flattened offsets of the marked neighbors.
	offsets := make([]int, 0, 9)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if se[dy+1][dx+1] {
				offsets = append(offsets, dy*src.Stride+dx)
			}
		}
	}

	res := ErosionResult{FullyEroded: true}
	x0, y0, x1, y1 := src.Interior()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := y*src.Stride + x
			if src.Pix[i] != 255 {
				continue
			}
			survives := true
			for _, off := range offsets {
				if src.Pix[i+off] == 0 {
					survives = false
					break
				}
			}
			if survives {
				res.Survivors++
				res.FullyEroded = false
			} else {
				dst.Pix[i] = 0
			}
		}
	}
	return res, nil
}
