package detection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kernel is a square convolution matrix stored row-major.
//
// Kernels built by NewGaussianKernel are normalised so that Weights sums to
// 1, which means convolution preserves the average brightness of the image.
type Kernel struct {
	Size    int
	Weights []float64
}

// At returns the weight at row ky, column kx.
func (k Kernel) At(kx, ky int) float64 {
	return k.Weights[ky*k.Size+kx]
}

// Sum returns the total of all weights.
func (k Kernel) Sum() float64 {
	return floats.Sum(k.Weights)
}

// NewGaussianKernel builds a normalised size x size Gaussian kernel.
//
// Parameters:
//   - size: Odd side length. The pipeline uses 5.
//   - sigma: Standard deviation in pixels. The pipeline uses 1.65.
//
// Each weight is exp(-(dx²+dy²) / 2σ²) for offsets dx, dy in
// [-size/2, size/2]. The 1/(2πσ²) prefactor is omitted because it cancels
// during normalisation.
func NewGaussianKernel(size int, sigma float64) (Kernel, error) {
	if size < 1 || size%2 == 0 {
		return Kernel{}, fmt.Errorf("%w: kernel size must be odd and positive, got %d", ErrInvalidConfig, size)
	}
	if sigma <= 0 {
		return Kernel{}, fmt.Errorf("%w: sigma must be positive, got %g", ErrInvalidConfig, sigma)
	}

	half := size / 2
	weights := make([]float64, size*size)
	twoSigmaSq := 2 * sigma * sigma
	for ky := -half; ky <= half; ky++ {
		for kx := -half; kx <= half; kx++ {
			weights[(ky+half)*size+(kx+half)] = math.Exp(-float64(kx*kx+ky*ky) / twoSigmaSq)
		}
	}
	floats.Scale(1/floats.Sum(weights), weights)

	return Kernel{Size: size, Weights: weights}, nil
}

// Smooth convolves k over every interior pixel of src and writes the result
// to dst.
//
// Samples that fall outside the interior are clamped to the nearest interior
// pixel (edge replication); the margin never contributes. Each output value
// is rounded to the nearest integer and clamped to [0, 255]. dst's margin is
// left untouched.
//
// dst and src must be distinct buffers of the same shape. Reading and writing
// the same buffer would feed already-smoothed pixels back into the kernel.
func Smooth(dst, src *GrayBuffer, k Kernel) error {
	if err := checkPeers(dst, src); err != nil {
		return err
	}
	if k.Size < 1 || len(k.Weights) != k.Size*k.Size {
		return fmt.Errorf("%w: malformed kernel", ErrInvalidConfig)
	}

	x0, y0, x1, y1 := src.Interior()
	half := k.Size / 2

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			var sum float64
			for ky := -half; ky <= half; ky++ {
				py := clamp(y+ky, y0, y1-1)
				row := src.Pix[py*src.Stride:]
				for kx := -half; kx <= half; kx++ {
					px := clamp(x+kx, x0, x1-1)
					sum += float64(row[px]) * k.Weights[(ky+half)*k.Size+(kx+half)]
				}
			}
			dst.Pix[y*dst.Stride+x] = uint8(clamp(int(math.Round(sum)), 0, 255))
		}
	}
	return nil
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
