package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGaussianKernel(t *testing.T) {
	t.Parallel()

	k, err := NewGaussianKernel(5, 1.65)
	require.NoError(t, err)
	require.Len(t, k.Weights, 25)

	assert.InDelta(t, 1.0, k.Sum(), 1e-12, "weights must sum to 1")

	t.Run("symmetric", func(t *testing.T) {
		for ky := 0; ky < 5; ky++ {
			for kx := 0; kx < 5; kx++ {
				assert.InDelta(t, k.At(kx, ky), k.At(4-kx, ky), 1e-15)
				assert.InDelta(t, k.At(kx, ky), k.At(kx, 4-ky), 1e-15)
				assert.InDelta(t, k.At(kx, ky), k.At(ky, kx), 1e-15)
			}
		}
	})

	t.Run("peak at centre", func(t *testing.T) {
		centre := k.At(2, 2)
		for i, w := range k.Weights {
			if i != 12 {
				assert.Less(t, w, centre)
			}
		}
	})
}

func TestNewGaussianKernel_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		size  int
		sigma float64
	}{
		{"even size", 4, 1.0},
		{"zero size", 0, 1.0},
		{"zero sigma", 5, 0},
		{"negative sigma", 5, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGaussianKernel(tt.size, tt.sigma)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestSmooth_UniformImage(t *testing.T) {
	t.Parallel()

	// A uniform image must come back unchanged everywhere, edges included:
	// the margin is zero but edge replication keeps it out of the sum.
	src, err := Grayscale(newFilledImage(t, 12, 9, 128, 128, 128), 2)
	require.NoError(t, err)
	dst := newBinaryBuffer(t, 12, 9, 2)

	k, err := NewGaussianKernel(5, 1.65)
	require.NoError(t, err)
	require.NoError(t, Smooth(dst, src, k))

	x0, y0, x1, y1 := dst.Interior()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			require.Equal(t, uint8(128), dst.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
	assert.Equal(t, uint8(0), dst.At(0, 0), "margin must stay untouched")
}

func TestSmooth_WithSpot(t *testing.T) {
	t.Parallel()

	src := newBinaryBuffer(t, 11, 11, 2)
	src.Set(7, 7, 255)
	dst := newBinaryBuffer(t, 11, 11, 2)

	k, err := NewGaussianKernel(5, 1.65)
	require.NoError(t, err)
	require.NoError(t, Smooth(dst, src, k))

	centre := dst.At(7, 7)
	assert.Less(t, centre, uint8(255), "bright spot should be reduced after blur")
	assert.Greater(t, centre, uint8(0))

	for _, p := range [][2]int{{6, 7}, {8, 7}, {7, 6}, {7, 8}} {
		v := dst.At(p[0], p[1])
		assert.Greater(t, v, uint8(0), "neighbor (%d,%d) should receive brightness", p[0], p[1])
		assert.LessOrEqual(t, v, centre)
	}

	// Beyond the kernel radius nothing changes.
	assert.Equal(t, uint8(0), dst.At(10, 7))
}

func TestSmooth_RejectsAliasing(t *testing.T) {
	t.Parallel()

	buf := newBinaryBuffer(t, 5, 5, 2)
	k, err := NewGaussianKernel(5, 1.0)
	require.NoError(t, err)

	assert.ErrorIs(t, Smooth(buf, buf, k), ErrAliasedBuffers)
}

func TestSmooth_ShapeMismatch(t *testing.T) {
	t.Parallel()

	k, err := NewGaussianKernel(3, 1.0)
	require.NoError(t, err)

	err = Smooth(newBinaryBuffer(t, 5, 5, 2), newBinaryBuffer(t, 5, 6, 2), k)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},   // within range
		{-1, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
