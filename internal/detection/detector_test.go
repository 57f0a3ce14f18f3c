package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := NewDetector(DefaultExclusionRadius)
	require.NoError(t, err)
	return d
}

func TestDetect_SmallSquare(t *testing.T) {
	t.Parallel()

	buf := newBinaryBuffer(t, 20, 20, 4)
	fillImageRect(buf, 8, 8, 2, 2, 255)
	reg := NewRegistry()

	found, err := newTestDetector(t).Detect(buf, reg)
	require.NoError(t, err)

	assert.Equal(t, 1, found)
	assert.Equal(t, []Cell{{X: 10, Y: 10}}, reg.Cells())
	assert.Zero(t, buf.Foreground(), "the accepted blob must be suppressed")
}

func TestDetect_SameCentreTwice(t *testing.T) {
	t.Parallel()

	d := newTestDetector(t)
	reg := NewRegistry()
	buf := newBinaryBuffer(t, 20, 20, 4)

	for pass := 0; pass < 2; pass++ {
		fillImageRect(buf, 8, 8, 2, 2, 255)
		found, err := d.Detect(buf, reg)
		require.NoError(t, err)
		assert.Equal(t, 1, found)
	}
	assert.Equal(t, 1, reg.Len(), "a repeated centre must not be registered twice")
}

func TestDetect_SeparateBlobs(t *testing.T) {
	t.Parallel()

	buf := newBinaryBuffer(t, 30, 30, 4)
	fillImageRect(buf, 3, 3, 3, 3, 255)
	fillImageRect(buf, 20, 6, 2, 2, 255)
	fillImageRect(buf, 10, 22, 1, 1, 255)
	reg := NewRegistry()

	found, err := newTestDetector(t).Detect(buf, reg)
	require.NoError(t, err)
	assert.Equal(t, 3, found)
	assert.Equal(t, 3, reg.Len())
	assert.Zero(t, buf.Foreground())
}

func TestDetect_BlobWiderThanCapture(t *testing.T) {
	t.Parallel()

	d := newTestDetector(t)

	tests := []struct {
		name string
		size int
		want int
	}{
		{"fits capture square", 2*d.CaptureRadius() + 1, 1},
		{"touches exclusion frame", 2*d.CaptureRadius() + 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := newBinaryBuffer(t, 24, 24, 4)
			fillImageRect(buf, 8, 8, tt.size, tt.size, 255)
			before := buf.Foreground()

			found, err := d.Detect(buf, NewRegistry())
			require.NoError(t, err)
			assert.Equal(t, tt.want, found)
			if tt.want == 0 {
				assert.Equal(t, before, buf.Foreground(), "a rejected blob must be left alone")
			}
		})
	}
}

func TestDetect_InsufficientPadding(t *testing.T) {
	t.Parallel()

	buf := newBinaryBuffer(t, 10, 10, 2)
	fillImageRect(buf, 4, 4, 2, 2, 255)
	before := buf.Clone()
	reg := NewRegistry()

	_, err := newTestDetector(t).Detect(buf, reg)
	assert.ErrorIs(t, err, ErrBoundsViolation)
	assert.Equal(t, before.Pix, buf.Pix, "buffer must not be touched")
	assert.Zero(t, reg.Len())
}

func TestNewDetector_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewDetector(1)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	d, err := NewDetector(6)
	require.NoError(t, err)
	assert.Equal(t, 5, d.CaptureRadius())
}
