package detection

import "fmt"

// Defaults used by DefaultConfig.
const (
	DefaultSigma           = 1.65
	DefaultKernelSize      = 5
	DefaultExclusionRadius = 4
)

// Config holds the tunable parameters of a pipeline run.
type Config struct {
	// Sigma is the standard deviation of the Gaussian smoothing kernel.
	Sigma float64 `json:"sigma"`

	// KernelSize is the odd side length of the Gaussian kernel.
	KernelSize int `json:"kernel_size"`

	// ExclusionRadius is the Chebyshev distance of the detector's exclusion
	// frame. The capture square has half-width ExclusionRadius-1.
	ExclusionRadius int `json:"exclusion_radius"`

	// Padding is the GrayBuffer margin. Zero means "use ExclusionRadius".
	Padding int `json:"padding"`

	// Element is the erosion structuring element.
	Element StructuringElement `json:"-"`

	// UniformBackground makes an image with a single grey level binarize to
	// all background, so it reports no cells. By default such an image is
	// thresholded at 0 and everything brighter than black is foreground.
	UniformBackground bool `json:"uniform_background"`
}

// DefaultConfig returns the tuned parameters for micrograph cell counting.
func DefaultConfig() Config {
	return Config{
		Sigma:           DefaultSigma,
		KernelSize:      DefaultKernelSize,
		ExclusionRadius: DefaultExclusionRadius,
		Element:         CrossElement,
	}
}

// Pad returns the effective margin width.
func (c Config) Pad() int {
	if c.Padding == 0 {
		return c.ExclusionRadius
	}
	return c.Padding
}

// Validate checks that the configuration can drive a pipeline run.
func (c Config) Validate() error {
	if c.Sigma <= 0 {
		return fmt.Errorf("%w: sigma must be positive, got %g", ErrInvalidConfig, c.Sigma)
	}
	if c.KernelSize < 1 || c.KernelSize%2 == 0 {
		return fmt.Errorf("%w: kernel size must be odd and positive, got %d", ErrInvalidConfig, c.KernelSize)
	}
	if c.ExclusionRadius < 2 {
		return fmt.Errorf("%w: exclusion radius must be at least 2, got %d", ErrInvalidConfig, c.ExclusionRadius)
	}
	if c.Padding < 0 {
		return fmt.Errorf("%w: negative padding %d", ErrInvalidConfig, c.Padding)
	}
	if c.Pad() < c.ExclusionRadius {
		return fmt.Errorf("%w: padding %d is narrower than exclusion radius %d",
			ErrBoundsViolation, c.Pad(), c.ExclusionRadius)
	}
	if !c.Element.shrinks() {
		return fmt.Errorf("%w: structuring element marks no neighbor", ErrInvalidConfig)
	}
	return nil
}
