package detection

import "errors"

var (
	// ErrBoundsViolation means a detector read would fall outside the padded
	// buffer. It indicates the padding is narrower than the exclusion radius.
	ErrBoundsViolation = errors.New("detection: bounds violation")

	// ErrInvalidConfig reports a configuration value the pipeline cannot use.
	ErrInvalidConfig = errors.New("detection: invalid configuration")

	// ErrDimensionMismatch reports buffers or images of incompatible sizes.
	ErrDimensionMismatch = errors.New("detection: dimension mismatch")

	// ErrAliasedBuffers reports a stage asked to write into its own input.
	ErrAliasedBuffers = errors.New("detection: source and destination buffers alias")

	// ErrNoConvergence reports an erosion loop that exceeded its pass cap.
	ErrNoConvergence = errors.New("detection: erosion did not converge")
)
