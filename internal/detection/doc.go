// Package detection locates bright, roughly circular cells in a color
// micrograph and reports their pixel coordinates.
//
// # Pipeline
//
// Run chains the stages below. Each stage is also exported on its own:
//
//  1. Grayscale: average the three channels into a padded GrayBuffer
//  2. Smooth: convolve a normalised 5x5 Gaussian kernel (σ = 1.65) with
//     edge-replicated sampling
//  3. OtsuThreshold: pick the level that maximises between-class variance
//  4. Binarize: map the interior to 0/255 and zero the margin
//  5. Erode + Detect: shrink blobs one layer per pass and, after every pass
//     that leaves something behind, register the blobs that have become
//     isolated
//
// # Coordinate System
//
// GrayBuffer stores an image with a margin of Pad pixels on every side.
// Image pixel (x, y) lives at buffer position (x+Pad, y+Pad). Cells are
// recorded in buffer coordinates; Result and Registry.Points report image
// coordinates with (0,0) at the top-left, X rightward, Y downward.
//
// # Padding
//
// The detector reads a ring ExclusionRadius pixels away from every image
// pixel, so the margin must be at least that wide. Config derives the margin
// from the radius unless told otherwise, and Detector.Detect refuses a
// narrower buffer with ErrBoundsViolation instead of clamping.
//
// # Limitations
//
// The detector is a greedy scan, not connected-component labeling. Bright
// blobs close enough to merge after smoothing are counted once, and centres
// are pixel positions, not sub-pixel centroids.
package detection
