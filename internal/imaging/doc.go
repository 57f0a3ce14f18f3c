// Package imaging connects decoded image files to the cell detection
// pipeline and renders its results.
//
// It provides a concurrent-safe ImageCache that decodes BMP, PNG, JPEG and
// GIF files, conversion between image.Image and detection.ColorImage, output
// encoding, the cell marker overlay, crops around detected cells, pixel
// color sampling and nearest-neighbor spacing statistics.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward. Cell positions are detection.Point
// values in the same unpadded image coordinates. Regions are half-open:
// (x1,y1) is inclusive and (x2,y2) exclusive.
//
// # Error Handling
//
// Functions return errors for coordinates outside the image, empty regions,
// file I/O failures and encoding failures. Errors wrap their cause with %w.
package imaging
