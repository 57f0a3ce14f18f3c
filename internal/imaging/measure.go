package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/cell-tools-mcp/internal/detection"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DistanceResult contains measurement information
type DistanceResult struct {
	DistancePixels float64 `json:"distance_pixels"`
	DeltaX         int     `json:"delta_x"`
	DeltaY         int     `json:"delta_y"`
	AngleDegrees   float64 `json:"angle_degrees"`
}

// MeasureDistance calculates the distance between two cell centres.
// The angle is 0 for a horizontal vector pointing right and 90 pointing down.
func MeasureDistance(a, b detection.Point) DistanceResult {
	deltaX := b.X - a.X
	deltaY := b.Y - a.Y

	distance := math.Hypot(float64(deltaX), float64(deltaY))
	angle := math.Atan2(float64(deltaY), float64(deltaX)) * 180 / math.Pi

	return DistanceResult{
		DistancePixels: math.Round(distance*100) / 100,
		DeltaX:         deltaX,
		DeltaY:         deltaY,
		AngleDegrees:   math.Round(angle*10) / 10,
	}
}

// SpacingResult summarises how far each cell is from its nearest neighbor.
type SpacingResult struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`

	// Nearest holds the nearest-neighbor distance of each point, in input
	// order.
	Nearest []float64 `json:"nearest"`
}

// CellSpacing computes nearest-neighbor distance statistics for points.
//
// At least two points are required. The standard deviation is the
// population value. The search is quadratic in the number of points, which
// is fine for the few hundred cells of a micrograph.
func CellSpacing(points []detection.Point) (*SpacingResult, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 cells for spacing, got %d", len(points))
	}

	nearest := make([]float64, len(points))
	for i, p := range points {
		best := math.Inf(1)
		for j, q := range points {
			if i == j {
				continue
			}
			if d := math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y)); d < best {
				best = d
			}
		}
		nearest[i] = best
	}

	mean, std := stat.PopMeanStdDev(nearest, nil)
	lo, hi := floats.Min(nearest), floats.Max(nearest)

	return &SpacingResult{
		Count:   len(points),
		Mean:    math.Round(mean*100) / 100,
		StdDev:  math.Round(std*100) / 100,
		Min:     math.Round(lo*100) / 100,
		Max:     math.Round(hi*100) / 100,
		Nearest: nearest,
	}, nil
}
