package detection

import "gonum.org/v1/gonum/stat"

// Histogram counts the 256 intensity levels over the interior of buf.
// Margin pixels are excluded.
func Histogram(buf *GrayBuffer) [256]int {
	var hist [256]int
	x0, y0, x1, y1 := buf.Interior()
	for y := y0; y < y1; y++ {
		row := buf.Pix[y*buf.Stride : (y+1)*buf.Stride]
		for x := x0; x < x1; x++ {
			hist[row[x]]++
		}
	}
	return hist
}

// singleLevel returns the only populated level of hist, if there is exactly
// one.
func singleLevel(hist [256]int) (int, bool) {
	level, populated := 0, 0
	for i, n := range hist {
		if n > 0 {
			level = i
			populated++
		}
	}
	return level, populated == 1
}

// OtsuThreshold computes the global binarization threshold of buf's interior.
func OtsuThreshold(buf *GrayBuffer) int {
	return OtsuFromHistogram(Histogram(buf))
}

// OtsuFromHistogram returns the level that maximises the between-class
// variance of a 256-bin histogram.
//
// # Algorithm
//
// For each candidate level i, the background class holds every pixel with
// value <= i and the foreground class the rest:
//
//	wB = Σ hist[0..i]         wF = total - wB
//	mB = Σ j·hist[j] / wB     mF = (sum - Σ j·hist[j]) / wF
//	σ² = wB · wF · (mB - mF)²
//
// Levels where either class is empty are skipped. Only a strictly larger
// variance replaces the current best, so ties keep the lowest level.
//
// A histogram with fewer than two populated levels has no valid split and
// yields 0, so a uniform image brighter than black binarizes to all
// foreground. See Config.UniformBackground for the alternative.
func OtsuFromHistogram(hist [256]int) int {
	var total int
	var sum float64
	for i, n := range hist {
		total += n
		sum += float64(i * n)
	}

	var (
		wB        int
		sumB      float64
		varMax    float64
		threshold int
	)
	for i, n := range hist {
		wB += n
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}

		sumB += float64(i * n)
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)

		if between > varMax {
			varMax = between
			threshold = i
		}
	}
	return threshold
}

// HistogramStats returns the mean and standard deviation of the intensity
// distribution described by hist.
func HistogramStats(hist [256]int) (mean, stdDev float64) {
	levels := make([]float64, 0, 256)
	weights := make([]float64, 0, 256)
	for i, n := range hist {
		if n == 0 {
			continue
		}
		levels = append(levels, float64(i))
		weights = append(weights, float64(n))
	}
	switch len(levels) {
	case 0:
		return 0, 0
	case 1:
		return levels[0], 0
	}
	return stat.PopMeanStdDev(levels, weights)
}

// Binarize maps every interior pixel strictly above threshold to 255 and
// every other interior pixel to 0, then zeroes the margin.
//
// Applying Binarize twice with the same threshold leaves the buffer
// unchanged.
func Binarize(buf *GrayBuffer, threshold int) {
	x0, y0, x1, y1 := buf.Interior()
	for y := y0; y < y1; y++ {
		row := buf.Pix[y*buf.Stride : (y+1)*buf.Stride]
		for x := x0; x < x1; x++ {
			if int(row[x]) > threshold {
				row[x] = 255
			} else {
				row[x] = 0
			}
		}
	}
	EnforceBorder(buf)
}

// EnforceBorder zeroes every margin pixel of buf, including its outermost
// ring.
func EnforceBorder(buf *GrayBuffer) {
	x0, y0, x1, y1 := buf.Interior()
	h := buf.PaddedHeight()
	for y := 0; y < h; y++ {
		row := buf.Pix[y*buf.Stride : (y+1)*buf.Stride]
		if y < y0 || y >= y1 {
			clear(row)
			continue
		}
		clear(row[:x0])
		clear(row[x1:])
	}
}
