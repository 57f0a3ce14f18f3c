package detection

import (
	"fmt"
	"log"
)

// Result contains the cells found in one image.
type Result struct {
	// Width and Height are the dimensions of the analysed image.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Threshold is the Otsu level used for binarization.
	Threshold int `json:"threshold"`

	// Mean and StdDev describe the smoothed intensity distribution.
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`

	// Passes is the number of erosion passes run, including the final one
	// that emptied the image.
	Passes int `json:"passes"`

	// Count is the number of registered cells.
	Count int `json:"count"`

	// Cells holds the cell centres in image coordinates, most recent
	// detection first.
	Cells []Point `json:"cells"`
}

// Pipeline runs the image-to-coordinates cell detection.
type Pipeline struct {
	cfg      Config
	kernel   Kernel
	detector *Detector

	// Logger receives one line per erosion pass. Nil disables logging.
	Logger *log.Logger
}

// NewPipeline validates cfg and prepares the kernel and detector.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kernel, err := NewGaussianKernel(cfg.KernelSize, cfg.Sigma)
	if err != nil {
		return nil, err
	}
	detector, err := NewDetector(cfg.ExclusionRadius)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, kernel: kernel, detector: detector}, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Prepare runs the stages up to binarization and returns the binarized
// buffer together with the threshold and the smoothed histogram.
func (p *Pipeline) Prepare(img *ColorImage) (*GrayBuffer, int, [256]int, error) {
	gray, err := Grayscale(img, p.cfg.Pad())
	if err != nil {
		return nil, 0, [256]int{}, fmt.Errorf("grayscale: %w", err)
	}
	smoothed, err := NewGrayBuffer(img.Width, img.Height, p.cfg.Pad())
	if err != nil {
		return nil, 0, [256]int{}, err
	}
	if err := Smooth(smoothed, gray, p.kernel); err != nil {
		return nil, 0, [256]int{}, fmt.Errorf("smooth: %w", err)
	}

	hist := Histogram(smoothed)
	threshold := OtsuFromHistogram(hist)
	if level, ok := singleLevel(hist); ok && p.cfg.UniformBackground {
		threshold = level
	}
	Binarize(smoothed, threshold)
	return smoothed, threshold, hist, nil
}

// Run detects the cells in img.
//
// # Control Loop
//
// After binarization the pipeline alternates erosion and detection:
//
//	for {
//	    erode current -> next
//	    if the pass left nothing: stop
//	    detect on next, swap
//	}
//
// Shrinking the blobs pass by pass separates bright regions that touched in
// earlier passes, so the detector can isolate them. No detection runs after
// the pass that empties the image. The two buffers are allocated once and
// swapped between passes.
//
// Every element accepted by Config.Validate marks a neighbor, and each pass
// shortens every foreground run along that neighbor's direction by at least
// one pixel, so the loop ends within max(W, H)+2·pad+1 passes.
// The cap turns an element that cannot shrink anything into
// ErrNoConvergence instead of an endless loop; a validated configuration
// never reaches it.
func (p *Pipeline) Run(img *ColorImage) (*Result, error) {
	cur, threshold, hist, err := p.Prepare(img)
	if err != nil {
		return nil, err
	}
	next, err := NewGrayBuffer(img.Width, img.Height, p.cfg.Pad())
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	maxPasses := max(img.Width, img.Height) + 2*p.cfg.Pad() + 1
	passes := 0
	for {
		if passes >= maxPasses {
			return nil, fmt.Errorf("%w: %d passes on a %dx%d image", ErrNoConvergence,
				passes, img.Width, img.Height)
		}
		res, err := Erode(next, cur, p.cfg.Element)
		if err != nil {
			return nil, fmt.Errorf("erode: %w", err)
		}
		passes++
		cur, next = next, cur
		if res.FullyEroded {
			p.logf("pass %d: fully eroded, %d cells", passes, reg.Len())
			break
		}

		found, err := p.detector.Detect(cur, reg)
		if err != nil {
			return nil, fmt.Errorf("detect: %w", err)
		}
		p.logf("pass %d: %d survivors, %d centres, %d cells", passes, res.Survivors, found, reg.Len())
	}

	mean, stdDev := HistogramStats(hist)
	return &Result{
		Width:     img.Width,
		Height:    img.Height,
		Threshold: threshold,
		Mean:      mean,
		StdDev:    stdDev,
		Passes:    passes,
		Count:     reg.Len(),
		Cells:     reg.Points(p.cfg.Pad()),
	}, nil
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

// Detect runs the pipeline on img with the default configuration.
func Detect(img *ColorImage) (*Result, error) {
	p, err := NewPipeline(DefaultConfig())
	if err != nil {
		return nil, err
	}
	return p.Run(img)
}
