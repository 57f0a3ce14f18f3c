package main

import (
	"fmt"
	"time"

	"github.com/ironsheep/cell-tools-mcp/internal/detection"
	"github.com/ironsheep/cell-tools-mcp/internal/imaging"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect cells in an image and write an annotated copy",
	Args:  cobra.NoArgs,
	RunE:  runDetect,
}

func init() {
	defaults := detection.DefaultConfig()
	detectCmd.Flags().StringP("input", "i", "", "Input image (BMP, PNG, JPEG or GIF)")
	detectCmd.Flags().StringP("output", "o", "", "Output image with cell markers (.bmp, .png or .jpg)")
	detectCmd.Flags().Float64("sigma", defaults.Sigma, "Gaussian smoothing sigma")
	detectCmd.Flags().Int("radius", defaults.ExclusionRadius, "Detector exclusion radius in pixels")
	detectCmd.Flags().String("element", defaults.Element.String(), "Erosion structuring element (cross, square)")
	detectCmd.Flags().Bool("uniform-background", false, "Report no cells for an image with a single grey level")
	detectCmd.Flags().String("marker-color", imaging.DefaultMarkerColor, "Marker body color as hex")
	detectCmd.Flags().Bool("quiet", false, "Print only the cell count")
	detectCmd.MarkFlagRequired("input")
	detectCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	sigma, _ := cmd.Flags().GetFloat64("sigma")
	radius, _ := cmd.Flags().GetInt("radius")
	elementName, _ := cmd.Flags().GetString("element")
	uniform, _ := cmd.Flags().GetBool("uniform-background")
	markerColor, _ := cmd.Flags().GetString("marker-color")
	quiet, _ := cmd.Flags().GetBool("quiet")

	start := time.Now()

	element, err := detection.ParseStructuringElement(elementName)
	if err != nil {
		return err
	}
	cfg := detection.DefaultConfig()
	cfg.Sigma = sigma
	cfg.ExclusionRadius = radius
	cfg.Element = element
	cfg.UniformBackground = uniform

	pipeline, err := detection.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("configuring pipeline: %w", err)
	}
	pipeline.Logger = setupLogging()

	cache := imaging.NewImageCache()
	src, err := cache.Load(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	img, err := imaging.ToColorImage(src)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(img)
	if err != nil {
		return fmt.Errorf("detecting cells: %w", err)
	}

	out := cmd.OutOrStdout()
	if !quiet {
		for _, c := range result.Cells {
			fmt.Fprintf(out, "x: %d, y: %d\n", c.X, c.Y)
		}
	}
	fmt.Fprintf(out, "Number of cells: %d\n", result.Count)

	if err := imaging.Save(outputPath, imaging.DrawMarkers(src, result.Cells, markerColor)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !quiet {
		fmt.Fprintf(out, "Threshold: %d, erosion passes: %d\n", result.Threshold, result.Passes)
		fmt.Fprintf(out, "Time spent: %s\n", time.Since(start).Round(time.Microsecond))
	}
	return nil
}
