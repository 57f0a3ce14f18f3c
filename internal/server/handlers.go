package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"

	"github.com/ironsheep/cell-tools-mcp/internal/detection"
	"github.com/ironsheep/cell-tools-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "cells_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches a tool call to its handler.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Cell detection
	case "cells_detect":
		return s.handleCellsDetect(args)
	case "cells_overlay":
		return s.handleCellsOverlay(args)
	case "cells_crop":
		return s.handleCellsCrop(args)
	case "cells_threshold":
		return s.handleCellsThreshold(args)
	case "cells_spacing":
		return s.handleCellsSpacing(args)
	case "cells_distance":
		return s.handleCellsDistance(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating a missing object as empty.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = []byte("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Cell Detection Handlers ===

// pipelineArgs are the optional pipeline overrides shared by the cells_*
// tools. Zero values keep the server's configuration.
type pipelineArgs struct {
	Sigma             float64 `json:"sigma"`
	Radius            int     `json:"radius"`
	Element           string  `json:"element"`
	UniformBackground bool    `json:"uniform_background"`
}

// config merges a over base.
func (a pipelineArgs) config(base detection.Config) (detection.Config, error) {
	cfg := base
	if a.Sigma != 0 {
		cfg.Sigma = a.Sigma
	}
	if a.Radius != 0 {
		cfg.ExclusionRadius = a.Radius
		if cfg.Padding != 0 && cfg.Padding < a.Radius {
			cfg.Padding = a.Radius
		}
	}
	if a.Element != "" {
		se, err := detection.ParseStructuringElement(a.Element)
		if err != nil {
			return detection.Config{}, err
		}
		cfg.Element = se
	}
	if a.UniformBackground {
		cfg.UniformBackground = true
	}
	return cfg, cfg.Validate()
}

// detect runs the pipeline on the image at path, reusing an earlier result
// for the same image and configuration.
func (s *Server) detect(path string, a pipelineArgs) (*detection.Result, error) {
	cfg, err := a.config(s.cfg)
	if err != nil {
		return nil, err
	}
	key := resultKey{
		path:    path,
		sigma:   cfg.Sigma,
		radius:  cfg.ExclusionRadius,
		element: cfg.Element,
		uniform: cfg.UniformBackground,
	}

	s.mu.Lock()
	res, ok := s.results[key]
	s.mu.Unlock()
	if ok {
		return res, nil
	}

	img, err := s.cache.LoadColorImage(path)
	if err != nil {
		return nil, err
	}
	p, err := detection.NewPipeline(cfg)
	if err != nil {
		return nil, err
	}
	p.Logger = s.debug
	res, err = p.Run(img)
	if err != nil {
		return nil, fmt.Errorf("failed to detect cells: %w", err)
	}

	s.mu.Lock()
	s.results[key] = res
	s.mu.Unlock()
	return res, nil
}

type cellsDetectArgs struct {
	Path string `json:"path"`
	pipelineArgs
}

func (s *Server) handleCellsDetect(args json.RawMessage) (interface{}, error) {
	var a cellsDetectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.detect(a.Path, a.pipelineArgs)
}

type cellsOverlayArgs struct {
	Path        string `json:"path"`
	MarkerColor string `json:"marker_color"`
	OutputPath  string `json:"output_path"`
	pipelineArgs
}

// CellsOverlayResult is the marker overlay plus the detection it shows.
type CellsOverlayResult struct {
	*imaging.MarkerOverlayResult
	Count   int    `json:"count"`
	SavedTo string `json:"saved_to,omitempty"`
}

func (s *Server) handleCellsOverlay(args json.RawMessage) (interface{}, error) {
	var a cellsOverlayArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MarkerColor == "" {
		a.MarkerColor = imaging.DefaultMarkerColor
	}

	res, err := s.detect(a.Path, a.pipelineArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	overlay, err := imaging.MarkerOverlay(img, res.Cells, a.MarkerColor)
	if err != nil {
		return nil, err
	}
	out := &CellsOverlayResult{MarkerOverlayResult: overlay, Count: res.Count}

	if a.OutputPath != "" {
		if err := imaging.Save(a.OutputPath, imaging.DrawMarkers(img, res.Cells, a.MarkerColor)); err != nil {
			return nil, err
		}
		out.SavedTo = a.OutputPath
	}
	return out, nil
}

type cellsCropArgs struct {
	Path   string  `json:"path"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Radius int     `json:"radius"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleCellsCrop(args json.RawMessage) (interface{}, error) {
	var a cellsCropArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Radius == 0 {
		a.Radius = 12
	}
	if a.Scale == 0 {
		a.Scale = 4.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropAround(img, a.X, a.Y, a.Radius, a.Scale)
}

type cellsThresholdArgs struct {
	Path         string `json:"path"`
	IncludeImage bool   `json:"include_image"`
	pipelineArgs
}

// ThresholdResult describes the binarization of an image.
type ThresholdResult struct {
	Threshold  int     `json:"threshold"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Foreground int     `json:"foreground_pixels"`
	Total      int     `json:"total_pixels"`

	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
}

func (s *Server) handleCellsThreshold(args json.RawMessage) (interface{}, error) {
	var a cellsThresholdArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.config(s.cfg)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.LoadColorImage(a.Path)
	if err != nil {
		return nil, err
	}
	p, err := detection.NewPipeline(cfg)
	if err != nil {
		return nil, err
	}

	buf, threshold, hist, err := p.Prepare(img)
	if err != nil {
		return nil, err
	}
	mean, stdDev := detection.HistogramStats(hist)
	out := &ThresholdResult{
		Threshold:  threshold,
		Mean:       mean,
		StdDev:     stdDev,
		Foreground: buf.Foreground(),
		Total:      buf.Width * buf.Height,
	}

	if a.IncludeImage {
		var enc bytes.Buffer
		if err := png.Encode(&enc, imaging.FromGrayBuffer(buf)); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		out.ImageBase64 = base64.StdEncoding.EncodeToString(enc.Bytes())
		out.MimeType = "image/png"
	}
	return out, nil
}

func (s *Server) handleCellsSpacing(args json.RawMessage) (interface{}, error) {
	var a cellsDetectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	res, err := s.detect(a.Path, a.pipelineArgs)
	if err != nil {
		return nil, err
	}
	return imaging.CellSpacing(res.Cells)
}

type cellsDistanceArgs struct {
	Path string `json:"path"`
	From int    `json:"from"`
	To   int    `json:"to"`
	pipelineArgs
}

// CellDistanceResult is the distance between two detected cells.
type CellDistanceResult struct {
	From detection.Point `json:"from"`
	To   detection.Point `json:"to"`
	imaging.DistanceResult
}

func (s *Server) handleCellsDistance(args json.RawMessage) (interface{}, error) {
	var a cellsDistanceArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	res, err := s.detect(a.Path, a.pipelineArgs)
	if err != nil {
		return nil, err
	}
	for _, i := range []int{a.From, a.To} {
		if i < 0 || i >= len(res.Cells) {
			return nil, fmt.Errorf("cell index %d out of range (0-%d)", i, len(res.Cells)-1)
		}
	}

	from, to := res.Cells[a.From], res.Cells[a.To]
	return &CellDistanceResult{
		From:           from,
		To:             to,
		DistanceResult: imaging.MeasureDistance(from, to),
	}, nil
}
