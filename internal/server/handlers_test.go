package server

import (
	"encoding/json"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

// discCentres are the cells painted by writeCellImage.
var discCentres = [][2]int{{12, 12}, {40, 14}, {20, 44}, {50, 50}}

// writeCellImage writes a 64x64 BMP with four bright discs of radius 4 on a
// dark background and returns its path.
func writeCellImage(t *testing.T) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(30)
			for _, c := range discCentres {
				dx, dy := x-c[0], y-c[1]
				if dx*dx+dy*dy <= 16 {
					v = 230
				}
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "cells.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, bmp.Encode(f, img))
	return path
}

// callTool runs a tools/call request and decodes the text content into out.
// It returns the JSON-RPC error, if any.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPError {
	t.Helper()

	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	require.NoError(t, err)

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	require.NotNil(t, resp)
	if resp.Error != nil {
		return resp.Error
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	require.Len(t, content, 1)
	assert.Equal(t, "text", content[0]["type"])
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(content[0]["text"].(string)), out))
	}
	return nil
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	path := writeCellImage(t)

	var info struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	require.Nil(t, callTool(t, s, "image_load", map[string]interface{}{"path": path}, &info))
	assert.Equal(t, 64, info.Width)
	assert.Equal(t, 64, info.Height)
	assert.Equal(t, "bmp", info.Format)

	var dims struct{ Width, Height int }
	require.Nil(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": path}, &dims))
	assert.Equal(t, 64, dims.Width)
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := New()
	path := writeCellImage(t)

	var c struct {
		Hex       string `json:"hex"`
		Intensity int    `json:"intensity"`
	}
	require.Nil(t, callTool(t, s, "image_sample_color",
		map[string]interface{}{"path": path, "x": 12, "y": 12}, &c))
	assert.Equal(t, "#E6E6E6", c.Hex)
	assert.Equal(t, 230, c.Intensity)
}

func TestHandleToolsCall_CellsDetect(t *testing.T) {
	s := New()
	path := writeCellImage(t)

	var res struct {
		Count  int `json:"count"`
		Passes int `json:"passes"`
		Cells  []struct {
			X int `json:"x"`
			Y int `json:"y"`
		} `json:"cells"`
	}
	require.Nil(t, callTool(t, s, "cells_detect", map[string]interface{}{"path": path}, &res))
	assert.Equal(t, 4, res.Count)

	var got [][2]int
	for _, c := range res.Cells {
		got = append(got, [2]int{c.X, c.Y})
	}
	assert.ElementsMatch(t, discCentres, got)
	assert.Len(t, s.results, 1)

	// Same configuration reuses the stored result.
	require.Nil(t, callTool(t, s, "cells_detect", map[string]interface{}{"path": path, "radius": 4}, nil))
	assert.Len(t, s.results, 1)

	require.Nil(t, callTool(t, s, "cells_detect",
		map[string]interface{}{"path": path, "element": "square", "sigma": 1.2}, &res))
	assert.Equal(t, 4, res.Count)
	assert.Len(t, s.results, 2)
}

func TestHandleToolsCall_CellsDetectErrors(t *testing.T) {
	s := New()
	path := writeCellImage(t)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing file", map[string]interface{}{"path": "/nonexistent.bmp"}},
		{"unknown element", map[string]interface{}{"path": path, "element": "hexagon"}},
		{"radius too small", map[string]interface{}{"path": path, "radius": 1}},
		{"negative sigma", map[string]interface{}{"path": path, "sigma": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mcpErr := callTool(t, s, "cells_detect", tt.args, nil)
			require.NotNil(t, mcpErr)
			assert.Equal(t, -32000, mcpErr.Code)
		})
	}
}

func TestHandleToolsCall_CellsOverlay(t *testing.T) {
	s := New()
	path := writeCellImage(t)
	outPath := filepath.Join(t.TempDir(), "marked.png")

	var res struct {
		Width       int    `json:"width"`
		Markers     int    `json:"markers"`
		Count       int    `json:"count"`
		ImageBase64 string `json:"image_base64"`
		SavedTo     string `json:"saved_to"`
	}
	require.Nil(t, callTool(t, s, "cells_overlay",
		map[string]interface{}{"path": path, "output_path": outPath}, &res))

	assert.Equal(t, 64, res.Width)
	assert.Equal(t, 4, res.Markers)
	assert.Equal(t, 4, res.Count)
	assert.NotEmpty(t, res.ImageBase64)
	assert.Equal(t, outPath, res.SavedTo)

	saved, err := s.cache.Load(outPath)
	require.NoError(t, err)
	r, g, b, _ := saved.At(12, 12).RGBA()
	assert.Equal(t, [3]uint32{189, 42, 48}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestHandleToolsCall_CellsCrop(t *testing.T) {
	s := New()
	path := writeCellImage(t)

	var res struct{ Width, Height int }
	require.Nil(t, callTool(t, s, "cells_crop", map[string]interface{}{"path": path, "x": 40, "y": 14}, &res))
	assert.Equal(t, 100, res.Width, "25 pixels at the default scale of 4")
	assert.Equal(t, 100, res.Height)

	mcpErr := callTool(t, s, "cells_crop", map[string]interface{}{"path": path, "x": 99, "y": 0}, nil)
	require.NotNil(t, mcpErr)
}

func TestHandleToolsCall_CellsThreshold(t *testing.T) {
	s := New()
	path := writeCellImage(t)

	var res struct {
		Threshold   int    `json:"threshold"`
		Foreground  int    `json:"foreground_pixels"`
		Total       int    `json:"total_pixels"`
		ImageBase64 string `json:"image_base64"`
	}
	require.Nil(t, callTool(t, s, "cells_threshold", map[string]interface{}{"path": path}, &res))
	assert.Greater(t, res.Threshold, 30)
	assert.Less(t, res.Threshold, 230)
	assert.Equal(t, 64*64, res.Total)
	assert.Positive(t, res.Foreground)
	assert.Empty(t, res.ImageBase64)

	require.Nil(t, callTool(t, s, "cells_threshold",
		map[string]interface{}{"path": path, "include_image": true}, &res))
	assert.NotEmpty(t, res.ImageBase64)
}

func TestHandleToolsCall_CellsSpacing(t *testing.T) {
	s := New()
	path := writeCellImage(t)

	var res struct {
		Count int     `json:"count"`
		Min   float64 `json:"min"`
	}
	require.Nil(t, callTool(t, s, "cells_spacing", map[string]interface{}{"path": path}, &res))
	assert.Equal(t, 4, res.Count)
	// (12,12) to (40,14) is the closest pair.
	assert.InDelta(t, 28.07, res.Min, 0.01)
}

func TestHandleToolsCall_CellsDistance(t *testing.T) {
	s := New()
	path := writeCellImage(t)

	var cells struct {
		Cells []struct {
			X int `json:"x"`
			Y int `json:"y"`
		} `json:"cells"`
	}
	require.Nil(t, callTool(t, s, "cells_detect", map[string]interface{}{"path": path}, &cells))
	require.Len(t, cells.Cells, 4)

	var res struct {
		From struct {
			X int `json:"x"`
			Y int `json:"y"`
		} `json:"from"`
		DistancePixels float64 `json:"distance_pixels"`
		DeltaX         int     `json:"delta_x"`
		DeltaY         int     `json:"delta_y"`
	}
	require.Nil(t, callTool(t, s, "cells_distance",
		map[string]interface{}{"path": path, "from": 1, "to": 3}, &res))

	a, b := cells.Cells[1], cells.Cells[3]
	assert.Equal(t, a.X, res.From.X)
	assert.Equal(t, a.Y, res.From.Y)
	assert.Equal(t, b.X-a.X, res.DeltaX)
	assert.Equal(t, b.Y-a.Y, res.DeltaY)
	assert.InDelta(t, math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y)), res.DistancePixels, 0.01)
	assert.Len(t, s.results, 1, "distance reuses the detection result")

	for _, idx := range [][2]int{{0, 4}, {-1, 0}} {
		mcpErr := callTool(t, s, "cells_distance",
			map[string]interface{}{"path": path, "from": idx[0], "to": idx[1]}, nil)
		require.NotNil(t, mcpErr, "indices %v", idx)
		assert.Contains(t, mcpErr.Data, "out of range")
	}
}

func TestHandleToolsCall_UniformBackground(t *testing.T) {
	s := New()

	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "flat.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, img))
	require.NoError(t, f.Close())

	var res struct {
		Count     int `json:"count"`
		Threshold int `json:"threshold"`
	}
	require.Nil(t, callTool(t, s, "cells_detect", map[string]interface{}{"path": path}, &res))
	assert.Equal(t, 0, res.Threshold)
	assert.Equal(t, 1, res.Count)

	require.Nil(t, callTool(t, s, "cells_detect",
		map[string]interface{}{"path": path, "uniform_background": true}, &res))
	assert.Equal(t, 200, res.Threshold)
	assert.Equal(t, 0, res.Count)
	assert.Len(t, s.results, 2)
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	mcpErr := callTool(t, New(), "image_ocr_full", map[string]interface{}{"path": "/x.png"}, nil)
	require.NotNil(t, mcpErr)
	assert.Equal(t, -32000, mcpErr.Code)
	assert.Contains(t, mcpErr.Data, "unknown tool")
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	resp := New().handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}
