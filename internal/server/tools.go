package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file (BMP, PNG, JPEG or GIF)",
	}
}

// withPipelineProperties adds the optional detection overrides to props.
func withPipelineProperties(props map[string]interface{}) map[string]interface{} {
	props["sigma"] = map[string]interface{}{
		"type":        "number",
		"description": "Standard deviation of the Gaussian smoothing kernel. Default 1.65",
		"default":     1.65,
	}
	props["radius"] = map[string]interface{}{
		"type":        "integer",
		"description": "Exclusion radius of the cell detector in pixels. Cells are found once they erode into a (2*radius-1) square. Default 4",
		"default":     4,
	}
	props["element"] = map[string]interface{}{
		"type":        "string",
		"description": "Erosion structuring element",
		"enum":        []string{"cross", "square"},
		"default":     "cross",
	}
	props["uniform_background"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Treat an image with a single grey level as empty instead of one bright region. Default false",
		"default":     false,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size. The decoded image is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color of the pixel at (x, y) as hex, RGB and HSL, plus the gray intensity the cell detector sees.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Cell detection
		{
			Name:        "cells_detect",
			Description: "Detect bright cells in a micrograph. Returns the cell count, the centre of every cell in image coordinates, the Otsu threshold and the number of erosion passes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPipelineProperties(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "cells_overlay",
			Description: "Detect cells and return the image with a marker drawn at every cell as base64-encoded PNG. Optionally also write the annotated image to disk.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPipelineProperties(map[string]interface{}{
					"path": pathProperty(),
					"marker_color": map[string]interface{}{
						"type":        "string",
						"description": "Marker body color as hex. Default #BD2A30",
						"default":     "#BD2A30",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the annotated image to (.bmp, .png or .jpg)",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "cells_crop",
			Description: "Crop the square around a cell centre and return it as base64-encoded PNG, enlarged for inspection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Cell centre X coordinate",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Cell centre Y coordinate",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Half-width of the crop in pixels. Default 12",
						"default":     12,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor applied to the crop. Default 4.0",
						"default":     4.0,
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "cells_threshold",
			Description: "Smooth and binarize an image the way cells_detect does, and report the Otsu threshold, intensity statistics and foreground pixel count. Optionally return the binary image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPipelineProperties(map[string]interface{}{
					"path": pathProperty(),
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the binarized image as base64-encoded PNG. Default false",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "cells_spacing",
			Description: "Detect cells and report nearest-neighbor distance statistics (mean, standard deviation, min, max). Needs at least two cells.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPipelineProperties(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "cells_distance",
			Description: "Detect cells and measure the distance and angle between two of them. Cells are picked by their index in the cells_detect result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withPipelineProperties(map[string]interface{}{
					"path": pathProperty(),
					"from": map[string]interface{}{
						"type":        "integer",
						"description": "Index of the first cell",
					},
					"to": map[string]interface{}{
						"type":        "integer",
						"description": "Index of the second cell",
					},
				}),
				"required": []string{"path", "from", "to"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
