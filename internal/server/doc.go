// Package server implements the MCP (Model Context Protocol) server for cell
// counting in micrographs.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_sample_color: Get color and intensity at a pixel
//
// Cell detection:
//   - cells_detect: Count cells and list their centres
//   - cells_overlay: Draw a marker on every detected cell
//   - cells_crop: Enlarge the area around one cell
//   - cells_threshold: Inspect the Otsu binarization
//   - cells_spacing: Nearest-neighbor distance statistics
//   - cells_distance: Distance and angle between two detected cells
//
// The cells_* tools accept optional sigma, radius, element and
// uniform_background arguments that override the server's pipeline configuration for that call.
//
// # Caching
//
// Decoded images are cached by path, and detection results by path and
// pipeline configuration, for the lifetime of the process. Replacing a file
// on disk under the same path is not noticed.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(server.WithConfig(detection.DefaultConfig()))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
