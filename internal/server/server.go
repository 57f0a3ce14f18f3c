package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/ironsheep/cell-tools-mcp/internal/detection"
	"github.com/ironsheep/cell-tools-mcp/internal/imaging"
)

// Name and Version are reported to clients in the initialize response.
var (
	Name    = "cell-tools-mcp"
	Version = "dev"
)

// Server handles MCP protocol communication
type Server struct {
	cache *imaging.ImageCache
	cfg   detection.Config
	debug *log.Logger

	mu      sync.Mutex
	results map[resultKey]*detection.Result
}

// resultKey identifies a memoised detection run.
type resultKey struct {
	path    string
	sigma   float64
	radius  int
	element detection.StructuringElement
	uniform bool
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the pipeline configuration used when a tool call does not
// override it.
func WithConfig(cfg detection.Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithDebugLogger routes per-pass pipeline logging to l.
func WithDebugLogger(l *log.Logger) Option {
	return func(s *Server) { s.debug = l }
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC error codes used by the server.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// New creates a server with an empty image cache and the default pipeline
// configuration.
func New(opts ...Option) *Server {
	s := &Server{
		cache:   imaging.NewImageCache(),
		cfg:     detection.DefaultConfig(),
		results: make(map[resultKey]*detection.Result),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves requests from stdin and writes responses to stdout until stdin
// is closed.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC requests from r and writes one
// response line per request to w. Notifications get no response and lines
// that fail to parse are logged and skipped.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, codeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    Name,
				"version": Version,
			},
		},
	}
}

// errorResponse creates a JSON-RPC error response. An empty data string is
// omitted from the payload.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}
