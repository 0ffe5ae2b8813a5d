package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/visual-match/internal/imaging"
	"github.com/ironsheep/visual-match/internal/matcher"
	"github.com/ironsheep/visual-match/internal/ocr"
)

// Options wires the server to its collaborators. Zero values select
// defaults.
type Options struct {
	// Cache for template images; nil creates a private one. Frames are
	// decoded on every call.
	Cache *imaging.ImageCache

	// OCR resolves text templates; nil uses ocr.DefaultRegistry.
	OCR *ocr.Registry

	// Actuator receives presses when a match_template call sets "act".
	// Nil disables acting.
	Actuator matcher.Actuator

	// Policy picks press points; nil lets each result use its default.
	Policy matcher.PointGenerator

	// PressDuration is passed to Result.Act.
	PressDuration time.Duration

	// Version is reported in serverInfo.
	Version string

	In  io.Reader
	Out io.Writer
}

// Server handles MCP protocol communication
type Server struct {
	cache    *imaging.ImageCache
	ocr      *ocr.Registry
	actuator matcher.Actuator
	policy   matcher.PointGenerator
	press    time.Duration
	version  string
	in       io.Reader
	out      io.Writer
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

// New creates a new MCP server instance
func New(opts Options) *Server {
	s := &Server{
		cache:    opts.Cache,
		ocr:      opts.OCR,
		actuator: opts.Actuator,
		policy:   opts.Policy,
		press:    opts.PressDuration,
		version:  opts.Version,
		in:       opts.In,
		out:      opts.Out,
	}
	if s.cache == nil {
		s.cache = imaging.NewImageCache()
	}
	if s.ocr == nil {
		s.ocr = ocr.DefaultRegistry
	}
	if s.version == "" {
		s.version = "dev"
	}
	if s.in == nil {
		s.in = os.Stdin
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	return s
}

// Run reads requests until the input ends or ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(s.out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Warn().Err(err).Msg("Failed to parse request")
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				log.Error().Err(err).Msg("Failed to encode response")
			}
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Error().Err(err).Msg("Failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	log.Debug().Str("method", req.Method).Interface("id", req.ID).Msg("Request")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

// handleInitialize responds to the initialize request
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
				"name":    "visual-match",
				"version": s.version,
			},
		},
	}
}
