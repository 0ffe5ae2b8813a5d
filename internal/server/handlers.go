package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/visual-match/internal/colorspace"
	"github.com/ironsheep/visual-match/internal/detection"
	"github.com/ironsheep/visual-match/internal/imaging"
	"github.com/ironsheep/visual-match/internal/matcher"
	"github.com/ironsheep/visual-match/internal/ocr"
)

// ErrNoActuator is returned when a call asks to act but the server has no
// actuator.
var ErrNoActuator = errors.New("no actuator configured")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "match_template", "find_color").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		log.Warn().Err(err).Str("tool", params.Name).Msg("Tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Matching
	case "match_template":
		return s.handleMatchTemplate(ctx, args)
	case "match_all":
		return s.handleMatchAll(args)
	case "find_color":
		return s.handleFindColor(args)
	case "find_multi_colors":
		return s.handleFindMultiColors(ctx, args)

	// Inspection
	case "sample_color":
		return s.handleSampleColor(args)
	case "compare_colors":
		return s.handleCompareColors(args)
	case "image_info":
		return s.handleImageInfo(args)
	case "ocr_region":
		return s.handleOCRRegion(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	resp := &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
		},
	}
	if data != "" {
		resp.Error.Data = data
	}
	return resp
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// regionArg converts an optional [x, y, w, h] argument.
func regionArg(v []int) (*imaging.Rect, error) {
	if v == nil {
		return nil, nil
	}
	if len(v) != 4 {
		return nil, fmt.Errorf("region must be [x, y, w, h], got %d numbers", len(v))
	}
	r := imaging.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
	if !r.Valid() {
		return nil, fmt.Errorf("region %s has negative size", r)
	}
	return &r, nil
}

func toleranceArg(v *int) int {
	if v == nil {
		return detection.DefaultColorTolerance
	}
	return *v
}

// === Matching Handlers ===

type matchTemplateArgs struct {
	Path     string                 `json:"path"`
	Template map[string]interface{} `json:"template"`
	Act      bool                   `json:"act"`
}

// MatchOutput is the match_template result.
type MatchOutput struct {
	Found  bool           `json:"found"`
	Result string         `json:"result"`
	Rect   *imaging.Rect  `json:"rect,omitempty"`
	Point  *imaging.Point `json:"point,omitempty"`
	Score  *float64       `json:"score,omitempty"`
	Acted  bool           `json:"acted"`
}

func (s *Server) handleMatchTemplate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a matchTemplateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Act && s.actuator == nil {
		return nil, ErrNoActuator
	}
	tmpl, err := matcher.FromDescription(a.Template, matcher.Deps{Cache: s.cache, OCR: s.ocr})
	if err != nil {
		return nil, err
	}
	return s.runTemplate(ctx, a.Path, tmpl, a.Act)
}

// loadFrame decodes the frame at path on every call. Frames are never cached:
// capture loops rewrite the same file.
func loadFrame(path string) (image.Image, error) {
	return imaging.DecodeFile(path)
}

func (s *Server) runTemplate(ctx context.Context, path string, tmpl matcher.Template, act bool) (*MatchOutput, error) {
	frame, err := loadFrame(path)
	if err != nil {
		return nil, err
	}
	res, err := tmpl.Match(ctx, frame)
	if err != nil {
		return nil, err
	}

	out := &MatchOutput{Found: !res.Empty(), Result: res.String()}
	switch m := res.(type) {
	case matcher.RectMatch:
		out.Rect = &m.Rect
		out.Score = &m.Score
	case matcher.PointMatch:
		out.Point = &m.Point
	}
	if act {
		if out.Acted, err = res.Act(ctx, s.actuator, s.press, s.policy); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type matchAllArgs struct {
	Path         string   `json:"path"`
	TemplatePath string   `json:"template_path"`
	Region       []int    `json:"region"`
	Threshold    *float64 `json:"threshold"`
	MaxResults   int      `json:"max_results"`
}

func (s *Server) handleMatchAll(args json.RawMessage) (interface{}, error) {
	var a matchAllArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	region, err := regionArg(a.Region)
	if err != nil {
		return nil, err
	}
	threshold := matcher.DefaultImageThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	frame, err := loadFrame(a.Path)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.cache.Load(a.TemplatePath)
	if err != nil {
		return nil, err
	}
	matches, err := detection.MatchAll(frame, tmpl, region, threshold, a.MaxResults)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"count": len(matches), "matches": matches}, nil
}

type findColorArgs struct {
	Path      string `json:"path"`
	Color     string `json:"color"`
	Region    []int  `json:"region"`
	Tolerance *int   `json:"tolerance"`
	All       bool   `json:"all"`
}

func (s *Server) handleFindColor(args json.RawMessage) (interface{}, error) {
	var a findColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := colorspace.ParseRGB(a.Color)
	if err != nil {
		return nil, err
	}
	region, err := regionArg(a.Region)
	if err != nil {
		return nil, err
	}
	tol := toleranceArg(a.Tolerance)
	if tol < 0 || tol > matcher.MaxColorTolerance {
		return nil, fmt.Errorf("tolerance %d outside [0,%d]", tol, matcher.MaxColorTolerance)
	}
	frame, err := loadFrame(a.Path)
	if err != nil {
		return nil, err
	}

	if a.All {
		points, err := detection.FindAllColor(frame, c, region, tol)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"count": len(points), "points": points}, nil
	}

	p, ok, err := detection.FindColor(frame, c, region, tol)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{"found": ok}
	if ok {
		out["point"] = p
	}
	return out, nil
}

type findMultiColorsArgs struct {
	Path      string        `json:"path"`
	Anchor    string        `json:"anchor"`
	Colors    []interface{} `json:"colors"`
	Region    []int         `json:"region"`
	Tolerance *int          `json:"tolerance"`
}

func (s *Server) handleFindMultiColors(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a findMultiColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	desc := map[string]interface{}{
		"type":      matcher.KindColorChain,
		"anchor":    a.Anchor,
		"colors":    a.Colors,
		"tolerance": toleranceArg(a.Tolerance),
	}
	if a.Region != nil {
		desc["region"] = a.Region
	}
	tmpl, err := matcher.FromDescription(desc, matcher.Deps{})
	if err != nil {
		return nil, err
	}
	return s.runTemplate(ctx, a.Path, tmpl, false)
}

// === Inspection Handlers ===

type sampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := loadFrame(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type compareColorsArgs struct {
	Color1    string  `json:"color1"`
	Color2    string  `json:"color2"`
	Threshold float64 `json:"threshold"`
	Algorithm string  `json:"algorithm"`
}

func (s *Server) handleCompareColors(args json.RawMessage) (interface{}, error) {
	var a compareColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c1, err := colorspace.ParseRGB(a.Color1)
	if err != nil {
		return nil, fmt.Errorf("color1: %w", err)
	}
	c2, err := colorspace.ParseRGB(a.Color2)
	if err != nil {
		return nil, fmt.Errorf("color2: %w", err)
	}
	algo := colorspace.ParseAlgorithm(a.Algorithm)
	d, ok := colorspace.Distance(c1, c2, algo)
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q", a.Algorithm)
	}
	return map[string]interface{}{
		"algorithm": algo,
		"distance":  d,
		"similar":   colorspace.IsSimilar(c1, c2, a.Threshold, algo),
	}, nil
}

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(nil, a.Path)
}

type ocrRegionArgs struct {
	Path     string `json:"path"`
	Region   []int  `json:"region"`
	Provider string `json:"provider"`
}

func (s *Server) handleOCRRegion(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a ocrRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	region, err := regionArg(a.Region)
	if err != nil {
		return nil, err
	}
	r, err := s.ocr.Get(a.Provider)
	if err != nil {
		return nil, err
	}
	img, err := loadFrame(a.Path)
	if err != nil {
		return nil, err
	}
	regions, err := ocr.RecognizeRegion(ctx, r, img, region)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"provider": r.Name(), "regions": regions}, nil
}
