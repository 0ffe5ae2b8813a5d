package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the frame image",
	}
	regionProperty = map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "integer"},
		"minItems":    4,
		"maxItems":    4,
		"description": "Optional search region [x, y, w, h]. Omit to search the whole frame",
	}
	colorProperty = map[string]interface{}{
		"type":        "string",
		"description": "Color as \"#rrggbb\"",
	}
	toleranceProperty = map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     765,
		"description": "Largest allowed sum of channel differences. Default 4",
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Matching
		{
			Name:        "match_template",
			Description: "Search a frame for a template described as in a script file (type image, color_chain, color or text). Returns the match rectangle or point, or found=false.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"template": map[string]interface{}{
						"type":        "object",
						"description": "Template description, e.g. {\"type\": \"image\", \"path\": \"/abs/button.png\", \"threshold\": 0.9}",
					},
					"act": map[string]interface{}{
						"type":        "boolean",
						"description": "Press the match on the configured actuator. Default false",
						"default":     false,
					},
				},
				"required": []string{"path", "template"},
			},
		},
		{
			Name:        "match_all",
			Description: "List every location where a template image correlates at or above a threshold, at full resolution, in row-major order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"template_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the template image",
					},
					"region": regionProperty,
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Minimum correlation in [0,1]. Default 0.95",
						"default":     0.95,
					},
					"max_results": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of matches. Default 5",
						"default":     5,
					},
				},
				"required": []string{"path", "template_path"},
			},
		},
		{
			Name:        "find_color",
			Description: "Find the first pixel (row-major) within tolerance of a color, or every such pixel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty,
					"color":     colorProperty,
					"region":    regionProperty,
					"tolerance": toleranceProperty,
					"all": map[string]interface{}{
						"type":        "boolean",
						"description": "Return every matching pixel instead of the first",
						"default":     false,
					},
				},
				"required": []string{"path", "color"},
			},
		},
		{
			Name:        "find_multi_colors",
			Description: "Find the first anchor-colored pixel whose offset pixels all match their expected colors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty,
					"anchor": colorProperty,
					"colors": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "array"},
						"description": "Offset checks as [dx, dy, \"#rrggbb\"] triples",
					},
					"region":    regionProperty,
					"tolerance": toleranceProperty,
				},
				"required": []string{"path", "anchor", "colors"},
			},
		},

		// Inspection
		{
			Name:        "sample_color",
			Description: "Get the exact color at a pixel as hex, packed integer, RGB, HSV and LAB.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
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
		{
			Name:        "compare_colors",
			Description: "Measure the distance between two colors and report whether it is below a threshold.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color1": colorProperty,
					"color2": colorProperty,
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Distance below which the colors are similar",
					},
					"algorithm": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"diff", "rgb", "rgb_weighted", "rgb+", "hs", "ciede2000"},
						"description": "Distance measure. Default diff",
						"default":     "diff",
					},
				},
				"required": []string{"color1", "color2", "threshold"},
			},
		},
		{
			Name:        "image_info",
			Description: "Get the width, height, format and channel layout of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ocr_region",
			Description: "Recognize text in a region of a frame. Boxes are in frame coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty,
					"region": regionProperty,
					"provider": map[string]interface{}{
						"type":        "string",
						"description": "OCR provider name. Default: the first registered provider",
					},
				},
				"required": []string{"path"},
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
