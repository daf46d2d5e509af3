package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// detectionProps are the pipeline overrides accepted by every recognition tool.
func detectionProps() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProp(),
		"scale": map[string]interface{}{
			"type":        "integer",
			"description": "Block size divisor: 1 scans 4-pixel blocks, 2 scans 2-pixel blocks, 3 or 4 scan single pixels. Default from configuration",
			"minimum":     1,
			"maximum":     4,
		},
		"workers": map[string]interface{}{
			"type":        "integer",
			"description": "Goroutines used to classify blocks. Default from configuration",
			"minimum":     1,
		},
		"downscale": map[string]interface{}{
			"type":        "boolean",
			"description": "Shrink the image by scale before scanning; coordinates are mapped back",
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius applied before scanning. 0 disables",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	annotateProps := detectionProps()
	annotateProps["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional path to write the annotated PNG to instead of returning it inline",
	}
	annotateProps["radius"] = map[string]interface{}{
		"type":        "integer",
		"description": "Marker ring radius in pixels. Default from configuration",
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and whether its size is a multiple of the 4-pixel scan block.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProp(),
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
					"path": pathProp(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG with its average color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProp(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Recognition
		{
			Name:        "checkers_extract_points",
			Description: "Classify fixed-size pixel blocks as blue, red or yellow and report the sample points each side's clustering pass would see.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProp(),
					"scale":   detectionProps()["scale"],
					"workers": detectionProps()["workers"],
					"include_points": map[string]interface{}{
						"type":        "boolean",
						"description": "Return every point, not just the counts",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "checkers_detect_pieces",
			Description: "Locate blue and red checkers pieces in an image. Returns each piece's center (row, col), side, king status and vote counts, plus per-side totals.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProps(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "checkers_annotate",
			Description: "Detect pieces and draw a labelled ring around each one (B, BK, R, RK). Returns the annotated PNG or writes it to output_path.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": annotateProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "checkers_crop_piece",
			Description: "Crop the square around a detected piece center and report its average color. Use this to double-check a detection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProp(),
					"row": map[string]interface{}{
						"type":        "integer",
						"description": "Piece center row (Y)",
					},
					"col": map[string]interface{}{
						"type":        "integer",
						"description": "Piece center column (X)",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Half the side of the crop square in pixels. Default 16",
						"default":     16,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "row", "col"},
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
