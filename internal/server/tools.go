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
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size. The image stays cached for subsequent calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "image_segment_regions",
			Description: "Classify every pixel as water or land by HSV range and return the pixel counts. " +
				"Optionally returns the recolored image (water blue, land yellow, everything else black) as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the recolored image as base64 PNG (default true)",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "image_detect_shapes",
			Description: "Detect closed shapes and classify them as Triangle, Square, Rectangle, Star, Circle or Unknown. " +
				"Returns each shape's label, centroid, area and bounding box in discovery order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the annotated image (contours, centroids, labels) as base64 PNG (default false)",
						"default":     false,
					},
					"min_area": map[string]interface{}{
						"type":        "number",
						"description": "Smallest contour area kept, inclusive (default from configuration, 500)",
					},
					"max_area": map[string]interface{}{
						"type":        "number",
						"description": "Largest contour area kept, inclusive (default from configuration, 10000)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Run grayscale conversion, Gaussian blur and Canny edge detection and return the edge map as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"blur_kernel": map[string]interface{}{
						"type":        "integer",
						"description": "Odd Gaussian kernel size (default 7)",
						"default":     7,
					},
					"threshold_low": map[string]interface{}{
						"type":        "number",
						"description": "Low threshold for Canny edge detection (default 50)",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "number",
						"description": "High threshold for Canny edge detection (default 150)",
						"default":     150,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "image_cache_clear",
			Description: "Drop cached images so the next call re-reads them from disk. " +
				"With a path only that image is evicted; without one the whole cache is cleared.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Image to evict (default: all images)",
					},
				},
				"required": []string{},
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
