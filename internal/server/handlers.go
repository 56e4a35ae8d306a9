package server

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"

	"github.com/ironsheep/shapescan/internal/detection"
	"github.com/ironsheep/shapescan/internal/imaging"
	"github.com/ironsheep/shapescan/internal/segment"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_detect_shapes").
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
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Printf("Tool %s failed: %v", params.Name, err)
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for optional parameters
//  3. Loads the image from cache
//  4. Calls the segment/detection/imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_segment_regions":
		return s.handleImageSegmentRegions(args)
	case "image_detect_shapes":
		return s.handleImageDetectShapes(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "image_cache_clear":
		return s.handleImageCacheClear(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	if s.debug {
		log.Printf("Loaded %s: %dx%d %s, %s", a.Path, info.Width, info.Height, info.Format, info.FileSize)
	}
	return info, nil
}

type imageSegmentRegionsArgs struct {
	Path         string `json:"path"`
	IncludeImage *bool  `json:"include_image"`
}

// SegmentRegionsResult is the image_segment_regions payload.
type SegmentRegionsResult struct {
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	WaterPixels  int     `json:"water_pixels"`
	LandPixels   int     `json:"land_pixels"`
	TotalPixels  int     `json:"total_pixels"`
	WaterPercent float64 `json:"water_percent"`
	LandPercent  float64 `json:"land_percent"`
	ImageBase64  string  `json:"image_base64,omitempty"`
	MimeType     string  `json:"mime_type,omitempty"`
}

func (s *Server) handleImageSegmentRegions(args json.RawMessage) (interface{}, error) {
	var a imageSegmentRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := segment.Segment(img, s.cfg.Segment)
	if err != nil {
		return nil, err
	}

	out := &SegmentRegionsResult{
		Width:        res.Image.Bounds().Dx(),
		Height:       res.Image.Bounds().Dy(),
		WaterPixels:  res.WaterPixels,
		LandPixels:   res.LandPixels,
		TotalPixels:  res.TotalPixels,
		WaterPercent: res.WaterPercent(),
		LandPercent:  res.LandPercent(),
	}
	if a.IncludeImage == nil || *a.IncludeImage {
		encoded, err := imaging.EncodePNGBase64(res.Image)
		if err != nil {
			return nil, err
		}
		out.ImageBase64 = encoded
		out.MimeType = "image/png"
	}
	if s.debug {
		log.Printf("Segmented %s: %s pixels, water %.1f%%, land %.1f%%",
			a.Path, humanize.Comma(int64(res.TotalPixels)), out.WaterPercent, out.LandPercent)
	}
	return out, nil
}

type imageDetectShapesArgs struct {
	Path         string   `json:"path"`
	IncludeImage bool     `json:"include_image"`
	MinArea      *float64 `json:"min_area"`
	MaxArea      *float64 `json:"max_area"`
}

// DetectShapesResult is the image_detect_shapes payload.
type DetectShapesResult struct {
	*detection.ShapesResult
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
}

func (s *Server) handleImageDetectShapes(args json.RawMessage) (interface{}, error) {
	var a imageDetectShapesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg := s.cfg.Shapes
	if a.MinArea != nil {
		cfg.MinArea = *a.MinArea
	}
	if a.MaxArea != nil {
		cfg.MaxArea = *a.MaxArea
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := detection.DetectShapes(img, cfg)
	if err != nil {
		return nil, err
	}

	out := &DetectShapesResult{ShapesResult: res}
	if a.IncludeImage {
		encoded, err := imaging.EncodePNGBase64(detection.Annotate(img, res.Shapes))
		if err != nil {
			return nil, err
		}
		out.ImageBase64 = encoded
		out.MimeType = "image/png"
	}
	if s.debug {
		log.Printf("Detected %d shapes in %s", res.Count, a.Path)
	}
	return out, nil
}

type imageEdgeDetectArgs struct {
	Path          string   `json:"path"`
	BlurKernel    int      `json:"blur_kernel"`
	ThresholdLow  *float64 `json:"threshold_low"`
	ThresholdHigh *float64 `json:"threshold_high"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg := s.cfg.Shapes
	if a.BlurKernel != 0 {
		cfg.BlurKernel = a.BlurKernel
	}
	if a.ThresholdLow != nil {
		cfg.CannyLow = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		cfg.CannyHigh = *a.ThresholdHigh
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, cfg.BlurKernel, cfg.CannyLow, cfg.CannyHigh)
}

type imageCacheClearArgs struct {
	Path string `json:"path"`
}

// CacheClearResult is the image_cache_clear payload.
type CacheClearResult struct {
	Evicted int `json:"evicted"`
	Cached  int `json:"cached"`
}

func (s *Server) handleImageCacheClear(args json.RawMessage) (interface{}, error) {
	var a imageCacheClearArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}

	before := s.cache.Len()
	if a.Path != "" {
		s.cache.Evict(a.Path)
	} else {
		s.cache.Clear()
	}
	after := s.cache.Len()

	if s.debug {
		log.Printf("Cache: evicted %d, %d left", before-after, after)
	}
	return &CacheClearResult{Evicted: before - after, Cached: after}, nil
}
