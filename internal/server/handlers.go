package server

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/checkers-vision/internal/imaging"
	"github.com/ironsheep/checkers-vision/internal/recognition"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "checkers_detect_pieces").
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
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
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
//  2. Applies configured defaults for omitted parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/recognition function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_crop":
		return s.handleImageCrop(args)

	// Recognition
	case "checkers_extract_points":
		return s.handleExtractPoints(ctx, args)
	case "checkers_detect_pieces":
		return s.handleDetectPieces(ctx, args)
	case "checkers_annotate":
		return s.handleAnnotate(ctx, args)
	case "checkers_crop_piece":
		return s.handleCropPiece(args)

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

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

// === Recognition Handlers ===

// detectArgs are shared by every tool that runs the recognition pipeline.
// Zero values fall back to the server configuration.
type detectArgs struct {
	Path       string   `json:"path"`
	Scale      int      `json:"scale"`
	Workers    int      `json:"workers"`
	Downscale  *bool    `json:"downscale"`
	BlurRadius *float64 `json:"blur_radius"`
}

func (a *detectArgs) options(base recognition.Options) recognition.Options {
	if a.Scale != 0 {
		base.Scale = a.Scale
	}
	if a.Workers > 0 {
		base.Workers = a.Workers
	}
	if a.Downscale != nil {
		base.Downscale = *a.Downscale
	}
	if a.BlurRadius != nil {
		base.BlurRadius = *a.BlurRadius
	}
	return base
}

func (s *Server) detect(ctx context.Context, a *detectArgs) (*recognition.Detection, error) {
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	det := recognition.NewDetector(a.options(s.cfg.Options()), s.logger.With(zap.String("path", a.Path)))
	return det.DetectImage(ctx, img)
}

type extractPointsArgs struct {
	Path          string `json:"path"`
	Scale         int    `json:"scale"`
	Workers       int    `json:"workers"`
	IncludePoints bool   `json:"include_points"`
}

// ExtractPointsResult reports the sample points found in an image.
type ExtractPointsResult struct {
	BlockSize  int                       `json:"block_size"`
	BlueCount  int                       `json:"blue_count"`
	RedCount   int                       `json:"red_count"`
	BluePoints []recognition.SamplePoint `json:"blue_points,omitempty"`
	RedPoints  []recognition.SamplePoint `json:"red_points,omitempty"`
}

func (s *Server) handleExtractPoints(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a extractPointsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := s.cfg.Options()
	if a.Scale != 0 {
		opts.Scale = a.Scale
	}
	if a.Workers > 0 {
		opts.Workers = a.Workers
	}

	size, err := recognition.BlockSize(opts.Params.BaseBlockSize, opts.Scale)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	r, err := imaging.FromImage(img)
	if err != nil {
		return nil, err
	}

	ex := &recognition.Extractor{Params: opts.Params, Workers: opts.Workers, Logger: s.logger}
	blue, red, err := ex.Extract(ctx, r, opts.Scale)
	if err != nil {
		return nil, err
	}

	result := &ExtractPointsResult{
		BlockSize: size,
		BlueCount: len(blue),
		RedCount:  len(red),
	}
	if a.IncludePoints {
		result.BluePoints = blue
		result.RedPoints = red
	}
	return result, nil
}

func (s *Server) handleDetectPieces(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a detectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.detect(ctx, &a)
}

type annotateArgs struct {
	detectArgs
	OutputPath string `json:"output_path"`
	Radius     int    `json:"radius"`
}

// AnnotateResult pairs an annotated image with the detection it shows.
// When OutputPath is set the image is written there and not inlined.
type AnnotateResult struct {
	*imaging.AnnotateResult
	OutputPath string              `json:"output_path,omitempty"`
	Summary    recognition.Summary `json:"summary"`
	RunID      string              `json:"run_id"`
}

func (s *Server) handleAnnotate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a annotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius <= 0 {
		a.Radius = s.cfg.Annotate.Radius
	}

	det, err := s.detect(ctx, &a.detectArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	markers := det.Markers(s.cfg.Annotate.BlueColor, s.cfg.Annotate.RedColor)
	opts := imaging.AnnotateOptions{Radius: a.Radius, LabelColor: s.cfg.Annotate.LabelColor}

	result := &AnnotateResult{Summary: det.Summary, RunID: det.RunID}
	if a.OutputPath != "" {
		out, err := imaging.DrawMarkers(img, markers, opts)
		if err != nil {
			return nil, err
		}
		if err := imaging.SavePNG(a.OutputPath, out); err != nil {
			return nil, err
		}
		result.AnnotateResult = &imaging.AnnotateResult{
			Width:    out.Bounds().Dx(),
			Height:   out.Bounds().Dy(),
			MimeType: "image/png",
			Markers:  len(markers),
		}
		result.OutputPath = a.OutputPath
		return result, nil
	}

	encoded, err := imaging.Annotate(img, markers, opts)
	if err != nil {
		return nil, err
	}
	result.AnnotateResult = encoded
	return result, nil
}

type cropPieceArgs struct {
	Path   string  `json:"path"`
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	Radius int     `json:"radius"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleCropPiece(args json.RawMessage) (interface{}, error) {
	var a cropPieceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius == 0 {
		a.Radius = 16
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropPiece(img, a.Row, a.Col, a.Radius, a.Scale)
}
