// Package server implements the MCP (Model Context Protocol) server for
// checkers piece recognition.
//
// The server speaks JSON-RPC 2.0 over stdio so that MCP clients can locate
// pieces in board images, inspect the intermediate sample points and render
// annotated images.
//
// # Protocol
//
// One request per line on the input, one response per line on the output.
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
//   - image_crop: Extract a rectangular region
//
// Recognition:
//   - checkers_extract_points: Classified sample points per side
//   - checkers_detect_pieces: Piece centers, sides and kings
//   - checkers_annotate: Detection drawn onto the image
//   - checkers_crop_piece: Close-up of one piece with its average color
//
// Recognition tools start from the loaded configuration and accept per-call
// overrides for scale, workers, downscale and blur_radius.
//
// # Image Caching
//
// Images are cached by path for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000 and the Go error string in data. Unparseable lines get a
// -32700 response with a null id.
package server
