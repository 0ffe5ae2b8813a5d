// Package server exposes the matching engine as an MCP (Model Context
// Protocol) tool server.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line:
//   - Input: JSON-RPC requests on stdin
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr so they never interleave with responses.
//
// Supported methods are initialize, tools/list, tools/call and ping.
//
// # Available Tools
//
// Matching:
//   - match_template: Run a template description against a frame, and
//     optionally press the result
//   - match_all: List every location of a template image above a threshold
//   - find_color: First (or every) pixel of a color
//   - find_multi_colors: Anchor color whose offsets match a color chain
//
// Inspection:
//   - sample_color: Color at a pixel in several color spaces
//   - compare_colors: Distance and similarity verdict for two colors
//   - image_info: Dimensions, format and channel layout
//   - ocr_region: Text recognized in a region
//
// Frames and template images are decoded once per path and cached for the
// server's lifetime.
//
// # Error Handling
//
// Tool failures are JSON-RPC errors with code -32000 and the Go error
// string as data. A template that is not found is a successful call with
// "found": false.
package server
