// Package server implements the MCP (Model Context Protocol) server for the
// segmentation and shape detection pipelines.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata
//   - image_segment_regions: Water/land HSV segmentation with pixel counts
//   - image_detect_shapes: Shape classification with centroids and areas
//   - image_edge_detect: Blur plus Canny edge map
//   - image_cache_clear: Evict one cached image or clear the cache
//
// Optional arguments fall back to the server's configuration, so a config
// file or SHAPESCAN_* environment variables change tool defaults too.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process unless
// image_cache_clear empties it, e.g. after the file changed on disk.
package server
