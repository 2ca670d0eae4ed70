// Package server exposes an image edit session as MCP (Model Context Protocol)
// tools.
//
// The server speaks MCP over stdio using the official Go SDK. It holds one
// session.Session; tool calls are serialized with a mutex and every failure is
// returned as a tool result with IsError set, so a bad request never ends the
// process.
//
// # Available Tools
//
// Session:
//   - image_load, image_save: Read and write image files
//   - image_info: Dimensions, color mode, history depth, open interaction
//   - image_view: Last displayed frame, optionally with a coordinate grid
//   - image_undo, image_redo, image_history: Navigate the bounded history
//
// Direct operations (each one commits):
//   - image_rotate, image_flip, image_grayscale
//   - image_crop: Rectangle or named region (top-left, center, ...)
//   - image_resize: Explicit size or aspect-locked
//   - image_effect: cartoon, sketch, edge_detect, denoise, vignette
//
// Staged adjustments:
//   - adjust_list: Parameter ranges for every kind
//   - adjust_begin, adjust_preview, adjust_apply, adjust_reset, adjust_cancel
//
// Filter composition:
//   - filter_begin: Open the enhance or effects catalog
//   - filter_add, filter_clear, filter_apply, filter_reset, filter_cancel
//
// Inspection:
//   - image_sample_color, image_dominant_colors
//
// # Frames
//
// The session renders every preview and commit into a frame store. Tools that
// produce a frame attach it as a PNG ImageContent, fitted inside
// preview_max_size. Downscaling and grid overlays exist only in the returned
// frame; the session image is never touched.
//
// # Usage
//
//	srv := server.New(cfg, logger, version)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
