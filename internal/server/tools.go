package server

import "github.com/modelcontextprotocol/go-sdk/mcp"

func inputSchema(properties map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func integerProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func numberProp(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

func stringProp(description string, enum ...string) map[string]any {
	p := map[string]any{"type": "string", "description": description}
	if len(enum) > 0 {
		p["enum"] = enum
	}
	return p
}

// adjustParamProps are the parameters shared by adjust_preview and
// adjust_apply. Omitted values keep the last previewed value.
func adjustParamProps() map[string]any {
	return map[string]any{
		"factor":    numberProp("Factor for brightness, contrast, saturation and sharpness. 1.0 is neutral"),
		"red":       numberProp("Red gain for channel_gain. 1.0 is neutral"),
		"green":     numberProp("Green gain for channel_gain. 1.0 is neutral"),
		"blue":      numberProp("Blue gain for channel_gain. 1.0 is neutral"),
		"variant":   stringProp("Variant for blur (gaussian, box, median) or noise (gaussian, salt_pepper, speckle)"),
		"intensity": numberProp("Intensity for blur (radius, 0-10) or noise (0-1)"),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []*mcp.Tool {
	return []*mcp.Tool{
		// Session
		{
			Name:        "image_load",
			Description: "Load an image file into the edit session. Replaces the current image and clears undo/redo history.",
			InputSchema: inputSchema(map[string]any{
				"path": stringProp("Absolute path to the image file"),
			}, "path"),
		},
		{
			Name:        "image_save",
			Description: "Save the current image. The format follows the file extension (png, jpg, gif, tif, bmp).",
			InputSchema: inputSchema(map[string]any{
				"path": stringProp("Absolute path of the output file"),
			}, "path"),
		},
		{
			Name:        "image_info",
			Description: "Get the dimensions, color mode, history depth and open interaction of the session.",
			InputSchema: inputSchema(map[string]any{}),
		},
		{
			Name:        "image_view",
			Description: "Return the last displayed frame (current image or live preview) as PNG, optionally with a coordinate grid. The grid is never part of the edited image.",
			InputSchema: inputSchema(map[string]any{
				"grid_spacing":     integerProp("Grid line spacing in image pixels. 0 disables the grid"),
				"show_coordinates": map[string]any{"type": "boolean", "description": "Label grid intersections with coordinates"},
				"grid_color":       stringProp("Grid color as hex (e.g. #FF0000). Default semi-transparent red"),
			}),
		},
		{
			Name:        "image_undo",
			Description: "Undo the last committed change.",
			InputSchema: inputSchema(map[string]any{}),
		},
		{
			Name:        "image_redo",
			Description: "Re-apply the last undone change.",
			InputSchema: inputSchema(map[string]any{}),
		},
		{
			Name:        "image_history",
			Description: "List the undo and redo stacks, newest first, with the operation each entry belongs to.",
			InputSchema: inputSchema(map[string]any{}),
		},

		// Direct operations
		{
			Name:        "image_rotate",
			Description: "Rotate the current image 90 degrees clockwise.",
			InputSchema: inputSchema(map[string]any{}),
		},
		{
			Name:        "image_flip",
			Description: "Mirror the current image.",
			InputSchema: inputSchema(map[string]any{
				"direction": stringProp("Flip direction", "horizontal", "vertical"),
			}, "direction"),
		},
		{
			Name:        "image_grayscale",
			Description: "Convert the current image to single-channel grayscale.",
			InputSchema: inputSchema(map[string]any{}),
		},
		{
			Name:        "image_crop",
			Description: "Crop the current image to a rectangle or a named region. Coordinates are clamped to the image.",
			InputSchema: inputSchema(map[string]any{
				"x0":     integerProp("Left edge X coordinate (0-based)"),
				"y0":     integerProp("Top edge Y coordinate (0-based)"),
				"x1":     integerProp("Right edge X coordinate (exclusive)"),
				"y1":     integerProp("Bottom edge Y coordinate (exclusive)"),
				"region": stringProp("Named region used instead of coordinates", "top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"),
			}),
		},
		{
			Name:        "image_resize",
			Description: "Resize the current image with Lanczos resampling. With keep_aspect, give only width or height and the other follows the source aspect ratio.",
			InputSchema: inputSchema(map[string]any{
				"width":       integerProp("Target width in pixels"),
				"height":      integerProp("Target height in pixels"),
				"keep_aspect": map[string]any{"type": "boolean", "description": "Derive the missing dimension from the aspect ratio"},
			}),
		},
		{
			Name:        "image_effect",
			Description: "Apply a one-shot effect to the current image.",
			InputSchema: inputSchema(map[string]any{
				"effect":   stringProp("Effect name", "cartoon", "sketch", "edge_detect", "denoise", "vignette"),
				"strength": numberProp("Denoise radius (integer, default 2) or vignette strength in (0,1] (default 0.5)"),
			}, "effect"),
		},

		// Inspection
		{
			Name:        "image_sample_color",
			Description: "Get the exact color at a pixel of the current image in hex, RGBA and HSL.",
			InputSchema: inputSchema(map[string]any{
				"x": integerProp("X coordinate"),
				"y": integerProp("Y coordinate"),
			}, "x", "y"),
		},
		{
			Name:        "image_dominant_colors",
			Description: "Find the most common colors of the current image or a region of it.",
			InputSchema: inputSchema(map[string]any{
				"count":     integerProp("Number of colors to return (default 5)"),
				"region_x0": integerProp("Optional region left edge"),
				"region_y0": integerProp("Optional region top edge"),
				"region_x1": integerProp("Optional region right edge (exclusive)"),
				"region_y1": integerProp("Optional region bottom edge (exclusive)"),
			}),
		},

		// Staged adjustments
		{
			Name:        "adjust_list",
			Description: "List the adjustment kinds with their parameter ranges and defaults.",
			InputSchema: inputSchema(map[string]any{}),
		},
		{
			Name:        "adjust_begin",
			Description: "Open a staged adjustment on the current image. Previews are computed from a fixed baseline until applied or canceled.",
			InputSchema: inputSchema(map[string]any{
				"kind": stringProp("Adjustment kind", "brightness", "contrast", "saturation", "sharpness", "channel_gain", "blur", "noise"),
			}, "kind"),
		},
		{
			Name:        "adjust_preview",
			Description: "Preview the open adjustment with the given parameters. The current image is not changed.",
			InputSchema: inputSchema(adjustParamProps()),
		},
		{
			Name:        "adjust_apply",
			Description: "Commit the open adjustment with the given parameters and close it.",
			InputSchema: inputSchema(adjustParamProps()),
		},
		{
			Name:        "adjust_reset",
			Description: "Restore the baseline and neutral parameters. The adjustment stays open.",
			InputSchema: inputSchema(map[string]any{}),
		},
		{
			Name:        "adjust_cancel",
			Description: "Close the open adjustment without changing the image.",
			InputSchema: inputSchema(map[string]any{}),
		},

		// Filter composition
		{
			Name:        "filter_begin",
			Description: "Open a filter composition over one catalog: enhance (blur, sharpen, edge, emboss) or effects (sepia, invert, emboss, contour).",
			InputSchema: inputSchema(map[string]any{
				"catalog": stringProp("Filter catalog", "enhance", "effects"),
			}, "catalog"),
		},
		{
			Name:        "filter_add",
			Description: "Stack a filter. The whole stack is replayed from the baseline.",
			InputSchema: inputSchema(map[string]any{
				"filter": stringProp("Filter from the open catalog", "blur", "sharpen", "edge", "emboss", "sepia", "invert", "contour"),
			}, "filter"),
		},
		{
			Name:        "filter_clear",
			Description: "Remove every stacked filter and show the baseline.",
			InputSchema: inputSchema(map[string]any{}),
		},
		{
			Name:        "filter_apply",
			Description: "Commit the stacked filters and close the composition. With no filters stacked nothing is committed.",
			InputSchema: inputSchema(map[string]any{}),
		},
		{
			Name:        "filter_reset",
			Description: "Clear the stack and restore the baseline. The composition stays open.",
			InputSchema: inputSchema(map[string]any{}),
		},
		{
			Name:        "filter_cancel",
			Description: "Close the composition without changing the image.",
			InputSchema: inputSchema(map[string]any{}),
		},
	}
}
