package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testImpl = &mcp.Implementation{Name: "image-edit-test", Version: "0.1.0"}

// createTestImageFile writes a width x height PNG with a horizontal gradient
// and returns its path.
func createTestImageFile(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / width), uint8(y * 255 / height), 80, 255})
		}
	}

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	srv := New(nil, nil, "test")

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.MCP().Run(ctx, serverT) }()

	client := mcp.NewClient(testImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return result
}

// callJSON calls a tool that must succeed and decodes its text content into v.
func callJSON(t *testing.T, session *mcp.ClientSession, name string, args map[string]any, v any) *mcp.CallToolResult {
	t.Helper()
	result := callTool(t, session, name, args)
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %s", name, textOf(t, result))
	}
	if v != nil {
		if err := json.Unmarshal([]byte(textOf(t, result)), v); err != nil {
			t.Fatalf("CallTool(%s): unmarshal: %v", name, err)
		}
	}
	return result
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty result content")
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func imageOf(t *testing.T, result *mcp.CallToolResult) *mcp.ImageContent {
	t.Helper()
	for _, c := range result.Content {
		if ic, ok := c.(*mcp.ImageContent); ok {
			return ic
		}
	}
	t.Fatal("result has no ImageContent")
	return nil
}

type infoResp struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Mode        string `json:"mode"`
	UndoDepth   int    `json:"undo_depth"`
	RedoDepth   int    `json:"redo_depth"`
	Interaction string `json:"interaction"`
}

func TestNew(t *testing.T) {
	s := New(nil, nil, "dev")
	if s == nil || s.MCP() == nil || s.session == nil || s.frames == nil {
		t.Fatal("New() returned an incomplete server")
	}
	if s.cfg.PreviewMaxSize != 1024 {
		t.Errorf("default preview size = %d", s.cfg.PreviewMaxSize)
	}
}

func TestMCP_ListTools(t *testing.T) {
	session := mcpSession(t)
	res, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Tools) != len(GetToolDefinitions()) {
		t.Errorf("listed %d tools, want %d", len(res.Tools), len(GetToolDefinitions()))
	}
}

func TestMCP_EditRoundTrip(t *testing.T) {
	session := mcpSession(t)
	path := createTestImageFile(t, 60, 40)

	var info infoResp
	callJSON(t, session, "image_load", map[string]any{"path": path}, &info)
	if info.Width != 60 || info.Height != 40 || info.Mode != "rgb" {
		t.Fatalf("load info = %+v", info)
	}

	callJSON(t, session, "image_rotate", nil, &info)
	if info.Width != 40 || info.Height != 60 || info.UndoDepth != 1 {
		t.Errorf("after rotate = %+v", info)
	}

	var moved struct {
		Operation string   `json:"operation"`
		Info      infoResp `json:"info"`
	}
	callJSON(t, session, "image_undo", nil, &moved)
	if moved.Operation != "rotate" || moved.Info.Width != 60 || moved.Info.RedoDepth != 1 {
		t.Errorf("undo = %+v", moved)
	}

	callJSON(t, session, "image_redo", nil, &moved)
	if moved.Info.Width != 40 {
		t.Errorf("redo = %+v", moved)
	}

	out := filepath.Join(t.TempDir(), "out.png")
	var file struct {
		Width  int    `json:"width"`
		Format string `json:"format"`
	}
	callJSON(t, session, "image_save", map[string]any{"path": out}, &file)
	if file.Width != 40 || file.Format != "png" {
		t.Errorf("saved file = %+v", file)
	}
}

func TestMCP_AdjustFlow(t *testing.T) {
	session := mcpSession(t)
	callJSON(t, session, "image_load", map[string]any{"path": createTestImageFile(t, 30, 30)}, nil)

	callJSON(t, session, "adjust_begin", map[string]any{"kind": "brightness"}, nil)

	res := callJSON(t, session, "adjust_preview", map[string]any{"factor": 0.5}, nil)
	img := imageOf(t, res)
	if img.MIMEType != "image/png" || len(img.Data) == 0 {
		t.Errorf("preview image = %q, %d bytes", img.MIMEType, len(img.Data))
	}

	var info infoResp
	callJSON(t, session, "image_info", nil, &info)
	if info.UndoDepth != 0 || info.Interaction != "adjust:brightness" {
		t.Errorf("preview changed history or closed the adjustment: %+v", info)
	}

	// A second interaction is rejected while the adjustment is open.
	if res := callTool(t, session, "filter_begin", map[string]any{"catalog": "enhance"}); !res.IsError {
		t.Error("filter_begin succeeded during an adjustment")
	}

	callJSON(t, session, "adjust_apply", nil, nil)
	info = infoResp{}
	callJSON(t, session, "image_info", nil, &info)
	if info.UndoDepth != 1 || info.Interaction != "" {
		t.Errorf("after apply = %+v", info)
	}

	var hist struct {
		Undo []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		} `json:"undo"`
		MaxDepth int `json:"max_depth"`
	}
	callJSON(t, session, "image_history", nil, &hist)
	if len(hist.Undo) != 1 || hist.Undo[0].Label != "brightness" || hist.Undo[0].ID == "" || hist.MaxDepth != 10 {
		t.Errorf("history = %+v", hist)
	}
}

func TestMCP_FilterFlow(t *testing.T) {
	session := mcpSession(t)
	callJSON(t, session, "image_load", map[string]any{"path": createTestImageFile(t, 20, 20)}, nil)

	callJSON(t, session, "filter_begin", map[string]any{"catalog": "effects"}, nil)
	if res := callTool(t, session, "filter_add", map[string]any{"filter": "sharpen"}); !res.IsError {
		t.Error("filter outside the catalog was accepted")
	}

	var state struct {
		Applied []string `json:"applied"`
	}
	res := callTool(t, session, "filter_add", map[string]any{"filter": "sepia"})
	if res.IsError {
		t.Fatalf("filter_add: %s", textOf(t, res))
	}
	imageOf(t, res)
	var wrapped struct {
		Result struct {
			Applied []string `json:"applied"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(textOf(t, res)), &wrapped); err != nil {
		t.Fatal(err)
	}
	if len(wrapped.Result.Applied) != 1 || wrapped.Result.Applied[0] != "sepia" {
		t.Errorf("applied = %v", wrapped.Result.Applied)
	}

	callJSON(t, session, "filter_clear", nil, &state)
	if len(state.Applied) != 0 {
		t.Errorf("after clear applied = %v", state.Applied)
	}

	var applied struct {
		Committed bool `json:"committed"`
	}
	callJSON(t, session, "filter_apply", nil, &applied)
	if applied.Committed {
		t.Error("empty composition committed")
	}

	var info infoResp
	callJSON(t, session, "image_info", nil, &info)
	if info.UndoDepth != 0 {
		t.Errorf("undo depth = %d, want 0", info.UndoDepth)
	}
}

func TestMCP_Errors(t *testing.T) {
	session := mcpSession(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"no image info", "image_info", nil},
		{"no image rotate", "image_rotate", nil},
		{"no image view", "image_view", nil},
		{"empty undo", "image_undo", nil},
		{"missing file", "image_load", map[string]any{"path": "/nonexistent/x.png"}},
		{"preview without begin", "adjust_preview", map[string]any{"factor": 1.2}},
		{"unknown kind", "adjust_begin", map[string]any{"kind": "gamma"}},
		{"unknown catalog", "filter_begin", map[string]any{"catalog": "artistic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, session, tt.tool, tt.args)
			if !res.IsError {
				t.Errorf("%s succeeded, want a tool error", tt.tool)
			}
		})
	}
}
