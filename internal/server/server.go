package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ironsheep/image-edit-mcp/internal/config"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/session"
)

// Name is the MCP implementation name.
const Name = "image-edit-mcp"

// Server exposes one edit session as MCP tools.
type Server struct {
	mu       sync.Mutex
	cfg      *config.Config
	logger   *slog.Logger
	session  *session.Session
	frames   *frameStore
	adjuster *session.Adjuster
	composer *session.Composer
	mcp      *mcp.Server
}

// New creates a server with an empty session. A nil cfg uses
// config.Default and a nil logger discards output.
func New(cfg *config.Config, logger *slog.Logger, version string) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	frames := &frameStore{}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		frames: frames,
		session: session.New(
			session.WithLogger(logger.With("component", "session")),
			session.WithRenderer(frames),
			session.WithNoiseSeed(cfg.NoiseSeed),
			session.WithHistoryDepth(cfg.HistoryDepth),
		),
		mcp: mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, nil),
	}
	for _, tool := range GetToolDefinitions() {
		name := tool.Name
		s.mcp.AddTool(tool, func(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return s.callTool(name, req.Params.Arguments), nil
		})
	}
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// Run serves MCP over stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// frameResult is a tool result that carries a displayable frame.
type frameResult struct {
	Data  any
	Frame *raster.Image
	Grid  *gridOptions
}

// frameMeta describes the PNG attached to a result.
type frameMeta struct {
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	SourceWidth  int     `json:"source_width"`
	SourceHeight int     `json:"source_height"`
	Scale        float64 `json:"scale"`
	GridSpacing  int     `json:"grid_spacing,omitempty"`
}

// callTool runs one tool against the session. Tool calls are serialized;
// failures become error results and never end the server.
func (s *Server) callTool(name string, args json.RawMessage) *mcp.CallToolResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("tool call", "tool", name)
	result, err := s.executeTool(name, args)
	if err != nil {
		s.logger.Warn("tool failed", "tool", name, "error", err)
		return errorResult(err)
	}

	fr, ok := result.(*frameResult)
	if !ok {
		return textResult(result)
	}
	frame, err := encodeFrame(fr.Frame, s.cfg.PreviewMaxSize, fr.Grid)
	if err != nil {
		s.logger.Warn("frame encoding failed", "tool", name, "error", err)
		return errorResult(err)
	}
	res := textResult(map[string]any{
		"result": fr.Data,
		"frame": frameMeta{
			Width:        frame.Width,
			Height:       frame.Height,
			SourceWidth:  frame.SourceWidth,
			SourceHeight: frame.SourceHeight,
			Scale:        frame.Scale,
			GridSpacing:  frame.GridSpacing,
		},
	})
	res.Content = append(res.Content, &mcp.ImageContent{Data: frame.PNG, MIMEType: "image/png"})
	return res
}

func errorResult(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}

func textResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("marshal: %w", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}
