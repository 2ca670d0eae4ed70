package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/history"
	"github.com/ironsheep/image-edit-mcp/internal/ops"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/session"
)

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Calls the session or its open interaction
//  4. Returns the result, or a *frameResult when a frame should be shown
func (s *Server) executeTool(name string, args json.RawMessage) (any, error) {
	switch name {
	// Session
	case "image_load":
		return s.handleImageLoad(args)
	case "image_save":
		return s.handleImageSave(args)
	case "image_info":
		return s.session.Info()
	case "image_view":
		return s.handleImageView(args)
	case "image_undo":
		return s.handleImageUndo()
	case "image_redo":
		return s.handleImageRedo()
	case "image_history":
		return s.handleImageHistory()

	// Direct operations
	case "image_rotate":
		return s.applyDirect("rotate", ops.Rotate)
	case "image_flip":
		return s.handleImageFlip(args)
	case "image_grayscale":
		return s.applyDirect("grayscale", ops.Grayscale)
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_resize":
		return s.handleImageResize(args)
	case "image_effect":
		return s.handleImageEffect(args)

	// Inspection
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)

	// Staged adjustments
	case "adjust_list":
		return map[string]any{"adjustments": ops.Descriptors()}, nil
	case "adjust_begin":
		return s.handleAdjustBegin(args)
	case "adjust_preview":
		return s.handleAdjustPreview(args)
	case "adjust_apply":
		return s.handleAdjustApply(args)
	case "adjust_reset":
		return s.handleAdjustReset()
	case "adjust_cancel":
		return s.handleAdjustCancel()

	// Filter composition
	case "filter_begin":
		return s.handleFilterBegin(args)
	case "filter_add":
		return s.handleFilterAdd(args)
	case "filter_clear":
		return s.handleFilterClear()
	case "filter_apply":
		return s.handleFilterApply()
	case "filter_reset":
		return s.handleFilterReset()
	case "filter_cancel":
		return s.handleFilterCancel()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// decodeArgs unmarshals tool arguments. Missing arguments leave v unchanged.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Session Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

type loadResult struct {
	session.Info
	File *raster.FileInfo `json:"file,omitempty"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (any, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if err := s.session.LoadFile(a.Path); err != nil {
		return nil, err
	}
	s.adjuster, s.composer = nil, nil

	info, err := s.session.Info()
	if err != nil {
		return nil, err
	}
	file, err := raster.Stat(a.Path)
	if err != nil {
		// The image is loaded; only the file details are missing.
		s.logger.Debug("stat loaded file", "path", a.Path, "error", err)
	}
	return loadResult{Info: info, File: file}, nil
}

func (s *Server) handleImageSave(args json.RawMessage) (any, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if !raster.SupportedExtension(a.Path) {
		return nil, fmt.Errorf("unsupported output format: %s", a.Path)
	}
	if err := s.session.Save(a.Path, s.cfg.EncodeOptions()); err != nil {
		return nil, err
	}
	return raster.Stat(a.Path)
}

type imageViewArgs struct {
	GridSpacing     int    `json:"grid_spacing"`
	ShowCoordinates bool   `json:"show_coordinates"`
	GridColor       string `json:"grid_color"`
}

func (s *Server) handleImageView(args json.RawMessage) (any, error) {
	var a imageViewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.GridSpacing < 0 {
		return nil, fmt.Errorf("grid_spacing must not be negative, got %d", a.GridSpacing)
	}
	frame, event := s.frames.last()
	if frame == nil {
		return nil, session.ErrNoImage
	}
	return &frameResult{
		Data:  map[string]any{"event": event, "interaction": s.session.Interaction()},
		Frame: frame,
		Grid:  &gridOptions{Spacing: a.GridSpacing, ShowCoordinates: a.ShowCoordinates, Color: a.GridColor},
	}, nil
}

type historyMoveResult struct {
	Operation string       `json:"operation"`
	Info      session.Info `json:"info"`
}

func (s *Server) handleImageUndo() (any, error) {
	e, err := s.session.Undo()
	if err != nil {
		return nil, err
	}
	info, _ := s.session.Info()
	return historyMoveResult{Operation: e.Label, Info: info}, nil
}

func (s *Server) handleImageRedo() (any, error) {
	e, err := s.session.Redo()
	if err != nil {
		return nil, err
	}
	info, _ := s.session.Info()
	return historyMoveResult{Operation: e.Label, Info: info}, nil
}

type historyResult struct {
	Undo     []history.Entry `json:"undo"`
	Redo     []history.Entry `json:"redo"`
	MaxDepth int             `json:"max_depth"`
}

func (s *Server) handleImageHistory() (any, error) {
	info, err := s.session.Info()
	if err != nil {
		return nil, err
	}
	return historyResult{
		Undo:     s.session.UndoEntries(),
		Redo:     s.session.RedoEntries(),
		MaxDepth: info.MaxDepth,
	}, nil
}

// === Direct Operation Handlers ===

func (s *Server) applyDirect(label string, op ops.Operator) (any, error) {
	if err := s.session.ApplyDirect(label, op); err != nil {
		return nil, err
	}
	return s.session.Info()
}

type imageFlipArgs struct {
	Direction string `json:"direction"`
}

func (s *Server) handleImageFlip(args json.RawMessage) (any, error) {
	var a imageFlipArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	switch a.Direction {
	case "horizontal":
		return s.applyDirect("flip horizontal", ops.FlipHorizontal)
	case "vertical":
		return s.applyDirect("flip vertical", ops.FlipVertical)
	}
	return nil, fmt.Errorf("direction must be horizontal or vertical, got %q", a.Direction)
}

type imageCropArgs struct {
	X0     *int   `json:"x0"`
	Y0     *int   `json:"y0"`
	X1     *int   `json:"x1"`
	Y1     *int   `json:"y1"`
	Region string `json:"region"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (any, error) {
	var a imageCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Region != "" {
		return s.applyDirect("crop "+a.Region, func(src *raster.Image) (*raster.Image, error) {
			return ops.CropRegion(src, a.Region)
		})
	}
	if a.X0 == nil || a.Y0 == nil || a.X1 == nil || a.Y1 == nil {
		return nil, errors.New("x0, y0, x1 and y1 are required unless region is given")
	}
	return s.applyDirect("crop", func(src *raster.Image) (*raster.Image, error) {
		return ops.Crop(src, *a.X0, *a.Y0, *a.X1, *a.Y1)
	})
}

type imageResizeArgs struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	KeepAspect bool `json:"keep_aspect"`
}

func (s *Server) handleImageResize(args json.RawMessage) (any, error) {
	var a imageResizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.applyDirect("resize", func(src *raster.Image) (*raster.Image, error) {
		if !a.KeepAspect {
			return ops.Resize(src, a.Width, a.Height)
		}
		form := ops.NewResizeForm(src)
		switch {
		case a.Width > 0:
			form.SetWidth(a.Width)
		case a.Height > 0:
			form.SetHeight(a.Height)
		default:
			return nil, fmt.Errorf("%w: width or height is required", ops.ErrInvalidDimensions)
		}
		return form.Apply(src)
	})
}

type imageEffectArgs struct {
	Effect   string   `json:"effect"`
	Strength *float64 `json:"strength"`
}

func (s *Server) handleImageEffect(args json.RawMessage) (any, error) {
	var a imageEffectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	op, err := ops.LookupEffect(a.Effect)
	if err != nil {
		return nil, err
	}
	if a.Strength != nil {
		strength := *a.Strength
		switch a.Effect {
		case "denoise":
			if math.IsNaN(strength) || strength < 1 || strength > ops.MaxDenoiseStrength {
				return nil, fmt.Errorf("%w: denoise strength %v must be in [1,%d]",
					ops.ErrInvalidParameter, strength, ops.MaxDenoiseStrength)
			}
			op = func(src *raster.Image) (*raster.Image, error) {
				return ops.Denoise(src, int(math.Round(strength)))
			}
		case "vignette":
			op = func(src *raster.Image) (*raster.Image, error) {
				return ops.Vignette(src, strength)
			}
		}
	}
	return s.applyDirect(a.Effect, op)
}

// === Inspection Handlers ===

type imageSampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (any, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img := s.session.Current()
	if img == nil {
		return nil, session.ErrNoImage
	}
	return ops.SampleColor(img, a.X, a.Y)
}

type imageDominantColorsArgs struct {
	Count    int  `json:"count"`
	RegionX0 *int `json:"region_x0"`
	RegionY0 *int `json:"region_y0"`
	RegionX1 *int `json:"region_x1"`
	RegionY1 *int `json:"region_y1"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (any, error) {
	var a imageDominantColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img := s.session.Current()
	if img == nil {
		return nil, session.ErrNoImage
	}

	var region *image.Rectangle
	if a.RegionX0 != nil && a.RegionY0 != nil && a.RegionX1 != nil && a.RegionY1 != nil {
		r := image.Rect(*a.RegionX0, *a.RegionY0, *a.RegionX1, *a.RegionY1)
		region = &r
	}
	colors, err := ops.DominantColors(img, a.Count, region)
	if err != nil {
		return nil, err
	}
	return map[string]any{"colors": colors}, nil
}

// === Staged Adjustment Handlers ===

type adjustBeginArgs struct {
	Kind string `json:"kind"`
}

type adjustState struct {
	Kind   ops.Kind   `json:"kind"`
	Params ops.Params `json:"params"`
}

func (s *Server) handleAdjustBegin(args json.RawMessage) (any, error) {
	var a adjustBeginArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	kind, err := ops.ParseKind(a.Kind)
	if err != nil {
		return nil, err
	}
	adj, err := s.session.NewAdjuster(kind)
	if err != nil {
		return nil, err
	}
	if err := adj.Begin(); err != nil {
		return nil, err
	}
	s.adjuster = adj
	desc, _ := ops.Describe(kind)
	return map[string]any{"kind": kind, "params": adj.Params(), "descriptor": desc}, nil
}

// adjustParamsArgs carries optional parameter overrides.
type adjustParamsArgs struct {
	Factor    *float64 `json:"factor"`
	Red       *float64 `json:"red"`
	Green     *float64 `json:"green"`
	Blue      *float64 `json:"blue"`
	Variant   *string  `json:"variant"`
	Intensity *float64 `json:"intensity"`
}

func (a adjustParamsArgs) merge(p ops.Params) ops.Params {
	if a.Factor != nil {
		p.Factor = *a.Factor
	}
	if a.Red != nil {
		p.Red = *a.Red
	}
	if a.Green != nil {
		p.Green = *a.Green
	}
	if a.Blue != nil {
		p.Blue = *a.Blue
	}
	if a.Variant != nil {
		p.Variant = *a.Variant
	}
	if a.Intensity != nil {
		p.Intensity = *a.Intensity
	}
	return p
}

func (s *Server) openAdjuster() (*session.Adjuster, error) {
	if s.adjuster == nil || !s.adjuster.Staging() {
		s.adjuster = nil
		return nil, fmt.Errorf("%w: no adjustment is open", session.ErrNotStaging)
	}
	return s.adjuster, nil
}

func (s *Server) handleAdjustPreview(args json.RawMessage) (any, error) {
	var a adjustParamsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	adj, err := s.openAdjuster()
	if err != nil {
		return nil, err
	}
	out, err := adj.Preview(a.merge(adj.Params()))
	if err != nil {
		return nil, err
	}
	return &frameResult{Data: adjustState{Kind: adj.Kind(), Params: adj.Params()}, Frame: out}, nil
}

func (s *Server) handleAdjustApply(args json.RawMessage) (any, error) {
	var a adjustParamsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	adj, err := s.openAdjuster()
	if err != nil {
		return nil, err
	}
	p := a.merge(adj.Params())
	out, err := adj.Apply(p)
	if err != nil {
		return nil, err
	}
	s.adjuster = nil
	info, _ := s.session.Info()
	return &frameResult{
		Data:  map[string]any{"applied": adjustState{Kind: adj.Kind(), Params: p}, "info": info},
		Frame: out,
	}, nil
}

func (s *Server) handleAdjustReset() (any, error) {
	adj, err := s.openAdjuster()
	if err != nil {
		return nil, err
	}
	if err := adj.Reset(); err != nil {
		return nil, err
	}
	return adjustState{Kind: adj.Kind(), Params: adj.Params()}, nil
}

func (s *Server) handleAdjustCancel() (any, error) {
	adj, err := s.openAdjuster()
	if err != nil {
		return nil, err
	}
	if err := adj.Cancel(); err != nil {
		return nil, err
	}
	s.adjuster = nil
	return s.session.Info()
}

// === Filter Composition Handlers ===

type filterBeginArgs struct {
	Catalog string `json:"catalog"`
}

type filterState struct {
	Catalog string         `json:"catalog"`
	Filters []ops.FilterID `json:"available"`
	Applied []ops.FilterID `json:"applied"`
}

func composerState(c *session.Composer) filterState {
	return filterState{Catalog: c.Catalog().Name, Filters: c.Catalog().Filters, Applied: c.Applied()}
}

func (s *Server) handleFilterBegin(args json.RawMessage) (any, error) {
	var a filterBeginArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := s.session.NewComposer(a.Catalog)
	if err != nil {
		return nil, err
	}
	if err := c.Begin(); err != nil {
		return nil, err
	}
	s.composer = c
	return composerState(c), nil
}

func (s *Server) openComposer() (*session.Composer, error) {
	if s.composer == nil || !s.composer.Staging() {
		s.composer = nil
		return nil, fmt.Errorf("%w: no filter composition is open", session.ErrNotStaging)
	}
	return s.composer, nil
}

type filterAddArgs struct {
	Filter string `json:"filter"`
}

func (s *Server) handleFilterAdd(args json.RawMessage) (any, error) {
	var a filterAddArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := s.openComposer()
	if err != nil {
		return nil, err
	}
	out, err := c.Add(ops.FilterID(a.Filter))
	if err != nil {
		return nil, err
	}
	return &frameResult{Data: composerState(c), Frame: out}, nil
}

func (s *Server) handleFilterClear() (any, error) {
	c, err := s.openComposer()
	if err != nil {
		return nil, err
	}
	if err := c.Clear(); err != nil {
		return nil, err
	}
	return composerState(c), nil
}

func (s *Server) handleFilterApply() (any, error) {
	c, err := s.openComposer()
	if err != nil {
		return nil, err
	}
	applied := c.Applied()
	out, err := c.Apply()
	if err != nil {
		return nil, err
	}
	s.composer = nil
	info, _ := s.session.Info()
	data := map[string]any{"applied": applied, "committed": out != nil, "info": info}
	if out == nil {
		return data, nil
	}
	return &frameResult{Data: data, Frame: out}, nil
}

func (s *Server) handleFilterReset() (any, error) {
	c, err := s.openComposer()
	if err != nil {
		return nil, err
	}
	if err := c.Reset(); err != nil {
		return nil, err
	}
	return composerState(c), nil
}

func (s *Server) handleFilterCancel() (any, error) {
	c, err := s.openComposer()
	if err != nil {
		return nil, err
	}
	if err := c.Cancel(); err != nil {
		return nil, err
	}
	s.composer = nil
	return s.session.Info()
}
