package session

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ironsheep/image-edit-mcp/internal/history"
	"github.com/ironsheep/image-edit-mcp/internal/ops"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Event tells a Renderer why a frame is shown.
type Event string

// Render events.
const (
	EventLoad    Event = "load"
	EventPreview Event = "preview"
	EventApply   Event = "apply"
	EventCommit  Event = "commit"
	EventUndo    Event = "undo"
	EventRedo    Event = "redo"
	EventReset   Event = "reset"
	EventCancel  Event = "cancel"
)

// Renderer displays frames. frame is never nil and must not be modified.
type Renderer interface {
	Render(frame *raster.Image, event Event)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(frame *raster.Image, event Event)

// Render calls f.
func (f RendererFunc) Render(frame *raster.Image, event Event) { f(frame, event) }

type discardRenderer struct{}

func (discardRenderer) Render(*raster.Image, Event) {}

// interaction is an open Adjuster or Composer.
type interaction interface {
	name() string
	abort()
}

// Session is the editing state of one image.
type Session struct {
	current  *raster.Image
	baseline *raster.Image
	history  *history.History
	active   interaction

	renderer  Renderer
	logger    *slog.Logger
	noiseSeed uint64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRenderer sets the frame sink.
func WithRenderer(r Renderer) Option {
	return func(s *Session) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithNoiseSeed sets the seed of the noise adjustments.
func WithNoiseSeed(seed uint64) Option {
	return func(s *Session) { s.noiseSeed = seed }
}

// WithHistoryDepth sets the capacity of each history stack.
func WithHistoryDepth(depth int) Option {
	return func(s *Session) { s.history = history.New(depth) }
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		history:   history.New(history.DefaultDepth),
		renderer:  discardRenderer{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		noiseSeed: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the current image, clears the history and the baseline and
// cancels any open interaction. A nil img is ignored.
func (s *Session) Load(img *raster.Image) {
	if img == nil {
		return
	}
	if s.active != nil {
		s.logger.Debug("interaction canceled by load", "interaction", s.active.name())
		s.active.abort()
		s.active = nil
	}
	s.current = img
	s.baseline = nil
	s.history.Clear()
	s.logger.Debug("image loaded", "image", img.String())
	s.renderer.Render(img, EventLoad)
}

// LoadFile decodes the file at path and loads it. On failure the session is
// unchanged and the error is a *raster.DecodeError.
func (s *Session) LoadFile(path string) error {
	img, err := raster.Open(path)
	if err != nil {
		return err
	}
	s.Load(img)
	return nil
}

// Save encodes the current image to path. The format follows the extension.
func (s *Session) Save(path string, opts raster.EncodeOptions) error {
	if s.current == nil {
		return ErrNoImage
	}
	if err := raster.Save(s.current, path, opts); err != nil {
		return err
	}
	s.logger.Debug("image saved", "path", path)
	return nil
}

// Current returns the current image, or nil before the first Load.
func (s *Session) Current() *raster.Image { return s.current }

// Baseline returns the captured baseline, or nil when none is captured.
func (s *Session) Baseline() *raster.Image { return s.baseline }

// Interaction returns the name of the open interaction ("adjust:<kind>" or
// "filter:<catalog>"), or "" when none is open.
func (s *Session) Interaction() string {
	if s.active == nil {
		return ""
	}
	return s.active.name()
}

// SaveState pushes a copy of the current image onto the undo stack under
// label and clears the redo stack. It does nothing before the first Load.
func (s *Session) SaveState(label string) {
	if s.current == nil {
		return
	}
	s.history.Record(s.current, label)
}

// Commit records the current image in history and replaces it with img.
func (s *Session) Commit(img *raster.Image, label string) error {
	if s.active != nil {
		return fmt.Errorf("%w: %s", ErrInteractionActive, s.active.name())
	}
	if err := s.commit(img, label); err != nil {
		return err
	}
	s.renderer.Render(img, EventCommit)
	return nil
}

func (s *Session) commit(img *raster.Image, label string) error {
	if img == nil {
		return ErrNoImage
	}
	s.SaveState(label)
	s.current = img
	s.baseline = nil
	s.logger.Debug("committed", "label", label, "image", img.String(), "undo_depth", s.history.UndoDepth())
	return nil
}

// ApplyDirect runs op on the current image and commits the result under
// label. When op fails nothing changes.
func (s *Session) ApplyDirect(label string, op ops.Operator) error {
	if s.current == nil {
		return ErrNoImage
	}
	if s.active != nil {
		return fmt.Errorf("%w: %s", ErrInteractionActive, s.active.name())
	}
	out, err := op(s.current)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	return s.Commit(out, label)
}

// Undo restores the previous image. It returns history.ErrEmptyHistory when
// there is nothing to undo.
func (s *Session) Undo() (history.Entry, error) {
	if s.active != nil {
		return history.Entry{}, fmt.Errorf("%w: %s", ErrInteractionActive, s.active.name())
	}
	img, e, err := s.history.Undo(s.current)
	if err != nil {
		return history.Entry{}, err
	}
	s.current = img
	s.baseline = nil
	s.logger.Debug("undo", "label", e.Label, "undo_depth", s.history.UndoDepth())
	s.renderer.Render(img, EventUndo)
	return e, nil
}

// Redo re-applies the most recently undone change. It returns
// history.ErrEmptyHistory when there is nothing to redo.
func (s *Session) Redo() (history.Entry, error) {
	if s.active != nil {
		return history.Entry{}, fmt.Errorf("%w: %s", ErrInteractionActive, s.active.name())
	}
	img, e, err := s.history.Redo(s.current)
	if err != nil {
		return history.Entry{}, err
	}
	s.current = img
	s.baseline = nil
	s.logger.Debug("redo", "label", e.Label, "redo_depth", s.history.RedoDepth())
	s.renderer.Render(img, EventRedo)
	return e, nil
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// UndoEntries lists the undo stack, newest first.
func (s *Session) UndoEntries() []history.Entry { return s.history.UndoEntries() }

// RedoEntries lists the redo stack, newest first.
func (s *Session) RedoEntries() []history.Entry { return s.history.RedoEntries() }

// Info summarizes the session.
type Info struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Mode        string `json:"mode"`
	UndoDepth   int    `json:"undo_depth"`
	RedoDepth   int    `json:"redo_depth"`
	MaxDepth    int    `json:"max_depth"`
	Interaction string `json:"interaction,omitempty"`
	HasBaseline bool   `json:"has_baseline"`
}

// Info returns the session summary, or ErrNoImage before the first Load.
func (s *Session) Info() (Info, error) {
	if s.current == nil {
		return Info{}, ErrNoImage
	}
	return Info{
		Width:       s.current.Width(),
		Height:      s.current.Height(),
		Mode:        s.current.Mode().String(),
		UndoDepth:   s.history.UndoDepth(),
		RedoDepth:   s.history.RedoDepth(),
		MaxDepth:    s.history.Capacity(),
		Interaction: s.Interaction(),
		HasBaseline: s.baseline != nil,
	}, nil
}

// open makes it the active interaction and captures the baseline if none is
// held since the last change to the current image.
func (s *Session) open(it interaction) (*raster.Image, error) {
	if s.current == nil {
		return nil, ErrNoImage
	}
	if s.active != nil {
		return nil, fmt.Errorf("%w: %s", ErrInteractionActive, s.active.name())
	}
	if s.baseline == nil {
		s.baseline = s.current
	}
	s.active = it
	s.logger.Debug("interaction opened", "interaction", it.name())
	return s.baseline, nil
}

func (s *Session) close(it interaction) {
	if s.active == it {
		s.logger.Debug("interaction closed", "interaction", it.name())
		s.active = nil
	}
}

// restore shows the baseline again without touching history.
func (s *Session) restore() {
	s.current = s.baseline
	s.renderer.Render(s.current, EventReset)
}
