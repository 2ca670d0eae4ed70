package session

import (
	"github.com/ironsheep/image-edit-mcp/internal/ops"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Adjuster stages one adjustment kind. Candidates are always computed from
// the session baseline, so previews never compound.
type Adjuster struct {
	s        *Session
	kind     ops.Kind
	baseline *raster.Image
	params   ops.Params
	staging  bool
}

// NewAdjuster returns an inactive controller for kind.
func (s *Session) NewAdjuster(kind ops.Kind) (*Adjuster, error) {
	if _, err := ops.Describe(kind); err != nil {
		return nil, err
	}
	p, _ := ops.Neutral(kind)
	return &Adjuster{s: s, kind: kind, params: p}, nil
}

func (a *Adjuster) name() string { return "adjust:" + string(a.kind) }

func (a *Adjuster) abort() {
	a.staging = false
	a.baseline = nil
}

// Kind returns the adjustment kind.
func (a *Adjuster) Kind() ops.Kind { return a.kind }

// Staging reports whether the adjustment is open.
func (a *Adjuster) Staging() bool { return a.staging }

// Params returns the last previewed parameters, or the neutral ones.
func (a *Adjuster) Params() ops.Params { return a.params }

// Begin opens the adjustment and captures the baseline.
func (a *Adjuster) Begin() error {
	if a.staging {
		return ErrInteractionActive
	}
	base, err := a.s.open(a)
	if err != nil {
		return err
	}
	a.baseline = base
	a.params, _ = ops.Neutral(a.kind)
	a.staging = true
	return nil
}

func (a *Adjuster) candidate(p ops.Params) (*raster.Image, error) {
	if !a.staging {
		return nil, ErrNotStaging
	}
	return ops.Adjust(a.baseline, a.kind, p, a.s.noiseSeed)
}

// Preview renders the adjustment of the baseline with p and returns it. The
// session's current image and history are not touched.
func (a *Adjuster) Preview(p ops.Params) (*raster.Image, error) {
	out, err := a.candidate(p)
	if err != nil {
		return nil, err
	}
	a.params = p
	a.s.renderer.Render(out, EventPreview)
	return out, nil
}

// Apply commits the adjustment of the baseline with p and closes the
// controller.
func (a *Adjuster) Apply(p ops.Params) (*raster.Image, error) {
	out, err := a.candidate(p)
	if err != nil {
		return nil, err
	}
	a.s.close(a)
	a.abort()
	if err := a.s.commit(out, string(a.kind)); err != nil {
		return nil, err
	}
	a.s.renderer.Render(out, EventApply)
	return out, nil
}

// Reset shows the baseline again and restores neutral parameters. The
// controller stays open.
func (a *Adjuster) Reset() error {
	if !a.staging {
		return ErrNotStaging
	}
	a.params, _ = ops.Neutral(a.kind)
	a.s.restore()
	return nil
}

// Cancel closes the controller without changing the session.
func (a *Adjuster) Cancel() error {
	if !a.staging {
		return ErrNotStaging
	}
	a.s.close(a)
	a.abort()
	a.s.renderer.Render(a.s.current, EventCancel)
	return nil
}
