package session

import (
	"errors"
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/ops"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

func TestAdjusterPreviewDoesNotMutate(t *testing.T) {
	s, r := newLoaded(t)
	before := s.Current()
	beforePix := before.Pix()

	a, err := s.NewAdjuster(ops.Brightness)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Begin(); err != nil {
		t.Fatal(err)
	}

	for _, f := range []float64{0.2, 1.8, 0.5} {
		out, err := a.Preview(ops.Params{Factor: f})
		if err != nil {
			t.Fatalf("Preview(%v) failed: %v", f, err)
		}
		if out.Equal(before) {
			t.Errorf("Preview(%v) returned the unchanged image", f)
		}
		if frame, ev := r.last(t); ev != EventPreview || frame != out {
			t.Errorf("preview rendered %q", ev)
		}
	}

	saved, err := raster.New(before.Width(), before.Height(), before.Mode(), beforePix)
	if err != nil {
		t.Fatal(err)
	}
	if s.Current() != before || !s.Current().Equal(saved) {
		t.Error("preview changed the current image")
	}
	if s.CanUndo() {
		t.Error("preview recorded history")
	}
	if got := a.Params().Factor; got != 0.5 {
		t.Errorf("Params().Factor = %v, want 0.5", got)
	}
}

func TestAdjusterPreviewsDoNotCompound(t *testing.T) {
	s, _ := newLoaded(t)
	a, _ := s.NewAdjuster(ops.Contrast)
	_ = a.Begin()

	first, err := a.Preview(ops.Params{Factor: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = a.Preview(ops.Params{Factor: 0.3})
	again, err := a.Preview(ops.Params{Factor: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	if !again.Equal(first) {
		t.Error("equal parameters produced different previews")
	}
}

func TestAdjusterApply(t *testing.T) {
	s, r := newLoaded(t)
	before := s.Current()

	a, _ := s.NewAdjuster(ops.Noise)
	_ = a.Begin()
	p := ops.Params{Variant: ops.NoiseGaussian, Intensity: 0.2}
	preview, _ := a.Preview(p)

	out, err := a.Apply(p)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !out.Equal(preview) {
		t.Error("applied image differs from the preview with equal parameters")
	}
	if s.Current() != out {
		t.Error("Apply did not replace the current image")
	}
	if a.Staging() || s.Interaction() != "" {
		t.Error("Apply did not close the adjustment")
	}
	if s.Baseline() != nil {
		t.Error("Apply did not invalidate the baseline")
	}
	if _, ev := r.last(t); ev != EventApply {
		t.Errorf("apply rendered as %q", ev)
	}

	e, err := s.Undo()
	if err != nil {
		t.Fatal(err)
	}
	if e.Label != "noise" {
		t.Errorf("history label = %q, want noise", e.Label)
	}
	if !s.Current().Equal(before) {
		t.Error("undo after apply did not restore the original")
	}
}

func TestAdjusterApplyInvalidParams(t *testing.T) {
	s, _ := newLoaded(t)
	a, _ := s.NewAdjuster(ops.Blur)
	_ = a.Begin()

	if _, err := a.Apply(ops.Params{Variant: "motion", Intensity: 2}); !errors.Is(err, ops.ErrInvalidParameter) {
		t.Fatalf("got %v, want ErrInvalidParameter", err)
	}
	if !a.Staging() {
		t.Error("failed Apply closed the adjustment")
	}
	if s.CanUndo() {
		t.Error("failed Apply recorded history")
	}
}

func TestAdjusterReset(t *testing.T) {
	s, r := newLoaded(t)
	base := s.Current()
	a, _ := s.NewAdjuster(ops.ChannelGain)
	_ = a.Begin()
	_, _ = a.Preview(ops.Params{Red: 0.1, Green: 1.9, Blue: 1})

	if err := a.Reset(); err != nil {
		t.Fatal(err)
	}
	if want := (ops.Params{Red: 1, Green: 1, Blue: 1}); a.Params() != want {
		t.Errorf("params after reset = %+v, want %+v", a.Params(), want)
	}
	if !a.Staging() {
		t.Error("Reset closed the adjustment")
	}
	if s.Current() != base || s.CanUndo() {
		t.Error("Reset changed the session")
	}
	if frame, ev := r.last(t); ev != EventReset || frame != base {
		t.Errorf("reset rendered %q", ev)
	}
}

func TestAdjusterCancel(t *testing.T) {
	s, r := newLoaded(t)
	base := s.Current()
	a, _ := s.NewAdjuster(ops.Sharpness)

	if err := a.Cancel(); !errors.Is(err, ErrNotStaging) {
		t.Errorf("Cancel before Begin: got %v, want ErrNotStaging", err)
	}
	if _, err := a.Preview(ops.Params{Factor: 2}); !errors.Is(err, ErrNotStaging) {
		t.Errorf("Preview before Begin: got %v, want ErrNotStaging", err)
	}

	_ = a.Begin()
	_, _ = a.Preview(ops.Params{Factor: 2})
	if err := a.Cancel(); err != nil {
		t.Fatal(err)
	}
	if s.Current() != base || s.CanUndo() || s.Interaction() != "" {
		t.Error("Cancel changed the session")
	}
	if frame, ev := r.last(t); ev != EventCancel || frame != base {
		t.Errorf("cancel rendered %q", ev)
	}
	if err := a.Reset(); !errors.Is(err, ErrNotStaging) {
		t.Errorf("Reset after Cancel: got %v, want ErrNotStaging", err)
	}
}

func TestAdjusterNoiseSeed(t *testing.T) {
	p := ops.Params{Variant: ops.NoiseSpeckle, Intensity: 0.5}
	preview := func(seed uint64) *raster.Image {
		s := New(WithNoiseSeed(seed))
		s.Load(createTestImage(t, 16, 16))
		a, _ := s.NewAdjuster(ops.Noise)
		_ = a.Begin()
		out, err := a.Preview(p)
		if err != nil {
			t.Fatal(err)
		}
		return out
	}

	if !preview(4).Equal(preview(4)) {
		t.Error("equal seeds produced different previews")
	}
	if preview(4).Equal(preview(5)) {
		t.Error("different seeds produced equal previews")
	}
}
