package ops

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	green = color.NRGBA{0, 255, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

// createPattern returns an RGB image with red, green, blue and white
// quadrants (top-left, top-right, bottom-left, bottom-right).
func createPattern(t *testing.T, width, height int) *raster.Image {
	t.Helper()
	src := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch {
			case x < width/2 && y < height/2:
				src.SetNRGBA(x, y, red)
			case y < height/2:
				src.SetNRGBA(x, y, green)
			case x < width/2:
				src.SetNRGBA(x, y, blue)
			default:
				src.SetNRGBA(x, y, white)
			}
		}
	}
	img, err := raster.FromImage(src)
	if err != nil {
		t.Fatalf("failed to create pattern: %v", err)
	}
	return img
}

// createSolid returns a width x height image of one color.
func createSolid(t *testing.T, width, height int, mode raster.Mode, c color.Color) *raster.Image {
	t.Helper()
	img, err := raster.Filled(width, height, mode, c)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	return img
}

func TestRotate(t *testing.T) {
	src := createPattern(t, 40, 20)
	out, err := Rotate(src)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if out.Width() != 20 || out.Height() != 40 {
		t.Fatalf("dimensions: got %dx%d, want 20x40", out.Width(), out.Height())
	}

	// Clockwise: the red top-left quadrant moves to the top-right.
	if got := out.At(19, 0); got != red {
		t.Errorf("top-right after rotate = %v, want red", got)
	}
	// The blue bottom-left quadrant moves to the top-left.
	if got := out.At(0, 0); got != blue {
		t.Errorf("top-left after rotate = %v, want blue", got)
	}
	if out.Mode() != raster.RGB {
		t.Errorf("mode: got %v, want rgb", out.Mode())
	}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	src := createPattern(t, 9, 5)
	out := src
	for i := 0; i < 4; i++ {
		var err error
		if out, err = Rotate(out); err != nil {
			t.Fatal(err)
		}
	}
	if !out.Equal(src) {
		t.Error("four clockwise rotations did not restore the image")
	}
}

func TestFlip(t *testing.T) {
	src := createPattern(t, 10, 10)

	h, err := FlipHorizontal(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := h.At(0, 0); got != green {
		t.Errorf("FlipHorizontal top-left = %v, want green", got)
	}

	v, err := FlipVertical(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.At(0, 0); got != blue {
		t.Errorf("FlipVertical top-left = %v, want blue", got)
	}

	back, _ := FlipHorizontal(h)
	if !back.Equal(src) {
		t.Error("double horizontal flip changed the image")
	}
}

func TestGeometryKeepsGrayscale(t *testing.T) {
	src := createSolid(t, 6, 4, raster.Grayscale, color.Gray{77})
	for name, op := range map[string]Operator{
		"rotate": Rotate,
		"flip-h": FlipHorizontal,
		"flip-v": FlipVertical,
	} {
		out, err := op(src)
		if err != nil {
			t.Fatalf("%s failed: %v", name, err)
		}
		if out.Mode() != raster.Grayscale {
			t.Errorf("%s: mode %v, want grayscale", name, out.Mode())
		}
		if got := out.At(0, 0).R; got != 77 {
			t.Errorf("%s: value %d, want 77", name, got)
		}
	}
}

func TestGrayscale(t *testing.T) {
	src := createPattern(t, 4, 4)
	out, err := Grayscale(src)
	if err != nil {
		t.Fatal(err)
	}
	if out.Mode() != raster.Grayscale {
		t.Fatalf("mode: got %v, want grayscale", out.Mode())
	}
	if got := len(out.Pix()); got != 16 {
		t.Errorf("buffer length: got %d, want 16", got)
	}
	if got := out.At(3, 3).R; got != 255 {
		t.Errorf("white quadrant = %d, want 255", got)
	}
	if got := out.At(0, 0).R; got != 76 {
		t.Errorf("red quadrant = %d, want 76", got)
	}

	again, _ := Grayscale(out)
	if !again.Equal(out) {
		t.Error("grayscale of a grayscale image changed it")
	}
}

func TestGrayscaleDropsAlpha(t *testing.T) {
	src := createSolid(t, 2, 2, raster.RGBA, color.NRGBA{200, 200, 200, 100})
	out, err := Grayscale(src)
	if err != nil {
		t.Fatal(err)
	}
	if out.Mode() != raster.Grayscale {
		t.Errorf("mode: got %v, want grayscale", out.Mode())
	}
}

func TestCrop(t *testing.T) {
	src := createPattern(t, 100, 100)

	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		wantW, wantH   int
		wantErr        bool
	}{
		{"inside", 10, 20, 60, 50, 50, 30, false},
		{"full", 0, 0, 100, 100, 100, 100, false},
		{"clamped high", 50, 50, 500, 500, 50, 50, false},
		{"clamped low", -10, -10, 5, 5, 5, 5, false},
		{"inverted", 50, 50, 10, 10, 0, 0, true},
		{"zero width", 30, 0, 30, 10, 0, 0, true},
		{"outside right", 100, 0, 150, 50, 0, 0, true},
		{"outside above", 0, -50, 10, -1, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Crop(src, tt.x0, tt.y0, tt.x1, tt.y1)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRegion) {
					t.Fatalf("expected ErrInvalidRegion, got %v", err)
				}
				if out != nil {
					t.Error("expected nil image on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Width() != tt.wantW || out.Height() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", out.Width(), out.Height(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCropContent(t *testing.T) {
	src := createPattern(t, 100, 100)
	out, err := Crop(src, 50, 0, 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(0, 0); got != green {
		t.Errorf("cropped top-right quadrant = %v, want green", got)
	}
}

func TestResolveRegion(t *testing.T) {
	tests := []struct {
		region string
		want   image.Rectangle
	}{
		{"top-left", image.Rect(0, 0, 50, 40)},
		{"top-right", image.Rect(50, 0, 100, 40)},
		{"bottom-left", image.Rect(0, 40, 50, 80)},
		{"bottom-right", image.Rect(50, 40, 100, 80)},
		{"top-half", image.Rect(0, 0, 100, 40)},
		{"bottom-half", image.Rect(0, 40, 100, 80)},
		{"left-half", image.Rect(0, 0, 50, 80)},
		{"right-half", image.Rect(50, 0, 100, 80)},
		{"center", image.Rect(25, 20, 75, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			got, err := ResolveRegion(tt.region, 100, 80)
			if err != nil {
				t.Fatalf("ResolveRegion failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if len(Regions) != len(tests) {
		t.Errorf("Regions lists %d names, want %d", len(Regions), len(tests))
	}
	if _, err := ResolveRegion("middle", 100, 80); !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("unknown region: got %v, want ErrInvalidRegion", err)
	}
}

func TestCropRegion(t *testing.T) {
	src := createPattern(t, 100, 100)
	out, err := CropRegion(src, "bottom-right")
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 50 || out.Height() != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", out.Width(), out.Height())
	}
	if got := out.At(10, 10); got != white {
		t.Errorf("bottom-right content = %v, want white", got)
	}

	tiny := createPattern(t, 1, 1)
	if _, err := CropRegion(tiny, "top-left"); !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("empty region on 1x1 image: got %v, want ErrInvalidRegion", err)
	}
}

func TestResize(t *testing.T) {
	src := createPattern(t, 40, 20)

	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"downscale", 20, 10, false},
		{"upscale", 80, 60, false},
		{"zero width", 0, 10, true},
		{"negative height", 10, -5, true},
		{"too wide", MaxDimension + 1, 10, true},
		{"too tall", 10, 1 << 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Resize(src, tt.w, tt.h)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDimensions) {
					t.Fatalf("expected ErrInvalidDimensions, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Width() != tt.w || out.Height() != tt.h {
				t.Errorf("dimensions: got %dx%d, want %dx%d", out.Width(), out.Height(), tt.w, tt.h)
			}
			if out.Mode() != src.Mode() {
				t.Errorf("mode: got %v, want %v", out.Mode(), src.Mode())
			}
		})
	}
}

func TestResizeFormAspectLock(t *testing.T) {
	src := createSolid(t, 800, 400, raster.RGB, white)

	form := NewResizeForm(src)
	if form.Width != 800 || form.Height != 400 || !form.AspectLock {
		t.Fatalf("initial form = %+v", form)
	}

	form.SetWidth(400)
	if form.Height != 200 {
		t.Errorf("width 400: height = %d, want 200", form.Height)
	}

	form.SetHeight(100)
	if form.Width != 200 {
		t.Errorf("height 100: width = %d, want 200", form.Width)
	}

	form.AspectLock = false
	form.SetWidth(333)
	if form.Height != 100 {
		t.Errorf("unlocked: height changed to %d", form.Height)
	}

	out, err := form.Apply(createPattern(t, 8, 8))
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 333 || out.Height() != 100 {
		t.Errorf("Apply dimensions: got %dx%d, want 333x100", out.Width(), out.Height())
	}
}

func TestResizeFormRounding(t *testing.T) {
	form := &ResizeForm{SourceWidth: 3, SourceHeight: 2, AspectLock: true}
	form.SetWidth(4) // 4 * 2/3 = 2.67
	if form.Height != 3 {
		t.Errorf("height = %d, want 3", form.Height)
	}
	form.SetHeight(5) // 5 * 3/2 = 7.5
	if form.Width != 8 {
		t.Errorf("width = %d, want 8", form.Width)
	}
}
