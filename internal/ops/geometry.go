package ops

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Operator is a direct operation on the current image.
type Operator func(src *raster.Image) (*raster.Image, error)

// remode converts a library result back into the mode of the source image.
func remode(img image.Image, mode raster.Mode) (*raster.Image, error) {
	return raster.FromImageMode(img, mode)
}

// Rotate turns the image 90 degrees clockwise. Width and height swap.
func Rotate(src *raster.Image) (*raster.Image, error) {
	// imaging rotates counter-clockwise.
	return remode(imaging.Rotate270(src.Image()), src.Mode())
}

// FlipHorizontal mirrors the image left to right.
func FlipHorizontal(src *raster.Image) (*raster.Image, error) {
	return remode(imaging.FlipH(src.Image()), src.Mode())
}

// FlipVertical mirrors the image top to bottom.
func FlipVertical(src *raster.Image) (*raster.Image, error) {
	return remode(imaging.FlipV(src.Image()), src.Mode())
}

// Grayscale converts the image to a single luminance channel. Alpha is dropped.
func Grayscale(src *raster.Image) (*raster.Image, error) {
	if src.Mode() == raster.Grayscale {
		return src.Clone(), nil
	}
	return remode(imaging.Grayscale(src.Image()), raster.Grayscale)
}

// Crop extracts the region [x0,x1) x [y0,y1).
//
// Each coordinate is clamped independently to [0,width] or [0,height]. If the
// clamped region is empty (x1 <= x0 or y1 <= y0) Crop returns ErrInvalidRegion.
func Crop(src *raster.Image, x0, y0, x1, y1 int) (*raster.Image, error) {
	w, h := src.Width(), src.Height()
	x0, x1 = clampInt(x0, 0, w), clampInt(x1, 0, w)
	y0, y1 = clampInt(y0, 0, h), clampInt(y1, 0, h)
	if x1 <= x0 || y1 <= y0 {
		return nil, fmt.Errorf("%w: (%d,%d)-(%d,%d) is empty after clamping to %dx%d",
			ErrInvalidRegion, x0, y0, x1, y1, w, h)
	}
	return remode(imaging.Crop(src.Image(), image.Rect(x0, y0, x1, y1)), src.Mode())
}

// Regions lists the names accepted by ResolveRegion.
var Regions = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// ResolveRegion maps a named region of a width x height image to crop
// coordinates. "center" is the middle 50% in each direction.
func ResolveRegion(region string, width, height int) (image.Rectangle, error) {
	midX, midY := width/2, height/2
	switch region {
	case "top-left":
		return image.Rect(0, 0, midX, midY), nil
	case "top-right":
		return image.Rect(midX, 0, width, midY), nil
	case "bottom-left":
		return image.Rect(0, midY, midX, height), nil
	case "bottom-right":
		return image.Rect(midX, midY, width, height), nil
	case "top-half":
		return image.Rect(0, 0, width, midY), nil
	case "bottom-half":
		return image.Rect(0, midY, width, height), nil
	case "left-half":
		return image.Rect(0, 0, midX, height), nil
	case "right-half":
		return image.Rect(midX, 0, width, height), nil
	case "center":
		qW, qH := width/4, height/4
		return image.Rect(qW, qH, width-qW, height-qH), nil
	}
	return image.Rectangle{}, fmt.Errorf("%w: unknown region %q", ErrInvalidRegion, region)
}

// CropRegion crops a named region. See ResolveRegion.
func CropRegion(src *raster.Image, region string) (*raster.Image, error) {
	r, err := ResolveRegion(region, src.Width(), src.Height())
	if err != nil {
		return nil, err
	}
	return Crop(src, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// MaxDimension is the largest width or height Resize produces.
const MaxDimension = 16384

// Resize scales the image to exactly width x height with Lanczos resampling.
// Both dimensions must be in [1, MaxDimension], otherwise ErrInvalidDimensions
// is returned.
func Resize(src *raster.Image, width, height int) (*raster.Image, error) {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return remode(imaging.Resize(src.Image(), width, height, imaging.Lanczos), src.Mode())
}

// ResizeForm holds the width and height fields of a resize request.
//
// When AspectLock is set, changing one field recomputes the other from the
// source aspect ratio: height = round(width * srcH / srcW) and
// width = round(height * srcW / srcH).
type ResizeForm struct {
	SourceWidth  int
	SourceHeight int
	Width        int
	Height       int
	AspectLock   bool
}

// NewResizeForm starts a form at the source size with the aspect lock on.
func NewResizeForm(src *raster.Image) *ResizeForm {
	return &ResizeForm{
		SourceWidth:  src.Width(),
		SourceHeight: src.Height(),
		Width:        src.Width(),
		Height:       src.Height(),
		AspectLock:   true,
	}
}

// SetWidth updates the width and, when locked, the height.
func (f *ResizeForm) SetWidth(w int) {
	f.Width = w
	if f.AspectLock && f.SourceWidth > 0 {
		f.Height = int(math.Round(float64(w) * float64(f.SourceHeight) / float64(f.SourceWidth)))
	}
}

// SetHeight updates the height and, when locked, the width.
func (f *ResizeForm) SetHeight(h int) {
	f.Height = h
	if f.AspectLock && f.SourceHeight > 0 {
		f.Width = int(math.Round(float64(h) * float64(f.SourceWidth) / float64(f.SourceHeight)))
	}
}

// Apply resizes src to the form's current dimensions.
func (f *ResizeForm) Apply(src *raster.Image) (*raster.Image, error) {
	return Resize(src, f.Width, f.Height)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampByte(v float64) uint8 {
	return uint8(clampFloat(math.Round(v), 0, 255))
}
