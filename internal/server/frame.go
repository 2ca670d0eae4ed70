package server

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/session"
)

// defaultGridColor is semi-transparent red.
var defaultGridColor = color.NRGBA{R: 255, A: 160}

// frameStore is the session renderer: it keeps the last displayed frame for
// image_view and the preview tools.
type frameStore struct {
	mu    sync.Mutex
	frame *raster.Image
	event session.Event
}

func (f *frameStore) Render(frame *raster.Image, event session.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frame = frame
	f.event = event
}

func (f *frameStore) last() (*raster.Image, session.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame, f.event
}

// gridOptions configures the coordinate overlay of a display frame.
type gridOptions struct {
	Spacing         int
	ShowCoordinates bool
	Color           string
}

// displayFrame is an encoded frame ready to send to the client.
type displayFrame struct {
	PNG          []byte
	Width        int
	Height       int
	SourceWidth  int
	SourceHeight int
	Scale        float64
	GridSpacing  int
}

// encodeFrame fits img inside maxSize x maxSize, draws the optional grid and
// encodes the result as PNG. The grid and any downscaling exist only in the
// returned frame.
func encodeFrame(img *raster.Image, maxSize int, grid *gridOptions) (*displayFrame, error) {
	src := img.NRGBA()
	scale := 1.0
	out := src
	if img.Width() > maxSize || img.Height() > maxSize {
		out = imaging.Fit(src, maxSize, maxSize, imaging.Lanczos)
		scale = float64(out.Bounds().Dx()) / float64(img.Width())
	}

	spacing := 0
	if grid != nil && grid.Spacing > 0 {
		c := defaultGridColor
		if grid.Color != "" {
			parsed, err := colorful.Hex(grid.Color)
			if err != nil {
				return nil, fmt.Errorf("invalid grid color %q: %w", grid.Color, err)
			}
			r, g, b := parsed.RGB255()
			c = color.NRGBA{R: r, G: g, B: b, A: defaultGridColor.A}
		}
		out = imaging.Clone(out)
		drawGrid(out, grid.Spacing, scale, c, grid.ShowCoordinates)
		spacing = grid.Spacing
	}

	frame, err := raster.FromImage(out)
	if err != nil {
		return nil, err
	}
	data, err := raster.EncodePNG(frame)
	if err != nil {
		return nil, err
	}
	return &displayFrame{
		PNG:          data,
		Width:        frame.Width(),
		Height:       frame.Height(),
		SourceWidth:  img.Width(),
		SourceHeight: img.Height(),
		Scale:        scale,
		GridSpacing:  spacing,
	}, nil
}

// drawGrid draws lines every spacing source pixels. Labels give source
// coordinates even when the frame is downscaled.
func drawGrid(dst *image.NRGBA, spacing int, scale float64, c color.NRGBA, labels bool) {
	b := dst.Bounds()
	line := image.NewUniform(c)
	for sx := spacing; ; sx += spacing {
		x := int(math.Round(float64(sx) * scale))
		if x >= b.Dx() {
			break
		}
		draw.Draw(dst, image.Rect(x, 0, x+1, b.Dy()), line, image.Point{}, draw.Over)
	}
	for sy := spacing; ; sy += spacing {
		y := int(math.Round(float64(sy) * scale))
		if y >= b.Dy() {
			break
		}
		draw.Draw(dst, image.Rect(0, y, b.Dx(), y+1), line, image.Point{}, draw.Over)
	}
	if !labels {
		return
	}

	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.White, Face: face}
	bg := image.NewUniform(color.NRGBA{A: 180})
	for sy := spacing; int(math.Round(float64(sy)*scale)) < b.Dy(); sy += spacing {
		for sx := spacing; int(math.Round(float64(sx)*scale)) < b.Dx(); sx += spacing {
			x := int(math.Round(float64(sx)*scale)) + 2
			y := int(math.Round(float64(sy)*scale)) + 2
			label := fmt.Sprintf("%d,%d", sx, sy)
			w := d.MeasureString(label).Ceil()
			draw.Draw(dst, image.Rect(x-1, y-1, x+w+1, y+face.Height), bg, image.Point{}, draw.Over)
			d.Dot = fixed.P(x, y+face.Ascent)
			d.DrawString(label)
		}
	}
}
