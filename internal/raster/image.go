package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Mode is the color layout of an Image.
type Mode int

// Supported color modes.
const (
	Grayscale Mode = iota
	RGB
	RGBA
)

// Channels returns the number of bytes per pixel for the mode, or 0 for an
// unknown mode.
func (m Mode) Channels() int {
	switch m {
	case Grayscale:
		return 1
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

func (m Mode) String() string {
	switch m {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses the names produced by Mode.String. "L" and "gray" are
// accepted as aliases for grayscale.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "grayscale", "gray", "l":
		return Grayscale, nil
	case "rgb":
		return RGB, nil
	case "rgba":
		return RGBA, nil
	}
	return 0, fmt.Errorf("unknown color mode: %s", s)
}

// ErrInvalidBuffer is returned when a pixel buffer does not match the
// dimensions and mode it is paired with.
var ErrInvalidBuffer = errors.New("raster: invalid pixel buffer")

// Image is an immutable decoded raster.
//
// The zero value is not usable; construct images with New, FromImage or
// FromImageMode.
type Image struct {
	width  int
	height int
	mode   Mode
	pix    []uint8
}

// New creates an Image from a copy of pix.
//
// Returns ErrInvalidBuffer (wrapped) when a dimension is not positive, the
// mode is unknown, or len(pix) != width*height*mode.Channels().
func New(width, height int, mode Mode, pix []uint8) (*Image, error) {
	if err := validate(width, height, mode, len(pix)); err != nil {
		return nil, err
	}
	buf := make([]uint8, len(pix))
	copy(buf, pix)
	return &Image{width: width, height: height, mode: mode, pix: buf}, nil
}

// Filled creates a width x height image of the given mode with every pixel set
// to c.
func Filled(width, height int, mode Mode, c color.Color) (*Image, error) {
	if err := validate(width, height, mode, width*height*mode.Channels()); err != nil {
		return nil, err
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	px := encodePixel(nc, mode)
	ch := len(px)
	pix := make([]uint8, width*height*ch)
	for i := 0; i < len(pix); i += ch {
		copy(pix[i:i+ch], px)
	}
	return &Image{width: width, height: height, mode: mode, pix: pix}, nil
}

func validate(width, height int, mode Mode, n int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidBuffer, width, height)
	}
	ch := mode.Channels()
	if ch == 0 {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidBuffer, int(mode))
	}
	if n != width*height*ch {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d %s",
			ErrInvalidBuffer, n, width*height*ch, width, height, mode)
	}
	return nil
}

// Width returns the image width in pixels.
func (im *Image) Width() int { return im.width }

// Height returns the image height in pixels.
func (im *Image) Height() int { return im.height }

// Mode returns the color mode.
func (im *Image) Mode() Mode { return im.mode }

// Bounds returns the image rectangle, always anchored at (0,0).
func (im *Image) Bounds() image.Rectangle { return image.Rect(0, 0, im.width, im.height) }

// Pix returns a copy of the pixel buffer.
func (im *Image) Pix() []uint8 {
	buf := make([]uint8, len(im.pix))
	copy(buf, im.pix)
	return buf
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	return &Image{width: im.width, height: im.height, mode: im.mode, pix: im.Pix()}
}

// Equal reports whether two images have the same dimensions, mode and bytes.
func (im *Image) Equal(other *Image) bool {
	if im == nil || other == nil {
		return im == other
	}
	return im.width == other.width && im.height == other.height &&
		im.mode == other.mode && bytes.Equal(im.pix, other.pix)
}

func (im *Image) String() string {
	return fmt.Sprintf("%dx%d %s", im.width, im.height, im.mode)
}

// At returns the pixel at (x, y) as non-premultiplied RGBA. Grayscale pixels
// are expanded to equal R, G and B; RGB pixels are opaque. Coordinates outside
// the image return the zero color.
func (im *Image) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= im.width || y >= im.height {
		return color.NRGBA{}
	}
	ch := im.mode.Channels()
	i := (y*im.width + x) * ch
	p := im.pix[i : i+ch]
	switch im.mode {
	case Grayscale:
		return color.NRGBA{p[0], p[0], p[0], 255}
	case RGB:
		return color.NRGBA{p[0], p[1], p[2], 255}
	default:
		return color.NRGBA{p[0], p[1], p[2], p[3]}
	}
}

// Image returns a standard library copy of the raster: *image.Gray for
// grayscale images and *image.NRGBA otherwise.
func (im *Image) Image() image.Image {
	if im.mode == Grayscale {
		return &image.Gray{Pix: im.Pix(), Stride: im.width, Rect: im.Bounds()}
	}
	return im.NRGBA()
}

// NRGBA returns the raster as a new *image.NRGBA.
func (im *Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(im.Bounds())
	ch := im.mode.Channels()
	for i, j := 0, 0; i < len(im.pix); i, j = i+ch, j+4 {
		switch im.mode {
		case Grayscale:
			v := im.pix[i]
			dst.Pix[j], dst.Pix[j+1], dst.Pix[j+2], dst.Pix[j+3] = v, v, v, 255
		case RGB:
			dst.Pix[j], dst.Pix[j+1], dst.Pix[j+2], dst.Pix[j+3] = im.pix[i], im.pix[i+1], im.pix[i+2], 255
		default:
			copy(dst.Pix[j:j+4], im.pix[i:i+4])
		}
	}
	return dst
}

// DetectMode picks the mode an image.Image decodes to: grayscale models map to
// Grayscale, opaque images to RGB and everything else to RGBA.
func DetectMode(img image.Image) Mode {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return Grayscale
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return RGB
	}
	return RGBA
}

// FromImage converts img using the mode chosen by DetectMode.
func FromImage(img image.Image) (*Image, error) {
	return FromImageMode(img, DetectMode(img))
}

// FromImageMode converts img to the given mode. Color to grayscale conversion
// uses ITU-R 601-2 luma weights; alpha is dropped when converting to RGB or
// Grayscale.
func FromImageMode(img image.Image, mode Mode) (*Image, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if err := validate(w, h, mode, w*h*mode.Channels()); err != nil {
		return nil, err
	}
	ch := mode.Channels()
	pix := make([]uint8, w*h*ch)

	if g, ok := img.(*image.Gray); ok && mode == Grayscale {
		for y := 0; y < h; y++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pix[y*w:(y+1)*w], g.Pix[off:off+w])
		}
		return &Image{width: w, height: h, mode: mode, pix: pix}, nil
	}

	read := pixelReader(img)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			copy(pix[i:i+ch], encodePixel(read(x, y), mode))
			i += ch
		}
	}
	return &Image{width: w, height: h, mode: mode, pix: pix}, nil
}

// pixelReader returns a non-premultiplied accessor with fast paths for the
// concrete types the imaging libraries produce.
func pixelReader(img image.Image) func(x, y int) color.NRGBA {
	switch src := img.(type) {
	case *image.NRGBA:
		return func(x, y int) color.NRGBA {
			i := src.PixOffset(x, y)
			return color.NRGBA{src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]}
		}
	case *image.Gray:
		return func(x, y int) color.NRGBA {
			v := src.Pix[src.PixOffset(x, y)]
			return color.NRGBA{v, v, v, 255}
		}
	case *image.RGBA:
		return func(x, y int) color.NRGBA {
			i := src.PixOffset(x, y)
			r, g, b, a := src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]
			switch a {
			case 255:
				return color.NRGBA{r, g, b, 255}
			case 0:
				return color.NRGBA{}
			}
			return color.NRGBA{R: unpremul(r, a), G: unpremul(g, a), B: unpremul(b, a), A: a}
		}
	}
	return func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	}
}

// unpremul tolerates channel values above alpha, which some blend results
// produce.
func unpremul(v, a uint8) uint8 {
	x := uint32(v) * 255 / uint32(a)
	if x > 255 {
		return 255
	}
	return uint8(x)
}

func encodePixel(c color.NRGBA, mode Mode) []uint8 {
	switch mode {
	case Grayscale:
		return []uint8{Luma(c.R, c.G, c.B)}
	case RGB:
		return []uint8{c.R, c.G, c.B}
	default:
		return []uint8{c.R, c.G, c.B, c.A}
	}
}

// Luma returns the ITU-R 601-2 luminance of an 8-bit RGB triple, rounded.
func Luma(r, g, b uint8) uint8 {
	return uint8((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16)
}

// ToRGB returns a 3-channel copy of a grayscale image. RGB and RGBA images are
// returned unchanged.
func (im *Image) ToRGB() *Image {
	if im.mode != Grayscale {
		return im
	}
	pix := make([]uint8, len(im.pix)*3)
	for i, v := range im.pix {
		pix[i*3], pix[i*3+1], pix[i*3+2] = v, v, v
	}
	return &Image{width: im.width, height: im.height, mode: RGB, pix: pix}
}

// Split returns one plane per channel, in channel order. Each plane holds
// Width*Height bytes.
func (im *Image) Split() [][]uint8 {
	ch := im.mode.Channels()
	n := im.width * im.height
	planes := make([][]uint8, ch)
	for c := range planes {
		planes[c] = make([]uint8, n)
	}
	for i := 0; i < n; i++ {
		for c := 0; c < ch; c++ {
			planes[c][i] = im.pix[i*ch+c]
		}
	}
	return planes
}

// Merge interleaves planes produced by Split back into an Image.
func Merge(width, height int, mode Mode, planes [][]uint8) (*Image, error) {
	ch := mode.Channels()
	if len(planes) != ch {
		return nil, fmt.Errorf("%w: got %d planes, want %d for %s", ErrInvalidBuffer, len(planes), ch, mode)
	}
	n := width * height
	for c, p := range planes {
		if len(p) != n {
			return nil, fmt.Errorf("%w: plane %d has %d bytes, want %d", ErrInvalidBuffer, c, len(p), n)
		}
	}
	if err := validate(width, height, mode, n*ch); err != nil {
		return nil, err
	}
	pix := make([]uint8, n*ch)
	for i := 0; i < n; i++ {
		for c := 0; c < ch; c++ {
			pix[i*ch+c] = planes[c][i]
		}
	}
	return &Image{width: width, height: height, mode: mode, pix: pix}, nil
}
