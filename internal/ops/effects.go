package ops

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Effect parameters.
const (
	// cartoonLevels is the number of tones kept per channel.
	cartoonLevels = 6
	// cartoonEdgeLevel is the Sobel response that counts as an outline.
	cartoonEdgeLevel = 64
	// sketchRadius is the blur radius of the inverted layer in a sketch.
	sketchRadius = 8

	// Canny thresholds used by EdgeDetect.
	EdgeThresholdLow  = 50
	EdgeThresholdHigh = 150

	// DefaultDenoiseStrength is the median radius used when none is given.
	DefaultDenoiseStrength = 2
	// MaxDenoiseStrength is the largest median radius Denoise accepts.
	MaxDenoiseStrength = 10
	// DefaultVignetteStrength is the vignette strength used when none is given.
	DefaultVignetteStrength = 0.5
)

var effects = map[string]Operator{
	"cartoon":     Cartoon,
	"sketch":      Sketch,
	"edge_detect": EdgeDetect,
	"denoise": func(src *raster.Image) (*raster.Image, error) {
		return Denoise(src, DefaultDenoiseStrength)
	},
	"vignette": func(src *raster.Image) (*raster.Image, error) {
		return Vignette(src, DefaultVignetteStrength)
	},
}

// EffectNames lists the direct effects accepted by LookupEffect, sorted.
func EffectNames() []string {
	names := make([]string, 0, len(effects))
	for name := range effects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupEffect returns the direct effect operator registered under name.
func LookupEffect(name string) (Operator, error) {
	op, ok := effects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, name)
	}
	return op, nil
}

// opaque returns the color channels of src without alpha.
func opaque(src *raster.Image) image.Image {
	if src.Mode() != raster.RGBA {
		return src.Image()
	}
	rgb, err := raster.FromImageMode(src.Image(), raster.RGB)
	if err != nil {
		return src.Image()
	}
	return rgb.Image()
}

// withAlpha converts out to the mode of src and restores the alpha plane of
// src, which the bild blend modes overwrite.
func withAlpha(out image.Image, src *raster.Image) (*raster.Image, error) {
	res, err := remode(out, src.Mode())
	if err != nil || src.Mode() != raster.RGBA {
		return res, err
	}
	planes := res.Split()
	planes[3] = src.Split()[3]
	return raster.Merge(res.Width(), res.Height(), raster.RGBA, planes)
}

// Cartoon flattens the colors of src and draws dark outlines along strong
// edges: a median pass removes texture, each channel is posterized, and a
// thresholded Sobel mask is multiplied over the result.
func Cartoon(src *raster.Image) (*raster.Image, error) {
	img := opaque(src)
	smooth := effect.Median(img, 2)

	step := 255.0 / float64(cartoonLevels-1)
	var lut [256]uint8
	for i := range lut {
		lut[i] = clampByte(math.Round(float64(i)/step) * step)
	}
	flat := imaging.AdjustFunc(smooth, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})

	edges := segment.Threshold(effect.Sobel(imaging.Grayscale(smooth)), cartoonEdgeLevel)
	outline := imaging.Invert(edges)
	return withAlpha(blend.Multiply(flat, outline), src)
}

// Sketch renders src as a pencil drawing: the grayscale image is color-dodged
// with a blurred copy of its own negative. The result is always grayscale.
func Sketch(src *raster.Image) (*raster.Image, error) {
	gray := imaging.Grayscale(opaque(src))
	inverted := blur.Gaussian(imaging.Invert(gray), sketchRadius)
	return remode(blend.ColorDodge(gray, inverted), raster.Grayscale)
}

// Denoise removes speckle with a disk-shaped median filter of radius strength,
// which must be in [1, MaxDenoiseStrength].
func Denoise(src *raster.Image, strength int) (*raster.Image, error) {
	if strength < 1 || strength > MaxDenoiseStrength {
		return nil, fmt.Errorf("%w: denoise strength %d must be in [1,%d]", ErrInvalidParameter, strength, MaxDenoiseStrength)
	}
	out := applyGift(src.Image(), gift.Median(2*strength+1, true))
	return remode(out, src.Mode())
}

// Vignette darkens src toward its borders with a Gaussian falloff centered on
// the image. strength in (0,1] sets the falloff width: the Gaussian sigma is
// (1.5 - strength) times each dimension, so larger values darken more.
func Vignette(src *raster.Image, strength float64) (*raster.Image, error) {
	if strength <= 0 || strength > 1 || math.IsNaN(strength) {
		return nil, fmt.Errorf("%w: vignette strength %v must be in (0,1]", ErrInvalidParameter, strength)
	}
	w, h := src.Width(), src.Height()
	sx := (1.5 - strength) * float64(w)
	sy := (1.5 - strength) * float64(h)
	cx, cy := float64(w-1)/2, float64(h-1)/2

	mask := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		fy := math.Exp(-dy * dy / (2 * sy * sy))
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			fx := math.Exp(-dx * dx / (2 * sx * sx))
			mask.Pix[y*mask.Stride+x] = clampByte(fx * fy * 255)
		}
	}
	return withAlpha(blend.Multiply(opaque(src), mask), src)
}
