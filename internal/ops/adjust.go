package ops

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/fcolor"
	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// smoothKernel is the 3x3 smoothing kernel sharpness blends against.
var smoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// Adjust applies one staged adjustment to src. seed drives the random source of
// the noise kinds; equal inputs always produce byte-identical output.
func Adjust(src *raster.Image, kind Kind, p Params, seed uint64) (*raster.Image, error) {
	if err := p.Validate(kind); err != nil {
		return nil, err
	}
	switch kind {
	case Brightness:
		return AdjustBrightness(src, p.Factor)
	case Contrast:
		return AdjustContrast(src, p.Factor)
	case Saturation:
		return AdjustSaturation(src, p.Factor)
	case Sharpness:
		return AdjustSharpness(src, p.Factor)
	case ChannelGain:
		return ApplyChannelGain(src, p.Red, p.Green, p.Blue)
	case Blur:
		return ApplyBlur(src, p.Variant, p.Intensity)
	case Noise:
		return AddNoise(src, p.Variant, p.Intensity, seed)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAdjustment, kind)
}

// AdjustBrightness scales every color channel by factor: 0 is black, 1 leaves
// the image unchanged. Alpha is preserved.
func AdjustBrightness(src *raster.Image, factor float64) (*raster.Image, error) {
	return remode(adjust.Brightness(src.Image(), factor-1), src.Mode())
}

// AdjustContrast moves every channel away from (factor > 1) or toward
// (factor < 1) the mean luminance of the image. Factor 0 yields a flat gray
// image at the mean.
func AdjustContrast(src *raster.Image, factor float64) (*raster.Image, error) {
	hist := imaging.Histogram(src.Image())
	var mean float64
	for i, v := range hist {
		mean += float64(i) * v
	}
	mean = math.Floor(mean + 0.5)

	var lut [256]uint8
	for i := range lut {
		lut[i] = clampByte(mean + (float64(i)-mean)*factor)
	}
	out := imaging.AdjustFunc(src.Image(), func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
	return remode(out, src.Mode())
}

// AdjustSaturation scales the HSL saturation of every pixel by factor,
// clamping to [0,1]. Grayscale images are returned unchanged.
func AdjustSaturation(src *raster.Image, factor float64) (*raster.Image, error) {
	if src.Mode() == raster.Grayscale {
		return src.Clone(), nil
	}
	out := imaging.AdjustFunc(src.Image(), func(c color.NRGBA) color.NRGBA {
		cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
		h, s, l := cf.Hsl()
		r, g, b := colorful.Hsl(h, clampFloat(s*factor, 0, 1), l).Clamped().RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: c.A}
	})
	return remode(out, src.Mode())
}

// AdjustSharpness interpolates between a smoothed copy of the image (factor 0)
// and the image itself (factor 1). Factors above 1 extrapolate and sharpen.
func AdjustSharpness(src *raster.Image, factor float64) (*raster.Image, error) {
	img := src.Image()
	smooth := imaging.Convolve3x3(img, smoothKernel, &imaging.ConvolveOptions{Normalize: true})
	out := blend.Blend(smooth, img, func(bg, fg fcolor.RGBAF64) fcolor.RGBAF64 {
		const half = 0.5 / 255
		return fcolor.RGBAF64{
			R: bg.R + (fg.R-bg.R)*factor + half,
			G: bg.G + (fg.G-bg.G)*factor + half,
			B: bg.B + (fg.B-bg.B)*factor + half,
			A: fg.A + half,
		}
	})
	return remode(out, src.Mode())
}

// ApplyChannelGain scales the red, green and blue planes independently.
// Grayscale images and the alpha plane are left untouched.
func ApplyChannelGain(src *raster.Image, red, green, blue float64) (*raster.Image, error) {
	if src.Mode() == raster.Grayscale {
		return src.Clone(), nil
	}
	planes := src.Split()
	for i, gain := range []float64{red, green, blue} {
		var lut [256]uint8
		for v := range lut {
			lut[v] = clampByte(float64(v) * gain)
		}
		for j, v := range planes[i] {
			planes[i][j] = lut[v]
		}
	}
	return raster.Merge(src.Width(), src.Height(), src.Mode(), planes)
}

// KernelSize converts a blur intensity into an odd kernel size of at least 3.
func KernelSize(intensity float64) int {
	k := int(intensity*2 + 1)
	if k%2 == 0 {
		k++
	}
	if k < 3 {
		k = 3
	}
	return k
}

// ApplyBlur blurs src. The Gaussian variant uses intensity as its radius; box
// and median use a KernelSize(intensity) square window.
func ApplyBlur(src *raster.Image, variant string, intensity float64) (*raster.Image, error) {
	img := src.Image()
	var out image.Image
	switch variant {
	case BlurGaussian:
		out = blur.Gaussian(img, intensity)
	case BlurBox:
		out = blur.Box(img, float64(KernelSize(intensity)-1)/2)
	case BlurMedian:
		out = applyGift(img, gift.Median(KernelSize(intensity), false))
	default:
		return nil, fmt.Errorf("%w: blur variant %q", ErrInvalidParameter, variant)
	}
	return remode(out, src.Mode())
}
