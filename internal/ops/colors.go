package ops

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// RGBAColor is an 8-bit color with alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor is a color in HSL space: H in degrees [0,360), S and L in percent.
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// ColorResult is one color in several notations. Hex never includes alpha.
type ColorResult struct {
	Hex  string    `json:"hex"`
	RGBA RGBAColor `json:"rgba"`
	HSL  HSLColor  `json:"hsl"`
}

func describeColor(r, g, b, a uint8) ColorResult {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	return ColorResult{
		Hex:  strings.ToUpper(c.Hex()),
		RGBA: RGBAColor{R: r, G: g, B: b, A: a},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// SampleColor returns the color at (x, y). Grayscale pixels report equal R, G
// and B. Coordinates outside the image return ErrOutOfBounds.
func SampleColor(img *raster.Image, x, y int) (*ColorResult, error) {
	if x < 0 || y < 0 || x >= img.Width() || y >= img.Height() {
		return nil, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, img.Width(), img.Height())
	}
	c := img.At(x, y)
	res := describeColor(c.R, c.G, c.B, c.A)
	return &res, nil
}

// ColorFrequency is a quantized color and the share of pixels it covers.
type ColorFrequency struct {
	Hex        string    `json:"hex"`
	Percentage float64   `json:"percentage"`
	RGBA       RGBAColor `json:"rgba"`
}

// DominantColors returns up to count of the most common colors in region (the
// whole image when region is nil), most common first.
//
// Each channel is quantized to a multiple of 16 before counting, so colors
// within 16 units of each other fall into the same bucket. Ties are broken by
// hex value.
func DominantColors(img *raster.Image, count int, region *image.Rectangle) ([]ColorFrequency, error) {
	bounds := img.Bounds()
	if region != nil {
		bounds = region.Intersect(bounds)
		if bounds.Empty() {
			return nil, fmt.Errorf("%w: region %v outside %dx%d", ErrOutOfBounds, *region, img.Width(), img.Height())
		}
	}
	if count < 1 {
		count = 1
	}

	counts := make(map[[3]uint8]int)
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.At(x, y)
			counts[[3]uint8{c.R / 16 * 16, c.G / 16 * 16, c.B / 16 * 16}]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for rgb, n := range counts {
		desc := describeColor(rgb[0], rgb[1], rgb[2], 255)
		colors = append(colors, ColorFrequency{
			Hex:        desc.Hex,
			Percentage: float64(n) / float64(total) * 100,
			RGBA:       desc.RGBA,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})
	if len(colors) > count {
		colors = colors[:count]
	}
	return colors, nil
}
