package ops

import (
	"fmt"
	"image"
	"slices"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// FilterID names a discrete, parameterless filter.
type FilterID string

// Filters.
const (
	FilterBlur    FilterID = "blur"
	FilterSharpen FilterID = "sharpen"
	FilterEdge    FilterID = "edge"
	FilterEmboss  FilterID = "emboss"
	FilterSepia   FilterID = "sepia"
	FilterInvert  FilterID = "invert"
	FilterContour FilterID = "contour"
)

// Catalog is a group of filters that can be stacked in one composition.
type Catalog struct {
	Name    string     `json:"name"`
	Filters []FilterID `json:"filters"`
}

// The two catalogs. Emboss appears in both.
var (
	EnhanceCatalog = Catalog{Name: "enhance", Filters: []FilterID{FilterBlur, FilterSharpen, FilterEdge, FilterEmboss}}
	EffectsCatalog = Catalog{Name: "effects", Filters: []FilterID{FilterSepia, FilterInvert, FilterEmboss, FilterContour}}
)

// Catalogs lists every catalog.
func Catalogs() []Catalog { return []Catalog{EnhanceCatalog, EffectsCatalog} }

// LookupCatalog finds a catalog by name.
func LookupCatalog(name string) (Catalog, error) {
	for _, c := range Catalogs() {
		if c.Name == name {
			return c, nil
		}
	}
	return Catalog{}, fmt.Errorf("%w: no catalog named %q", ErrUnknownFilter, name)
}

// Contains reports whether id belongs to the catalog.
func (c Catalog) Contains(id FilterID) bool {
	return slices.Contains(c.Filters, id)
}

var (
	blurKernel = [25]float64{
		1, 1, 1, 1, 1,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		1, 0, 0, 0, 1,
		1, 1, 1, 1, 1,
	}
	sharpenKernel = [9]float64{
		-2, -2, -2,
		-2, 32, -2,
		-2, -2, -2,
	}
	edgeKernel = [9]float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}
	embossKernel = [9]float64{
		-1, 0, 0,
		0, 1, 0,
		0, 0, 0,
	}
	contourKernel = []float32{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}
)

// ApplyFilter runs one filter over src. The output has the mode of src;
// alpha is carried through unchanged.
func ApplyFilter(src *raster.Image, id FilterID) (*raster.Image, error) {
	img := src.Image()
	var out image.Image
	switch id {
	case FilterBlur:
		out = imaging.Convolve5x5(img, blurKernel, &imaging.ConvolveOptions{Normalize: true})
	case FilterSharpen:
		out = imaging.Convolve3x3(img, sharpenKernel, &imaging.ConvolveOptions{Normalize: true})
	case FilterEdge:
		out = imaging.Convolve3x3(img, edgeKernel, nil)
	case FilterEmboss:
		out = imaging.Convolve3x3(img, embossKernel, &imaging.ConvolveOptions{Bias: 128})
	case FilterContour:
		out = applyGift(img, gift.Convolution(contourKernel, false, false, false, 1))
	case FilterSepia:
		out = applyGift(img, gift.Sepia(100))
	case FilterInvert:
		out = applyGift(img, gift.Invert())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, id)
	}
	return remode(out, src.Mode())
}

// ApplyFilters replays ids in order starting from src.
func ApplyFilters(src *raster.Image, ids []FilterID) (*raster.Image, error) {
	out := src
	for _, id := range ids {
		next, err := ApplyFilter(out, id)
		if err != nil {
			return nil, err
		}
		out = next
	}
	if out == src {
		return src.Clone(), nil
	}
	return out, nil
}

func applyGift(src image.Image, filters ...gift.Filter) *image.NRGBA {
	g := gift.New(filters...)
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}
