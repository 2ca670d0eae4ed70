package ops

import (
	"errors"
	"image/color"
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

func TestCatalogs(t *testing.T) {
	enhance, err := LookupCatalog("enhance")
	if err != nil {
		t.Fatal(err)
	}
	effects, err := LookupCatalog("effects")
	if err != nil {
		t.Fatal(err)
	}

	if !enhance.Contains(FilterSharpen) || enhance.Contains(FilterSepia) {
		t.Errorf("enhance catalog = %v", enhance.Filters)
	}
	if !effects.Contains(FilterContour) || effects.Contains(FilterBlur) {
		t.Errorf("effects catalog = %v", effects.Filters)
	}
	if !enhance.Contains(FilterEmboss) || !effects.Contains(FilterEmboss) {
		t.Error("emboss should be in both catalogs")
	}

	if _, err := LookupCatalog("vintage"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("unknown catalog: got %v, want ErrUnknownFilter", err)
	}
}

func TestApplyFilterOnSolid(t *testing.T) {
	gray := color.NRGBA{100, 100, 100, 255}
	src := createSolid(t, 8, 8, raster.RGB, gray)

	tests := []struct {
		id   FilterID
		want color.NRGBA
	}{
		{FilterBlur, gray},
		{FilterSharpen, gray},
		{FilterEdge, color.NRGBA{0, 0, 0, 255}},
		{FilterEmboss, color.NRGBA{128, 128, 128, 255}},
		{FilterContour, white},
		{FilterInvert, color.NRGBA{155, 155, 155, 255}},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			out, err := ApplyFilter(src, tt.id)
			if err != nil {
				t.Fatalf("ApplyFilter failed: %v", err)
			}
			if out.Mode() != raster.RGB {
				t.Errorf("mode: got %v, want rgb", out.Mode())
			}
			if got := out.At(4, 4); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyFilterInvertBlack(t *testing.T) {
	src := createSolid(t, 4, 4, raster.RGB, color.Black)
	out, err := ApplyFilter(src, FilterInvert)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(0, 0); got != white {
		t.Errorf("inverted black = %v, want white", got)
	}
}

func TestApplyFilterSepia(t *testing.T) {
	src := createSolid(t, 4, 4, raster.RGB, color.NRGBA{100, 100, 100, 255})
	out, err := ApplyFilter(src, FilterSepia)
	if err != nil {
		t.Fatal(err)
	}
	c := out.At(2, 2)
	if !(c.R > c.G && c.G > c.B) {
		t.Errorf("sepia tone %v, want R > G > B", c)
	}
}

func TestApplyFilterKeepsAlpha(t *testing.T) {
	src := createSolid(t, 6, 6, raster.RGBA, color.NRGBA{10, 20, 30, 128})
	out, err := ApplyFilter(src, FilterInvert)
	if err != nil {
		t.Fatal(err)
	}
	if out.Mode() != raster.RGBA {
		t.Fatalf("mode: got %v, want rgba", out.Mode())
	}
	if got := out.At(3, 3).A; got != 128 {
		t.Errorf("alpha = %d, want 128", got)
	}
}

func TestApplyFilterUnknown(t *testing.T) {
	src := createSolid(t, 2, 2, raster.RGB, white)
	if _, err := ApplyFilter(src, FilterID("posterize")); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("got %v, want ErrUnknownFilter", err)
	}
}

func TestApplyFiltersReplay(t *testing.T) {
	src := createPattern(t, 16, 16)
	ids := []FilterID{FilterSharpen, FilterEmboss, FilterInvert}

	step := src
	for _, id := range ids {
		var err error
		if step, err = ApplyFilter(step, id); err != nil {
			t.Fatal(err)
		}
	}

	replay, err := ApplyFilters(src, ids)
	if err != nil {
		t.Fatal(err)
	}
	if !replay.Equal(step) {
		t.Error("replaying the filter list differs from applying filters one by one")
	}

	empty, err := ApplyFilters(src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !empty.Equal(src) || empty == src {
		t.Error("empty replay should return an equal copy")
	}
}
