package ops

import (
	"fmt"
	"math/rand/v2"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// AddNoise perturbs the color channels of src. Alpha is never touched.
//
//   - gaussian: v + N(0,1) * intensity * 255
//   - salt_pepper: intensity/2 of the pixels are set to 255 and another
//     intensity/2 to 0 (positions drawn with replacement)
//   - speckle: v + v * N(0,1) * intensity
//
// Every result is clamped to [0,255]. The random source is seeded from seed, so
// the same input, parameters and seed always produce the same image.
func AddNoise(src *raster.Image, variant string, intensity float64, seed uint64) (*raster.Image, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pix := src.Pix()
	ch := src.Mode().Channels()
	colors := ch
	if src.Mode() == raster.RGBA {
		colors = 3
	}

	switch variant {
	case NoiseGaussian:
		sigma := intensity * 255
		for i := 0; i < len(pix); i += ch {
			for c := 0; c < colors; c++ {
				pix[i+c] = clampByte(float64(pix[i+c]) + rng.NormFloat64()*sigma)
			}
		}
	case NoiseSpeckle:
		for i := 0; i < len(pix); i += ch {
			for c := 0; c < colors; c++ {
				v := float64(pix[i+c])
				pix[i+c] = clampByte(v + v*rng.NormFloat64()*intensity)
			}
		}
	case NoiseSaltPepper:
		n := src.Width() * src.Height()
		count := int(float64(n) * clampFloat(intensity, 0, 1) / 2)
		for _, value := range []uint8{255, 0} {
			for k := 0; k < count; k++ {
				i := rng.IntN(n) * ch
				for c := 0; c < colors; c++ {
					pix[i+c] = value
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w: noise variant %q", ErrInvalidParameter, variant)
	}
	return raster.New(src.Width(), src.Height(), src.Mode(), pix)
}
