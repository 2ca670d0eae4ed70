package ops

import (
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// gaussian5 is a 5x5 Gaussian kernel (sigma about 1.4) with sum 273.
var gaussian5 = [25]float64{
	1, 4, 7, 4, 1,
	4, 16, 26, 16, 4,
	7, 26, 41, 26, 7,
	4, 16, 26, 16, 4,
	1, 4, 7, 4, 1,
}

// EdgeDetect runs Canny with the default thresholds. The result is a
// grayscale image with edges in white.
func EdgeDetect(src *raster.Image) (*raster.Image, error) {
	return Canny(src, EdgeThresholdLow, EdgeThresholdHigh)
}

// Canny performs Canny edge detection and returns a binary grayscale image:
// 255 on edges, 0 elsewhere.
//
// # Algorithm
//
//  1. Luminance (ITU-R BT.601 weights), scaled to [0,1]
//  2. 5x5 Gaussian blur
//  3. Sobel gradients: magnitude and direction
//  4. Non-maximum suppression along the gradient direction
//  5. Hysteresis: pixels at or above high are edges; pixels between low and
//     high are edges only when an 8-neighbor is at or above high
//
// Thresholds are on the 0-255 scale. Borders replicate edge pixels.
func Canny(src *raster.Image, low, high int) (*raster.Image, error) {
	w, h := src.Width(), src.Height()
	at := func(buf []float64, x, y int) float64 {
		return buf[clampInt(y, 0, h-1)*w+clampInt(x, 0, w-1)]
	}

	lum := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.At(x, y)
			lum[y*w+x] = float64(raster.Luma(c.R, c.G, c.B)) / 255
		}
	}

	blurred := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					sum += at(lum, x+kx, y+ky) * gaussian5[(ky+2)*5+kx+2]
				}
			}
			blurred[y*w+x] = sum / 273
		}
	}

	magnitude := make([]float64, w*h)
	direction := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := at(blurred, x+1, y-1) + 2*at(blurred, x+1, y) + at(blurred, x+1, y+1) -
				at(blurred, x-1, y-1) - 2*at(blurred, x-1, y) - at(blurred, x-1, y+1)
			gy := at(blurred, x-1, y+1) + 2*at(blurred, x, y+1) + at(blurred, x+1, y+1) -
				at(blurred, x-1, y-1) - 2*at(blurred, x, y-1) - at(blurred, x+1, y-1)
			magnitude[y*w+x] = math.Hypot(gx, gy)
			direction[y*w+x] = math.Atan2(gy, gx)
		}
	}

	thin := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			n1, n2 := neighbors(magnitude, w, x, y, direction[i])
			if magnitude[i] >= n1 && magnitude[i] >= n2 {
				thin[i] = magnitude[i]
			}
		}
	}

	lo, hi := float64(low)/255, float64(high)/255
	pix := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := thin[y*w+x]
			switch {
			case v >= hi:
				pix[y*w+x] = 255
			case v >= lo && strongNeighbor(thin, w, h, x, y, hi):
				pix[y*w+x] = 255
			}
		}
	}
	return raster.New(w, h, raster.Grayscale, pix)
}

// neighbors returns the two magnitudes on either side of (x, y) along the
// gradient direction, quantized to 45 degrees.
func neighbors(mag []float64, w, x, y int, angle float64) (float64, float64) {
	const p8 = math.Pi / 8
	switch {
	case (angle >= -p8 && angle < p8) || angle >= 7*p8 || angle < -7*p8:
		return mag[y*w+x-1], mag[y*w+x+1]
	case (angle >= p8 && angle < 3*p8) || (angle >= -7*p8 && angle < -5*p8):
		return mag[(y-1)*w+x+1], mag[(y+1)*w+x-1]
	case (angle >= 3*p8 && angle < 5*p8) || (angle >= -5*p8 && angle < -3*p8):
		return mag[(y-1)*w+x], mag[(y+1)*w+x]
	}
	return mag[(y-1)*w+x-1], mag[(y+1)*w+x+1]
}

func strongNeighbor(thin []float64, w, h, x, y int, hi float64) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			px, py := clampInt(x+kx, 0, w-1), clampInt(y+ky, 0, h-1)
			if thin[py*w+px] >= hi {
				return true
			}
		}
	}
	return false
}
