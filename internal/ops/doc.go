// Package ops is the operator library of the editor.
//
// Every operator is a pure function from a *raster.Image to a new
// *raster.Image. Operators never modify their input, hold no state between
// calls, and produce byte-identical output for identical input and parameters.
// Parameter validation failures are reported as sentinel errors
// (ErrInvalidRegion, ErrInvalidDimensions, ...) before any pixel work is done.
//
// # Families
//
// The library has three families, one per interaction style of the session:
//
//   - Direct operators (geometry.go, effects.go) are applied immediately and
//     committed: rotate, flip, grayscale, crop, resize, cartoon, sketch,
//     edge detection, denoise and vignette.
//   - Adjustments (adjust.go, noise.go) take continuous parameters and are
//     previewed before they are applied: brightness, contrast, saturation,
//     sharpness, channel gain, blur and noise.
//   - Filters (filters.go) are discrete, parameterless and stackable. They are
//     grouped into the enhance and effects catalogs.
//
// # Libraries
//
// Pixel work is delegated to github.com/disintegration/imaging (geometry,
// convolution, codecs), github.com/anthonynsimon/bild (blur, blending,
// segmentation), github.com/disintegration/gift (sepia, invert, median and
// custom kernels) and github.com/lucasb-eyer/go-colorful (HSL math and
// hex formatting). Results are converted back into the mode of the
// input image unless the operator is defined to change it.
package ops
