// Package raster defines the in-memory image value used by the edit session.
//
// An Image is a decoded pixel buffer together with its dimensions and color
// mode. Images are immutable once constructed: every operator in the editor
// returns a new Image instead of writing into an existing one, so a value held
// by the session, the history stacks or a preview can never be observed
// half-written.
//
// # Pixel Layout
//
// Pixels are stored interleaved, row-major, without stride padding and without
// alpha premultiplication:
//   - Grayscale: 1 byte per pixel (luminance)
//   - RGB: 3 bytes per pixel (R, G, B)
//   - RGBA: 4 bytes per pixel (R, G, B, A)
//
// The buffer length always equals Width*Height*Mode.Channels(), and both
// dimensions are always positive.
//
// # Conversions
//
// FromImage and FromImageMode convert any image.Image into an Image. Image()
// goes the other way and returns an *image.Gray or *image.NRGBA suitable for
// the imaging, bild and gift libraries.
//
// # Codec Boundary
//
// Open and Decode are the loader side of the editor: they turn a file or byte
// stream into an Image or fail with a *DecodeError. Save and Encode are the
// encoder side and fail with an *EncodeError. Neither side retries.
package raster
