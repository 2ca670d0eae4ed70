package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DecodeError reports a file or stream that could not be read or decoded.
// A failed decode never produces a partial Image.
type DecodeError struct {
	// Source is the file path, or "stream" for Decode.
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports an image that could not be encoded or written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode image %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Open decodes the image at path, applying its EXIF orientation.
//
// Supported formats are PNG, JPEG, GIF, TIFF, BMP and WebP. Any failure,
// including a missing file, is returned as a *DecodeError.
func Open(path string) (*Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	out, err := FromImage(img)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	return out, nil
}

// Decode reads an encoded image from r. See Open.
func Decode(r io.Reader) (*Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Source: "stream", Err: err}
	}
	out, err := FromImage(img)
	if err != nil {
		return nil, &DecodeError{Source: "stream", Err: err}
	}
	return out, nil
}

// EncodeOptions tunes the encoders. The zero value encodes JPEG at quality 95
// with default PNG compression.
type EncodeOptions struct {
	JPEGQuality    int
	PNGCompression png.CompressionLevel
}

func (o EncodeOptions) imagingOptions() []imaging.EncodeOption {
	quality := o.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = 95
	}
	return []imaging.EncodeOption{
		imaging.JPEGQuality(quality),
		imaging.PNGCompressionLevel(o.PNGCompression),
	}
}

// ParsePNGCompression maps "default", "none", "speed" and "best" to a
// png.CompressionLevel.
func ParsePNGCompression(s string) (png.CompressionLevel, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	}
	return png.DefaultCompression, fmt.Errorf("unknown png compression: %s", s)
}

// Save encodes img to path. The format is chosen from the file extension
// (jpg, jpeg, png, gif, tif, tiff, bmp). Failures are returned as an
// *EncodeError and are not retried.
func Save(img *Image, path string, opts EncodeOptions) error {
	if err := imaging.Save(img.Image(), path, opts.imagingOptions()...); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img *Image, format imaging.Format, opts EncodeOptions) error {
	if err := imaging.Encode(w, img.Image(), format, opts.imagingOptions()...); err != nil {
		return &EncodeError{Path: format.String(), Err: err}
	}
	return nil
}

// EncodePNG is a convenience wrapper used for display frames.
func EncodePNG(img *Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, imaging.PNG, EncodeOptions{PNGCompression: png.BestSpeed}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileInfo contains metadata about an image file on disk.
type FileInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format name reported by the decoder, e.g. "png" or "jpeg".
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit" per channel.
	ColorDepth string `json:"color_depth"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Stat reads only the image header at path.
//
// Dimensions are those stored in the file, before any EXIF orientation is
// applied.
func Stat(path string) (*FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	depth := "8-bit"
	switch cfg.ColorModel {
	case color.Gray16Model, color.RGBA64Model, color.NRGBA64Model:
		depth = "16-bit"
	}

	return &FileInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		ColorDepth:    depth,
		FileSizeBytes: stat.Size(),
	}, nil
}

// SupportedExtension reports whether path has an extension Save can encode.
func SupportedExtension(path string) bool {
	_, err := imaging.FormatFromFilename(path)
	return err == nil
}
