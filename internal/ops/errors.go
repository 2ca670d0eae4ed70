package ops

import "errors"

var (
	// ErrInvalidRegion is returned by Crop when the clamped region is empty.
	ErrInvalidRegion = errors.New("invalid crop region")

	// ErrInvalidDimensions is returned by Resize for a non-positive size.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrUnknownFilter is returned for a filter name outside the catalog in use.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrUnknownAdjustment is returned for an unrecognized adjustment kind.
	ErrUnknownAdjustment = errors.New("unknown adjustment")

	// ErrUnknownEffect is returned for an unrecognized direct effect name.
	ErrUnknownEffect = errors.New("unknown effect")

	// ErrOutOfBounds is returned when a sample point or region lies outside the image.
	ErrOutOfBounds = errors.New("outside image bounds")

	// ErrInvalidParameter is returned for a parameter outside its descriptor range.
	ErrInvalidParameter = errors.New("invalid parameter")
)
