package session

import (
	"errors"

	"github.com/ironsheep/image-edit-mcp/internal/ops"
)

var (
	// ErrNoImage is returned by operations that need a loaded image.
	ErrNoImage = errors.New("no image loaded")

	// ErrInteractionActive is returned when an operation conflicts with an
	// open adjustment or composition.
	ErrInteractionActive = errors.New("an interaction is already open")

	// ErrNotStaging is returned by interaction calls made while the
	// controller is not open.
	ErrNotStaging = errors.New("interaction is not open")

	// ErrUnknownFilter is returned for a filter outside the open catalog.
	ErrUnknownFilter = ops.ErrUnknownFilter

	// ErrUnknownAdjustment is returned for an unrecognized adjustment kind.
	ErrUnknownAdjustment = ops.ErrUnknownAdjustment
)
