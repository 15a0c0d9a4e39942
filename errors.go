package gamutcheck

import "errors"

var (
	// ErrNoDecoderAvailable is returned for an unregistered decoder format tag.
	ErrNoDecoderAvailable = errors.New("no decoder available")
	// ErrNoEncoderAvailable is returned for an unregistered encoder format tag.
	ErrNoEncoderAvailable = errors.New("no encoder available")
	// ErrIncompatibleLayout is returned when a destination raster does not match the source layout.
	ErrIncompatibleLayout = errors.New("incompatible raster layout")
	// ErrUnsupportedTransferType is returned when an operation gets samples of the wrong width.
	ErrUnsupportedTransferType = errors.New("unsupported transfer type")
	// ErrReadOnlyBuffer is returned on writes to a read-only sample view.
	ErrReadOnlyBuffer = errors.New("raster is read only")
	// ErrEncodeFailure wraps codec errors while persisting a raster.
	ErrEncodeFailure = errors.New("encode failure")
	// ErrIOFailure wraps storage errors.
	ErrIOFailure = errors.New("i/o failure")

	ErrInvalidModel      = errors.New("invalid color model")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrRasterTooSmall    = errors.New("raster too small for gamut sampling")
)
