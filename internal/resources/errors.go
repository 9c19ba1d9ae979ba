package resources

import "errors"

var (
	// ErrInvalidDescriptor is returned when a raw device descriptor is missing
	// one of its required fields or carries a field of the wrong type.
	ErrInvalidDescriptor = errors.New("invalid device descriptor")

	// ErrChannelMissing is returned by Observe when the read result does not
	// contain an entry for the resource's channel.
	ErrChannelMissing = errors.New("channel missing from read result")

	// ErrUnsupportedValue is returned when a bus value is neither an integer
	// nor a floating point number.
	ErrUnsupportedValue = errors.New("unsupported value type")
)
