package mqttbridge

import "errors"

// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected is returned when publishing on a disconnected client
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed is returned when the initial connection attempt fails
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed is returned when a publish operation fails
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed is returned when a subscribe operation fails
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrInvalidTopic is returned for empty topics or topics outside the bridge tree
	ErrInvalidTopic = errors.New("mqtt: invalid topic")

	// ErrUnknownResource is returned for commands addressed to a resource the bridge does not know
	ErrUnknownResource = errors.New("mqtt: unknown resource")

	// ErrReadOnly is returned for commands addressed to a read-only resource
	ErrReadOnly = errors.New("mqtt: resource is read only")
)
