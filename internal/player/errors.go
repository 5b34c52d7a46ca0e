package player

import "errors"

var (
	// ErrDeviceNotFound indicates the UUID does not match any known device.
	ErrDeviceNotFound = errors.New("player: device not found")

	// ErrControlPointRequired indicates construction without a control point.
	ErrControlPointRequired = errors.New("player: control point is required")
)
