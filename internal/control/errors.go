package control

import "errors"

// Domain errors for the control package.
var (
	// ErrBusRequired is returned by New when no bus is provided.
	ErrBusRequired = errors.New("control: bus is required")

	// ErrInvalidVolume is returned for volume commands outside [0,100].
	// Callers that clamp (the command facade does) never see this.
	ErrInvalidVolume = errors.New("control: volume must be between 0 and 100")
)
