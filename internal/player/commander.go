package player

import (
	"context"

	"github.com/nerrad567/soundview/internal/control"
)

// Commander executes playback and grouping commands against the device set.
//
// Lookup semantics differ per command on purpose: transport and volume
// writes on an unknown UUID are silently dropped, because a stale
// dashboard firing at a vanished player is routine and harmless. Reads
// and grouping commands fail loudly, because their outcome matters to
// the caller.
type Commander struct {
	cp control.ControlPoint
}

// NewCommander creates a commander over the given control point.
func NewCommander(cp control.ControlPoint) (*Commander, error) {
	if cp == nil {
		return nil, ErrControlPointRequired
	}
	return &Commander{cp: cp}, nil
}

// GetVolume returns the current volume of the device.
func (c *Commander) GetVolume(uuid string) (int, error) {
	d, ok := c.cp.Lookup(uuid)
	if !ok {
		return 0, ErrDeviceNotFound
	}
	return d.Volume(), nil
}

// SetVolume clamps the requested volume to [0, 100] and applies it.
// Unknown devices are a no-op.
func (c *Commander) SetVolume(ctx context.Context, uuid string, volume int) error {
	d, ok := c.cp.Lookup(uuid)
	if !ok {
		return nil
	}
	return d.SetVolume(ctx, clampVolume(volume))
}

// Play starts playback. Unknown devices are a no-op.
func (c *Commander) Play(ctx context.Context, uuid string) error {
	d, ok := c.cp.Lookup(uuid)
	if !ok {
		return nil
	}
	return d.Play(ctx)
}

// Pause pauses playback. Unknown devices are a no-op.
func (c *Commander) Pause(ctx context.Context, uuid string) error {
	d, ok := c.cp.Lookup(uuid)
	if !ok {
		return nil
	}
	return d.Pause(ctx)
}

// Join makes the device join the group coordinated by target. Both ends
// must be known.
func (c *Commander) Join(ctx context.Context, uuid, targetUUID string) error {
	d, ok := c.cp.Lookup(uuid)
	if !ok {
		return ErrDeviceNotFound
	}
	if _, ok := c.cp.Lookup(targetUUID); !ok {
		return ErrDeviceNotFound
	}
	return d.Join(ctx, targetUUID)
}

// Unjoin removes the device from its group, making it standalone.
func (c *Commander) Unjoin(ctx context.Context, uuid string) error {
	d, ok := c.cp.Lookup(uuid)
	if !ok {
		return ErrDeviceNotFound
	}
	return d.Unjoin(ctx)
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
