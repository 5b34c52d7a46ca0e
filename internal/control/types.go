package control

import "context"

// TransportState is the playback state reported by a player.
type TransportState string

// Transport state constants.
const (
	StatePlaying       TransportState = "playing"
	StatePaused        TransportState = "paused"
	StateStopped       TransportState = "stopped"
	StateTransitioning TransportState = "transitioning"
	StateUnknown       TransportState = "unknown"
)

// ParseTransportState normalises a bridge-reported state string.
//
// The bridge publishes lowercase states, but raw UPnP transport states
// (PLAYING, PAUSED_PLAYBACK, ...) are accepted too so a thinner bridge
// can pass device values through unmapped. Unrecognised values become
// StateUnknown.
func ParseTransportState(s string) TransportState {
	switch s {
	case "playing", "PLAYING":
		return StatePlaying
	case "paused", "PAUSED_PLAYBACK":
		return StatePaused
	case "stopped", "STOPPED":
		return StateStopped
	case "transitioning", "TRANSITIONING":
		return StateTransitioning
	default:
		return StateUnknown
	}
}

// Track holds the metadata of the currently playing track.
// A nil *Track means the player reports nothing playing.
type Track struct {
	Title string `json:"title"`
}

// Device is one player handle in the external device set.
//
// Read accessors return the last state reported by the bridge; they never
// block. Command methods publish to the bridge and return once the command
// is on the bus — the resulting state change arrives asynchronously as an
// event. Event registration methods append a callback; callbacks for one
// device are invoked sequentially in registration order.
type Device interface {
	UUID() string
	Room() string
	// CoordinatorUUID returns the uuid of the device's group coordinator,
	// itself if standalone, or "" when topology has not resolved yet.
	CoordinatorUUID() string
	GroupName() string
	Volume() int
	Muted() bool
	State() TransportState
	Track() *Track

	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	SetVolume(ctx context.Context, volume int) error
	// Join moves this device into the group containing targetUUID's device.
	Join(ctx context.Context, targetUUID string) error
	// Unjoin makes this device the standalone coordinator of its own group.
	Unjoin(ctx context.Context) error

	OnVolumeChange(fn func(volume int))
	OnMuteChange(fn func(muted bool))
	OnTrackChange(fn func(track *Track))
	OnStateChange(fn func(state TransportState))
	OnGroupNameChange(fn func(name string))
	OnTopologyChange(fn func())
}

// ControlPoint is the live device set maintained from the bridge's
// announce and topology topics.
type ControlPoint interface {
	// Devices returns all currently known devices, ordered by room name.
	Devices() []Device
	// Lookup returns the device with the given uuid. Absence is a normal
	// outcome, not an error.
	Lookup(uuid string) (Device, bool)
	// OnDevicesChanged registers a callback invoked whenever devices are
	// added to or removed from the set.
	OnDevicesChanged(fn func())
}
