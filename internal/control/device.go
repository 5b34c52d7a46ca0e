package control

import (
	"context"
	"sync"

	"github.com/nerrad567/soundview/internal/infrastructure/mqtt"
)

// device is the MQTT-backed Device implementation.
//
// State fields mirror the bridge's retained topics and are updated by the
// owning Client as events arrive. Commands publish to the bridge's command
// topics; the state change comes back asynchronously as an event.
type device struct {
	uuid   string
	client *Client

	mu          sync.RWMutex
	room        string
	coordinator string
	groupName   string
	volume      int
	muted       bool
	state       TransportState
	track       *Track

	cbMu        sync.RWMutex
	onVolume    []func(int)
	onMute      []func(bool)
	onTrack     []func(*Track)
	onState     []func(TransportState)
	onGroupName []func(string)
	onTopology  []func()
}

func newDevice(uuid string, client *Client) *device {
	return &device{
		uuid:   uuid,
		client: client,
		state:  StateUnknown,
	}
}

// =============================================================================
// Read accessors
// =============================================================================

func (d *device) UUID() string { return d.uuid }

func (d *device) Room() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.room
}

func (d *device) CoordinatorUUID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.coordinator
}

func (d *device) GroupName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.groupName
}

func (d *device) Volume() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.volume
}

func (d *device) Muted() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.muted
}

func (d *device) State() TransportState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

func (d *device) Track() *Track {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.track == nil {
		return nil
	}
	t := *d.track
	return &t
}

// =============================================================================
// Commands
// =============================================================================

func (d *device) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.client.publishCommand(d.uuid, mqtt.CommandPlay, nil)
}

func (d *device) Pause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.client.publishCommand(d.uuid, mqtt.CommandPause, nil)
}

func (d *device) SetVolume(ctx context.Context, volume int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if volume < 0 || volume > 100 {
		return ErrInvalidVolume
	}
	return d.client.publishCommand(d.uuid, mqtt.CommandVolume, volumePayload{Volume: volume})
}

func (d *device) Join(ctx context.Context, targetUUID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.client.publishCommand(d.uuid, mqtt.CommandJoin, joinPayload{Target: targetUUID})
}

func (d *device) Unjoin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.client.publishCommand(d.uuid, mqtt.CommandUnjoin, nil)
}

// =============================================================================
// Event registration
// =============================================================================

func (d *device) OnVolumeChange(fn func(volume int)) {
	d.cbMu.Lock()
	d.onVolume = append(d.onVolume, fn)
	d.cbMu.Unlock()
}

func (d *device) OnMuteChange(fn func(muted bool)) {
	d.cbMu.Lock()
	d.onMute = append(d.onMute, fn)
	d.cbMu.Unlock()
}

func (d *device) OnTrackChange(fn func(track *Track)) {
	d.cbMu.Lock()
	d.onTrack = append(d.onTrack, fn)
	d.cbMu.Unlock()
}

func (d *device) OnStateChange(fn func(state TransportState)) {
	d.cbMu.Lock()
	d.onState = append(d.onState, fn)
	d.cbMu.Unlock()
}

func (d *device) OnGroupNameChange(fn func(name string)) {
	d.cbMu.Lock()
	d.onGroupName = append(d.onGroupName, fn)
	d.cbMu.Unlock()
}

func (d *device) OnTopologyChange(fn func()) {
	d.cbMu.Lock()
	d.onTopology = append(d.onTopology, fn)
	d.cbMu.Unlock()
}

// =============================================================================
// State application (called by Client as bus messages arrive)
// =============================================================================

func (d *device) setRoom(room string) {
	d.mu.Lock()
	d.room = room
	d.mu.Unlock()
}

func (d *device) applyVolume(volume int) {
	d.mu.Lock()
	d.volume = volume
	d.mu.Unlock()

	d.cbMu.RLock()
	callbacks := append(([]func(int))(nil), d.onVolume...)
	d.cbMu.RUnlock()
	for _, fn := range callbacks {
		fn(volume)
	}
}

func (d *device) applyMuted(muted bool) {
	d.mu.Lock()
	d.muted = muted
	d.mu.Unlock()

	d.cbMu.RLock()
	callbacks := append(([]func(bool))(nil), d.onMute...)
	d.cbMu.RUnlock()
	for _, fn := range callbacks {
		fn(muted)
	}
}

func (d *device) applyTrack(track *Track) {
	d.mu.Lock()
	d.track = track
	d.mu.Unlock()

	d.cbMu.RLock()
	callbacks := append(([]func(*Track))(nil), d.onTrack...)
	d.cbMu.RUnlock()
	for _, fn := range callbacks {
		fn(track)
	}
}

func (d *device) applyState(state TransportState) {
	d.mu.Lock()
	d.state = state
	d.mu.Unlock()

	d.cbMu.RLock()
	callbacks := append(([]func(TransportState))(nil), d.onState...)
	d.cbMu.RUnlock()
	for _, fn := range callbacks {
		fn(state)
	}
}

func (d *device) applyGroupName(name string) {
	d.mu.Lock()
	d.groupName = name
	d.mu.Unlock()

	d.cbMu.RLock()
	callbacks := append(([]func(string))(nil), d.onGroupName...)
	d.cbMu.RUnlock()
	for _, fn := range callbacks {
		fn(name)
	}
}

// applyTopology updates coordinator and group name without firing topology
// callbacks; the Client fires those once the whole snapshot is applied.
// Reports whether anything changed.
func (d *device) applyTopology(coordinator, groupName string) bool {
	d.mu.Lock()
	changed := d.coordinator != coordinator || d.groupName != groupName
	d.coordinator = coordinator
	d.groupName = groupName
	d.mu.Unlock()
	return changed
}

func (d *device) fireTopology() {
	d.cbMu.RLock()
	callbacks := append(([]func())(nil), d.onTopology...)
	d.cbMu.RUnlock()
	for _, fn := range callbacks {
		fn()
	}
}
