package bridge

import (
	"errors"
	"sync"

	"github.com/nerrad567/soundview/internal/control"
	"github.com/nerrad567/soundview/internal/player"
)

var (
	ErrControlPointRequired = errors.New("bridge: control point is required")
	ErrGroupSourceRequired  = errors.New("bridge: group source is required")
	ErrSinkRequired         = errors.New("bridge: sink is required")
)

// Sink receives envelopes for fan-out. Satisfied by the websocket hub.
type Sink interface {
	Broadcast(env Envelope)
}

// GroupSource computes the current group partition. Satisfied by
// *player.Adapter.
type GroupSource interface {
	AllGroups() []player.Group
}

// Bridge wires device callbacks to the sink.
type Bridge struct {
	cp     control.ControlPoint
	groups GroupSource
	sink   Sink

	mu    sync.Mutex
	wired map[string]control.Device
}

// New creates a bridge. Call Start to wire the current device set.
func New(cp control.ControlPoint, groups GroupSource, sink Sink) (*Bridge, error) {
	if cp == nil {
		return nil, ErrControlPointRequired
	}
	if groups == nil {
		return nil, ErrGroupSourceRequired
	}
	if sink == nil {
		return nil, ErrSinkRequired
	}
	return &Bridge{
		cp:     cp,
		groups: groups,
		sink:   sink,
		wired:  make(map[string]control.Device),
	}, nil
}

// Start subscribes every known device and re-runs the wiring whenever the
// device set changes, so late arrivals stay covered.
func (b *Bridge) Start() {
	b.wireAll()
	b.cp.OnDevicesChanged(b.wireAll)
}

// wireAll subscribes devices not yet wired. The wired set is keyed by
// identifier and compared by instance, so a device that left and came
// back as a fresh object is wired again while existing subscriptions are
// never duplicated.
func (b *Bridge) wireAll() {
	for _, d := range b.cp.Devices() {
		b.mu.Lock()
		prev, ok := b.wired[d.UUID()]
		if ok && prev == d {
			b.mu.Unlock()
			continue
		}
		b.wired[d.UUID()] = d
		b.mu.Unlock()
		b.wire(d)
	}
}

func (b *Bridge) wire(d control.Device) {
	uuid := d.UUID()

	d.OnVolumeChange(func(volume int) {
		b.sink.Broadcast(NewVolume(uuid, volume))
	})
	d.OnMuteChange(func(muted bool) {
		b.sink.Broadcast(NewMuted(uuid, muted))
	})
	d.OnTrackChange(func(track *control.Track) {
		b.sink.Broadcast(NewTrack(uuid, track))
	})
	d.OnStateChange(func(state control.TransportState) {
		b.sink.Broadcast(NewState(uuid, state))
	})
	d.OnGroupNameChange(func(string) {
		// payload ignored: viewers reload everything on this signal
		b.sink.Broadcast(NewGroupName())
	})
	d.OnTopologyChange(func() {
		// group list computed at event time, never cached
		b.sink.Broadcast(NewGroups(b.groups.AllGroups()))
	})
}
