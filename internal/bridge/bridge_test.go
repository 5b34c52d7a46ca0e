package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nerrad567/soundview/internal/control"
	"github.com/nerrad567/soundview/internal/player"
)

// fakeDevice records registered callbacks so tests can fire events.
type fakeDevice struct {
	uuid string
	room string

	onVolume    []func(int)
	onMute      []func(bool)
	onTrack     []func(*control.Track)
	onState     []func(control.TransportState)
	onGroupName []func(string)
	onTopology  []func()
}

func (d *fakeDevice) UUID() string                              { return d.uuid }
func (d *fakeDevice) Room() string                              { return d.room }
func (d *fakeDevice) CoordinatorUUID() string                   { return d.uuid }
func (d *fakeDevice) GroupName() string                         { return d.room }
func (d *fakeDevice) Volume() int                               { return 0 }
func (d *fakeDevice) Muted() bool                               { return false }
func (d *fakeDevice) State() control.TransportState             { return control.StateStopped }
func (d *fakeDevice) Track() *control.Track                     { return nil }
func (d *fakeDevice) Play(context.Context) error                { return nil }
func (d *fakeDevice) Pause(context.Context) error               { return nil }
func (d *fakeDevice) SetVolume(context.Context, int) error      { return nil }
func (d *fakeDevice) Join(context.Context, string) error        { return nil }
func (d *fakeDevice) Unjoin(context.Context) error              { return nil }

func (d *fakeDevice) OnVolumeChange(fn func(int))                   { d.onVolume = append(d.onVolume, fn) }
func (d *fakeDevice) OnMuteChange(fn func(bool))                    { d.onMute = append(d.onMute, fn) }
func (d *fakeDevice) OnTrackChange(fn func(*control.Track))         { d.onTrack = append(d.onTrack, fn) }
func (d *fakeDevice) OnStateChange(fn func(control.TransportState)) { d.onState = append(d.onState, fn) }
func (d *fakeDevice) OnGroupNameChange(fn func(string))             { d.onGroupName = append(d.onGroupName, fn) }
func (d *fakeDevice) OnTopologyChange(fn func())                    { d.onTopology = append(d.onTopology, fn) }

func (d *fakeDevice) fireVolume(v int) {
	for _, fn := range d.onVolume {
		fn(v)
	}
}

func (d *fakeDevice) fireTopology() {
	for _, fn := range d.onTopology {
		fn()
	}
}

type fakeControlPoint struct {
	devices   []*fakeDevice
	onChanged []func()
}

func (cp *fakeControlPoint) Devices() []control.Device {
	out := make([]control.Device, len(cp.devices))
	for i, d := range cp.devices {
		out[i] = d
	}
	return out
}

func (cp *fakeControlPoint) Lookup(uuid string) (control.Device, bool) {
	for _, d := range cp.devices {
		if d.uuid == uuid {
			return d, true
		}
	}
	return nil, false
}

func (cp *fakeControlPoint) OnDevicesChanged(fn func()) {
	cp.onChanged = append(cp.onChanged, fn)
}

func (cp *fakeControlPoint) fireDevicesChanged() {
	for _, fn := range cp.onChanged {
		fn()
	}
}

// fakeGroups returns whatever its field holds at call time.
type fakeGroups struct {
	groups []player.Group
	calls  int
}

func (g *fakeGroups) AllGroups() []player.Group {
	g.calls++
	return g.groups
}

type fakeSink struct {
	envelopes []Envelope
}

func (s *fakeSink) Broadcast(env Envelope) {
	s.envelopes = append(s.envelopes, env)
}

func startedBridge(t *testing.T, cp *fakeControlPoint, groups *fakeGroups) (*Bridge, *fakeSink) {
	t.Helper()
	sink := &fakeSink{}
	b, err := New(cp, groups, sink)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b.Start()
	return b, sink
}

func TestNew_Validation(t *testing.T) {
	cp := &fakeControlPoint{}
	groups := &fakeGroups{}
	sink := &fakeSink{}

	if _, err := New(nil, groups, sink); !errors.Is(err, ErrControlPointRequired) {
		t.Errorf("New(nil cp) error = %v", err)
	}
	if _, err := New(cp, nil, sink); !errors.Is(err, ErrGroupSourceRequired) {
		t.Errorf("New(nil groups) error = %v", err)
	}
	if _, err := New(cp, groups, nil); !errors.Is(err, ErrSinkRequired) {
		t.Errorf("New(nil sink) error = %v", err)
	}
}

func TestPerDeviceEvents_BecomeTargetedEnvelopes(t *testing.T) {
	d := &fakeDevice{uuid: "RINCON-1", room: "Kitchen"}
	cp := &fakeControlPoint{devices: []*fakeDevice{d}}
	_, sink := startedBridge(t, cp, &fakeGroups{})

	d.fireVolume(55)
	for _, fn := range d.onMute {
		fn(true)
	}
	for _, fn := range d.onState {
		fn(control.StatePlaying)
	}
	for _, fn := range d.onTrack {
		fn(&control.Track{Title: "Freddie Freeloader"})
	}

	if len(sink.envelopes) != 4 {
		t.Fatalf("broadcast %d envelopes, want 4", len(sink.envelopes))
	}

	vol := sink.envelopes[0]
	if vol.Type != TypeVolume || vol.UUID != "RINCON-1" || vol.Volume == nil || *vol.Volume != 55 {
		t.Errorf("volume envelope = %+v", vol)
	}
	muted := sink.envelopes[1]
	if muted.Type != TypeMuted || muted.Muted == nil || !*muted.Muted {
		t.Errorf("muted envelope = %+v", muted)
	}
	state := sink.envelopes[2]
	if state.Type != TypeState || state.State != "playing" {
		t.Errorf("state envelope = %+v", state)
	}
	track := sink.envelopes[3]
	if track.Type != TypeTrack || track.Track == nil || track.Track.Title != "Freddie Freeloader" {
		t.Errorf("track envelope = %+v", track)
	}
}

func TestGroupNameEvent_PayloadFreeSignal(t *testing.T) {
	d := &fakeDevice{uuid: "RINCON-1", room: "Kitchen"}
	cp := &fakeControlPoint{devices: []*fakeDevice{d}}
	_, sink := startedBridge(t, cp, &fakeGroups{})

	for _, fn := range d.onGroupName {
		fn("Kitchen +1")
	}

	if len(sink.envelopes) != 1 {
		t.Fatalf("broadcast %d envelopes, want 1", len(sink.envelopes))
	}
	env := sink.envelopes[0]
	if env.Type != TypeGroupName {
		t.Errorf("type = %q, want %q", env.Type, TypeGroupName)
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"type":"groupName"}` {
		t.Errorf("wire form = %s, want bare type tag", data)
	}
}

func TestTopologyEvent_FreshGroupsAtEventTime(t *testing.T) {
	d := &fakeDevice{uuid: "RINCON-1", room: "Kitchen"}
	cp := &fakeControlPoint{devices: []*fakeDevice{d}}
	groups := &fakeGroups{groups: []player.Group{{Coordinator: "RINCON-1", Name: "Kitchen"}}}
	_, sink := startedBridge(t, cp, groups)

	if groups.calls != 0 {
		t.Fatalf("groups computed %d times before any event, want 0", groups.calls)
	}

	// group list changes between wiring and the event; the envelope must
	// carry the value at event time
	groups.groups = []player.Group{
		{Coordinator: "RINCON-1", Name: "Everywhere"},
	}
	d.fireTopology()

	if len(sink.envelopes) != 1 {
		t.Fatalf("broadcast %d envelopes, want exactly 1", len(sink.envelopes))
	}
	env := sink.envelopes[0]
	if env.Type != TypeGroups {
		t.Errorf("type = %q, want %q", env.Type, TypeGroups)
	}
	if len(env.Groups) != 1 || env.Groups[0].Name != "Everywhere" {
		t.Errorf("groups payload = %+v, want the post-change list", env.Groups)
	}
	if groups.calls != 1 {
		t.Errorf("groups computed %d times, want 1", groups.calls)
	}
}

func TestLateDevices_AreWired(t *testing.T) {
	d1 := &fakeDevice{uuid: "RINCON-1", room: "Kitchen"}
	cp := &fakeControlPoint{devices: []*fakeDevice{d1}}
	_, sink := startedBridge(t, cp, &fakeGroups{})

	d2 := &fakeDevice{uuid: "RINCON-2", room: "Lounge"}
	cp.devices = append(cp.devices, d2)
	cp.fireDevicesChanged()

	d2.fireVolume(25)
	if len(sink.envelopes) != 1 {
		t.Fatalf("broadcast %d envelopes, want 1 from the late device", len(sink.envelopes))
	}
	if sink.envelopes[0].UUID != "RINCON-2" {
		t.Errorf("envelope uuid = %q, want RINCON-2", sink.envelopes[0].UUID)
	}
}

func TestRewire_NoDoubleSubscription(t *testing.T) {
	d := &fakeDevice{uuid: "RINCON-1", room: "Kitchen"}
	cp := &fakeControlPoint{devices: []*fakeDevice{d}}
	_, sink := startedBridge(t, cp, &fakeGroups{})

	// same instance reported again: must not wire twice
	cp.fireDevicesChanged()
	cp.fireDevicesChanged()

	d.fireVolume(10)
	if len(sink.envelopes) != 1 {
		t.Errorf("broadcast %d envelopes for one event, want 1", len(sink.envelopes))
	}
}

func TestReturningDevice_FreshInstanceIsRewired(t *testing.T) {
	d := &fakeDevice{uuid: "RINCON-1", room: "Kitchen"}
	cp := &fakeControlPoint{devices: []*fakeDevice{d}}
	_, sink := startedBridge(t, cp, &fakeGroups{})

	// device leaves and returns as a new object with the same identifier
	replacement := &fakeDevice{uuid: "RINCON-1", room: "Kitchen"}
	cp.devices = []*fakeDevice{replacement}
	cp.fireDevicesChanged()

	replacement.fireVolume(40)
	if len(sink.envelopes) != 1 {
		t.Fatalf("broadcast %d envelopes, want 1 from the replacement", len(sink.envelopes))
	}
	if sink.envelopes[0].Volume == nil || *sink.envelopes[0].Volume != 40 {
		t.Errorf("envelope = %+v", sink.envelopes[0])
	}
}

func TestEnvelopeWireShapes(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want string
	}{
		{"volume zero serializes", NewVolume("u1", 0), `{"type":"volume","uuid":"u1","volume":0}`},
		{"muted false serializes", NewMuted("u1", false), `{"type":"muted","uuid":"u1","muted":false}`},
		{"state", NewState("u1", control.StatePaused), `{"type":"state","uuid":"u1","state":"paused"}`},
		{"track cleared", NewTrack("u1", nil), `{"type":"track","uuid":"u1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.env)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("wire form = %s, want %s", data, tt.want)
			}
		})
	}
}
