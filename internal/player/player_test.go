package player

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/nerrad567/soundview/internal/control"
)

// fakeDevice implements control.Device with settable state and recorded
// commands.
type fakeDevice struct {
	uuid        string
	room        string
	coordinator string
	groupName   string
	volume      int
	muted       bool
	state       control.TransportState
	track       *control.Track

	calls []string
}

func (d *fakeDevice) UUID() string                        { return d.uuid }
func (d *fakeDevice) Room() string                        { return d.room }
func (d *fakeDevice) CoordinatorUUID() string             { return d.coordinator }
func (d *fakeDevice) GroupName() string                   { return d.groupName }
func (d *fakeDevice) Volume() int                         { return d.volume }
func (d *fakeDevice) Muted() bool                         { return d.muted }
func (d *fakeDevice) State() control.TransportState       { return d.state }
func (d *fakeDevice) Track() *control.Track               { return d.track }
func (d *fakeDevice) Play(ctx context.Context) error      { d.calls = append(d.calls, "play"); return nil }
func (d *fakeDevice) Pause(ctx context.Context) error     { d.calls = append(d.calls, "pause"); return nil }
func (d *fakeDevice) Unjoin(ctx context.Context) error    { d.calls = append(d.calls, "unjoin"); return nil }
func (d *fakeDevice) SetVolume(ctx context.Context, v int) error {
	d.volume = v
	d.calls = append(d.calls, "volume")
	return nil
}
func (d *fakeDevice) Join(ctx context.Context, target string) error {
	d.calls = append(d.calls, "join:"+target)
	return nil
}
func (d *fakeDevice) OnVolumeChange(func(int))                      {}
func (d *fakeDevice) OnMuteChange(func(bool))                       {}
func (d *fakeDevice) OnTrackChange(func(*control.Track))            {}
func (d *fakeDevice) OnStateChange(func(control.TransportState))    {}
func (d *fakeDevice) OnGroupNameChange(func(string))                {}
func (d *fakeDevice) OnTopologyChange(func())                       {}

// fakeControlPoint serves a fixed device slice.
type fakeControlPoint struct {
	devices []*fakeDevice
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

func (cp *fakeControlPoint) OnDevicesChanged(func()) {}

func testControlPoint() (*fakeControlPoint, *fakeDevice, *fakeDevice, *fakeDevice) {
	d1 := &fakeDevice{
		uuid: "RINCON-1", room: "Kitchen", coordinator: "RINCON-1",
		groupName: "Kitchen", volume: 30, state: control.StatePlaying,
		track: &control.Track{Title: "So What"},
	}
	d2 := &fakeDevice{
		uuid: "RINCON-2", room: "Lounge", coordinator: "RINCON-1",
		groupName: "Kitchen", volume: 20, muted: true, state: control.StatePlaying,
	}
	d3 := &fakeDevice{
		uuid: "RINCON-3", room: "Study", coordinator: "RINCON-3",
		volume: 10, state: control.StateStopped,
	}
	return &fakeControlPoint{devices: []*fakeDevice{d1, d2, d3}}, d1, d2, d3
}

func newAdapter(t *testing.T, cp control.ControlPoint) *Adapter {
	t.Helper()
	a, err := NewAdapter(cp)
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}
	return a
}

func newCommander(t *testing.T, cp control.ControlPoint) *Commander {
	t.Helper()
	c, err := NewCommander(cp)
	if err != nil {
		t.Fatalf("NewCommander() error = %v", err)
	}
	return c
}

func TestNewAdapter_RequiresControlPoint(t *testing.T) {
	if _, err := NewAdapter(nil); !errors.Is(err, ErrControlPointRequired) {
		t.Errorf("NewAdapter(nil) error = %v, want ErrControlPointRequired", err)
	}
	if _, err := NewCommander(nil); !errors.Is(err, ErrControlPointRequired) {
		t.Errorf("NewCommander(nil) error = %v, want ErrControlPointRequired", err)
	}
}

func TestAllPlayers(t *testing.T) {
	cp, _, _, _ := testControlPoint()
	a := newAdapter(t, cp)

	players := a.AllPlayers()
	if len(players) != 3 {
		t.Fatalf("AllPlayers() returned %d, want 3", len(players))
	}
	p := players[0]
	if p.UUID != "RINCON-1" || p.Room != "Kitchen" || p.Volume != 30 ||
		p.Coordinator != "RINCON-1" || p.State != "playing" {
		t.Errorf("players[0] = %+v", p)
	}
	if !players[1].Muted {
		t.Error("expected RINCON-2 muted")
	}
}

func TestAllGroups_PartitionByCoordinator(t *testing.T) {
	cp, _, _, _ := testControlPoint()
	a := newAdapter(t, cp)

	groups := a.AllGroups()
	if len(groups) != 2 {
		t.Fatalf("AllGroups() returned %d groups, want 2", len(groups))
	}

	// every device appears in exactly one group
	seen := map[string]int{}
	for _, g := range groups {
		for _, m := range g.Members {
			seen[m.UUID]++
		}
	}
	for _, uuid := range []string{"RINCON-1", "RINCON-2", "RINCON-3"} {
		if seen[uuid] != 1 {
			t.Errorf("device %s appears in %d groups, want 1", uuid, seen[uuid])
		}
	}

	var kitchen *Group
	for i := range groups {
		if groups[i].Coordinator == "RINCON-1" {
			kitchen = &groups[i]
		}
	}
	if kitchen == nil {
		t.Fatal("missing group coordinated by RINCON-1")
	}
	if kitchen.Name != "Kitchen" {
		t.Errorf("group name = %q, want Kitchen", kitchen.Name)
	}
	if len(kitchen.Members) != 2 {
		t.Fatalf("kitchen group has %d members, want 2", len(kitchen.Members))
	}
	rooms := []string{kitchen.Members[0].Room, kitchen.Members[1].Room}
	if !sort.StringsAreSorted(rooms) {
		t.Errorf("members not sorted by room: %v", rooms)
	}
}

func TestAllGroups_UnnamedFallback(t *testing.T) {
	cp, _, _, d3 := testControlPoint()
	a := newAdapter(t, cp)

	d3.groupName = ""
	for _, g := range a.AllGroups() {
		if g.Coordinator == "RINCON-3" && g.Name != UnnamedGroup {
			t.Errorf("nameless group name = %q, want %q", g.Name, UnnamedGroup)
		}
	}
}

func TestAllGroups_SkipsCoordinatorlessDevices(t *testing.T) {
	cp, _, d2, _ := testControlPoint()
	a := newAdapter(t, cp)

	d2.coordinator = ""
	for _, g := range a.AllGroups() {
		for _, m := range g.Members {
			if m.UUID == "RINCON-2" {
				t.Error("device without coordinator should not appear in any group")
			}
		}
	}
}

func TestAllGroups_AbsentCoordinatorStillGroups(t *testing.T) {
	cp, _, d2, _ := testControlPoint()
	a := newAdapter(t, cp)

	// member points at a coordinator that has left the device set
	d2.coordinator = "RINCON-GONE"
	var found bool
	for _, g := range a.AllGroups() {
		if g.Coordinator == "RINCON-GONE" {
			found = true
			if g.Name != UnnamedGroup {
				t.Errorf("group with absent coordinator named %q, want %q", g.Name, UnnamedGroup)
			}
		}
	}
	if !found {
		t.Error("expected a group keyed by the absent coordinator")
	}
}

func TestFullState(t *testing.T) {
	cp, _, _, _ := testControlPoint()
	a := newAdapter(t, cp)

	state, err := a.FullState("RINCON-1")
	if err != nil {
		t.Fatalf("FullState() error = %v", err)
	}
	if state.Name != "Kitchen" || state.Volume != 30 || state.State != "playing" {
		t.Errorf("FullState() = %+v", state)
	}
	if state.Track == nil || state.Track.Title != "So What" {
		t.Errorf("FullState().Track = %+v", state.Track)
	}

	if _, err := a.FullState("nope"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("FullState(unknown) error = %v, want ErrDeviceNotFound", err)
	}
}

func TestGetVolume(t *testing.T) {
	cp, _, _, _ := testControlPoint()
	c := newCommander(t, cp)

	v, err := c.GetVolume("RINCON-1")
	if err != nil || v != 30 {
		t.Errorf("GetVolume() = %d, %v; want 30, nil", v, err)
	}
	if _, err := c.GetVolume("nope"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("GetVolume(unknown) error = %v, want ErrDeviceNotFound", err)
	}
}

func TestSetVolume_Clamps(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{150, 100},
		{-5, 0},
		{0, 0},
		{100, 100},
		{42, 42},
	}
	for _, tt := range tests {
		cp, d1, _, _ := testControlPoint()
		c := newCommander(t, cp)
		if err := c.SetVolume(context.Background(), "RINCON-1", tt.in); err != nil {
			t.Fatalf("SetVolume(%d) error = %v", tt.in, err)
		}
		if d1.volume != tt.want {
			t.Errorf("SetVolume(%d) applied %d, want %d", tt.in, d1.volume, tt.want)
		}
	}
}

func TestTransportAndVolumeWrites_UnknownDeviceNoOp(t *testing.T) {
	cp, _, _, _ := testControlPoint()
	c := newCommander(t, cp)
	ctx := context.Background()

	if err := c.Play(ctx, "nope"); err != nil {
		t.Errorf("Play(unknown) error = %v, want nil", err)
	}
	if err := c.Pause(ctx, "nope"); err != nil {
		t.Errorf("Pause(unknown) error = %v, want nil", err)
	}
	if err := c.SetVolume(ctx, "nope", 50); err != nil {
		t.Errorf("SetVolume(unknown) error = %v, want nil", err)
	}
}

func TestPlayPause_Delegate(t *testing.T) {
	cp, d1, _, _ := testControlPoint()
	c := newCommander(t, cp)
	ctx := context.Background()

	if err := c.Play(ctx, "RINCON-1"); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := c.Pause(ctx, "RINCON-1"); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if len(d1.calls) != 2 || d1.calls[0] != "play" || d1.calls[1] != "pause" {
		t.Errorf("device calls = %v", d1.calls)
	}
}

func TestJoin(t *testing.T) {
	cp, _, _, d3 := testControlPoint()
	c := newCommander(t, cp)
	ctx := context.Background()

	if err := c.Join(ctx, "RINCON-3", "RINCON-1"); err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if len(d3.calls) != 1 || d3.calls[0] != "join:RINCON-1" {
		t.Errorf("device calls = %v", d3.calls)
	}

	if err := c.Join(ctx, "nope", "RINCON-1"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Join(unknown source) error = %v, want ErrDeviceNotFound", err)
	}
	if err := c.Join(ctx, "RINCON-3", "nope"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Join(unknown target) error = %v, want ErrDeviceNotFound", err)
	}
}

func TestUnjoin(t *testing.T) {
	cp, _, d2, _ := testControlPoint()
	c := newCommander(t, cp)
	ctx := context.Background()

	if err := c.Unjoin(ctx, "RINCON-2"); err != nil {
		t.Fatalf("Unjoin() error = %v", err)
	}
	if len(d2.calls) != 1 || d2.calls[0] != "unjoin" {
		t.Errorf("device calls = %v", d2.calls)
	}
	if err := c.Unjoin(ctx, "nope"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Unjoin(unknown) error = %v, want ErrDeviceNotFound", err)
	}
}
