package player

import (
	"sort"

	"github.com/nerrad567/soundview/internal/control"
)

// UnnamedGroup is the display name for groups whose coordinator has not
// reported a name.
const UnnamedGroup = "Unnamed Group"

// Adapter derives dashboard views from the live device set.
type Adapter struct {
	cp control.ControlPoint
}

// NewAdapter creates an adapter over the given control point.
func NewAdapter(cp control.ControlPoint) (*Adapter, error) {
	if cp == nil {
		return nil, ErrControlPointRequired
	}
	return &Adapter{cp: cp}, nil
}

// AllPlayers returns a summary of every known player, sorted by room.
func (a *Adapter) AllPlayers() []Player {
	devices := a.cp.Devices()
	players := make([]Player, 0, len(devices))
	for _, d := range devices {
		players = append(players, Player{
			UUID:        d.UUID(),
			Room:        d.Room(),
			Coordinator: d.CoordinatorUUID(),
			Volume:      d.Volume(),
			Muted:       d.Muted(),
			State:       string(d.State()),
		})
	}
	return players
}

// AllGroups partitions the device set by coordinator UUID. Devices that
// have not yet reported a coordinator are left out; they reappear once
// topology catches up. Every device with a coordinator lands in exactly
// one group, keyed by that coordinator, whether or not the coordinator
// itself is currently known.
func (a *Adapter) AllGroups() []Group {
	devices := a.cp.Devices()

	byCoordinator := make(map[string][]control.Device)
	for _, d := range devices {
		coord := d.CoordinatorUUID()
		if coord == "" {
			continue
		}
		byCoordinator[coord] = append(byCoordinator[coord], d)
	}

	groups := make([]Group, 0, len(byCoordinator))
	for coord, members := range byCoordinator {
		name := UnnamedGroup
		if lead, ok := a.cp.Lookup(coord); ok && lead.GroupName() != "" {
			name = lead.GroupName()
		}

		g := Group{Coordinator: coord, Name: name}
		for _, m := range members {
			g.Members = append(g.Members, GroupMember{UUID: m.UUID(), Room: m.Room()})
		}
		sort.Slice(g.Members, func(i, j int) bool {
			if g.Members[i].Room != g.Members[j].Room {
				return g.Members[i].Room < g.Members[j].Room
			}
			return g.Members[i].UUID < g.Members[j].UUID
		})
		groups = append(groups, g)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Name != groups[j].Name {
			return groups[i].Name < groups[j].Name
		}
		return groups[i].Coordinator < groups[j].Coordinator
	})
	return groups
}

// FindDevice looks up a device by UUID.
func (a *Adapter) FindDevice(uuid string) (control.Device, bool) {
	return a.cp.Lookup(uuid)
}

// FullState returns the complete snapshot for one player.
func (a *Adapter) FullState(uuid string) (PlayerState, error) {
	d, ok := a.cp.Lookup(uuid)
	if !ok {
		return PlayerState{}, ErrDeviceNotFound
	}
	return PlayerState{
		UUID:   d.UUID(),
		Name:   d.Room(),
		Volume: d.Volume(),
		Muted:  d.Muted(),
		State:  string(d.State()),
		Track:  d.Track(),
	}, nil
}
