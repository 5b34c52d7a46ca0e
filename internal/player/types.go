package player

import "github.com/nerrad567/soundview/internal/control"

// Player is the flat summary served by the player listing.
type Player struct {
	UUID        string `json:"uuid"`
	Room        string `json:"room"`
	Coordinator string `json:"coordinator"`
	Volume      int    `json:"volume"`
	Muted       bool   `json:"muted"`
	State       string `json:"state"`
}

// GroupMember identifies one player inside a group.
type GroupMember struct {
	UUID string `json:"uuid"`
	Room string `json:"room"`
}

// Group is one entry in the coordinator partition of the device set.
type Group struct {
	Coordinator string        `json:"coordinator"`
	Name        string        `json:"name"`
	Members     []GroupMember `json:"members"`
}

// PlayerState is the full snapshot served by the per-player state endpoint.
type PlayerState struct {
	UUID   string         `json:"uuid"`
	Name   string         `json:"name"`
	Volume int            `json:"volume"`
	Muted  bool           `json:"muted"`
	State  string         `json:"state"`
	Track  *control.Track `json:"track"`
}
