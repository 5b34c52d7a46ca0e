package bridge

import (
	"github.com/nerrad567/soundview/internal/control"
	"github.com/nerrad567/soundview/internal/player"
)

// Envelope type tags. The set is closed; viewers switch exhaustively on it.
const (
	TypeVolume    = "volume"
	TypeMuted     = "muted"
	TypeTrack     = "track"
	TypeState     = "state"
	TypeGroupName = "groupName"
	TypeGroups    = "groups"
)

// Envelope is one realtime update pushed to viewers. Exactly the fields
// for its Type are set; the rest stay absent from the JSON. Volume and
// Muted are pointers so the zero values 0 and false still serialize.
type Envelope struct {
	Type   string         `json:"type"`
	UUID   string         `json:"uuid,omitempty"`
	Volume *int           `json:"volume,omitempty"`
	Muted  *bool          `json:"muted,omitempty"`
	Track  *control.Track `json:"track,omitempty"`
	State  string         `json:"state,omitempty"`
	Groups []player.Group `json:"groups,omitempty"`
}

func NewVolume(uuid string, volume int) Envelope {
	return Envelope{Type: TypeVolume, UUID: uuid, Volume: &volume}
}

func NewMuted(uuid string, muted bool) Envelope {
	return Envelope{Type: TypeMuted, UUID: uuid, Muted: &muted}
}

func NewTrack(uuid string, track *control.Track) Envelope {
	return Envelope{Type: TypeTrack, UUID: uuid, Track: track}
}

func NewState(uuid string, state control.TransportState) Envelope {
	return Envelope{Type: TypeState, UUID: uuid, State: string(state)}
}

// NewGroupName carries no payload: it signals "grouping changed, reload
// players and groups" rather than patching anything in place.
func NewGroupName() Envelope {
	return Envelope{Type: TypeGroupName}
}

func NewGroups(groups []player.Group) Envelope {
	return Envelope{Type: TypeGroups, Groups: groups}
}
