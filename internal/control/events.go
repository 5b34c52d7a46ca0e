package control

import "encoding/json"

// Wire payloads exchanged with the audio bridge over MQTT.

type announcePayload struct {
	UUID string `json:"uuid"`
	Room string `json:"room"`
}

type volumePayload struct {
	Volume int `json:"volume"`
}

type mutedPayload struct {
	Muted bool `json:"muted"`
}

type statePayload struct {
	State string `json:"state"`
}

type groupNamePayload struct {
	Name string `json:"name"`
}

type joinPayload struct {
	Target string `json:"target"`
}

type topologyPayload struct {
	Players []topologyPlayer `json:"players"`
}

type topologyPlayer struct {
	UUID        string `json:"uuid"`
	Room        string `json:"room"`
	Coordinator string `json:"coordinator"`
	GroupName   string `json:"group_name"`
}

// parseTrack decodes a track payload. An empty payload, JSON null, or a
// track with no title all mean "nothing playing" and decode to nil.
func parseTrack(payload []byte) (*Track, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var t *Track
	if err := json.Unmarshal(payload, &t); err != nil {
		return nil, err
	}
	if t == nil || t.Title == "" {
		return nil, nil
	}
	return t, nil
}
