package mqtt

import "fmt"

// Topic prefixes for the Soundview bus.
//
// The audio bridge mirrors every player onto the bus using the flat scheme
// soundview/player/{uuid}/{topic}, and accepts commands on
// soundview/cmd/{uuid}/{action}. Announce and state topics are retained so
// the dashboard learns current truth on connect without polling.
const (
	// TopicPrefix is the base for all Soundview topics.
	TopicPrefix = "soundview"

	// TopicPrefixPlayer is the base for per-player topics published by the bridge.
	TopicPrefixPlayer = "soundview/player"

	// TopicPrefixCommand is the base for command topics consumed by the bridge.
	TopicPrefixCommand = "soundview/cmd"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "soundview/system"
)

// Per-player event topic names.
const (
	TopicAnnounce  = "announce"
	TopicVolume    = "volume"
	TopicMuted     = "muted"
	TopicTrack     = "track"
	TopicState     = "state"
	TopicGroupName = "groupname"
)

// Command action names.
const (
	CommandPlay   = "play"
	CommandPause  = "pause"
	CommandVolume = "volume"
	CommandJoin   = "join"
	CommandUnjoin = "unjoin"
)

// Topics provides builders for Soundview MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	cmdTopic := topics.Command("RINCON_0001", mqtt.CommandVolume)
//	// Returns: "soundview/cmd/RINCON_0001/volume"
type Topics struct{}

// PlayerEvent returns the topic for a per-player event published by the bridge.
//
// Example: soundview/player/RINCON_0001/volume
func (Topics) PlayerEvent(uuid, event string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixPlayer, uuid, event)
}

// Announce returns the retained announce topic for a player.
//
// Example: soundview/player/RINCON_0001/announce
func (Topics) Announce(uuid string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixPlayer, uuid, TopicAnnounce)
}

// Command returns the topic for a command to a player.
//
// Example: soundview/cmd/RINCON_0001/play
func (Topics) Command(uuid, action string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixCommand, uuid, action)
}

// Topology returns the retained topology topic.
//
// The bridge publishes the complete zone topology here whenever group
// membership changes: every player with its coordinator and group name.
//
// Example: soundview/topology
func (Topics) Topology() string {
	return fmt.Sprintf("%s/topology", TopicPrefix)
}

// SystemStatus returns the system status topic.
//
// Example: soundview/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllPlayerEvents returns a pattern matching every per-player topic,
// announce included.
//
// Pattern: soundview/player/+/+
func (Topics) AllPlayerEvents() string {
	return fmt.Sprintf("%s/+/+", TopicPrefixPlayer)
}

// ParsePlayerEvent splits a per-player topic into its uuid and event name.
// Returns ok=false for topics outside the soundview/player hierarchy.
func ParsePlayerEvent(topic string) (uuid, event string, ok bool) {
	const prefix = TopicPrefixPlayer + "/"
	if len(topic) <= len(prefix) || topic[:len(prefix)] != prefix {
		return "", "", false
	}
	rest := topic[len(prefix):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			uuid, event = rest[:i], rest[i+1:]
			if uuid == "" || event == "" {
				return "", "", false
			}
			return uuid, event, true
		}
	}
	return "", "", false
}
