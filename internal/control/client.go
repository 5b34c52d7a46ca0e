package control

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/nerrad567/soundview/internal/infrastructure/mqtt"
)

// Bus is the messaging surface the client needs from the MQTT layer.
// Satisfied by *mqtt.Client; tests supply a fake.
type Bus interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Logger is the minimal logging interface used by the client.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// Client maintains the live device set by consuming the audio bridge's
// event topics, and publishes commands back to it. It implements
// ControlPoint.
type Client struct {
	bus    Bus
	qos    byte
	topics mqtt.Topics

	mu      sync.RWMutex
	devices map[string]*device

	cbMu             sync.RWMutex
	onDevicesChanged []func()

	logger Logger
}

// New creates a client on the given bus. Call Start to begin consuming
// bridge events.
func New(bus Bus, qos byte) (*Client, error) {
	if bus == nil {
		return nil, ErrBusRequired
	}
	return &Client{
		bus:     bus,
		qos:     qos,
		devices: make(map[string]*device),
		logger:  noopLogger{},
	}, nil
}

// SetLogger replaces the default no-op logger.
func (c *Client) SetLogger(logger Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Start subscribes to the bridge's event topics. Retained messages mean the
// device set fills in immediately on a live broker.
func (c *Client) Start() error {
	if err := c.bus.Subscribe(c.topics.AllPlayerEvents(), c.qos, c.handlePlayerMessage); err != nil {
		return fmt.Errorf("control: subscribe player events: %w", err)
	}
	if err := c.bus.Subscribe(c.topics.Topology(), c.qos, c.handleTopology); err != nil {
		return fmt.Errorf("control: subscribe topology: %w", err)
	}
	return nil
}

// =============================================================================
// ControlPoint
// =============================================================================

// Devices returns the current device set sorted by room name.
func (c *Client) Devices() []Device {
	c.mu.RLock()
	out := make([]Device, 0, len(c.devices))
	for _, d := range c.devices {
		out = append(out, d)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Room() != out[j].Room() {
			return out[i].Room() < out[j].Room()
		}
		return out[i].UUID() < out[j].UUID()
	})
	return out
}

// Lookup returns the device with the given UUID, if present.
func (c *Client) Lookup(uuid string) (Device, bool) {
	c.mu.RLock()
	d, ok := c.devices[uuid]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return d, true
}

// OnDevicesChanged registers a callback fired whenever a device appears or
// disappears.
func (c *Client) OnDevicesChanged(fn func()) {
	c.cbMu.Lock()
	c.onDevicesChanged = append(c.onDevicesChanged, fn)
	c.cbMu.Unlock()
}

func (c *Client) fireDevicesChanged() {
	c.cbMu.RLock()
	callbacks := append(([]func())(nil), c.onDevicesChanged...)
	c.cbMu.RUnlock()
	for _, fn := range callbacks {
		fn()
	}
}

// =============================================================================
// Inbound event handling
// =============================================================================

func (c *Client) handlePlayerMessage(topic string, payload []byte) error {
	uuid, event, ok := mqtt.ParsePlayerEvent(topic)
	if !ok {
		c.logger.Warn("unrecognized player topic", "topic", topic)
		return nil
	}

	if event == mqtt.TopicAnnounce {
		return c.handleAnnounce(uuid, payload)
	}

	c.mu.RLock()
	d, known := c.devices[uuid]
	c.mu.RUnlock()
	if !known {
		// Events can race announce on broker replay; drop until the
		// device is known.
		return nil
	}

	switch event {
	case mqtt.TopicVolume:
		var p volumePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("control: decode volume for %s: %w", uuid, err)
		}
		d.applyVolume(p.Volume)

	case mqtt.TopicMuted:
		var p mutedPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("control: decode muted for %s: %w", uuid, err)
		}
		d.applyMuted(p.Muted)

	case mqtt.TopicTrack:
		track, err := parseTrack(payload)
		if err != nil {
			return fmt.Errorf("control: decode track for %s: %w", uuid, err)
		}
		d.applyTrack(track)

	case mqtt.TopicState:
		var p statePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("control: decode state for %s: %w", uuid, err)
		}
		d.applyState(ParseTransportState(p.State))

	case mqtt.TopicGroupName:
		var p groupNamePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("control: decode group name for %s: %w", uuid, err)
		}
		d.applyGroupName(p.Name)

	default:
		c.logger.Warn("unhandled player event", "event", event, "uuid", uuid)
	}
	return nil
}

func (c *Client) handleAnnounce(uuid string, payload []byte) error {
	var p announcePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("control: decode announce: %w", err)
	}
	if p.UUID != "" {
		uuid = p.UUID
	}

	c.mu.Lock()
	d, exists := c.devices[uuid]
	if !exists {
		d = newDevice(uuid, c)
		c.devices[uuid] = d
	}
	c.mu.Unlock()

	d.setRoom(p.Room)
	if !exists {
		c.fireDevicesChanged()
	}
	return nil
}

// handleTopology applies a full topology snapshot: coordinator and group
// name per device, plus creation of devices the snapshot names that have
// not announced yet and removal of ones it no longer lists.
func (c *Client) handleTopology(topic string, payload []byte) error {
	var p topologyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("control: decode topology: %w", err)
	}

	seen := make(map[string]bool, len(p.Players))
	setChanged := false
	var affected []*device

	c.mu.Lock()
	for _, tp := range p.Players {
		if tp.UUID == "" {
			continue
		}
		seen[tp.UUID] = true
		d, exists := c.devices[tp.UUID]
		if !exists {
			d = newDevice(tp.UUID, c)
			c.devices[tp.UUID] = d
			setChanged = true
		}
		if tp.Room != "" {
			d.setRoom(tp.Room)
		}
		if d.applyTopology(tp.Coordinator, tp.GroupName) {
			affected = append(affected, d)
		}
	}
	for uuid := range c.devices {
		if !seen[uuid] {
			delete(c.devices, uuid)
			setChanged = true
		}
	}
	c.mu.Unlock()

	// Devices-changed first so new devices are wired before their
	// topology callbacks fire.
	if setChanged {
		c.fireDevicesChanged()
	}
	for _, d := range affected {
		d.fireTopology()
	}
	return nil
}

// =============================================================================
// Outbound commands
// =============================================================================

func (c *Client) publishCommand(uuid, action string, payload any) error {
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("control: encode %s command: %w", action, err)
		}
	}
	topic := c.topics.Command(uuid, action)
	if err := c.bus.Publish(topic, data, c.qos, false); err != nil {
		return fmt.Errorf("control: publish %s for %s: %w", action, uuid, err)
	}
	return nil
}

var (
	_ ControlPoint = (*Client)(nil)
	_ Device       = (*device)(nil)
)
