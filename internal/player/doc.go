// Package player presents the live device set as dashboard-shaped data.
//
// The Adapter reads from a control.ControlPoint and produces the wire
// entities the HTTP and websocket layers serve: flat player summaries,
// the group partition derived from coordinator UUIDs, and full per-player
// state snapshots. The Commander is the write-side counterpart: it
// validates and normalizes incoming commands (volume clamping, join
// target checks) before delegating to the device.
//
// Neither type holds state of its own; every call reflects the control
// point at call time.
package player
