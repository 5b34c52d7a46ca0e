// Package control wraps the external audio control collaborator for Soundview.
//
// Soundview does not implement the player control protocol. A bridge daemon
// fronts the player fleet and mirrors it onto the MQTT bus: retained
// announce/state topics describe every player, a retained topology topic
// describes group membership, and command topics accept playback/volume/group
// actions. This package consumes that surface and presents it as an
// in-memory device set.
//
// # Key Types
//
//   - ControlPoint: the device set (Devices, Lookup, OnDevicesChanged)
//   - Device: one player handle — read accessors, commands, event callbacks
//   - Client: the MQTT-backed ControlPoint implementation
//
// Both ControlPoint and Device are interfaces so that every consumer
// (registry adapter, command facade, event bridge, API server) can be
// tested against an in-memory fake.
//
// # Usage
//
//	client, err := control.New(mqttClient, byte(cfg.MQTT.QoS))
//	if err != nil {
//	    return err
//	}
//	client.SetLogger(log)
//	if err := client.Start(); err != nil {
//	    return err
//	}
//
//	for _, dev := range client.Devices() {
//	    dev.OnVolumeChange(func(v int) { ... })
//	}
//
// # Thread Safety
//
// All Client and Device methods are safe for concurrent use. Event
// callbacks are invoked without holding internal locks; a callback may
// call back into the device or client.
package control
