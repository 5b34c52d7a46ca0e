// Package bridge turns device change notifications into update envelopes
// and hands them to a broadcast sink.
//
// Six event categories are wired per device: volume, mute, track,
// transport state, group name, and topology. Per-device value events
// become targeted envelopes; group-name carries no payload and tells the
// viewer to reload everything; topology produces a fresh group list
// computed at event time. The bridge keeps a subscribed-identifier set
// and re-wires whenever the device set changes, so players that appear
// after startup are covered too.
package bridge
