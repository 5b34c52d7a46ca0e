// Package discovery locates the audio bridge's MQTT broker via mDNS.
//
// It is used only when no broker host is configured: the daemon browses
// for the configured service type on the local network and takes the
// first instance that resolves to an IPv4 address. Deployments with a
// fixed broker address never touch this package.
package discovery
