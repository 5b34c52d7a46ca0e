package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestEntryAddress(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantHost string
		wantPort int
		wantOK   bool
	}{
		{
			name: "ipv4 entry",
			entry: &zeroconf.ServiceEntry{
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				Port:     1883,
			},
			wantHost: "192.168.1.50",
			wantPort: 1883,
			wantOK:   true,
		},
		{
			name:   "no addresses",
			entry:  &zeroconf.ServiceEntry{Port: 1883},
			wantOK: false,
		},
		{
			name: "first of several addresses wins",
			entry: &zeroconf.ServiceEntry{
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5"), net.ParseIP("10.0.0.6")},
				Port:     8883,
			},
			wantHost: "10.0.0.5",
			wantPort: 8883,
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, ok := entryAddress(tt.entry)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if host != tt.wantHost || port != tt.wantPort {
				t.Errorf("entryAddress() = %s:%d, want %s:%d", host, port, tt.wantHost, tt.wantPort)
			}
		})
	}
}
