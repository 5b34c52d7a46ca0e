package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/nerrad567/soundview/internal/infrastructure/config"
	"github.com/nerrad567/soundview/internal/infrastructure/logging"
)

// ErrNotFound indicates no broker instance resolved within the browse window.
var ErrNotFound = errors.New("discovery: no broker found")

// Find browses for the configured mDNS service and returns the first
// instance with an IPv4 address. It blocks until a match is found, the
// browse window expires, or ctx is cancelled.
func Find(ctx context.Context, cfg config.DiscoveryConfig, logger *logging.Logger) (string, int, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return "", 0, fmt.Errorf("discovery: initializing resolver: %w", err)
	}

	browseCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Timeout)*time.Second)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(browseCtx, cfg.Service, cfg.Domain, entries); err != nil {
		return "", 0, fmt.Errorf("discovery: browsing %s: %w", cfg.Service, err)
	}

	logger.Info("browsing for audio bridge broker", "service", cfg.Service, "domain", cfg.Domain)

	for {
		select {
		case entry := <-entries:
			if entry == nil {
				continue
			}
			host, port, ok := entryAddress(entry)
			if !ok {
				logger.Debug("discovered instance without IPv4 address", "instance", entry.Instance)
				continue
			}
			logger.Info("discovered audio bridge broker",
				"instance", entry.Instance, "host", host, "port", port)
			return host, port, nil
		case <-browseCtx.Done():
			return "", 0, ErrNotFound
		}
	}
}

// entryAddress extracts the first IPv4 address and port from an entry.
func entryAddress(entry *zeroconf.ServiceEntry) (string, int, bool) {
	if len(entry.AddrIPv4) == 0 {
		return "", 0, false
	}
	return entry.AddrIPv4[0].String(), entry.Port, true
}
