package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grandcat/zeroconf"

	"andon-console/config"
)

// ErrNotDiscovered is returned when no backend answers within the timeout.
var ErrNotDiscovered = errors.New("backend: not found on the local network")

// MDNSResolver looks up the backend instance via mDNS/DNS-SD.
type MDNSResolver struct {
	cfg config.MDNSConfig
}

// NewMDNSResolver creates a resolver for the configured instance.
func NewMDNSResolver(cfg config.MDNSConfig) *MDNSResolver {
	return &MDNSResolver{cfg: cfg}
}

// Resolve returns the base URL of the first matching instance.
func (r *MDNSResolver) Resolve(ctx context.Context) (string, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return "", fmt.Errorf("mdns resolver: %w", err)
	}

	timeout := time.Duration(r.cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Lookup(lookupCtx, r.cfg.Instance, r.cfg.Service, r.cfg.Domain, entries); err != nil {
		return "", fmt.Errorf("mdns lookup: %w", err)
	}

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return "", ErrNotDiscovered
			}
			if u := entryURL(entry, r.cfg.Scheme); u != "" {
				return u, nil
			}
		case <-lookupCtx.Done():
			return "", fmt.Errorf("%w: %s", ErrNotDiscovered, r.cfg.Instance)
		}
	}
}

// entryURL builds a base URL from a service entry, preferring IPv4.
func entryURL(entry *zeroconf.ServiceEntry, scheme string) string {
	if scheme == "" {
		scheme = "http"
	}
	switch {
	case len(entry.AddrIPv4) > 0:
		return fmt.Sprintf("%s://%s:%d", scheme, entry.AddrIPv4[0], entry.Port)
	case len(entry.AddrIPv6) > 0:
		return fmt.Sprintf("%s://[%s]:%d", scheme, entry.AddrIPv6[0], entry.Port)
	default:
		return ""
	}
}
