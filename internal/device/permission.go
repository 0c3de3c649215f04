package device

import (
	"context"

	"golang.org/x/exp/slog"
)

// Permission names a device capability the capture flow depends on.
type Permission string

const (
	PermissionCamera   Permission = "camera"
	PermissionLocation Permission = "location"
)

// PermissionGate answers whether a device capability is available. Both
// calls return plain granted/denied; a failing probe is a denial, never an
// error for the caller to handle.
type PermissionGate interface {
	Check(ctx context.Context, p Permission) bool
	Request(ctx context.Context, p Permission) bool
}

// Probe verifies access to the underlying device resource. A nil error
// means granted.
type Probe func(ctx context.Context) error

// Gate is the platform permission gate. There is no caching: every Check
// and Request re-runs the probe, matching how the host reports revocations.
type Gate struct {
	platform Platform
	probes   map[Permission]Probe
	log      *slog.Logger
}

func NewGate(platform Platform, probes map[Permission]Probe, log *slog.Logger) *Gate {
	return &Gate{
		platform: platform,
		probes:   probes,
		log:      log.With("component", "permission_gate"),
	}
}

func (g *Gate) Check(ctx context.Context, p Permission) bool {
	return g.probe(ctx, p)
}

// Request re-probes the capability. On hosts where granting happens out of
// band (system settings, udev groups) there is nothing more to do than ask
// again.
func (g *Gate) Request(ctx context.Context, p Permission) bool {
	return g.probe(ctx, p)
}

func (g *Gate) probe(ctx context.Context, p Permission) bool {
	if !g.platform.HasPermissionModel() {
		return true
	}

	probe, ok := g.probes[p]
	if !ok {
		return false
	}
	if err := probe(ctx); err != nil {
		g.log.Debug("permission probe failed", "permission", p, "error", err)
		return false
	}
	return true
}
