// Package resolver fetches point-in-time snapshots of the platform resource
// universe. Each orchestration operation takes exactly one snapshot per
// resource scope and classifies every requested identifier against it, so
// all decisions in one operation see the same remote view.
package resolver

import (
	"context"

	"github.com/alexisbeaulieu97/strato/internal/api"
	strerrors "github.com/alexisbeaulieu97/strato/pkg/errors"
)

// Source is the read side of the platform API consumed by the resolver.
type Source interface {
	ListDevices(ctx context.Context) ([]api.Device, error)
	ListServices(ctx context.Context, region string) ([]api.Service, error)
	ListLocations(ctx context.Context) ([]api.Location, error)
	ListCredentials(ctx context.Context) ([]api.Credential, error)
	ListWebhooks(ctx context.Context) ([]api.Webhook, error)
}

// Resolver snapshots remote state for the reconciliation engine.
type Resolver struct {
	source Source
}

// New creates a resolver over the given read source.
func New(source Source) *Resolver {
	return &Resolver{source: source}
}

// Match describes how an identifier resolved against a snapshot.
type Match int

const (
	// MatchNone means the identifier is absent from the snapshot.
	MatchNone Match = iota
	// MatchUnique means exactly one resource matched.
	MatchUnique
	// MatchAmbiguous means a display name matched several resources.
	MatchAmbiguous
)

// DeviceSnapshot is an immutable view of the device inventory, indexed by
// serial number and by display name.
type DeviceSnapshot struct {
	bySerial map[string]api.Device
	byName   map[string][]api.Device
}

// Devices fetches the device inventory once and returns the indexed
// snapshot. A fetch failure is fatal to the calling operation.
func (r *Resolver) Devices(ctx context.Context) (*DeviceSnapshot, error) {
	devices, err := r.source.ListDevices(ctx)
	if err != nil {
		return nil, strerrors.NewUpstreamError("devices", err)
	}

	snap := &DeviceSnapshot{
		bySerial: make(map[string]api.Device, len(devices)),
		byName:   make(map[string][]api.Device),
	}
	for _, d := range devices {
		snap.bySerial[d.Serial] = d
		if d.Name != "" {
			snap.byName[d.Name] = append(snap.byName[d.Name], d)
		}
	}
	return snap, nil
}

// Lookup resolves an identifier by serial number first, then by display
// name. A display name shared by several devices is ambiguous and the
// caller must disambiguate by serial.
func (s *DeviceSnapshot) Lookup(identifier string) (api.Device, Match) {
	if d, ok := s.bySerial[identifier]; ok {
		return d, MatchUnique
	}
	matches := s.byName[identifier]
	switch len(matches) {
	case 0:
		return api.Device{}, MatchNone
	case 1:
		return matches[0], MatchUnique
	default:
		return api.Device{}, MatchAmbiguous
	}
}

// ServiceSnapshot is an immutable view of the services in one region.
type ServiceSnapshot struct {
	region string
	byName map[string]api.Service
}

// Services fetches the service instances of a region once.
func (r *Resolver) Services(ctx context.Context, region string) (*ServiceSnapshot, error) {
	services, err := r.source.ListServices(ctx, region)
	if err != nil {
		return nil, strerrors.NewUpstreamError("services", err)
	}

	snap := &ServiceSnapshot{region: region, byName: make(map[string]api.Service, len(services))}
	for _, s := range services {
		snap.byName[s.Name] = s
	}
	return snap, nil
}

// ByName resolves a service by name within the snapshot's region.
func (s *ServiceSnapshot) ByName(name string) (api.Service, bool) {
	svc, ok := s.byName[name]
	return svc, ok
}

// ServiceState re-fetches the current state of a single service. The
// provisioning poller calls this once per attempt; it deliberately bypasses
// any snapshot so each attempt observes fresh remote state.
func (r *Resolver) ServiceState(ctx context.Context, region, name string) (api.Service, bool, error) {
	services, err := r.source.ListServices(ctx, region)
	if err != nil {
		return api.Service{}, false, strerrors.NewUpstreamError("services", err)
	}
	for _, s := range services {
		if s.Name == name {
			return s, true, nil
		}
	}
	return api.Service{}, false, nil
}

// LocationSnapshot is an immutable view of the tenant's sites.
type LocationSnapshot struct {
	byName map[string][]api.Location
}

// Locations fetches the registered sites once.
func (r *Resolver) Locations(ctx context.Context) (*LocationSnapshot, error) {
	locations, err := r.source.ListLocations(ctx)
	if err != nil {
		return nil, strerrors.NewUpstreamError("locations", err)
	}

	snap := &LocationSnapshot{byName: make(map[string][]api.Location)}
	for _, l := range locations {
		snap.byName[l.Name] = append(snap.byName[l.Name], l)
	}
	return snap, nil
}

// ByName resolves a site by display name.
func (s *LocationSnapshot) ByName(name string) (api.Location, Match) {
	matches := s.byName[name]
	switch len(matches) {
	case 0:
		return api.Location{}, MatchNone
	case 1:
		return matches[0], MatchUnique
	default:
		return api.Location{}, MatchAmbiguous
	}
}

// WebhookSnapshot is an immutable view of the registered webhooks.
type WebhookSnapshot struct {
	byName map[string]api.Webhook
}

// Webhooks fetches the registered webhooks once.
func (r *Resolver) Webhooks(ctx context.Context) (*WebhookSnapshot, error) {
	webhooks, err := r.source.ListWebhooks(ctx)
	if err != nil {
		return nil, strerrors.NewUpstreamError("webhooks", err)
	}

	snap := &WebhookSnapshot{byName: make(map[string]api.Webhook, len(webhooks))}
	for _, w := range webhooks {
		snap.byName[w.Name] = w
	}
	return snap, nil
}

// ByName resolves a webhook by name.
func (s *WebhookSnapshot) ByName(name string) (api.Webhook, bool) {
	w, ok := s.byName[name]
	return w, ok
}

// CredentialSnapshot is an immutable view of the issued API credentials.
type CredentialSnapshot struct {
	count  int
	byName map[string]api.Credential
}

// Credentials fetches the issued credentials. Every creation attempt takes
// a fresh snapshot; the count backing quota admission is never cached
// across operations, so admission does not overshoot the ceiling on stale
// data.
func (r *Resolver) Credentials(ctx context.Context) (*CredentialSnapshot, error) {
	credentials, err := r.source.ListCredentials(ctx)
	if err != nil {
		return nil, strerrors.NewUpstreamError("credentials", err)
	}

	snap := &CredentialSnapshot{
		count:  len(credentials),
		byName: make(map[string]api.Credential, len(credentials)),
	}
	for _, c := range credentials {
		snap.byName[c.Name] = c
	}
	return snap, nil
}

// Count returns the number of issued credentials in the snapshot.
func (s *CredentialSnapshot) Count() int {
	return s.count
}

// ByName resolves a credential by name.
func (s *CredentialSnapshot) ByName(name string) (api.Credential, bool) {
	c, ok := s.byName[name]
	return c, ok
}
