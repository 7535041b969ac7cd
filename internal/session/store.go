// Package session holds process-wide lookup state scoped to one CLI
// session: endpoints of services that finished provisioning, and secrets of
// credentials issued during the session. The store is created at session
// start, passed explicitly into the engine, and cleared at session end.
package session

import (
	"sync"

	"github.com/alexisbeaulieu97/strato/internal/api"
)

// Store is the session-scoped registry. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	endpoints   map[string]string
	credentials []api.Credential
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{endpoints: make(map[string]string)}
}

// RegisterEndpoint records the endpoint of a freshly provisioned service.
// It returns false when the service is already registered, so the caller
// can keep the exactly-once trigger condition of the provisioning poller.
func (s *Store) RegisterEndpoint(serviceName, endpoint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.endpoints[serviceName]; exists {
		return false
	}
	s.endpoints[serviceName] = endpoint
	return true
}

// Endpoint looks up a registered service endpoint.
func (s *Store) Endpoint(serviceName string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	endpoint, ok := s.endpoints[serviceName]
	return endpoint, ok
}

// CacheCredential keeps an issued credential (including its secret, which
// the platform returns exactly once) for the rest of the session.
func (s *Store) CacheCredential(cred api.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials = append(s.credentials, cred)
}

// Credentials returns the credentials issued during this session.
func (s *Store) Credentials() []api.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.Credential, len(s.credentials))
	copy(out, s.credentials)
	return out
}

// Clear drops all session state. Called once at session end.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.endpoints = make(map[string]string)
	s.credentials = nil
}
