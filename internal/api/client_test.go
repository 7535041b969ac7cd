package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDevicesDecodesInventory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/devices", r.URL.Path)
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		require.Equal(t, "acme", r.Header.Get("X-Tenant-ID"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"serial":"CN1","name":"edge-1","managed":true}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "acme", "token-1", time.Second)
	devices, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "CN1", devices[0].Serial)
	assert.True(t, devices[0].Managed)
}

func TestListServicesFiltersByRegion(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "us-west", r.URL.Query().Get("region"))
		_, _ = w.Write([]byte(`[{"id":"svc-1","name":"analytics","region":"us-west","state":"PROVISIONED"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "acme", "token-1", time.Second)
	services, err := client.ListServices(context.Background(), "us-west")
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, ServiceStateProvisioned, services[0].State)
}

func TestAssignDevicesSendsOneBatchedCall(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/v1/devices/assign", r.URL.Path)

		var body struct {
			Serials   []string `json:"serials"`
			ServiceID string   `json:"service_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"CN1", "CN2"}, body.Serials)
		assert.Equal(t, "svc-1", body.ServiceID)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "acme", "token-1", time.Second)
	outcome, err := client.AssignDevices(context.Background(), []string{"CN1", "CN2"}, "svc-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, 1, calls)
}

func TestMutateMapsRejectionOntoOutcome(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		outcome Outcome
	}{
		{"bad request", http.StatusBadRequest, OutcomeBadRequest},
		{"unauthorized", http.StatusUnauthorized, OutcomeUnauthorized},
		{"forbidden", http.StatusForbidden, OutcomeForbidden},
		{"validation", http.StatusUnprocessableEntity, OutcomeValidation},
		{"rate limited", http.StatusTooManyRequests, OutcomeRateLimited},
		{"server error", http.StatusBadGateway, OutcomeServerError},
		{"teapot", http.StatusTeapot, OutcomeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`denied`))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "acme", "token-1", time.Second)
			outcome, err := client.UnassignDevices(context.Background(), []string{"CN1"}, "svc-1")
			assert.Equal(t, tc.outcome, outcome)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "denied")
		})
	}
}

func TestMutateTransportFailureIsUnknown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(srv.URL, "acme", "token-1", time.Second)
	outcome, err := client.ProvisionService(context.Background(), "analytics", "us-west")
	assert.Equal(t, OutcomeUnknown, outcome)
	require.Error(t, err)
}

func TestCreateCredentialReturnsSecretOnce(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"cred-1","name":"ci","service_id":"svc-1","secret":"s3cr3t"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "acme", "token-1", time.Second)
	cred, outcome, err := client.CreateCredential(context.Background(), "ci", "svc-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, "s3cr3t", cred.Secret)
}

func TestOutcomeMessagesAreNonEmpty(t *testing.T) {
	t.Parallel()

	outcomes := []Outcome{
		OutcomeSuccess, OutcomeBadRequest, OutcomeUnauthorized, OutcomeForbidden,
		OutcomeValidation, OutcomeRateLimited, OutcomeServerError, OutcomeUnknown,
	}
	for _, o := range outcomes {
		assert.NotEmpty(t, o.Message(), o.String())
		assert.NotEmpty(t, o.String())
	}
}
