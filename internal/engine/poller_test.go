package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	strerrors "github.com/alexisbeaulieu97/strato/pkg/errors"
)

// scriptedFetch returns the given states in order, repeating the last one.
func scriptedFetch(states ...string) (func(context.Context) (string, error), *int) {
	calls := 0
	fn := func(ctx context.Context) (string, error) {
		if calls < len(states)-1 {
			calls++
			return states[calls-1], nil
		}
		calls++
		return states[len(states)-1], nil
	}
	return fn, &calls
}

func TestPollerConfirmsOnSuccessState(t *testing.T) {
	t.Parallel()

	fetch, calls := scriptedFetch("PROVISIONING", "PROVISIONING", "PROVISIONED")
	provisioned := 0
	slept := 0

	p := &Poller{
		Target:        "analytics",
		Fetch:         fetch,
		Success:       []string{"PROVISIONED"},
		Failure:       []string{"PROVISION_FAILED"},
		MaxAttempts:   10,
		Interval:      time.Second,
		OnProvisioned: func() { provisioned++ },
		Sleep:         func(time.Duration) { slept++ },
	}

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PollProvisioned, result.State)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, *calls)
	assert.Equal(t, 1, provisioned, "side effect must fire exactly once")
	assert.Equal(t, 2, slept, "no sleep after the terminal observation")
}

func TestPollerStopsAtAttemptCeiling(t *testing.T) {
	t.Parallel()

	fetch, calls := scriptedFetch("PROVISIONING")
	provisioned := 0

	p := &Poller{
		Target:        "analytics",
		Fetch:         fetch,
		Success:       []string{"PROVISIONED"},
		Failure:       []string{"PROVISION_FAILED"},
		MaxAttempts:   10,
		Interval:      time.Second,
		OnProvisioned: func() { provisioned++ },
		Sleep:         func(time.Duration) {},
	}

	result, err := p.Run(context.Background())
	assert.Equal(t, PollTimedOut, result.State)
	assert.Equal(t, 10, result.Attempts)
	assert.Equal(t, 10, *calls, "at most MaxAttempts fetches")
	assert.Equal(t, 0, provisioned, "no side effect without the Provisioned transition")

	var timeout *strerrors.PollTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, 10, timeout.Attempts)
	assert.Equal(t, "PROVISIONING", timeout.LastState)
}

func TestPollerTerminatesOnFailureState(t *testing.T) {
	t.Parallel()

	fetch, _ := scriptedFetch("PROVISIONING", "PROVISION_FAILED")
	provisioned := 0

	p := &Poller{
		Target:        "analytics",
		Fetch:         fetch,
		Success:       []string{"PROVISIONED"},
		Failure:       []string{"PROVISION_FAILED"},
		MaxAttempts:   10,
		Interval:      time.Second,
		OnProvisioned: func() { provisioned++ },
		Sleep:         func(time.Duration) {},
	}

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PollFailed, result.State)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 0, provisioned)
}

func TestPollerPropagatesFetchFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	p := &Poller{
		Target:      "analytics",
		Fetch:       func(ctx context.Context) (string, error) { return "", boom },
		Success:     []string{"PROVISIONED"},
		MaxAttempts: 10,
		Sleep:       func(time.Duration) {},
	}

	result, err := p.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, PollPolling, result.State)
	assert.Equal(t, 0, result.Attempts)
}

func TestPollStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "requested", PollRequested.String())
	assert.Equal(t, "polling", PollPolling.String())
	assert.Equal(t, "provisioned", PollProvisioned.String())
	assert.Equal(t, "failed", PollFailed.String())
	assert.Equal(t, "timed_out", PollTimedOut.String())
}
