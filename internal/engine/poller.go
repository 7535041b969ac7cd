package engine

import (
	"context"
	"time"

	"github.com/alexisbeaulieu97/strato/internal/logger"
	strerrors "github.com/alexisbeaulieu97/strato/pkg/errors"
)

// PollState is a state of the provisioning confirmation machine.
type PollState int

const (
	// PollRequested means the triggering mutation was accepted and polling
	// has not started yet.
	PollRequested PollState = iota
	// PollPolling means the poller is re-fetching remote state.
	PollPolling
	// PollProvisioned means the remote resource reached a success state.
	PollProvisioned
	// PollFailed means the remote resource reached a failure state.
	PollFailed
	// PollTimedOut means the attempt ceiling was reached without a terminal
	// observation.
	PollTimedOut
)

// String returns a human-readable name for the state.
func (s PollState) String() string {
	switch s {
	case PollRequested:
		return "requested"
	case PollPolling:
		return "polling"
	case PollProvisioned:
		return "provisioned"
	case PollFailed:
		return "failed"
	case PollTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// PollResult reports how a polling session ended.
type PollResult struct {
	State        PollState
	Attempts     int
	LastObserved string
}

// Poller confirms an asynchronous remote transition by re-fetching the
// target resource's state until a terminal value or the attempt ceiling.
//
//	Requested -> Polling -> {Provisioned, Failed, TimedOut}
//
// The ceiling is the only bound; there is no caller-facing cancellation
// beyond the context passed to Fetch.
type Poller struct {
	Target      string
	Fetch       func(ctx context.Context) (string, error)
	Success     []string
	Failure     []string
	MaxAttempts int
	Interval    time.Duration

	// OnProvisioned fires exactly once, on the transition into
	// PollProvisioned, and never for any other terminal state.
	OnProvisioned func()

	// Sleep is swappable in tests; nil means time.Sleep.
	Sleep func(time.Duration)

	Log *logger.Logger
}

// Run drives the machine to a terminal state. It performs at most
// MaxAttempts fetches. A fetch failure is fatal and surfaces unchanged;
// exhausting the ceiling returns the TimedOut result together with a
// PollTimeoutError.
func (p *Poller) Run(ctx context.Context) (PollResult, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	log := p.Log.WithComponent("poller").WithFields(map[string]any{"target": p.Target})

	result := PollResult{State: PollRequested}

	// The triggering mutation already succeeded; start polling immediately.
	result.State = PollPolling

	for result.Attempts < p.MaxAttempts {
		observed, err := p.Fetch(ctx)
		if err != nil {
			return result, err
		}
		result.Attempts++
		result.LastObserved = observed
		log.WithFields(map[string]any{
			"attempt": result.Attempts,
			"state":   observed,
		}).Debug("observed remote state")

		if contains(p.Success, observed) {
			result.State = PollProvisioned
			if p.OnProvisioned != nil {
				p.OnProvisioned()
			}
			log.WithFields(map[string]any{"attempts": result.Attempts}).Info("provisioning confirmed")
			return result, nil
		}
		if contains(p.Failure, observed) {
			result.State = PollFailed
			log.WithFields(map[string]any{"attempts": result.Attempts, "state": observed}).Warn("provisioning failed upstream")
			return result, nil
		}

		if result.Attempts < p.MaxAttempts {
			sleep(p.Interval)
		}
	}

	result.State = PollTimedOut
	err := strerrors.NewPollTimeoutError(p.Target, result.Attempts, result.LastObserved)
	log.Error(err, "provisioning confirmation timed out")
	return result, err
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
