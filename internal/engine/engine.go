// Package engine implements the batch reconciliation and confirmation core:
// snapshot remote state once, partition the requested identifiers into
// satisfied / invalid / actionable, issue one batched mutation for the
// actionable subset, and map the single wire-level outcome back onto every
// record. Asynchronous provisioning is confirmed by a bounded poller, and
// credential creation is gated by a quota admission check.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/strato/internal/api"
	"github.com/alexisbeaulieu97/strato/internal/ledger"
	"github.com/alexisbeaulieu97/strato/internal/logger"
	"github.com/alexisbeaulieu97/strato/internal/model"
	"github.com/alexisbeaulieu97/strato/internal/resolver"
	"github.com/alexisbeaulieu97/strato/internal/session"
	strerrors "github.com/alexisbeaulieu97/strato/pkg/errors"
)

// Mutator is the write side of the platform API consumed by the engine.
type Mutator interface {
	AssignDevices(ctx context.Context, serials []string, serviceID string) (api.Outcome, error)
	UnassignDevices(ctx context.Context, serials []string, serviceID string) (api.Outcome, error)
	AssignLocation(ctx context.Context, serials []string, locationID string) (api.Outcome, error)
	ProvisionService(ctx context.Context, name, region string) (api.Outcome, error)
	CreateCredential(ctx context.Context, name, serviceID string) (api.Credential, api.Outcome, error)
	CreateWebhook(ctx context.Context, name, target string, events []string) (api.Outcome, error)
	DeleteWebhooks(ctx context.Context, ids []string) (api.Outcome, error)
}

// Settings tunes the engine's confirmation and admission behavior.
type Settings struct {
	PollInterval      time.Duration
	PollMaxAttempts   int
	CredentialCeiling int
}

// Defaults fills unset settings.
func (s Settings) withDefaults() Settings {
	if s.PollInterval == 0 {
		s.PollInterval = 15 * time.Second
	}
	if s.PollMaxAttempts == 0 {
		s.PollMaxAttempts = 10
	}
	if s.CredentialCeiling == 0 {
		s.CredentialCeiling = DefaultCredentialCeiling
	}
	return s
}

// Engine runs orchestration operations against the platform.
type Engine struct {
	resolver *resolver.Resolver
	mutator  Mutator
	session  *session.Store
	log      *logger.Logger
	settings Settings

	sleep func(time.Duration)
}

// New creates an engine. The session store is injected so the caller owns
// its lifecycle; the engine only writes into it on confirmed provisioning
// and issued credentials.
func New(res *resolver.Resolver, mut Mutator, store *session.Store, log *logger.Logger, settings Settings) *Engine {
	return &Engine{
		resolver: res,
		mutator:  mut,
		session:  store,
		log:      log,
		settings: settings.withDefaults(),
	}
}

func (e *Engine) opLogger(operation string) *logger.Logger {
	return e.log.WithFields(map[string]any{
		"operation":    operation,
		"operation_id": uuid.NewString(),
	})
}

// AssignDevices attaches the requested devices to a service. Devices
// already on the target service classify as Warning; unknown serials,
// ambiguous names, unmanaged devices and devices held by another service
// classify as Failed without touching the network.
func (e *Engine) AssignDevices(ctx context.Context, identifiers []string, serviceName, region string) (*ledger.Ledger, error) {
	log := e.opLogger("device_assign")
	log.WithFields(map[string]any{"identifiers": len(identifiers), "service": serviceName}).Info("starting operation")

	services, err := e.resolver.Services(ctx, region)
	if err != nil {
		return nil, err
	}
	svc, ok := services.ByName(serviceName)
	if !ok {
		return nil, strerrors.NewValidationError("service", fmt.Sprintf("service %q not found in region %s", serviceName, region), nil)
	}

	devices, err := e.resolver.Devices(ctx)
	if err != nil {
		return nil, err
	}

	led := ledger.New(identifiers, model.Context{Service: serviceName, Region: region})
	actionable, err := classifyDevices(led, devices, devicePolicy{
		eligible: func(d api.Device) (bool, string) {
			if !d.Managed {
				return false, "device is not under management; only managed devices can be assigned to a service"
			}
			if d.ServiceID != "" && d.ServiceID != svc.ID {
				return false, "device is assigned to a different service; unassign it first"
			}
			return true, ""
		},
		satisfied: func(d api.Device) (bool, string) {
			if d.ServiceID == svc.ID {
				return true, fmt.Sprintf("already assigned to %s; no action needed", describeService(svc))
			}
			return false, ""
		},
	})
	if err != nil {
		return led, err
	}
	log.WithFields(map[string]any{"actionable": actionable, "total": led.Len()}).Debug("classification finished")

	err = applyBatch(ctx, log, led, fmt.Sprintf("assigned to %s", describeService(svc)),
		func(ctx context.Context, ids []string) (api.Outcome, error) {
			return e.mutator.AssignDevices(ctx, ids, svc.ID)
		})
	return led, err
}

// UnassignDevices detaches the requested devices from a service. Devices
// with no service assignment classify as Warning; devices attached to a
// different service classify as Failed.
func (e *Engine) UnassignDevices(ctx context.Context, identifiers []string, serviceName, region string) (*ledger.Ledger, error) {
	log := e.opLogger("device_unassign")
	log.WithFields(map[string]any{"identifiers": len(identifiers), "service": serviceName}).Info("starting operation")

	services, err := e.resolver.Services(ctx, region)
	if err != nil {
		return nil, err
	}
	svc, ok := services.ByName(serviceName)
	if !ok {
		return nil, strerrors.NewValidationError("service", fmt.Sprintf("service %q not found in region %s", serviceName, region), nil)
	}

	devices, err := e.resolver.Devices(ctx)
	if err != nil {
		return nil, err
	}

	led := ledger.New(identifiers, model.Context{Service: serviceName, Region: region})
	_, err = classifyDevices(led, devices, devicePolicy{
		eligible: func(d api.Device) (bool, string) {
			if d.ServiceID != "" && d.ServiceID != svc.ID {
				return false, "device is assigned to a different service"
			}
			return true, ""
		},
		satisfied: func(d api.Device) (bool, string) {
			if d.ServiceID == "" {
				return true, "not assigned to any service; no action needed"
			}
			return false, ""
		},
	})
	if err != nil {
		return led, err
	}

	err = applyBatch(ctx, log, led, fmt.Sprintf("unassigned from %s", describeService(svc)),
		func(ctx context.Context, ids []string) (api.Outcome, error) {
			return e.mutator.UnassignDevices(ctx, ids, svc.ID)
		})
	return led, err
}

// AssignLocation moves the requested devices to a site.
func (e *Engine) AssignLocation(ctx context.Context, identifiers []string, locationName string) (*ledger.Ledger, error) {
	log := e.opLogger("device_locate")
	log.WithFields(map[string]any{"identifiers": len(identifiers), "location": locationName}).Info("starting operation")

	locations, err := e.resolver.Locations(ctx)
	if err != nil {
		return nil, err
	}
	loc, match := locations.ByName(locationName)
	switch match {
	case resolver.MatchNone:
		return nil, strerrors.NewValidationError("location", fmt.Sprintf("location %q not found", locationName), nil)
	case resolver.MatchAmbiguous:
		return nil, strerrors.NewValidationError("location", fmt.Sprintf("location %q matches multiple sites", locationName), nil)
	}

	devices, err := e.resolver.Devices(ctx)
	if err != nil {
		return nil, err
	}

	led := ledger.New(identifiers, model.Context{Location: locationName})
	_, err = classifyDevices(led, devices, devicePolicy{
		eligible: func(d api.Device) (bool, string) {
			if !d.Managed {
				return false, "device is not under management; only managed devices can be assigned to a location"
			}
			return true, ""
		},
		satisfied: func(d api.Device) (bool, string) {
			if d.LocationID == loc.ID {
				return true, fmt.Sprintf("already at location %q; no action needed", locationName)
			}
			return false, ""
		},
	})
	if err != nil {
		return led, err
	}

	err = applyBatch(ctx, log, led, fmt.Sprintf("assigned to location %q", locationName),
		func(ctx context.Context, ids []string) (api.Outcome, error) {
			return e.mutator.AssignLocation(ctx, ids, loc.ID)
		})
	return led, err
}

// ProvisionService provisions a service into a region and confirms the
// asynchronous transition with the bounded poller. An already provisioned
// service classifies as Warning; an in-flight provisioning is joined
// without issuing a second request. On the confirmed transition the service
// endpoint is registered into the session store exactly once.
func (e *Engine) ProvisionService(ctx context.Context, name, region string) (*ledger.Ledger, error) {
	log := e.opLogger("service_provision")
	log.WithFields(map[string]any{"service": name, "region": region}).Info("starting operation")

	services, err := e.resolver.Services(ctx, region)
	if err != nil {
		return nil, err
	}

	led := ledger.New([]string{name}, model.Context{Region: region})

	requestProvision := true
	if svc, exists := services.ByName(name); exists {
		switch svc.State {
		case api.ServiceStateProvisioned:
			if cErr := led.Classify(0, led.Record(0).Warn(fmt.Sprintf("already provisioned in region %s; no action needed", region))); cErr != nil {
				return led, cErr
			}
			return led, nil
		case api.ServiceStateProvisioning:
			// Join the in-flight provisioning instead of re-requesting.
			requestProvision = false
			log.Debug("provisioning already in flight; joining confirmation")
		}
		// A failed previous attempt is actionable: re-request.
	}

	if requestProvision {
		outcome, mErr := e.mutator.ProvisionService(ctx, name, region)
		if outcome != api.OutcomeSuccess {
			if cErr := led.Classify(0, led.Record(0).FailWith(outcome.Message(), mErr)); cErr != nil {
				return led, cErr
			}
			log.WithFields(map[string]any{"outcome": outcome.String()}).Error(mErr, "provisioning request rejected")
			return led, nil
		}
	}

	var confirmed api.Service
	poller := &Poller{
		Target: name,
		Fetch: func(ctx context.Context) (string, error) {
			svc, found, fErr := e.resolver.ServiceState(ctx, region, name)
			if fErr != nil {
				return "", fErr
			}
			if !found {
				// Not visible yet; counts as a non-terminal observation.
				return "", nil
			}
			confirmed = svc
			return svc.State, nil
		},
		Success:     []string{api.ServiceStateProvisioned},
		Failure:     []string{api.ServiceStateFailed},
		MaxAttempts: e.settings.PollMaxAttempts,
		Interval:    e.settings.PollInterval,
		OnProvisioned: func() {
			if confirmed.Endpoint == "" {
				return
			}
			if e.session.RegisterEndpoint(name, confirmed.Endpoint) {
				log.WithFields(map[string]any{"endpoint": confirmed.Endpoint}).Debug("service endpoint registered for this session")
			}
		},
		Sleep: e.sleep,
		Log:   e.log,
	}

	result, pollErr := poller.Run(ctx)
	switch result.State {
	case PollProvisioned:
		if cErr := led.Classify(0, led.Record(0).Complete(fmt.Sprintf("provisioned in region %s", region))); cErr != nil {
			return led, cErr
		}
		return led, nil
	case PollFailed:
		if cErr := led.Classify(0, led.Record(0).Fail("provisioning failed upstream")); cErr != nil {
			return led, cErr
		}
		return led, nil
	default:
		// Timeout or a fetch failure mid-confirmation. The ledger still
		// reports a terminal record; the error propagates so the caller can
		// distinguish the aborted operation.
		if cErr := led.Classify(0, led.Record(0).FailWith("provisioning could not be confirmed", pollErr)); cErr != nil {
			return led, cErr
		}
		return led, pollErr
	}
}

// CreateCredential issues an API credential for a service, gated by the
// quota admission check against a freshly read credential count. The issued
// secret is cached in the session store; the platform never returns it
// again.
func (e *Engine) CreateCredential(ctx context.Context, name, serviceName, region string) (*ledger.Ledger, error) {
	log := e.opLogger("credential_create")
	log.WithFields(map[string]any{"credential": name, "service": serviceName}).Info("starting operation")

	services, err := e.resolver.Services(ctx, region)
	if err != nil {
		return nil, err
	}
	svc, ok := services.ByName(serviceName)
	if !ok {
		return nil, strerrors.NewValidationError("service", fmt.Sprintf("service %q not found in region %s", serviceName, region), nil)
	}

	credentials, err := e.resolver.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	led := ledger.New([]string{name}, model.Context{Service: serviceName, Region: region})

	if existing, exists := credentials.ByName(name); exists {
		rec := led.Record(0)
		if existing.ServiceID == svc.ID {
			if cErr := led.Classify(0, rec.Warn("credential already exists; no action needed")); cErr != nil {
				return led, cErr
			}
		} else {
			if cErr := led.Classify(0, rec.Fail("credential name already in use for a different service")); cErr != nil {
				return led, cErr
			}
		}
		return led, nil
	}

	if Admit(credentials.Count(), e.settings.CredentialCeiling) == AdmissionDenied {
		denial := strerrors.NewQuotaExceededError("API credential", credentials.Count(), e.settings.CredentialCeiling)
		if cErr := led.Classify(0, led.Record(0).Fail(denial.Error())); cErr != nil {
			return led, cErr
		}
		log.WithFields(map[string]any{"count": credentials.Count(), "ceiling": e.settings.CredentialCeiling}).Warn("credential creation denied by quota")
		return led, nil
	}

	if err := led.MarkActionable(0); err != nil {
		return led, err
	}

	var issued api.Credential
	err = applyBatch(ctx, log, led, "credential issued; secret cached for this session",
		func(ctx context.Context, ids []string) (api.Outcome, error) {
			cred, outcome, mErr := e.mutator.CreateCredential(ctx, name, svc.ID)
			issued = cred
			return outcome, mErr
		})
	if err != nil {
		return led, err
	}

	if issued.ID != "" {
		e.session.CacheCredential(issued)
	}
	return led, nil
}

// CreateWebhook registers an event delivery target. A webhook already
// registered with the same name and URL classifies as Warning; the same
// name pointing elsewhere classifies as Failed.
func (e *Engine) CreateWebhook(ctx context.Context, name, target string, events []string) (*ledger.Ledger, error) {
	log := e.opLogger("webhook_create")
	log.WithFields(map[string]any{"webhook": name}).Info("starting operation")

	webhooks, err := e.resolver.Webhooks(ctx)
	if err != nil {
		return nil, err
	}

	led := ledger.New([]string{name}, model.Context{})

	if existing, exists := webhooks.ByName(name); exists {
		rec := led.Record(0)
		if existing.URL == target {
			if cErr := led.Classify(0, rec.Warn("webhook already registered; no action needed")); cErr != nil {
				return led, cErr
			}
		} else {
			if cErr := led.Classify(0, rec.Fail("webhook name already in use with a different target URL")); cErr != nil {
				return led, cErr
			}
		}
		return led, nil
	}

	if err := led.MarkActionable(0); err != nil {
		return led, err
	}

	err = applyBatch(ctx, log, led, fmt.Sprintf("webhook registered for %s", target),
		func(ctx context.Context, ids []string) (api.Outcome, error) {
			return e.mutator.CreateWebhook(ctx, name, target, events)
		})
	return led, err
}

// DeleteWebhooks removes the requested webhooks in one batched call.
func (e *Engine) DeleteWebhooks(ctx context.Context, names []string) (*ledger.Ledger, error) {
	log := e.opLogger("webhook_delete")
	log.WithFields(map[string]any{"identifiers": len(names)}).Info("starting operation")

	webhooks, err := e.resolver.Webhooks(ctx)
	if err != nil {
		return nil, err
	}

	led := ledger.New(names, model.Context{})
	ids := make(map[string]string, led.Len())
	for i := 0; i < led.Len(); i++ {
		rec := led.Record(i)
		existing, exists := webhooks.ByName(rec.Identifier)
		if !exists {
			if cErr := led.Classify(i, rec.Fail("webhook not found")); cErr != nil {
				return led, cErr
			}
			continue
		}
		ids[rec.Identifier] = existing.ID
		if err := led.MarkActionable(i); err != nil {
			return led, err
		}
	}

	err = applyBatch(ctx, log, led, "webhook deleted",
		func(ctx context.Context, names []string) (api.Outcome, error) {
			batch := make([]string, 0, len(names))
			for _, n := range names {
				batch = append(batch, ids[n])
			}
			return e.mutator.DeleteWebhooks(ctx, batch)
		})
	return led, err
}
