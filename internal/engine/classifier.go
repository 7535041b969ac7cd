package engine

import (
	"fmt"

	"github.com/alexisbeaulieu97/strato/internal/api"
	"github.com/alexisbeaulieu97/strato/internal/ledger"
	"github.com/alexisbeaulieu97/strato/internal/resolver"
)

// devicePolicy parameterizes device classification for one operation.
// Eligible rejects devices of the wrong subtype for the operation (the
// returned message names the violated constraint). Satisfied detects
// devices already in the desired end state (the returned message explains
// why no action is needed).
type devicePolicy struct {
	eligible  func(api.Device) (bool, string)
	satisfied func(api.Device) (bool, string)
}

// classifyDevices partitions the ledger against the device snapshot.
// Rules are evaluated in a fixed order and the first match wins: absent
// from snapshot, wrong subtype, ambiguous display name, already satisfied,
// otherwise actionable. Entries left actionable keep an unset status until
// the batch mutator resolves them.
func classifyDevices(led *ledger.Ledger, snap *resolver.DeviceSnapshot, policy devicePolicy) (int, error) {
	actionable := 0
	for i := 0; i < led.Len(); i++ {
		rec := led.Record(i)

		device, match := snap.Lookup(rec.Identifier)
		switch match {
		case resolver.MatchNone:
			if err := led.Classify(i, rec.Fail("device not found in inventory")); err != nil {
				return actionable, err
			}
			continue
		case resolver.MatchAmbiguous:
			if err := led.Classify(i, rec.Fail("display name matches multiple devices; use the serial number")); err != nil {
				return actionable, err
			}
			continue
		}

		if policy.eligible != nil {
			if ok, constraint := policy.eligible(device); !ok {
				if err := led.Classify(i, rec.Fail(constraint)); err != nil {
					return actionable, err
				}
				continue
			}
		}

		if policy.satisfied != nil {
			if ok, reason := policy.satisfied(device); ok {
				if err := led.Classify(i, rec.Warn(reason)); err != nil {
					return actionable, err
				}
				continue
			}
		}

		if err := led.MarkActionable(i); err != nil {
			return actionable, err
		}
		actionable++
	}
	return actionable, nil
}

// describeService names a service for ledger details.
func describeService(svc api.Service) string {
	return fmt.Sprintf("service %q in region %s", svc.Name, svc.Region)
}
