package engine

import (
	"context"

	"github.com/alexisbeaulieu97/strato/internal/api"
	"github.com/alexisbeaulieu97/strato/internal/ledger"
	"github.com/alexisbeaulieu97/strato/internal/logger"
	"github.com/alexisbeaulieu97/strato/internal/model"
)

// mutateFunc issues the single batched platform call for one operation's
// actionable identifiers.
type mutateFunc func(ctx context.Context, identifiers []string) (api.Outcome, error)

// applyBatch resolves the ledger's actionable partition through exactly one
// mutating call. An empty partition short-circuits without touching the
// network. The one returned outcome is applied uniformly: the platform's
// batch endpoints report a single result for the whole request, so per-item
// granularity beyond what classification already filtered is not available.
func applyBatch(ctx context.Context, log *logger.Logger, led *ledger.Ledger, successDetails string, mutate mutateFunc) error {
	identifiers := led.ActionableIdentifiers()
	if len(identifiers) == 0 {
		log.Debug("no actionable identifiers; skipping mutation")
		return nil
	}

	log.WithFields(map[string]any{"actionable": len(identifiers)}).Debug("issuing batched mutation")
	outcome, err := mutate(ctx, identifiers)

	if outcome == api.OutcomeSuccess {
		led.ResolveActionable(func(rec model.Record) model.Record {
			return rec.Complete(successDetails)
		})
		log.WithFields(map[string]any{"outcome": outcome.String()}).Info("batch mutation applied")
		return nil
	}

	details := outcome.Message()
	led.ResolveActionable(func(rec model.Record) model.Record {
		return rec.FailWith(details, err)
	})
	log.WithFields(map[string]any{"outcome": outcome.String()}).Error(err, "batch mutation rejected")
	return nil
}
