// Package ledger tracks one result record per requested identifier for the
// duration of a single orchestration operation. The ledger preserves input
// order, enforces that every record is classified exactly once, and owns the
// actionable partition handed to the batch mutator.
package ledger

import (
	"fmt"

	"github.com/alexisbeaulieu97/strato/internal/model"
)

// Ledger holds the per-operation status records in input order.
type Ledger struct {
	records    []model.Record
	actionable []int
}

// New creates a ledger with one unclassified record per identifier, in the
// order supplied by the caller. Duplicate identifiers each get their own
// record; the ledger never drops or merges entries.
func New(identifiers []string, ctx model.Context) *Ledger {
	records := make([]model.Record, 0, len(identifiers))
	for _, id := range identifiers {
		records = append(records, model.NewRecord(id, ctx))
	}
	return &Ledger{records: records}
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Record returns the record at index i.
func (l *Ledger) Record(i int) model.Record {
	return l.records[i]
}

// Classify assigns a terminal record at index i. Classifying a record twice
// is a programming error and is rejected to keep the one-terminal-status
// invariant checkable in tests.
func (l *Ledger) Classify(i int, rec model.Record) error {
	current := l.records[i]
	if current.Terminal() {
		return fmt.Errorf("record %q already classified as %s", current.Identifier, current.Status)
	}
	if !rec.Terminal() {
		return fmt.Errorf("record %q: classification must assign a terminal status", current.Identifier)
	}
	if rec.Identifier != current.Identifier {
		return fmt.Errorf("record identifier mismatch: %q != %q", rec.Identifier, current.Identifier)
	}
	l.records[i] = rec
	return nil
}

// MarkActionable adds the record at index i to the actionable partition,
// leaving its status unset pending the batch mutation outcome.
func (l *Ledger) MarkActionable(i int) error {
	if l.records[i].Terminal() {
		return fmt.Errorf("record %q already classified as %s", l.records[i].Identifier, l.records[i].Status)
	}
	l.actionable = append(l.actionable, i)
	return nil
}

// ActionableIdentifiers returns the identifiers of the actionable partition
// in input order.
func (l *Ledger) ActionableIdentifiers() []string {
	ids := make([]string, 0, len(l.actionable))
	for _, i := range l.actionable {
		ids = append(ids, l.records[i].Identifier)
	}
	return ids
}

// ResolveActionable applies one uniform transition to every actionable
// record. The batch mutator calls this exactly once per operation: the
// single wire-level outcome maps identically onto the whole partition.
func (l *Ledger) ResolveActionable(transition func(model.Record) model.Record) {
	for _, i := range l.actionable {
		l.records[i] = transition(l.records[i])
	}
	l.actionable = nil
}

// Records returns a copy of all records in input order.
func (l *Ledger) Records() []model.Record {
	out := make([]model.Record, len(l.records))
	copy(out, l.records)
	return out
}

// HasFailures reports whether any record ended in StatusFailed.
func (l *Ledger) HasFailures() bool {
	for _, rec := range l.records {
		if rec.Status == model.StatusFailed {
			return true
		}
	}
	return false
}

// Summary aggregates terminal statuses for logging and exit codes.
type Summary struct {
	Total    int
	Complete int
	Warning  int
	Failed   int
}

// Summarize counts records by terminal status.
func (l *Ledger) Summarize() Summary {
	s := Summary{Total: len(l.records)}
	for _, rec := range l.records {
		switch rec.Status {
		case model.StatusComplete:
			s.Complete++
		case model.StatusWarning:
			s.Warning++
		case model.StatusFailed:
			s.Failed++
		}
	}
	return s
}
