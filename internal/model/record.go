package model

// Status is the terminal classification of a single requested identifier.
type Status string

const (
	// StatusComplete marks an identifier whose mutation was applied.
	StatusComplete Status = "complete"
	// StatusWarning marks an identifier that needed no action.
	StatusWarning Status = "warning"
	// StatusFailed marks an identifier that could not be processed.
	StatusFailed Status = "failed"
)

// Context carries the operation-scoped targets attached to every record at
// creation time. Fields are informational and never mutated afterwards.
type Context struct {
	Service  string `json:"service,omitempty"`
	Region   string `json:"region,omitempty"`
	Location string `json:"location,omitempty"`
}

// Record is the per-identifier result of one orchestration operation.
//
// A record starts unclassified (empty Status) and is replaced, not mutated,
// at each transition: Complete, Warn and Fail return a copy carrying the
// terminal status. Identifier and Context never change after creation.
type Record struct {
	Identifier string  `json:"identifier"`
	Context    Context `json:"context,omitempty"`
	Status     Status  `json:"status"`
	Details    string  `json:"details"`
	Err        error   `json:"-"`
}

// NewRecord creates an unclassified record for one requested identifier.
func NewRecord(identifier string, ctx Context) Record {
	return Record{Identifier: identifier, Context: ctx}
}

// Terminal reports whether the record has reached a final status.
func (r Record) Terminal() bool {
	return r.Status != ""
}

// Complete returns a copy of the record marked successfully applied.
func (r Record) Complete(details string) Record {
	r.Status = StatusComplete
	r.Details = details
	r.Err = nil
	return r
}

// Warn returns a copy of the record marked as needing no action.
func (r Record) Warn(details string) Record {
	r.Status = StatusWarning
	r.Details = details
	r.Err = nil
	return r
}

// Fail returns a copy of the record marked failed without an attempted
// mutation (classification failures carry no exception payload).
func (r Record) Fail(details string) Record {
	r.Status = StatusFailed
	r.Details = details
	r.Err = nil
	return r
}

// FailWith returns a copy of the record marked failed by a rejected
// mutating call, keeping the raw error payload for diagnostics.
func (r Record) FailWith(details string, err error) Record {
	r.Status = StatusFailed
	r.Details = details
	r.Err = err
	return r
}

// ErrorText renders the attached error payload, if any.
func (r Record) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
