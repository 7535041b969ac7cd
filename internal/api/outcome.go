package api

import "net/http"

// Outcome is the closed set of results a mutating platform call can
// produce. The batch endpoints return one outcome for the whole request, so
// this is the granularity at which results can be reported.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeBadRequest
	OutcomeUnauthorized
	OutcomeForbidden
	OutcomeValidation
	OutcomeRateLimited
	OutcomeServerError
	OutcomeUnknown
)

// String returns the wire-level name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeBadRequest:
		return "bad_request"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeValidation:
		return "validation_error"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Message returns the human explanation attached to ledger records when a
// batch mutation resolves with this outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return "request accepted by the platform"
	case OutcomeBadRequest:
		return "the platform rejected the request as malformed"
	case OutcomeUnauthorized:
		return "the session is not authenticated; sign in again"
	case OutcomeForbidden:
		return "the operation is not permitted for this tenant"
	case OutcomeValidation:
		return "the platform rejected the request payload as invalid"
	case OutcomeRateLimited:
		return "the platform is rate limiting this tenant; retry later"
	case OutcomeServerError:
		return "the platform reported an internal error"
	default:
		return "the request failed with an unrecognized error"
	}
}

// OutcomeFromStatus maps an HTTP response code onto the closed outcome set.
func OutcomeFromStatus(code int) Outcome {
	switch {
	case code >= 200 && code < 300:
		return OutcomeSuccess
	case code == http.StatusBadRequest:
		return OutcomeBadRequest
	case code == http.StatusUnauthorized:
		return OutcomeUnauthorized
	case code == http.StatusForbidden:
		return OutcomeForbidden
	case code == http.StatusUnprocessableEntity:
		return OutcomeValidation
	case code == http.StatusTooManyRequests:
		return OutcomeRateLimited
	case code >= 500 && code < 600:
		return OutcomeServerError
	default:
		return OutcomeUnknown
	}
}
