package engine

// Admission is the verdict of the quota pre-check applied before creating a
// limited resource class.
type Admission int

const (
	// AdmissionAllowed lets the creation proceed.
	AdmissionAllowed Admission = iota
	// AdmissionDenied stops the creation before any mutating call.
	AdmissionDenied
)

// DefaultCredentialCeiling is the platform limit on API credentials per
// tenant.
const DefaultCredentialCeiling = 7

// Admit decides whether creating one more resource would stay within the
// ceiling. Pure function; the caller supplies a freshly read count. The
// check is advisory: another actor can create a resource between this check
// and the mutating call, and the backend stays the source of truth.
func Admit(current, ceiling int) Admission {
	if current >= ceiling {
		return AdmissionDenied
	}
	return AdmissionAllowed
}
