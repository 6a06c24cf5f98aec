package services

import "errors"

// FaultKind is the stable machine-readable classification of a failure.
type FaultKind string

const (
	KindNotFound            FaultKind = "not_found"
	KindInsufficientBalance FaultKind = "insufficient_balance"
	KindAlreadyCheckedIn    FaultKind = "already_checked_in"
	KindRewardUnavailable   FaultKind = "reward_unavailable"
	KindConflict            FaultKind = "conflict"
	KindInvalidArgument     FaultKind = "invalid_argument"
	KindInternal            FaultKind = "internal"
)

// Fault is a typed failure returned by the ledger core. Business outcomes
// (insufficient balance, already checked in) are Faults, never panics; callers
// branch on Kind and surface Message to the client.
type Fault struct {
	Kind    FaultKind
	Message string
	cause   error
}

func (f *Fault) Error() string {
	return string(f.Kind) + ": " + f.Message
}

// Unwrap exposes the underlying storage error, if any, for logging.
func (f *Fault) Unwrap() error {
	return f.cause
}

// NewFault creates a typed failure.
func NewFault(kind FaultKind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

// AsFault unwraps err into a Fault when possible.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsKind reports whether err is a Fault of the given kind.
func IsKind(err error, kind FaultKind) bool {
	if f, ok := AsFault(err); ok {
		return f.Kind == kind
	}
	return false
}

// internalFault wraps an unexpected storage error. The client-facing message
// stays generic; the cause is kept for logs via Unwrap.
func internalFault(err error) *Fault {
	return &Fault{Kind: KindInternal, Message: "internal error, please try again later", cause: err}
}
