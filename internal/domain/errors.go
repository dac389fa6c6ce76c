package domain

import "fmt"

// InvalidStateError reports an unrecognized state token in a request.
type InvalidStateError struct {
	Token string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid movie state %q", e.Token)
}

// InvalidStateTransitionError reports a lifecycle transition rejected by the
// transition rules. Reason is the human-readable message returned to clients.
type InvalidStateTransitionError struct {
	Reason string
}

func (e *InvalidStateTransitionError) Error() string {
	return e.Reason
}
