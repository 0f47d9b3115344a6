package api

import "fmt"

// IsTerminal reports whether a response in this status can no longer change.
func (s ResponseStatus) IsTerminal() bool {
	switch s {
	case ResponseStatusCompleted, ResponseStatusIncomplete, ResponseStatusFailed, ResponseStatusCancelled:
		return true
	}
	return false
}

// ValidateResponseTransition checks whether a response status transition is valid.
// An empty "from" status represents the initial state before any status has been set.
// Terminal states do not allow outgoing transitions.
func ValidateResponseTransition(from, to ResponseStatus) error {
	valid := map[ResponseStatus][]ResponseStatus{
		"":                   {ResponseStatusQueued, ResponseStatusInProgress},
		ResponseStatusQueued: {ResponseStatusInProgress, ResponseStatusCancelled},
		ResponseStatusInProgress: {
			ResponseStatusCompleted, ResponseStatusIncomplete, ResponseStatusFailed,
			ResponseStatusCancelled, ResponseStatusRequiresAction,
		},
		ResponseStatusRequiresAction: {ResponseStatusInProgress, ResponseStatusCancelled},
	}

	for _, s := range valid[from] {
		if s == to {
			return nil
		}
	}
	return NewInvalidRequestError(fmt.Sprintf("invalid transition from %q to %q", from, to))
}
