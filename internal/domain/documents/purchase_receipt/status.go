package purchase_receipt

import "ironstock/internal/core/apperror"

// Status is the receipt lifecycle state.
type Status string

const (
	// StatusPending is the initial state: receipt drafted, goods not yet in.
	StatusPending Status = "pending"
	// StatusReceived means goods arrived; receipt still editable.
	StatusReceived Status = "received"
	// StatusCompleted is terminal: stock has been materialized.
	StatusCompleted Status = "completed"
	// StatusCancelled is terminal: receipt voided, no stock effects.
	StatusCancelled Status = "cancelled"
)

// transitions is the adjacency map of legal lifecycle moves.
// Received never goes back to Pending; Completed and Cancelled allow nothing.
var transitions = map[Status][]Status{
	StatusPending:   {StatusReceived, StatusCancelled},
	StatusReceived:  {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether moving to target is legal.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Transition validates and returns the target status,
// or an invalid-transition error naming both states.
func (s Status) Transition(target Status) (Status, error) {
	if !target.IsValid() {
		return s, apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(target))
	}
	if !s.CanTransitionTo(target) {
		return s, apperror.NewInvalidTransition(string(s), string(target))
	}
	return target, nil
}
