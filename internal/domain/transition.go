package domain

import "fmt"

// TransitionPolicy is the one place status changes are checked. Callers set status
// directly on create and update; the policy decides whether that move is allowed.
type TransitionPolicy interface {
	Check(from, to RentalStatus) error
}

// PermissivePolicy allows any move, including completed -> active. This matches the
// behaviour existing clients rely on.
type PermissivePolicy struct{}

func (PermissivePolicy) Check(from, to RentalStatus) error { return nil }

// StrictPolicy only allows forward moves through the lifecycle.
type StrictPolicy struct{}

// The empty status stands for a rental that does not exist yet.
var strictMoves = map[RentalStatus][]RentalStatus{
	"":                  {RentalStatusPending, RentalStatusActive},
	RentalStatusPending: {RentalStatusActive, RentalStatusCancelled},
	RentalStatusActive:  {RentalStatusCompleted, RentalStatusCancelled},
}

func (StrictPolicy) Check(from, to RentalStatus) error {
	if from == to {
		return nil
	}
	for _, allowed := range strictMoves[from] {
		if allowed == to {
			return nil
		}
	}
	return NewConflictError(fmt.Sprintf("rental cannot move from %s to %s", from, to))
}

// PolicyFor picks the policy matching the strict flag from configuration.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return StrictPolicy{}
	}
	return PermissivePolicy{}
}
