package game

import (
	"errors"
	"fmt"
)

// ErrNoIterations is returned when the time budget expires before a single
// search iteration finished. The caller still gets a best-effort action.
var ErrNoIterations = errors.New("time budget exhausted before any iteration")

// UnknownPlayerIDError marks a player id that matches neither roster.
type UnknownPlayerIDError struct {
	ID int
}

func (e *UnknownPlayerIDError) Error() string {
	return fmt.Sprintf("unknown player id %d", e.ID)
}

// EnumerationMismatchError is raised when an action the environment offered
// cannot be found in the locally enumerated set, or vice versa.
type EnumerationMismatchError struct {
	Procedure Procedure
	Action    Action
	Detail    string
}

func (e *EnumerationMismatchError) Error() string {
	return fmt.Sprintf("enumeration mismatch at %s: %s (%s)", e.Procedure, e.Action, e.Detail)
}

// UnsupportedDecisionError marks a state whose decision kind the caller has
// no handler for.
type UnsupportedDecisionError struct {
	Procedure Procedure
	Kind      DecisionKind
}

func (e *UnsupportedDecisionError) Error() string {
	return fmt.Sprintf("unsupported %s decision at %s", e.Kind, e.Procedure)
}
