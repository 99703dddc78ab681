package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptIR is matched by every InvariantError
	ErrCorruptIR = errors.New("corrupt IR")

	// ErrKindMismatch is returned when a query receives a node of the wrong kind
	ErrKindMismatch = errors.New("node kind mismatch")
)

// Invariant names a structural rule of well-formed IR
type Invariant string

const (
	InvariantBranchTrueLeg   Invariant = "branch-true-leg"
	InvariantBranchFalseLeg  Invariant = "branch-false-leg"
	InvariantDistinctLegs    Invariant = "branch-distinct-legs"
	InvariantJumpSuccessor   Invariant = "jump-successor"
	InvariantSingleFinally   Invariant = "single-finally"
	InvariantUniqueCase      Invariant = "unique-case"
	InvariantConditionSource Invariant = "condition-source"
)

// InvariantError reports a corrupted or malformed graph. Position is the
// bytecode position of the offending node.
type InvariantError struct {
	Position  int
	Invariant Invariant
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("corrupt IR at position %d: %s: %s", e.Position, e.Invariant, e.Detail)
}

func (e *InvariantError) Unwrap() error {
	return ErrCorruptIR
}

func newInvariantError(position int, inv Invariant, format string, args ...any) *InvariantError {
	return &InvariantError{
		Position:  position,
		Invariant: inv,
		Detail:    fmt.Sprintf(format, args...),
	}
}
