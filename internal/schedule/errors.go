package schedule

import (
	"fmt"
	"strings"
)

// CycleError reports a cycle in the precedence graph. It is fatal and is
// surfaced before any scheduling attempt.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("precedence cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// SchedulingFailureError means one batched group cannot fit in its
// operating window on one date. The caller decides whether to retry with
// an extended window or a later date.
type SchedulingFailureError struct {
	Activity string
	GroupID  string
	Date     string
	Start    Minutes
	End      Minutes
}

func (e *SchedulingFailureError) Error() string {
	return fmt.Sprintf("group %s of activity %q does not fit on %s: needs [%s,%s) past window end",
		e.GroupID, e.Activity, e.Date, e.Start.Clock(), e.End.Clock())
}

// RoomUnavailableError means no eligible room admitted the entity even
// after the bounded shift was exhausted.
type RoomUnavailableError struct {
	Entity   string
	Activity string
	Start    Minutes
}

func (e *RoomUnavailableError) Error() string {
	return fmt.Sprintf("no eligible room for %s (activity %q) at or after %s", e.Entity, e.Activity, e.Start.Clock())
}

// ConstraintViolationError means a post-assignment adjacency check failed.
// It indicates a defect in the scheduler's own output and aborts the
// day's solve.
type ConstraintViolationError struct {
	Candidate string
	Activity  string
	Want      Minutes
	Got       Minutes
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("adjacency violated for %s on %q: want start %s, got %s",
		e.Candidate, e.Activity, e.Want.Clock(), e.Got.Clock())
}

// CapacityError is a defensive invariant check on room occupancy tracks.
type CapacityError struct {
	Room      string
	At        Minutes
	Headcount int
	Capacity  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("room %s over capacity at %s: %d > %d", e.Room, e.At.Clock(), e.Headcount, e.Capacity)
}
