package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/waslhq/wasl-api/model"
)

var (
	// ErrCandidateNotFound is returned when a candidate ID does not resolve.
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrDuplicateScreening is returned when a screening is recorded while an
	// unresolved attempt already exists for the candidate.
	ErrDuplicateScreening = errors.New("an unresolved screening already exists for this candidate")

	// ErrMaxEscalationReached is returned when escalating past level 3;
	// anything beyond needs manual handling outside the system.
	ErrMaxEscalationReached = errors.New("complaint already at maximum escalation level")

	// ErrAlreadyAllocated is returned when allocating a candidate that
	// already belongs to a batch.
	ErrAlreadyAllocated = errors.New("candidate is already allocated to a batch")

	// ErrVisaProcessTerminal is returned when advancing a visa process whose
	// overall status is completed or rejected.
	ErrVisaProcessTerminal = errors.New("visa process is in a terminal state")

	// ErrVisaProcessOnHold is returned when advancing a held visa process.
	ErrVisaProcessOnHold = errors.New("visa process is on hold")

	// ErrVisaProcessNotOnHold is returned when resuming a process that is not
	// on hold.
	ErrVisaProcessNotOnHold = errors.New("visa process is not on hold")

	// ErrHoldConditionActive is returned when resuming a visa process while
	// the blocking condition still holds.
	ErrHoldConditionActive = errors.New("hold condition is still active")
)

// InvalidTransitionError reports a status change that is not reachable from
// the candidate's current status. This is a caller bug or stale client state,
// never silently coerced.
type InvalidTransitionError struct {
	From model.CandidateStatus
	To   model.CandidateStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// GateNotSatisfiedError reports a topologically valid transition whose
// precondition gate failed. Reasons carries the specific unmet conditions so
// callers can explain them.
type GateNotSatisfiedError struct {
	Target  model.CandidateStatus
	Reasons []string
}

func (e *GateNotSatisfiedError) Error() string {
	return fmt.Sprintf("gate for %s not satisfied: %s", e.Target, strings.Join(e.Reasons, "; "))
}

// OutOfOrderStageError reports an attempt to skip a visa processing stage.
type OutOfOrderStageError struct {
	Current   model.VisaStage
	Requested model.VisaStage
}

func (e *OutOfOrderStageError) Error() string {
	return fmt.Sprintf("cannot advance visa stage from %s to %s: stages advance one at a time", e.Current, e.Requested)
}

// GateResult is the structured outcome of a gate evaluation. "Not yet
// eligible" is a business outcome, not an error.
type GateResult struct {
	Satisfied bool     `json:"satisfied"`
	Reasons   []string `json:"reasons,omitempty"`
}

func (g *GateResult) addReason(format string, args ...interface{}) {
	g.Satisfied = false
	g.Reasons = append(g.Reasons, fmt.Sprintf(format, args...))
}
