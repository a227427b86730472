package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/waslhq/wasl-api/model"
)

func TestInvalidTransitionError(t *testing.T) {
	err := &InvalidTransitionError{From: model.StatusNew, To: model.StatusTraining}
	msg := err.Error()
	if !strings.Contains(msg, "new") || !strings.Contains(msg, "training") {
		t.Errorf("error message %q should name both statuses", msg)
	}

	var target *InvalidTransitionError
	if !errors.As(error(err), &target) {
		t.Error("errors.As should match *InvalidTransitionError")
	}
}

func TestGateNotSatisfiedError(t *testing.T) {
	err := &GateNotSatisfiedError{
		Target:  model.StatusRegistered,
		Reasons: []string{"missing passport", "missing cnic"},
	}
	msg := err.Error()
	if !strings.Contains(msg, "registered") {
		t.Errorf("error message %q should name the target status", msg)
	}
	if !strings.Contains(msg, "missing passport") || !strings.Contains(msg, "missing cnic") {
		t.Errorf("error message %q should carry every unmet reason", msg)
	}
}

func TestOutOfOrderStageError(t *testing.T) {
	err := &OutOfOrderStageError{Current: model.VisaStageInterview, Requested: model.VisaStageBiometric}
	msg := err.Error()
	if !strings.Contains(msg, "interview") || !strings.Contains(msg, "biometric") {
		t.Errorf("error message %q should name both stages", msg)
	}
}

func TestGateResultAddReason(t *testing.T) {
	g := &GateResult{Satisfied: true}
	g.addReason("document %s is expired", "passport")
	g.addReason("screening not passed")

	if g.Satisfied {
		t.Error("adding a reason should mark the gate unsatisfied")
	}
	if len(g.Reasons) != 2 {
		t.Fatalf("got %d reasons, want 2", len(g.Reasons))
	}
	if g.Reasons[0] != "document passport is expired" {
		t.Errorf("Reasons[0] = %q", g.Reasons[0])
	}
}
