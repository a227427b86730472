package model

import "testing"

func TestVisaStageOrder(t *testing.T) {
	expected := []VisaStage{
		VisaStageInterview, VisaStageTakamol, VisaStageMedical,
		VisaStageBiometric, VisaStageENumber, VisaStageVisa,
		VisaStagePTN, VisaStageCompleted,
	}
	if len(VisaStageOrder) != len(expected) {
		t.Fatalf("VisaStageOrder has %d stages, want %d", len(VisaStageOrder), len(expected))
	}
	for i, s := range expected {
		if VisaStageOrder[i] != s {
			t.Errorf("VisaStageOrder[%d] = %q, want %q", i, VisaStageOrder[i], s)
		}
	}
}

func TestVisaStageIndex(t *testing.T) {
	if idx := VisaStageIndex(VisaStageInterview); idx != 0 {
		t.Errorf("VisaStageIndex(interview) = %d, want 0", idx)
	}
	if idx := VisaStageIndex(VisaStageCompleted); idx != 7 {
		t.Errorf("VisaStageIndex(completed) = %d, want 7", idx)
	}
	if idx := VisaStageIndex("teleport"); idx != -1 {
		t.Errorf("VisaStageIndex(unknown) = %d, want -1", idx)
	}
}

func TestNextVisaStage(t *testing.T) {
	for i := 0; i < len(VisaStageOrder)-1; i++ {
		next, ok := NextVisaStage(VisaStageOrder[i])
		if !ok {
			t.Fatalf("NextVisaStage(%q) reported no successor", VisaStageOrder[i])
		}
		if next != VisaStageOrder[i+1] {
			t.Errorf("NextVisaStage(%q) = %q, want %q", VisaStageOrder[i], next, VisaStageOrder[i+1])
		}
	}

	if _, ok := NextVisaStage(VisaStageCompleted); ok {
		t.Error("completed stage should have no successor")
	}
	if _, ok := NextVisaStage("bogus"); ok {
		t.Error("unknown stage should have no successor")
	}
}

func TestStageOutcomeFailed(t *testing.T) {
	cases := []struct {
		stage  VisaStage
		status string
		failed bool
	}{
		{VisaStageInterview, StageStatusPassed, false},
		{VisaStageInterview, StageStatusFailed, true},
		{VisaStageMedical, MedicalStatusFit, false},
		{VisaStageMedical, MedicalStatusUnfit, true},
		{VisaStageMedical, StageStatusFailed, true},
		{VisaStageBiometric, StageStatusPassed, false},
		{VisaStageBiometric, StageStatusFailed, true},
		{VisaStageVisa, "", false},
	}
	for _, c := range cases {
		if got := StageOutcomeFailed(c.stage, c.status); got != c.failed {
			t.Errorf("StageOutcomeFailed(%q, %q) = %v, want %v", c.stage, c.status, got, c.failed)
		}
	}
}

func TestVisaProcessingIsTerminal(t *testing.T) {
	cases := []struct {
		status   VisaOverallStatus
		terminal bool
	}{
		{VisaInProgress, false},
		{VisaOnHold, false},
		{VisaCompleted, true},
		{VisaRejected, true},
	}
	for _, c := range cases {
		v := &VisaProcessing{OverallStatus: c.status}
		if got := v.IsTerminal(); got != c.terminal {
			t.Errorf("IsTerminal with status %q = %v, want %v", c.status, got, c.terminal)
		}
	}
}
