package model

import "testing"

func TestPipelinePathOrder(t *testing.T) {
	expected := []CandidateStatus{
		StatusNew, StatusScreening, StatusRegistered, StatusTraining,
		StatusVisaProcess, StatusReady, StatusDeparted, StatusCompleted,
	}
	if len(PipelinePath) != len(expected) {
		t.Fatalf("PipelinePath has %d statuses, want %d", len(PipelinePath), len(expected))
	}
	for i, s := range expected {
		if PipelinePath[i] != s {
			t.Errorf("PipelinePath[%d] = %q, want %q", i, PipelinePath[i], s)
		}
	}
}

func TestCanTransitionForwardSteps(t *testing.T) {
	// Every adjacent pair on the path is a legal single step.
	for i := 0; i < len(PipelinePath)-1; i++ {
		from, to := PipelinePath[i], PipelinePath[i+1]
		if !CanTransition(from, to) {
			t.Errorf("CanTransition(%q, %q) = false, want true", from, to)
		}
	}
}

func TestCanTransitionRejectsSkipsAndBackwards(t *testing.T) {
	cases := []struct {
		from, to CandidateStatus
	}{
		{StatusNew, StatusRegistered},       // skip over screening
		{StatusScreening, StatusTraining},   // skip over registered
		{StatusNew, StatusDeparted},         // long skip
		{StatusTraining, StatusRegistered},  // backwards
		{StatusDeparted, StatusReady},       // backwards
		{StatusCompleted, StatusNew},        // out of terminal
		{StatusNew, StatusNew},              // self
		{StatusRegistered, StatusCompleted}, // jump to end
	}
	for _, c := range cases {
		if CanTransition(c.from, c.to) {
			t.Errorf("CanTransition(%q, %q) = true, want false", c.from, c.to)
		}
	}
}

func TestCanTransitionEscapes(t *testing.T) {
	nonTerminal := []CandidateStatus{
		StatusNew, StatusScreening, StatusRegistered, StatusTraining,
		StatusVisaProcess, StatusReady, StatusDeparted,
	}
	for _, from := range nonTerminal {
		if !CanTransition(from, StatusRejected) {
			t.Errorf("CanTransition(%q, rejected) = false, want true", from)
		}
		if !CanTransition(from, StatusDropped) {
			t.Errorf("CanTransition(%q, dropped) = false, want true", from)
		}
	}

	// Terminal statuses can never escape.
	for _, from := range []CandidateStatus{StatusCompleted, StatusRejected, StatusDropped} {
		if CanTransition(from, StatusRejected) {
			t.Errorf("CanTransition(%q, rejected) = true, want false", from)
		}
		if CanTransition(from, StatusDropped) {
			t.Errorf("CanTransition(%q, dropped) = true, want false", from)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	if CanTransition("bogus", StatusScreening) {
		t.Error("transition from unknown status should be rejected")
	}
	if CanTransition(StatusNew, "bogus") {
		t.Error("transition to unknown status should be rejected")
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range PipelinePath {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false, want true", s)
		}
	}
	if !IsValidStatus(StatusRejected) || !IsValidStatus(StatusDropped) {
		t.Error("escape statuses should be valid")
	}
	if IsValidStatus("pending") {
		t.Error("IsValidStatus(\"pending\") = true, want false")
	}
}

func TestIsTerminalStatus(t *testing.T) {
	terminal := map[CandidateStatus]bool{
		StatusCompleted: true,
		StatusRejected:  true,
		StatusDropped:   true,
	}
	all := append([]CandidateStatus{}, PipelinePath...)
	all = append(all, StatusRejected, StatusDropped)
	for _, s := range all {
		if got := IsTerminalStatus(s); got != terminal[s] {
			t.Errorf("IsTerminalStatus(%q) = %v, want %v", s, got, terminal[s])
		}
	}
}

func TestStatusIndex(t *testing.T) {
	if idx := StatusIndex(StatusNew); idx != 0 {
		t.Errorf("StatusIndex(new) = %d, want 0", idx)
	}
	if idx := StatusIndex(StatusCompleted); idx != len(PipelinePath)-1 {
		t.Errorf("StatusIndex(completed) = %d, want %d", idx, len(PipelinePath)-1)
	}
	if idx := StatusIndex(StatusRejected); idx != -1 {
		t.Errorf("StatusIndex(rejected) = %d, want -1", idx)
	}
	if idx := StatusIndex(StatusDropped); idx != -1 {
		t.Errorf("StatusIndex(dropped) = %d, want -1", idx)
	}
}
