package model

import (
	"testing"
	"time"
)

func TestComplaintIsActive(t *testing.T) {
	active := []ComplaintStatus{ComplaintOpen, ComplaintAssigned, ComplaintInvestigating}
	for _, s := range active {
		c := &Complaint{Status: s}
		if !c.IsActive() {
			t.Errorf("complaint with status %q should be active", s)
		}
	}

	for _, s := range []ComplaintStatus{ComplaintResolved, ComplaintClosed} {
		c := &Complaint{Status: s}
		if c.IsActive() {
			t.Errorf("complaint with status %q should not be active", s)
		}
	}
}

func TestComplaintIsBlocking(t *testing.T) {
	cases := []struct {
		priority ComplaintPriority
		status   ComplaintStatus
		blocking bool
	}{
		{PriorityCritical, ComplaintOpen, true},
		{PriorityCritical, ComplaintAssigned, true},
		{PriorityCritical, ComplaintInvestigating, true},
		{PriorityCritical, ComplaintResolved, false},
		{PriorityCritical, ComplaintClosed, false},
		{PriorityHigh, ComplaintOpen, false},
		{PriorityMedium, ComplaintOpen, false},
		{PriorityLow, ComplaintOpen, false},
	}
	for _, c := range cases {
		complaint := &Complaint{Priority: c.priority, Status: c.status}
		if got := complaint.IsBlocking(); got != c.blocking {
			t.Errorf("IsBlocking(%s/%s) = %v, want %v", c.priority, c.status, got, c.blocking)
		}
	}
}

func TestComplaintSLADerivation(t *testing.T) {
	reported := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &Complaint{
		Status:     ComplaintOpen,
		ReportedAt: reported,
		SLADays:    7,
	}

	wantDue := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	if due := c.SLADueAt(); !due.Equal(wantDue) {
		t.Errorf("SLADueAt = %v, want %v", due, wantDue)
	}

	// Inside the window.
	if c.IsSLABreached(reported.AddDate(0, 0, 6)) {
		t.Error("complaint inside the SLA window should not be breached")
	}
	// Exactly at the deadline is not yet a breach.
	if c.IsSLABreached(wantDue) {
		t.Error("complaint exactly at the SLA deadline should not be breached")
	}
	// Past the deadline.
	if !c.IsSLABreached(wantDue.Add(time.Minute)) {
		t.Error("complaint past the SLA deadline should be breached")
	}

	// A resolved complaint never breaches, whatever the clock says.
	c.Status = ComplaintResolved
	if c.IsSLABreached(wantDue.AddDate(0, 1, 0)) {
		t.Error("resolved complaint should never report a breach")
	}
}

func TestComplaintCanEscalate(t *testing.T) {
	c := &Complaint{Status: ComplaintOpen}

	// Levels below the cap can always go one higher.
	for level := 0; level < MaxEscalationLevel; level++ {
		c.EscalationLevel = level
		if !c.CanEscalate() {
			t.Errorf("complaint at level %d should be escalatable", level)
		}
	}

	// At the cap escalation stops, whatever the handling state.
	c.EscalationLevel = MaxEscalationLevel
	for _, s := range []ComplaintStatus{ComplaintOpen, ComplaintAssigned, ComplaintInvestigating, ComplaintResolved} {
		c.Status = s
		if c.CanEscalate() {
			t.Errorf("complaint at level %d with status %q should not be escalatable", MaxEscalationLevel, s)
		}
	}
}

func TestMaxEscalationLevel(t *testing.T) {
	if MaxEscalationLevel != 3 {
		t.Errorf("MaxEscalationLevel = %d, want 3", MaxEscalationLevel)
	}
	if DefaultSLADays != 7 {
		t.Errorf("DefaultSLADays = %d, want 7", DefaultSLADays)
	}
}
