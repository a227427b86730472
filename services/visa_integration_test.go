package services

import (
	"context"
	"errors"
	"testing"

	"github.com/waslhq/wasl-api/model"
)

func TestVisaHoldAndResumeAreIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	candidate := seedCandidate(t, db, 1, model.StatusVisaProcess)
	visa := model.VisaProcessing{
		CandidateID:   candidate.ID,
		CurrentStage:  model.VisaStageTakamol,
		OverallStatus: model.VisaInProgress,
	}
	if err := db.Create(&visa).Error; err != nil {
		t.Fatalf("failed to seed visa process: %v", err)
	}

	visas := NewVisaService(db)
	complaints := NewComplaintService(db, visas, nil)

	// Filing a critical complaint enforces the hold.
	filed, err := complaints.FileComplaint(ctx, FileComplaintRequest{
		CandidateID: candidate.ID,
		Subject:     "Unpaid training stipend",
		Priority:    model.PriorityCritical,
	})
	if err != nil {
		t.Fatalf("failed to file complaint: %v", err)
	}

	loaded, err := visas.GetByCandidate(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("failed to load visa process: %v", err)
	}
	if loaded.OverallStatus != model.VisaOnHold {
		t.Fatalf("overall status after critical complaint = %s, want on_hold", loaded.OverallStatus)
	}
	if loaded.CurrentStage != model.VisaStageTakamol {
		t.Errorf("hold changed the current stage to %s", loaded.CurrentStage)
	}

	// Re-enforcing against an already-held process is a no-op, not an error.
	if err := complaints.EnforceHold(ctx, candidate.ID); err != nil {
		t.Errorf("re-enforcing a hold failed: %v", err)
	}
	if err := visas.PlaceOnHold(ctx, candidate.ID, "still blocked"); err != nil {
		t.Errorf("holding an already-held process failed: %v", err)
	}

	// Advancing while on hold is refused.
	_, err = visas.AdvanceStage(ctx, candidate.ID, model.VisaStageMedical, StageUpdate{Status: "fit"})
	if !errors.Is(err, ErrVisaProcessOnHold) {
		t.Errorf("advance while on hold = %v, want ErrVisaProcessOnHold", err)
	}

	// Resume is refused while the blocking complaint is still active.
	if err := visas.Resume(ctx, candidate.ID); !errors.Is(err, ErrHoldConditionActive) {
		t.Errorf("resume with active critical complaint = %v, want ErrHoldConditionActive", err)
	}

	// After resolution the process resumes where it was held.
	if _, err := complaints.Resolve(ctx, filed.ID, "stipend paid out"); err != nil {
		t.Fatalf("failed to resolve complaint: %v", err)
	}
	if err := visas.Resume(ctx, candidate.ID); err != nil {
		t.Fatalf("resume after resolution failed: %v", err)
	}

	loaded, err = visas.GetByCandidate(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("failed to reload visa process: %v", err)
	}
	if loaded.OverallStatus != model.VisaInProgress {
		t.Errorf("overall status after resume = %s, want in_progress", loaded.OverallStatus)
	}
	if loaded.CurrentStage != model.VisaStageTakamol {
		t.Errorf("resume changed the current stage to %s", loaded.CurrentStage)
	}

	// Resuming a process that is not on hold is refused.
	if err := visas.Resume(ctx, candidate.ID); !errors.Is(err, ErrVisaProcessNotOnHold) {
		t.Errorf("resume of running process = %v, want ErrVisaProcessNotOnHold", err)
	}
}

func TestVisaStageFailureIsTerminalForTheProcessOnly(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	candidate := seedCandidate(t, db, 2, model.StatusVisaProcess)
	visa := model.VisaProcessing{
		CandidateID:   candidate.ID,
		CurrentStage:  model.VisaStageTakamol,
		OverallStatus: model.VisaInProgress,
	}
	if err := db.Create(&visa).Error; err != nil {
		t.Fatalf("failed to seed visa process: %v", err)
	}

	visas := NewVisaService(db)

	// An unfit medical outcome rejects the process terminally.
	process, err := visas.AdvanceStage(ctx, candidate.ID, model.VisaStageMedical, StageUpdate{Status: model.MedicalStatusUnfit})
	if err != nil {
		t.Fatalf("failed to record medical outcome: %v", err)
	}
	if process.OverallStatus != model.VisaRejected {
		t.Errorf("overall status after unfit medical = %s, want rejected", process.OverallStatus)
	}

	_, err = visas.AdvanceStage(ctx, candidate.ID, model.VisaStageBiometric, StageUpdate{Status: "passed"})
	if !errors.Is(err, ErrVisaProcessTerminal) {
		t.Errorf("advance after rejection = %v, want ErrVisaProcessTerminal", err)
	}

	// The candidate's own status is untouched; moving them to rejected is a
	// separate, deliberate pipeline decision.
	var reloaded model.Candidate
	if err := db.First(&reloaded, candidate.ID).Error; err != nil {
		t.Fatalf("failed to reload candidate: %v", err)
	}
	if reloaded.Status != model.StatusVisaProcess {
		t.Errorf("candidate status after visa rejection = %s, want visa_process", reloaded.Status)
	}
}

func TestVisaStagesAdvanceOneAtATime(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	candidate := seedCandidate(t, db, 3, model.StatusVisaProcess)
	visa := model.VisaProcessing{
		CandidateID:   candidate.ID,
		CurrentStage:  model.VisaStageInterview,
		OverallStatus: model.VisaInProgress,
	}
	if err := db.Create(&visa).Error; err != nil {
		t.Fatalf("failed to seed visa process: %v", err)
	}

	visas := NewVisaService(db)

	_, err := visas.AdvanceStage(ctx, candidate.ID, model.VisaStageBiometric, StageUpdate{Status: "passed"})
	var outOfOrder *OutOfOrderStageError
	if !errors.As(err, &outOfOrder) {
		t.Fatalf("skipping stages = %v, want OutOfOrderStageError", err)
	}
	if outOfOrder.Current != model.VisaStageInterview || outOfOrder.Requested != model.VisaStageBiometric {
		t.Errorf("error carries %s->%s, want interview->biometric", outOfOrder.Current, outOfOrder.Requested)
	}
}

func TestEscalationStopsAtTheCap(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	candidate := seedCandidate(t, db, 4, model.StatusTraining)
	visas := NewVisaService(db)
	complaints := NewComplaintService(db, visas, nil)

	filed, err := complaints.FileComplaint(ctx, FileComplaintRequest{
		CandidateID: candidate.ID,
		Subject:     "Hostel conditions",
	})
	if err != nil {
		t.Fatalf("failed to file complaint: %v", err)
	}

	for want := 1; want <= model.MaxEscalationLevel; want++ {
		escalated, err := complaints.Escalate(ctx, filed.ID)
		if err != nil {
			t.Fatalf("escalation to level %d failed: %v", want, err)
		}
		if escalated.EscalationLevel != want {
			t.Errorf("escalation level = %d, want %d", escalated.EscalationLevel, want)
		}
	}

	if _, err := complaints.Escalate(ctx, filed.ID); !errors.Is(err, ErrMaxEscalationReached) {
		t.Errorf("escalation past the cap = %v, want ErrMaxEscalationReached", err)
	}

	var reloaded model.Complaint
	if err := db.First(&reloaded, filed.ID).Error; err != nil {
		t.Fatalf("failed to reload complaint: %v", err)
	}
	if reloaded.EscalationLevel != model.MaxEscalationLevel {
		t.Errorf("stored escalation level = %d, want %d", reloaded.EscalationLevel, model.MaxEscalationLevel)
	}
}
