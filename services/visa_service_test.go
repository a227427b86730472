package services

import (
	"testing"
	"time"

	"github.com/waslhq/wasl-api/model"
)

func TestStageColumnsKeepStagesIndependent(t *testing.T) {
	date := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	cols := stageColumns(model.VisaStagePTN, StageUpdate{Status: "passed", Reference: "PTN-123"})
	if cols["ptn_status"] != "passed" || cols["ptn_number"] != "PTN-123" {
		t.Errorf("ptn stage should set its own columns, got %v", cols)
	}

	// Advancing to the terminal stage must not rewrite any earlier stage's
	// fields, the ptn columns included.
	cols = stageColumns(model.VisaStageCompleted, StageUpdate{Status: "passed", Reference: "OVERWRITE"})
	if len(cols) != 0 {
		t.Errorf("completed stage should carry no per-stage columns, got %v", cols)
	}

	cols = stageColumns(model.VisaStageInterview, StageUpdate{Status: "passed", Date: &date})
	if cols["interview_status"] != "passed" {
		t.Errorf("interview stage should set interview_status, got %v", cols)
	}
	if _, ok := cols["ptn_status"]; ok {
		t.Error("interview stage should not touch ptn columns")
	}

	cols = stageColumns(model.VisaStageENumber, StageUpdate{Status: "passed", Reference: "E-42"})
	if cols["enumber"] != "E-42" || cols["enumber_status"] != "passed" {
		t.Errorf("enumber stage should set enumber columns, got %v", cols)
	}
}

func TestStageColumnsSkipEmptyOptionalFields(t *testing.T) {
	cols := stageColumns(model.VisaStageTakamol, StageUpdate{Status: "passed"})
	if _, ok := cols["takamol_ref"]; ok {
		t.Error("empty reference should not clear a stored takamol_ref")
	}
	cols = stageColumns(model.VisaStageMedical, StageUpdate{Status: "fit"})
	if _, ok := cols["medical_date"]; ok {
		t.Error("nil date should not clear a stored medical_date")
	}
}
