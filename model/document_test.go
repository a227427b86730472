package model

import (
	"testing"
	"time"
)

func TestMandatoryDocumentsByStage(t *testing.T) {
	cases := []struct {
		stage CandidateStatus
		want  []DocumentType
	}{
		{StatusRegistered, []DocumentType{DocumentTypePassport, DocumentTypeCNIC}},
		{StatusTraining, []DocumentType{DocumentTypePassport, DocumentTypeCNIC, DocumentTypeMedical, DocumentTypePoliceClear}},
		{StatusVisaProcess, []DocumentType{DocumentTypePassport, DocumentTypeCNIC, DocumentTypeMedical, DocumentTypePoliceClear, DocumentTypeEducation}},
		{StatusNew, nil},
		{StatusScreening, nil},
		{StatusReady, nil},
		{StatusDeparted, nil},
	}
	for _, c := range cases {
		got := MandatoryDocuments(c.stage)
		if len(got) != len(c.want) {
			t.Errorf("MandatoryDocuments(%q) returned %d types, want %d", c.stage, len(got), len(c.want))
			continue
		}
		for i, d := range c.want {
			if got[i] != d {
				t.Errorf("MandatoryDocuments(%q)[%d] = %q, want %q", c.stage, i, got[i], d)
			}
		}
	}
}

func TestDocumentIsExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	d := &Document{ExpiryDate: &past, Status: DocumentStatusActive}
	if !d.IsExpired(now) {
		t.Error("document past its expiry date should be expired even while flagged active")
	}

	d = &Document{ExpiryDate: &future, Status: DocumentStatusActive}
	if d.IsExpired(now) {
		t.Error("document with a future expiry date should not be expired")
	}

	// No expiry date falls back to the stored flag.
	d = &Document{Status: DocumentStatusActive}
	if d.IsExpired(now) {
		t.Error("document without expiry date and active flag should not be expired")
	}
	d = &Document{Status: DocumentStatusExpired}
	if !d.IsExpired(now) {
		t.Error("document without expiry date but flagged expired should be expired")
	}
}

func TestDocumentExpiresWithin(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	in10 := now.AddDate(0, 0, 10)
	d := &Document{ExpiryDate: &in10}
	if !d.ExpiresWithin(now, 30) {
		t.Error("document expiring in 10 days should be inside a 30 day window")
	}
	if d.ExpiresWithin(now, 5) {
		t.Error("document expiring in 10 days should be outside a 5 day window")
	}

	d = &Document{}
	if d.ExpiresWithin(now, 365) {
		t.Error("document without expiry date never expires")
	}
}

func TestCriticalDocumentTypes(t *testing.T) {
	want := map[DocumentType]bool{
		DocumentTypePassport: true,
		DocumentTypeMedical:  true,
	}
	if len(CriticalDocumentTypes) != len(want) {
		t.Fatalf("CriticalDocumentTypes has %d entries, want %d", len(CriticalDocumentTypes), len(want))
	}
	for _, dt := range CriticalDocumentTypes {
		if !want[dt] {
			t.Errorf("unexpected critical document type %q", dt)
		}
	}
}
