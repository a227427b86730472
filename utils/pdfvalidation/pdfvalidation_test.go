package pdfvalidation

import (
	"bytes"
	"strings"
	"testing"
)

func TestValidatePDFRejectsNonPDF(t *testing.T) {
	result := ValidatePDF([]byte("this is not a pdf"))
	if result.Valid {
		t.Error("non-PDF bytes should not validate")
	}
	if !strings.Contains(result.Reason, "PDF header") {
		t.Errorf("reason %q should mention the missing header", result.Reason)
	}
}

func TestValidatePDFRejectsOversizedFile(t *testing.T) {
	limits := Limits{MaxFileSizeMB: 1, MaxPages: 10}
	big := make([]byte, 2*1024*1024)
	copy(big, []byte("%PDF-1.4"))

	result := ValidatePDFBytes(big, limits)
	if result.Valid {
		t.Error("file over the size limit should not validate")
	}
	if !strings.Contains(result.Reason, "size") {
		t.Errorf("reason %q should mention the size limit", result.Reason)
	}
	if result.FileSize != int64(len(big)) {
		t.Errorf("FileSize = %d, want %d", result.FileSize, len(big))
	}
}

func TestValidatePDFRejectsTruncatedPDF(t *testing.T) {
	// Header is right but the body is garbage; the parser must fail cleanly.
	result := ValidatePDF([]byte("%PDF-1.4\ngarbage body"))
	if result.Valid {
		t.Error("truncated PDF should not validate")
	}
	if result.Reason == "" {
		t.Error("invalid PDF should carry a reason")
	}
}

func TestSanitizePDFStripsTrailingGarbage(t *testing.T) {
	content := []byte("%PDF-1.4\nbody\n%%EOF\n\x00\x00junk appended by scanner")
	cleaned := sanitizePDF(content)
	if !bytes.HasSuffix(cleaned, []byte("%%EOF\n")) {
		t.Errorf("sanitized content should end at the EOF marker, got %q", cleaned[len(cleaned)-10:])
	}

	// Content already ending at EOF is untouched.
	exact := []byte("%PDF-1.4\nbody\n%%EOF")
	if got := sanitizePDF(exact); !bytes.Equal(got, exact) {
		t.Error("clean content should pass through unchanged")
	}

	// Non-PDF content is untouched.
	other := []byte("plain text %%EOF trailing")
	if got := sanitizePDF(other); !bytes.Equal(got, other) {
		t.Error("non-PDF content should pass through unchanged")
	}
}
