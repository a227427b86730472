package pdfvalidation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Limits bounds an uploaded document scan.
type Limits struct {
	MaxFileSizeMB int
	MaxPages      int
}

// DefaultLimits fits the usual candidate document scans: passports, CNICs,
// certificates. Nothing legitimate comes close to these bounds.
var DefaultLimits = Limits{
	MaxFileSizeMB: 20,
	MaxPages:      40,
}

// ValidationResult reports whether a scan is an acceptable PDF.
type ValidationResult struct {
	Valid     bool
	PageCount int
	FileSize  int64
	Reason    string
}

// ValidatePDF checks document scan bytes against the default limits.
func ValidatePDF(content []byte) *ValidationResult {
	return ValidatePDFBytes(content, DefaultLimits)
}

// ValidatePDFBytes validates PDF content bytes against the given limits.
func ValidatePDFBytes(content []byte, limits Limits) *ValidationResult {
	result := &ValidationResult{
		FileSize: int64(len(content)),
	}

	maxSize := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if result.FileSize > maxSize {
		result.Reason = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
		return result
	}

	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		result.Reason = "Invalid PDF file: missing PDF header"
		return result
	}

	pageCount, err := getPDFPageCount(content)
	if err != nil {
		result.Reason = fmt.Sprintf("Failed to read PDF: %v", err)
		return result
	}
	result.PageCount = pageCount

	if pageCount > limits.MaxPages {
		result.Reason = fmt.Sprintf("PDF has %d pages, which exceeds the maximum of %d pages",
			pageCount, limits.MaxPages)
		return result
	}
	if pageCount == 0 {
		result.Reason = "PDF has no pages"
		return result
	}

	result.Valid = true
	return result
}

// ValidatePDFFile validates a multipart upload, checking the filename and size
// before reading the content.
func ValidatePDFFile(file *multipart.FileHeader, limits Limits) (*ValidationResult, error) {
	result := &ValidationResult{
		FileSize: file.Size,
	}

	maxSize := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		result.Reason = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
		return result, nil
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		result.Reason = "Only PDF files are supported"
		return result, nil
	}

	fileContent, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer fileContent.Close()

	content, err := io.ReadAll(fileContent)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ValidatePDFBytes(content, limits), nil
}

// sanitizePDF removes trailing garbage after the last %%EOF marker. Scanner
// software sometimes appends junk the parser chokes on.
func sanitizePDF(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content
	}

	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)
	if lastEOF == -1 {
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)
	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}
	if pdfEnd < len(content) {
		return content[:pdfEnd]
	}
	return content
}

func getPDFPageCount(content []byte) (int, error) {
	content = sanitizePDF(content)
	reader := bytes.NewReader(content)

	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return pdfReader.NumPage(), nil
}
