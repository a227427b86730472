package document

import (
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/waslhq/wasl-api/model"
	"github.com/waslhq/wasl-api/services"
	"github.com/waslhq/wasl-api/utils/capability"
	"github.com/waslhq/wasl-api/utils/middleware"
	"github.com/waslhq/wasl-api/utils/response"
)

// DocumentHandler handles candidate document registry endpoints
type DocumentHandler struct {
	documentService  *services.DocumentService
	candidateService *services.CandidateService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *services.DocumentService, candidateService *services.CandidateService) *DocumentHandler {
	return &DocumentHandler{
		documentService:  documentService,
		candidateService: candidateService,
	}
}

func (h *DocumentHandler) loadScoped(c *fiber.Ctx, check func(*model.User, *model.Candidate) bool) (*model.Candidate, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, response.Unauthorized(c, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, response.BadRequest(c, "Invalid candidate ID")
	}

	candidate, err := h.candidateService.GetCandidate(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrCandidateNotFound) {
			return nil, response.NotFound(c, "Candidate not found")
		}
		return nil, response.InternalServerError(c, "Failed to fetch candidate")
	}

	if !check(user, candidate) {
		return nil, response.Forbidden(c, "Insufficient permissions for this candidate")
	}
	return candidate, nil
}

// parseDate accepts "2006-01-02" form values.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}

// UploadDocument handles POST /api/v1/candidates/:id/documents
// Accepts a multipart form with the file and document metadata.
func (h *DocumentHandler) UploadDocument(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanManageCandidate)
	if candidate == nil {
		return respErr
	}
	user, _ := middleware.GetUser(c)

	docType := model.DocumentType(c.FormValue("type"))
	if docType == "" {
		return response.BadRequest(c, "Document type is required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Document file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to open uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}

	doc, err := h.documentService.UploadDocument(c.Context(), services.UploadDocumentRequest{
		CandidateID: candidate.ID,
		Category:    model.DocumentCategory(c.FormValue("category")),
		Type:        docType,
		Number:      c.FormValue("number"),
		IssueDate:   parseDate(c.FormValue("issue_date")),
		ExpiryDate:  parseDate(c.FormValue("expiry_date")),
		Filename:    fileHeader.Filename,
		Content:     content,
		UploadedBy:  user.ID,
	})
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Created(c, doc)
}

// ListDocuments handles GET /api/v1/candidates/:id/documents
func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	docs, err := h.documentService.ListByCandidate(c.Context(), candidate.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch documents")
	}
	return response.Success(c, fiber.Map{"documents": docs})
}

// CheckDocuments handles GET /api/v1/candidates/:id/documents/check/:stage
// Reports whether the candidate holds all mandatory documents for the stage.
func (h *DocumentHandler) CheckDocuments(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	stage := model.CandidateStatus(c.Params("stage"))
	if !model.IsValidStatus(stage) {
		return response.BadRequest(c, "Unknown stage")
	}

	check, err := h.documentService.HasAllMandatoryDocuments(c.Context(), candidate.ID, stage)
	if err != nil {
		return response.InternalServerError(c, "Failed to check documents")
	}
	return response.Success(c, check)
}

// ExpiringDocuments handles GET /api/v1/candidates/:id/documents/expiring
func (h *DocumentHandler) ExpiringDocuments(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	days, _ := strconv.Atoi(c.Query("days", "30"))
	if days < 1 {
		days = 30
	}

	docs, err := h.documentService.ExpiringWithin(c.Context(), candidate.ID, days)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch expiring documents")
	}
	return response.Success(c, fiber.Map{"documents": docs, "days": days})
}

// RenewRequest represents a document renewal request
type RenewRequest struct {
	ExpiryDate string `json:"expiry_date" validate:"required"`
}

// RenewDocument handles POST /api/v1/documents/:docId/renew
func (h *DocumentHandler) RenewDocument(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	docID, err := strconv.ParseUint(c.Params("docId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	var req RenewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	newExpiry := parseDate(req.ExpiryDate)
	if newExpiry == nil {
		return response.BadRequest(c, "expiry_date must be a YYYY-MM-DD date")
	}

	// Resolve the owning candidate for the scope check
	doc, err := h.documentService.GetDocument(c.Context(), uint(docID))
	if err != nil {
		return response.NotFound(c, "Document not found")
	}
	candidate, err := h.candidateService.GetCandidate(c.Context(), doc.CandidateID)
	if err != nil {
		return response.NotFound(c, "Candidate not found")
	}
	if !capability.CanManageCandidate(user, candidate) {
		return response.Forbidden(c, "Insufficient permissions for this candidate")
	}

	renewed, err := h.documentService.RenewDocument(c.Context(), uint(docID), *newExpiry)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, renewed)
}

// VerifyRegistration handles POST /api/v1/candidates/:id/documents/verify
// Verifies the registration document set and stamps the registration record.
func (h *DocumentHandler) VerifyRegistration(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanManageCandidate)
	if candidate == nil {
		return respErr
	}
	user, _ := middleware.GetUser(c)

	registration, err := h.documentService.VerifyRegistrationDocuments(c.Context(), candidate.ID, user.ID)
	if err != nil {
		return response.Conflict(c, err.Error())
	}
	return response.Success(c, registration)
}
