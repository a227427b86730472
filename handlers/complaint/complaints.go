package complaint

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/waslhq/wasl-api/model"
	"github.com/waslhq/wasl-api/services"
	"github.com/waslhq/wasl-api/utils/capability"
	"github.com/waslhq/wasl-api/utils/middleware"
	"github.com/waslhq/wasl-api/utils/response"
	"github.com/waslhq/wasl-api/utils/validation"
)

// ComplaintHandler handles complaint management endpoints
type ComplaintHandler struct {
	complaintService *services.ComplaintService
	candidateService *services.CandidateService
	validator        *validation.Validator
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService *services.ComplaintService, candidateService *services.CandidateService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		candidateService: candidateService,
		validator:        validation.NewValidator(),
	}
}

func (h *ComplaintHandler) loadScoped(c *fiber.Ctx, check func(*model.User, *model.Candidate) bool) (*model.Candidate, error) {
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

// FileComplaint handles POST /api/v1/candidates/:id/complaints
func (h *ComplaintHandler) FileComplaint(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanManageComplaints)
	if candidate == nil {
		return respErr
	}

	var req services.FileComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.CandidateID = candidate.ID
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	complaint, err := h.complaintService.FileComplaint(c.Context(), req)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Created(c, complaint)
}

// ListComplaints handles GET /api/v1/candidates/:id/complaints
func (h *ComplaintHandler) ListComplaints(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	complaints, err := h.complaintService.ListByCandidate(c.Context(), candidate.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch complaints")
	}
	return response.Success(c, fiber.Map{"complaints": complaints})
}

// loadComplaintScoped resolves the :complaintId parameter and checks the
// capability against the owning candidate.
func (h *ComplaintHandler) loadComplaintScoped(c *fiber.Ctx) (uint, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return 0, response.Unauthorized(c, "User not authenticated")
	}

	complaintID, err := strconv.ParseUint(c.Params("complaintId"), 10, 32)
	if err != nil {
		return 0, response.BadRequest(c, "Invalid complaint ID")
	}

	complaint, err := h.complaintService.GetComplaint(c.Context(), uint(complaintID))
	if err != nil {
		return 0, response.NotFound(c, "Complaint not found")
	}

	candidate, err := h.candidateService.GetCandidate(c.Context(), complaint.CandidateID)
	if err != nil {
		return 0, response.NotFound(c, "Candidate not found")
	}
	if !capability.CanManageComplaints(user, candidate) {
		return 0, response.Forbidden(c, "Insufficient permissions for this complaint")
	}
	return uint(complaintID), nil
}

// Escalate handles POST /api/v1/complaints/:complaintId/escalate
func (h *ComplaintHandler) Escalate(c *fiber.Ctx) error {
	complaintID, respErr := h.loadComplaintScoped(c)
	if complaintID == 0 {
		return respErr
	}

	complaint, err := h.complaintService.Escalate(c.Context(), complaintID)
	if err != nil {
		if errors.Is(err, services.ErrMaxEscalationReached) {
			return response.Conflict(c, err.Error())
		}
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, complaint)
}

// ResolveRequest represents a complaint resolution
type ResolveRequest struct {
	Resolution string `json:"resolution" validate:"required"`
}

// Resolve handles POST /api/v1/complaints/:complaintId/resolve
func (h *ComplaintHandler) Resolve(c *fiber.Ctx) error {
	complaintID, respErr := h.loadComplaintScoped(c)
	if complaintID == 0 {
		return respErr
	}

	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Resolution == "" {
		return response.BadRequest(c, "resolution is required")
	}

	complaint, err := h.complaintService.Resolve(c.Context(), complaintID, req.Resolution)
	if err != nil {
		return response.Conflict(c, err.Error())
	}
	return response.Success(c, complaint)
}

// AssignRequest represents a complaint assignment
type AssignRequest struct {
	AssigneeID uint `json:"assignee_id" validate:"required"`
}

// Assign handles POST /api/v1/complaints/:complaintId/assign
func (h *ComplaintHandler) Assign(c *fiber.Ctx) error {
	complaintID, respErr := h.loadComplaintScoped(c)
	if complaintID == 0 {
		return respErr
	}

	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.AssigneeID == 0 {
		return response.BadRequest(c, "assignee_id is required")
	}

	if err := h.complaintService.Assign(c.Context(), complaintID, req.AssigneeID); err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, fiber.Map{"complaint_id": complaintID, "assignee_id": req.AssigneeID})
}
