package visa

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/waslhq/wasl-api/model"
	"github.com/waslhq/wasl-api/services"
	"github.com/waslhq/wasl-api/utils/capability"
	"github.com/waslhq/wasl-api/utils/middleware"
	"github.com/waslhq/wasl-api/utils/response"
)

// VisaHandler handles visa processing endpoints
type VisaHandler struct {
	visaService      *services.VisaService
	candidateService *services.CandidateService
}

// NewVisaHandler creates a new visa handler
func NewVisaHandler(visaService *services.VisaService, candidateService *services.CandidateService) *VisaHandler {
	return &VisaHandler{
		visaService:      visaService,
		candidateService: candidateService,
	}
}

func (h *VisaHandler) loadScoped(c *fiber.Ctx, check func(*model.User, *model.Candidate) bool) (*model.Candidate, error) {
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

// AdvanceRequest represents a visa stage advance request
type AdvanceRequest struct {
	Stage  model.VisaStage      `json:"stage" validate:"required"`
	Update services.StageUpdate `json:"update"`
}

// AdvanceStage handles POST /api/v1/candidates/:id/visa/advance
// Advances the visa process by exactly one stage.
func (h *VisaHandler) AdvanceStage(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanRecordVisaStage)
	if candidate == nil {
		return respErr
	}

	var req AdvanceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Stage == "" {
		return response.BadRequest(c, "stage is required")
	}

	vp, err := h.visaService.AdvanceStage(c.Context(), candidate.ID, req.Stage, req.Update)
	if err != nil {
		var outOfOrder *services.OutOfOrderStageError
		switch {
		case errors.As(err, &outOfOrder):
			return response.Conflict(c, outOfOrder.Error())
		case errors.Is(err, services.ErrVisaProcessOnHold),
			errors.Is(err, services.ErrVisaProcessTerminal):
			return response.Conflict(c, err.Error())
		default:
			return response.BadRequest(c, err.Error())
		}
	}

	return response.Success(c, vp)
}

// HoldRequest represents a visa hold request
type HoldRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// PlaceOnHold handles POST /api/v1/candidates/:id/visa/hold
func (h *VisaHandler) PlaceOnHold(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanRecordVisaStage)
	if candidate == nil {
		return respErr
	}

	var req HoldRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Reason == "" {
		return response.BadRequest(c, "reason is required")
	}

	if err := h.visaService.PlaceOnHold(c.Context(), candidate.ID, req.Reason); err != nil {
		return response.Conflict(c, err.Error())
	}
	return response.Success(c, fiber.Map{"candidate_id": candidate.ID, "on_hold": true})
}

// Resume handles POST /api/v1/candidates/:id/visa/resume
func (h *VisaHandler) Resume(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanRecordVisaStage)
	if candidate == nil {
		return respErr
	}

	if err := h.visaService.Resume(c.Context(), candidate.ID); err != nil {
		switch {
		case errors.Is(err, services.ErrVisaProcessNotOnHold),
			errors.Is(err, services.ErrHoldConditionActive):
			return response.Conflict(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to resume visa process")
		}
	}
	return response.Success(c, fiber.Map{"candidate_id": candidate.ID, "on_hold": false})
}

// GetVisaProcess handles GET /api/v1/candidates/:id/visa
func (h *VisaHandler) GetVisaProcess(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	vp, err := h.visaService.GetByCandidate(c.Context(), candidate.ID)
	if err != nil {
		return response.NotFound(c, "No visa process for this candidate")
	}
	return response.Success(c, vp)
}
