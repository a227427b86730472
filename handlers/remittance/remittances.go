package remittance

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

// RemittanceHandler handles remittance tracking endpoints
type RemittanceHandler struct {
	departureService *services.DepartureService
	candidateService *services.CandidateService
	validator        *validation.Validator
}

// NewRemittanceHandler creates a new remittance handler
func NewRemittanceHandler(departureService *services.DepartureService, candidateService *services.CandidateService) *RemittanceHandler {
	return &RemittanceHandler{
		departureService: departureService,
		candidateService: candidateService,
		validator:        validation.NewValidator(),
	}
}

func (h *RemittanceHandler) loadScoped(c *fiber.Ctx, check func(*model.User, *model.Candidate) bool) (*model.Candidate, error) {
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

// RecordRemittance handles POST /api/v1/candidates/:id/remittances
func (h *RemittanceHandler) RecordRemittance(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanRecordDeparture)
	if candidate == nil {
		return respErr
	}

	var req services.RecordRemittanceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.CandidateID = candidate.ID
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	remittance, err := h.departureService.RecordRemittance(c.Context(), req)
	if err != nil {
		return response.Conflict(c, err.Error())
	}
	return response.Created(c, remittance)
}

// ListRemittances handles GET /api/v1/candidates/:id/remittances
func (h *RemittanceHandler) ListRemittances(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	remittances, total, err := h.departureService.ListRemittances(c.Context(), candidate.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch remittances")
	}
	return response.Success(c, fiber.Map{
		"remittances":  remittances,
		"total_amount": total,
	})
}
