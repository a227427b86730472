package screening

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

// ScreeningHandler handles screening endpoints
type ScreeningHandler struct {
	screeningService *services.ScreeningService
	candidateService *services.CandidateService
	validator        *validation.Validator
}

// NewScreeningHandler creates a new screening handler
func NewScreeningHandler(screeningService *services.ScreeningService, candidateService *services.CandidateService) *ScreeningHandler {
	return &ScreeningHandler{
		screeningService: screeningService,
		candidateService: candidateService,
		validator:        validation.NewValidator(),
	}
}

func (h *ScreeningHandler) loadScoped(c *fiber.Ctx, check func(*model.User, *model.Candidate) bool) (*model.Candidate, error) {
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

// OpenScreening handles POST /api/v1/candidates/:id/screenings
// Opens a pending screening attempt for the candidate.
func (h *ScreeningHandler) OpenScreening(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanManageCandidate)
	if candidate == nil {
		return respErr
	}
	user, _ := middleware.GetUser(c)

	screening, err := h.screeningService.OpenScreening(c.Context(), candidate.ID, user.ID)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateScreening) {
			return response.Conflict(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to open screening")
	}

	return response.Created(c, screening)
}

// RecordScreening handles POST /api/v1/candidates/:id/screenings/record
// Records the outcome of the candidate's pending screening.
func (h *ScreeningHandler) RecordScreening(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanManageCandidate)
	if candidate == nil {
		return respErr
	}
	user, _ := middleware.GetUser(c)

	var req services.RecordScreeningRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.CandidateID = candidate.ID
	req.ScreenedBy = user.ID
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	screening, err := h.screeningService.RecordScreening(c.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrCandidateNotFound) {
			return response.NotFound(c, "Candidate not found")
		}
		return response.Conflict(c, err.Error())
	}

	return response.Success(c, screening)
}

// ListScreenings handles GET /api/v1/candidates/:id/screenings
func (h *ScreeningHandler) ListScreenings(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	screenings, err := h.screeningService.ListByCandidate(c.Context(), candidate.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch screenings")
	}
	return response.Success(c, fiber.Map{"screenings": screenings})
}
