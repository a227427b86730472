package departure

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/waslhq/wasl-api/model"
	"github.com/waslhq/wasl-api/services"
	"github.com/waslhq/wasl-api/utils/capability"
	"github.com/waslhq/wasl-api/utils/middleware"
	"github.com/waslhq/wasl-api/utils/response"
	"github.com/waslhq/wasl-api/utils/validation"
)

// DepartureHandler handles departure and post-departure endpoints
type DepartureHandler struct {
	departureService *services.DepartureService
	candidateService *services.CandidateService
	validator        *validation.Validator
}

// NewDepartureHandler creates a new departure handler
func NewDepartureHandler(departureService *services.DepartureService, candidateService *services.CandidateService) *DepartureHandler {
	return &DepartureHandler{
		departureService: departureService,
		candidateService: candidateService,
		validator:        validation.NewValidator(),
	}
}

func (h *DepartureHandler) loadScoped(c *fiber.Ctx, check func(*model.User, *model.Candidate) bool) (*model.Candidate, error) {
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

// CanDepart handles GET /api/v1/candidates/:id/departure/check
// Reports whether the candidate clears the pre-departure gate.
func (h *DepartureHandler) CanDepart(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	check, err := h.departureService.CanDepart(c.Context(), candidate.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to evaluate departure gate")
	}
	return response.Success(c, check)
}

// ScheduleDeparture handles POST /api/v1/candidates/:id/departure
func (h *DepartureHandler) ScheduleDeparture(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanRecordDeparture)
	if candidate == nil {
		return respErr
	}

	var req services.ScheduleDepartureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.CandidateID = candidate.ID

	departure, err := h.departureService.ScheduleDeparture(c.Context(), req)
	if err != nil {
		return response.Conflict(c, err.Error())
	}
	return response.Created(c, departure)
}

// RecordDepartureRequest represents an actual departure record
type RecordDepartureRequest struct {
	DepartedAt *time.Time `json:"departed_at"`
}

// RecordDeparture handles POST /api/v1/candidates/:id/departure/record
// Records the actual departure and moves the candidate to departed.
func (h *DepartureHandler) RecordDeparture(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanRecordDeparture)
	if candidate == nil {
		return respErr
	}
	user, _ := middleware.GetUser(c)

	var req RecordDepartureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	departedAt := time.Now()
	if req.DepartedAt != nil {
		departedAt = *req.DepartedAt
	}

	departure, err := h.departureService.RecordDeparture(c.Context(), candidate.ID, departedAt, user.ID)
	if err != nil {
		var gate *services.GateNotSatisfiedError
		if errors.As(err, &gate) {
			return response.Error(c, fiber.StatusUnprocessableEntity, gate.Error(), "GATE_NOT_SATISFIED")
		}
		return response.Conflict(c, err.Error())
	}
	return response.Success(c, departure)
}

// ConfirmArrivalRequest represents an arrival confirmation
type ConfirmArrivalRequest struct {
	ArrivedAt *time.Time `json:"arrived_at"`
}

// ConfirmArrival handles POST /api/v1/candidates/:id/departure/arrival
func (h *DepartureHandler) ConfirmArrival(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanRecordDeparture)
	if candidate == nil {
		return respErr
	}

	var req ConfirmArrivalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	arrivedAt := time.Now()
	if req.ArrivedAt != nil {
		arrivedAt = *req.ArrivedAt
	}

	if err := h.departureService.ConfirmArrival(c.Context(), candidate.ID, arrivedAt); err != nil {
		return response.Conflict(c, err.Error())
	}
	return response.Success(c, fiber.Map{"candidate_id": candidate.ID, "arrival_confirmed": true})
}

// RecordPostDeparture handles POST /api/v1/candidates/:id/post-departure
// Records employment details after arrival and completes the candidate.
func (h *DepartureHandler) RecordPostDeparture(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanRecordDeparture)
	if candidate == nil {
		return respErr
	}
	user, _ := middleware.GetUser(c)

	var req services.PostDepartureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.CandidateID = candidate.ID
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	record, err := h.departureService.RecordPostDeparture(c.Context(), req, user.ID)
	if err != nil {
		return response.Conflict(c, err.Error())
	}
	return response.Created(c, record)
}

// GetDeparture handles GET /api/v1/candidates/:id/departure
func (h *DepartureHandler) GetDeparture(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	departure, postDeparture, err := h.departureService.GetDeparture(c.Context(), candidate.ID)
	if err != nil {
		return response.NotFound(c, "No departure record for this candidate")
	}
	return response.Success(c, fiber.Map{
		"departure":      departure,
		"post_departure": postDeparture,
	})
}
