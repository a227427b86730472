package candidate

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

// CandidateHandler handles candidate lifecycle endpoints
type CandidateHandler struct {
	candidateService *services.CandidateService
	journeyService   *services.JourneyService
	validator        *validation.Validator
}

// NewCandidateHandler creates a new candidate handler
func NewCandidateHandler(candidateService *services.CandidateService, journeyService *services.JourneyService) *CandidateHandler {
	return &CandidateHandler{
		candidateService: candidateService,
		journeyService:   journeyService,
		validator:        validation.NewValidator(),
	}
}

// parseCandidateID reads the :id route parameter.
func parseCandidateID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// loadScoped fetches the candidate and applies the capability check.
func (h *CandidateHandler) loadScoped(c *fiber.Ctx, check func(*model.User, *model.Candidate) bool) (*model.Candidate, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, response.Unauthorized(c, "User not authenticated")
	}

	id, err := parseCandidateID(c)
	if err != nil {
		return nil, response.BadRequest(c, "Invalid candidate ID")
	}

	candidate, err := h.candidateService.GetCandidate(c.Context(), id)
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

// CreateCandidate handles POST /api/v1/candidates
func (h *CandidateHandler) CreateCandidate(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	if !capability.CanManageCandidate(user, nil) {
		return response.Forbidden(c, "Insufficient permissions to create candidates")
	}

	var req services.CreateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	// Campus-scoped staff always register into their own campus
	if user.Role == model.RoleCampusAdmin {
		req.CampusID = user.CampusID
	}

	candidate, err := h.candidateService.CreateCandidate(c.Context(), req)
	if err != nil {
		return response.Conflict(c, err.Error())
	}

	return response.Created(c, candidate)
}

// GetCandidate handles GET /api/v1/candidates/:id
func (h *CandidateHandler) GetCandidate(c *fiber.Ctx) error {
	candidate, err := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return err
	}
	return response.Success(c, candidate)
}

// ListCandidates handles GET /api/v1/candidates
func (h *CandidateHandler) ListCandidates(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	opts := services.ListCandidatesOptions{
		Status: model.CandidateStatus(c.Query("status")),
	}
	if v, err := strconv.ParseUint(c.Query("campus_id"), 10, 32); err == nil {
		id := uint(v)
		opts.CampusID = &id
	}
	if v, err := strconv.ParseUint(c.Query("oep_id"), 10, 32); err == nil {
		id := uint(v)
		opts.OEPID = &id
	}
	if v, err := strconv.ParseUint(c.Query("batch_id"), 10, 32); err == nil {
		id := uint(v)
		opts.BatchID = &id
	}
	opts.Limit, _ = strconv.Atoi(c.Query("limit", "20"))
	opts.Offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	// Scoped staff only see their own campus or OEP
	if !capability.IsAdmin(user.Role) && user.Role != model.RoleViewer {
		if user.CampusID != nil {
			opts.CampusID = user.CampusID
		}
		if user.OEPID != nil {
			opts.OEPID = user.OEPID
		}
	}

	candidates, total, err := h.candidateService.ListCandidates(c.Context(), opts)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch candidates")
	}

	return response.Success(c, fiber.Map{
		"candidates": candidates,
		"total":      total,
		"limit":      opts.Limit,
		"offset":     opts.Offset,
	})
}

// TransitionRequest represents a status transition request
type TransitionRequest struct {
	Target  model.CandidateStatus `json:"target" validate:"required"`
	Remarks string                `json:"remarks"`
}

// Transition handles POST /api/v1/candidates/:id/transition
func (h *CandidateHandler) Transition(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanManageCandidate)
	if candidate == nil {
		return respErr
	}
	user, _ := middleware.GetUser(c)

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !model.IsValidStatus(req.Target) {
		return response.BadRequest(c, "Unknown target status")
	}

	result, err := h.candidateService.Transition(c.Context(), candidate.ID, req.Target, user.ID, req.Remarks)
	if err != nil {
		var invalid *services.InvalidTransitionError
		var gate *services.GateNotSatisfiedError
		switch {
		case errors.As(err, &invalid):
			return response.Conflict(c, invalid.Error())
		case errors.As(err, &gate):
			return response.Error(c, fiber.StatusUnprocessableEntity, gate.Error(), "GATE_NOT_SATISFIED")
		case errors.Is(err, services.ErrCandidateNotFound):
			return response.NotFound(c, "Candidate not found")
		default:
			return response.InternalServerError(c, "Failed to transition candidate")
		}
	}

	return response.Success(c, result)
}

// EvaluateGate handles GET /api/v1/candidates/:id/gate/:target
// Returns the gate result without attempting the transition.
func (h *CandidateHandler) EvaluateGate(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	target := model.CandidateStatus(c.Params("target"))
	if !model.IsValidStatus(target) {
		return response.BadRequest(c, "Unknown target status")
	}

	gate, err := h.candidateService.EvaluateGate(c.Context(), candidate.ID, target)
	if err != nil {
		var invalid *services.InvalidTransitionError
		if errors.As(err, &invalid) {
			return response.Conflict(c, invalid.Error())
		}
		return response.InternalServerError(c, "Failed to evaluate gate")
	}

	return response.Success(c, gate)
}

// GetJourney handles GET /api/v1/candidates/:id/journey
func (h *CandidateHandler) GetJourney(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	journey, err := h.journeyService.GetCompleteJourney(c.Context(), candidate.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to build journey")
	}
	return response.Success(c, journey)
}

// GetBlockers handles GET /api/v1/candidates/:id/blockers
func (h *CandidateHandler) GetBlockers(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	blockers, err := h.journeyService.GetBlockers(c.Context(), candidate.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute blockers")
	}
	return response.Success(c, fiber.Map{"blockers": blockers})
}

// GetProgress handles GET /api/v1/candidates/:id/progress
func (h *CandidateHandler) GetProgress(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	progress, err := h.journeyService.GetProgressPercentage(c.Context(), candidate.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute progress")
	}
	return response.Success(c, fiber.Map{"progress": progress})
}

// GetNextActions handles GET /api/v1/candidates/:id/next-actions
func (h *CandidateHandler) GetNextActions(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	actions, err := h.journeyService.GetNextRequiredActions(c.Context(), candidate.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute next actions")
	}
	return response.Success(c, fiber.Map{"next_actions": actions})
}
