package batch

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

// BatchHandler handles batch allocation endpoints
type BatchHandler struct {
	allocationService *services.AllocationService
	candidateService  *services.CandidateService
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(allocationService *services.AllocationService, candidateService *services.CandidateService) *BatchHandler {
	return &BatchHandler{
		allocationService: allocationService,
		candidateService:  candidateService,
	}
}

// AllocateRequest represents a batch allocation request
type AllocateRequest struct {
	CampusID  uint `json:"campus_id" validate:"required"`
	ProgramID uint `json:"program_id" validate:"required"`
	TradeID   uint `json:"trade_id" validate:"required"`
	BatchSize int  `json:"batch_size"` // optional override, admins only
}

// Allocate handles POST /api/v1/candidates/:id/allocate
// Assigns the candidate to the open batch for the campus/program/trade key,
// creating a new batch when none has room.
func (h *BatchHandler) Allocate(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	candidateID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid candidate ID")
	}

	candidate, err := h.candidateService.GetCandidate(c.Context(), uint(candidateID))
	if err != nil {
		if errors.Is(err, services.ErrCandidateNotFound) {
			return response.NotFound(c, "Candidate not found")
		}
		return response.InternalServerError(c, "Failed to fetch candidate")
	}
	if !capability.CanManageCandidate(user, candidate) {
		return response.Forbidden(c, "Insufficient permissions for this candidate")
	}

	var req AllocateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CampusID == 0 || req.ProgramID == 0 || req.TradeID == 0 {
		return response.BadRequest(c, "campus_id, program_id and trade_id are required")
	}

	var result *services.AllocationResult
	if req.BatchSize > 0 {
		// Batch size overrides reshape capacity planning; admins only
		if !capability.IsAdmin(user.Role) {
			return response.Forbidden(c, "Batch size override requires admin access")
		}
		result, err = h.allocationService.AssignWithBatchSize(c.Context(), candidate.ID, req.CampusID, req.ProgramID, req.TradeID, req.BatchSize)
	} else {
		result, err = h.allocationService.AssignOrCreateBatch(c.Context(), candidate.ID, req.CampusID, req.ProgramID, req.TradeID)
	}
	if err != nil {
		if errors.Is(err, services.ErrAlreadyAllocated) {
			return response.Conflict(c, err.Error())
		}
		return response.BadRequest(c, err.Error())
	}

	return response.Success(c, result)
}

// GetBatch handles GET /api/v1/batches/:id
func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid batch ID")
	}

	batch, err := h.allocationService.GetBatch(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Batch not found")
	}
	return response.Success(c, batch)
}

// ListBatches handles GET /api/v1/batches
func (h *BatchHandler) ListBatches(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var campusID, programID, tradeID *uint
	if v, err := strconv.ParseUint(c.Query("campus_id"), 10, 32); err == nil {
		id := uint(v)
		campusID = &id
	}
	if v, err := strconv.ParseUint(c.Query("program_id"), 10, 32); err == nil {
		id := uint(v)
		programID = &id
	}
	if v, err := strconv.ParseUint(c.Query("trade_id"), 10, 32); err == nil {
		id := uint(v)
		tradeID = &id
	}

	// Campus staff only see their own campus
	if !capability.IsAdmin(user.Role) && user.Role != model.RoleViewer && user.CampusID != nil {
		campusID = user.CampusID
	}

	batches, err := h.allocationService.ListBatches(c.Context(), campusID, programID, tradeID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch batches")
	}
	return response.Success(c, fiber.Map{"batches": batches})
}
