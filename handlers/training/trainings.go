package training

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

// TrainingHandler handles training progress endpoints
type TrainingHandler struct {
	trainingService  *services.TrainingService
	candidateService *services.CandidateService
	validator        *validation.Validator
}

// NewTrainingHandler creates a new training handler
func NewTrainingHandler(trainingService *services.TrainingService, candidateService *services.CandidateService) *TrainingHandler {
	return &TrainingHandler{
		trainingService:  trainingService,
		candidateService: candidateService,
		validator:        validation.NewValidator(),
	}
}

func (h *TrainingHandler) loadScoped(c *fiber.Ctx, check func(*model.User, *model.Candidate) bool) (*model.Candidate, error) {
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

// RecordAssessment handles POST /api/v1/candidates/:id/assessments
func (h *TrainingHandler) RecordAssessment(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanRecordTraining)
	if candidate == nil {
		return respErr
	}
	user, _ := middleware.GetUser(c)

	var req services.RecordAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.CandidateID = candidate.ID
	req.AssessorID = user.ID
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	assessment, err := h.trainingService.RecordAssessment(c.Context(), req)
	if err != nil {
		return response.Conflict(c, err.Error())
	}
	return response.Created(c, assessment)
}

// AttendanceRequest represents an attendance update
type AttendanceRequest struct {
	Percent float64 `json:"percent" validate:"gte=0,lte=100"`
}

// UpdateAttendance handles PUT /api/v1/candidates/:id/attendance
func (h *TrainingHandler) UpdateAttendance(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanRecordTraining)
	if candidate == nil {
		return respErr
	}

	var req AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Percent < 0 || req.Percent > 100 {
		return response.BadRequest(c, "percent must be between 0 and 100")
	}

	if err := h.trainingService.UpdateAttendance(c.Context(), candidate.ID, req.Percent); err != nil {
		return response.Conflict(c, err.Error())
	}
	return response.Success(c, fiber.Map{"candidate_id": candidate.ID, "attendance_percent": req.Percent})
}

// GetTraining handles GET /api/v1/candidates/:id/training
func (h *TrainingHandler) GetTraining(c *fiber.Ctx) error {
	candidate, respErr := h.loadScoped(c, capability.CanViewCandidate)
	if candidate == nil {
		return respErr
	}

	training, assessments, err := h.trainingService.GetTraining(c.Context(), candidate.ID)
	if err != nil {
		return response.NotFound(c, "No training record for this candidate")
	}

	complete, _ := h.trainingService.IsTrainingComplete(c.Context(), candidate.ID)

	return response.Success(c, fiber.Map{
		"training":    training,
		"assessments": assessments,
		"complete":    complete,
	})
}
