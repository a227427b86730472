package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/waslhq/wasl-api/model"
	"github.com/waslhq/wasl-api/utils/cache"
	"gorm.io/gorm"
)

// journeyCacheTTL bounds how stale a cached journey projection may get; every
// transition also invalidates explicitly.
const journeyCacheTTL = 5 * time.Minute

// JourneyService builds read-only projections over the pipeline state: the
// complete journey, milestones, progress, blockers and next actions.
type JourneyService struct {
	db         *gorm.DB
	candidates *CandidateService
	cache      *cache.RedisCache // nil when redis is unavailable
}

// NewJourneyService creates a new journey service
func NewJourneyService(db *gorm.DB, candidates *CandidateService, redisCache *cache.RedisCache) *JourneyService {
	return &JourneyService{db: db, candidates: candidates, cache: redisCache}
}

// Milestone is one step of the pipeline with its completion time, if reached.
type Milestone struct {
	Status    model.CandidateStatus `json:"status"`
	Reached   bool                  `json:"reached"`
	ReachedAt *time.Time            `json:"reached_at,omitempty"`
	Current   bool                  `json:"current"`
}

// Journey is the full read-side view of a candidate's pipeline position.
type Journey struct {
	CandidateID     uint                  `json:"candidate_id"`
	Name            string                `json:"name"`
	Status          model.CandidateStatus `json:"status"`
	AllocatedNumber string                `json:"allocated_number,omitempty"`
	Progress        int                   `json:"progress"`
	Milestones      []Milestone           `json:"milestones"`
	Blockers        []string              `json:"blockers,omitempty"`
	NextStatus      model.CandidateStatus `json:"next_status,omitempty"`
	NextActions     []string              `json:"next_actions,omitempty"`
}

func journeyCacheKey(candidateID uint) string {
	return fmt.Sprintf("journey:candidate:%d", candidateID)
}

// Invalidate drops the cached projection after a transition.
func (s *JourneyService) Invalidate(ctx context.Context, candidateID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, journeyCacheKey(candidateID)); err != nil {
		log.Printf("Failed to invalidate journey cache for candidate %d: %v", candidateID, err)
	}
}

// GetCompleteJourney assembles the journey projection, serving from cache
// when possible.
func (s *JourneyService) GetCompleteJourney(ctx context.Context, candidateID uint) (*Journey, error) {
	if s.cache != nil {
		var cached Journey
		if err := s.cache.GetJSON(ctx, journeyCacheKey(candidateID), &cached); err == nil {
			return &cached, nil
		}
	}

	candidate, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	milestones, err := s.GetMilestones(ctx, candidate)
	if err != nil {
		return nil, err
	}

	journey := &Journey{
		CandidateID:     candidate.ID,
		Name:            candidate.Name,
		Status:          candidate.Status,
		AllocatedNumber: candidate.AllocatedNumber,
		Progress:        s.progressOf(candidate, milestones),
		Milestones:      milestones,
	}

	if next, ok := s.nextOnPath(candidate.Status); ok {
		journey.NextStatus = next
		gate, err := s.candidates.EvaluateGate(ctx, candidateID, next)
		if err != nil {
			return nil, err
		}
		journey.Blockers = gate.Reasons
		journey.NextActions = nextActions(next, gate)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, journeyCacheKey(candidateID), journey, journeyCacheTTL); err != nil {
			log.Printf("Failed to cache journey for candidate %d: %v", candidateID, err)
		}
	}
	return journey, nil
}

// GetMilestones builds the per-stage milestones from the transition audit
// trail.
func (s *JourneyService) GetMilestones(ctx context.Context, candidate *model.Candidate) ([]Milestone, error) {
	var logs []model.StatusTransitionLog
	err := s.db.WithContext(ctx).
		Where("candidate_id = ?", candidate.ID).
		Order("created_at ASC").Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load transition logs: %w", err)
	}

	reachedAt := map[model.CandidateStatus]time.Time{
		model.StatusNew: candidate.CreatedAt,
	}
	for _, entry := range logs {
		if _, seen := reachedAt[entry.ToStatus]; !seen {
			reachedAt[entry.ToStatus] = entry.CreatedAt
		}
	}

	milestones := make([]Milestone, 0, len(model.PipelinePath))
	for _, status := range model.PipelinePath {
		m := Milestone{Status: status, Current: candidate.Status == status}
		if at, ok := reachedAt[status]; ok {
			m.Reached = true
			t := at
			m.ReachedAt = &t
		}
		milestones = append(milestones, m)
	}
	return milestones, nil
}

// GetProgressPercentage returns how far along the forward path the candidate
// is, 0-100. Escaped candidates keep the progress of their last pipeline
// position.
func (s *JourneyService) GetProgressPercentage(ctx context.Context, candidateID uint) (int, error) {
	candidate, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return 0, err
	}
	milestones, err := s.GetMilestones(ctx, candidate)
	if err != nil {
		return 0, err
	}
	return s.progressOf(candidate, milestones), nil
}

func (s *JourneyService) progressOf(candidate *model.Candidate, milestones []Milestone) int {
	idx := model.StatusIndex(candidate.Status)
	if idx < 0 {
		// Rejected/dropped: last reached forward milestone counts.
		for i := len(milestones) - 1; i >= 0; i-- {
			if milestones[i].Reached {
				idx = i
				break
			}
		}
		if idx < 0 {
			idx = 0
		}
	}
	return idx * 100 / (len(model.PipelinePath) - 1)
}

// GetBlockers returns the unmet conditions for the candidate's next forward
// step, empty when the way is clear or the candidate is terminal.
func (s *JourneyService) GetBlockers(ctx context.Context, candidateID uint) ([]string, error) {
	candidate, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	next, ok := s.nextOnPath(candidate.Status)
	if !ok {
		return nil, nil
	}
	gate, err := s.candidates.EvaluateGate(ctx, candidateID, next)
	if err != nil {
		return nil, err
	}
	return gate.Reasons, nil
}

// GetNextRequiredActions translates the next gate's unmet conditions into
// operator actions.
func (s *JourneyService) GetNextRequiredActions(ctx context.Context, candidateID uint) ([]string, error) {
	candidate, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	next, ok := s.nextOnPath(candidate.Status)
	if !ok {
		return nil, nil
	}
	gate, err := s.candidates.EvaluateGate(ctx, candidateID, next)
	if err != nil {
		return nil, err
	}
	return nextActions(next, gate), nil
}

func (s *JourneyService) nextOnPath(status model.CandidateStatus) (model.CandidateStatus, bool) {
	idx := model.StatusIndex(status)
	if idx < 0 || idx >= len(model.PipelinePath)-1 {
		return "", false
	}
	return model.PipelinePath[idx+1], true
}

func nextActions(target model.CandidateStatus, gate *GateResult) []string {
	if gate.Satisfied {
		return []string{fmt.Sprintf("advance candidate to %s", target)}
	}
	actions := make([]string, 0, len(gate.Reasons))
	for _, reason := range gate.Reasons {
		actions = append(actions, "resolve: "+reason)
	}
	return actions
}
