package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"growthGardenAPI/internal/action"
	"growthGardenAPI/internal/goal"
	"growthGardenAPI/storage"
)

// ErrActionCompleted is returned when completing an already-completed
// action; XP is only ever awarded once.
var ErrActionCompleted = errors.New("action already completed")

// ErrInvalidDueDate is returned when a due date string cannot be parsed.
var ErrInvalidDueDate = errors.New("invalid due date")

// GardenService owns goal and action lifecycles: creation, completion with
// XP leveling, and the withering sweep.
type GardenService struct {
	store        storage.Store
	achievements *AchievementService
}

func NewGardenService(store storage.Store, achievements *AchievementService) *GardenService {
	return &GardenService{store: store, achievements: achievements}
}

func (s *GardenService) ListGoals(ctx context.Context, userID string) ([]goal.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

func (s *GardenService) GetGoal(ctx context.Context, userID string, id int) (*goal.Goal, error) {
	return s.store.GetGoal(ctx, userID, id)
}

func (s *GardenService) CreateGoal(ctx context.Context, userID string, req *goal.CreateGoalRequest) (*goal.Goal, error) {
	in := storage.NewGoal{
		Name:           req.Name,
		Description:    req.Description,
		PlantType:      goal.PlantType(req.PlantType),
		TimelineMonths: req.TimelineMonths,
	}
	if in.TimelineMonths == 0 {
		in.TimelineMonths = 3
	}

	created, err := s.store.CreateGoal(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	s.evaluateAchievements(ctx, userID)
	return created, nil
}

func (s *GardenService) UpdateGoal(ctx context.Context, userID string, id int, req *goal.UpdateGoalRequest) (*goal.Goal, error) {
	patch := storage.GoalPatch{
		Name:           req.Name,
		Description:    req.Description,
		TimelineMonths: req.TimelineMonths,
	}
	if req.Status != nil {
		status := goal.Status(*req.Status)
		patch.Status = &status
	}
	return s.store.UpdateGoal(ctx, userID, id, patch)
}

func (s *GardenService) DeleteGoal(ctx context.Context, userID string, id int) error {
	return s.store.DeleteGoal(ctx, userID, id)
}

// CheckHealth sweeps the user's active goals: anything unwatered for more
// than 168 hours withers (one way, no revival), anything past 72 hours is
// flagged as needing attention without being persisted.
func (s *GardenService) CheckHealth(ctx context.Context, userID string) ([]goal.HealthStatus, error) {
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updated := make([]goal.HealthStatus, 0)
	for _, g := range goals {
		if g.Status != goal.StatusActive {
			continue
		}
		sinceWatered := now.Sub(g.LastWatered)

		switch {
		case sinceWatered > goal.WitherAfter:
			withered := goal.StatusWithered
			changed, err := s.store.UpdateGoal(ctx, userID, g.ID, storage.GoalPatch{Status: &withered})
			if err != nil {
				return nil, fmt.Errorf("failed to wither goal %d: %w", g.ID, err)
			}
			updated = append(updated, goal.HealthStatus{Goal: *changed})
		case sinceWatered > goal.AttentionAfter:
			updated = append(updated, goal.HealthStatus{Goal: g, NeedsAttention: true})
		}
	}
	return updated, nil
}

func (s *GardenService) ListActions(ctx context.Context, userID string) ([]action.Action, error) {
	return s.store.ListActions(ctx, userID)
}

func (s *GardenService) ListActionsByGoal(ctx context.Context, userID string, goalID int) ([]action.Action, error) {
	return s.store.ListActionsByGoal(ctx, userID, goalID)
}

func (s *GardenService) CreateAction(ctx context.Context, userID string, req *action.CreateActionRequest) (*action.Action, error) {
	// The goal must exist and belong to the caller.
	if _, err := s.store.GetGoal(ctx, userID, req.GoalID); err != nil {
		return nil, err
	}

	in := storage.NewAction{
		GoalID:         req.GoalID,
		Title:          req.Title,
		Description:    req.Description,
		XPReward:       req.XPReward,
		PersonalReward: req.PersonalReward,
	}
	if in.XPReward == 0 {
		in.XPReward = action.DefaultXPReward
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		in.DueDate = &due
	}

	return s.store.CreateAction(ctx, userID, in)
}

// CompleteAction marks an action completed exactly once, waters the parent
// goal and awards its XP. Leveling is incremental: earned XP rolls the
// level forward and the remainder is stored, so currentXP always stays in
// [0, maxXP).
func (s *GardenService) CompleteAction(ctx context.Context, userID string, id int) (*action.Action, error) {
	a, err := s.store.GetAction(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if a.IsCompleted {
		return nil, ErrActionCompleted
	}

	now := time.Now()
	completed := true
	updated, err := s.store.UpdateAction(ctx, userID, id, storage.ActionPatch{
		IsCompleted: &completed,
		CompletedAt: &now,
	})
	if err != nil {
		return nil, err
	}

	g, err := s.store.GetGoal(ctx, userID, a.GoalID)
	if err == nil {
		newTotal := g.CurrentXP + a.XPReward
		newLevel := g.CurrentLevel + newTotal/g.MaxXP
		newXP := newTotal % g.MaxXP

		if _, err := s.store.UpdateGoal(ctx, userID, g.ID, storage.GoalPatch{
			CurrentLevel: &newLevel,
			CurrentXP:    &newXP,
			LastWatered:  &now,
		}); err != nil {
			return nil, fmt.Errorf("failed to award XP to goal %d: %w", g.ID, err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	s.evaluateAchievements(ctx, userID)
	return updated, nil
}

// SaveReflection records how the action felt. Repeated calls overwrite the
// previous reflection, last write wins.
func (s *GardenService) SaveReflection(ctx context.Context, userID string, id int, req *action.ReflectionRequest) (*action.Action, error) {
	if _, err := s.store.GetAction(ctx, userID, id); err != nil {
		return nil, err
	}

	now := time.Now()
	return s.store.UpdateAction(ctx, userID, id, storage.ActionPatch{
		Feeling:      &req.Feeling,
		Reflection:   req.Reflection,
		Difficulty:   req.Difficulty,
		Satisfaction: req.Satisfaction,
		ReflectedAt:  &now,
	})
}

func (s *GardenService) DeleteAction(ctx context.Context, userID string, id int) error {
	return s.store.DeleteAction(ctx, userID, id)
}

// evaluateAchievements is best-effort: unlock failures never surface to the
// caller of the mutation that triggered them.
func (s *GardenService) evaluateAchievements(ctx context.Context, userID string) {
	if s.achievements == nil {
		return
	}
	if _, err := s.achievements.Evaluate(ctx, userID); err != nil {
		log.Printf("Achievement evaluation failed for %s: %v", userID, err)
	}
}

func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDueDate
}
