package services

import (
	"context"
	"fmt"
	"log"

	"growthGardenAPI/internal/achievement"
	"growthGardenAPI/internal/action"
	"growthGardenAPI/internal/goal"
	"growthGardenAPI/storage"
)

// AchievementService walks the fixed achievement catalog against the
// user's current goals and actions, unlocking whatever newly holds. There
// is no revocation path.
type AchievementService struct {
	store storage.Store
}

func NewAchievementService(store storage.Store) *AchievementService {
	return &AchievementService{store: store}
}

func (s *AchievementService) List(ctx context.Context, userID string) ([]achievement.Achievement, error) {
	return s.store.ListAchievements(ctx, userID)
}

func (s *AchievementService) Create(ctx context.Context, userID string, req *achievement.CreateAchievementRequest) (*achievement.Achievement, error) {
	return s.store.CreateAchievement(ctx, userID, storage.NewAchievement{
		Code:        achievement.Code(req.Code),
		Title:       req.Title,
		Description: req.Description,
		IconName:    req.IconName,
	})
}

// Evaluate runs every catalog predicate and creates any achievement that
// holds and is not yet unlocked. It returns the newly created records.
func (s *AchievementService) Evaluate(ctx context.Context, userID string) ([]achievement.Achievement, error) {
	actions, err := s.store.ListActions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load actions: %w", err)
	}
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	existing, err := s.store.ListAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	unlocked := make(map[achievement.Code]bool, len(existing))
	for _, a := range existing {
		unlocked[a.Code] = true
	}

	created := make([]achievement.Achievement, 0)
	for _, def := range achievement.Catalog {
		if unlocked[def.Code] || !holds(def.Code, goals, actions) {
			continue
		}
		a, err := s.store.CreateAchievement(ctx, userID, storage.NewAchievement{
			Code:        def.Code,
			Title:       def.Title,
			Description: def.Description,
			IconName:    def.IconName,
		})
		if err != nil {
			return created, fmt.Errorf("failed to unlock %s: %w", def.Code, err)
		}
		log.Printf("Unlocked achievement %s for %s", def.Code, userID)
		created = append(created, *a)
	}
	return created, nil
}

func holds(code achievement.Code, goals []goal.Goal, actions []action.Action) bool {
	completed := 0
	for _, a := range actions {
		if a.IsCompleted {
			completed++
		}
	}

	switch code {
	case achievement.CodeFirstAction:
		return completed == 1
	case achievement.CodeActionStreak:
		return completed >= 5
	case achievement.CodeGoalSetter:
		return len(goals) >= 1
	case achievement.CodeMultiGoal:
		return len(goals) >= 3
	case achievement.CodeLevelUp:
		return anyGoalAtLevel(goals, 2)
	case achievement.CodeMasterGardener:
		return anyGoalAtLevel(goals, 5)
	case achievement.CodeConsistency:
		return completed >= 10
	case achievement.CodeVariety:
		types := make(map[goal.PlantType]bool)
		for _, g := range goals {
			types[g.PlantType] = true
		}
		return len(types) >= 3
	}
	return false
}

func anyGoalAtLevel(goals []goal.Goal, level int) bool {
	for _, g := range goals {
		if g.CurrentLevel >= level {
			return true
		}
	}
	return false
}
