package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthGardenAPI/internal/achievement"
	"growthGardenAPI/internal/action"
	"growthGardenAPI/internal/goal"
	"growthGardenAPI/storage"
)

func TestEvaluateUnlocksFirstActionExactlyOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	achievements := NewAchievementService(store)
	garden := NewGardenService(store, achievements)
	ctx := context.Background()

	g, err := garden.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "Learn Go", PlantType: "tree"})
	require.NoError(t, err)

	// Creating a goal already unlocks goal-setter.
	unlocked, err := achievements.List(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, achievement.CodeGoalSetter, unlocked[0].Code)

	a1, err := garden.CreateAction(ctx, "user_1", &action.CreateActionRequest{GoalID: g.ID, Title: "Read the tour"})
	require.NoError(t, err)
	a2, err := garden.CreateAction(ctx, "user_1", &action.CreateActionRequest{GoalID: g.ID, Title: "Write a program"})
	require.NoError(t, err)

	_, err = garden.CompleteAction(ctx, "user_1", a1.ID)
	require.NoError(t, err)

	unlocked, err = achievements.List(ctx, "user_1")
	require.NoError(t, err)
	codes := codeSet(unlocked)
	assert.True(t, codes[achievement.CodeFirstAction])

	// The predicate holds only at exactly one completion, but the unlock
	// persists afterwards.
	_, err = garden.CompleteAction(ctx, "user_1", a2.ID)
	require.NoError(t, err)

	unlocked, err = achievements.List(ctx, "user_1")
	require.NoError(t, err)
	firstActionCount := 0
	for _, a := range unlocked {
		if a.Code == achievement.CodeFirstAction {
			firstActionCount++
		}
	}
	assert.Equal(t, 1, firstActionCount)
}

func TestEvaluateCountThresholds(t *testing.T) {
	store := storage.NewMemoryStore()
	achievements := NewAchievementService(store)
	garden := NewGardenService(store, achievements)
	ctx := context.Background()

	g, err := garden.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "Practice", PlantType: "herb"})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		a, err := garden.CreateAction(ctx, "user_1", &action.CreateActionRequest{GoalID: g.ID, Title: "Session", XPReward: 10})
		require.NoError(t, err)
		_, err = garden.CompleteAction(ctx, "user_1", a.ID)
		require.NoError(t, err)
	}

	unlocked, err := achievements.List(ctx, "user_1")
	require.NoError(t, err)
	codes := codeSet(unlocked)

	assert.True(t, codes[achievement.CodeActionStreak], "5 completions")
	assert.True(t, codes[achievement.CodeConsistency], "10 completions")
	assert.True(t, codes[achievement.CodeLevelUp], "100 XP total reaches level 2")
	assert.False(t, codes[achievement.CodeMasterGardener])
	assert.False(t, codes[achievement.CodeVariety])
}

func TestEvaluateVarietyNeedsThreePlantTypes(t *testing.T) {
	store := storage.NewMemoryStore()
	achievements := NewAchievementService(store)
	garden := NewGardenService(store, achievements)
	ctx := context.Background()

	_, err := garden.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "A", PlantType: "herb"})
	require.NoError(t, err)
	_, err = garden.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "B", PlantType: "herb"})
	require.NoError(t, err)

	unlocked, err := achievements.List(ctx, "user_1")
	require.NoError(t, err)
	assert.False(t, codeSet(unlocked)[achievement.CodeVariety])

	_, err = garden.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "C", PlantType: "tree"})
	require.NoError(t, err)
	_, err = garden.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "D", PlantType: "flower"})
	require.NoError(t, err)

	unlocked, err = achievements.List(ctx, "user_1")
	require.NoError(t, err)
	codes := codeSet(unlocked)
	assert.True(t, codes[achievement.CodeVariety])
	assert.True(t, codes[achievement.CodeMultiGoal], "3 goals")
}

func codeSet(list []achievement.Achievement) map[achievement.Code]bool {
	out := make(map[achievement.Code]bool, len(list))
	for _, a := range list {
		out[a.Code] = true
	}
	return out
}
