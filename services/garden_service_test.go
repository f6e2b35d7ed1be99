package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthGardenAPI/internal/action"
	"growthGardenAPI/internal/goal"
	"growthGardenAPI/storage"
)

func newTestGarden(t *testing.T) (*GardenService, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewGardenService(store, NewAchievementService(store)), store
}

func TestCreateGoalDefaultsTimeline(t *testing.T) {
	svc, _ := newTestGarden(t)
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{
		Name:      "Meditate daily",
		PlantType: "herb",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.TimelineMonths)
	assert.Equal(t, goal.StatusActive, g.Status)
}

func TestCompleteActionAwardsXPAndLevels(t *testing.T) {
	svc, _ := newTestGarden(t)
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "Write", PlantType: "tree"})
	require.NoError(t, err)

	// 50 XP then 60 XP against maxXP 100: the second completion rolls the
	// level to 2 and leaves 10 XP, never 110 or a reset to 60.
	a1, err := svc.CreateAction(ctx, "user_1", &action.CreateActionRequest{GoalID: g.ID, Title: "Draft outline", XPReward: 50})
	require.NoError(t, err)
	a2, err := svc.CreateAction(ctx, "user_1", &action.CreateActionRequest{GoalID: g.ID, Title: "Write chapter", XPReward: 60})
	require.NoError(t, err)

	_, err = svc.CompleteAction(ctx, "user_1", a1.ID)
	require.NoError(t, err)

	mid, err := svc.GetGoal(ctx, "user_1", g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, mid.CurrentLevel)
	assert.Equal(t, 50, mid.CurrentXP)

	_, err = svc.CompleteAction(ctx, "user_1", a2.ID)
	require.NoError(t, err)

	after, err := svc.GetGoal(ctx, "user_1", g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.CurrentLevel)
	assert.Equal(t, 10, after.CurrentXP)
	assert.Less(t, after.CurrentXP, after.MaxXP)
}

func TestCompleteActionIsOneShot(t *testing.T) {
	svc, _ := newTestGarden(t)
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "Run", PlantType: "sprout"})
	require.NoError(t, err)
	a, err := svc.CreateAction(ctx, "user_1", &action.CreateActionRequest{GoalID: g.ID, Title: "Morning run", XPReward: 30})
	require.NoError(t, err)

	completed, err := svc.CompleteAction(ctx, "user_1", a.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
	require.NotNil(t, completed.CompletedAt)

	_, err = svc.CompleteAction(ctx, "user_1", a.ID)
	assert.ErrorIs(t, err, ErrActionCompleted)

	// XP was only granted once.
	after, err := svc.GetGoal(ctx, "user_1", g.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, after.CurrentXP)
}

func TestCreateActionDefaultsAndValidation(t *testing.T) {
	svc, _ := newTestGarden(t)
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "Cook", PlantType: "flower"})
	require.NoError(t, err)

	a, err := svc.CreateAction(ctx, "user_1", &action.CreateActionRequest{GoalID: g.ID, Title: "Try a new recipe"})
	require.NoError(t, err)
	assert.Equal(t, action.DefaultXPReward, a.XPReward)

	_, err = svc.CreateAction(ctx, "user_1", &action.CreateActionRequest{GoalID: 999, Title: "Orphan"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	bad := "sometime next week"
	_, err = svc.CreateAction(ctx, "user_1", &action.CreateActionRequest{GoalID: g.ID, Title: "Vague", DueDate: &bad})
	assert.ErrorIs(t, err, ErrInvalidDueDate)

	plain := "2025-06-01"
	dated, err := svc.CreateAction(ctx, "user_1", &action.CreateActionRequest{GoalID: g.ID, Title: "Dated", DueDate: &plain})
	require.NoError(t, err)
	require.NotNil(t, dated.DueDate)
	assert.Equal(t, 2025, dated.DueDate.Year())
}

func TestCheckHealthWithersNeglectedGoals(t *testing.T) {
	svc, store := newTestGarden(t)
	ctx := context.Background()

	fresh, err := svc.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "Fresh", PlantType: "herb"})
	require.NoError(t, err)
	thirsty, err := svc.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "Thirsty", PlantType: "herb"})
	require.NoError(t, err)
	neglected, err := svc.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "Neglected", PlantType: "herb"})
	require.NoError(t, err)

	fourDaysAgo := time.Now().Add(-96 * time.Hour)
	eightDaysAgo := time.Now().Add(-8 * 24 * time.Hour)
	_, err = store.UpdateGoal(ctx, "user_1", thirsty.ID, storage.GoalPatch{LastWatered: &fourDaysAgo})
	require.NoError(t, err)
	_, err = store.UpdateGoal(ctx, "user_1", neglected.ID, storage.GoalPatch{LastWatered: &eightDaysAgo})
	require.NoError(t, err)

	statuses, err := svc.CheckHealth(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byID := make(map[int]goal.HealthStatus)
	for _, s := range statuses {
		byID[s.ID] = s
	}

	assert.Equal(t, goal.StatusWithered, byID[neglected.ID].Status)
	assert.False(t, byID[neglected.ID].NeedsAttention)
	assert.Equal(t, goal.StatusActive, byID[thirsty.ID].Status)
	assert.True(t, byID[thirsty.ID].NeedsAttention)

	_, inSweep := byID[fresh.ID]
	assert.False(t, inSweep, "recently watered goals stay out of the sweep")

	// Withering is one way: a second sweep does not resurrect anything.
	statuses, err = svc.CheckHealth(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, thirsty.ID, statuses[0].ID)
}

func TestSaveReflectionOverwrites(t *testing.T) {
	svc, _ := newTestGarden(t)
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, "user_1", &goal.CreateGoalRequest{Name: "Paint", PlantType: "flower"})
	require.NoError(t, err)
	a, err := svc.CreateAction(ctx, "user_1", &action.CreateActionRequest{GoalID: g.ID, Title: "Sketch"})
	require.NoError(t, err)

	_, err = svc.SaveReflection(ctx, "user_1", a.ID, &action.ReflectionRequest{Feeling: "frustrated"})
	require.NoError(t, err)

	sat := 5
	updated, err := svc.SaveReflection(ctx, "user_1", a.ID, &action.ReflectionRequest{Feeling: "proud", Satisfaction: &sat})
	require.NoError(t, err)

	require.NotNil(t, updated.Feeling)
	assert.Equal(t, "proud", *updated.Feeling)
	require.NotNil(t, updated.Satisfaction)
	assert.Equal(t, 5, *updated.Satisfaction)
	assert.NotNil(t, updated.ReflectedAt)
}
