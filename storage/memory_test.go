package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthGardenAPI/internal/goal"
)

func TestMemoryStoreGoalLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.CreateGoal(ctx, "user_1", NewGoal{
		Name:           "Learn guitar",
		PlantType:      goal.PlantTree,
		TimelineMonths: 6,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, created.ID)
	assert.Equal(t, 1, created.CurrentLevel)
	assert.Equal(t, 0, created.CurrentXP)
	assert.Equal(t, 100, created.MaxXP)
	assert.Equal(t, goal.StatusActive, created.Status)
	assert.False(t, created.LastWatered.IsZero())

	fetched, err := store.GetGoal(ctx, "user_1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Learn guitar", fetched.Name)

	// Other users cannot see or touch it.
	_, err = store.GetGoal(ctx, "user_2", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = store.DeleteGoal(ctx, "user_2", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	newName := "Master guitar"
	updated, err := store.UpdateGoal(ctx, "user_1", created.ID, GoalPatch{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Master guitar", updated.Name)
	assert.Equal(t, 6, updated.TimelineMonths, "untouched fields survive a patch")

	require.NoError(t, store.DeleteGoal(ctx, "user_1", created.ID))
	_, err = store.GetGoal(ctx, "user_1", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreGoalDeleteCascadesActions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	g, err := store.CreateGoal(ctx, "user_1", NewGoal{Name: "Run", PlantType: goal.PlantHerb, TimelineMonths: 3})
	require.NoError(t, err)

	a, err := store.CreateAction(ctx, "user_1", NewAction{GoalID: g.ID, Title: "5k run", XPReward: 15})
	require.NoError(t, err)

	require.NoError(t, store.DeleteGoal(ctx, "user_1", g.ID))

	_, err = store.GetAction(ctx, "user_1", a.ID)
	assert.ErrorIs(t, err, ErrNotFound, "actions go down with their goal")
}

func TestMemoryStoreAchievementIdempotentPerCode(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.CreateAchievement(ctx, "user_1", NewAchievement{
		Code: "first-action", Title: "First Step", Description: "Completed your first action", IconName: "🌱",
	})
	require.NoError(t, err)

	again, err := store.CreateAchievement(ctx, "user_1", NewAchievement{
		Code: "first-action", Title: "First Step", Description: "Completed your first action", IconName: "🌱",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	unlocked, err := store.ListAchievements(ctx, "user_1")
	require.NoError(t, err)
	assert.Len(t, unlocked, 1)

	// A different user unlocking the same code is a separate row.
	_, err = store.CreateAchievement(ctx, "user_2", NewAchievement{Code: "first-action", Title: "First Step"})
	require.NoError(t, err)
	other, err := store.ListAchievements(ctx, "user_2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestMemoryStoreDailyHabits(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetDailyHabit(ctx, "user_1", "2025-03-10")
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := store.CreateDailyHabit(ctx, "user_1", NewHabit{
		Date: "2025-03-10", EatHealthy: true, Exercise: false, SleepBefore11PM: true,
	})
	require.NoError(t, err)
	assert.True(t, created.EatHealthy)

	// Same-day create overwrites instead of erroring.
	upserted, err := store.CreateDailyHabit(ctx, "user_1", NewHabit{
		Date: "2025-03-10", EatHealthy: false, Exercise: true, SleepBefore11PM: true,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, upserted.ID)
	assert.False(t, upserted.EatHealthy)
	assert.True(t, upserted.Exercise)

	_, err = store.CreateDailyHabit(ctx, "user_1", NewHabit{Date: "2025-03-12", Exercise: true})
	require.NoError(t, err)
	_, err = store.CreateDailyHabit(ctx, "user_1", NewHabit{Date: "2025-04-01", Exercise: true})
	require.NoError(t, err)

	habits, err := store.ListDailyHabits(ctx, "user_1", "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, "2025-03-10", habits[0].Date)
	assert.Equal(t, "2025-03-12", habits[1].Date)

	exercise := false
	patched, err := store.UpdateDailyHabit(ctx, "user_1", "2025-03-12", HabitPatch{Exercise: &exercise})
	require.NoError(t, err)
	assert.False(t, patched.Exercise)

	_, err = store.UpdateDailyHabit(ctx, "user_1", "2025-05-01", HabitPatch{Exercise: &exercise})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreActionDefaultsAndScoping(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	g, err := store.CreateGoal(ctx, "user_1", NewGoal{Name: "Read", PlantType: goal.PlantFlower, TimelineMonths: 3})
	require.NoError(t, err)

	a, err := store.CreateAction(ctx, "user_1", NewAction{GoalID: g.ID, Title: "Read a chapter", XPReward: 20})
	require.NoError(t, err)
	assert.False(t, a.IsCompleted)
	assert.Nil(t, a.CompletedAt)
	assert.Equal(t, 20, a.XPReward)

	byGoal, err := store.ListActionsByGoal(ctx, "user_1", g.ID)
	require.NoError(t, err)
	assert.Len(t, byGoal, 1)

	other, err := store.ListActions(ctx, "user_2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
