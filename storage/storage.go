package storage

import (
	"context"
	"errors"
	"time"

	"growthGardenAPI/internal/achievement"
	"growthGardenAPI/internal/action"
	"growthGardenAPI/internal/goal"
	"growthGardenAPI/internal/habit"
	"growthGardenAPI/internal/user"
)

// ErrNotFound is returned when an entity is absent or not owned by the
// requesting user. Handlers map it to 404.
var ErrNotFound = errors.New("not found")

// NewGoal, NewAction, NewAchievement, NewHabit and NewUser carry validated,
// parsed create payloads into a backend. Server-assigned fields (ids, XP
// defaults, timestamps) are set by the backend itself.

type NewGoal struct {
	Name           string
	Description    *string
	PlantType      goal.PlantType
	TimelineMonths int
}

type NewAction struct {
	GoalID         int
	Title          string
	Description    *string
	XPReward       int
	PersonalReward *string
	DueDate        *time.Time
}

type NewAchievement struct {
	Code        achievement.Code
	Title       string
	Description string
	IconName    string
}

type NewHabit struct {
	Date            string
	EatHealthy      bool
	Exercise        bool
	SleepBefore11PM bool
	Notes           *string
}

type NewUser struct {
	ID        string
	Email     string
	Name      *string
	AvatarURL *string
}

// GoalPatch updates the non-nil fields of a goal. A nil pointer leaves the
// stored value untouched.
type GoalPatch struct {
	Name           *string
	Description    *string
	TimelineMonths *int
	Status         *goal.Status
	CurrentLevel   *int
	CurrentXP      *int
	LastWatered    *time.Time
}

// ActionPatch updates the non-nil fields of an action.
type ActionPatch struct {
	IsCompleted  *bool
	CompletedAt  *time.Time
	Feeling      *string
	Reflection   *string
	Difficulty   *int
	Satisfaction *int
	ReflectedAt  *time.Time
}

// HabitPatch updates the non-nil fields of a daily habit.
type HabitPatch struct {
	EatHealthy      *bool
	Exercise        *bool
	SleepBefore11PM *bool
	Notes           *string
}

// Store is the persistence gateway. Every operation is scoped to the owning
// user passed per call. Exactly two implementations exist: MemoryStore
// (volatile fallback) and PostgresStore, selected once at startup.
type Store interface {
	// Users
	GetUser(ctx context.Context, id string) (*user.User, error)
	CreateUser(ctx context.Context, in NewUser) (*user.User, error)
	UpdateUser(ctx context.Context, id string, req *user.UpdateProfileRequest) (*user.User, error)

	// Goals
	ListGoals(ctx context.Context, userID string) ([]goal.Goal, error)
	GetGoal(ctx context.Context, userID string, id int) (*goal.Goal, error)
	CreateGoal(ctx context.Context, userID string, in NewGoal) (*goal.Goal, error)
	UpdateGoal(ctx context.Context, userID string, id int, patch GoalPatch) (*goal.Goal, error)
	DeleteGoal(ctx context.Context, userID string, id int) error

	// Actions
	ListActions(ctx context.Context, userID string) ([]action.Action, error)
	ListActionsByGoal(ctx context.Context, userID string, goalID int) ([]action.Action, error)
	GetAction(ctx context.Context, userID string, id int) (*action.Action, error)
	CreateAction(ctx context.Context, userID string, in NewAction) (*action.Action, error)
	UpdateAction(ctx context.Context, userID string, id int, patch ActionPatch) (*action.Action, error)
	DeleteAction(ctx context.Context, userID string, id int) error

	// Achievements
	ListAchievements(ctx context.Context, userID string) ([]achievement.Achievement, error)
	CreateAchievement(ctx context.Context, userID string, in NewAchievement) (*achievement.Achievement, error)

	// Daily habits
	GetDailyHabit(ctx context.Context, userID, date string) (*habit.DailyHabit, error)
	ListDailyHabits(ctx context.Context, userID, startDate, endDate string) ([]habit.DailyHabit, error)
	CreateDailyHabit(ctx context.Context, userID string, in NewHabit) (*habit.DailyHabit, error)
	UpdateDailyHabit(ctx context.Context, userID, date string, patch HabitPatch) (*habit.DailyHabit, error)

	// Persistent reports whether data survives a restart.
	Persistent() bool
}
