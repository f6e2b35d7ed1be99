package achievement

import "time"

// Code is the stable key an achievement is unlocked under. Titles are
// display text and may change; codes never do.
type Code string

const (
	CodeFirstAction    Code = "first-action"
	CodeActionStreak   Code = "action-streak"
	CodeGoalSetter     Code = "goal-setter"
	CodeMultiGoal      Code = "multi-goal"
	CodeLevelUp        Code = "level-up"
	CodeMasterGardener Code = "master-gardener"
	CodeConsistency    Code = "consistency"
	CodeVariety        Code = "variety"
)

type Achievement struct {
	ID          int       `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Code        Code      `json:"code" db:"code"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	IconName    string    `json:"iconName" db:"icon_name"`
	UnlockedAt  time.Time `json:"unlockedAt" db:"unlocked_at"`
}

type CreateAchievementRequest struct {
	Code        string `json:"code" validate:"required,min=1,max=50"`
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"required,min=1,max=500"`
	IconName    string `json:"iconName" validate:"required,min=1,max=50"`
}

// Definition describes one unlockable achievement.
type Definition struct {
	Code        Code
	Title       string
	Description string
	IconName    string
}

// Catalog is the ordered list of unlockable achievements. Evaluation
// walks it front to back.
var Catalog = []Definition{
	{CodeFirstAction, "First Step", "Completed your first action", "🌱"},
	{CodeActionStreak, "Action Hero", "Completed 5 actions", "⚡"},
	{CodeGoalSetter, "Goal Setter", "Created your first goal", "🎯"},
	{CodeMultiGoal, "Multi-Tasker", "Created 3 goals", "🌳"},
	{CodeLevelUp, "Level Up!", "Reached level 2 with any goal", "📈"},
	{CodeMasterGardener, "Master Gardener", "Reached level 5 with any goal", "👑"},
	{CodeConsistency, "Consistency King", "Completed 10 actions", "🔥"},
	{CodeVariety, "Variety Seeker", "Created goals of different plant types", "🌺"},
}
