package action

import "time"

// DefaultXPReward is granted when a create payload omits xpReward.
const DefaultXPReward = 15

type Action struct {
	ID             int        `json:"id" db:"id"`
	UserID         string     `json:"userId" db:"user_id"`
	GoalID         int        `json:"goalId" db:"goal_id"`
	Title          string     `json:"title" db:"title"`
	Description    *string    `json:"description" db:"description"`
	XPReward       int        `json:"xpReward" db:"xp_reward"`
	PersonalReward *string    `json:"personalReward" db:"personal_reward"`
	IsCompleted    bool       `json:"isCompleted" db:"is_completed"`
	DueDate        *time.Time `json:"dueDate" db:"due_date"`
	CompletedAt    *time.Time `json:"completedAt" db:"completed_at"`
	Feeling        *string    `json:"feeling" db:"feeling"`
	Reflection     *string    `json:"reflection" db:"reflection"`
	Difficulty     *int       `json:"difficulty" db:"difficulty"`
	Satisfaction   *int       `json:"satisfaction" db:"satisfaction"`
	ReflectedAt    *time.Time `json:"reflectedAt" db:"reflected_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
}

type CreateActionRequest struct {
	GoalID         int     `json:"goalId" validate:"required,min=1"`
	Title          string  `json:"title" validate:"required,min=1,max=200"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	XPReward       int     `json:"xpReward,omitempty" validate:"omitempty,min=1,max=100"`
	PersonalReward *string `json:"personalReward,omitempty" validate:"omitempty,max=500"`
	DueDate        *string `json:"dueDate,omitempty" validate:"omitempty"`
}

// ReflectionRequest records how completing an action felt. Repeated
// submissions overwrite the previous reflection.
type ReflectionRequest struct {
	Feeling      string  `json:"feeling" validate:"required,min=1,max=50"`
	Reflection   *string `json:"reflection,omitempty" validate:"omitempty,max=2000"`
	Difficulty   *int    `json:"difficulty,omitempty" validate:"omitempty,min=1,max=5"`
	Satisfaction *int    `json:"satisfaction,omitempty" validate:"omitempty,min=1,max=5"`
}
