package goal

import "time"

type PlantType string

const (
	PlantSprout PlantType = "sprout"
	PlantHerb   PlantType = "herb"
	PlantTree   PlantType = "tree"
	PlantFlower PlantType = "flower"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusWithered  Status = "withered"
)

// WitherAfter is how long a goal may go unwatered before it withers.
const WitherAfter = 168 * time.Hour

// AttentionAfter is when an active goal starts needing attention.
const AttentionAfter = 72 * time.Hour

type Goal struct {
	ID             int       `json:"id" db:"id"`
	UserID         string    `json:"userId" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Description    *string   `json:"description" db:"description"`
	PlantType      PlantType `json:"plantType" db:"plant_type"`
	CurrentLevel   int       `json:"currentLevel" db:"current_level"`
	CurrentXP      int       `json:"currentXP" db:"current_xp"`
	MaxXP          int       `json:"maxXP" db:"max_xp"`
	TimelineMonths int       `json:"timelineMonths" db:"timeline_months"`
	Status         Status    `json:"status" db:"status"`
	LastWatered    time.Time `json:"lastWatered" db:"last_watered"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

type CreateGoalRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=200"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	PlantType      string  `json:"plantType" validate:"required,oneof=sprout herb tree flower"`
	TimelineMonths int     `json:"timelineMonths,omitempty" validate:"omitempty,min=1,max=60"`
}

type UpdateGoalRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	TimelineMonths *int    `json:"timelineMonths,omitempty" validate:"omitempty,min=1,max=60"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=active completed withered"`
}

// HealthStatus is one entry of a garden health sweep.
type HealthStatus struct {
	Goal
	NeedsAttention bool `json:"needsAttention,omitempty"`
}
