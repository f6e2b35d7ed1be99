package habit

import "time"

// DailyHabit is one per (user, calendar date). Date is a YYYY-MM-DD string
// and doubles as the lookup key.
type DailyHabit struct {
	ID             int       `json:"id" db:"id"`
	UserID         string    `json:"userId" db:"user_id"`
	Date           string    `json:"date" db:"date"`
	EatHealthy     bool      `json:"eatHealthy" db:"eat_healthy"`
	Exercise       bool      `json:"exercise" db:"exercise"`
	SleepBefore11PM bool     `json:"sleepBefore11pm" db:"sleep_before_11pm"`
	Notes          *string   `json:"notes" db:"notes"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

type CreateHabitRequest struct {
	Date            string  `json:"date" validate:"required,datetime=2006-01-02"`
	EatHealthy      bool    `json:"eatHealthy"`
	Exercise        bool    `json:"exercise"`
	SleepBefore11PM bool    `json:"sleepBefore11pm"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type UpdateHabitRequest struct {
	EatHealthy      *bool   `json:"eatHealthy,omitempty"`
	Exercise        *bool   `json:"exercise,omitempty"`
	SleepBefore11PM *bool   `json:"sleepBefore11pm,omitempty"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
