package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"growthGardenAPI/internal/habit"
	"growthGardenAPI/storage"
)

var ErrInvalidDateRange = errors.New("invalid date range")

type HabitService struct {
	store storage.Store
}

func NewHabitService(store storage.Store) *HabitService {
	return &HabitService{store: store}
}

func (s *HabitService) GetByDate(ctx context.Context, userID, date string) (*habit.DailyHabit, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return s.store.GetDailyHabit(ctx, userID, date)
}

func (s *HabitService) ListRange(ctx context.Context, userID, startDate, endDate string) ([]habit.DailyHabit, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad start date %q", ErrInvalidDateRange, startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad end date %q", ErrInvalidDateRange, endDate)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %q before start %q", ErrInvalidDateRange, endDate, startDate)
	}
	return s.store.ListDailyHabits(ctx, userID, startDate, endDate)
}

// Upsert records the day's habits. Same-day entries overwrite, so the
// client can toggle checkboxes all day without conflict errors.
func (s *HabitService) Upsert(ctx context.Context, userID string, req *habit.CreateHabitRequest) (*habit.DailyHabit, error) {
	return s.store.CreateDailyHabit(ctx, userID, storage.NewHabit{
		Date:            req.Date,
		EatHealthy:      req.EatHealthy,
		Exercise:        req.Exercise,
		SleepBefore11PM: req.SleepBefore11PM,
		Notes:           req.Notes,
	})
}

func (s *HabitService) Update(ctx context.Context, userID, date string, req *habit.UpdateHabitRequest) (*habit.DailyHabit, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return s.store.UpdateDailyHabit(ctx, userID, date, storage.HabitPatch{
		EatHealthy:      req.EatHealthy,
		Exercise:        req.Exercise,
		SleepBefore11PM: req.SleepBefore11PM,
		Notes:           req.Notes,
	})
}
