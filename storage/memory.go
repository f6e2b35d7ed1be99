package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"growthGardenAPI/internal/achievement"
	"growthGardenAPI/internal/action"
	"growthGardenAPI/internal/goal"
	"growthGardenAPI/internal/habit"
	"growthGardenAPI/internal/user"
)

// MemoryStore keeps everything in process-local maps. It exists so the
// service stays functional when no database connection could be
// established; data does not survive a restart.
type MemoryStore struct {
	mu sync.RWMutex

	users        map[string]user.User
	goals        map[int]goal.Goal
	actions      map[int]action.Action
	achievements map[int]achievement.Achievement
	habits       map[string]habit.DailyHabit // keyed userID + "|" + date

	nextGoalID        int
	nextActionID      int
	nextAchievementID int
	nextHabitID       int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:             make(map[string]user.User),
		goals:             make(map[int]goal.Goal),
		actions:           make(map[int]action.Action),
		achievements:      make(map[int]achievement.Achievement),
		habits:            make(map[string]habit.DailyHabit),
		nextGoalID:        1,
		nextActionID:      1,
		nextAchievementID: 1,
		nextHabitID:       1,
	}
}

func (s *MemoryStore) Persistent() bool { return false }

func habitKey(userID, date string) string { return userID + "|" + date }

// Users

func (s *MemoryStore) GetUser(_ context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, in NewUser) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := user.User{
		ID:        in.ID,
		Email:     in.Email,
		Name:      in.Name,
		AvatarURL: in.AvatarURL,
		CreatedAt: time.Now(),
	}
	s.users[u.ID] = u
	return &u, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id string, req *user.UpdateProfileRequest) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		u.Name = req.Name
	}
	if req.AvatarURL != nil {
		u.AvatarURL = req.AvatarURL
	}
	s.users[id] = u
	return &u, nil
}

// Goals

func (s *MemoryStore) ListGoals(_ context.Context, userID string) ([]goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := make([]goal.Goal, 0)
	for _, g := range s.goals {
		if g.UserID == userID {
			goals = append(goals, g)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

func (s *MemoryStore) GetGoal(_ context.Context, userID string, id int) (*goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (s *MemoryStore) CreateGoal(_ context.Context, userID string, in NewGoal) (*goal.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	g := goal.Goal{
		ID:             s.nextGoalID,
		UserID:         userID,
		Name:           in.Name,
		Description:    in.Description,
		PlantType:      in.PlantType,
		CurrentLevel:   1,
		CurrentXP:      0,
		MaxXP:          100,
		TimelineMonths: in.TimelineMonths,
		Status:         goal.StatusActive,
		LastWatered:    now,
		CreatedAt:      now,
	}
	s.nextGoalID++
	s.goals[g.ID] = g
	return &g, nil
}

func (s *MemoryStore) UpdateGoal(_ context.Context, userID string, id int, patch GoalPatch) (*goal.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.Description != nil {
		g.Description = patch.Description
	}
	if patch.TimelineMonths != nil {
		g.TimelineMonths = *patch.TimelineMonths
	}
	if patch.Status != nil {
		g.Status = *patch.Status
	}
	if patch.CurrentLevel != nil {
		g.CurrentLevel = *patch.CurrentLevel
	}
	if patch.CurrentXP != nil {
		g.CurrentXP = *patch.CurrentXP
	}
	if patch.LastWatered != nil {
		g.LastWatered = *patch.LastWatered
	}
	s.goals[id] = g
	return &g, nil
}

func (s *MemoryStore) DeleteGoal(_ context.Context, userID string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return ErrNotFound
	}
	delete(s.goals, id)

	// Cascade, matching the database foreign keys.
	for actionID, a := range s.actions {
		if a.GoalID == id {
			delete(s.actions, actionID)
		}
	}
	return nil
}

// Actions

func (s *MemoryStore) ListActions(_ context.Context, userID string) ([]action.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	actions := make([]action.Action, 0)
	for _, a := range s.actions {
		if a.UserID == userID {
			actions = append(actions, a)
		}
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].ID < actions[j].ID })
	return actions, nil
}

func (s *MemoryStore) ListActionsByGoal(_ context.Context, userID string, goalID int) ([]action.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	actions := make([]action.Action, 0)
	for _, a := range s.actions {
		if a.UserID == userID && a.GoalID == goalID {
			actions = append(actions, a)
		}
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].ID < actions[j].ID })
	return actions, nil
}

func (s *MemoryStore) GetAction(_ context.Context, userID string, id int) (*action.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.actions[id]
	if !ok || a.UserID != userID {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemoryStore) CreateAction(_ context.Context, userID string, in NewAction) (*action.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := action.Action{
		ID:             s.nextActionID,
		UserID:         userID,
		GoalID:         in.GoalID,
		Title:          in.Title,
		Description:    in.Description,
		XPReward:       in.XPReward,
		PersonalReward: in.PersonalReward,
		IsCompleted:    false,
		DueDate:        in.DueDate,
		CreatedAt:      time.Now(),
	}
	s.nextActionID++
	s.actions[a.ID] = a
	return &a, nil
}

func (s *MemoryStore) UpdateAction(_ context.Context, userID string, id int, patch ActionPatch) (*action.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actions[id]
	if !ok || a.UserID != userID {
		return nil, ErrNotFound
	}
	if patch.IsCompleted != nil {
		a.IsCompleted = *patch.IsCompleted
	}
	if patch.CompletedAt != nil {
		a.CompletedAt = patch.CompletedAt
	}
	if patch.Feeling != nil {
		a.Feeling = patch.Feeling
	}
	if patch.Reflection != nil {
		a.Reflection = patch.Reflection
	}
	if patch.Difficulty != nil {
		a.Difficulty = patch.Difficulty
	}
	if patch.Satisfaction != nil {
		a.Satisfaction = patch.Satisfaction
	}
	if patch.ReflectedAt != nil {
		a.ReflectedAt = patch.ReflectedAt
	}
	s.actions[id] = a
	return &a, nil
}

func (s *MemoryStore) DeleteAction(_ context.Context, userID string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actions[id]
	if !ok || a.UserID != userID {
		return ErrNotFound
	}
	delete(s.actions, id)
	return nil
}

// Achievements

func (s *MemoryStore) ListAchievements(_ context.Context, userID string) ([]achievement.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unlocked := make([]achievement.Achievement, 0)
	for _, a := range s.achievements {
		if a.UserID == userID {
			unlocked = append(unlocked, a)
		}
	}
	sort.Slice(unlocked, func(i, j int) bool { return unlocked[i].ID < unlocked[j].ID })
	return unlocked, nil
}

func (s *MemoryStore) CreateAchievement(_ context.Context, userID string, in NewAchievement) (*achievement.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Unlocking is idempotent per (user, code).
	for _, existing := range s.achievements {
		if existing.UserID == userID && existing.Code == in.Code {
			return &existing, nil
		}
	}

	a := achievement.Achievement{
		ID:          s.nextAchievementID,
		UserID:      userID,
		Code:        in.Code,
		Title:       in.Title,
		Description: in.Description,
		IconName:    in.IconName,
		UnlockedAt:  time.Now(),
	}
	s.nextAchievementID++
	s.achievements[a.ID] = a
	return &a, nil
}

// Daily habits

func (s *MemoryStore) GetDailyHabit(_ context.Context, userID, date string) (*habit.DailyHabit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.habits[habitKey(userID, date)]
	if !ok {
		return nil, ErrNotFound
	}
	return &h, nil
}

func (s *MemoryStore) ListDailyHabits(_ context.Context, userID, startDate, endDate string) ([]habit.DailyHabit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	habits := make([]habit.DailyHabit, 0)
	for _, h := range s.habits {
		if h.UserID == userID && h.Date >= startDate && h.Date <= endDate {
			habits = append(habits, h)
		}
	}
	sort.Slice(habits, func(i, j int) bool { return habits[i].Date < habits[j].Date })
	return habits, nil
}

func (s *MemoryStore) CreateDailyHabit(_ context.Context, userID string, in NewHabit) (*habit.DailyHabit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := habitKey(userID, in.Date)
	h, ok := s.habits[key]
	if !ok {
		h = habit.DailyHabit{
			ID:        s.nextHabitID,
			UserID:    userID,
			Date:      in.Date,
			CreatedAt: time.Now(),
		}
		s.nextHabitID++
	}
	h.EatHealthy = in.EatHealthy
	h.Exercise = in.Exercise
	h.SleepBefore11PM = in.SleepBefore11PM
	h.Notes = in.Notes
	s.habits[key] = h
	return &h, nil
}

func (s *MemoryStore) UpdateDailyHabit(_ context.Context, userID, date string, patch HabitPatch) (*habit.DailyHabit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := habitKey(userID, date)
	h, ok := s.habits[key]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.EatHealthy != nil {
		h.EatHealthy = *patch.EatHealthy
	}
	if patch.Exercise != nil {
		h.Exercise = *patch.Exercise
	}
	if patch.SleepBefore11PM != nil {
		h.SleepBefore11PM = *patch.SleepBefore11PM
	}
	if patch.Notes != nil {
		h.Notes = patch.Notes
	}
	s.habits[key] = h
	return &h, nil
}
