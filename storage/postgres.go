package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"growthGardenAPI/internal/achievement"
	"growthGardenAPI/internal/action"
	"growthGardenAPI/internal/goal"
	"growthGardenAPI/internal/habit"
	"growthGardenAPI/internal/user"
)

const goalColumns = `id, user_id, name, description, plant_type, current_level, current_xp, max_xp, timeline_months, status, last_watered, created_at`

const actionColumns = `id, user_id, goal_id, title, description, xp_reward, personal_reward, is_completed, due_date, completed_at, feeling, reflection, difficulty, satisfaction, reflected_at, created_at`

// PostgresStore is the persistent backend.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Persistent() bool { return true }

// Users

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	query := `
	SELECT id, email, name, avatar_url, created_at
	FROM users
	WHERE id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, in NewUser) (*user.User, error) {
	query := `
	INSERT INTO users (id, email, name, avatar_url)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
	RETURNING id, email, name, avatar_url, created_at
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, in.ID, in.Email, in.Name, in.AvatarURL).
		Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id string, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET name = COALESCE($2, name), avatar_url = COALESCE($3, avatar_url)
	WHERE id = $1
	RETURNING id, email, name, avatar_url, created_at
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, id, req.Name, req.AvatarURL).
		Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// Goals

func scanGoal(row pgx.Row) (*goal.Goal, error) {
	g := &goal.Goal{}
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.Description,
		&g.PlantType,
		&g.CurrentLevel,
		&g.CurrentXP,
		&g.MaxXP,
		&g.TimelineMonths,
		&g.Status,
		&g.LastWatered,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *PostgresStore) ListGoals(ctx context.Context, userID string) ([]goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY id`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := make([]goal.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *PostgresStore) GetGoal(ctx context.Context, userID string, id int) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`

	g, err := scanGoal(s.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) CreateGoal(ctx context.Context, userID string, in NewGoal) (*goal.Goal, error) {
	query := `
	INSERT INTO goals (user_id, name, description, plant_type, timeline_months)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + goalColumns

	g, err := scanGoal(s.db.QueryRow(ctx, query, userID, in.Name, in.Description, in.PlantType, in.TimelineMonths))
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) UpdateGoal(ctx context.Context, userID string, id int, patch GoalPatch) (*goal.Goal, error) {
	query := `
	UPDATE goals
	SET name = COALESCE($3, name),
	    description = COALESCE($4, description),
	    timeline_months = COALESCE($5, timeline_months),
	    status = COALESCE($6, status),
	    current_level = COALESCE($7, current_level),
	    current_xp = COALESCE($8, current_xp),
	    last_watered = COALESCE($9, last_watered)
	WHERE id = $1 AND user_id = $2
	RETURNING ` + goalColumns

	g, err := scanGoal(s.db.QueryRow(ctx, query, id, userID,
		patch.Name, patch.Description, patch.TimelineMonths, patch.Status,
		patch.CurrentLevel, patch.CurrentXP, patch.LastWatered))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) DeleteGoal(ctx context.Context, userID string, id int) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Actions

func scanAction(row pgx.Row) (*action.Action, error) {
	a := &action.Action{}
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.GoalID,
		&a.Title,
		&a.Description,
		&a.XPReward,
		&a.PersonalReward,
		&a.IsCompleted,
		&a.DueDate,
		&a.CompletedAt,
		&a.Feeling,
		&a.Reflection,
		&a.Difficulty,
		&a.Satisfaction,
		&a.ReflectedAt,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *PostgresStore) ListActions(ctx context.Context, userID string) ([]action.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE user_id = $1 ORDER BY id`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	actions := make([]action.Action, 0)
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, *a)
	}
	return actions, rows.Err()
}

func (s *PostgresStore) ListActionsByGoal(ctx context.Context, userID string, goalID int) ([]action.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE user_id = $1 AND goal_id = $2 ORDER BY id`

	rows, err := s.db.Query(ctx, query, userID, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions for goal: %w", err)
	}
	defer rows.Close()

	actions := make([]action.Action, 0)
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, *a)
	}
	return actions, rows.Err()
}

func (s *PostgresStore) GetAction(ctx context.Context, userID string, id int) (*action.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE id = $1 AND user_id = $2`

	a, err := scanAction(s.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get action: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) CreateAction(ctx context.Context, userID string, in NewAction) (*action.Action, error) {
	query := `
	INSERT INTO actions (user_id, goal_id, title, description, xp_reward, personal_reward, due_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + actionColumns

	a, err := scanAction(s.db.QueryRow(ctx, query, userID, in.GoalID, in.Title, in.Description, in.XPReward, in.PersonalReward, in.DueDate))
	if err != nil {
		return nil, fmt.Errorf("failed to create action: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) UpdateAction(ctx context.Context, userID string, id int, patch ActionPatch) (*action.Action, error) {
	query := `
	UPDATE actions
	SET is_completed = COALESCE($3, is_completed),
	    completed_at = COALESCE($4, completed_at),
	    feeling = COALESCE($5, feeling),
	    reflection = COALESCE($6, reflection),
	    difficulty = COALESCE($7, difficulty),
	    satisfaction = COALESCE($8, satisfaction),
	    reflected_at = COALESCE($9, reflected_at)
	WHERE id = $1 AND user_id = $2
	RETURNING ` + actionColumns

	a, err := scanAction(s.db.QueryRow(ctx, query, id, userID,
		patch.IsCompleted, patch.CompletedAt, patch.Feeling, patch.Reflection,
		patch.Difficulty, patch.Satisfaction, patch.ReflectedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update action: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) DeleteAction(ctx context.Context, userID string, id int) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM actions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Achievements

func (s *PostgresStore) ListAchievements(ctx context.Context, userID string) ([]achievement.Achievement, error) {
	query := `
	SELECT id, user_id, code, title, description, icon_name, unlocked_at
	FROM achievements
	WHERE user_id = $1
	ORDER BY id
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	unlocked := make([]achievement.Achievement, 0)
	for rows.Next() {
		a := achievement.Achievement{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Code, &a.Title, &a.Description, &a.IconName, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		unlocked = append(unlocked, a)
	}
	return unlocked, rows.Err()
}

func (s *PostgresStore) CreateAchievement(ctx context.Context, userID string, in NewAchievement) (*achievement.Achievement, error) {
	query := `
	INSERT INTO achievements (user_id, code, title, description, icon_name)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id, code) DO UPDATE SET title = EXCLUDED.title
	RETURNING id, user_id, code, title, description, icon_name, unlocked_at
	`

	a := &achievement.Achievement{}
	err := s.db.QueryRow(ctx, query, userID, in.Code, in.Title, in.Description, in.IconName).
		Scan(&a.ID, &a.UserID, &a.Code, &a.Title, &a.Description, &a.IconName, &a.UnlockedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return a, nil
}

// Daily habits

func scanHabit(row pgx.Row) (*habit.DailyHabit, error) {
	h := &habit.DailyHabit{}
	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.Date,
		&h.EatHealthy,
		&h.Exercise,
		&h.SleepBefore11PM,
		&h.Notes,
		&h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return h, nil
}

const habitColumns = `id, user_id, date, eat_healthy, exercise, sleep_before_11pm, notes, created_at`

func (s *PostgresStore) GetDailyHabit(ctx context.Context, userID, date string) (*habit.DailyHabit, error) {
	query := `SELECT ` + habitColumns + ` FROM daily_habits WHERE user_id = $1 AND date = $2`

	h, err := scanHabit(s.db.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get daily habit: %w", err)
	}
	return h, nil
}

func (s *PostgresStore) ListDailyHabits(ctx context.Context, userID, startDate, endDate string) ([]habit.DailyHabit, error) {
	query := `SELECT ` + habitColumns + ` FROM daily_habits WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date`

	rows, err := s.db.Query(ctx, query, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily habits: %w", err)
	}
	defer rows.Close()

	habits := make([]habit.DailyHabit, 0)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (s *PostgresStore) CreateDailyHabit(ctx context.Context, userID string, in NewHabit) (*habit.DailyHabit, error) {
	// Upsert keyed on (user_id, date) so two submissions for the same day
	// cannot race into duplicate rows.
	query := `
	INSERT INTO daily_habits (user_id, date, eat_healthy, exercise, sleep_before_11pm, notes)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, date) DO UPDATE
	SET eat_healthy = EXCLUDED.eat_healthy,
	    exercise = EXCLUDED.exercise,
	    sleep_before_11pm = EXCLUDED.sleep_before_11pm,
	    notes = EXCLUDED.notes
	RETURNING ` + habitColumns

	h, err := scanHabit(s.db.QueryRow(ctx, query, userID, in.Date, in.EatHealthy, in.Exercise, in.SleepBefore11PM, in.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to create daily habit: %w", err)
	}
	return h, nil
}

func (s *PostgresStore) UpdateDailyHabit(ctx context.Context, userID, date string, patch HabitPatch) (*habit.DailyHabit, error) {
	query := `
	UPDATE daily_habits
	SET eat_healthy = COALESCE($3, eat_healthy),
	    exercise = COALESCE($4, exercise),
	    sleep_before_11pm = COALESCE($5, sleep_before_11pm),
	    notes = COALESCE($6, notes)
	WHERE user_id = $1 AND date = $2
	RETURNING ` + habitColumns

	h, err := scanHabit(s.db.QueryRow(ctx, query, userID, date,
		patch.EatHealthy, patch.Exercise, patch.SleepBefore11PM, patch.Notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update daily habit: %w", err)
	}
	return h, nil
}

// sanity probe used by the bootstrap to decide whether the schema exists.
func probeSchema(ctx context.Context, db *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var one int
	return db.QueryRow(ctx, `SELECT 1 FROM users LIMIT 1`).Scan(&one)
}
