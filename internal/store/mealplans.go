package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mealPlanRepo struct {
	db Querier
}

const mealPlanColumns = `id, user_id, week_start_date, day_index, meal_type, color, recipe_id, event_id, created_at`

const isoDate = "2006-01-02"

func scanMealPlan(row pgx.Row) (*MealPlan, error) {
	var (
		mp   MealPlan
		week time.Time
	)
	if err := row.Scan(&mp.ID, &mp.UserID, &week, &mp.DayIndex, &mp.MealType, &mp.Color, &mp.RecipeID, &mp.EventID, &mp.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	mp.WeekStartDate = week.Format(isoDate)
	return &mp, nil
}

func (r *mealPlanRepo) list(ctx context.Context, q string, args ...any) ([]MealPlan, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []MealPlan{}
	for rows.Next() {
		mp, err := scanMealPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *mp)
	}
	return plans, rows.Err()
}

func (r *mealPlanRepo) ListByUser(ctx context.Context, userID string) ([]MealPlan, error) {
	defer observeDB(ctx, "meal_plans.list")()

	plans, err := r.list(ctx, `SELECT `+mealPlanColumns+` FROM meal_plans WHERE user_id = $1 ORDER BY day_index ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	return plans, nil
}

func (r *mealPlanRepo) ListByUserWeek(ctx context.Context, userID, weekStartDate string) ([]MealPlan, error) {
	defer observeDB(ctx, "meal_plans.list_week")()

	plans, err := r.list(ctx, `SELECT `+mealPlanColumns+` FROM meal_plans WHERE user_id = $1 AND week_start_date = $2::date ORDER BY day_index ASC`, userID, weekStartDate)
	if err != nil {
		return nil, fmt.Errorf("list meal plans for week: %w", err)
	}
	return plans, nil
}

func (r *mealPlanRepo) Create(ctx context.Context, plan NewMealPlan) (*MealPlan, error) {
	defer observeDB(ctx, "meal_plans.create")()

	const q = `INSERT INTO meal_plans (user_id, week_start_date, day_index, meal_type, recipe_id, event_id)
VALUES ($1, $2::date, $3, $4, $5, $6)
RETURNING ` + mealPlanColumns

	mp, err := scanMealPlan(r.db.QueryRow(ctx, q,
		plan.UserID, plan.WeekStartDate, plan.DayIndex, plan.MealType, plan.Ref.RecipeID(), plan.Ref.EventID()))
	if err != nil {
		return nil, fmt.Errorf("create meal plan: %w", err)
	}
	return mp, nil
}

func (r *mealPlanRepo) UpdateColor(ctx context.Context, userID string, id uuid.UUID, color *string) (*MealPlan, error) {
	defer observeDB(ctx, "meal_plans.update_color")()

	const q = `UPDATE meal_plans SET color = $1 WHERE id = $2 AND user_id = $3
RETURNING ` + mealPlanColumns

	mp, err := scanMealPlan(r.db.QueryRow(ctx, q, color, id, userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update meal plan color: %w", err)
	}
	return mp, nil
}

func (r *mealPlanRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	defer observeDB(ctx, "meal_plans.delete")()

	tag, err := r.db.Exec(ctx, `DELETE FROM meal_plans WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete meal plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mealPlanRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	defer observeDB(ctx, "meal_plans.delete_all")()

	if _, err := r.db.Exec(ctx, `DELETE FROM meal_plans WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete all meal plans: %w", err)
	}
	return nil
}

func (r *mealPlanRepo) DeleteRecipeRefsByUser(ctx context.Context, userID string) error {
	defer observeDB(ctx, "meal_plans.delete_recipe_refs")()

	if _, err := r.db.Exec(ctx, `DELETE FROM meal_plans WHERE user_id = $1 AND recipe_id IS NOT NULL`, userID); err != nil {
		return fmt.Errorf("delete recipe meal plans: %w", err)
	}
	return nil
}
