package store

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for identity records.
type UserRepository interface {
	// Upsert inserts the subject on first sight and bumps
	// last_connected_at on every subsequent call.
	Upsert(ctx context.Context, id string) (*User, error)
}

// RecipeRepository handles recipe storage. Every operation is scoped to the
// owning user; rows owned by someone else surface as ErrNotFound.
type RecipeRepository interface {
	ListByUser(ctx context.Context, userID string) ([]Recipe, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*Recipe, error)
	GetByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]Recipe, error)
	Create(ctx context.Context, recipe NewRecipe) (*Recipe, error)
	Update(ctx context.Context, userID string, id uuid.UUID, update RecipeUpdate) (*Recipe, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userID string) error
}

// EventRepository handles ad-hoc slot occupants.
type EventRepository interface {
	ListByUser(ctx context.Context, userID string) ([]Event, error)
	Create(ctx context.Context, userID, name string) (*Event, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userID string) error
}

// MealPlanRepository handles weekly slot assignments.
type MealPlanRepository interface {
	ListByUser(ctx context.Context, userID string) ([]MealPlan, error)
	ListByUserWeek(ctx context.Context, userID, weekStartDate string) ([]MealPlan, error)
	Create(ctx context.Context, plan NewMealPlan) (*MealPlan, error)
	// UpdateColor sets or clears the color tag. A nil color clears it.
	UpdateColor(ctx context.Context, userID string, id uuid.UUID, color *string) (*MealPlan, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userID string) error
	// DeleteRecipeRefsByUser removes every plan row that references a
	// recipe, used by the bulk recipe flush.
	DeleteRecipeRefsByUser(ctx context.Context, userID string) error
}

// SettingsRepository handles the per-user settings row.
type SettingsRepository interface {
	// GetOrCreate auto-vivifies the row with defaults on first read.
	GetOrCreate(ctx context.Context, userID string) (*Settings, error)
	Update(ctx context.Context, userID string, update SettingsUpdate) (*Settings, error)
}

// GroceryListRepository handles materialized shopping lists.
type GroceryListRepository interface {
	ListByUser(ctx context.Context, userID string) ([]GroceryList, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*GroceryList, error)
	Create(ctx context.Context, list NewGroceryList) (*GroceryList, error)
	Update(ctx context.Context, userID string, id uuid.UUID, update GroceryListUpdate) (*GroceryList, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userID string) error
}
