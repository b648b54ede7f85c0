package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is a person authenticated via the external identity provider. The id
// is the provider's opaque subject string.
type User struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	LastConnectedAt time.Time `json:"last_connected_at"`
}

// Recipe is an authored recipe. Description is opaque marked-up text.
type Recipe struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Links       []string  `json:"links"`
	Tags        []string  `json:"tags"`
	Servings    int       `json:"servings"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRecipe carries the caller-supplied fields for recipe creation. Servings
// zero means "use the datastore default".
type NewRecipe struct {
	UserID      string
	Title       string
	Description string
	Links       []string
	Tags        []string
	Servings    int
}

// RecipeUpdate is a partial update; nil fields are left unchanged.
type RecipeUpdate struct {
	Title       *string
	Description *string
	Links       *[]string
	Tags        *[]string
	Servings    *int
}

// Event is a non-recipe occupant of a meal slot (e.g., "eating out").
type Event struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MealType identifies the meal row of the weekly grid.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// Valid reports whether mt is one of the known meal types.
func (mt MealType) Valid() bool {
	switch mt {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// RefKind tags the variant of a slot occupant reference.
type RefKind string

const (
	RefRecipe RefKind = "recipe"
	RefEvent  RefKind = "event"
)

// SlotRef is a tagged reference to exactly one slot occupant. Constructing it
// through NewSlotRef makes the recipe-xor-event invariant structural instead
// of a runtime check scattered across callers.
type SlotRef struct {
	Kind RefKind
	ID   uuid.UUID
}

// ErrSlotRef is returned when zero or two occupant references are supplied.
var ErrSlotRef = errors.New("exactly one of recipe_id or event_id is required")

// NewSlotRef builds a SlotRef from the two nullable wire-level references.
func NewSlotRef(recipeID, eventID *uuid.UUID) (SlotRef, error) {
	switch {
	case recipeID != nil && eventID != nil:
		return SlotRef{}, ErrSlotRef
	case recipeID != nil:
		return SlotRef{Kind: RefRecipe, ID: *recipeID}, nil
	case eventID != nil:
		return SlotRef{Kind: RefEvent, ID: *eventID}, nil
	default:
		return SlotRef{}, ErrSlotRef
	}
}

// RecipeID returns the recipe reference column value, nil for event refs.
func (r SlotRef) RecipeID() *uuid.UUID {
	if r.Kind == RefRecipe {
		id := r.ID
		return &id
	}
	return nil
}

// EventID returns the event reference column value, nil for recipe refs.
func (r SlotRef) EventID() *uuid.UUID {
	if r.Kind == RefEvent {
		id := r.ID
		return &id
	}
	return nil
}

// MealPlan is one occupant of a (week, day, meal) slot. A slot may hold any
// number of occupants; rows are never deduplicated.
type MealPlan struct {
	ID            uuid.UUID  `json:"id"`
	UserID        string     `json:"user_id"`
	WeekStartDate string     `json:"week_start_date"`
	DayIndex      int        `json:"day_index"`
	MealType      MealType   `json:"meal_type"`
	Color         *string    `json:"color"`
	RecipeID      *uuid.UUID `json:"recipe_id"`
	EventID       *uuid.UUID `json:"event_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewMealPlan carries validated fields for slot-occupant creation.
type NewMealPlan struct {
	UserID        string
	WeekStartDate string
	DayIndex      int
	MealType      MealType
	Ref           SlotRef
}

// Settings is the per-user grid configuration, auto-created on first read.
type Settings struct {
	ID               uuid.UUID `json:"id"`
	UserID           string    `json:"user_id"`
	BreakfastEnabled bool      `json:"breakfast_enabled"`
}

// SettingsUpdate is a partial update; nil fields are left unchanged.
type SettingsUpdate struct {
	BreakfastEnabled *bool
}

// GroceryItem is a single checklist entry.
type GroceryItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// GroceryCategory groups items under a shopping category such as "Produce".
type GroceryCategory struct {
	Name  string        `json:"name"`
	Items []GroceryItem `json:"items"`
}

// GroceryList is a materialized snapshot of a generated (or hand-built)
// shopping list. Items is edited in place and never recomputed.
type GroceryList struct {
	ID            uuid.UUID         `json:"id"`
	UserID        string            `json:"user_id"`
	Name          string            `json:"name"`
	Items         []GroceryCategory `json:"items"`
	WeekStartDate *string           `json:"week_start_date"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewGroceryList carries the fields for grocery-list creation.
type NewGroceryList struct {
	UserID        string
	Name          string
	Items         []GroceryCategory
	WeekStartDate *string
}

// GroceryListUpdate is a partial update; nil fields are left unchanged.
type GroceryListUpdate struct {
	Name  *string
	Items *[]GroceryCategory
}
