// Package planner implements the generation workflows that sit between the
// HTTP handlers, the datastore, and the model-backed generator.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/forkcast/forkcast/internal/genai"
	"github.com/forkcast/forkcast/internal/logger"
	"github.com/forkcast/forkcast/internal/store"
)

// ValidationError marks a caller mistake rather than a system failure.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// RecipeSelection names one recipe to include in a grocery list, with an
// optional serving override. Zero servings means "as written".
type RecipeSelection struct {
	ID       uuid.UUID
	Servings int
}

// Service orchestrates grocery-list and recipe generation.
type Service struct {
	recipes store.RecipeRepository
	lists   store.GroceryListRepository
	gen     genai.Generator
	log     *logger.Logger
	now     func() time.Time
}

func New(recipes store.RecipeRepository, lists store.GroceryListRepository, gen genai.Generator, log *logger.Logger) *Service {
	return &Service{
		recipes: recipes,
		lists:   lists,
		gen:     gen,
		log:     log,
		now:     time.Now,
	}
}

// BuildGroceryList generates a consolidated grocery list from the selected
// recipes and persists it as a named snapshot. weekStart optionally pins the
// list to a week; nil associates it with the current week. Nothing is stored
// when generation fails.
func (s *Service) BuildGroceryList(ctx context.Context, userID string, selections []RecipeSelection, weekStart *string) (*store.GroceryList, error) {
	if len(selections) == 0 {
		return nil, &ValidationError{Msg: "recipes array is required and must not be empty"}
	}

	listDate := s.now()
	if weekStart != nil {
		parsed, err := ParseISODate(*weekStart)
		if err != nil {
			return nil, &ValidationError{Msg: err.Error()}
		}
		listDate = parsed
	}

	ids := make([]uuid.UUID, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, sel.ID)
	}

	recipes, err := s.recipes.GetByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch recipes: %w", err)
	}
	if len(recipes) == 0 {
		return nil, store.ErrNotFound
	}

	requested := make(map[uuid.UUID]int, len(selections))
	for _, sel := range selections {
		requested[sel.ID] = sel.Servings
	}

	blocks := make([]genai.RecipeBlock, 0, len(recipes))
	for _, r := range recipes {
		want := requested[r.ID]
		if want <= 0 {
			want = r.Servings
		}
		blocks = append(blocks, genai.RecipeBlock{
			Title:             r.Title,
			Description:       r.Description,
			OriginalServings:  r.Servings,
			RequestedServings: want,
		})
	}

	categories, err := s.gen.GroceryList(ctx, blocks)
	if err != nil {
		return nil, err
	}

	week := WeekStartISO(listDate)
	list, err := s.lists.Create(ctx, store.NewGroceryList{
		UserID:        userID,
		Name:          "Groceries - " + listDate.Format("Jan 2, 2006"),
		Items:         categories,
		WeekStartDate: &week,
	})
	if err != nil {
		return nil, fmt.Errorf("persist grocery list: %w", err)
	}

	s.log.Info("grocery list generated",
		"user_id", userID, "list_id", list.ID, "recipes", len(recipes), "categories", len(categories))
	return list, nil
}

// GenerateRecipe produces a structured recipe draft. The result is not
// persisted; the caller decides whether to save it.
func (s *Service) GenerateRecipe(ctx context.Context, userID, prompt string, servings int) (*genai.GeneratedRecipe, error) {
	if prompt == "" {
		return nil, &ValidationError{Msg: "prompt is required and must be a string"}
	}
	if servings < 1 {
		return nil, &ValidationError{Msg: "servings is required and must be a positive number"}
	}

	recipe, err := s.gen.Recipe(ctx, prompt, servings)
	if err != nil {
		return nil, err
	}

	s.log.Info("recipe generated", "user_id", userID, "title", recipe.Title)
	return recipe, nil
}
