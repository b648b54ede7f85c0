package genai

import (
	"context"
	"fmt"

	"github.com/forkcast/forkcast/internal/store"
)

// RecipeBlock is one recipe's contribution to a grocery-list prompt, with the
// serving adjustment the caller asked for.
type RecipeBlock struct {
	Title             string
	Description       string
	OriginalServings  int
	RequestedServings int
}

// Multiplier returns the serving scale factor for the block. Defaults to 1
// when either side is unusable.
func (b RecipeBlock) Multiplier() float64 {
	if b.OriginalServings <= 0 || b.RequestedServings <= 0 {
		return 1
	}
	return float64(b.RequestedServings) / float64(b.OriginalServings)
}

// GeneratedRecipe is the structured output of recipe generation. Description
// is markdown.
type GeneratedRecipe struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Servings    int      `json:"servings"`
}

// Generator produces structured cooking content from an upstream model.
type Generator interface {
	// GroceryList consolidates the given recipes into categorized items.
	GroceryList(ctx context.Context, blocks []RecipeBlock) ([]store.GroceryCategory, error)
	// Recipe generates a full recipe from a free-form prompt.
	Recipe(ctx context.Context, prompt string, servings int) (*GeneratedRecipe, error)
}

// GenerationError marks a failure of the upstream model or its transport, as
// opposed to a local validation problem.
type GenerationError struct {
	Kind string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
