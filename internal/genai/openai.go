package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/forkcast/forkcast/internal/config"
	"github.com/forkcast/forkcast/internal/logger"
	"github.com/forkcast/forkcast/internal/metrics"
	"github.com/forkcast/forkcast/internal/store"
)

// Upstream calls are bounded so a stuck model cannot hold a request slot open.
const generationTimeout = 30 * time.Second

// Schemas passed with strict mode so the model cannot return extra or missing
// fields.
var groceryListSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"categories": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "Category name like Produce, Meat/Protein, Dairy, etc."},
					"items": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"text": {"type": "string", "description": "The grocery item with quantity"},
								"checked": {"type": "boolean", "description": "Whether the item is checked off"}
							},
							"required": ["text", "checked"],
							"additionalProperties": false
						}
					}
				},
				"required": ["name", "items"],
				"additionalProperties": false
			}
		}
	},
	"required": ["categories"],
	"additionalProperties": false
}`)

var recipeSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"title": {"type": "string", "description": "The title of the recipe"},
		"description": {"type": "string", "description": "Detailed recipe instructions in markdown format, including ingredients list, preparation steps, cooking instructions, and tips"},
		"tags": {"type": "array", "items": {"type": "string"}, "description": "Relevant tags for the recipe (e.g., italian, quick, healthy, vegetarian)"},
		"servings": {"type": "integer", "description": "Number of people this recipe serves"}
	},
	"required": ["title", "description", "tags", "servings"],
	"additionalProperties": false
}`)

// OpenAIGenerator implements Generator against the OpenAI chat completion API
// with structured outputs.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	log    *logger.Logger
}

func NewOpenAIGenerator(cfg *config.Config, log *logger.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(cfg.OpenAI.APIKey),
		model:  cfg.OpenAI.Model,
		log:    log,
	}
}

func (g *OpenAIGenerator) GroceryList(ctx context.Context, blocks []RecipeBlock) ([]store.GroceryCategory, error) {
	var result struct {
		Categories []store.GroceryCategory `json:"categories"`
	}
	if err := g.complete(ctx, "grocery_list", groceryListPrompt(blocks), "grocery_list", groceryListSchema, &result); err != nil {
		return nil, err
	}
	if result.Categories == nil {
		result.Categories = []store.GroceryCategory{}
	}
	return result.Categories, nil
}

func (g *OpenAIGenerator) Recipe(ctx context.Context, prompt string, servings int) (*GeneratedRecipe, error) {
	var recipe GeneratedRecipe
	if err := g.complete(ctx, "recipe", recipePrompt(prompt, servings), "recipe", recipeSchema, &recipe); err != nil {
		return nil, err
	}
	if recipe.Tags == nil {
		recipe.Tags = []string{}
	}
	return &recipe, nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, kind, prompt, schemaName string, schema json.RawMessage, out any) error {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: schema,
				Strict: true,
			},
		},
	})
	metrics.ObserveGeneration(kind, start, err)
	if err != nil {
		g.log.Warn("generation call failed", "kind", kind, "error", err)
		return &GenerationError{Kind: kind, Err: err}
	}
	if len(resp.Choices) == 0 {
		return &GenerationError{Kind: kind, Err: fmt.Errorf("model returned no choices")}
	}

	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return &GenerationError{Kind: kind, Err: fmt.Errorf("decode model output: %w", err)}
	}
	return nil
}
