package genai

import (
	"fmt"
	"strconv"
	"strings"
)

func groceryListPrompt(blocks []RecipeBlock) string {
	details := make([]string, 0, len(blocks))
	for _, b := range blocks {
		multiplier := strconv.FormatFloat(b.Multiplier(), 'g', -1, 64)
		details = append(details, fmt.Sprintf(`
Recipe: %s
Original Servings: %d
Requested Servings: %d
Servings Multiplier: %sx

Full Recipe Details:
%s

---`, b.Title, b.OriginalServings, b.RequestedServings, multiplier, b.Description))
	}

	return fmt.Sprintf(`You are a helpful cooking assistant. Based on the following recipes and their requested servings, generate a consolidated grocery list.

%s

Instructions:
- Combine ingredients from all recipes
- Adjust quantities based on the servings multiplier for each recipe
- If the same ingredient appears in multiple recipes, sum the quantities and combine them into one item
- Group items by category (Produce, Meat/Protein, Dairy, Pantry, Spices, etc.)
- Use clear, standard measurements (cups, tablespoons, grams, etc.)
- Be specific with quantities (e.g., "3 medium tomatoes" or "500g ground beef")
- Order categories logically (Produce, Meat/Protein, Dairy, Pantry, Spices)
- Each item should have "checked" set to false by default
- Make it practical for shopping

Generate a comprehensive grocery list now:`, strings.Join(details, "\n\n"))
}

func recipePrompt(prompt string, servings int) string {
	return fmt.Sprintf(`Generate a detailed recipe for: %s

The recipe should serve %d people.

Important instructions:
- Write the description in markdown format
- Include a clear ingredients list with quantities for %d people
- Provide step-by-step cooking instructions
- Add helpful tips or variations if relevant
- Use proper markdown formatting (headers with #, lists with -, bold with **)
- Be specific with measurements and cooking times
- Make it easy to follow for home cooks`, prompt, servings, servings)
}
