package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes builds the authenticated /api subtree. genLimit wraps the
// generation endpoints (rate limiting); nil leaves them unwrapped.
func (h *Handler) Routes(genLimit func(http.Handler) http.Handler) chi.Router {
	if genLimit == nil {
		genLimit = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()

	r.Get("/recipes", h.ListRecipes)
	r.Post("/recipes", h.CreateRecipe)
	r.Method(http.MethodPost, "/recipes/generate", genLimit(http.HandlerFunc(h.GenerateRecipe)))
	r.Get("/recipes/{id}", h.GetRecipe)
	r.Patch("/recipes/{id}", h.UpdateRecipe)
	r.Delete("/recipes/{id}", h.DeleteRecipe)

	r.Get("/events", h.ListEvents)
	r.Post("/events", h.CreateEvent)
	r.Delete("/events/{id}", h.DeleteEvent)

	r.Get("/meal-plans", h.ListMealPlans)
	r.Post("/meal-plans", h.CreateMealPlan)
	r.Patch("/meal-plans/{id}", h.UpdateMealPlan)
	r.Delete("/meal-plans/{id}", h.DeleteMealPlan)

	r.Get("/grocery-lists", h.ListGroceryLists)
	r.Post("/grocery-lists", h.CreateGroceryList)
	r.Get("/grocery-lists/{id}", h.GetGroceryList)
	r.Patch("/grocery-lists/{id}", h.UpdateGroceryList)
	r.Delete("/grocery-lists/{id}", h.DeleteGroceryList)

	r.Method(http.MethodPost, "/grocery-list/generate", genLimit(http.HandlerFunc(h.GenerateGroceryList)))

	r.Get("/settings", h.GetSettings)
	r.Patch("/settings", h.UpdateSettings)

	r.Post("/sync-user", h.SyncUser)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/verify-password", h.VerifyAdminPassword)
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdminPassword)
			r.Delete("/flush-recipes", h.FlushRecipes)
			r.Delete("/flush-meal-plans", h.FlushMealPlans)
			r.Delete("/flush-all", h.FlushAll)
		})
	})

	return r
}
