package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/forkcast/forkcast/internal/auth"
	"github.com/forkcast/forkcast/internal/genai"
	"github.com/forkcast/forkcast/internal/logger"
	"github.com/forkcast/forkcast/internal/planner"
	"github.com/forkcast/forkcast/internal/store"
)

// In-memory repositories with the same owner-scoping behavior as the real
// ones: rows owned by someone else read as ErrNotFound.

type memUsers struct {
	rows map[string]store.User
}

func (m *memUsers) Upsert(ctx context.Context, id string) (*store.User, error) {
	u, ok := m.rows[id]
	if !ok {
		u = store.User{ID: id, CreatedAt: time.Now()}
	}
	u.LastConnectedAt = time.Now()
	m.rows[id] = u
	return &u, nil
}

type memRecipes struct {
	rows map[uuid.UUID]store.Recipe
}

func (m *memRecipes) ListByUser(ctx context.Context, userID string) ([]store.Recipe, error) {
	out := []store.Recipe{}
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRecipes) GetByID(ctx context.Context, userID string, id uuid.UUID) (*store.Recipe, error) {
	r, ok := m.rows[id]
	if !ok || r.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (m *memRecipes) GetByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]store.Recipe, error) {
	out := []store.Recipe{}
	for _, id := range ids {
		if r, ok := m.rows[id]; ok && r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRecipes) Create(ctx context.Context, recipe store.NewRecipe) (*store.Recipe, error) {
	r := store.Recipe{
		ID:          uuid.New(),
		UserID:      recipe.UserID,
		Title:       recipe.Title,
		Description: recipe.Description,
		Links:       recipe.Links,
		Tags:        recipe.Tags,
		Servings:    recipe.Servings,
		CreatedAt:   time.Now(),
	}
	if r.Links == nil {
		r.Links = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Servings == 0 {
		r.Servings = 4
	}
	m.rows[r.ID] = r
	return &r, nil
}

func (m *memRecipes) Update(ctx context.Context, userID string, id uuid.UUID, update store.RecipeUpdate) (*store.Recipe, error) {
	r, ok := m.rows[id]
	if !ok || r.UserID != userID {
		return nil, store.ErrNotFound
	}
	if update.Title != nil {
		r.Title = *update.Title
	}
	if update.Description != nil {
		r.Description = *update.Description
	}
	if update.Links != nil {
		r.Links = *update.Links
	}
	if update.Tags != nil {
		r.Tags = *update.Tags
	}
	if update.Servings != nil {
		r.Servings = *update.Servings
	}
	m.rows[id] = r
	return &r, nil
}

func (m *memRecipes) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	r, ok := m.rows[id]
	if !ok || r.UserID != userID {
		return store.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRecipes) DeleteAllByUser(ctx context.Context, userID string) error {
	for id, r := range m.rows {
		if r.UserID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

type memEvents struct {
	rows map[uuid.UUID]store.Event
}

func (m *memEvents) ListByUser(ctx context.Context, userID string) ([]store.Event, error) {
	out := []store.Event{}
	for _, e := range m.rows {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEvents) Create(ctx context.Context, userID, name string) (*store.Event, error) {
	e := store.Event{ID: uuid.New(), UserID: userID, Name: name, CreatedAt: time.Now()}
	m.rows[e.ID] = e
	return &e, nil
}

func (m *memEvents) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	e, ok := m.rows[id]
	if !ok || e.UserID != userID {
		return store.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memEvents) DeleteAllByUser(ctx context.Context, userID string) error {
	for id, e := range m.rows {
		if e.UserID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

type memMealPlans struct {
	rows map[uuid.UUID]store.MealPlan
}

func (m *memMealPlans) ListByUser(ctx context.Context, userID string) ([]store.MealPlan, error) {
	out := []store.MealPlan{}
	for _, p := range m.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memMealPlans) ListByUserWeek(ctx context.Context, userID, weekStartDate string) ([]store.MealPlan, error) {
	out := []store.MealPlan{}
	for _, p := range m.rows {
		if p.UserID == userID && p.WeekStartDate == weekStartDate {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memMealPlans) Create(ctx context.Context, plan store.NewMealPlan) (*store.MealPlan, error) {
	p := store.MealPlan{
		ID:            uuid.New(),
		UserID:        plan.UserID,
		WeekStartDate: plan.WeekStartDate,
		DayIndex:      plan.DayIndex,
		MealType:      plan.MealType,
		RecipeID:      plan.Ref.RecipeID(),
		EventID:       plan.Ref.EventID(),
		CreatedAt:     time.Now(),
	}
	m.rows[p.ID] = p
	return &p, nil
}

func (m *memMealPlans) UpdateColor(ctx context.Context, userID string, id uuid.UUID, color *string) (*store.MealPlan, error) {
	p, ok := m.rows[id]
	if !ok || p.UserID != userID {
		return nil, store.ErrNotFound
	}
	p.Color = color
	m.rows[id] = p
	return &p, nil
}

func (m *memMealPlans) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	p, ok := m.rows[id]
	if !ok || p.UserID != userID {
		return store.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memMealPlans) DeleteAllByUser(ctx context.Context, userID string) error {
	for id, p := range m.rows {
		if p.UserID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

func (m *memMealPlans) DeleteRecipeRefsByUser(ctx context.Context, userID string) error {
	for id, p := range m.rows {
		if p.UserID == userID && p.RecipeID != nil {
			delete(m.rows, id)
		}
	}
	return nil
}

type memSettings struct {
	rows map[string]store.Settings
}

func (m *memSettings) GetOrCreate(ctx context.Context, userID string) (*store.Settings, error) {
	s, ok := m.rows[userID]
	if !ok {
		s = store.Settings{ID: uuid.New(), UserID: userID, BreakfastEnabled: false}
		m.rows[userID] = s
	}
	return &s, nil
}

func (m *memSettings) Update(ctx context.Context, userID string, update store.SettingsUpdate) (*store.Settings, error) {
	if update.BreakfastEnabled == nil {
		return m.GetOrCreate(ctx, userID)
	}
	s, ok := m.rows[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	s.BreakfastEnabled = *update.BreakfastEnabled
	m.rows[userID] = s
	return &s, nil
}

type memLists struct {
	rows map[uuid.UUID]store.GroceryList
}

func (m *memLists) ListByUser(ctx context.Context, userID string) ([]store.GroceryList, error) {
	out := []store.GroceryList{}
	for _, l := range m.rows {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLists) GetByID(ctx context.Context, userID string, id uuid.UUID) (*store.GroceryList, error) {
	l, ok := m.rows[id]
	if !ok || l.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &l, nil
}

func (m *memLists) Create(ctx context.Context, list store.NewGroceryList) (*store.GroceryList, error) {
	l := store.GroceryList{
		ID:            uuid.New(),
		UserID:        list.UserID,
		Name:          list.Name,
		Items:         list.Items,
		WeekStartDate: list.WeekStartDate,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if l.Items == nil {
		l.Items = []store.GroceryCategory{}
	}
	m.rows[l.ID] = l
	return &l, nil
}

func (m *memLists) Update(ctx context.Context, userID string, id uuid.UUID, update store.GroceryListUpdate) (*store.GroceryList, error) {
	l, ok := m.rows[id]
	if !ok || l.UserID != userID {
		return nil, store.ErrNotFound
	}
	if update.Name != nil {
		l.Name = *update.Name
	}
	if update.Items != nil {
		l.Items = *update.Items
	}
	l.UpdatedAt = time.Now()
	m.rows[id] = l
	return &l, nil
}

func (m *memLists) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	l, ok := m.rows[id]
	if !ok || l.UserID != userID {
		return store.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memLists) DeleteAllByUser(ctx context.Context, userID string) error {
	for id, l := range m.rows {
		if l.UserID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

type stubGenerator struct {
	categories []store.GroceryCategory
	recipe     *genai.GeneratedRecipe
	err        error
}

func (s *stubGenerator) GroceryList(ctx context.Context, blocks []genai.RecipeBlock) ([]store.GroceryCategory, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.categories, nil
}

func (s *stubGenerator) Recipe(ctx context.Context, prompt string, servings int) (*genai.GeneratedRecipe, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.recipe, nil
}

type fakeNotifier struct {
	changes []string
}

func (f *fakeNotifier) Notify(ctx context.Context, entity, action, userID string) {
	f.changes = append(f.changes, entity+"."+action)
}

type fakeAdmin struct {
	password string
}

func (f fakeAdmin) VerifyAdminPassword(password string) error {
	if f.password != "" && password == f.password {
		return nil
	}
	return errors.New("password mismatch")
}

type testEnv struct {
	handler  *Handler
	users    *memUsers
	recipes  *memRecipes
	events   *memEvents
	plans    *memMealPlans
	settings *memSettings
	lists    *memLists
	gen      *stubGenerator
	notifier *fakeNotifier
	server   http.Handler
}

const testUser = "user-1"

func newTestEnv() *testEnv {
	env := &testEnv{
		users:    &memUsers{rows: map[string]store.User{}},
		recipes:  &memRecipes{rows: map[uuid.UUID]store.Recipe{}},
		events:   &memEvents{rows: map[uuid.UUID]store.Event{}},
		plans:    &memMealPlans{rows: map[uuid.UUID]store.MealPlan{}},
		settings: &memSettings{rows: map[string]store.Settings{}},
		lists:    &memLists{rows: map[uuid.UUID]store.GroceryList{}},
		gen:      &stubGenerator{},
		notifier: &fakeNotifier{},
	}

	st := &store.Store{
		Users:        env.users,
		Recipes:      env.recipes,
		Events:       env.events,
		MealPlans:    env.plans,
		Settings:     env.settings,
		GroceryLists: env.lists,
	}

	log := logger.NewNop()
	pl := planner.New(env.recipes, env.lists, env.gen, log)
	env.handler = NewHandler(log, st, pl, env.notifier, fakeAdmin{password: "s3cret"})

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), testUser)))
			})
		})
		r.Mount("/api", env.handler.Routes(nil))
	})
	env.server = router
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
