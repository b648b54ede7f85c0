package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type recipeRepo struct {
	db Querier
}

const recipeColumns = `id, user_id, title, description, links, tags, servings, created_at`

func scanRecipe(row pgx.Row) (*Recipe, error) {
	var (
		rec      Recipe
		linksRaw []byte
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Description, &linksRaw, &rec.Tags, &rec.Servings, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(linksRaw, &rec.Links); err != nil {
		return nil, fmt.Errorf("decode recipe links: %w", err)
	}
	if rec.Links == nil {
		rec.Links = []string{}
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return &rec, nil
}

func (r *recipeRepo) ListByUser(ctx context.Context, userID string) ([]Recipe, error) {
	defer observeDB(ctx, "recipes.list")()

	rows, err := r.db.Query(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *rec)
	}
	return recipes, rows.Err()
}

func (r *recipeRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (*Recipe, error) {
	defer observeDB(ctx, "recipes.get")()

	row := r.db.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1 AND user_id = $2`, id, userID)
	rec, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return rec, nil
}

func (r *recipeRepo) GetByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]Recipe, error) {
	defer observeDB(ctx, "recipes.get_batch")()

	if len(ids) == 0 {
		return []Recipe{}, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("get recipes batch: %w", err)
	}
	defer rows.Close()

	recipes := []Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *rec)
	}
	return recipes, rows.Err()
}

func (r *recipeRepo) Create(ctx context.Context, recipe NewRecipe) (*Recipe, error) {
	defer observeDB(ctx, "recipes.create")()

	links := recipe.Links
	if links == nil {
		links = []string{}
	}
	tags := recipe.Tags
	if tags == nil {
		tags = []string{}
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return nil, fmt.Errorf("encode recipe links: %w", err)
	}

	// Servings falls back to the column default when the caller omitted it.
	var row pgx.Row
	if recipe.Servings > 0 {
		row = r.db.QueryRow(ctx, `INSERT INTO recipes (user_id, title, description, links, tags, servings)
VALUES ($1, $2, $3, $4::jsonb, $5, $6)
RETURNING `+recipeColumns, recipe.UserID, recipe.Title, recipe.Description, string(linksJSON), tags, recipe.Servings)
	} else {
		row = r.db.QueryRow(ctx, `INSERT INTO recipes (user_id, title, description, links, tags)
VALUES ($1, $2, $3, $4::jsonb, $5)
RETURNING `+recipeColumns, recipe.UserID, recipe.Title, recipe.Description, string(linksJSON), tags)
	}

	rec, err := scanRecipe(row)
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return rec, nil
}

func (r *recipeRepo) Update(ctx context.Context, userID string, id uuid.UUID, update RecipeUpdate) (*Recipe, error) {
	defer observeDB(ctx, "recipes.update")()

	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Links != nil {
		linksJSON, err := json.Marshal(*update.Links)
		if err != nil {
			return nil, fmt.Errorf("encode recipe links: %w", err)
		}
		args = append(args, string(linksJSON))
		sets = append(sets, fmt.Sprintf("links = $%d::jsonb", len(args)))
	}
	if update.Tags != nil {
		add("tags", *update.Tags)
	}
	if update.Servings != nil {
		add("servings", *update.Servings)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, userID, id)
	}

	args = append(args, id, userID)
	q := fmt.Sprintf(`UPDATE recipes SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), recipeColumns)

	rec, err := scanRecipe(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return rec, nil
}

func (r *recipeRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	defer observeDB(ctx, "recipes.delete")()

	tag, err := r.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *recipeRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	defer observeDB(ctx, "recipes.delete_all")()

	if _, err := r.db.Exec(ctx, `DELETE FROM recipes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete all recipes: %w", err)
	}
	return nil
}
