package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type groceryListRepo struct {
	db Querier
}

const groceryListColumns = `id, user_id, name, items, week_start_date, created_at, updated_at`

func scanGroceryList(row pgx.Row) (*GroceryList, error) {
	var (
		gl       GroceryList
		itemsRaw []byte
		week     *time.Time
	)
	if err := row.Scan(&gl.ID, &gl.UserID, &gl.Name, &itemsRaw, &week, &gl.CreatedAt, &gl.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(itemsRaw, &gl.Items); err != nil {
		return nil, fmt.Errorf("decode grocery items: %w", err)
	}
	if gl.Items == nil {
		gl.Items = []GroceryCategory{}
	}
	if week != nil {
		formatted := week.Format(isoDate)
		gl.WeekStartDate = &formatted
	}
	return &gl, nil
}

func (r *groceryListRepo) ListByUser(ctx context.Context, userID string) ([]GroceryList, error) {
	defer observeDB(ctx, "grocery_lists.list")()

	rows, err := r.db.Query(ctx, `SELECT `+groceryListColumns+` FROM grocery_lists WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list grocery lists: %w", err)
	}
	defer rows.Close()

	lists := []GroceryList{}
	for rows.Next() {
		gl, err := scanGroceryList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grocery list: %w", err)
		}
		lists = append(lists, *gl)
	}
	return lists, rows.Err()
}

func (r *groceryListRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (*GroceryList, error) {
	defer observeDB(ctx, "grocery_lists.get")()

	row := r.db.QueryRow(ctx, `SELECT `+groceryListColumns+` FROM grocery_lists WHERE id = $1 AND user_id = $2`, id, userID)
	gl, err := scanGroceryList(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get grocery list: %w", err)
	}
	return gl, nil
}

func (r *groceryListRepo) Create(ctx context.Context, list NewGroceryList) (*GroceryList, error) {
	defer observeDB(ctx, "grocery_lists.create")()

	items := list.Items
	if items == nil {
		items = []GroceryCategory{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode grocery items: %w", err)
	}

	const q = `INSERT INTO grocery_lists (user_id, name, items, week_start_date)
VALUES ($1, $2, $3::jsonb, $4::date)
RETURNING ` + groceryListColumns

	gl, err := scanGroceryList(r.db.QueryRow(ctx, q, list.UserID, list.Name, string(itemsJSON), list.WeekStartDate))
	if err != nil {
		return nil, fmt.Errorf("create grocery list: %w", err)
	}
	return gl, nil
}

func (r *groceryListRepo) Update(ctx context.Context, userID string, id uuid.UUID, update GroceryListUpdate) (*GroceryList, error) {
	defer observeDB(ctx, "grocery_lists.update")()

	sets := []string{"updated_at = NOW()"}
	args := []any{}

	if update.Name != nil {
		args = append(args, *update.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if update.Items != nil {
		itemsJSON, err := json.Marshal(*update.Items)
		if err != nil {
			return nil, fmt.Errorf("encode grocery items: %w", err)
		}
		args = append(args, string(itemsJSON))
		sets = append(sets, fmt.Sprintf("items = $%d::jsonb", len(args)))
	}

	args = append(args, id, userID)
	q := fmt.Sprintf(`UPDATE grocery_lists SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), groceryListColumns)

	gl, err := scanGroceryList(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update grocery list: %w", err)
	}
	return gl, nil
}

func (r *groceryListRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	defer observeDB(ctx, "grocery_lists.delete")()

	tag, err := r.db.Exec(ctx, `DELETE FROM grocery_lists WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete grocery list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *groceryListRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	defer observeDB(ctx, "grocery_lists.delete_all")()

	if _, err := r.db.Exec(ctx, `DELETE FROM grocery_lists WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete all grocery lists: %w", err)
	}
	return nil
}
