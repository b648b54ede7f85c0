package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type eventRepo struct {
	db Querier
}

func (r *eventRepo) ListByUser(ctx context.Context, userID string) ([]Event, error) {
	defer observeDB(ctx, "events.list")()

	rows, err := r.db.Query(ctx, `SELECT id, user_id, name, created_at FROM events WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) Create(ctx context.Context, userID, name string) (*Event, error) {
	defer observeDB(ctx, "events.create")()

	const q = `INSERT INTO events (user_id, name) VALUES ($1, $2)
RETURNING id, user_id, name, created_at`

	var e Event
	if err := r.db.QueryRow(ctx, q, userID, name).Scan(&e.ID, &e.UserID, &e.Name, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &e, nil
}

func (r *eventRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	defer observeDB(ctx, "events.delete")()

	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *eventRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	defer observeDB(ctx, "events.delete_all")()

	if _, err := r.db.Exec(ctx, `DELETE FROM events WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete all events: %w", err)
	}
	return nil
}
