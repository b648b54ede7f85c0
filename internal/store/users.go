package store

import (
	"context"
	"fmt"
)

type userRepo struct {
	db Querier
}

func (r *userRepo) Upsert(ctx context.Context, id string) (*User, error) {
	defer observeDB(ctx, "users.upsert")()

	const q = `INSERT INTO users (id) VALUES ($1)
ON CONFLICT (id) DO UPDATE SET last_connected_at = NOW()
RETURNING id, created_at, last_connected_at`

	var u User
	if err := r.db.QueryRow(ctx, q, id).Scan(&u.ID, &u.CreatedAt, &u.LastConnectedAt); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &u, nil
}
