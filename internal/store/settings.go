package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type settingsRepo struct {
	db Querier
}

func (r *settingsRepo) GetOrCreate(ctx context.Context, userID string) (*Settings, error) {
	defer observeDB(ctx, "settings.get_or_create")()

	// Insert-if-missing then read back. ON CONFLICT DO NOTHING keeps this
	// race-free when two first reads arrive concurrently.
	if _, err := r.db.Exec(ctx, `INSERT INTO settings (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return nil, fmt.Errorf("create settings: %w", err)
	}

	var s Settings
	if err := r.db.QueryRow(ctx, `SELECT id, user_id, breakfast_enabled FROM settings WHERE user_id = $1`, userID).
		Scan(&s.ID, &s.UserID, &s.BreakfastEnabled); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

func (r *settingsRepo) Update(ctx context.Context, userID string, update SettingsUpdate) (*Settings, error) {
	defer observeDB(ctx, "settings.update")()

	if update.BreakfastEnabled == nil {
		return r.GetOrCreate(ctx, userID)
	}

	const q = `UPDATE settings SET breakfast_enabled = $1 WHERE user_id = $2
RETURNING id, user_id, breakfast_enabled`

	var s Settings
	if err := r.db.QueryRow(ctx, q, *update.BreakfastEnabled, userID).
		Scan(&s.ID, &s.UserID, &s.BreakfastEnabled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return &s, nil
}
