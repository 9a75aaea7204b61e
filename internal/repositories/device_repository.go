package repositories

import (
	"context"
	"database/sql"

	"collabBack/internal/marketplace/repo"
	"collabBack/internal/models"
)

type DeviceRepository struct {
	DB      *sql.DB
	Dialect repo.Dialect
}

// RegisterDevice binds the token to the user, moving it away from any previous owner.
func (r *DeviceRepository) RegisterDevice(ctx context.Context, d models.DeviceToken) error {
	query := `INSERT INTO device_tokens (token, user_id, created_at) VALUES (?, ?, ?)
        ON DUPLICATE KEY UPDATE user_id = VALUES(user_id), created_at = VALUES(created_at)`
	if r.Dialect == repo.Postgres {
		query = `INSERT INTO device_tokens (token, user_id, created_at) VALUES ($1, $2, $3)
        ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, created_at = EXCLUDED.created_at`
	}
	_, err := r.DB.ExecContext(ctx, query, d.Token, d.UserID, d.CreatedAt)
	return err
}

// TokensByUser lists the push tokens registered for a user.
func (r *DeviceRepository) TokensByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(`SELECT token FROM device_tokens WHERE user_id = ? ORDER BY created_at`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteToken removes a token the push provider reported as unregistered.
func (r *DeviceRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(`DELETE FROM device_tokens WHERE token = ?`), token)
	return err
}
