package repositories

import (
	"context"
	"database/sql"
	"errors"

	"collabBack/internal/marketplace/repo"
	"collabBack/internal/models"
)

type UserRepository struct {
	DB      *sql.DB
	Dialect repo.Dialect
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
        INSERT INTO users (id, email, password_hash, role, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query),
		user.ID, user.Email, user.Password, user.Role, user.CreatedAt,
	)
	if isDuplicateKeyError(err) {
		return models.User{}, models.ErrDuplicateEmail
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return r.getUser(ctx, `SELECT id, email, password_hash, role, created_at FROM users WHERE id = ?`, id)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getUser(ctx, `SELECT id, email, password_hash, role, created_at FROM users WHERE email = ?`, email)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg string) (models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), arg).Scan(
		&user.ID, &user.Email, &user.Password, &user.Role, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}
