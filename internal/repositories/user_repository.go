package repositories

import (
	"context"
	"errors"
	"fmt"

	"abarrotes-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, email, passwordHash, displayName string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, 'employee')
		RETURNING id, email, password_hash, display_name, avatar_url, role, is_active, created_at
	`

	var u models.User
	err := r.DB.QueryRow(ctx, query, email, passwordHash, displayName).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.AvatarURL, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, avatar_url, role, is_active, created_at
		FROM users WHERE id = $1
	`

	var u models.User
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.AvatarURL, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, avatar_url, role, is_active, created_at
		FROM users WHERE email = $1
	`

	var u models.User
	err := r.DB.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.AvatarURL, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id int, avatarURL string) error {
	_, err := r.DB.Exec(ctx, "UPDATE users SET avatar_url = $1 WHERE id = $2", avatarURL, id)
	return err
}
