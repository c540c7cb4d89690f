package repositories

import (
	"context"
	"fmt"

	"abarrotes-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeviceCredentialRepository stores platform-authenticator credential
// bindings for biometric login.
type DeviceCredentialRepository struct {
	DB *pgxpool.Pool
}

func NewDeviceCredentialRepository(db *pgxpool.Pool) *DeviceCredentialRepository {
	return &DeviceCredentialRepository{DB: db}
}

func (r *DeviceCredentialRepository) Save(ctx context.Context, credentialID, email string) error {
	query := `
		INSERT INTO device_credentials (credential_id, email)
		VALUES ($1, $2)
		ON CONFLICT (credential_id) DO UPDATE SET email = EXCLUDED.email
	`
	if _, err := r.DB.Exec(ctx, query, credentialID, email); err != nil {
		return fmt.Errorf("failed to save device credential: %w", err)
	}
	return nil
}

func (r *DeviceCredentialRepository) Get(ctx context.Context, credentialID string) (*models.DeviceCredential, error) {
	query := `
		SELECT credential_id, email, created_at
		FROM device_credentials WHERE credential_id = $1
	`

	var c models.DeviceCredential
	err := r.DB.QueryRow(ctx, query, credentialID).Scan(&c.CredentialID, &c.Email, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *DeviceCredentialRepository) Delete(ctx context.Context, credentialID string) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM device_credentials WHERE credential_id = $1", credentialID)
	return err
}
