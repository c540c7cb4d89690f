package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         string    `json:"role"` // "owner" or "employee"
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Remember selects a durable token over a session-scoped one.
	Remember bool `json:"remember"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// DeviceCredential binds a platform-authenticator credential to an
// email for biometric login.
type DeviceCredential struct {
	CredentialID string    `json:"credential_id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}
