package services

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/openagora/agora/auth/models"
)

// AuthService defines the interface for account and session operations
type AuthService interface {
	// Signup registers a new account with a bcrypt-hashed password
	Signup(ctx context.Context, req *models.SignupRequest) (*models.UserAccount, error)

	// Login verifies credentials, mints an access token and registers its
	// session id in the allowlist
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)

	// Logout removes a session id from the allowlist, invalidating the token
	Logout(ctx context.Context, userID uuid.UUID, sessionID string) error

	// VerifyActivePrincipal loads an account by id and ensures it is active
	VerifyActivePrincipal(ctx context.Context, id uuid.UUID) (*models.UserAccount, error)
}
