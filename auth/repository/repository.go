package repository

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
	"github.com/openagora/agora/auth/models"
)

// UserRepository defines the interface for user account data access
type UserRepository interface {
	// Create inserts a new user account
	Create(ctx context.Context, user *models.UserAccount) error

	// FindByID retrieves a user account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.UserAccount, error)

	// FindByEmail retrieves a user account by its email address
	FindByEmail(ctx context.Context, email string) (*models.UserAccount, error)

	// ExistsByEmail reports whether an account with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// UpdateLastLogin records the most recent successful login time
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// WithTransaction executes a function within a database transaction
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
