package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/openagora/agora/communities/models"
)

// CommunityRepository defines the interface for community database operations
type CommunityRepository interface {
	// Create inserts a new community
	Create(ctx context.Context, community *models.Community) error

	// FindByID retrieves a non-deleted community by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Community, error)

	// FindBySlug retrieves a non-deleted community by its slug
	FindBySlug(ctx context.Context, slug string) (*models.Community, error)

	// ExistsByNameOrSlug reports whether a community with the given name or
	// slug already exists
	ExistsByNameOrSlug(ctx context.Context, name, slug string) (bool, error)

	// List retrieves non-deleted communities ordered by created_at DESC
	List(ctx context.Context, limit, offset int) ([]*models.Community, error)

	// Count returns the number of non-deleted communities
	Count(ctx context.Context) (int64, error)

	// WithTransaction executes a function within a database transaction
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}

// MembershipRepository defines the interface for membership database operations
type MembershipRepository interface {
	// Create inserts a new membership
	Create(ctx context.Context, membership *models.Membership) error

	// FindByCommunityAndUser retrieves the membership row for a user in a
	// community. Returns sql.ErrNoRows (wrapped) when none exists.
	FindByCommunityAndUser(ctx context.Context, communityID, userID uuid.UUID) (*models.Membership, error)

	// UpdateStatus changes a membership status (active|banned)
	UpdateStatus(ctx context.Context, communityID, userID uuid.UUID, status string) error

	// Delete removes a membership row (leave)
	Delete(ctx context.Context, communityID, userID uuid.UUID) error
}
