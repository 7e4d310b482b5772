package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/openagora/agora/votes/models"
)

// VoteRepository defines the interface for vote-specific database operations
type VoteRepository interface {
	// Create inserts a new vote
	Create(ctx context.Context, vote *models.Vote) error

	// UpdateState changes the vote state of an existing vote (switch)
	UpdateState(ctx context.Context, postID, userID uuid.UUID, voteState int) error

	// Delete removes a vote (toggle off)
	Delete(ctx context.Context, postID, userID uuid.UUID) error

	// FindByUserAndPost retrieves a user's vote on a specific post.
	// Returns sql.ErrNoRows (wrapped) when no vote exists.
	FindByUserAndPost(ctx context.Context, userID, postID uuid.UUID) (*models.Vote, error)

	// FindByPostIDs bulk retrieves every vote row for the given posts in one
	// query. The ranking path sums these rows without assuming uniqueness.
	FindByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]*models.Vote, error)

	// WithTransaction executes a function within a database transaction
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
