package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/openagora/agora/comments/models"
)

// CommentRepository defines the interface for comment database operations
type CommentRepository interface {
	// Create inserts a new comment
	Create(ctx context.Context, comment *models.Comment) error

	// FindByID retrieves a non-deleted comment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)

	// FindByPost retrieves non-deleted comments for a post, newest first
	FindByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*models.Comment, error)

	// CountByPost returns the number of non-deleted comments on a post
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)

	// Update updates the body of an existing comment
	Update(ctx context.Context, comment *models.Comment) error

	// SoftDelete marks a comment deleted by setting deleted_at
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
