package repository

import (
	"context"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/openagora/agora/posts/models"
)

// PostFilter represents filtering criteria for querying posts. Every field
// is optional; absent fields add no predicate.
type PostFilter struct {
	CommunityID *uuid.UUID
	AuthorIDs   []uuid.UUID
	Keyword     *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PostRepository defines the interface for post-specific database operations
type PostRepository interface {
	// Create inserts a new post
	Create(ctx context.Context, post *models.Post) error

	// FindByID retrieves a non-deleted post by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)

	// Find retrieves non-deleted posts matching the filter criteria ordered
	// by created_at DESC, id DESC with offset/limit applied
	Find(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, error)

	// Count returns the number of non-deleted posts matching the filter criteria
	Count(ctx context.Context, filter PostFilter) (int64, error)

	// Update updates the title and body of an existing post
	Update(ctx context.Context, post *models.Post) error

	// SoftDelete marks a post deleted by setting deleted_at
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// WithTransaction executes a function within a database transaction
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
