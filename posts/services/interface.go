package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/openagora/agora/internal/types"
	"github.com/openagora/agora/posts/models"
)

// PostService defines the interface for post operations
type PostService interface {
	// SearchPosts runs the filtered, ranked, paginated search. No
	// authentication is required for this path.
	SearchPosts(ctx context.Context, req *models.SearchPostsRequest) (*models.SearchPostsResponse, error)

	// CreatePost creates a post; the author must be an active member of the
	// target community.
	CreatePost(ctx context.Context, req *models.CreatePostRequest, user *types.UserContext) (*models.Post, error)

	// GetPost retrieves a single non-deleted post
	GetPost(ctx context.Context, postID uuid.UUID) (*models.Post, error)

	// UpdatePost updates title/body; owner only
	UpdatePost(ctx context.Context, postID uuid.UUID, req *models.UpdatePostRequest, user *types.UserContext) error

	// DeletePost soft-deletes a post. Owners may delete their own posts;
	// community moderators may delete any post in their community, which
	// records an audit entry.
	DeletePost(ctx context.Context, postID uuid.UUID, user *types.UserContext) error
}
