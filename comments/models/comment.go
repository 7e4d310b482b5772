package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/openagora/agora/internal/types"
)

// Comment represents a comment on a post
type Comment struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	PostID           uuid.UUID  `db:"post_id" json:"postId"`
	OwnerUserID      uuid.UUID  `db:"owner_user_id" json:"ownerUserId"`
	OwnerDisplayName *string    `db:"owner_display_name" json:"ownerDisplayName"`
	Body             string     `db:"body" json:"body"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt        *time.Time `db:"deleted_at" json:"-"`
}

// CreateCommentRequest is the request body for creating a comment
type CreateCommentRequest struct {
	PostID uuid.UUID `json:"postId"`
	Body   string    `json:"body"`
}

// UpdateCommentRequest is the request body for updating a comment
type UpdateCommentRequest struct {
	Body string `json:"body"`
}

// CommentsListResponse is the paginated comment listing envelope
type CommentsListResponse struct {
	Pagination types.Pagination `json:"pagination"`
	Data       []*Comment       `json:"data"`
}
