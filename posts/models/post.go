package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// Post represents the post entity in the database
type Post struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	CommunityID      uuid.UUID  `json:"communityId" db:"community_id"`
	OwnerUserID      uuid.UUID  `json:"ownerUserId" db:"owner_user_id"`
	OwnerDisplayName *string    `json:"ownerDisplayName" db:"owner_display_name"`
	Title            string     `json:"title" db:"title"`
	Body             string     `json:"body" db:"body"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt        *time.Time `json:"-" db:"deleted_at"`
}

// CreatePostRequest represents the request body for creating a post
type CreatePostRequest struct {
	CommunityID uuid.UUID `json:"communityId"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
}

// UpdatePostRequest represents the request body for updating a post
type UpdatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PostSummary is the shape posts take inside search and list responses
type PostSummary struct {
	ID               uuid.UUID `json:"id"`
	CommunityID      uuid.UUID `json:"communityId"`
	Title            string    `json:"title"`
	OwnerDisplayName *string   `json:"ownerDisplayName"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ToSummary converts a Post to its listing shape
func (p *Post) ToSummary() PostSummary {
	return PostSummary{
		ID:               p.ID,
		CommunityID:      p.CommunityID,
		Title:            p.Title,
		OwnerDisplayName: p.OwnerDisplayName,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
