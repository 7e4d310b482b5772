package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// Community represents a community entity in the database
type Community struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Slug        string     `db:"slug" json:"slug"`
	Description string     `db:"description" json:"description"`
	OwnerUserID uuid.UUID  `db:"owner_user_id" json:"ownerUserId"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}

// Membership roles
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleOwner     = "owner"
)

// Membership statuses
const (
	StatusActive = "active"
	StatusBanned = "banned"
)

// Membership ties a user to a community with a role and a status.
// (community_id, user_id) is unique.
type Membership struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CommunityID uuid.UUID `db:"community_id" json:"communityId"`
	UserID      uuid.UUID `db:"user_id" json:"userId"`
	Role        string    `db:"role" json:"role"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// CanModerate reports whether this membership grants moderation rights
func (m *Membership) CanModerate() bool {
	return m.Status == StatusActive && (m.Role == RoleModerator || m.Role == RoleOwner)
}

// CreateCommunityRequest is the request body for creating a community
type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// BanMemberRequest is the request body for banning a community member
type BanMemberRequest struct {
	UserID uuid.UUID `json:"userId"`
	Reason string    `json:"reason"`
}
