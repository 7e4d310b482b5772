package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// Audit actions recorded by the platform
const (
	ActionSignup        = "auth.signup"
	ActionLoginSuccess  = "auth.login"
	ActionLoginFailure  = "auth.login_failed"
	ActionLogout        = "auth.logout"
	ActionMemberBanned  = "community.member_banned"
	ActionPostRemoved   = "community.post_removed"
	ActionCommentRemoved = "community.comment_removed"
)

// Target types referenced by audit entries
const (
	TargetUser    = "user"
	TargetPost    = "post"
	TargetComment = "comment"
	TargetMember  = "member"
)

// AuditEntry is one append-only row in the audit log
type AuditEntry struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ActorUserID uuid.UUID  `db:"actor_user_id" json:"actorUserId"`
	Action      string     `db:"action" json:"action"`
	TargetType  string     `db:"target_type" json:"targetType"`
	TargetID    uuid.UUID  `db:"target_id" json:"targetId"`
	CommunityID *uuid.UUID `db:"community_id" json:"communityId"`
	Detail      string     `db:"detail" json:"detail"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

// ListAuditRequest carries the query-string inputs of the admin listing
// endpoint, decoded via gorilla/schema.
type ListAuditRequest struct {
	Actor     string `schema:"actor"`
	Action    string `schema:"action"`
	Community string `schema:"community"`
	Page      int    `schema:"page"`
	Limit     int    `schema:"limit"`
}
