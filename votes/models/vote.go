package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// Vote represents a user's vote on a post
type Vote struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PostID      uuid.UUID `db:"post_id" json:"postId"`
	OwnerUserID uuid.UUID `db:"owner_user_id" json:"ownerUserId"`
	VoteState   int       `db:"vote_state" json:"voteState"` // 1=UpVote, 2=DownVote
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Vote state constants
const (
	VoteStateUp   = 1 // UpVote (+1 score)
	VoteStateDown = 2 // DownVote (-1 score)
)

// GetScoreValue returns the score delta for a vote state.
// 1 = Up (+1), 2 = Down (-1)
func GetScoreValue(voteState int) int {
	if voteState == VoteStateUp {
		return 1
	}
	if voteState == VoteStateDown {
		return -1
	}
	return 0
}

// IsValidVoteState checks if the vote state is valid
func IsValidVoteState(voteState int) bool {
	return voteState == VoteStateUp || voteState == VoteStateDown
}

// CastVoteRequest is the request body for casting a vote
type CastVoteRequest struct {
	PostID    uuid.UUID `json:"postId"`
	VoteState int       `json:"voteState"`
}

// CastVoteResult describes what the vote operation did
type CastVoteResult struct {
	Action    string `json:"action"` // created | switched | removed
	VoteState int    `json:"voteState,omitempty"`
}

// Vote actions
const (
	VoteActionCreated  = "created"
	VoteActionSwitched = "switched"
	VoteActionRemoved  = "removed"
)
