package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	postModels "github.com/openagora/agora/posts/models"
	votesErrors "github.com/openagora/agora/votes/errors"
	"github.com/openagora/agora/votes/models"
)

func setupVoteService() (VoteService, *MockVoteRepository, *MockPostRepository) {
	mockVotes := new(MockVoteRepository)
	mockPosts := new(MockPostRepository)
	service := NewVoteService(mockVotes, mockPosts)
	return service, mockVotes, mockPosts
}

func existingPost() *postModels.Post {
	postID, _ := uuid.NewV4()
	communityID, _ := uuid.NewV4()
	ownerID, _ := uuid.NewV4()
	now := time.Now().UTC()
	return &postModels.Post{
		ID:          postID,
		CommunityID: communityID,
		OwnerUserID: ownerID,
		Title:       "t",
		Body:        "b",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestVote_NoExistingVote_CreatesVote(t *testing.T) {
	service, mockVotes, mockPosts := setupVoteService()
	ctx := context.Background()
	post := existingPost()
	userID, _ := uuid.NewV4()

	mockPosts.On("FindByID", ctx, post.ID).Return(post, nil)
	mockVotes.On("WithTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	mockVotes.On("FindByUserAndPost", ctx, userID, post.ID).Return(nil, sql.ErrNoRows)
	mockVotes.On("Create", ctx, mock.MatchedBy(func(v *models.Vote) bool {
		return v.PostID == post.ID && v.OwnerUserID == userID && v.VoteState == models.VoteStateUp
	})).Return(nil)

	result, err := service.Vote(ctx, post.ID, userID, models.VoteStateUp)

	assert.NoError(t, err)
	assert.Equal(t, models.VoteActionCreated, result.Action)
	assert.Equal(t, models.VoteStateUp, result.VoteState)
	mockVotes.AssertExpectations(t)
}

func TestVote_SameState_TogglesOff(t *testing.T) {
	service, mockVotes, mockPosts := setupVoteService()
	ctx := context.Background()
	post := existingPost()
	userID, _ := uuid.NewV4()
	voteID, _ := uuid.NewV4()

	existing := &models.Vote{ID: voteID, PostID: post.ID, OwnerUserID: userID, VoteState: models.VoteStateUp}

	mockPosts.On("FindByID", ctx, post.ID).Return(post, nil)
	mockVotes.On("WithTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	mockVotes.On("FindByUserAndPost", ctx, userID, post.ID).Return(existing, nil)
	mockVotes.On("Delete", ctx, post.ID, userID).Return(nil)

	result, err := service.Vote(ctx, post.ID, userID, models.VoteStateUp)

	assert.NoError(t, err)
	assert.Equal(t, models.VoteActionRemoved, result.Action)
	mockVotes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockVotes.AssertNotCalled(t, "UpdateState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVote_DifferentState_Switches(t *testing.T) {
	service, mockVotes, mockPosts := setupVoteService()
	ctx := context.Background()
	post := existingPost()
	userID, _ := uuid.NewV4()
	voteID, _ := uuid.NewV4()

	existing := &models.Vote{ID: voteID, PostID: post.ID, OwnerUserID: userID, VoteState: models.VoteStateUp}

	mockPosts.On("FindByID", ctx, post.ID).Return(post, nil)
	mockVotes.On("WithTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	mockVotes.On("FindByUserAndPost", ctx, userID, post.ID).Return(existing, nil)
	mockVotes.On("UpdateState", ctx, post.ID, userID, models.VoteStateDown).Return(nil)

	result, err := service.Vote(ctx, post.ID, userID, models.VoteStateDown)

	assert.NoError(t, err)
	assert.Equal(t, models.VoteActionSwitched, result.Action)
	assert.Equal(t, models.VoteStateDown, result.VoteState)
	mockVotes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestVote_PostNotFound_ReturnsError(t *testing.T) {
	service, mockVotes, mockPosts := setupVoteService()
	ctx := context.Background()
	postID, _ := uuid.NewV4()
	userID, _ := uuid.NewV4()

	mockPosts.On("FindByID", ctx, postID).Return(nil, sql.ErrNoRows)

	result, err := service.Vote(ctx, postID, userID, models.VoteStateUp)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, votesErrors.ErrPostNotFound))
	mockVotes.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
}

func TestVote_InvalidState_ReturnsError(t *testing.T) {
	service, _, mockPosts := setupVoteService()
	ctx := context.Background()
	postID, _ := uuid.NewV4()
	userID, _ := uuid.NewV4()

	for _, state := range []int{0, 3, -1, 99} {
		result, err := service.Vote(ctx, postID, userID, state)
		assert.Error(t, err, fmt.Sprintf("state %d should be rejected", state))
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, votesErrors.ErrInvalidVoteState))
	}
	mockPosts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestVote_TransactionFailure_PropagatesError(t *testing.T) {
	service, mockVotes, mockPosts := setupVoteService()
	ctx := context.Background()
	post := existingPost()
	userID, _ := uuid.NewV4()

	mockPosts.On("FindByID", ctx, post.ID).Return(post, nil)
	mockVotes.On("WithTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(errors.New("deadlock detected"))

	result, err := service.Vote(ctx, post.ID, userID, models.VoteStateUp)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestGetScoreValue_MapsStatesToScores(t *testing.T) {
	assert.Equal(t, 1, models.GetScoreValue(models.VoteStateUp))
	assert.Equal(t, -1, models.GetScoreValue(models.VoteStateDown))
	assert.Equal(t, 0, models.GetScoreValue(0))
	assert.Equal(t, 0, models.GetScoreValue(7))
}
