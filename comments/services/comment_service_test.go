package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	auditModels "github.com/openagora/agora/audit/models"
	commentsErrors "github.com/openagora/agora/comments/errors"
	"github.com/openagora/agora/comments/models"
	communityModels "github.com/openagora/agora/communities/models"
	"github.com/openagora/agora/internal/types"
	postModels "github.com/openagora/agora/posts/models"
)

func setupCommentService() (CommentService, *MockCommentRepository, *MockPostRepository, *MockMembershipRepository, *MockAuditRecorder) {
	mockRepo := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	mockMemberships := new(MockMembershipRepository)
	mockAudit := new(MockAuditRecorder)
	service := NewCommentService(mockRepo, mockPosts, mockMemberships, mockAudit)
	return service, mockRepo, mockPosts, mockMemberships, mockAudit
}

func commentTestUser() *types.UserContext {
	userID, _ := uuid.NewV4()
	return &types.UserContext{
		UserID:      userID,
		Username:    "commenter@example.com",
		DisplayName: "Commenter",
		SystemRole:  types.UserRole,
	}
}

func testPost() *postModels.Post {
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

func TestCreateComment_ExistingPost_Success(t *testing.T) {
	service, mockRepo, mockPosts, _, _ := setupCommentService()
	ctx := context.Background()
	user := commentTestUser()
	post := testPost()

	mockPosts.On("FindByID", ctx, post.ID).Return(post, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(c *models.Comment) bool {
		return c.PostID == post.ID && c.OwnerUserID == user.UserID && c.Body == "nice post"
	})).Return(nil)

	comment, err := service.CreateComment(ctx, &models.CreateCommentRequest{
		PostID: post.ID,
		Body:   "nice post",
	}, user)

	assert.NoError(t, err)
	assert.NotNil(t, comment)
	assert.NotEqual(t, uuid.Nil, comment.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreateComment_DeletedPost_ReturnsNotFound(t *testing.T) {
	service, mockRepo, mockPosts, _, _ := setupCommentService()
	ctx := context.Background()
	postID, _ := uuid.NewV4()

	mockPosts.On("FindByID", ctx, postID).Return(nil, sql.ErrNoRows)

	comment, err := service.CreateComment(ctx, &models.CreateCommentRequest{
		PostID: postID,
		Body:   "nice post",
	}, commentTestUser())

	assert.Error(t, err)
	assert.Nil(t, comment)
	assert.True(t, errors.Is(err, commentsErrors.ErrPostNotFound))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListByPost_ReturnsPaginatedComments(t *testing.T) {
	service, mockRepo, mockPosts, _, _ := setupCommentService()
	ctx := context.Background()
	post := testPost()

	commentID, _ := uuid.NewV4()
	comments := []*models.Comment{{ID: commentID, PostID: post.ID, Body: "first"}}

	mockPosts.On("FindByID", ctx, post.ID).Return(post, nil)
	mockRepo.On("FindByPost", ctx, post.ID, 20, 0).Return(comments, nil)
	mockRepo.On("CountByPost", ctx, post.ID).Return(int64(41), nil)

	result, err := service.ListByPost(ctx, post.ID, 1, 20)

	assert.NoError(t, err)
	assert.Len(t, result.Data, 1)
	assert.Equal(t, int64(41), result.Pagination.Records)
	assert.Equal(t, int64(3), result.Pagination.Pages)
}

func TestUpdateComment_NonOwner_ReturnsError(t *testing.T) {
	service, mockRepo, _, _, _ := setupCommentService()
	ctx := context.Background()
	user := commentTestUser()

	commentID, _ := uuid.NewV4()
	ownerID, _ := uuid.NewV4()
	postID, _ := uuid.NewV4()
	comment := &models.Comment{ID: commentID, PostID: postID, OwnerUserID: ownerID, Body: "original"}

	mockRepo.On("FindByID", ctx, commentID).Return(comment, nil)

	err := service.UpdateComment(ctx, commentID, &models.UpdateCommentRequest{Body: "edited"}, user)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, commentsErrors.ErrCommentOwnershipRequired))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteComment_Owner_SoftDeletes(t *testing.T) {
	service, mockRepo, _, _, mockAudit := setupCommentService()
	ctx := context.Background()
	user := commentTestUser()

	commentID, _ := uuid.NewV4()
	postID, _ := uuid.NewV4()
	comment := &models.Comment{ID: commentID, PostID: postID, OwnerUserID: user.UserID, Body: "mine"}

	mockRepo.On("FindByID", ctx, commentID).Return(comment, nil)
	mockRepo.On("SoftDelete", ctx, commentID).Return(nil)

	err := service.DeleteComment(ctx, commentID, user)

	assert.NoError(t, err)
	// Self-deletion is not a moderation action
	mockAudit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestDeleteComment_Moderator_RecordsAudit(t *testing.T) {
	service, mockRepo, mockPosts, mockMemberships, mockAudit := setupCommentService()
	ctx := context.Background()
	user := commentTestUser()
	post := testPost()

	commentID, _ := uuid.NewV4()
	ownerID, _ := uuid.NewV4()
	comment := &models.Comment{ID: commentID, PostID: post.ID, OwnerUserID: ownerID, Body: "theirs"}

	membershipID, _ := uuid.NewV4()
	membership := &communityModels.Membership{
		ID:          membershipID,
		CommunityID: post.CommunityID,
		UserID:      user.UserID,
		Role:        communityModels.RoleModerator,
		Status:      communityModels.StatusActive,
	}

	mockRepo.On("FindByID", ctx, commentID).Return(comment, nil)
	mockPosts.On("FindByID", ctx, post.ID).Return(post, nil)
	mockMemberships.On("FindByCommunityAndUser", ctx, post.CommunityID, user.UserID).Return(membership, nil)
	mockRepo.On("SoftDelete", ctx, commentID).Return(nil)
	mockAudit.On("Record", ctx, mock.MatchedBy(func(entry *auditModels.AuditEntry) bool {
		return entry.Action == auditModels.ActionCommentRemoved && entry.TargetID == commentID
	})).Return(nil)

	err := service.DeleteComment(ctx, commentID, user)

	assert.NoError(t, err)
	mockAudit.AssertExpectations(t)
}
