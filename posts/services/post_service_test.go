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
	communityModels "github.com/openagora/agora/communities/models"
	"github.com/openagora/agora/internal/types"
	postsErrors "github.com/openagora/agora/posts/errors"
	"github.com/openagora/agora/posts/models"
	voteModels "github.com/openagora/agora/votes/models"
)

func setupTestService() (PostService, *MockPostRepository, *MockVoteRepository, *MockMembershipRepository, *MockAuditRecorder) {
	mockRepo := new(MockPostRepository)
	mockVotes := new(MockVoteRepository)
	mockMemberships := new(MockMembershipRepository)
	mockAudit := new(MockAuditRecorder)
	service := NewPostService(mockRepo, mockVotes, mockMemberships, mockAudit)
	return service, mockRepo, mockVotes, mockMemberships, mockAudit
}

func createTestUserContext() *types.UserContext {
	userID, _ := uuid.NewV4()
	return &types.UserContext{
		UserID:      userID,
		Username:    "tester@example.com",
		DisplayName: "Tester",
		SystemRole:  types.UserRole,
	}
}

func makePost(id string, createdAt time.Time) *models.Post {
	postID := uuid.FromStringOrNil(id)
	communityID := uuid.FromStringOrNil("11111111-1111-1111-1111-111111111111")
	ownerID := uuid.FromStringOrNil("22222222-2222-2222-2222-222222222222")
	return &models.Post{
		ID:          postID,
		CommunityID: communityID,
		OwnerUserID: ownerID,
		Title:       "post " + id,
		Body:        "body",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func upvote(postID uuid.UUID) *voteModels.Vote {
	id, _ := uuid.NewV4()
	voterID, _ := uuid.NewV4()
	return &voteModels.Vote{ID: id, PostID: postID, OwnerUserID: voterID, VoteState: voteModels.VoteStateUp}
}

func downvote(postID uuid.UUID) *voteModels.Vote {
	id, _ := uuid.NewV4()
	voterID, _ := uuid.NewV4()
	return &voteModels.Vote{ID: id, PostID: postID, OwnerUserID: voterID, VoteState: voteModels.VoteStateDown}
}

func TestSearchPosts_TopSort_OrdersByScoreDescending(t *testing.T) {
	service, mockRepo, mockVotes, _, _ := setupTestService()
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	// Chronological window order is newest first, on purpose distinct from
	// the expected ranked order.
	plusTwo := makePost("aaaaaaaa-0000-0000-0000-000000000001", base.Add(-2*time.Hour))
	zero := makePost("aaaaaaaa-0000-0000-0000-000000000002", base.Add(-1*time.Hour))
	minusOne := makePost("aaaaaaaa-0000-0000-0000-000000000003", base)
	window := []*models.Post{minusOne, zero, plusTwo}

	votes := []*voteModels.Vote{
		upvote(plusTwo.ID),
		upvote(plusTwo.ID),
		downvote(minusOne.ID),
	}

	mockRepo.On("Find", ctx, mock.Anything, 100, 0).Return(window, nil)
	mockVotes.On("FindByPostIDs", ctx, mock.Anything).Return(votes, nil)
	mockRepo.On("Count", ctx, mock.Anything).Return(int64(3), nil)

	result, err := service.SearchPosts(ctx, &models.SearchPostsRequest{Sort: models.SortTop, Page: 1, Limit: 10})

	assert.NoError(t, err)
	assert.Len(t, result.Data, 3)
	assert.Equal(t, plusTwo.ID, result.Data[0].ID)
	assert.Equal(t, zero.ID, result.Data[1].ID)
	assert.Equal(t, minusOne.ID, result.Data[2].ID)

	mockRepo.AssertExpectations(t)
	mockVotes.AssertExpectations(t)
}

func TestSearchPosts_TopSort_TieBreaksByCreatedAtThenID(t *testing.T) {
	service, mockRepo, mockVotes, _, _ := setupTestService()
	ctx := context.Background()

	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	older := makePost("aaaaaaaa-0000-0000-0000-000000000001", created.Add(-time.Hour))
	newer := makePost("aaaaaaaa-0000-0000-0000-000000000002", created)
	// Same timestamp as newer; lexicographically larger id wins the tie.
	sameTimeBigID := makePost("bbbbbbbb-0000-0000-0000-000000000001", created)
	window := []*models.Post{newer, sameTimeBigID, older}

	mockRepo.On("Find", ctx, mock.Anything, 100, 0).Return(window, nil)
	mockVotes.On("FindByPostIDs", ctx, mock.Anything).Return([]*voteModels.Vote{}, nil)
	mockRepo.On("Count", ctx, mock.Anything).Return(int64(3), nil)

	result, err := service.SearchPosts(ctx, &models.SearchPostsRequest{Sort: models.SortTop, Page: 1, Limit: 10})

	assert.NoError(t, err)
	assert.Len(t, result.Data, 3)
	assert.Equal(t, sameTimeBigID.ID, result.Data[0].ID)
	assert.Equal(t, newer.ID, result.Data[1].ID)
	assert.Equal(t, older.ID, result.Data[2].ID)
}

func TestSearchPosts_TopSort_WindowScalesWithLimit(t *testing.T) {
	service, mockRepo, mockVotes, _, _ := setupTestService()
	ctx := context.Background()

	// limit*3 exceeds the floor of 100 once limit > 33
	mockRepo.On("Find", ctx, mock.Anything, 150, 0).Return([]*models.Post{}, nil)
	mockRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

	_, err := service.SearchPosts(ctx, &models.SearchPostsRequest{Sort: models.SortTop, Page: 1, Limit: 50})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockVotes.AssertNotCalled(t, "FindByPostIDs", mock.Anything, mock.Anything)
}

func TestSearchPosts_TopSort_TruncatesToLimit(t *testing.T) {
	service, mockRepo, mockVotes, _, _ := setupTestService()
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	window := make([]*models.Post, 5)
	for i := range window {
		id, _ := uuid.NewV4()
		window[i] = makePost(id.String(), base.Add(-time.Duration(i)*time.Minute))
	}

	mockRepo.On("Find", ctx, mock.Anything, 100, 0).Return(window, nil)
	mockVotes.On("FindByPostIDs", ctx, mock.Anything).Return([]*voteModels.Vote{}, nil)
	mockRepo.On("Count", ctx, mock.Anything).Return(int64(5), nil)

	result, err := service.SearchPosts(ctx, &models.SearchPostsRequest{Sort: models.SortTop, Page: 1, Limit: 2})

	assert.NoError(t, err)
	assert.Len(t, result.Data, 2)
	// Pagination reflects the full match count, not the truncated page
	assert.Equal(t, int64(5), result.Pagination.Records)
	assert.Equal(t, int64(3), result.Pagination.Pages)
}

func TestSearchPosts_EmptyPage_ReturnsEmptyMetadata(t *testing.T) {
	service, mockRepo, _, _, _ := setupTestService()
	ctx := context.Background()

	mockRepo.On("Find", ctx, mock.Anything, 100, 20).Return([]*models.Post{}, nil)
	mockRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

	result, err := service.SearchPosts(ctx, &models.SearchPostsRequest{Sort: models.SortTop, Page: 2, Limit: 20})

	assert.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, 2, result.Pagination.Current)
	assert.Equal(t, 20, result.Pagination.Limit)
	assert.Equal(t, int64(0), result.Pagination.Records)
	assert.Equal(t, int64(0), result.Pagination.Pages)
}

func TestSearchPosts_NewestSort_SkipsVoteFetch(t *testing.T) {
	service, mockRepo, mockVotes, _, _ := setupTestService()
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	posts := []*models.Post{
		makePost("aaaaaaaa-0000-0000-0000-000000000002", base),
		makePost("aaaaaaaa-0000-0000-0000-000000000001", base.Add(-time.Hour)),
	}

	mockRepo.On("Find", ctx, mock.Anything, 20, 0).Return(posts, nil)
	mockRepo.On("Count", ctx, mock.Anything).Return(int64(2), nil)

	result, err := service.SearchPosts(ctx, &models.SearchPostsRequest{Page: 1, Limit: 20})

	assert.NoError(t, err)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, posts[0].ID, result.Data[0].ID)
	mockVotes.AssertNotCalled(t, "FindByPostIDs", mock.Anything, mock.Anything)
}

func TestSearchPosts_IdenticalRequests_ReturnSameOrder(t *testing.T) {
	service, mockRepo, mockVotes, _, _ := setupTestService()
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	a := makePost("aaaaaaaa-0000-0000-0000-000000000001", base)
	b := makePost("aaaaaaaa-0000-0000-0000-000000000002", base.Add(-time.Minute))

	votes := []*voteModels.Vote{upvote(b.ID)}

	mockRepo.On("Find", ctx, mock.Anything, 100, 0).Return([]*models.Post{a, b}, nil)
	mockVotes.On("FindByPostIDs", ctx, mock.Anything).Return(votes, nil)
	mockRepo.On("Count", ctx, mock.Anything).Return(int64(2), nil)

	req := &models.SearchPostsRequest{Sort: models.SortTop, Page: 1, Limit: 10}

	first, err := service.SearchPosts(ctx, req)
	assert.NoError(t, err)
	second, err := service.SearchPosts(ctx, req)
	assert.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, first.Pagination, second.Pagination)
}

func TestSearchPosts_LimitAboveMax_IsClamped(t *testing.T) {
	service, mockRepo, _, _, _ := setupTestService()
	ctx := context.Background()

	mockRepo.On("Find", ctx, mock.Anything, 100, 0).Return([]*models.Post{}, nil)
	mockRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

	result, err := service.SearchPosts(ctx, &models.SearchPostsRequest{Page: 1, Limit: 500})

	assert.NoError(t, err)
	assert.Equal(t, 100, result.Pagination.Limit)
	mockRepo.AssertExpectations(t)
}

func TestSearchPosts_UnknownSort_ReturnsValidationError(t *testing.T) {
	service, _, _, _, _ := setupTestService()
	ctx := context.Background()

	result, err := service.SearchPosts(ctx, &models.SearchPostsRequest{Sort: "spiciest"})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, postsErrors.ErrValidationFailed))
}

func TestSearchPosts_InvalidCommunityID_ReturnsValidationError(t *testing.T) {
	service, _, _, _, _ := setupTestService()
	ctx := context.Background()

	result, err := service.SearchPosts(ctx, &models.SearchPostsRequest{Community: "not-a-uuid"})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, postsErrors.ErrValidationFailed))
}

func TestCreatePost_ActiveMember_Success(t *testing.T) {
	service, mockRepo, _, mockMemberships, _ := setupTestService()
	ctx := context.Background()
	user := createTestUserContext()
	communityID, _ := uuid.NewV4()

	membership := &communityModels.Membership{
		CommunityID: communityID,
		UserID:      user.UserID,
		Role:        communityModels.RoleMember,
		Status:      communityModels.StatusActive,
	}

	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, user.UserID).Return(membership, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Post")).Return(nil)

	result, err := service.CreatePost(ctx, &models.CreatePostRequest{
		CommunityID: communityID,
		Title:       "hello",
		Body:        "world",
	}, user)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, communityID, result.CommunityID)
	assert.Equal(t, user.UserID, result.OwnerUserID)
	assert.NotEqual(t, uuid.Nil, result.ID)
	if assert.NotNil(t, result.OwnerDisplayName) {
		assert.Equal(t, user.DisplayName, *result.OwnerDisplayName)
	}

	mockRepo.AssertExpectations(t)
	mockMemberships.AssertExpectations(t)
}

func TestCreatePost_NonMember_ReturnsError(t *testing.T) {
	service, mockRepo, _, mockMemberships, _ := setupTestService()
	ctx := context.Background()
	user := createTestUserContext()
	communityID, _ := uuid.NewV4()

	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, user.UserID).Return(nil, sql.ErrNoRows)

	result, err := service.CreatePost(ctx, &models.CreatePostRequest{
		CommunityID: communityID,
		Title:       "hello",
		Body:        "world",
	}, user)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, postsErrors.ErrNotCommunityMember))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePost_BannedMember_ReturnsError(t *testing.T) {
	service, _, _, mockMemberships, _ := setupTestService()
	ctx := context.Background()
	user := createTestUserContext()
	communityID, _ := uuid.NewV4()

	membership := &communityModels.Membership{
		CommunityID: communityID,
		UserID:      user.UserID,
		Role:        communityModels.RoleMember,
		Status:      communityModels.StatusBanned,
	}

	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, user.UserID).Return(membership, nil)

	result, err := service.CreatePost(ctx, &models.CreatePostRequest{
		CommunityID: communityID,
		Title:       "hello",
		Body:        "world",
	}, user)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, postsErrors.ErrNotCommunityMember))
}

func TestUpdatePost_UnauthorizedUser_ReturnsError(t *testing.T) {
	service, mockRepo, _, _, _ := setupTestService()
	ctx := context.Background()
	user := createTestUserContext()

	post := makePost("aaaaaaaa-0000-0000-0000-000000000001", time.Now().UTC())

	mockRepo.On("FindByID", ctx, post.ID).Return(post, nil)

	err := service.UpdatePost(ctx, post.ID, &models.UpdatePostRequest{Title: "x", Body: "y"}, user)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, postsErrors.ErrPostOwnershipRequired))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeletePost_ModeratorRemoval_RecordsAudit(t *testing.T) {
	service, mockRepo, _, mockMemberships, mockAudit := setupTestService()
	ctx := context.Background()
	user := createTestUserContext()

	post := makePost("aaaaaaaa-0000-0000-0000-000000000001", time.Now().UTC())

	membership := &communityModels.Membership{
		CommunityID: post.CommunityID,
		UserID:      user.UserID,
		Role:        communityModels.RoleModerator,
		Status:      communityModels.StatusActive,
	}

	mockRepo.On("FindByID", ctx, post.ID).Return(post, nil)
	mockMemberships.On("FindByCommunityAndUser", ctx, post.CommunityID, user.UserID).Return(membership, nil)
	mockRepo.On("SoftDelete", ctx, post.ID).Return(nil)
	mockAudit.On("Record", ctx, mock.MatchedBy(func(entry *auditModels.AuditEntry) bool {
		return entry.Action == auditModels.ActionPostRemoved && entry.TargetID == post.ID
	})).Return(nil)

	err := service.DeletePost(ctx, post.ID, user)

	assert.NoError(t, err)
	mockAudit.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestDeletePost_NonOwnerNonModerator_ReturnsError(t *testing.T) {
	service, mockRepo, _, mockMemberships, _ := setupTestService()
	ctx := context.Background()
	user := createTestUserContext()

	post := makePost("aaaaaaaa-0000-0000-0000-000000000001", time.Now().UTC())

	membership := &communityModels.Membership{
		CommunityID: post.CommunityID,
		UserID:      user.UserID,
		Role:        communityModels.RoleMember,
		Status:      communityModels.StatusActive,
	}

	mockRepo.On("FindByID", ctx, post.ID).Return(post, nil)
	mockMemberships.On("FindByCommunityAndUser", ctx, post.CommunityID, user.UserID).Return(membership, nil)

	err := service.DeletePost(ctx, post.ID, user)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, postsErrors.ErrPermissionDenied))
	mockRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestGetPost_NonExistentId_ReturnsError(t *testing.T) {
	service, mockRepo, _, _, _ := setupTestService()
	ctx := context.Background()
	postID, _ := uuid.NewV4()

	mockRepo.On("FindByID", ctx, postID).Return(nil, sql.ErrNoRows)

	result, err := service.GetPost(ctx, postID)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, postsErrors.ErrPostNotFound))
}
