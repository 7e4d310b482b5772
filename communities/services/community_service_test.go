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
	communityErrors "github.com/openagora/agora/communities/errors"
	"github.com/openagora/agora/communities/models"
	"github.com/openagora/agora/internal/types"
	postModels "github.com/openagora/agora/posts/models"
)

func setupCommunityService() (CommunityService, *MockCommunityRepository, *MockMembershipRepository, *MockPostRepository, *MockAuditRecorder) {
	mockRepo := new(MockCommunityRepository)
	mockMemberships := new(MockMembershipRepository)
	mockPosts := new(MockPostRepository)
	mockAudit := new(MockAuditRecorder)
	service := NewCommunityService(mockRepo, mockMemberships, mockPosts, mockAudit)
	return service, mockRepo, mockMemberships, mockPosts, mockAudit
}

func testUser() *types.UserContext {
	userID, _ := uuid.NewV4()
	return &types.UserContext{
		UserID:      userID,
		Username:    "member@example.com",
		DisplayName: "Member",
		SystemRole:  types.UserRole,
	}
}

func activeMembership(communityID, userID uuid.UUID, role string) *models.Membership {
	id, _ := uuid.NewV4()
	return &models.Membership{
		ID:          id,
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
		Status:      models.StatusActive,
	}
}

func TestCreateCommunity_Valid_CreatesOwnerMembership(t *testing.T) {
	service, mockRepo, mockMemberships, _, _ := setupCommunityService()
	ctx := context.Background()
	user := testUser()

	mockRepo.On("ExistsByNameOrSlug", ctx, "Gophers", "gophers").Return(false, nil)
	mockRepo.On("WithTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Community")).Return(nil)
	mockMemberships.On("Create", ctx, mock.MatchedBy(func(m *models.Membership) bool {
		return m.UserID == user.UserID && m.Role == models.RoleOwner && m.Status == models.StatusActive
	})).Return(nil)

	community, err := service.CreateCommunity(ctx, &models.CreateCommunityRequest{
		Name: "Gophers",
		Slug: "gophers",
	}, user)

	assert.NoError(t, err)
	assert.NotNil(t, community)
	assert.Equal(t, user.UserID, community.OwnerUserID)
	mockMemberships.AssertExpectations(t)
}

func TestCreateCommunity_DuplicateNameOrSlug_ReturnsConflict(t *testing.T) {
	service, mockRepo, _, _, _ := setupCommunityService()
	ctx := context.Background()

	mockRepo.On("ExistsByNameOrSlug", ctx, "Gophers", "gophers").Return(true, nil)

	community, err := service.CreateCommunity(ctx, &models.CreateCommunityRequest{
		Name: "Gophers",
		Slug: "gophers",
	}, testUser())

	assert.Error(t, err)
	assert.Nil(t, community)
	assert.True(t, errors.Is(err, communityErrors.ErrCommunityExists))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCommunity_InvalidSlug_ReturnsError(t *testing.T) {
	service, _, _, _, _ := setupCommunityService()
	ctx := context.Background()

	for _, slug := range []string{"", "Gophers", "has space", "trailing-", "-leading", "under_score"} {
		community, err := service.CreateCommunity(ctx, &models.CreateCommunityRequest{
			Name: "Gophers",
			Slug: slug,
		}, testUser())
		assert.Error(t, err, "slug %q should be rejected", slug)
		assert.Nil(t, community)
	}
}

func TestJoin_BannedMember_ReturnsError(t *testing.T) {
	service, mockRepo, mockMemberships, _, _ := setupCommunityService()
	ctx := context.Background()
	user := testUser()
	communityID, _ := uuid.NewV4()

	community := &models.Community{ID: communityID, Name: "Gophers", Slug: "gophers"}
	banned := activeMembership(communityID, user.UserID, models.RoleMember)
	banned.Status = models.StatusBanned

	mockRepo.On("FindByID", ctx, communityID).Return(community, nil)
	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, user.UserID).Return(banned, nil)

	err := service.Join(ctx, communityID, user)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, communityErrors.ErrMemberBanned))
	mockMemberships.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestJoin_ExistingMember_ReturnsConflict(t *testing.T) {
	service, mockRepo, mockMemberships, _, _ := setupCommunityService()
	ctx := context.Background()
	user := testUser()
	communityID, _ := uuid.NewV4()

	community := &models.Community{ID: communityID, Name: "Gophers", Slug: "gophers"}

	mockRepo.On("FindByID", ctx, communityID).Return(community, nil)
	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, user.UserID).
		Return(activeMembership(communityID, user.UserID, models.RoleMember), nil)

	err := service.Join(ctx, communityID, user)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, communityErrors.ErrAlreadyMember))
}

func TestJoin_NewMember_CreatesActiveMembership(t *testing.T) {
	service, mockRepo, mockMemberships, _, _ := setupCommunityService()
	ctx := context.Background()
	user := testUser()
	communityID, _ := uuid.NewV4()

	community := &models.Community{ID: communityID, Name: "Gophers", Slug: "gophers"}

	mockRepo.On("FindByID", ctx, communityID).Return(community, nil)
	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, user.UserID).Return(nil, sql.ErrNoRows)
	mockMemberships.On("Create", ctx, mock.MatchedBy(func(m *models.Membership) bool {
		return m.Role == models.RoleMember && m.Status == models.StatusActive
	})).Return(nil)

	err := service.Join(ctx, communityID, user)

	assert.NoError(t, err)
	mockMemberships.AssertExpectations(t)
}

func TestLeave_Owner_ReturnsError(t *testing.T) {
	service, _, mockMemberships, _, _ := setupCommunityService()
	ctx := context.Background()
	user := testUser()
	communityID, _ := uuid.NewV4()

	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, user.UserID).
		Return(activeMembership(communityID, user.UserID, models.RoleOwner), nil)

	err := service.Leave(ctx, communityID, user)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, communityErrors.ErrOwnerCannotLeave))
	mockMemberships.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestBanMember_NonModeratorActor_ReturnsError(t *testing.T) {
	service, _, mockMemberships, _, _ := setupCommunityService()
	ctx := context.Background()
	actor := testUser()
	communityID, _ := uuid.NewV4()
	targetID, _ := uuid.NewV4()

	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, actor.UserID).
		Return(activeMembership(communityID, actor.UserID, models.RoleMember), nil)

	err := service.BanMember(ctx, communityID, &models.BanMemberRequest{UserID: targetID}, actor)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, communityErrors.ErrPermissionDenied))
	mockMemberships.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBanMember_TargetIsOwner_ReturnsError(t *testing.T) {
	service, _, mockMemberships, _, _ := setupCommunityService()
	ctx := context.Background()
	actor := testUser()
	communityID, _ := uuid.NewV4()
	targetID, _ := uuid.NewV4()

	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, actor.UserID).
		Return(activeMembership(communityID, actor.UserID, models.RoleModerator), nil)
	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, targetID).
		Return(activeMembership(communityID, targetID, models.RoleOwner), nil)

	err := service.BanMember(ctx, communityID, &models.BanMemberRequest{UserID: targetID}, actor)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, communityErrors.ErrPermissionDenied))
}

func TestBanMember_Moderator_BansAndRecordsAudit(t *testing.T) {
	service, _, mockMemberships, _, mockAudit := setupCommunityService()
	ctx := context.Background()
	actor := testUser()
	communityID, _ := uuid.NewV4()
	targetID, _ := uuid.NewV4()

	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, actor.UserID).
		Return(activeMembership(communityID, actor.UserID, models.RoleModerator), nil)
	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, targetID).
		Return(activeMembership(communityID, targetID, models.RoleMember), nil)
	mockMemberships.On("UpdateStatus", ctx, communityID, targetID, models.StatusBanned).Return(nil)
	mockAudit.On("Record", ctx, mock.MatchedBy(func(entry *auditModels.AuditEntry) bool {
		return entry.Action == auditModels.ActionMemberBanned &&
			entry.TargetID == targetID &&
			entry.Detail == "spam"
	})).Return(nil)

	err := service.BanMember(ctx, communityID, &models.BanMemberRequest{UserID: targetID, Reason: "spam"}, actor)

	assert.NoError(t, err)
	mockMemberships.AssertExpectations(t)
	mockAudit.AssertExpectations(t)
}

func TestRemovePost_PostInOtherCommunity_ReturnsNotFound(t *testing.T) {
	service, _, mockMemberships, mockPosts, _ := setupCommunityService()
	ctx := context.Background()
	actor := testUser()
	communityID, _ := uuid.NewV4()
	otherCommunityID, _ := uuid.NewV4()
	postID, _ := uuid.NewV4()

	post := &postModels.Post{
		ID:          postID,
		CommunityID: otherCommunityID,
		Title:       "t",
		Body:        "b",
		CreatedAt:   time.Now().UTC(),
	}

	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, actor.UserID).
		Return(activeMembership(communityID, actor.UserID, models.RoleOwner), nil)
	mockPosts.On("FindByID", ctx, postID).Return(post, nil)

	err := service.RemovePost(ctx, communityID, postID, actor)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, communityErrors.ErrPostNotFound))
	mockPosts.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestRemovePost_Moderator_SoftDeletesAndRecordsAudit(t *testing.T) {
	service, _, mockMemberships, mockPosts, mockAudit := setupCommunityService()
	ctx := context.Background()
	actor := testUser()
	communityID, _ := uuid.NewV4()
	postID, _ := uuid.NewV4()

	post := &postModels.Post{
		ID:          postID,
		CommunityID: communityID,
		Title:       "t",
		Body:        "b",
		CreatedAt:   time.Now().UTC(),
	}

	mockMemberships.On("FindByCommunityAndUser", ctx, communityID, actor.UserID).
		Return(activeMembership(communityID, actor.UserID, models.RoleModerator), nil)
	mockPosts.On("FindByID", ctx, postID).Return(post, nil)
	mockPosts.On("SoftDelete", ctx, postID).Return(nil)
	mockAudit.On("Record", ctx, mock.MatchedBy(func(entry *auditModels.AuditEntry) bool {
		return entry.Action == auditModels.ActionPostRemoved && entry.TargetID == postID
	})).Return(nil)

	err := service.RemovePost(ctx, communityID, postID, actor)

	assert.NoError(t, err)
	mockPosts.AssertExpectations(t)
	mockAudit.AssertExpectations(t)
}
