package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	auditModels "github.com/openagora/agora/audit/models"
	"github.com/openagora/agora/communities/models"
	postModels "github.com/openagora/agora/posts/models"
	postsRepository "github.com/openagora/agora/posts/repository"
)

// MockCommunityRepository is a mock implementation of CommunityRepository for testing
type MockCommunityRepository struct {
	mock.Mock
}

func (m *MockCommunityRepository) Create(ctx context.Context, community *models.Community) error {
	args := m.Called(ctx, community)
	return args.Error(0)
}

func (m *MockCommunityRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *MockCommunityRepository) FindBySlug(ctx context.Context, slug string) (*models.Community, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *MockCommunityRepository) ExistsByNameOrSlug(ctx context.Context, name, slug string) (bool, error) {
	args := m.Called(ctx, name, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommunityRepository) List(ctx context.Context, limit, offset int) ([]*models.Community, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Community), args.Error(1)
}

func (m *MockCommunityRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommunityRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockMembershipRepository is a mock implementation of MembershipRepository for testing
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) FindByCommunityAndUser(ctx context.Context, communityID, userID uuid.UUID) (*models.Membership, error) {
	args := m.Called(ctx, communityID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *MockMembershipRepository) UpdateStatus(ctx context.Context, communityID, userID uuid.UUID, status string) error {
	args := m.Called(ctx, communityID, userID, status)
	return args.Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, communityID, userID uuid.UUID) error {
	args := m.Called(ctx, communityID, userID)
	return args.Error(0)
}

// MockPostRepository is a mock implementation of the posts repository used by
// moderation operations
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *postModels.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*postModels.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postModels.Post), args.Error(1)
}

func (m *MockPostRepository) Find(ctx context.Context, filter postsRepository.PostFilter, limit, offset int) ([]*postModels.Post, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*postModels.Post), args.Error(1)
}

func (m *MockPostRepository) Count(ctx context.Context, filter postsRepository.PostFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *postModels.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockAuditRecorder is a mock implementation of the audit recorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, entry *auditModels.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
