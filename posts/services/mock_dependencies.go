package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	auditModels "github.com/openagora/agora/audit/models"
	communityModels "github.com/openagora/agora/communities/models"
	voteModels "github.com/openagora/agora/votes/models"
	"github.com/stretchr/testify/mock"
)

// MockVoteRepository is a mock implementation of the vote repository used by
// the ranking path
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Create(ctx context.Context, vote *voteModels.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockVoteRepository) UpdateState(ctx context.Context, postID, userID uuid.UUID, voteState int) error {
	args := m.Called(ctx, postID, userID, voteState)
	return args.Error(0)
}

func (m *MockVoteRepository) Delete(ctx context.Context, postID, userID uuid.UUID) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *MockVoteRepository) FindByUserAndPost(ctx context.Context, userID, postID uuid.UUID) (*voteModels.Vote, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voteModels.Vote), args.Error(1)
}

func (m *MockVoteRepository) FindByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]*voteModels.Vote, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*voteModels.Vote), args.Error(1)
}

func (m *MockVoteRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockMembershipRepository is a mock implementation of the membership repository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *communityModels.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) FindByCommunityAndUser(ctx context.Context, communityID, userID uuid.UUID) (*communityModels.Membership, error) {
	args := m.Called(ctx, communityID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*communityModels.Membership), args.Error(1)
}

func (m *MockMembershipRepository) UpdateStatus(ctx context.Context, communityID, userID uuid.UUID, status string) error {
	args := m.Called(ctx, communityID, userID, status)
	return args.Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, communityID, userID uuid.UUID) error {
	args := m.Called(ctx, communityID, userID)
	return args.Error(0)
}

// MockAuditRecorder is a mock implementation of the audit recorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, entry *auditModels.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
