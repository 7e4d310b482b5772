package services

import (
	"context"
	"errors"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/openagora/agora/audit/models"
	"github.com/openagora/agora/audit/repository"
)

// MockAuditRepository is a mock implementation of AuditRepository for testing
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) Find(ctx context.Context, filter repository.AuditFilter, limit, offset int) ([]*models.AuditEntry, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditEntry), args.Error(1)
}

func (m *MockAuditRepository) Count(ctx context.Context, filter repository.AuditFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestRecord_FillsIDAndTimestamp(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)
	ctx := context.Background()
	actorID, _ := uuid.NewV4()
	targetID, _ := uuid.NewV4()

	mockRepo.On("Append", ctx, mock.MatchedBy(func(entry *models.AuditEntry) bool {
		return entry.ID != uuid.Nil && !entry.CreatedAt.IsZero()
	})).Return(nil)

	err := service.Record(ctx, &models.AuditEntry{
		ActorUserID: actorID,
		Action:      models.ActionMemberBanned,
		TargetType:  models.TargetMember,
		TargetID:    targetID,
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRecord_AppendFailure_Propagates(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Append", ctx, mock.Anything).Return(errors.New("disk full"))

	err := service.Record(ctx, &models.AuditEntry{Action: models.ActionSignup})

	assert.Error(t, err)
}

func TestListEntries_ParsesFilterAndPaginates(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)
	ctx := context.Background()
	actorID, _ := uuid.NewV4()

	mockRepo.On("Find", ctx, mock.MatchedBy(func(f repository.AuditFilter) bool {
		return f.ActorUserID != nil && *f.ActorUserID == actorID &&
			f.Action != nil && *f.Action == models.ActionLoginSuccess
	}), 20, 0).Return([]*models.AuditEntry{}, nil)
	mockRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

	result, err := service.ListEntries(ctx, &models.ListAuditRequest{
		Actor:  actorID.String(),
		Action: models.ActionLoginSuccess,
	})

	assert.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, int64(0), result.Pagination.Pages)
	mockRepo.AssertExpectations(t)
}

func TestListEntries_InvalidActor_ReturnsError(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	service := NewAuditService(mockRepo)

	result, err := service.ListEntries(context.Background(), &models.ListAuditRequest{Actor: "nope"})

	assert.Error(t, err)
	assert.Nil(t, result)
}
