package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	uuid "github.com/gofrs/uuid"
	auditModels "github.com/openagora/agora/audit/models"
	auditServices "github.com/openagora/agora/audit/services"
	communityErrors "github.com/openagora/agora/communities/errors"
	"github.com/openagora/agora/communities/models"
	"github.com/openagora/agora/communities/repository"
	"github.com/openagora/agora/internal/pkg/log"
	"github.com/openagora/agora/internal/types"
	postsRepository "github.com/openagora/agora/posts/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CommunitiesListResponse is the paginated community listing envelope
type CommunitiesListResponse struct {
	Pagination types.Pagination    `json:"pagination"`
	Data       []*models.Community `json:"data"`
}

// CommunityService defines the interface for community operations
type CommunityService interface {
	CreateCommunity(ctx context.Context, req *models.CreateCommunityRequest, user *types.UserContext) (*models.Community, error)
	GetBySlug(ctx context.Context, slug string) (*models.Community, error)
	ListCommunities(ctx context.Context, page, limit int) (*CommunitiesListResponse, error)
	Join(ctx context.Context, communityID uuid.UUID, user *types.UserContext) error
	Leave(ctx context.Context, communityID uuid.UUID, user *types.UserContext) error
	BanMember(ctx context.Context, communityID uuid.UUID, req *models.BanMemberRequest, actor *types.UserContext) error
	RemovePost(ctx context.Context, communityID, postID uuid.UUID, actor *types.UserContext) error
}

// communityService implements the CommunityService interface
type communityService struct {
	repo           repository.CommunityRepository
	membershipRepo repository.MembershipRepository
	postRepo       postsRepository.PostRepository
	auditRecorder  auditServices.Recorder
}

// NewCommunityService creates a new instance of the community service
func NewCommunityService(repo repository.CommunityRepository, membershipRepo repository.MembershipRepository, postRepo postsRepository.PostRepository, auditRecorder auditServices.Recorder) CommunityService {
	return &communityService{
		repo:           repo,
		membershipRepo: membershipRepo,
		postRepo:       postRepo,
		auditRecorder:  auditRecorder,
	}
}

// CreateCommunity creates a community; the creator becomes its owner member.
// Community row and owner membership are written in one transaction.
func (s *communityService) CreateCommunity(ctx context.Context, req *models.CreateCommunityRequest, user *types.UserContext) (*models.Community, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, fmt.Errorf("slug must be lowercase alphanumeric with dashes")
	}

	exists, err := s.repo.ExistsByNameOrSlug(ctx, req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, communityErrors.ErrCommunityExists
	}

	communityID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate community id: %w", err)
	}
	membershipID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate membership id: %w", err)
	}

	community := &models.Community{
		ID:          communityID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		OwnerUserID: user.UserID,
	}

	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, community); err != nil {
			return err
		}
		return s.membershipRepo.Create(txCtx, &models.Membership{
			ID:          membershipID,
			CommunityID: communityID,
			UserID:      user.UserID,
			Role:        models.RoleOwner,
			Status:      models.StatusActive,
		})
	})
	if err != nil {
		return nil, err
	}

	return community, nil
}

// GetBySlug retrieves a community by its slug
func (s *communityService) GetBySlug(ctx context.Context, slug string) (*models.Community, error) {
	community, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, communityErrors.ErrCommunityNotFound
		}
		return nil, err
	}
	return community, nil
}

// ListCommunities returns a paginated community listing
func (s *communityService) ListCommunities(ctx context.Context, page, limit int) (*CommunitiesListResponse, error) {
	page = types.NormalizePage(page)
	limit = types.NormalizeLimit(limit)
	offset := (page - 1) * limit

	communities, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &CommunitiesListResponse{
		Pagination: types.NewPagination(page, limit, records),
		Data:       communities,
	}, nil
}

// Join adds the user as an active member of the community
func (s *communityService) Join(ctx context.Context, communityID uuid.UUID, user *types.UserContext) error {
	if _, err := s.repo.FindByID(ctx, communityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return communityErrors.ErrCommunityNotFound
		}
		return err
	}

	existing, err := s.membershipRepo.FindByCommunityAndUser(ctx, communityID, user.UserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		if existing.Status == models.StatusBanned {
			return communityErrors.ErrMemberBanned
		}
		return communityErrors.ErrAlreadyMember
	}

	membershipID, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("failed to generate membership id: %w", err)
	}

	return s.membershipRepo.Create(ctx, &models.Membership{
		ID:          membershipID,
		CommunityID: communityID,
		UserID:      user.UserID,
		Role:        models.RoleMember,
		Status:      models.StatusActive,
	})
}

// Leave removes the user's membership. The owner cannot leave.
func (s *communityService) Leave(ctx context.Context, communityID uuid.UUID, user *types.UserContext) error {
	membership, err := s.membershipRepo.FindByCommunityAndUser(ctx, communityID, user.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return communityErrors.ErrMembershipNotFound
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}

	if membership.Role == models.RoleOwner {
		return communityErrors.ErrOwnerCannotLeave
	}

	if err := s.membershipRepo.Delete(ctx, communityID, user.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return communityErrors.ErrMembershipNotFound
		}
		return err
	}
	return nil
}

// BanMember sets a member's status to banned and records an audit entry.
// Only an active moderator or the owner of the community may ban.
func (s *communityService) BanMember(ctx context.Context, communityID uuid.UUID, req *models.BanMemberRequest, actor *types.UserContext) error {
	if err := s.requireModerator(ctx, communityID, actor.UserID); err != nil {
		return err
	}

	target, err := s.membershipRepo.FindByCommunityAndUser(ctx, communityID, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return communityErrors.ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find target membership: %w", err)
	}

	if target.Role == models.RoleOwner {
		return communityErrors.ErrPermissionDenied
	}

	if err := s.membershipRepo.UpdateStatus(ctx, communityID, req.UserID, models.StatusBanned); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return communityErrors.ErrMembershipNotFound
		}
		return err
	}

	cid := communityID
	if err := s.auditRecorder.Record(ctx, &auditModels.AuditEntry{
		ActorUserID: actor.UserID,
		Action:      auditModels.ActionMemberBanned,
		TargetType:  auditModels.TargetMember,
		TargetID:    req.UserID,
		CommunityID: &cid,
		Detail:      req.Reason,
	}); err != nil {
		log.Error("failed to record ban audit entry for user %s: %v", req.UserID.String(), err)
	}

	return nil
}

// RemovePost soft-deletes a post in the moderator's community and records
// an audit entry
func (s *communityService) RemovePost(ctx context.Context, communityID, postID uuid.UUID, actor *types.UserContext) error {
	if err := s.requireModerator(ctx, communityID, actor.UserID); err != nil {
		return err
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return communityErrors.ErrPostNotFound
		}
		return fmt.Errorf("failed to find post: %w", err)
	}
	if post.CommunityID != communityID {
		return communityErrors.ErrPostNotFound
	}

	if err := s.postRepo.SoftDelete(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return communityErrors.ErrPostNotFound
		}
		return err
	}

	cid := communityID
	if err := s.auditRecorder.Record(ctx, &auditModels.AuditEntry{
		ActorUserID: actor.UserID,
		Action:      auditModels.ActionPostRemoved,
		TargetType:  auditModels.TargetPost,
		TargetID:    postID,
		CommunityID: &cid,
		Detail:      fmt.Sprintf("post %q removed by moderator", post.Title),
	}); err != nil {
		log.Error("failed to record moderation audit entry for post %s: %v", postID.String(), err)
	}

	return nil
}

// requireModerator loads the actor's membership row and requires an active
// moderator or owner role
func (s *communityService) requireModerator(ctx context.Context, communityID, userID uuid.UUID) error {
	membership, err := s.membershipRepo.FindByCommunityAndUser(ctx, communityID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return communityErrors.ErrPermissionDenied
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !membership.CanModerate() {
		return communityErrors.ErrPermissionDenied
	}
	return nil
}
