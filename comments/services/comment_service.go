package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	uuid "github.com/gofrs/uuid"
	auditModels "github.com/openagora/agora/audit/models"
	auditServices "github.com/openagora/agora/audit/services"
	commentsErrors "github.com/openagora/agora/comments/errors"
	"github.com/openagora/agora/comments/models"
	commentRepository "github.com/openagora/agora/comments/repository"
	communityRepository "github.com/openagora/agora/communities/repository"
	"github.com/openagora/agora/internal/pkg/log"
	"github.com/openagora/agora/internal/types"
	postsRepository "github.com/openagora/agora/posts/repository"
)

// CommentService defines the interface for comment operations
type CommentService interface {
	CreateComment(ctx context.Context, req *models.CreateCommentRequest, user *types.UserContext) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID, page, limit int) (*models.CommentsListResponse, error)
	UpdateComment(ctx context.Context, commentID uuid.UUID, req *models.UpdateCommentRequest, user *types.UserContext) error
	DeleteComment(ctx context.Context, commentID uuid.UUID, user *types.UserContext) error
}

// commentService implements the CommentService interface
type commentService struct {
	repo           commentRepository.CommentRepository
	postRepo       postsRepository.PostRepository
	membershipRepo communityRepository.MembershipRepository
	auditRecorder  auditServices.Recorder
}

// NewCommentService creates a new instance of the comment service
func NewCommentService(repo commentRepository.CommentRepository, postRepo postsRepository.PostRepository, membershipRepo communityRepository.MembershipRepository, auditRecorder auditServices.Recorder) CommentService {
	return &commentService{
		repo:           repo,
		postRepo:       postRepo,
		membershipRepo: membershipRepo,
		auditRecorder:  auditRecorder,
	}
}

// CreateComment creates a comment on an existing post
func (s *commentService) CreateComment(ctx context.Context, req *models.CreateCommentRequest, user *types.UserContext) (*models.Comment, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("body is required")
	}

	if _, err := s.postRepo.FindByID(ctx, req.PostID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commentsErrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate comment id: %w", err)
	}

	comment := &models.Comment{
		ID:          id,
		PostID:      req.PostID,
		OwnerUserID: user.UserID,
		Body:        req.Body,
	}
	if user.DisplayName != "" {
		displayName := user.DisplayName
		comment.OwnerDisplayName = &displayName
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListByPost retrieves comments for a post, newest first
func (s *commentService) ListByPost(ctx context.Context, postID uuid.UUID, page, limit int) (*models.CommentsListResponse, error) {
	page = types.NormalizePage(page)
	limit = types.NormalizeLimit(limit)
	offset := (page - 1) * limit

	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commentsErrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	comments, err := s.repo.FindByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &models.CommentsListResponse{
		Pagination: types.NewPagination(page, limit, records),
		Data:       comments,
	}, nil
}

// UpdateComment updates a comment's body; owner only
func (s *commentService) UpdateComment(ctx context.Context, commentID uuid.UUID, req *models.UpdateCommentRequest, user *types.UserContext) error {
	if strings.TrimSpace(req.Body) == "" {
		return fmt.Errorf("body is required")
	}

	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.OwnerUserID != user.UserID {
		return commentsErrors.ErrCommentOwnershipRequired
	}

	comment.Body = req.Body
	if err := s.repo.Update(ctx, comment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return commentsErrors.ErrCommentNotFound
		}
		return err
	}
	return nil
}

// DeleteComment soft-deletes a comment for its owner or a community moderator
func (s *commentService) DeleteComment(ctx context.Context, commentID uuid.UUID, user *types.UserContext) error {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.OwnerUserID == user.UserID {
		return s.softDelete(ctx, comment.ID)
	}

	post, err := s.postRepo.FindByID(ctx, comment.PostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return commentsErrors.ErrPostNotFound
		}
		return fmt.Errorf("failed to find post: %w", err)
	}

	membership, err := s.membershipRepo.FindByCommunityAndUser(ctx, post.CommunityID, user.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return commentsErrors.ErrPermissionDenied
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !membership.CanModerate() {
		return commentsErrors.ErrPermissionDenied
	}

	if err := s.softDelete(ctx, comment.ID); err != nil {
		return err
	}

	communityID := post.CommunityID
	if err := s.auditRecorder.Record(ctx, &auditModels.AuditEntry{
		ActorUserID: user.UserID,
		Action:      auditModels.ActionCommentRemoved,
		TargetType:  auditModels.TargetComment,
		TargetID:    comment.ID,
		CommunityID: &communityID,
		Detail:      "comment removed by moderator",
	}); err != nil {
		log.Error("failed to record moderation audit entry for comment %s: %v", comment.ID.String(), err)
	}

	return nil
}

func (s *commentService) findComment(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commentsErrors.ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) softDelete(ctx context.Context, commentID uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return commentsErrors.ErrCommentNotFound
		}
		return err
	}
	return nil
}
