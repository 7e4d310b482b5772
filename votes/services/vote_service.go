package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	uuid "github.com/gofrs/uuid"
	postsRepository "github.com/openagora/agora/posts/repository"
	votesErrors "github.com/openagora/agora/votes/errors"
	"github.com/openagora/agora/votes/models"
	voteRepository "github.com/openagora/agora/votes/repository"
)

// VoteService defines the interface for vote operations
type VoteService interface {
	// Vote creates, switches, or removes a vote on a post. All transitions
	// run inside a single transaction.
	Vote(ctx context.Context, postID, userID uuid.UUID, voteState int) (*models.CastVoteResult, error)
}

// voteService implements the VoteService interface
type voteService struct {
	voteRepo voteRepository.VoteRepository
	postRepo postsRepository.PostRepository
}

// NewVoteService creates a new instance of the vote service
func NewVoteService(voteRepo voteRepository.VoteRepository, postRepo postsRepository.PostRepository) VoteService {
	return &voteService{
		voteRepo: voteRepo,
		postRepo: postRepo,
	}
}

// Vote applies one vote transition:
// - no existing vote: insert
// - same state: toggle off (delete)
// - different state: switch
func (s *voteService) Vote(ctx context.Context, postID, userID uuid.UUID, voteState int) (*models.CastVoteResult, error) {
	if !models.IsValidVoteState(voteState) {
		return nil, fmt.Errorf("%w: %d (must be 1=Up or 2=Down)", votesErrors.ErrInvalidVoteState, voteState)
	}

	// The post must exist and not be soft-deleted
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, votesErrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	var result *models.CastVoteResult

	err := s.voteRepo.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.voteRepo.FindByUserAndPost(txCtx, userID, postID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				existing = nil
			} else {
				return fmt.Errorf("failed to find existing vote: %w", err)
			}
		}

		switch {
		case existing == nil:
			voteID, err := uuid.NewV4()
			if err != nil {
				return fmt.Errorf("failed to generate vote ID: %w", err)
			}

			newVote := &models.Vote{
				ID:          voteID,
				PostID:      postID,
				OwnerUserID: userID,
				VoteState:   voteState,
			}
			if err := s.voteRepo.Create(txCtx, newVote); err != nil {
				return fmt.Errorf("failed to create vote: %w", err)
			}
			result = &models.CastVoteResult{Action: models.VoteActionCreated, VoteState: voteState}

		case existing.VoteState == voteState:
			// Toggle off
			if err := s.voteRepo.Delete(txCtx, postID, userID); err != nil {
				return fmt.Errorf("failed to delete vote: %w", err)
			}
			result = &models.CastVoteResult{Action: models.VoteActionRemoved}

		default:
			// Switch
			if err := s.voteRepo.UpdateState(txCtx, postID, userID, voteState); err != nil {
				return fmt.Errorf("failed to update vote: %w", err)
			}
			result = &models.CastVoteResult{Action: models.VoteActionSwitched, VoteState: voteState}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
