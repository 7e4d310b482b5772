package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	uuid "github.com/gofrs/uuid"
	auditModels "github.com/openagora/agora/audit/models"
	auditServices "github.com/openagora/agora/audit/services"
	communityModels "github.com/openagora/agora/communities/models"
	communityRepository "github.com/openagora/agora/communities/repository"
	"github.com/openagora/agora/internal/pkg/log"
	"github.com/openagora/agora/internal/types"
	postsErrors "github.com/openagora/agora/posts/errors"
	"github.com/openagora/agora/posts/models"
	"github.com/openagora/agora/posts/repository"
	voteModels "github.com/openagora/agora/votes/models"
	votesRepository "github.com/openagora/agora/votes/repository"
)

// minCandidateWindow is the floor of the candidate window used by the top
// sort. The window is max(minCandidateWindow, limit*3) rows at the request's
// offset, so ranking happens within one chronological page-window rather
// than over the full match set.
const minCandidateWindow = 100

// postService implements the PostService interface
type postService struct {
	repo           repository.PostRepository
	voteRepo       votesRepository.VoteRepository
	membershipRepo communityRepository.MembershipRepository
	auditRecorder  auditServices.Recorder
}

// NewPostService creates a new instance of the post service
func NewPostService(repo repository.PostRepository, voteRepo votesRepository.VoteRepository, membershipRepo communityRepository.MembershipRepository, auditRecorder auditServices.Recorder) PostService {
	return &postService{
		repo:           repo,
		voteRepo:       voteRepo,
		membershipRepo: membershipRepo,
		auditRecorder:  auditRecorder,
	}
}

// SearchPosts runs the filtered, ranked, paginated search
func (s *postService) SearchPosts(ctx context.Context, req *models.SearchPostsRequest) (*models.SearchPostsResponse, error) {
	page := types.NormalizePage(req.Page)
	limit := types.NormalizeLimit(req.Limit)
	offset := (page - 1) * limit

	filter, err := buildPostFilter(req)
	if err != nil {
		return nil, err
	}

	sortMode := req.Sort
	if sortMode == "" {
		sortMode = models.SortNewest
	}

	var posts []*models.Post
	switch sortMode {
	case models.SortTop:
		posts, err = s.findTopRanked(ctx, filter, limit, offset)
	case models.SortNewest:
		posts, err = s.repo.Find(ctx, filter, limit, offset)
	default:
		return nil, fmt.Errorf("%w: unknown sort mode %q", postsErrors.ErrValidationFailed, sortMode)
	}
	if err != nil {
		return nil, err
	}

	// Total count of all matching rows, independent of the ranking window
	records, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]models.PostSummary, len(posts))
	for i, post := range posts {
		data[i] = post.ToSummary()
	}

	return &models.SearchPostsResponse{
		Pagination: types.NewPagination(page, limit, records),
		Data:       data,
	}, nil
}

// findTopRanked materializes a chronological candidate window, scores it
// from vote rows, and returns the best `limit` posts.
func (s *postService) findTopRanked(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]*models.Post, error) {
	window := limit * 3
	if window < minCandidateWindow {
		window = minCandidateWindow
	}

	candidates, err := s.repo.Find(ctx, filter, window, offset)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	ids := make([]uuid.UUID, len(candidates))
	for i, post := range candidates {
		ids[i] = post.ID
	}

	votes, err := s.voteRepo.FindByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// score(post) = upvotes - downvotes; posts without votes stay at 0
	scores := make(map[uuid.UUID]int, len(candidates))
	for _, vote := range votes {
		scores[vote.PostID] += voteModels.GetScoreValue(vote.VoteState)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := scores[candidates[i].ID], scores[candidates[j].ID]
		if si != sj {
			return si > sj
		}
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
		}
		return candidates[i].ID.String() > candidates[j].ID.String()
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// buildPostFilter converts validated request inputs into the repository
// filter. Absent inputs add no predicate.
func buildPostFilter(req *models.SearchPostsRequest) (repository.PostFilter, error) {
	var filter repository.PostFilter

	if req.Community != "" {
		communityID, err := uuid.FromString(req.Community)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid community id", postsErrors.ErrValidationFailed)
		}
		filter.CommunityID = &communityID
	}

	if len(req.Authors) > 0 {
		authorIDs := make([]uuid.UUID, 0, len(req.Authors))
		for _, author := range req.Authors {
			authorID, err := uuid.FromString(author)
			if err != nil {
				return filter, fmt.Errorf("%w: invalid author id", postsErrors.ErrValidationFailed)
			}
			authorIDs = append(authorIDs, authorID)
		}
		filter.AuthorIDs = authorIDs
	}

	if req.Keyword != "" {
		keyword := req.Keyword
		filter.Keyword = &keyword
	}

	if req.CreatedFrom > 0 {
		from := time.Unix(req.CreatedFrom, 0).UTC()
		filter.CreatedFrom = &from
	}

	if req.CreatedTo > 0 {
		to := time.Unix(req.CreatedTo, 0).UTC()
		filter.CreatedTo = &to
	}

	return filter, nil
}

// CreatePost creates a post for an active community member
func (s *postService) CreatePost(ctx context.Context, req *models.CreatePostRequest, user *types.UserContext) (*models.Post, error) {
	membership, err := s.membershipRepo.FindByCommunityAndUser(ctx, req.CommunityID, user.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, postsErrors.ErrNotCommunityMember
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if membership.Status != communityModels.StatusActive {
		return nil, postsErrors.ErrNotCommunityMember
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate post id: %w", err)
	}

	displayName := user.DisplayName
	post := &models.Post{
		ID:          id,
		CommunityID: req.CommunityID,
		OwnerUserID: user.UserID,
		Title:       req.Title,
		Body:        req.Body,
	}
	if displayName != "" {
		post.OwnerDisplayName = &displayName
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// GetPost retrieves a single non-deleted post
func (s *postService) GetPost(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, postsErrors.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// UpdatePost updates title/body; owner only
func (s *postService) UpdatePost(ctx context.Context, postID uuid.UUID, req *models.UpdatePostRequest, user *types.UserContext) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.OwnerUserID != user.UserID {
		return postsErrors.ErrPostOwnershipRequired
	}

	post.Title = req.Title
	post.Body = req.Body

	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return postsErrors.ErrPostNotFound
		}
		return err
	}
	return nil
}

// DeletePost soft-deletes a post for its owner or a community moderator
func (s *postService) DeletePost(ctx context.Context, postID uuid.UUID, user *types.UserContext) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.OwnerUserID == user.UserID {
		return s.softDelete(ctx, post.ID)
	}

	membership, err := s.membershipRepo.FindByCommunityAndUser(ctx, post.CommunityID, user.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return postsErrors.ErrPermissionDenied
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !membership.CanModerate() {
		return postsErrors.ErrPermissionDenied
	}

	if err := s.softDelete(ctx, post.ID); err != nil {
		return err
	}

	communityID := post.CommunityID
	if err := s.auditRecorder.Record(ctx, &auditModels.AuditEntry{
		ActorUserID: user.UserID,
		Action:      auditModels.ActionPostRemoved,
		TargetType:  auditModels.TargetPost,
		TargetID:    post.ID,
		CommunityID: &communityID,
		Detail:      fmt.Sprintf("post %q removed by moderator", post.Title),
	}); err != nil {
		log.Error("failed to record moderation audit entry for post %s: %v", post.ID.String(), err)
	}

	return nil
}

func (s *postService) softDelete(ctx context.Context, postID uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return postsErrors.ErrPostNotFound
		}
		return err
	}
	return nil
}
