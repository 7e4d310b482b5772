package validation

import (
	"fmt"
	"strings"

	uuid "github.com/gofrs/uuid"
	"github.com/openagora/agora/posts/models"
)

// ValidateCreatePostRequest validates the create post request
func ValidateCreatePostRequest(req *models.CreatePostRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}

	if req.CommunityID == uuid.Nil {
		return fmt.Errorf("communityId is required")
	}

	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("title is required")
	}

	if len(req.Title) > 300 {
		return fmt.Errorf("title must be less than 300 characters")
	}

	if req.Body == "" {
		return fmt.Errorf("body is required")
	}

	if len(req.Body) > 10000 {
		return fmt.Errorf("body must be less than 10000 characters")
	}

	return nil
}

// ValidateUpdatePostRequest validates update post request
func ValidateUpdatePostRequest(req *models.UpdatePostRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}

	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("title cannot be empty or whitespace only")
	}

	if len(req.Title) > 300 {
		return fmt.Errorf("title must be less than 300 characters")
	}

	if strings.TrimSpace(req.Body) == "" {
		return fmt.Errorf("body cannot be empty or whitespace only")
	}

	if len(req.Body) > 10000 {
		return fmt.Errorf("body cannot exceed 10000 characters")
	}

	return nil
}

// ValidateSearchPostsRequest validates search query inputs before any
// storage access. A non-empty keyword must be at least 2 characters; an
// absent keyword means no keyword filter at all.
func ValidateSearchPostsRequest(req *models.SearchPostsRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}

	if req.Keyword != "" && len(req.Keyword) < 2 {
		return fmt.Errorf("keyword must be at least 2 characters")
	}

	if req.Sort != "" && req.Sort != models.SortNewest && req.Sort != models.SortTop {
		return fmt.Errorf("sort must be one of: %s, %s", models.SortNewest, models.SortTop)
	}

	if req.Community != "" {
		if _, err := uuid.FromString(req.Community); err != nil {
			return fmt.Errorf("community must be a valid UUID")
		}
	}

	for _, author := range req.Authors {
		if _, err := uuid.FromString(author); err != nil {
			return fmt.Errorf("authors must be valid UUIDs")
		}
	}

	if req.CreatedFrom < 0 || req.CreatedTo < 0 {
		return fmt.Errorf("createdFrom and createdTo must be unix timestamps")
	}

	if req.CreatedFrom > 0 && req.CreatedTo > 0 && req.CreatedFrom > req.CreatedTo {
		return fmt.Errorf("createdFrom cannot be after createdTo")
	}

	return nil
}
