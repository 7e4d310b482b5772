package validation

import (
	"strings"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/openagora/agora/posts/models"
)

func TestValidateSearchPostsRequest_EmptyRequest_IsValid(t *testing.T) {
	err := ValidateSearchPostsRequest(&models.SearchPostsRequest{})
	assert.NoError(t, err)
}

func TestValidateSearchPostsRequest_SingleCharKeyword_ReturnsError(t *testing.T) {
	err := ValidateSearchPostsRequest(&models.SearchPostsRequest{Keyword: "a"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 characters")
}

func TestValidateSearchPostsRequest_TwoCharKeyword_IsValid(t *testing.T) {
	err := ValidateSearchPostsRequest(&models.SearchPostsRequest{Keyword: "go"})
	assert.NoError(t, err)
}

func TestValidateSearchPostsRequest_AbsentKeyword_IsValid(t *testing.T) {
	// An absent keyword means no keyword filter, not an empty one
	err := ValidateSearchPostsRequest(&models.SearchPostsRequest{Sort: models.SortTop})
	assert.NoError(t, err)
}

func TestValidateSearchPostsRequest_SortModes(t *testing.T) {
	assert.NoError(t, ValidateSearchPostsRequest(&models.SearchPostsRequest{Sort: models.SortNewest}))
	assert.NoError(t, ValidateSearchPostsRequest(&models.SearchPostsRequest{Sort: models.SortTop}))
	assert.Error(t, ValidateSearchPostsRequest(&models.SearchPostsRequest{Sort: "hot"}))
}

func TestValidateSearchPostsRequest_InvalidCommunity_ReturnsError(t *testing.T) {
	err := ValidateSearchPostsRequest(&models.SearchPostsRequest{Community: "not-a-uuid"})
	assert.Error(t, err)
}

func TestValidateSearchPostsRequest_InvalidAuthor_ReturnsError(t *testing.T) {
	valid, _ := uuid.NewV4()
	err := ValidateSearchPostsRequest(&models.SearchPostsRequest{
		Authors: []string{valid.String(), "nope"},
	})
	assert.Error(t, err)
}

func TestValidateSearchPostsRequest_CreatedRangeInverted_ReturnsError(t *testing.T) {
	err := ValidateSearchPostsRequest(&models.SearchPostsRequest{
		CreatedFrom: 2000,
		CreatedTo:   1000,
	})
	assert.Error(t, err)
}

func TestValidateCreatePostRequest_MissingFields_ReturnsError(t *testing.T) {
	communityID, _ := uuid.NewV4()

	assert.Error(t, ValidateCreatePostRequest(nil))
	assert.Error(t, ValidateCreatePostRequest(&models.CreatePostRequest{Title: "t", Body: "b"}))
	assert.Error(t, ValidateCreatePostRequest(&models.CreatePostRequest{CommunityID: communityID, Body: "b"}))
	assert.Error(t, ValidateCreatePostRequest(&models.CreatePostRequest{CommunityID: communityID, Title: "t"}))
}

func TestValidateCreatePostRequest_TitleTooLong_ReturnsError(t *testing.T) {
	communityID, _ := uuid.NewV4()
	err := ValidateCreatePostRequest(&models.CreatePostRequest{
		CommunityID: communityID,
		Title:       strings.Repeat("x", 301),
		Body:        "b",
	})
	assert.Error(t, err)
}

func TestValidateUpdatePostRequest_WhitespaceOnly_ReturnsError(t *testing.T) {
	assert.Error(t, ValidateUpdatePostRequest(&models.UpdatePostRequest{Title: "   ", Body: "b"}))
	assert.Error(t, ValidateUpdatePostRequest(&models.UpdatePostRequest{Title: "t", Body: "\t\n"}))
	assert.NoError(t, ValidateUpdatePostRequest(&models.UpdatePostRequest{Title: "t", Body: "b"}))
}
