package models

import (
	"github.com/openagora/agora/internal/types"
)

// Sort modes accepted by the search endpoint
const (
	SortNewest = "newest"
	SortTop    = "top"
)

// SearchPostsRequest carries the raw query-string inputs of a search call.
// All fields are optional; decoding happens via gorilla/schema.
type SearchPostsRequest struct {
	Community   string   `schema:"community"`
	Authors     []string `schema:"authors"`
	Keyword     string   `schema:"keyword"`
	CreatedFrom int64    `schema:"createdFrom"`
	CreatedTo   int64    `schema:"createdTo"`
	Sort        string   `schema:"sort"`
	Page        int      `schema:"page"`
	Limit       int      `schema:"limit"`
}

// SearchPostsResponse is the paginated search envelope
type SearchPostsResponse struct {
	Pagination types.Pagination `json:"pagination"`
	Data       []PostSummary    `json:"data"`
}
