package repository

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildFilterPredicate_EmptyFilter_ExcludesDeletedOnly(t *testing.T) {
	predicate, args := buildFilterPredicate(PostFilter{}, 1)

	assert.Equal(t, " AND deleted_at IS NULL", predicate)
	assert.Empty(t, args)
}

func TestBuildFilterPredicate_AllFields_NumbersPlaceholdersSequentially(t *testing.T) {
	communityID, _ := uuid.NewV4()
	authorID, _ := uuid.NewV4()
	keyword := "golang"
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	filter := PostFilter{
		CommunityID: &communityID,
		AuthorIDs:   []uuid.UUID{authorID},
		Keyword:     &keyword,
		CreatedFrom: &from,
		CreatedTo:   &to,
	}

	predicate, args := buildFilterPredicate(filter, 1)

	assert.Contains(t, predicate, "deleted_at IS NULL")
	assert.Contains(t, predicate, "community_id = $1")
	assert.Contains(t, predicate, "owner_user_id = ANY($2::uuid[])")
	assert.Contains(t, predicate, "(title ILIKE $3 OR body ILIKE $3)")
	assert.Contains(t, predicate, "created_at >= $4")
	assert.Contains(t, predicate, "created_at <= $5")
	// The keyword placeholder is reused for title and body, so it binds once
	assert.Len(t, args, 5)
	assert.Equal(t, "%golang%", args[2])
}

func TestBuildFilterPredicate_EmptyKeywordPointer_AddsNoClause(t *testing.T) {
	keyword := ""
	predicate, args := buildFilterPredicate(PostFilter{Keyword: &keyword}, 1)

	assert.NotContains(t, predicate, "ILIKE")
	assert.Empty(t, args)
}

func TestBuildFindQuery_AppendsOrderingAndPagination(t *testing.T) {
	r := &postgresRepository{}
	keyword := "go"
	query, args := r.buildFindQuery(PostFilter{Keyword: &keyword}, 100, 20)

	assert.Contains(t, query, "ORDER BY created_at DESC, id DESC")
	assert.Contains(t, query, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []interface{}{"%go%", 100, 20}, args)
}
