package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/openagora/agora/internal/database/postgres"
	"github.com/openagora/agora/posts/models"
)

const postColumns = `id, community_id, owner_user_id, owner_display_name, title, body, created_at, updated_at, deleted_at`

// postgresRepository implements PostRepository using raw SQL queries
type postgresRepository struct {
	client *postgres.Client
}

// NewPostgresRepository creates a new PostgreSQL repository for posts
func NewPostgresRepository(client *postgres.Client) PostRepository {
	return &postgresRepository{client: client}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

// Create inserts a new post
func (r *postgresRepository) Create(ctx context.Context, post *models.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}

	query := `
		INSERT INTO posts (
			id, community_id, owner_user_id, owner_display_name,
			title, body, created_at, updated_at
		) VALUES (
			:id, :community_id, :owner_user_id, :owner_display_name,
			:title, :body, :created_at, :updated_at
		)`

	executor := r.getExecutor(ctx)
	_, err := sqlx.NamedExecContext(ctx, executor, query, post)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// FindByID retrieves a post by its ID
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1 AND deleted_at IS NULL`

	var post models.Post
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &post, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	return &post, nil
}

// Find retrieves posts matching the filter criteria with pagination
func (r *postgresRepository) Find(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, error) {
	query, args := r.buildFindQuery(filter, limit, offset)

	var posts []models.Post
	err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &posts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}

	result := make([]*models.Post, len(posts))
	for i := range posts {
		result[i] = &posts[i]
	}
	return result, nil
}

// Count returns the number of posts matching the filter criteria
func (r *postgresRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	query := "SELECT COUNT(*) FROM posts WHERE 1=1"
	predicate, args := buildFilterPredicate(filter, 1)
	query += predicate

	var count int64
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}

	return count, nil
}

// Update updates the title and body of an existing post
func (r *postgresRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE posts SET
			title = :title,
			body = :body,
			updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL`

	result, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, post)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// SoftDelete marks a post deleted by setting deleted_at
func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE posts
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// buildFindQuery constructs the candidate query. Ordering is fixed to
// created_at DESC, id DESC; ranking by score happens in the service layer.
func (r *postgresRepository) buildFindQuery(filter PostFilter, limit, offset int) (string, []interface{}) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE 1=1`

	predicate, args := buildFilterPredicate(filter, 1)
	query += predicate
	argIndex := len(args) + 1

	query += " ORDER BY created_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	return query, args
}

// buildFilterPredicate appends one AND clause per present filter field.
// Soft-deleted rows are excluded unconditionally.
func buildFilterPredicate(filter PostFilter, argIndex int) (string, []interface{}) {
	predicate := " AND deleted_at IS NULL"
	var args []interface{}

	if filter.CommunityID != nil {
		predicate += fmt.Sprintf(" AND community_id = $%d", argIndex)
		args = append(args, *filter.CommunityID)
		argIndex++
	}

	if len(filter.AuthorIDs) > 0 {
		ids := make([]string, len(filter.AuthorIDs))
		for i, id := range filter.AuthorIDs {
			ids[i] = id.String()
		}
		predicate += fmt.Sprintf(" AND owner_user_id = ANY($%d::uuid[])", argIndex)
		args = append(args, pq.Array(ids))
		argIndex++
	}

	if filter.Keyword != nil && *filter.Keyword != "" {
		searchPattern := "%" + *filter.Keyword + "%"
		predicate += fmt.Sprintf(" AND (title ILIKE $%d OR body ILIKE $%d)", argIndex, argIndex)
		args = append(args, searchPattern)
		argIndex++
	}

	if filter.CreatedFrom != nil {
		predicate += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filter.CreatedFrom)
		argIndex++
	}

	if filter.CreatedTo != nil {
		predicate += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *filter.CreatedTo)
		argIndex++
	}

	return predicate, args
}

// WithTransaction executes a function within a database transaction
func (r *postgresRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	tx, err := r.client.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Inject transaction into context using shared key
	txCtx := context.WithValue(ctx, "tx", tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
