package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/openagora/agora/communities/models"
	"github.com/openagora/agora/internal/database/postgres"
)

const communityColumns = `id, name, slug, description, owner_user_id, created_at, deleted_at`

// postgresCommunityRepository implements CommunityRepository using raw SQL queries
type postgresCommunityRepository struct {
	client *postgres.Client
}

// NewPostgresCommunityRepository creates a new PostgreSQL repository for communities
func NewPostgresCommunityRepository(client *postgres.Client) CommunityRepository {
	return &postgresCommunityRepository{client: client}
}

func (r *postgresCommunityRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

// Create inserts a new community
func (r *postgresCommunityRepository) Create(ctx context.Context, community *models.Community) error {
	if community.CreatedAt.IsZero() {
		community.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO communities (id, name, slug, description, owner_user_id, created_at)
		VALUES (:id, :name, :slug, :description, :owner_user_id, :created_at)`

	_, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, community)
	if err != nil {
		return fmt.Errorf("failed to create community: %w", err)
	}
	return nil
}

// FindByID retrieves a community by its ID
func (r *postgresCommunityRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	query := `
		SELECT ` + communityColumns + `
		FROM communities
		WHERE id = $1 AND deleted_at IS NULL`

	var community models.Community
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &community, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	return &community, nil
}

// FindBySlug retrieves a community by its slug
func (r *postgresCommunityRepository) FindBySlug(ctx context.Context, slug string) (*models.Community, error) {
	query := `
		SELECT ` + communityColumns + `
		FROM communities
		WHERE slug = $1 AND deleted_at IS NULL`

	var community models.Community
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &community, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to find community by slug: %w", err)
	}

	return &community, nil
}

// ExistsByNameOrSlug reports whether a community with the given name or slug exists
func (r *postgresCommunityRepository) ExistsByNameOrSlug(ctx context.Context, name, slug string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM communities
		WHERE (name = $1 OR slug = $2) AND deleted_at IS NULL`

	var count int64
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &count, query, name, slug)
	if err != nil {
		return false, fmt.Errorf("failed to check community uniqueness: %w", err)
	}

	return count > 0, nil
}

// List retrieves communities ordered by created_at DESC
func (r *postgresCommunityRepository) List(ctx context.Context, limit, offset int) ([]*models.Community, error) {
	query := `
		SELECT ` + communityColumns + `
		FROM communities
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	var communities []models.Community
	err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &communities, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}

	result := make([]*models.Community, len(communities))
	for i := range communities {
		result[i] = &communities[i]
	}
	return result, nil
}

// Count returns the number of non-deleted communities
func (r *postgresCommunityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &count, `SELECT COUNT(*) FROM communities WHERE deleted_at IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("failed to count communities: %w", err)
	}
	return count, nil
}

// WithTransaction executes a function within a database transaction
func (r *postgresCommunityRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	tx, err := r.client.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

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

// postgresMembershipRepository implements MembershipRepository using raw SQL queries
type postgresMembershipRepository struct {
	client *postgres.Client
}

// NewPostgresMembershipRepository creates a new PostgreSQL repository for memberships
func NewPostgresMembershipRepository(client *postgres.Client) MembershipRepository {
	return &postgresMembershipRepository{client: client}
}

func (r *postgresMembershipRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

// Create inserts a new membership
func (r *postgresMembershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	if membership.CreatedAt.IsZero() {
		membership.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO memberships (id, community_id, user_id, role, status, created_at)
		VALUES (:id, :community_id, :user_id, :role, :status, :created_at)`

	_, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, membership)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

// FindByCommunityAndUser retrieves the membership row for a user in a community
func (r *postgresMembershipRepository) FindByCommunityAndUser(ctx context.Context, communityID, userID uuid.UUID) (*models.Membership, error) {
	query := `
		SELECT id, community_id, user_id, role, status, created_at
		FROM memberships
		WHERE community_id = $1 AND user_id = $2`

	var membership models.Membership
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &membership, query, communityID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	return &membership, nil
}

// UpdateStatus changes a membership status
func (r *postgresMembershipRepository) UpdateStatus(ctx context.Context, communityID, userID uuid.UUID, status string) error {
	query := `
		UPDATE memberships
		SET status = $1
		WHERE community_id = $2 AND user_id = $3`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, status, communityID, userID)
	if err != nil {
		return fmt.Errorf("failed to update membership status: %w", err)
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

// Delete removes a membership row
func (r *postgresMembershipRepository) Delete(ctx context.Context, communityID, userID uuid.UUID) error {
	query := `DELETE FROM memberships WHERE community_id = $1 AND user_id = $2`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, communityID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
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
