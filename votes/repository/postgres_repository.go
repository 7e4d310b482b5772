package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/openagora/agora/internal/database/postgres"
	"github.com/openagora/agora/votes/models"
)

// postgresVoteRepository implements VoteRepository using raw SQL queries
type postgresVoteRepository struct {
	client *postgres.Client
}

// NewPostgresVoteRepository creates a new PostgreSQL repository for votes
func NewPostgresVoteRepository(client *postgres.Client) VoteRepository {
	return &postgresVoteRepository{client: client}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresVoteRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

// Create inserts a new vote
func (r *postgresVoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO votes (id, post_id, owner_user_id, vote_state, created_at)
		VALUES (:id, :post_id, :owner_user_id, :vote_state, :created_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, vote)
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

// UpdateState changes the vote state of an existing vote
func (r *postgresVoteRepository) UpdateState(ctx context.Context, postID, userID uuid.UUID, voteState int) error {
	query := `
		UPDATE votes
		SET vote_state = $1
		WHERE post_id = $2 AND owner_user_id = $3
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, voteState, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to update vote: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("vote not found for update")
	}

	return nil
}

// Delete removes a vote (toggle off)
func (r *postgresVoteRepository) Delete(ctx context.Context, postID, userID uuid.UUID) error {
	query := `
		DELETE FROM votes
		WHERE post_id = $1 AND owner_user_id = $2
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("vote not found for deletion")
	}

	return nil
}

// FindByUserAndPost retrieves a user's vote on a specific post
func (r *postgresVoteRepository) FindByUserAndPost(ctx context.Context, userID, postID uuid.UUID) (*models.Vote, error) {
	query := `
		SELECT id, post_id, owner_user_id, vote_state, created_at
		FROM votes
		WHERE post_id = $1 AND owner_user_id = $2
	`

	var vote models.Vote
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &vote, query, postID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vote not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}

	return &vote, nil
}

// FindByPostIDs bulk retrieves every vote row for the given posts
func (r *postgresVoteRepository) FindByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]*models.Vote, error) {
	if len(postIDs) == 0 {
		return []*models.Vote{}, nil
	}

	postIDsArray := make([]string, len(postIDs))
	for i, id := range postIDs {
		postIDsArray[i] = id.String()
	}

	query := `
		SELECT id, post_id, owner_user_id, vote_state, created_at
		FROM votes
		WHERE post_id = ANY($1::uuid[])
	`

	var votes []models.Vote
	err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &votes, query, pq.Array(postIDsArray))
	if err != nil {
		return nil, fmt.Errorf("failed to get votes for posts: %w", err)
	}

	result := make([]*models.Vote, len(votes))
	for i := range votes {
		result[i] = &votes[i]
	}
	return result, nil
}

// WithTransaction executes a function within a database transaction
func (r *postgresVoteRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
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
