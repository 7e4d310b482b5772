package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/openagora/agora/audit/models"
	"github.com/openagora/agora/internal/database/postgres"
)

// postgresAuditRepository implements AuditRepository using raw SQL queries
type postgresAuditRepository struct {
	client *postgres.Client
}

// NewPostgresAuditRepository creates a new PostgreSQL repository for the audit log
func NewPostgresAuditRepository(client *postgres.Client) AuditRepository {
	return &postgresAuditRepository{client: client}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresAuditRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

// Append inserts an audit entry
func (r *postgresAuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	query := `
		INSERT INTO audit_entries (
			id, actor_user_id, action, target_type, target_id, community_id, detail, created_at
		) VALUES (
			:id, :actor_user_id, :action, :target_type, :target_id, :community_id, :detail, :created_at
		)`

	_, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, entry)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// Find retrieves audit entries matching the filter, newest first
func (r *postgresAuditRepository) Find(ctx context.Context, filter AuditFilter, limit, offset int) ([]*models.AuditEntry, error) {
	query := `
		SELECT id, actor_user_id, action, target_type, target_id, community_id, detail, created_at
		FROM audit_entries
		WHERE 1=1`

	predicate, args := buildAuditPredicate(filter, 1)
	query += predicate
	argIndex := len(args) + 1

	query += " ORDER BY created_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	var entries []models.AuditEntry
	err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find audit entries: %w", err)
	}

	result := make([]*models.AuditEntry, len(entries))
	for i := range entries {
		result[i] = &entries[i]
	}
	return result, nil
}

// Count returns the number of audit entries matching the filter
func (r *postgresAuditRepository) Count(ctx context.Context, filter AuditFilter) (int64, error) {
	query := "SELECT COUNT(*) FROM audit_entries WHERE 1=1"
	predicate, args := buildAuditPredicate(filter, 1)
	query += predicate

	var count int64
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	return count, nil
}

func buildAuditPredicate(filter AuditFilter, argIndex int) (string, []interface{}) {
	var predicate string
	var args []interface{}

	if filter.ActorUserID != nil {
		predicate += fmt.Sprintf(" AND actor_user_id = $%d", argIndex)
		args = append(args, *filter.ActorUserID)
		argIndex++
	}

	if filter.Action != nil {
		predicate += fmt.Sprintf(" AND action = $%d", argIndex)
		args = append(args, *filter.Action)
		argIndex++
	}

	if filter.CommunityID != nil {
		predicate += fmt.Sprintf(" AND community_id = $%d", argIndex)
		args = append(args, *filter.CommunityID)
		argIndex++
	}

	return predicate, args
}
