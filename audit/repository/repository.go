package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/openagora/agora/audit/models"
)

// AuditFilter represents filtering criteria for listing audit entries
type AuditFilter struct {
	ActorUserID *uuid.UUID
	Action      *string
	CommunityID *uuid.UUID
}

// AuditRepository defines the interface for the append-only audit log
type AuditRepository interface {
	// Append inserts an audit entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry *models.AuditEntry) error

	// Find retrieves audit entries matching the filter, newest first
	Find(ctx context.Context, filter AuditFilter, limit, offset int) ([]*models.AuditEntry, error)

	// Count returns the number of audit entries matching the filter
	Count(ctx context.Context, filter AuditFilter) (int64, error)
}
