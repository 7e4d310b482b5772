package services

import (
	"context"
	"fmt"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/openagora/agora/audit/models"
	"github.com/openagora/agora/audit/repository"
	"github.com/openagora/agora/internal/pkg/log"
	"github.com/openagora/agora/internal/types"
)

// Recorder is the write-side interface consumed by other services that need
// to leave an audit trail (auth, communities, moderation paths).
type Recorder interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
}

// AuditService exposes the audit log to admin consumers
type AuditService interface {
	Recorder

	// ListEntries returns a filtered, paginated view of the audit log
	ListEntries(ctx context.Context, req *models.ListAuditRequest) (*ListAuditResponse, error)
}

// ListAuditResponse is the paginated audit listing envelope
type ListAuditResponse struct {
	Pagination types.Pagination     `json:"pagination"`
	Data       []*models.AuditEntry `json:"data"`
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// Record appends an entry to the audit log and mirrors it to the structured
// log. Append failures propagate to the caller; the log line is best effort.
func (s *auditService) Record(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("failed to generate audit entry id: %w", err)
		}
		entry.ID = id
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		log.Error("[AUDIT] append failed action=%s actor=%s: %v", entry.Action, entry.ActorUserID.String(), err)
		return err
	}

	log.Info("[AUDIT] action=%s actor=%s target=%s/%s detail=%q",
		entry.Action, entry.ActorUserID.String(), entry.TargetType, entry.TargetID.String(), entry.Detail)
	return nil
}

// ListEntries returns a filtered, paginated view of the audit log
func (s *auditService) ListEntries(ctx context.Context, req *models.ListAuditRequest) (*ListAuditResponse, error) {
	page := types.NormalizePage(req.Page)
	limit := types.NormalizeLimit(req.Limit)
	offset := (page - 1) * limit

	filter := repository.AuditFilter{}
	if req.Actor != "" {
		actorID, err := uuid.FromString(req.Actor)
		if err != nil {
			return nil, fmt.Errorf("invalid actor id: %w", err)
		}
		filter.ActorUserID = &actorID
	}
	if req.Action != "" {
		action := req.Action
		filter.Action = &action
	}
	if req.Community != "" {
		communityID, err := uuid.FromString(req.Community)
		if err != nil {
			return nil, fmt.Errorf("invalid community id: %w", err)
		}
		filter.CommunityID = &communityID
	}

	entries, err := s.repo.Find(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListAuditResponse{
		Pagination: types.NewPagination(page, limit, records),
		Data:       entries,
	}, nil
}
