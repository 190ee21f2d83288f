package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/model"
	"stagepass/internal/repository"
)

// AuditService records identity events. Recording is best-effort: a failed
// insert is logged and never fails the operation that triggered it.
type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Record(ctx context.Context, action string, userID string, detail string) {
	if s == nil || s.repo == nil {
		return
	}

	entry := model.AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		UserID:    userID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Record(ctx, entry); err != nil {
		slog.Warn("audit record failed", "action", action, "error", err)
	}
}
