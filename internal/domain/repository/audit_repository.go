package repository

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// AuditRepository puerto de auditoría.
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
}
