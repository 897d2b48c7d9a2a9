package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

type AuditRepo struct {
	q Querier
}

func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta una entrada de auditoría; Detail se guarda como JSONB.
func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var detail any
	if len(e.Detail) > 0 {
		detail = string(e.Detail)
	}
	query := `
		INSERT INTO audit_entries (id, action, entity_type, entity_id, actor, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)`
	_, err := r.q.Exec(ctx, query, e.ID, e.Action, e.EntityType, e.EntityID, nullIfEmpty(e.Actor), detail, e.CreatedAt)
	return classifyError("create audit entry", err)
}
