package postgres

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo lectura de sucursales (las administra un flujo externo).
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador.
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// ListActive sucursales activas ordenadas por id.
func (r *BranchRepo) ListActive(ctx context.Context) ([]*entity.Branch, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, code, name, region, active, created_at, updated_at
		FROM branches
		WHERE active
		ORDER BY id`)
	if err != nil {
		return nil, classifyError("list branches", err)
	}
	defer rows.Close()
	var list []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.Region, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, classifyError("scan branch", err)
		}
		list = append(list, &b)
	}
	return list, classifyError("list branches", rows.Err())
}
