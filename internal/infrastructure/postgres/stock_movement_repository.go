package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex sobre PostgreSQL; solo inserta y consulta.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO stock_movements (id, branch_id, variant_id, kind, quantity, source_type, source_id, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.BranchID, m.VariantID, string(m.Kind), m.Quantity,
		string(m.SourceType), m.SourceID, nullIfEmpty(m.Actor), m.CreatedAt,
	)
	return classifyError("create stock movement", err)
}

// ListBySource lista los movimientos generados por una misma operación (checkout o cancelación).
func (r *StockMovementRepo) ListBySource(ctx context.Context, source entity.MovementSource, sourceID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, branch_id, variant_id, kind, quantity, source_type, source_id, actor, created_at
		FROM stock_movements
		WHERE source_type = $1 AND source_id = $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, string(source), sourceID)
	if err != nil {
		return nil, classifyError("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var kind, src string
		var actor *string
		if err := rows.Scan(&m.ID, &m.BranchID, &m.VariantID, &kind, &m.Quantity, &src, &m.SourceID, &actor, &m.CreatedAt); err != nil {
			return nil, classifyError("scan stock movement", err)
		}
		m.Kind = entity.MovementKind(kind)
		m.SourceType = entity.MovementSource(src)
		m.Actor = derefString(actor)
		list = append(list, &m)
	}
	return list, classifyError("list stock movements", rows.Err())
}

// SumSigned suma con signo los movimientos de un par (sucursal, variante).
func (r *StockMovementRepo) SumSigned(ctx context.Context, branchID, variantID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind IN ('ENTRY', 'ADJUSTMENT_IN', 'RETURN') THEN quantity ELSE -quantity END), 0)
		FROM stock_movements
		WHERE branch_id = $1 AND variant_id = $2`
	var sum int64
	if err := r.q.QueryRow(ctx, query, branchID, variantID).Scan(&sum); err != nil {
		return 0, classifyError("sum stock movements", err)
	}
	return int(sum), nil
}
