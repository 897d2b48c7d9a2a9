package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `branch_id, variant_id, quantity, min_stock, updated_at`

func scanRecord(row pgx.Row, rec *entity.InventoryRecord) error {
	return row.Scan(&rec.BranchID, &rec.VariantID, &rec.Quantity, &rec.MinStock, &rec.UpdatedAt)
}

// Get obtiene el stock actual de una variante en una sucursal.
func (r *StockRepo) Get(ctx context.Context, branchID, variantID string) (*entity.InventoryRecord, error) {
	return r.get(ctx, `SELECT `+stockColumns+` FROM inventory_records WHERE branch_id = $1 AND variant_id = $2`, branchID, variantID)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, branchID, variantID string) (*entity.InventoryRecord, error) {
	return r.get(ctx, `SELECT `+stockColumns+` FROM inventory_records WHERE branch_id = $1 AND variant_id = $2 FOR UPDATE`, branchID, variantID)
}

func (r *StockRepo) get(ctx context.Context, query, branchID, variantID string) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	if err := scanRecord(r.q.QueryRow(ctx, query, branchID, variantID), &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{BranchID: branchID, VariantID: variantID}, nil
		}
		return nil, classifyError("get stock", err)
	}
	return &rec, nil
}

// LockMany bloquea en una sola sentencia todas las filas existentes, en orden (branch_id, variant_id).
func (r *StockRepo) LockMany(ctx context.Context, keys []entity.StockKey) (map[entity.StockKey]*entity.InventoryRecord, error) {
	out := make(map[entity.StockKey]*entity.InventoryRecord, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	branches := make([]string, len(keys))
	variants := make([]string, len(keys))
	for i, k := range keys {
		branches[i] = k.BranchID
		variants[i] = k.VariantID
	}
	query := `
		SELECT ` + stockColumns + `
		FROM inventory_records
		WHERE (branch_id, variant_id) IN (SELECT * FROM unnest($1::text[], $2::text[]))
		ORDER BY branch_id, variant_id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, branches, variants)
	if err != nil {
		return nil, classifyError("lock stock", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, classifyError("scan stock", err)
		}
		out[rec.Key()] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("lock stock", err)
	}
	return out, nil
}

// Upsert inserta o actualiza la cantidad en stock (por sucursal y variante).
// El CHECK (quantity >= 0) de la tabla respalda la regla de no negativos.
func (r *StockRepo) Upsert(ctx context.Context, rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (branch_id, variant_id, quantity, min_stock, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (branch_id, variant_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, min_stock = EXCLUDED.min_stock, updated_at = now()`
	_, err := r.q.Exec(ctx, query, rec.BranchID, rec.VariantID, rec.Quantity, rec.MinStock)
	if err != nil {
		return classifyError("upsert stock", err)
	}
	return nil
}

// List devuelve todos los registros ordenados.
func (r *StockRepo) List(ctx context.Context) ([]*entity.InventoryRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stockColumns+` FROM inventory_records ORDER BY branch_id, variant_id`)
	if err != nil {
		return nil, classifyError("list stock", err)
	}
	defer rows.Close()
	var out []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, classifyError("scan stock", err)
		}
		out = append(out, &rec)
	}
	return out, classifyError("list stock", rows.Err())
}
