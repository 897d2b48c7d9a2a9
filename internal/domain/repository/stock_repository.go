package repository

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por sucursal+variante.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve el registro o uno en cero si no existe (sin bloqueo).
	Get(ctx context.Context, branchID, variantID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); si no existe devuelve un registro en cero.
	GetForUpdate(ctx context.Context, branchID, variantID string) (*entity.InventoryRecord, error)
	// LockMany bloquea las filas existentes en orden (branch_id, variant_id).
	// Las llaves sin registro no aparecen en el mapa.
	LockMany(ctx context.Context, keys []entity.StockKey) (map[entity.StockKey]*entity.InventoryRecord, error)
	Upsert(ctx context.Context, rec *entity.InventoryRecord) error
	// List devuelve todos los registros ordenados por (branch_id, variant_id); usado por la conciliación.
	List(ctx context.Context) ([]*entity.InventoryRecord, error)
}
