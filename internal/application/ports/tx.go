package ports

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Stock     repository.StockRepository
	Movements repository.StockMovementRepository
	Orders    repository.OrderRepository
	Payments  repository.PaymentRepository
	Carts     repository.CartRepository
	Loyalty   repository.LoyaltyRepository
	Audit     repository.AuditRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún efecto queda visible; si no, Commit.
// Los bloqueos de fila se liberan al terminar la transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
