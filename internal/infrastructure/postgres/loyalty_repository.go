package postgres

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

var _ repository.LoyaltyRepository = (*LoyaltyRepo)(nil)

// LoyaltyRepo saldo de puntos por cliente.
type LoyaltyRepo struct {
	q Querier
}

// NewLoyaltyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoyaltyRepository(q Querier) *LoyaltyRepo {
	return &LoyaltyRepo{q: q}
}

// GetForUpdate bloquea la cuenta. Si el cliente aún no tiene fila se crea en cero antes del
// SELECT ... FOR UPDATE, así dos checkouts del mismo cliente nuevo se serializan sobre la misma fila.
func (r *LoyaltyRepo) GetForUpdate(ctx context.Context, customerID string) (*entity.LoyaltyAccount, error) {
	if _, err := r.q.Exec(ctx,
		`INSERT INTO loyalty_accounts (customer_id, balance) VALUES ($1, 0) ON CONFLICT (customer_id) DO NOTHING`,
		customerID,
	); err != nil {
		return nil, classifyError("ensure loyalty account", err)
	}
	acc := entity.LoyaltyAccount{CustomerID: customerID}
	err := r.q.QueryRow(ctx,
		`SELECT balance, updated_at FROM loyalty_accounts WHERE customer_id = $1 FOR UPDATE`, customerID,
	).Scan(&acc.Balance, &acc.UpdatedAt)
	if err != nil {
		return nil, classifyError("get loyalty account", err)
	}
	return &acc, nil
}

// Upsert guarda el saldo. El CHECK (balance >= 0) rechaza saldos negativos.
func (r *LoyaltyRepo) Upsert(ctx context.Context, acc *entity.LoyaltyAccount) error {
	query := `
		INSERT INTO loyalty_accounts (customer_id, balance, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (customer_id) DO UPDATE SET balance = EXCLUDED.balance, updated_at = now()`
	_, err := r.q.Exec(ctx, query, acc.CustomerID, acc.Balance)
	return classifyError("upsert loyalty account", err)
}
