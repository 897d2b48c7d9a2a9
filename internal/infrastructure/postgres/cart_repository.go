package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carritos y sus líneas sobre PostgreSQL.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// GetForUpdate bloquea el carrito y carga sus líneas; (nil, nil) si no existe.
func (r *CartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Cart, error) {
	var c entity.Cart
	var status string
	err := r.q.QueryRow(ctx,
		`SELECT id, customer_id, status, updated_at FROM carts WHERE id = $1 FOR UPDATE`, id,
	).Scan(&c.ID, &c.CustomerID, &status, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("get cart", err)
	}
	c.Status = entity.CartStatus(status)

	rows, err := r.q.Query(ctx,
		`SELECT variant_id, quantity, unit_price FROM cart_lines WHERE cart_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, classifyError("list cart lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.CartLine
		if err := rows.Scan(&l.VariantID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, classifyError("scan cart line", err)
		}
		c.Lines = append(c.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("list cart lines", err)
	}
	return &c, nil
}

// UpdateStatus cambia el estado del carrito.
func (r *CartRepo) UpdateStatus(ctx context.Context, id string, status entity.CartStatus) error {
	_, err := r.q.Exec(ctx, `UPDATE carts SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	return classifyError("update cart", err)
}
