package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos (uno por pedido) sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste el pago de un pedido.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	query := `
		INSERT INTO payments (id, order_id, method, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, p.ID, p.OrderID, string(p.Method), p.Amount, string(p.Status), p.CreatedAt, p.UpdatedAt)
	return classifyError("create payment", err)
}

// GetByOrderID devuelve el pago del pedido o nil.
func (r *PaymentRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Payment, error) {
	query := `SELECT id, order_id, method, amount, status, created_at, updated_at FROM payments WHERE order_id = $1`
	var p entity.Payment
	var method, status string
	err := r.q.QueryRow(ctx, query, orderID).Scan(&p.ID, &p.OrderID, &method, &p.Amount, &status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("get payment", err)
	}
	p.Method = entity.PaymentMethod(method)
	p.Status = entity.PaymentStatus(status)
	return &p, nil
}

// UpdateStatus persiste el nuevo estado del pago.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, p *entity.Payment) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := r.q.Exec(ctx, `UPDATE payments SET status = $2, updated_at = $3 WHERE id = $1`, p.ID, string(p.Status), p.UpdatedAt)
	return classifyError("update payment", err)
}
