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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos y sus líneas sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, number, checkout_id, customer_id, branch_id, address_id,
	subtotal, shipping_cost, loyalty_discount, points_redeemed, tax_total, grand_total, points_earned,
	status, payment_method, shipping_method, cancel_reason, cancelled_at, cancelled_by, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var status, method string
	var reason, by *string
	err := row.Scan(
		&o.ID, &o.Number, &o.CheckoutID, &o.CustomerID, &o.BranchID, &o.AddressID,
		&o.Subtotal, &o.ShippingCost, &o.LoyaltyDiscount, &o.PointsRedeemed, &o.TaxTotal, &o.GrandTotal, &o.PointsEarned,
		&status, &method, &o.ShippingMethod, &reason, &o.CancelledAt, &by, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	o.PaymentMethod = entity.PaymentMethod(method)
	o.CancelReason = derefString(reason)
	o.CancelledBy = derefString(by)
	return &o, nil
}

// Create inserta el encabezado del pedido. El número es único.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = o.CreatedAt
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Number, o.CheckoutID, o.CustomerID, o.BranchID, o.AddressID,
		o.Subtotal, o.ShippingCost, o.LoyaltyDiscount, o.PointsRedeemed, o.TaxTotal, o.GrandTotal, o.PointsEarned,
		string(o.Status), string(o.PaymentMethod), o.ShippingMethod,
		nullIfEmpty(o.CancelReason), o.CancelledAt, nullIfEmpty(o.CancelledBy), o.CreatedAt, o.UpdatedAt,
	)
	return classifyError("create order", err)
}

// CreateLineItem inserta una línea del pedido.
func (r *OrderRepo) CreateLineItem(ctx context.Context, it *entity.OrderLineItem) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_line_items (id, order_id, variant_id, quantity, unit_price, line_subtotal, line_tax, allocated_branch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.OrderID, it.VariantID, it.Quantity, it.UnitPrice, it.LineSubtotal, it.LineTax,
		nullIfEmpty(it.AllocatedBranchID),
	)
	return classifyError("create order line", err)
}

// GetByID devuelve el pedido o nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) getOne(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("get order", err)
	}
	return o, nil
}

// ListLineItems líneas de un pedido en orden de inserción.
func (r *OrderRepo) ListLineItems(ctx context.Context, orderID string) ([]*entity.OrderLineItem, error) {
	query := `
		SELECT id, order_id, variant_id, quantity, unit_price, line_subtotal, line_tax, allocated_branch_id
		FROM order_line_items
		WHERE order_id = $1
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, classifyError("list order lines", err)
	}
	defer rows.Close()
	var list []*entity.OrderLineItem
	for rows.Next() {
		var it entity.OrderLineItem
		var branch *string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VariantID, &it.Quantity, &it.UnitPrice, &it.LineSubtotal, &it.LineTax, &branch); err != nil {
			return nil, classifyError("scan order line", err)
		}
		it.AllocatedBranchID = derefString(branch)
		list = append(list, &it)
	}
	return list, classifyError("list order lines", rows.Err())
}

// ListByCheckout pedidos creados por un mismo checkout.
func (r *OrderRepo) ListByCheckout(ctx context.Context, checkoutID string) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE checkout_id = $1 ORDER BY branch_id`, checkoutID)
	if err != nil {
		return nil, classifyError("list orders", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, classifyError("scan order", err)
		}
		list = append(list, o)
	}
	return list, classifyError("list orders", rows.Err())
}

// Update persiste estado y datos de cancelación.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	o.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE orders
		SET status = $2, cancel_reason = $3, cancelled_at = $4, cancelled_by = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, string(o.Status), nullIfEmpty(o.CancelReason), o.CancelledAt, nullIfEmpty(o.CancelledBy), o.UpdatedAt)
	if err != nil {
		return classifyError("update order", err)
	}
	if tag.RowsAffected() == 0 {
		return classifyError("update order", pgx.ErrNoRows)
	}
	return nil
}
