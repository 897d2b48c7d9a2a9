package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento de pedido publicados hacia notificaciones.
const (
	OrderEventPlaced        = "order.placed"
	OrderEventStatusChanged = "order.status_changed"
)

// OrderEvent evento de pedido consumido por el despacho de notificaciones.
type OrderEvent struct {
	Type        string          `json:"type"`
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CheckoutID  string          `json:"checkout_id,omitempty"`
	CustomerID  string          `json:"customer_id"`
	BranchID    string          `json:"branch_id"`
	FromStatus  OrderStatus     `json:"from_status,omitempty"`
	ToStatus    OrderStatus     `json:"to_status"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	Reason      string          `json:"reason,omitempty"`
	Actor       string          `json:"actor,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
