package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del pedido (máquina de estados cerrada).
type OrderStatus string

const (
	OrderStatusPendingVerification OrderStatus = "PENDING_VERIFICATION"
	OrderStatusPaid                OrderStatus = "PAID"
	OrderStatusInPreparation       OrderStatus = "IN_PREPARATION"
	OrderStatusShipped             OrderStatus = "SHIPPED"
	OrderStatusDelivered           OrderStatus = "DELIVERED"
	OrderStatusCancelled           OrderStatus = "CANCELLED"
	OrderStatusClosed              OrderStatus = "CLOSED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendingVerification: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:                {OrderStatusInPreparation, OrderStatusCancelled},
	OrderStatusInPreparation:       {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:             {OrderStatusDelivered},
	OrderStatusDelivered:           {OrderStatusClosed},
}

// ParseOrderStatus convierte texto libre en un estado conocido.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	switch st {
	case OrderStatusPendingVerification, OrderStatusPaid, OrderStatusInPreparation,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusClosed:
		return st, true
	}
	return "", false
}

// CanTransitionTo valida una transición explícita de la máquina de estados.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Order pedido: uno por sucursal tocada en cada intento de checkout.
// Se crea junto con sus líneas y su pago; luego solo cambia por transiciones de estado.
type Order struct {
	ID              string
	Number          string
	CheckoutID      string
	CustomerID      string
	BranchID        string
	AddressID       string
	Subtotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	LoyaltyDiscount decimal.Decimal
	PointsRedeemed  int
	TaxTotal        decimal.Decimal
	GrandTotal      decimal.Decimal
	PointsEarned    int
	Status          OrderStatus
	PaymentMethod   PaymentMethod
	ShippingMethod  string
	CancelReason    string
	CancelledAt     *time.Time
	CancelledBy     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
