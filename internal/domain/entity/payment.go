package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago.
type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "CARD"
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodTransfer   PaymentMethod = "TRANSFER"
	PaymentMethodSinpeMovil PaymentMethod = "SINPE_MOVIL"
)

// ParsePaymentMethod valida un medio de pago conocido.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(s)
	switch m {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodTransfer, PaymentMethodSinpeMovil:
		return m, true
	}
	return "", false
}

// PaymentStatus estado del pago.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusApproved  PaymentStatus = "APPROVED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Payment un pago por pedido, creado junto con el pedido.
type Payment struct {
	ID        string
	OrderID   string
	Method    PaymentMethod
	Amount    decimal.Decimal
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
