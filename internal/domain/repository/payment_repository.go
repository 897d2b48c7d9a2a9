package repository

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// PaymentRepository puerto de pagos (uno por pedido).
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*entity.Payment, error)
	UpdateStatus(ctx context.Context, payment *entity.Payment) error
}
