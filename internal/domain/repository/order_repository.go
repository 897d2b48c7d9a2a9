package repository

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// OrderRepository puerto de persistencia de pedidos y sus líneas.
// GetByID y GetForUpdate devuelven (nil, nil) si el pedido no existe.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateLineItem(ctx context.Context, item *entity.OrderLineItem) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	ListLineItems(ctx context.Context, orderID string) ([]*entity.OrderLineItem, error)
	ListByCheckout(ctx context.Context, checkoutID string) ([]*entity.Order, error)
	// Update persiste estado y datos de cancelación.
	Update(ctx context.Context, order *entity.Order) error
}
