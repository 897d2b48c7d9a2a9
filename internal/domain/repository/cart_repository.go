package repository

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// CartRepository puerto hacia el carrito (colaborador externo).
type CartRepository interface {
	// GetForUpdate bloquea el carrito y carga sus líneas; (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Cart, error)
	UpdateStatus(ctx context.Context, id string, status entity.CartStatus) error
}
