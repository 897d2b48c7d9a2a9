package repository

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// AddressRepository puerto de lectura de direcciones de envío.
type AddressRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ShippingAddress, error)
}
