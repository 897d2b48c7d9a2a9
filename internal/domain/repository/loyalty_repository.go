package repository

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// LoyaltyRepository puerto del saldo de puntos. GetForUpdate devuelve saldo cero si no hay cuenta.
type LoyaltyRepository interface {
	GetForUpdate(ctx context.Context, customerID string) (*entity.LoyaltyAccount, error)
	Upsert(ctx context.Context, account *entity.LoyaltyAccount) error
}
