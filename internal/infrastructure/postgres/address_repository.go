package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

var _ repository.AddressRepository = (*AddressRepo)(nil)

type AddressRepo struct {
	q Querier
}

func NewAddressRepository(q Querier) *AddressRepo {
	return &AddressRepo{q: q}
}

// GetByID devuelve la dirección o nil si no existe.
func (r *AddressRepo) GetByID(ctx context.Context, id string) (*entity.ShippingAddress, error) {
	var a entity.ShippingAddress
	err := r.q.QueryRow(ctx,
		`SELECT id, customer_id, region, city, line1 FROM shipping_addresses WHERE id = $1`, id,
	).Scan(&a.ID, &a.CustomerID, &a.Region, &a.City, &a.Line1)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("get address", err)
	}
	return &a, nil
}
