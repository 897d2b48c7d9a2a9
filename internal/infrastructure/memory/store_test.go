package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/omnicanal-api/internal/application/ports"
	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/infrastructure/memory"
)

func TestRun_RollbackDeshaceEscrituras(t *testing.T) {
	s := memory.NewStore()
	s.PutStock("b1", "v1", 5, 0)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		rec, err := r.Stock.GetForUpdate(ctx, "b1", "v1")
		require.NoError(t, err)
		rec.Quantity = 1
		require.NoError(t, r.Stock.Upsert(ctx, rec))
		require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{ID: "m1", BranchID: "b1", VariantID: "v1", Kind: entity.MovementKindExit, Quantity: 4}))
		require.NoError(t, r.Orders.Create(ctx, &entity.Order{ID: "o1", Number: "N1"}))
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 5, s.StockQuantity("b1", "v1"))
	assert.Len(t, s.Movements(), 1, "solo la entrada semilla")
	assert.Empty(t, s.Orders())
}

func TestRun_FallaInyectadaAlConfirmar(t *testing.T) {
	s := memory.NewStore()
	s.PutLoyalty("c1", 10)
	s.FailNextCommits(domain.ErrPersistenceFailure)
	ctx := context.Background()

	debit := func(ctx context.Context, r ports.Repos) error {
		acc, err := r.Loyalty.GetForUpdate(ctx, "c1")
		if err != nil {
			return err
		}
		acc.Balance -= 3
		return r.Loyalty.Upsert(ctx, acc)
	}

	require.ErrorIs(t, s.Run(ctx, debit), domain.ErrPersistenceFailure)
	assert.Equal(t, 10, s.LoyaltyBalance("c1"))

	require.NoError(t, s.Run(ctx, debit))
	assert.Equal(t, 7, s.LoyaltyBalance("c1"))
}

func TestLock_TimeoutDevuelveConflicto(t *testing.T) {
	s := memory.NewStore(memory.WithLockTimeout(30 * time.Millisecond))
	s.PutStock("b1", "v1", 1, 0)
	ctx := context.Background()
	holding := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = s.Run(ctx, func(ctx context.Context, r ports.Repos) error {
			_, err := r.Stock.GetForUpdate(ctx, "b1", "v1")
			close(holding)
			<-done
			return err
		})
	}()
	<-holding

	err := s.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		_, err := r.Stock.LockMany(ctx, []entity.StockKey{{BranchID: "b1", VariantID: "v1"}})
		return err
	})
	close(done)

	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.True(t, domain.IsTransient(err))
}

func TestLock_ReentranteEnLaMismaTransaccion(t *testing.T) {
	s := memory.NewStore(memory.WithLockTimeout(30 * time.Millisecond))
	s.PutStock("b1", "v1", 2, 0)
	ctx := context.Background()

	err := s.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		recs, err := r.Stock.LockMany(ctx, []entity.StockKey{{BranchID: "b1", VariantID: "v1"}, {BranchID: "b2", VariantID: "v1"}})
		if err != nil {
			return err
		}
		assert.Len(t, recs, 1, "las filas inexistentes no aparecen")
		_, err = r.Stock.GetForUpdate(ctx, "b1", "v1")
		return err
	})

	assert.NoError(t, err)
}

func TestUpsert_RechazaStockNegativo(t *testing.T) {
	s := memory.NewStore()
	err := s.StockRepo().Upsert(context.Background(), &entity.InventoryRecord{BranchID: "b1", VariantID: "v1", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
}
