package fulfillment_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/fulfillment"
)

func key(b, v string) entity.StockKey { return entity.StockKey{BranchID: b, VariantID: v} }

func line(v string, qty int, price string) entity.CartLine {
	return entity.CartLine{VariantID: v, Quantity: qty, UnitPrice: dec(price)}
}

func strategies() []fulfillment.Strategy {
	return []fulfillment.Strategy{fulfillment.WholeLineStrategy{}, fulfillment.SplitLineStrategy{}}
}

func TestStrategyByName(t *testing.T) {
	s, err := fulfillment.StrategyByName("")
	require.NoError(t, err)
	assert.Equal(t, fulfillment.StrategyWholeLine, s.Name())

	s, err = fulfillment.StrategyByName(fulfillment.StrategySplitLine)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.StrategySplitLine, s.Name())

	_, err = fulfillment.StrategyByName("greedy")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLockKeys_OrdenadasYSinDuplicados(t *testing.T) {
	lines := []entity.CartLine{line("v2", 1, "1"), line("v1", 1, "1"), line("v2", 3, "1")}
	cands := []*entity.Branch{branch("b2", "", true), branch("b1", "", true)}

	keys := fulfillment.LockKeys(lines, cands)

	assert.Equal(t, []entity.StockKey{key("b1", "v1"), key("b1", "v2"), key("b2", "v1"), key("b2", "v2")}, keys)
}

func TestWholeLine_PrimeraSucursalQueAlcanza(t *testing.T) {
	cands := []*entity.Branch{branch("b1", "", true), branch("b2", "", true)}
	stock := fulfillment.StockSnapshot{key("b1", "v1"): 1, key("b2", "v1"): 5, key("b1", "v2"): 2}
	lines := []entity.CartLine{line("v1", 3, "1000"), line("v2", 2, "500")}

	plan, err := fulfillment.WholeLineStrategy{}.Allocate(lines, cands, stock)

	require.NoError(t, err)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "b2", plan.Allocations[0].BranchID)
	assert.Equal(t, "b1", plan.Allocations[1].BranchID)
	assert.Equal(t, []string{"b1", "b2"}, plan.BranchIDs())
	assert.Equal(t, 1, stock[key("b1", "v1")], "el snapshot original no se modifica")
}

func TestWholeLine_NoDivideLineas(t *testing.T) {
	cands := []*entity.Branch{branch("b1", "", true), branch("b2", "", true)}
	stock := fulfillment.StockSnapshot{key("b1", "v1"): 2, key("b2", "v1"): 2}

	_, err := fulfillment.WholeLineStrategy{}.Allocate([]entity.CartLine{line("v1", 3, "1")}, cands, stock)

	var se *domain.InsufficientStockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "v1", se.VariantID)
	assert.Equal(t, 0, se.LineIndex)
}

func TestSplitLine_RepartaEntreSucursales(t *testing.T) {
	cands := []*entity.Branch{branch("b1", "", true), branch("b2", "", true)}
	stock := fulfillment.StockSnapshot{key("b1", "v1"): 2, key("b2", "v1"): 2}

	plan, err := fulfillment.SplitLineStrategy{}.Allocate([]entity.CartLine{line("v1", 3, "1")}, cands, stock)

	require.NoError(t, err)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, 2, plan.Allocations[0].Quantity)
	assert.Equal(t, 1, plan.Allocations[1].Quantity)
}

func TestEstrategias_StockCompartidoEntreLineas(t *testing.T) {
	// Dos líneas de la misma variante compiten por la misma fila.
	cands := []*entity.Branch{branch("b1", "", true)}
	stock := fulfillment.StockSnapshot{key("b1", "v1"): 3}
	lines := []entity.CartLine{line("v1", 2, "1"), line("v1", 2, "1")}

	for _, s := range strategies() {
		_, err := s.Allocate(lines, cands, stock)
		var se *domain.InsufficientStockError
		require.ErrorAs(t, err, &se, s.Name())
		assert.Equal(t, 1, se.LineIndex, s.Name())
	}
}

func TestEstrategias_Invariantes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	variants := []string{"v1", "v2", "v3", "v4"}
	cands := []*entity.Branch{branch("b1", "", true), branch("b2", "", true), branch("b3", "", true)}

	for iter := 0; iter < 200; iter++ {
		stock := fulfillment.StockSnapshot{}
		for _, b := range cands {
			for _, v := range variants {
				stock[key(b.ID, v)] = rng.Intn(6)
			}
		}
		var lines []entity.CartLine
		for i := 0; i < 1+rng.Intn(4); i++ {
			lines = append(lines, line(variants[rng.Intn(len(variants))], 1+rng.Intn(5), "100"))
		}

		for _, s := range strategies() {
			plan, err := s.Allocate(lines, cands, stock)
			if err != nil {
				require.ErrorIs(t, err, domain.ErrInsufficientStock, s.Name())
				continue
			}
			perLine := make([]int, len(lines))
			perKey := map[entity.StockKey]int{}
			for _, a := range plan.Allocations {
				require.Greater(t, a.Quantity, 0)
				perLine[a.LineIndex] += a.Quantity
				perKey[a.Key()] += a.Quantity
			}
			for i, l := range lines {
				assert.Equal(t, l.Quantity, perLine[i], "%s: línea %d incompleta", s.Name(), i)
			}
			for k, used := range perKey {
				assert.LessOrEqual(t, used, stock[k], "%s: sobreasignación en %v", s.Name(), k)
			}
			if s.Name() == fulfillment.StrategyWholeLine {
				assert.Len(t, plan.Allocations, len(lines))
			}
		}
	}
}

func TestAllocation_Subtotal(t *testing.T) {
	a := fulfillment.Allocation{Quantity: 3, UnitPrice: decimal.RequireFromString("2.50")}
	assert.True(t, dec("7.5").Equal(a.Subtotal()))
}
