package fulfillment

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// Nombres de estrategia aceptados en configuración.
const (
	StrategyWholeLine = "whole_line"
	StrategySplitLine = "split_line"
)

// StockSnapshot cantidades disponibles de las filas ya bloqueadas.
type StockSnapshot map[entity.StockKey]int

// Clone copia el snapshot para que la estrategia pueda descontar sin tocar el original.
func (s StockSnapshot) Clone() StockSnapshot {
	out := make(StockSnapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Allocation asignación de (parte de) una línea del carrito a una sucursal.
type Allocation struct {
	LineIndex int
	BranchID  string
	VariantID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Key fila de inventario afectada.
func (a Allocation) Key() entity.StockKey {
	return entity.StockKey{BranchID: a.BranchID, VariantID: a.VariantID}
}

// Subtotal precio unitario × cantidad asignada.
func (a Allocation) Subtotal() decimal.Decimal {
	return a.UnitPrice.Mul(decimal.NewFromInt(int64(a.Quantity)))
}

// Plan resultado de la asignación.
type Plan struct {
	Strategy    string
	Allocations []Allocation
}

// BranchIDs sucursales tocadas en orden ascendente de ID.
func (p Plan) BranchIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range p.Allocations {
		if !seen[a.BranchID] {
			seen[a.BranchID] = true
			ids = append(ids, a.BranchID)
		}
	}
	sort.Strings(ids)
	return ids
}

// ByBranch agrupa las asignaciones por sucursal conservando el orden del carrito.
func (p Plan) ByBranch() map[string][]Allocation {
	out := make(map[string][]Allocation)
	for _, a := range p.Allocations {
		out[a.BranchID] = append(out[a.BranchID], a)
	}
	return out
}

// Strategy contrato del planificador de asignación: las dos implementaciones se prueban contra
// los mismos invariantes.
type Strategy interface {
	Name() string
	Allocate(lines []entity.CartLine, candidates []*entity.Branch, stock StockSnapshot) (Plan, error)
}

// StrategyByName resuelve la estrategia configurada; vacío equivale a línea completa.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", StrategyWholeLine:
		return WholeLineStrategy{}, nil
	case StrategySplitLine:
		return SplitLineStrategy{}, nil
	}
	return nil, fmt.Errorf("estrategia de asignación desconocida %q: %w", name, domain.ErrInvalidInput)
}

// LockKeys todas las filas (candidata × variante) que el checkout puede tocar, ordenadas y sin
// duplicados. Bloquearlas en este orden evita interbloqueos entre carritos que se solapan.
func LockKeys(lines []entity.CartLine, candidates []*entity.Branch) []entity.StockKey {
	seen := make(map[entity.StockKey]bool)
	keys := make([]entity.StockKey, 0, len(lines)*len(candidates))
	for _, b := range candidates {
		for _, l := range lines {
			k := entity.StockKey{BranchID: b.ID, VariantID: l.VariantID}
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	SortKeys(keys)
	return keys
}

// SortKeys ordena llaves por (branch_id, variant_id).
func SortKeys(keys []entity.StockKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

// WholeLineStrategy línea completa, una sola sucursal, primera que alcance según el orden de candidatas.
// Es la estrategia contractual del checkout.
type WholeLineStrategy struct{}

func (WholeLineStrategy) Name() string { return StrategyWholeLine }

func (WholeLineStrategy) Allocate(lines []entity.CartLine, candidates []*entity.Branch, stock StockSnapshot) (Plan, error) {
	if len(lines) == 0 {
		return Plan{}, domain.ErrEmptyCart
	}
	if len(candidates) == 0 {
		return Plan{}, domain.ErrNoBranchesAvailable
	}
	available := stock.Clone()
	plan := Plan{Strategy: StrategyWholeLine, Allocations: make([]Allocation, 0, len(lines))}
	for i, line := range lines {
		if line.Quantity <= 0 {
			return Plan{}, domain.ErrInvalidInput
		}
		satisfied := false
		for _, b := range candidates {
			k := entity.StockKey{BranchID: b.ID, VariantID: line.VariantID}
			if available[k] >= line.Quantity {
				available[k] -= line.Quantity
				plan.Allocations = append(plan.Allocations, Allocation{
					LineIndex: i,
					BranchID:  b.ID,
					VariantID: line.VariantID,
					Quantity:  line.Quantity,
					UnitPrice: line.UnitPrice,
				})
				satisfied = true
				break
			}
		}
		if !satisfied {
			return Plan{}, &domain.InsufficientStockError{VariantID: line.VariantID, LineIndex: i, Requested: line.Quantity}
		}
	}
	return plan, nil
}

// SplitLineStrategy reparte una línea entre varias sucursales (en orden de candidatas) para
// maximizar el cumplimiento. Falla igual si la suma de todas no alcanza.
type SplitLineStrategy struct{}

func (SplitLineStrategy) Name() string { return StrategySplitLine }

func (SplitLineStrategy) Allocate(lines []entity.CartLine, candidates []*entity.Branch, stock StockSnapshot) (Plan, error) {
	if len(lines) == 0 {
		return Plan{}, domain.ErrEmptyCart
	}
	if len(candidates) == 0 {
		return Plan{}, domain.ErrNoBranchesAvailable
	}
	available := stock.Clone()
	plan := Plan{Strategy: StrategySplitLine}
	for i, line := range lines {
		if line.Quantity <= 0 {
			return Plan{}, domain.ErrInvalidInput
		}
		remaining := line.Quantity
		var parts []Allocation
		for _, b := range candidates {
			if remaining == 0 {
				break
			}
			k := entity.StockKey{BranchID: b.ID, VariantID: line.VariantID}
			take := min(available[k], remaining)
			if take <= 0 {
				continue
			}
			parts = append(parts, Allocation{
				LineIndex: i,
				BranchID:  b.ID,
				VariantID: line.VariantID,
				Quantity:  take,
				UnitPrice: line.UnitPrice,
			})
			remaining -= take
		}
		if remaining > 0 {
			return Plan{}, &domain.InsufficientStockError{VariantID: line.VariantID, LineIndex: i, Requested: line.Quantity}
		}
		for _, a := range parts {
			available[a.Key()] -= a.Quantity
		}
		plan.Allocations = append(plan.Allocations, parts...)
	}
	return plan, nil
}
