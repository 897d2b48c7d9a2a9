package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

var (
	_ repository.StockRepository         = (*stockRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.OrderRepository         = (*orderRepo)(nil)
	_ repository.PaymentRepository       = (*paymentRepo)(nil)
	_ repository.CartRepository          = (*cartRepo)(nil)
	_ repository.LoyaltyRepository       = (*loyaltyRepo)(nil)
	_ repository.AuditRepository         = (*auditRepo)(nil)
	_ repository.BranchRepository        = (*BranchRepository)(nil)
	_ repository.AddressRepository       = (*AddressRepository)(nil)
)

// ---- stock ----

type stockRepo struct{ session }

func (r *stockRepo) Get(_ context.Context, branchID, variantID string) (*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec, ok := r.s.stock[entity.StockKey{BranchID: branchID, VariantID: variantID}]; ok {
		c := *rec
		return &c, nil
	}
	return &entity.InventoryRecord{BranchID: branchID, VariantID: variantID}, nil
}

func (r *stockRepo) GetForUpdate(ctx context.Context, branchID, variantID string) (*entity.InventoryRecord, error) {
	if err := r.lock(ctx, stockLockKey(entity.StockKey{BranchID: branchID, VariantID: variantID})); err != nil {
		return nil, err
	}
	return r.Get(ctx, branchID, variantID)
}

func (r *stockRepo) LockMany(ctx context.Context, keys []entity.StockKey) (map[entity.StockKey]*entity.InventoryRecord, error) {
	sorted := append([]entity.StockKey(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	for _, k := range sorted {
		if err := r.lock(ctx, stockLockKey(k)); err != nil {
			return nil, err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[entity.StockKey]*entity.InventoryRecord, len(sorted))
	for _, k := range sorted {
		if rec, ok := r.s.stock[k]; ok {
			c := *rec
			out[k] = &c
		}
	}
	return out, nil
}

func (r *stockRepo) Upsert(_ context.Context, rec *entity.InventoryRecord) error {
	if rec.Quantity < 0 {
		return fmt.Errorf("stock negativo en %s/%s: %w", rec.BranchID, rec.VariantID, domain.ErrPersistenceFailure)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := rec.Key()
	prev, existed := r.s.stock[key]
	c := *rec
	r.s.stock[key] = &c
	r.onRollback(func() {
		if existed {
			r.s.stock[key] = prev
		} else {
			delete(r.s.stock, key)
		}
	})
	return nil
}

func (r *stockRepo) List(_ context.Context) ([]*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	keys := sortedStockKeys(r.s.stock)
	out := make([]*entity.InventoryRecord, 0, len(keys))
	for _, k := range keys {
		c := *r.s.stock[k]
		out = append(out, &c)
	}
	return out, nil
}

// ---- kardex ----

type movementRepo struct{ session }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *m
	r.s.movements = append(r.s.movements, &c)
	r.onRollback(func() { r.s.movements = without(r.s.movements, &c) })
	return nil
}

func (r *movementRepo) ListBySource(_ context.Context, source entity.MovementSource, sourceID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.SourceType == source && m.SourceID == sourceID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *movementRepo) SumSigned(_ context.Context, branchID, variantID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := 0
	for _, m := range r.s.movements {
		if m.BranchID == branchID && m.VariantID == variantID {
			total += m.SignedQuantity()
		}
	}
	return total, nil
}

// ---- pedidos ----

type orderRepo struct{ session }

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.orders[o.ID]; exists {
		return fmt.Errorf("pedido %s duplicado: %w", o.ID, domain.ErrConflict)
	}
	for _, existing := range r.s.orders {
		if existing.Number == o.Number {
			return fmt.Errorf("número de pedido %s duplicado: %w", o.Number, domain.ErrConflict)
		}
	}
	r.s.orders[o.ID] = cloneOrder(o)
	r.s.orderSeq = append(r.s.orderSeq, o.ID)
	id := o.ID
	r.onRollback(func() {
		delete(r.s.orders, id)
		for i, v := range r.s.orderSeq {
			if v == id {
				r.s.orderSeq = append(r.s.orderSeq[:i:i], r.s.orderSeq[i+1:]...)
				break
			}
		}
	})
	return nil
}

func (r *orderRepo) CreateLineItem(_ context.Context, it *entity.OrderLineItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *it
	r.s.items[it.OrderID] = append(r.s.items[it.OrderID], &c)
	orderID := it.OrderID
	r.onRollback(func() {
		r.s.items[orderID] = without(r.s.items[orderID], &c)
		if len(r.s.items[orderID]) == 0 {
			delete(r.s.items, orderID)
		}
	})
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	if err := r.lock(ctx, "order:"+id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *orderRepo) ListLineItems(_ context.Context, orderID string) ([]*entity.OrderLineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.OrderLineItem, 0, len(r.s.items[orderID]))
	for _, it := range r.s.items[orderID] {
		c := *it
		out = append(out, &c)
	}
	return out, nil
}

func (r *orderRepo) ListByCheckout(_ context.Context, checkoutID string) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for _, id := range r.s.orderSeq {
		if o := r.s.orders[id]; o.CheckoutID == checkoutID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *orderRepo) Update(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	r.s.orders[o.ID] = cloneOrder(o)
	r.onRollback(func() { r.s.orders[prev.ID] = prev })
	return nil
}

// ---- pagos ----

type paymentRepo struct{ session }

func (r *paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.payments[p.OrderID]; exists {
		return fmt.Errorf("pago duplicado para el pedido %s: %w", p.OrderID, domain.ErrConflict)
	}
	c := *p
	r.s.payments[p.OrderID] = &c
	orderID := p.OrderID
	r.onRollback(func() { delete(r.s.payments, orderID) })
	return nil
}

func (r *paymentRepo) GetByOrderID(_ context.Context, orderID string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.payments[orderID]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *paymentRepo) UpdateStatus(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.payments[p.OrderID]
	if !ok {
		return domain.ErrNotFound
	}
	c := *prev
	c.Status = p.Status
	c.UpdatedAt = p.UpdatedAt
	r.s.payments[p.OrderID] = &c
	r.onRollback(func() { r.s.payments[prev.OrderID] = prev })
	return nil
}

// ---- carrito ----

type cartRepo struct{ session }

func (r *cartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Cart, error) {
	if err := r.lock(ctx, "cart:"+id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.carts[id]; ok {
		return cloneCart(c), nil
	}
	return nil, nil
}

func (r *cartRepo) UpdateStatus(_ context.Context, id string, status entity.CartStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.carts[id]
	if !ok {
		return domain.ErrNotFound
	}
	c := cloneCart(prev)
	c.Status = status
	r.s.carts[id] = c
	r.onRollback(func() { r.s.carts[id] = prev })
	return nil
}

// ---- lealtad ----

type loyaltyRepo struct{ session }

func (r *loyaltyRepo) GetForUpdate(ctx context.Context, customerID string) (*entity.LoyaltyAccount, error) {
	if err := r.lock(ctx, "loyalty:"+customerID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if acc, ok := r.s.loyalty[customerID]; ok {
		c := *acc
		return &c, nil
	}
	return &entity.LoyaltyAccount{CustomerID: customerID}, nil
}

func (r *loyaltyRepo) Upsert(_ context.Context, acc *entity.LoyaltyAccount) error {
	if acc.Balance < 0 {
		return fmt.Errorf("saldo de puntos negativo: %w", domain.ErrPersistenceFailure)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, existed := r.s.loyalty[acc.CustomerID]
	c := *acc
	r.s.loyalty[acc.CustomerID] = &c
	id := acc.CustomerID
	r.onRollback(func() {
		if existed {
			r.s.loyalty[id] = prev
		} else {
			delete(r.s.loyalty, id)
		}
	})
	return nil
}

// ---- auditoría ----

type auditRepo struct{ session }

func (r *auditRepo) Create(_ context.Context, e *entity.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *e
	r.s.audit = append(r.s.audit, &c)
	r.onRollback(func() { r.s.audit = without(r.s.audit, &c) })
	return nil
}

// ---- datos de referencia ----

// BranchRepository sucursales en memoria.
type BranchRepository struct{ s *Store }

func (r *BranchRepository) ListActive(_ context.Context) ([]*entity.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Branch
	for _, b := range r.s.branches {
		if b.Active {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AddressRepository direcciones en memoria.
type AddressRepository struct{ s *Store }

func (r *AddressRepository) GetByID(_ context.Context, id string) (*entity.ShippingAddress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.addresses[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, nil
}

// without devuelve la lista sin el elemento dado (por identidad), sin tocar el arreglo original.
func without[T any](list []*T, item *T) []*T {
	out := make([]*T, 0, len(list))
	for _, v := range list {
		if v != item {
			out = append(out, v)
		}
	}
	return out
}
