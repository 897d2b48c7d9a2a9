package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/omnicanal-api/internal/application/ports"
	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store almacén en memoria con transacciones: bloqueos por fila (con lock timeout) y
// rollback mediante registro de deshacer. Las lecturas sin bloqueo pueden ver escrituras
// aún no confirmadas de otra transacción; todo lo que el motor decide se lee con la fila bloqueada.
// Se usa en tests y en modo demo cuando no hay DATABASE_URL.
type Store struct {
	mu          sync.Mutex
	branches    map[string]*entity.Branch
	addresses   map[string]*entity.ShippingAddress
	carts       map[string]*entity.Cart
	stock       map[entity.StockKey]*entity.InventoryRecord
	movements   []*entity.StockMovement
	orders      map[string]*entity.Order
	orderSeq    []string
	items       map[string][]*entity.OrderLineItem
	payments    map[string]*entity.Payment
	loyalty     map[string]*entity.LoyaltyAccount
	audit       []*entity.AuditEntry
	rowLocks    map[string]chan struct{}
	lockTimeout time.Duration
	faults      []error
}

// Option configura el Store.
type Option func(*Store)

// WithLockTimeout tiempo máximo de espera por un bloqueo de fila antes de abortar con conflicto.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) { s.lockTimeout = d }
}

// NewStore crea un almacén vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{
		branches:    make(map[string]*entity.Branch),
		addresses:   make(map[string]*entity.ShippingAddress),
		carts:       make(map[string]*entity.Cart),
		stock:       make(map[entity.StockKey]*entity.InventoryRecord),
		orders:      make(map[string]*entity.Order),
		items:       make(map[string][]*entity.OrderLineItem),
		payments:    make(map[string]*entity.Payment),
		loyalty:     make(map[string]*entity.LoyaltyAccount),
		rowLocks:    make(map[string]chan struct{}),
		lockTimeout: 2 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// tx estado de una transacción en curso.
type tx struct {
	held map[string]chan struct{}
	undo []func()
}

// session liga un repositorio al store y, opcionalmente, a una transacción.
type session struct {
	s  *Store
	tx *tx
}

// Run ejecuta fn en una transacción. Si fn falla (o hay una falla inyectada) se deshacen
// todas sus escrituras; los bloqueos se liberan siempre.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos ports.Repos) error) error {
	t := &tx{held: make(map[string]chan struct{})}
	defer s.release(t)

	if err := fn(ctx, s.repos(t)); err != nil {
		s.rollback(t)
		return err
	}
	if err := s.takeFault(); err != nil {
		s.rollback(t)
		return err
	}
	return nil
}

func (s *Store) repos(t *tx) ports.Repos {
	ss := session{s: s, tx: t}
	return ports.Repos{
		Stock:     &stockRepo{ss},
		Movements: &movementRepo{ss},
		Orders:    &orderRepo{ss},
		Payments:  &paymentRepo{ss},
		Carts:     &cartRepo{ss},
		Loyalty:   &loyaltyRepo{ss},
		Audit:     &auditRepo{ss},
	}
}

func (s *Store) rollback(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (s *Store) release(t *tx) {
	for _, ch := range t.held {
		<-ch
	}
	t.held = nil
}

// FailNextCommits hace que las próximas transacciones fallen al confirmar con los errores dados
// (uno por transacción). Sirve para probar reintentos y rollback.
func (s *Store) FailNextCommits(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, errs...)
}

func (s *Store) takeFault() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.faults) == 0 {
		return nil
	}
	err := s.faults[0]
	s.faults = s.faults[1:]
	return err
}

// lock adquiere el bloqueo de fila para la transacción; es reentrante dentro de la misma tx.
// Sin transacción no bloquea.
func (ss session) lock(ctx context.Context, key string) error {
	if ss.tx == nil {
		return nil
	}
	if _, ok := ss.tx.held[key]; ok {
		return nil
	}
	ss.s.mu.Lock()
	ch, ok := ss.s.rowLocks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		ss.s.rowLocks[key] = ch
	}
	ss.s.mu.Unlock()

	timer := time.NewTimer(ss.s.lockTimeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		ss.tx.held[key] = ch
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("bloqueo %s: %w", key, domain.ErrConcurrencyConflict)
	}
}

// onRollback registra cómo deshacer una escritura; se llama con s.mu tomado.
func (ss session) onRollback(fn func()) {
	if ss.tx != nil {
		ss.tx.undo = append(ss.tx.undo, fn)
	}
}

func stockLockKey(k entity.StockKey) string { return "stock:" + k.BranchID + "|" + k.VariantID }

// Repositorios sin transacción (lecturas y datos de referencia).

func (s *Store) BranchRepo() *BranchRepository   { return &BranchRepository{s: s} }
func (s *Store) AddressRepo() *AddressRepository { return &AddressRepository{s: s} }
func (s *Store) StockRepo() repository.StockRepository {
	return &stockRepo{session{s: s}}
}
func (s *Store) MovementRepo() repository.StockMovementRepository {
	return &movementRepo{session{s: s}}
}
func (s *Store) OrderRepo() repository.OrderRepository {
	return &orderRepo{session{s: s}}
}
func (s *Store) PaymentRepo() repository.PaymentRepository {
	return &paymentRepo{session{s: s}}
}

// Datos semilla.

// PutBranch registra o reemplaza una sucursal.
func (s *Store) PutBranch(b entity.Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches[b.ID] = &b
}

// PutAddress registra una dirección de envío.
func (s *Store) PutAddress(a entity.ShippingAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[a.ID] = &a
}

// PutCart registra un carrito (abierto si no trae estado).
func (s *Store) PutCart(c entity.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Status == "" {
		c.Status = entity.CartStatusOpen
	}
	s.carts[c.ID] = cloneCart(&c)
}

// PutStock fija el stock inicial de una variante en una sucursal y deja la entrada en el kardex.
func (s *Store) PutStock(branchID, variantID string, quantity, minStock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	key := entity.StockKey{BranchID: branchID, VariantID: variantID}
	prev := 0
	if rec, ok := s.stock[key]; ok {
		prev = rec.Quantity
	}
	s.stock[key] = &entity.InventoryRecord{BranchID: branchID, VariantID: variantID, Quantity: quantity, MinStock: minStock, UpdatedAt: now}
	kind, delta := entity.MovementKindEntry, quantity-prev
	if delta < 0 {
		kind, delta = entity.MovementKindAdjustmentOut, -delta
	}
	if delta > 0 {
		s.movements = append(s.movements, &entity.StockMovement{
			ID: fmt.Sprintf("seed-%d", len(s.movements)+1), BranchID: branchID, VariantID: variantID,
			Kind: kind, Quantity: delta, SourceType: entity.MovementSourceManual, SourceID: "seed", Actor: "seed", CreatedAt: now,
		})
	}
}

// PutLoyalty fija el saldo de puntos de un cliente.
func (s *Store) PutLoyalty(customerID string, balance int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loyalty[customerID] = &entity.LoyaltyAccount{CustomerID: customerID, Balance: balance, UpdatedAt: time.Now()}
}

// Consultas para tests y diagnóstico.

// StockQuantity stock actual del par (sucursal, variante).
func (s *Store) StockQuantity(branchID, variantID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.stock[entity.StockKey{BranchID: branchID, VariantID: variantID}]; ok {
		return rec.Quantity
	}
	return 0
}

// LoyaltyBalance saldo de puntos de un cliente.
func (s *Store) LoyaltyBalance(customerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.loyalty[customerID]; ok {
		return acc.Balance
	}
	return 0
}

// CartStatus estado del carrito ("" si no existe).
func (s *Store) CartStatus(id string) entity.CartStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[id]; ok {
		return c.Status
	}
	return ""
}

// Movements copia del kardex completo en orden de inserción.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockMovement, len(s.movements))
	for i, m := range s.movements {
		out[i] = *m
	}
	return out
}

// Orders copia de todos los pedidos en orden de creación.
func (s *Store) Orders() []entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Order, 0, len(s.orderSeq))
	for _, id := range s.orderSeq {
		out = append(out, *cloneOrder(s.orders[id]))
	}
	return out
}

// AuditEntries copia del registro de auditoría.
func (s *Store) AuditEntries() []entity.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.AuditEntry, len(s.audit))
	for i, e := range s.audit {
		out[i] = *e
	}
	return out
}

func sortedStockKeys(m map[entity.StockKey]*entity.InventoryRecord) []entity.StockKey {
	keys := make([]entity.StockKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	if o.CancelledAt != nil {
		at := *o.CancelledAt
		c.CancelledAt = &at
	}
	return &c
}

func cloneCart(c *entity.Cart) *entity.Cart {
	out := *c
	out.Lines = append([]entity.CartLine(nil), c.Lines...)
	return &out
}
