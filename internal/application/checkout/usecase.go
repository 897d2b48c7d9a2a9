package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/omnicanal-api/internal/application/dto"
	"github.com/jhoicas/omnicanal-api/internal/application/ports"
	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/fulfillment"
	"github.com/jhoicas/omnicanal-api/internal/domain/inventory"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
	"github.com/jhoicas/omnicanal-api/pkg/logger"
)

// UseCase convierte un carrito pendiente en uno o más pedidos confirmados.
// Todo el intento ocurre en una sola transacción: bloqueo del carrito, bloqueo ordenado de las filas
// de inventario candidatas, asignación, pedidos, pagos, kardex y puntos. Cualquier fallo revierte todo.
type UseCase struct {
	txRunner     ports.TxRunner
	branchRepo   repository.BranchRepository
	addressRepo  repository.AddressRepository
	notifier     ports.Notifier
	strategy     fulfillment.Strategy
	materializer *fulfillment.Materializer
	log          *logger.Logger
	tracer       trace.Tracer
	now          func() time.Time
	newID        func() string
}

// NewUseCase construye el caso de uso. strategy nil equivale a línea completa.
func NewUseCase(
	txRunner ports.TxRunner,
	branchRepo repository.BranchRepository,
	addressRepo repository.AddressRepository,
	notifier ports.Notifier,
	strategy fulfillment.Strategy,
	materializer *fulfillment.Materializer,
	log *logger.Logger,
) *UseCase {
	if strategy == nil {
		strategy = fulfillment.WholeLineStrategy{}
	}
	return &UseCase{
		txRunner:     txRunner,
		branchRepo:   branchRepo,
		addressRepo:  addressRepo,
		notifier:     notifier,
		strategy:     strategy,
		materializer: materializer,
		log:          log,
		tracer:       otel.Tracer("omnicanal-api/checkout"),
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Checkout ejecuta el checkout del carrito del cliente.
func (uc *UseCase) Checkout(ctx context.Context, customerID string, in dto.CheckoutRequest) (resp *dto.CheckoutResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "checkout")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	method, ok := entity.ParsePaymentMethod(strings.ToUpper(strings.TrimSpace(in.PaymentMethod)))
	if customerID == "" || in.CartID == "" || !ok || in.PointsToRedeem < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.AddressID == "" {
		return nil, domain.ErrInvalidAddress
	}
	address, err := uc.addressRepo.GetByID(ctx, in.AddressID)
	if err != nil {
		return nil, err
	}
	if address == nil || address.CustomerID != customerID {
		return nil, domain.ErrInvalidAddress
	}
	branches, err := uc.branchRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := fulfillment.SelectBranches(address, branches)
	if err != nil {
		return nil, err
	}
	branchByID := make(map[string]*entity.Branch, len(candidates))
	for _, b := range candidates {
		branchByID[b.ID] = b
	}

	checkoutID := uc.newID()
	span.SetAttributes(
		attribute.String("checkout.id", checkoutID),
		attribute.String("cart.id", in.CartID),
		attribute.String("allocation.strategy", uc.strategy.Name()),
		attribute.Int("branch.candidates", len(candidates)),
	)

	var result *fulfillment.Materialization
	var plan fulfillment.Plan
	var lowStock []*entity.InventoryRecord
	err = ports.RunWithRetry(ctx, uc.log, "checkout", func(ctx context.Context) error {
		lowStock = nil
		return uc.txRunner.Run(ctx, func(ctx context.Context, r ports.Repos) error {
			cart, err := r.Carts.GetForUpdate(ctx, in.CartID)
			if err != nil {
				return err
			}
			if cart == nil {
				return domain.ErrNotFound
			}
			if cart.CustomerID != customerID {
				return domain.ErrForbidden
			}
			if cart.Status != entity.CartStatusOpen {
				return domain.ErrCartClosed
			}
			if len(cart.Lines) == 0 {
				return domain.ErrEmptyCart
			}

			// Bloqueo de todas las filas candidatas en orden global (branch_id, variant_id)
			records, err := r.Stock.LockMany(ctx, fulfillment.LockKeys(cart.Lines, candidates))
			if err != nil {
				return err
			}
			snapshot := make(fulfillment.StockSnapshot, len(records))
			for k, rec := range records {
				snapshot[k] = rec.Quantity
			}
			plan, err = uc.strategy.Allocate(cart.Lines, candidates, snapshot)
			if err != nil {
				return err
			}

			var account *entity.LoyaltyAccount
			balance := 0
			if in.PointsToRedeem > 0 || uc.materializer.Loyalty.Active {
				account, err = r.Loyalty.GetForUpdate(ctx, customerID)
				if err != nil {
					return err
				}
				balance = account.Balance
			}

			now := uc.now()
			result, err = uc.materializer.Materialize(fulfillment.MaterializeInput{
				CheckoutID:      checkoutID,
				CustomerID:      customerID,
				AddressID:       address.ID,
				Lines:           cart.Lines,
				Plan:            plan,
				Branches:        branchByID,
				ShippingMethod:  in.ShippingMethod,
				PaymentMethod:   method,
				RequestedPoints: in.PointsToRedeem,
				PointsBalance:   balance,
				Now:             now,
				NewID:           uc.newID,
			})
			if err != nil {
				return err
			}

			// Descuento de stock y kardex sobre las filas ya bloqueadas
			for _, a := range plan.Allocations {
				rec, ok := records[a.Key()]
				if !ok {
					return &domain.InsufficientStockError{VariantID: a.VariantID, LineIndex: a.LineIndex, Requested: a.Quantity}
				}
				if err := inventory.Apply(rec, entity.MovementKindExit, a.Quantity, now); err != nil {
					return &domain.InsufficientStockError{VariantID: a.VariantID, LineIndex: a.LineIndex, Requested: a.Quantity}
				}
				if err := r.Stock.Upsert(ctx, rec); err != nil {
					return err
				}
				mov := inventory.NewMovement(uc.newID(), rec, entity.MovementKindExit, a.Quantity,
					entity.MovementSourceCheckout, checkoutID, customerID, now)
				if err := r.Movements.Create(ctx, mov); err != nil {
					return err
				}
			}
			for _, rec := range records {
				if rec.BelowMinimum() && snapshot[rec.Key()] != rec.Quantity {
					lowStock = append(lowStock, rec)
				}
			}

			for _, d := range result.Orders {
				if err := r.Orders.Create(ctx, d.Order); err != nil {
					return err
				}
				for _, it := range d.Items {
					if err := r.Orders.CreateLineItem(ctx, it); err != nil {
						return err
					}
				}
				if err := r.Payments.Create(ctx, d.Payment); err != nil {
					return err
				}
			}

			if err := r.Carts.UpdateStatus(ctx, cart.ID, entity.CartStatusClosed); err != nil {
				return err
			}

			if account != nil && (result.Redemption.Points > 0 || result.PointsEarned > 0) {
				account.Balance = account.Balance - result.Redemption.Points + result.PointsEarned
				account.UpdatedAt = now
				if err := r.Loyalty.Upsert(ctx, account); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			span.SetAttributes(attribute.String("stock.variant_id", stockErr.VariantID))
		}
		return nil, err
	}

	for _, rec := range lowStock {
		uc.log.Ctx(ctx).Warn().
			Str("branch_id", rec.BranchID).
			Str("variant_id", rec.VariantID).
			Int("quantity", rec.Quantity).
			Int("min_stock", rec.MinStock).
			Msg("stock en o por debajo del mínimo")
	}

	primary := result.Orders[0].Order
	uc.publish(ctx, entity.OrderEvent{
		Type:        entity.OrderEventPlaced,
		OrderID:     primary.ID,
		OrderNumber: primary.Number,
		CheckoutID:  checkoutID,
		CustomerID:  customerID,
		BranchID:    primary.BranchID,
		ToStatus:    primary.Status,
		GrandTotal:  primary.GrandTotal,
		Actor:       customerID,
		OccurredAt:  primary.CreatedAt,
	})

	span.SetAttributes(attribute.Int("orders.count", len(result.Orders)))
	span.SetStatus(codes.Ok, "checkout confirmado")
	uc.log.Ctx(ctx).Info().
		Str("checkout_id", checkoutID).
		Str("customer_id", customerID).
		Int("orders", len(result.Orders)).
		Msg("checkout confirmado")

	return toResponse(checkoutID, plan.Strategy, result), nil
}

// publish envía la notificación sin afectar el resultado de la operación ya confirmada.
func (uc *UseCase) publish(ctx context.Context, ev entity.OrderEvent) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.Publish(ctx, ev); err != nil {
		uc.log.Ctx(ctx).Error().Err(err).Str("order_id", ev.OrderID).Str("checkout_id", ev.CheckoutID).
			Msg("no se pudo publicar la notificación del pedido")
	}
}

func toResponse(checkoutID, strategy string, m *fulfillment.Materialization) *dto.CheckoutResponse {
	resp := &dto.CheckoutResponse{
		CheckoutID:      checkoutID,
		PrimaryOrderID:  m.Orders[0].Order.ID,
		Strategy:        strategy,
		CartSubtotal:    m.CartSubtotal,
		ShippingMethod:  m.ShippingMethod,
		ShippingCost:    m.ShippingCost,
		LoyaltyDiscount: decimal.Zero,
		PointsRedeemed:  m.Redemption.Points,
		PointsEarned:    m.PointsEarned,
		GrandTotal:      decimal.Zero,
		Orders:          make([]dto.OrderResponse, 0, len(m.Orders)),
	}
	for _, d := range m.Orders {
		resp.GrandTotal = resp.GrandTotal.Add(d.Order.GrandTotal)
		resp.LoyaltyDiscount = resp.LoyaltyDiscount.Add(d.Order.LoyaltyDiscount)
		resp.Orders = append(resp.Orders, dto.NewOrderResponse(d.Order, d.Items, d.Payment))
	}
	return resp
}
