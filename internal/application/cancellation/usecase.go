package cancellation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
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

// UseCase vista previa y ejecución de cancelaciones con compensación de stock, pago y puntos.
type UseCase struct {
	txRunner    ports.TxRunner
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	notifier    ports.Notifier
	log         *logger.Logger
	tracer      trace.Tracer
	now         func() time.Time
	newID       func() string
}

// NewUseCase construye el caso de uso. orderRepo y paymentRepo son de lectura (fuera de transacción).
func NewUseCase(
	txRunner ports.TxRunner,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	notifier ports.Notifier,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		notifier:    notifier,
		log:         log,
		tracer:      otel.Tracer("omnicanal-api/cancellation"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func canAccess(actor dto.Actor, order *entity.Order) error {
	if actor.IsAdmin() || order.CustomerID == actor.UserID {
		return nil
	}
	return domain.ErrForbidden
}

// Preview calcula el impacto de cancelar sin efectos secundarios.
func (uc *UseCase) Preview(ctx context.Context, actor dto.Actor, orderID string) (*dto.CancellationPreviewResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if err := canAccess(actor, order); err != nil {
		return nil, err
	}
	items, err := uc.orderRepo.ListLineItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payment, err := uc.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	impact, err := fulfillment.PreviewCancellation(order, items, payment)
	if err != nil {
		return nil, err
	}
	return &dto.CancellationPreviewResponse{
		OrderID:            impact.OrderID,
		OrderStatus:        string(impact.OrderStatus),
		ReintegratesStock:  impact.ReintegratesStock,
		LinesToReintegrate: impact.LinesToReintegrate,
		UnitsToReintegrate: impact.UnitsToReintegrate,
		RefundImplied:      impact.RefundImplied,
		PaymentStatus:      string(impact.PaymentStatus),
		NextPaymentStatus:  string(impact.NextPaymentStatus),
		Amount:             impact.Amount,
		PointsToRestore:    impact.PointsToRestore,
		PointsToRevoke:     impact.PointsToRevoke,
		Advisories:         impact.Advisories,
	}, nil
}

// Cancel ejecuta la cancelación. Requiere motivo y confirmación explícita.
// Una segunda cancelación devuelve *domain.CannotCancelError con NoOp=true y no produce movimientos.
func (uc *UseCase) Cancel(ctx context.Context, actor dto.Actor, orderID string, in dto.CancelOrderRequest) (res *dto.CancellationResult, err error) {
	ctx, span := uc.tracer.Start(ctx, "cancel_order")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("order.id", orderID))

	reason := strings.TrimSpace(in.Reason)
	if orderID == "" || reason == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Confirm {
		return nil, domain.ErrConfirmationRequired
	}

	var (
		order      *entity.Order
		fromStatus entity.OrderStatus
	)
	err = ports.RunWithRetry(ctx, uc.log, "cancel_order", func(ctx context.Context) error {
		res = &dto.CancellationResult{OrderID: orderID}
		return uc.txRunner.Run(ctx, func(ctx context.Context, r ports.Repos) error {
			var err error
			order, err = r.Orders.GetForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			if order == nil {
				return domain.ErrNotFound
			}
			if err := canAccess(actor, order); err != nil {
				return err
			}
			// Revalidación con la fila bloqueada
			if err := fulfillment.CheckCancellable(order.Status); err != nil {
				return err
			}
			fromStatus = order.Status
			now := uc.now()

			if fulfillment.ReintegratesStock(order.Status) {
				if err := uc.reintegrate(ctx, r, order, actor.UserID, now, res); err != nil {
					return err
				}
			}

			payment, err := r.Payments.GetByOrderID(ctx, order.ID)
			if err != nil {
				return err
			}
			if payment != nil {
				if next, changed := fulfillment.NextPaymentStatus(payment.Status); changed {
					payment.Status = next
					payment.UpdatedAt = now
					if err := r.Payments.UpdateStatus(ctx, payment); err != nil {
						return err
					}
				}
				res.PaymentStatus = string(payment.Status)
			}

			if order.PointsRedeemed > 0 || order.PointsEarned > 0 {
				acc, err := r.Loyalty.GetForUpdate(ctx, order.CustomerID)
				if err != nil {
					return err
				}
				res.PointsRestored = order.PointsRedeemed
				res.PointsRevoked = min(order.PointsEarned, acc.Balance+order.PointsRedeemed)
				acc.Balance += res.PointsRestored - res.PointsRevoked
				acc.UpdatedAt = now
				if err := r.Loyalty.Upsert(ctx, acc); err != nil {
					return err
				}
			}

			order.Status = entity.OrderStatusCancelled
			order.CancelReason = reason
			order.CancelledAt = &now
			order.CancelledBy = actor.UserID
			order.UpdatedAt = now
			if err := r.Orders.Update(ctx, order); err != nil {
				return err
			}

			detail, _ := json.Marshal(map[string]any{
				"from_status":        fromStatus,
				"reason":             reason,
				"units_reintegrated": res.UnitsReintegrated,
				"lines_reversed":     res.LinesReversed,
				"lines_skipped":      res.LinesSkipped,
				"payment_status":     res.PaymentStatus,
				"points_restored":    res.PointsRestored,
				"points_revoked":     res.PointsRevoked,
			})
			return r.Audit.Create(ctx, &entity.AuditEntry{
				ID:         uc.newID(),
				Action:     entity.AuditActionOrderCancelled,
				EntityType: "order",
				EntityID:   order.ID,
				Actor:      actor.UserID,
				Detail:     detail,
				CreatedAt:  now,
			})
		})
	})
	if err != nil {
		var ce *domain.CannotCancelError
		if errors.As(err, &ce) && ce.NoOp {
			uc.log.Ctx(ctx).Info().Str("order_id", orderID).Msg("cancelación repetida, sin efectos")
		}
		return nil, err
	}

	res.Success = true
	res.Status = string(entity.OrderStatusCancelled)
	res.Summary = summary(res)
	span.SetAttributes(attribute.Int("stock.units_reintegrated", res.UnitsReintegrated))
	span.SetStatus(codes.Ok, "pedido cancelado")

	if uc.notifier != nil {
		ev := entity.OrderEvent{
			Type:        entity.OrderEventStatusChanged,
			OrderID:     order.ID,
			OrderNumber: order.Number,
			CheckoutID:  order.CheckoutID,
			CustomerID:  order.CustomerID,
			BranchID:    order.BranchID,
			FromStatus:  fromStatus,
			ToStatus:    entity.OrderStatusCancelled,
			GrandTotal:  order.GrandTotal,
			Reason:      reason,
			Actor:       actor.UserID,
			OccurredAt:  *order.CancelledAt,
		}
		if err := uc.notifier.Publish(ctx, ev); err != nil {
			uc.log.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("no se pudo publicar la cancelación")
		}
	}
	return res, nil
}

// reintegrate devuelve al inventario las unidades de cada línea según su snapshot de asignación,
// bloqueando las filas en orden global. Las líneas sin snapshot o sin registro se omiten y se cuentan.
func (uc *UseCase) reintegrate(ctx context.Context, r ports.Repos, order *entity.Order, actor string, now time.Time, res *dto.CancellationResult) error {
	items, err := r.Orders.ListLineItems(ctx, order.ID)
	if err != nil {
		return err
	}
	var keys []entity.StockKey
	for _, it := range items {
		if it.AllocatedBranchID != "" {
			keys = append(keys, entity.StockKey{BranchID: it.AllocatedBranchID, VariantID: it.VariantID})
		}
	}
	fulfillment.SortKeys(keys)
	records, err := r.Stock.LockMany(ctx, keys)
	if err != nil {
		return err
	}
	for _, it := range items {
		rec, ok := records[entity.StockKey{BranchID: it.AllocatedBranchID, VariantID: it.VariantID}]
		if it.AllocatedBranchID == "" || !ok || it.Quantity <= 0 {
			res.LinesSkipped++
			uc.log.Ctx(ctx).Warn().Str("order_id", order.ID).Str("variant_id", it.VariantID).
				Msg("línea sin snapshot o sin registro de inventario, no se reintegra")
			continue
		}
		if err := inventory.Apply(rec, entity.MovementKindReturn, it.Quantity, now); err != nil {
			return err
		}
		if err := r.Stock.Upsert(ctx, rec); err != nil {
			return err
		}
		mov := inventory.NewMovement(uc.newID(), rec, entity.MovementKindReturn, it.Quantity,
			entity.MovementSourceCancellation, order.ID, actor, now)
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}
		res.LinesReversed++
		res.UnitsReintegrated += it.Quantity
	}
	return nil
}

func summary(res *dto.CancellationResult) string {
	s := fmt.Sprintf("pedido cancelado; %d unidades reintegradas en %d líneas", res.UnitsReintegrated, res.LinesReversed)
	if res.LinesSkipped > 0 {
		s += fmt.Sprintf(" (%d líneas omitidas)", res.LinesSkipped)
	}
	if res.PaymentStatus != "" {
		s += "; pago " + res.PaymentStatus
	}
	return s
}
