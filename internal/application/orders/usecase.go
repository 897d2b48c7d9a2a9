package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/omnicanal-api/internal/application/dto"
	"github.com/jhoicas/omnicanal-api/internal/application/ports"
	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
	"github.com/jhoicas/omnicanal-api/pkg/logger"
)

// UseCase lectura de pedidos y transiciones administrativas de estado.
type UseCase struct {
	txRunner    ports.TxRunner
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	notifier    ports.Notifier
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
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
		now:         time.Now,
	}
}

// GetOrder devuelve el pedido con líneas y pago. Un cliente solo ve sus pedidos.
func (uc *UseCase) GetOrder(ctx context.Context, actor dto.Actor, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.IsAdmin() && order.CustomerID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.orderRepo.ListLineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	payment, err := uc.paymentRepo.GetByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(order, items, payment)
	return &resp, nil
}

// TransitionStatus aplica una transición administrativa validada por la máquina de estados.
// La cancelación no pasa por aquí porque requiere compensación.
// PENDING_VERIFICATION → PAID aprueba el pago pendiente (comprobante verificado).
func (uc *UseCase) TransitionStatus(ctx context.Context, actor dto.Actor, id string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	target, ok := entity.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	if target == entity.OrderStatusCancelled {
		return nil, fmt.Errorf("use la cancelación del pedido: %w", domain.ErrInvalidTransition)
	}

	var order *entity.Order
	var from entity.OrderStatus
	err := ports.RunWithRetry(ctx, uc.log, "order_transition", func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(ctx context.Context, r ports.Repos) error {
			var err error
			order, err = r.Orders.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if order == nil {
				return domain.ErrNotFound
			}
			from = order.Status
			if !from.CanTransitionTo(target) {
				return fmt.Errorf("%s → %s: %w", from, target, domain.ErrInvalidTransition)
			}
			now := uc.now()
			if target == entity.OrderStatusPaid {
				payment, err := r.Payments.GetByOrderID(ctx, id)
				if err != nil {
					return err
				}
				if payment != nil && payment.Status == entity.PaymentStatusPending {
					payment.Status = entity.PaymentStatusApproved
					payment.UpdatedAt = now
					if err := r.Payments.UpdateStatus(ctx, payment); err != nil {
						return err
					}
				}
			}
			order.Status = target
			order.UpdatedAt = now
			if err := r.Orders.Update(ctx, order); err != nil {
				return err
			}
			detail, _ := json.Marshal(map[string]string{"from": string(from), "to": string(target)})
			return r.Audit.Create(ctx, &entity.AuditEntry{
				ID:         uuid.NewString(),
				Action:     entity.AuditActionOrderStatusChanged,
				EntityType: "order",
				EntityID:   id,
				Actor:      actor.UserID,
				Detail:     detail,
				CreatedAt:  now,
			})
		})
	})
	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		ev := entity.OrderEvent{
			Type:        entity.OrderEventStatusChanged,
			OrderID:     order.ID,
			OrderNumber: order.Number,
			CheckoutID:  order.CheckoutID,
			CustomerID:  order.CustomerID,
			BranchID:    order.BranchID,
			FromStatus:  from,
			ToStatus:    target,
			GrandTotal:  order.GrandTotal,
			Actor:       actor.UserID,
			OccurredAt:  order.UpdatedAt,
		}
		if err := uc.notifier.Publish(ctx, ev); err != nil {
			uc.log.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("no se pudo publicar el cambio de estado")
		}
	}
	return uc.GetOrder(ctx, actor, id)
}
