package fulfillment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// CheckCancellable valida las precondiciones de cancelación. Devuelve *domain.CannotCancelError
// (rechazo de negocio esperado) o nil.
func CheckCancellable(status entity.OrderStatus) error {
	reject := func(code, reason string) error {
		return &domain.CannotCancelError{Status: string(status), Code: code, Reason: reason, NoOp: code == domain.CancelCodeAlreadyCancelled}
	}
	switch status {
	case entity.OrderStatusCancelled:
		return reject(domain.CancelCodeAlreadyCancelled, "el pedido ya fue cancelado")
	case entity.OrderStatusShipped:
		return reject(domain.CancelCodeAlreadyShipped, "el pedido ya fue enviado")
	case entity.OrderStatusDelivered:
		return reject(domain.CancelCodeDelivered, "el pedido ya fue entregado")
	case entity.OrderStatusClosed:
		return reject(domain.CancelCodeClosed, "el pedido está cerrado")
	}
	if !status.CanTransitionTo(entity.OrderStatusCancelled) {
		return reject("invalid_status", fmt.Sprintf("estado %s no admite cancelación", status))
	}
	return nil
}

// ReintegratesStock el stock se reintegra solo si el pedido está pagado o en preparación.
func ReintegratesStock(status entity.OrderStatus) bool {
	return status == entity.OrderStatusPaid || status == entity.OrderStatusInPreparation
}

// NextPaymentStatus APPROVED → REFUNDED, PENDING → CANCELLED; cualquier otro estado no cambia.
func NextPaymentStatus(status entity.PaymentStatus) (entity.PaymentStatus, bool) {
	switch status {
	case entity.PaymentStatusApproved:
		return entity.PaymentStatusRefunded, true
	case entity.PaymentStatusPending:
		return entity.PaymentStatusCancelled, true
	}
	return status, false
}

// RefundLag plazo estimado de reembolso por medio de pago.
func RefundLag(method entity.PaymentMethod) string {
	switch method {
	case entity.PaymentMethodCard:
		return "de 5 a 10 días hábiles según el banco emisor"
	case entity.PaymentMethodTransfer, entity.PaymentMethodSinpeMovil:
		return "de 1 a 3 días hábiles"
	case entity.PaymentMethodCash:
		return "inmediato en la sucursal"
	}
	return "según el medio de pago"
}

// CancellationImpact vista previa de los efectos de cancelar (sin efectos secundarios).
type CancellationImpact struct {
	OrderID            string
	OrderStatus        entity.OrderStatus
	ReintegratesStock  bool
	LinesToReintegrate int
	UnitsToReintegrate int
	RefundImplied      bool
	PaymentStatus      entity.PaymentStatus
	NextPaymentStatus  entity.PaymentStatus
	Amount             decimal.Decimal
	PointsToRestore    int
	PointsToRevoke     int
	Advisories         []string
}

// PreviewCancellation calcula el impacto de cancelar. Si el pedido no es cancelable devuelve el rechazo.
func PreviewCancellation(order *entity.Order, items []*entity.OrderLineItem, payment *entity.Payment) (*CancellationImpact, error) {
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if err := CheckCancellable(order.Status); err != nil {
		return nil, err
	}
	impact := &CancellationImpact{
		OrderID:           order.ID,
		OrderStatus:       order.Status,
		ReintegratesStock: ReintegratesStock(order.Status),
		Amount:            order.GrandTotal,
		PointsToRestore:   order.PointsRedeemed,
		PointsToRevoke:    order.PointsEarned,
	}
	if impact.ReintegratesStock {
		for _, it := range items {
			if it.AllocatedBranchID == "" {
				continue
			}
			impact.LinesToReintegrate++
			impact.UnitsToReintegrate += it.Quantity
		}
	}
	method := order.PaymentMethod
	if payment != nil {
		impact.PaymentStatus = payment.Status
		impact.NextPaymentStatus, _ = NextPaymentStatus(payment.Status)
		impact.RefundImplied = payment.Status == entity.PaymentStatusApproved
		impact.Amount = payment.Amount
		method = payment.Method
	}
	impact.Advisories = append(impact.Advisories,
		"monto del pedido: "+impact.Amount.StringFixed(2),
		"medio de pago: "+string(method),
	)
	if impact.RefundImplied {
		impact.Advisories = append(impact.Advisories, "reembolso estimado: "+RefundLag(method))
	}
	if impact.ReintegratesStock {
		impact.Advisories = append(impact.Advisories, fmt.Sprintf("se reintegrarán %d unidades al inventario", impact.UnitsToReintegrate))
	} else {
		impact.Advisories = append(impact.Advisories, "el inventario no se reintegra en el estado actual")
	}
	return impact, nil
}
