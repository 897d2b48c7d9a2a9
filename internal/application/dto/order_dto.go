package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
)

// OrderLineResponse línea de pedido con su snapshot de asignación.
type OrderLineResponse struct {
	ID                string          `json:"id"`
	VariantID         string          `json:"variant_id"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LineSubtotal      decimal.Decimal `json:"line_subtotal"`
	LineTax           decimal.Decimal `json:"line_tax"`
	AllocatedBranchID string          `json:"allocated_branch_id"`
}

// PaymentResponse pago del pedido.
type PaymentResponse struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
}

// OrderResponse modelo de lectura del pedido (pedido + líneas + pago).
type OrderResponse struct {
	ID              string              `json:"id"`
	Number          string              `json:"number"`
	CheckoutID      string              `json:"checkout_id"`
	CustomerID      string              `json:"customer_id"`
	BranchID        string              `json:"branch_id"`
	AddressID       string              `json:"address_id"`
	Status          string              `json:"status"`
	PaymentMethod   string              `json:"payment_method"`
	ShippingMethod  string              `json:"shipping_method"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
	LoyaltyDiscount decimal.Decimal     `json:"loyalty_discount"`
	PointsRedeemed  int                 `json:"points_redeemed"`
	TaxTotal        decimal.Decimal     `json:"tax_total"`
	GrandTotal      decimal.Decimal     `json:"grand_total"`
	PointsEarned    int                 `json:"points_earned"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CancelledBy     string              `json:"cancelled_by,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	Lines           []OrderLineResponse `json:"lines"`
	Payment         *PaymentResponse    `json:"payment,omitempty"`
}

// UpdateOrderStatusRequest body para PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// NewOrderResponse arma el modelo de lectura a partir de las entidades.
func NewOrderResponse(o *entity.Order, items []*entity.OrderLineItem, p *entity.Payment) OrderResponse {
	out := OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		CheckoutID:      o.CheckoutID,
		CustomerID:      o.CustomerID,
		BranchID:        o.BranchID,
		AddressID:       o.AddressID,
		Status:          string(o.Status),
		PaymentMethod:   string(o.PaymentMethod),
		ShippingMethod:  o.ShippingMethod,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		LoyaltyDiscount: o.LoyaltyDiscount,
		PointsRedeemed:  o.PointsRedeemed,
		TaxTotal:        o.TaxTotal,
		GrandTotal:      o.GrandTotal,
		PointsEarned:    o.PointsEarned,
		CancelReason:    o.CancelReason,
		CancelledAt:     o.CancelledAt,
		CancelledBy:     o.CancelledBy,
		CreatedAt:       o.CreatedAt,
		Lines:           make([]OrderLineResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Lines = append(out.Lines, OrderLineResponse{
			ID:                it.ID,
			VariantID:         it.VariantID,
			Quantity:          it.Quantity,
			UnitPrice:         it.UnitPrice,
			LineSubtotal:      it.LineSubtotal,
			LineTax:           it.LineTax,
			AllocatedBranchID: it.AllocatedBranchID,
		})
	}
	if p != nil {
		out.Payment = &PaymentResponse{ID: p.ID, Method: string(p.Method), Amount: p.Amount, Status: string(p.Status)}
	}
	return out
}
