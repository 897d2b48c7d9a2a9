package dto

import "github.com/shopspring/decimal"

// CheckoutRequest body para POST /api/checkout.
type CheckoutRequest struct {
	CartID         string `json:"cart_id"`
	AddressID      string `json:"address_id"`
	ShippingMethod string `json:"shipping_method"`
	PaymentMethod  string `json:"payment_method"`
	PointsToRedeem int    `json:"points_to_redeem"`
}

// CheckoutResponse resultado del checkout: un pedido por sucursal, el primero es el principal.
type CheckoutResponse struct {
	CheckoutID      string          `json:"checkout_id"`
	PrimaryOrderID  string          `json:"primary_order_id"`
	Strategy        string          `json:"allocation_strategy"`
	CartSubtotal    decimal.Decimal `json:"cart_subtotal"`
	ShippingMethod  string          `json:"shipping_method"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	LoyaltyDiscount decimal.Decimal `json:"loyalty_discount"`
	PointsRedeemed  int             `json:"points_redeemed"`
	PointsEarned    int             `json:"points_earned"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	Orders          []OrderResponse `json:"orders"`
}
