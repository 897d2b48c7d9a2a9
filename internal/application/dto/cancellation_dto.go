package dto

import "github.com/shopspring/decimal"

// CancelOrderRequest body para POST /api/orders/:id/cancel. Confirm debe ser true.
type CancelOrderRequest struct {
	Reason  string `json:"reason"`
	Confirm bool   `json:"confirm"`
}

// CancellationPreviewResponse impacto de cancelar, sin efectos.
type CancellationPreviewResponse struct {
	OrderID            string          `json:"order_id"`
	OrderStatus        string          `json:"order_status"`
	ReintegratesStock  bool            `json:"reintegrates_stock"`
	LinesToReintegrate int             `json:"lines_to_reintegrate"`
	UnitsToReintegrate int             `json:"units_to_reintegrate"`
	RefundImplied      bool            `json:"refund_implied"`
	PaymentStatus      string          `json:"payment_status,omitempty"`
	NextPaymentStatus  string          `json:"next_payment_status,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	PointsToRestore    int             `json:"points_to_restore"`
	PointsToRevoke     int             `json:"points_to_revoke"`
	Advisories         []string        `json:"advisories"`
}

// CancellationResult resultado de ejecutar la cancelación.
type CancellationResult struct {
	OrderID           string `json:"order_id"`
	Success           bool   `json:"success"`
	NoOp              bool   `json:"no_op"`
	Status            string `json:"status"`
	PaymentStatus     string `json:"payment_status,omitempty"`
	UnitsReintegrated int    `json:"units_reintegrated"`
	LinesReversed     int    `json:"lines_reversed"`
	LinesSkipped      int    `json:"lines_skipped"`
	PointsRestored    int    `json:"points_restored"`
	PointsRevoked     int    `json:"points_revoked"`
	Summary           string `json:"summary"`
}
