package fulfillment

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/omnicanal-api/internal/domain"
)

// LoyaltyRules configuración del programa de puntos.
type LoyaltyRules struct {
	Active               bool
	EarnCurrencyPerPoint decimal.Decimal // monto de compra que otorga un punto (100 → 1 punto por cada 100)
	ValuePerPoint        decimal.Decimal // valor en moneda de un punto canjeado
	MinPurchase          decimal.Decimal // subtotal mínimo para canjear
	MaxPercent           decimal.Decimal // % máximo del subtotal canjeable (0 = 100 %)
	MaxAmount            decimal.Decimal // tope absoluto del descuento (0 = sin tope)
}

// PointsEarned puntos que otorga un subtotal: floor(subtotal / EarnCurrencyPerPoint).
func (r LoyaltyRules) PointsEarned(subtotal decimal.Decimal) int {
	if !r.Active || r.EarnCurrencyPerPoint.Sign() <= 0 || subtotal.Sign() <= 0 {
		return 0
	}
	return int(subtotal.Div(r.EarnCurrencyPerPoint).Floor().IntPart())
}

// Motivos por los que no se puede canjear.
const (
	ReasonProgramInactive     = "el programa de lealtad no está activo"
	ReasonInsufficientBalance = "saldo de puntos insuficiente"
	ReasonBelowMinPurchase    = "el subtotal no alcanza la compra mínima para canjear"
)

// RedemptionLimit tope de descuento canjeable y si el canje procede.
type RedemptionLimit struct {
	Cap    decimal.Decimal
	Usable bool
	Reason string
}

// ComputeRedemptionLimit rechaza si el programa está inactivo, el saldo no cubre los puntos pedidos
// o el subtotal está bajo el mínimo; si procede, cap = min(saldo × valor, subtotal × %máx/100, tope).
func ComputeRedemptionLimit(requestedPoints, balance int, subtotal decimal.Decimal, rules LoyaltyRules) RedemptionLimit {
	if !rules.Active {
		return RedemptionLimit{Cap: decimal.Zero, Reason: ReasonProgramInactive}
	}
	if balance <= 0 || requestedPoints > balance {
		return RedemptionLimit{Cap: decimal.Zero, Reason: ReasonInsufficientBalance}
	}
	if subtotal.LessThan(rules.MinPurchase) {
		return RedemptionLimit{Cap: decimal.Zero, Reason: ReasonBelowMinPurchase}
	}
	limit := decimal.NewFromInt(int64(balance)).Mul(rules.ValuePerPoint)
	pct := rules.MaxPercent
	if pct.Sign() <= 0 {
		pct = decimal.NewFromInt(100)
	}
	limit = decimal.Min(limit, subtotal.Mul(pct).Div(decimal.NewFromInt(100)))
	if rules.MaxAmount.Sign() > 0 {
		limit = decimal.Min(limit, rules.MaxAmount)
	}
	return RedemptionLimit{Cap: limit, Usable: true}
}

// Redemption canje efectivo tras aplicar los topes.
type Redemption struct {
	Points   int
	Discount decimal.Decimal
}

// ResolveRedemption limita los puntos pedidos al tope, recalcula el descuento a partir de los puntos
// limitados y vuelve a limitarlo al subtotal. Sin puntos pedidos no hay canje ni error.
func ResolveRedemption(requestedPoints, balance int, subtotal decimal.Decimal, rules LoyaltyRules) (Redemption, error) {
	none := Redemption{Discount: decimal.Zero}
	if requestedPoints < 0 {
		return none, domain.ErrInvalidInput
	}
	if requestedPoints == 0 {
		return none, nil
	}
	lim := ComputeRedemptionLimit(requestedPoints, balance, subtotal, rules)
	if !lim.Usable {
		return none, &domain.InvalidRedemptionError{Reason: lim.Reason}
	}
	if rules.ValuePerPoint.Sign() <= 0 {
		return none, &domain.InvalidRedemptionError{Reason: "valor por punto no configurado"}
	}
	maxPoints := int(lim.Cap.Div(rules.ValuePerPoint).Floor().IntPart())
	points := min(requestedPoints, maxPoints)
	discount := decimal.NewFromInt(int64(points)).Mul(rules.ValuePerPoint)
	discount = decimal.Min(discount, subtotal)
	return Redemption{Points: points, Discount: RoundHalfUp(discount, 2)}, nil
}
