package fulfillment

import "github.com/shopspring/decimal"

// RoundHalfUp redondeo comercial. decimal.Round redondea la mitad alejándose de cero,
// que para montos no negativos es "half up".
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// IncludedTax IVA embebido en un monto con impuesto incluido: monto − monto/(1+tasa), a 2 decimales.
func IncludedTax(amount, rate decimal.Decimal) decimal.Decimal {
	if rate.Sign() <= 0 {
		return decimal.Zero
	}
	net := amount.Div(decimal.NewFromInt(1).Add(rate))
	return RoundHalfUp(amount.Sub(net), 2)
}

// SplitAmount reparte total proporcionalmente a weights. Todas las partes menos la última usan
// round_half_up(peso/Σpesos × total, 2) limitado al peso y a lo que queda por repartir; la última
// recibe el remanente (también limitado a su peso). Σ partes nunca supera total.
func SplitAmount(total decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(weights))
	sum := decimal.Zero
	for _, w := range weights {
		sum = sum.Add(w)
	}
	if len(weights) == 0 || sum.Sign() <= 0 || total.Sign() <= 0 {
		for i := range out {
			out[i] = decimal.Zero
		}
		return out
	}
	assigned := decimal.Zero
	last := len(weights) - 1
	for i := 0; i < last; i++ {
		share := RoundHalfUp(weights[i].Mul(total).Div(sum), 2)
		share = decimal.Min(share, weights[i], total.Sub(assigned))
		out[i] = share
		assigned = assigned.Add(share)
	}
	out[last] = decimal.Min(total.Sub(assigned), weights[last])
	return out
}

// SplitPoints reparte puntos enteros: floor(peso/Σpesos × total) para todas menos la última,
// que recibe el remanente exacto.
func SplitPoints(total int, weights []decimal.Decimal) []int {
	out := make([]int, len(weights))
	sum := decimal.Zero
	for _, w := range weights {
		sum = sum.Add(w)
	}
	if len(weights) == 0 || sum.Sign() <= 0 || total <= 0 {
		return out
	}
	t := decimal.NewFromInt(int64(total))
	assigned := 0
	last := len(weights) - 1
	for i := 0; i < last; i++ {
		share := int(weights[i].Mul(t).Div(sum).Floor().IntPart())
		out[i] = share
		assigned += share
	}
	out[last] = total - assigned
	return out
}
