package fulfillment

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ShippingStandard nombre del método por defecto.
const ShippingStandard = "standard"

// ShippingTable tabla fija método → precio (configuración, no datos de negocio persistidos).
type ShippingTable struct {
	prices   map[string]decimal.Decimal
	fallback string
}

// NewShippingTable construye la tabla; los nombres se comparan sin mayúsculas.
func NewShippingTable(prices map[string]decimal.Decimal) ShippingTable {
	t := ShippingTable{prices: make(map[string]decimal.Decimal, len(prices)), fallback: ShippingStandard}
	for name, price := range prices {
		t.prices[strings.ToLower(strings.TrimSpace(name))] = price
	}
	return t
}

// Resolve devuelve el método efectivo y su costo; un método desconocido cae en el estándar.
func (t ShippingTable) Resolve(method string) (string, decimal.Decimal) {
	key := strings.ToLower(strings.TrimSpace(method))
	if price, ok := t.prices[key]; ok {
		return key, price
	}
	return t.fallback, t.prices[t.fallback]
}
