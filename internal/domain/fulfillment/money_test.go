package fulfillment_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/omnicanal-api/internal/domain/fulfillment"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestIncludedTax_IVA13(t *testing.T) {
	assert.True(t, dec("1150.44").Equal(fulfillment.IncludedTax(dec("10000"), dec("0.13"))))
	assert.True(t, dec("690.27").Equal(fulfillment.IncludedTax(dec("6000"), dec("0.13"))))
	assert.True(t, decimal.Zero.Equal(fulfillment.IncludedTax(dec("10000"), decimal.Zero)))
}

func TestSplitAmount_Proporcional(t *testing.T) {
	parts := fulfillment.SplitAmount(dec("1000"), []decimal.Decimal{dec("6000"), dec("4000")})

	assert.True(t, dec("600").Equal(parts[0]), parts[0].String())
	assert.True(t, dec("400").Equal(parts[1]), parts[1].String())
}

func TestSplitAmount_RemanenteVaALaUltima(t *testing.T) {
	parts := fulfillment.SplitAmount(dec("100"), []decimal.Decimal{dec("10"), dec("10"), dec("10")})

	assert.True(t, dec("33.33").Equal(parts[0]))
	assert.True(t, dec("33.33").Equal(parts[1]))
	assert.True(t, dec("33.34").Equal(parts[2]))
	assert.True(t, dec("100").Equal(parts[0].Add(parts[1]).Add(parts[2])))
}

func TestSplitAmount_NuncaSuperaElPeso(t *testing.T) {
	parts := fulfillment.SplitAmount(dec("50"), []decimal.Decimal{dec("100"), dec("0.01")})

	assert.True(t, parts[1].LessThanOrEqual(dec("0.01")))
	assert.True(t, parts[0].LessThanOrEqual(dec("100")))
}

func TestSplitAmount_RedondeosNoExcedenElTotal(t *testing.T) {
	parts := fulfillment.SplitAmount(dec("2"), []decimal.Decimal{dec("10000"), dec("10000"), dec("10000"), dec("1")})

	sum := decimal.Zero
	for _, p := range parts {
		assert.True(t, p.GreaterThanOrEqual(decimal.Zero))
		sum = sum.Add(p)
	}
	assert.True(t, sum.LessThanOrEqual(dec("2")), sum.String())
	assert.True(t, dec("0.67").Equal(parts[0]))
	assert.True(t, dec("0.67").Equal(parts[1]))
	assert.True(t, dec("0.66").Equal(parts[2]))
	assert.True(t, parts[3].IsZero())
}

func TestSplitPoints_SumaExacta(t *testing.T) {
	parts := fulfillment.SplitPoints(101, []decimal.Decimal{dec("6000"), dec("4000")})

	assert.Equal(t, []int{60, 41}, parts)
	assert.Equal(t, []int{0, 0}, fulfillment.SplitPoints(0, []decimal.Decimal{dec("1"), dec("1")}))
}
