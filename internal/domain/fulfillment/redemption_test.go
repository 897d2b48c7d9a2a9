package fulfillment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/internal/domain/fulfillment"
)

func defaultRules() fulfillment.LoyaltyRules {
	return fulfillment.LoyaltyRules{
		Active:               true,
		EarnCurrencyPerPoint: dec("100"),
		ValuePerPoint:        dec("1"),
		MinPurchase:          dec("5000"),
		MaxPercent:           dec("50"),
		MaxAmount:            dec("25000"),
	}
}

func TestPointsEarned(t *testing.T) {
	r := defaultRules()
	assert.Equal(t, 100, r.PointsEarned(dec("10000")))
	assert.Equal(t, 99, r.PointsEarned(dec("9999.99")))

	r.Active = false
	assert.Equal(t, 0, r.PointsEarned(dec("10000")))
}

func TestResolveRedemption_DentroDelTope(t *testing.T) {
	red, err := fulfillment.ResolveRedemption(1000, 2000, dec("10000"), defaultRules())

	require.NoError(t, err)
	assert.Equal(t, 1000, red.Points)
	assert.True(t, dec("1000").Equal(red.Discount))
}

func TestResolveRedemption_LimitadoAlPorcentaje(t *testing.T) {
	// 50 % de 10000 = 5000
	red, err := fulfillment.ResolveRedemption(8000, 8000, dec("10000"), defaultRules())

	require.NoError(t, err)
	assert.Equal(t, 5000, red.Points)
	assert.True(t, dec("5000").Equal(red.Discount))
}

func TestResolveRedemption_Rechazos(t *testing.T) {
	cases := []struct {
		name      string
		requested int
		balance   int
		subtotal  string
		inactive  bool
		reason    string
	}{
		{"programa inactivo", 10, 100, "10000", true, fulfillment.ReasonProgramInactive},
		{"saldo insuficiente", 500, 100, "10000", false, fulfillment.ReasonInsufficientBalance},
		{"sin saldo", 1, 0, "10000", false, fulfillment.ReasonInsufficientBalance},
		{"bajo el mínimo", 10, 100, "4999", false, fulfillment.ReasonBelowMinPurchase},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rules := defaultRules()
			rules.Active = !tc.inactive

			_, err := fulfillment.ResolveRedemption(tc.requested, tc.balance, dec(tc.subtotal), rules)

			require.ErrorIs(t, err, domain.ErrInvalidRedemption)
			var re *domain.InvalidRedemptionError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tc.reason, re.Reason)
		})
	}
}

func TestResolveRedemption_SinPuntosNoEsError(t *testing.T) {
	rules := defaultRules()
	rules.Active = false

	red, err := fulfillment.ResolveRedemption(0, 0, dec("100"), rules)

	require.NoError(t, err)
	assert.Equal(t, 0, red.Points)
	assert.True(t, red.Discount.IsZero())
}
