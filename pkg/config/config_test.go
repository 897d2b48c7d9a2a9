package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "0.13", cfg.Checkout.VATRate.String())
	assert.Equal(t, 5*time.Second, cfg.Checkout.LockTimeout)
	assert.Equal(t, "whole_line", cfg.Checkout.AllocationStrategy)
	assert.Equal(t, []string{"TRANSFER", "SINPE_MOVIL"}, cfg.Checkout.ManualProofMethods)
	assert.Equal(t, "3700", cfg.Shipping.Standard.String())
	assert.True(t, cfg.Loyalty.Active)
	assert.Equal(t, "25000", cfg.Loyalty.MaxAmount.String())
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.DB.Enabled())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("CHECKOUT_ALLOCATION_STRATEGY", "SPLIT_LINE")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092")
	v.Set("LOYALTY_ACTIVE", "false")
	v.Set("DB_HOST", "db")
	v.Set("BRANCH_CACHE_TTL_SECONDS", "30")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "split_line", cfg.Checkout.AllocationStrategy)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Loyalty.Active)
	assert.True(t, cfg.DB.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.BranchCacheTTL)
}

func TestFromViper_InvalidValues(t *testing.T) {
	v := viper.New()
	v.Set("CHECKOUT_VAT_RATE", "trece")
	_, err := fromViper(v)
	require.Error(t, err)

	v = viper.New()
	v.Set("CHECKOUT_ALLOCATION_STRATEGY", "random")
	_, err = fromViper(v)
	require.Error(t, err)
}
