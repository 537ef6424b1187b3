package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printstore/internal/pricing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3, cfg.OrderUpdateMaxAttempts)
	assert.Equal(t, "order.exchange", cfg.OrderExchange)
	assert.False(t, cfg.VNPayEnabled())

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.True(t, pricing.DefaultPolicy().FlatShippingFee.Equal(policy.FlatShippingFee))
	assert.True(t, pricing.DefaultPolicy().TaxRate.Equal(policy.TaxRate))
	assert.Equal(t, pricing.DiscountOnTaxBase, policy.DiscountBase)
}

func TestLoad_SecretFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jwt")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_SECRET_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
}

func TestLoad_MissingSecretFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("VNPAY_HASH_SECRET_FILE", filepath.Join(t.TempDir(), "missing"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			JWTSecret:              "secret",
			FlatShippingFee:        "50000",
			TaxRate:                "0.06",
			DiscountBase:           "subtotal",
			OrderUpdateMaxAttempts: 3,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "zero attempts", mutate: func(c *Config) { c.OrderUpdateMaxAttempts = 0 }, wantErr: true},
		{name: "tax rate above one", mutate: func(c *Config) { c.TaxRate = "1.2" }, wantErr: true},
		{name: "negative shipping", mutate: func(c *Config) { c.FlatShippingFee = "-1" }, wantErr: true},
		{name: "garbage tax rate", mutate: func(c *Config) { c.TaxRate = "six percent" }, wantErr: true},
		{name: "unknown discount base", mutate: func(c *Config) { c.DiscountBase = "TOTAL" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := Config{MySQLUser: "u", MySQLPassword: "p", MySQLHost: "db", MySQLPort: "3306", MySQLDatabase: "shop"}
	assert.Equal(t, "u:p@tcp(db:3306)/shop?charset=utf8mb4&parseTime=True&loc=UTC", cfg.MySQLDSN())
}
