package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_URL", "https://mentors.example.com/")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://mentors.example.com", cfg.Payments.AppURL)
	assert.Equal(t, int64(20), cfg.Payments.PlatformFeePercent)
	assert.Equal(t, 30*time.Second, cfg.Payments.CatalogCacheTTL)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "sk_test_123", cfg.Stripe.SecretKey)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWTSecret: "secret",
			Stripe:    StripeConfig{SecretKey: "sk", WebhookSecret: "whsec"},
			Payments: PaymentsConfig{
				AppURL:             "https://app.example.com",
				PlatformFeePercent: 20,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		errMsgs []string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name: "missing secrets",
			mutate: func(c *Config) {
				c.JWTSecret = ""
				c.Stripe = StripeConfig{}
			},
			errMsgs: []string{"JWT_SECRET", "STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET"},
		},
		{
			name:    "relative app url",
			mutate:  func(c *Config) { c.Payments.AppURL = "/app" },
			errMsgs: []string{"APP_URL"},
		},
		{
			name:    "fee out of range",
			mutate:  func(c *Config) { c.Payments.PlatformFeePercent = 120 },
			errMsgs: []string{"PLATFORM_FEE_PERCENT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if len(tt.errMsgs) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, msg := range tt.errMsgs {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5433", User: "u", Password: "p", Name: "n", SSLMode: "require"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=require", c.DSN())
}
