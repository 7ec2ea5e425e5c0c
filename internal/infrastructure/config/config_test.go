package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "dealercrm-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, 5, cfg.Auth.MaxFailedAttempts)
	assert.Equal(t, "crm:jobs", cfg.Jobs.QueueName)
	assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "X-Dealership-ID")
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Port: "9090"},
		JWT: JWTConfig{AccessTokenExpiration: time.Hour},
	}
	applyDefaults(cfg)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiration)
}

func TestValidateProduction(t *testing.T) {
	base := func() *Config {
		cfg := &Config{
			App: AppConfig{Env: "production"},
			JWT: JWTConfig{Secret: "access-secret", RefreshSecret: "refresh-secret"},
			Database: DatabaseConfig{
				Password: "pw",
			},
		}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("valid production config passes", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("missing jwt secret fails", func(t *testing.T) {
		cfg := base()
		cfg.JWT.Secret = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("identical secrets fail", func(t *testing.T) {
		cfg := base()
		cfg.JWT.RefreshSecret = cfg.JWT.Secret
		assert.Error(t, cfg.validate())
	})

	t.Run("missing db password fails", func(t *testing.T) {
		cfg := base()
		cfg.Database.Password = ""
		assert.Error(t, cfg.validate())
	})

	t.Run("sms enabled requires webhook secret", func(t *testing.T) {
		cfg := base()
		cfg.SMS.Enabled = true
		assert.Error(t, cfg.validate())

		cfg.SMS.WebhookSecret = "whsec"
		assert.NoError(t, cfg.validate())
	})
}

func TestValidateSamplingRatio(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Telemetry.SamplingRatio = 1.5

	assert.Error(t, cfg.validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db.internal", Port: 5433, User: "crm", Password: "pw",
		DBName: "dealercrm", SSLMode: "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=crm password=pw dbname=dealercrm sslmode=require",
		d.DSN())
	assert.Equal(t,
		"postgres://crm:pw@db.internal:5433/dealercrm?sslmode=require",
		d.MigrateURL())
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	require.Equal(t, "cache.internal:6380", r.RedisAddr())
}
