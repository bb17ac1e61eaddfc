package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DesdeVariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_APPLY_SCHEMA", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.ApplySchema)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.Equal(t, 25, cfg.DB.Pool.MaxConns)
}

func TestLoad_LimitesDelPool(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("DB_MAX_CONNS", "10")
	t.Setenv("DB_MIN_CONNS", "1")
	t.Setenv("DB_MAX_CONN_LIFETIME_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, PoolConfig{MaxConns: 10, MinConns: 1, MaxConnLifetimeMinutes: 15, MaxConnIdleMinutes: 30}, cfg.DB.Pool)

	t.Setenv("DB_MIN_CONNS", "20")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate_RechazaConfiguracionInvalida(t *testing.T) {
	valid := Config{
		Store: StoreConfig{Driver: StoreDriverPostgres},
		JWT:   JWTConfig{Secret: "x", Expiration: 60},
		HTTP:  HTTPConfig{BodyLimitMB: 4},
	}
	require.NoError(t, valid.Validate())

	noSecret := valid
	noSecret.JWT.Secret = ""
	assert.Error(t, noSecret.Validate())

	badDriver := valid
	badDriver.Store.Driver = "sqlite"
	assert.Error(t, badDriver.Validate())

	badPool := valid
	badPool.DB.Pool = PoolConfig{MaxConns: 2, MinConns: 5}
	assert.Error(t, badPool.Validate())
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "facturacion", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/facturacion?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otra"
	assert.Equal(t, "postgres://otra", c.ConnectionString())
}
