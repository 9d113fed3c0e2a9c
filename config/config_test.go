package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cpi-engine/config"
	"github.com/warp/cpi-engine/cpi"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, cpi.EarliestYear, cfg.Bounds().MinYear)
	assert.Equal(t, time.Now().Year(), cfg.Bounds().MaxYear)
	assert.Equal(t, cpi.DefaultConcurrency, cfg.Calc.SeriesConcurrency)

	table, err := cfg.EraTable()
	require.NoError(t, err)
	assert.Equal(t, cpi.DefaultEraTable().Boundaries(), table.Boundaries())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("MAX_YEAR", "2020")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 2020, cfg.Calc.MaxYear)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_EnvFileBelowEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nPORT=7000\n"), 0o600))
	t.Setenv("PORT", "7001")

	cfg, err := config.Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 7001, cfg.Server.Port)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := config.Load(viper.New(), filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate_CollectsErrors(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("SERIES_CONCURRENCY", "0")

	_, err := config.Load(viper.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown STORE_DRIVER "mongo"`)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
	assert.Contains(t, err.Error(), "SERIES_CONCURRENCY")
}

func TestValidate_YearOrder(t *testing.T) {
	t.Setenv("MIN_YEAR", "2000")
	t.Setenv("MAX_YEAR", "1999")

	_, err := config.Load(viper.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_YEAR 1999 is before MIN_YEAR 2000")
}

func TestEraTable_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eras.yaml")
	doc := `
sentinel_month: 12
eras:
  - {era: transitional_a, from: "1988-01", until: "1994-01"}
  - {era: current, from: "1994-01"}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv("ERA_TABLE_PATH", path)

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)

	table, err := cfg.EraTable()
	require.NoError(t, err)
	assert.Equal(t, cpi.EraCurrent, table.Classify(cpi.Period{Year: 1994, Month: time.January}))
}
