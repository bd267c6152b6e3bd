package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, ":9090", cfg.Server.GRPCAddr)
	assert.Empty(t, cfg.Store.GRPCTarget)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "config.yaml")
	yamlData := `
database:
  driver: sqlite
  sqlite_path: ${RENTAL_DATA}/rental.db
server:
  http_addr: ":8181"
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("RENTAL_DATA", "/var/lib/rental")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/var/lib/rental/rental.db", cfg.DB.SQLitePath)
	assert.Equal(t, ":9999", cfg.Server.HTTPAddr)
	assert.Equal(t, 10, cfg.DB.MaxOpenConns)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORE_GRPC_TARGET=records:9090\n"), 0o600))
	t.Setenv("CONFIG_PATH", "")

	// godotenv не перезаписывает уже заданные переменные
	t.Setenv("STORE_GRPC_TARGET", "")
	os.Unsetenv("STORE_GRPC_TARGET")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "records:9090", cfg.Store.GRPCTarget)
}

func TestLoad_UnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := defaultDBConfig()
	assert.Equal(t,
		"host=postgres user=rental password=rental dbname=rental_db port=5432 sslmode=disable TimeZone=America/Sao_Paulo",
		c.DSN())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
