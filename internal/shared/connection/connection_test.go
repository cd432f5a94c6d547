package connection

import (
	"testing"
	"time"

	"uni-hris/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPostgresDSN(t *testing.T) {
	dsn := postgresDSN(config.DatabaseConfig{
		Host: "db", User: "hris", Password: "secret", Name: "uni", Port: "5432", SSLMode: "disable",
	})

	assert.Equal(t, "host=db user=hris password=secret dbname=uni port=5432 sslmode=disable", dsn)
}

func TestDialector_UnsupportedDriver(t *testing.T) {
	_, err := dialector(config.DatabaseConfig{Driver: "oracle"})

	assert.ErrorContains(t, err, "oracle")
}

func TestConnectGORMWithRetry_SQLiteMemory(t *testing.T) {
	retryDelay = time.Millisecond

	db, err := ConnectGORMWithRetry(config.DatabaseConfig{
		Driver:     "sqlite",
		Path:       "file::memory:",
		MaxRetries: 1,
	}, zap.NewNop())

	assert.NoError(t, err)
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestConnectKafkaWithRetry_NoBrokers(t *testing.T) {
	err := ConnectKafkaWithRetry(config.KafkaConfig{}, nil, zap.NewNop())

	assert.Error(t, err)
}
