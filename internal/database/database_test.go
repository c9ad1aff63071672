package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, HealthCheck(db))
}

func TestHealthCheckWithStats(t *testing.T) {
	db := openTestDB(t)

	stats, err := HealthCheckWithStats(db)
	require.NoError(t, err)

	// The readiness probe serializes every pool counter; a zero value is
	// fine, a missing one is not.
	assert.GreaterOrEqual(t, stats.OpenConnections, 1)
	assert.GreaterOrEqual(t, stats.WaitCount, int64(0))
	assert.GreaterOrEqual(t, stats.MaxIdleClosed, int64(0))
	assert.GreaterOrEqual(t, stats.MaxLifetimeClosed, int64(0))
}

func TestAutoMigrate(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"users", "profiles", "company_settings", "user_stats", "recent_setups"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
