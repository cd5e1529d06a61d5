package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func TestScripts_DialectsStayInStep(t *testing.T) {
	mysqlScripts, err := Scripts("scripts/mysql")
	require.NoError(t, err)
	sqliteScripts, err := Scripts("scripts/sqlite")
	require.NoError(t, err)

	assert.NotEmpty(t, mysqlScripts)
	assert.Equal(t, mysqlScripts, sqliteScripts)
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	gdb := openSQLite(t)
	strategy := NewGooseStrategy(t.TempDir(), logger.NewNop())

	require.NoError(t, strategy.Migrate(gdb))

	version, err := strategy.GetVersion(gdb)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m), "missing table for %T", m)
	}

	require.NoError(t, strategy.Migrate(gdb), "re-running is a no-op")

	require.NoError(t, strategy.MigrateDown(gdb, 1))
	assert.False(t, gdb.Migrator().HasTable(&models.ServiceCallModel{}))
}

func TestManager_PicksStrategyByEnvironment(t *testing.T) {
	log := logger.NewNop()

	assert.Equal(t, "goose", NewManager("production", "", log).GetStrategy().GetName())
	assert.Equal(t, "gorm_auto_migrate", NewManager("development", "", log).GetStrategy().GetName())
	assert.Equal(t, "gorm_auto_migrate", NewManager("test", "", log).GetStrategy().GetName())
}

func TestManager_AutoMigrate(t *testing.T) {
	gdb := openSQLite(t)
	m := NewManager("development", "", logger.NewNop())

	require.NoError(t, m.Migrate(gdb))
	assert.True(t, gdb.Migrator().HasTable(&models.WorkSessionModel{}))
}

func TestGooseStrategy_Status(t *testing.T) {
	gdb := openSQLite(t)
	strategy := NewGooseStrategy(t.TempDir(), logger.NewNop())

	require.NoError(t, strategy.Migrate(gdb))
	assert.NoError(t, strategy.Status(gdb))
}
