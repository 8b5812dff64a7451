package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sourcingops/backend/internal/infrastructure/persistence/models"
)

// setupTestDB opens a fresh in-memory sqlite database with the full schema.
// Each test gets its own database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.OrderLineModel{},
		&models.VerificationLineModel{},
		&models.DeliveryRecordModel{},
		&models.LedgerAccountModel{},
		&models.LedgerTransactionModel{},
	))

	return db
}
