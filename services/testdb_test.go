package services_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/flowva/rewards-hub/models"
)

func TestMain(m *testing.M) {
	// Config is loaded lazily by the cache layer; it refuses to start
	// without a JWT secret.
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

// newTestDB opens an isolated in-memory database migrated with all models.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Reward{},
		&models.LedgerEntry{},
		&models.CheckIn{},
		&models.Redemption{},
		&models.ReferralCredit{},
	))
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, points int) *models.Account {
	t.Helper()
	account := models.Account{
		Email:       fmt.Sprintf("%s@example.com", models.NewID()),
		TotalPoints: points,
	}
	require.NoError(t, db.Create(&account).Error)
	return &account
}

func seedReward(t *testing.T, db *gorm.DB, name string, cost int, status models.RewardStatus) *models.Reward {
	t.Helper()
	reward := models.Reward{
		Name:       name,
		PointsCost: cost,
		Category:   models.CategoryGiftCard,
		Status:     status,
	}
	require.NoError(t, db.Create(&reward).Error)
	return &reward
}
