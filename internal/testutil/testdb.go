// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"tdc_backend/internal/auth"
	"tdc_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with every table migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.AllModels()...), "failed to migrate")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateBasicUser stores a BasicUser with a hashed password. Empty fields get unique defaults.
func CreateBasicUser(t *testing.T, db *gorm.DB, user *models.BasicUser, password string) *models.BasicUser {
	t.Helper()

	suffix := uuid.NewString()[:8]
	if user.FullName == "" {
		user.FullName = "Test User"
	}
	if user.Email == "" {
		user.Email = "user_" + suffix + "@test.com"
	}
	if user.MobileNumber == "" {
		user.MobileNumber = "9" + suffix
	}
	if password == "" {
		password = "Secret1!"
	}
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user.PasswordHash = hash
	if user.LastApplicationStatus == "" {
		user.LastApplicationStatus = models.StatusPending
	}

	require.NoError(t, db.Create(user).Error, "failed to create basic user")
	return user
}

// SeedReference stores one registration category and one nationality.
func SeedReference(t *testing.T, db *gorm.DB, categoryName string, regular, tatkal int64) (*models.RegistrationCategory, *models.Nationality) {
	t.Helper()

	category := &models.RegistrationCategory{Name: categoryName, RegularAmount: regular, TatkalAmount: tatkal}
	require.NoError(t, db.Create(category).Error)

	nationality := &models.Nationality{Name: "Indian"}
	require.NoError(t, db.Where(models.Nationality{Name: "Indian"}).FirstOrCreate(nationality).Error)
	return category, nationality
}
