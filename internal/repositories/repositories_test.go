package repositories_test

import (
	"testing"
	"time"

	"tdc_backend/internal/models"
	"tdc_backend/internal/repositories"
	"tdc_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestBasicUserRepository_DuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewBasicUserRepository()

	require.NoError(t, repo.Create(db, &models.BasicUser{FullName: "A", Email: "A@X.com", MobileNumber: "1", PasswordHash: "h"}))

	err := repo.Create(db, &models.BasicUser{FullName: "B", Email: "a@x.com", MobileNumber: "2", PasswordHash: "h"})
	assert.ErrorIs(t, err, repositories.ErrBasicUserAlreadyExists)

	exists, err := repo.ExistsByEmail(db, " a@X.COM ")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBasicUserRepository_ResetToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewBasicUserRepository()
	user := testutil.CreateBasicUser(t, db, &models.BasicUser{Email: "r@x.com"}, "")

	expire := time.Now().Add(15 * time.Minute)
	require.NoError(t, repo.UpdateFields(db, user.ID, map[string]interface{}{
		"reset_password_token":  "hash",
		"reset_password_expire": expire,
	}))

	found, err := repo.FindByResetToken(db, "r@x.com", "hash", time.Now())
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByResetToken(db, "r@x.com", "hash", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, repositories.ErrBasicUserNotFound)

	_, err = repo.FindByResetToken(db, "other@x.com", "hash", time.Now())
	assert.ErrorIs(t, err, repositories.ErrBasicUserNotFound)
}

func TestRegistrationRepository_HasInFlight(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewRegistrationRepository()
	user := testutil.CreateBasicUser(t, db, &models.BasicUser{}, "")
	category, nationality := testutil.SeedReference(t, db, "BDS", 5000, 10000)

	inFlight, err := repo.HasInFlight(db, user.ID)
	require.NoError(t, err)
	assert.False(t, inFlight)

	reg := &models.Registration{
		BasicUserID:   user.ID,
		TemporaryID:   "APP-2026-123456",
		NationalityID: nationality.ID,
		RegCategoryID: category.ID,
		FirstName:     "A",
		LastName:      "B",
		Status:        models.StatusUnderReview,
		Documents:     datatypes.NewJSONType(models.DocumentMap{"pan_upload": "u"}),
	}
	require.NoError(t, repo.Create(db, reg))

	inFlight, err = repo.HasInFlight(db, user.ID)
	require.NoError(t, err)
	assert.True(t, inFlight)

	require.NoError(t, repo.UpdateStatus(db, reg.ID, models.StatusRejected, nil))
	inFlight, err = repo.HasInFlight(db, user.ID)
	require.NoError(t, err)
	assert.False(t, inFlight)

	latest, err := repo.FindLatestByUser(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, latest.RegCategory)
	assert.Equal(t, "BDS", latest.RegCategory.Name)
	assert.Equal(t, "u", latest.Documents.Data()["pan_upload"])

	dup := *reg
	dup.ID = ""
	assert.ErrorIs(t, repo.Create(db, &dup), repositories.ErrTemporaryIDTaken)
}

func TestCertificateRepository_LatestAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewCertificateRepository()
	user := testutil.CreateBasicUser(t, db, &models.BasicUser{}, "")

	latest, err := repo.LatestNumber(db, models.KindGSC)
	require.NoError(t, err)
	assert.Empty(t, latest)

	base := time.Now().Add(-time.Hour)
	for i, no := range []string{"GSC-001", "GSC-002", "GSC-003"} {
		app := &models.CertificateApplication{
			Kind:          models.KindGSC,
			ApplicationNo: no,
			BasicUserID:   user.ID,
			Name:          "A B",
			Status:        models.StatusPending,
		}
		app.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(db, app))
	}
	// same number under another kind is allowed
	require.NoError(t, repo.Create(db, &models.CertificateApplication{
		Kind: models.KindNOC, ApplicationNo: "GSC-001", BasicUserID: user.ID, Name: "A B", Status: models.StatusPending,
	}))

	latest, err = repo.LatestNumber(db, models.KindGSC)
	require.NoError(t, err)
	assert.Equal(t, "GSC-003", latest)

	list, err := repo.ListByOwner(db, models.KindGSC, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "GSC-003", list[0].ApplicationNo)
	assert.Equal(t, "GSC-001", list[2].ApplicationNo)

	err = repo.Create(db, &models.CertificateApplication{
		Kind: models.KindGSC, ApplicationNo: "GSC-002", BasicUserID: user.ID, Name: "A B", Status: models.StatusPending,
	})
	assert.ErrorIs(t, err, repositories.ErrApplicationNumberTaken)

	_, err = repo.FindByOwnerAndNumber(db, models.KindGSC, "someone-else", "GSC-001")
	assert.ErrorIs(t, err, repositories.ErrCertificateNotFound)
}

func TestPaymentRepository_MarkSuccessOnlyOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewPaymentRepository()
	user := testutil.CreateBasicUser(t, db, &models.BasicUser{}, "")

	require.NoError(t, repo.Create(db, &models.Payment{
		BasicUserID:   user.ID,
		Amount:        5000,
		Currency:      "INR",
		OrderID:       "order_1",
		PaymentStatus: models.PaymentStatusPending,
	}))

	updated, err := repo.MarkSuccess(db, "order_1", "pay_1")
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = repo.MarkSuccess(db, "order_1", "pay_2")
	require.NoError(t, err)
	assert.False(t, updated)

	payment, err := repo.FindByOrderID(db, "order_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, payment.PaymentStatus)
	require.NotNil(t, payment.PaymentID)
	assert.Equal(t, "pay_1", *payment.PaymentID)

	_, err = repo.FindByOrderID(db, "order_missing")
	assert.ErrorIs(t, err, repositories.ErrPaymentNotFound)
}

func TestReferenceRepository_UpsertCategory(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewReferenceRepository()

	require.NoError(t, repo.UpsertCategory(db, &models.RegistrationCategory{Name: "BDS", RegularAmount: 1, TatkalAmount: 2}))
	require.NoError(t, repo.UpsertCategory(db, &models.RegistrationCategory{Name: "BDS", RegularAmount: 10, TatkalAmount: 20}))

	categories, err := repo.ListCategories(db)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, int64(10), categories[0].RegularAmount)
	assert.Equal(t, int64(20), categories[0].TatkalAmount)

	_, err = repo.FindCategoryByID(db, "missing")
	assert.ErrorIs(t, err, repositories.ErrCategoryNotFound)
}
