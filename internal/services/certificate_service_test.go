package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tdc_backend/internal/attachments"
	"tdc_backend/internal/models"
	"tdc_backend/internal/services"
	"tdc_backend/internal/testutil"
	"tdc_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gscFiles() map[string]attachments.File {
	return testutil.PDFs(attachments.Names(services.GSCKind.Slots)...)
}

func TestCertificateService_ApplyGSC(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{FullName: "A B"}, "")

	app, err := env.svc.GSCService.Apply(ctx, env.db, user.ID, map[string]string{"postal_address": "123 Main St"}, gscFiles())
	require.NoError(t, err)

	assert.Equal(t, "GSC-001", app.ApplicationNo)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, "A B", app.Name)
	assert.Equal(t, "123 Main St", app.Fields["postal_address"])
	assert.Len(t, app.Documents, 6)
	for _, url := range app.Documents {
		assert.Contains(t, url, "/A_B/")
	}
	assert.Equal(t, app.CreatedAt, app.ApplicationDate)
}

func TestCertificateService_NumbersIncrease(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")

	for i := 1; i <= 4; i++ {
		app, err := env.svc.GSCService.Apply(ctx, env.db, user.ID, map[string]string{"postal_address": "x"}, gscFiles())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("GSC-%03d", i), app.ApplicationNo)
	}

	list, err := env.svc.GSCService.List(ctx, env.db, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
}

func TestCertificateService_ApplyValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")

	_, err := env.svc.GSCService.Apply(ctx, env.db, user.ID, map[string]string{}, gscFiles())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Missing required field: postal_address", appErr.Message)

	files := gscFiles()
	delete(files, "testimonial_d2_upload")
	_, err = env.svc.GSCService.Apply(ctx, env.db, user.ID, map[string]string{"postal_address": "x"}, files)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Missing required file: testimonial_d2_upload", appErr.Message)

	assert.Empty(t, env.store.Keys())
}

func TestCertificateService_UpdateKeepsStoredDocuments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")

	created, err := env.svc.GSCService.Apply(ctx, env.db, user.ID, map[string]string{"postal_address": "123 Main St"}, gscFiles())
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.CertificateApplication{}).
		Where("application_no = ?", created.ApplicationNo).
		Updates(map[string]interface{}{"status": models.StatusRejected, "updated_at": created.UpdatedAt}).Error)

	time.Sleep(10 * time.Millisecond)
	updated, err := env.svc.GSCService.Update(ctx, env.db, user.ID, created.ApplicationNo, map[string]string{"postal_address": "9 New Road"}, nil)
	require.NoError(t, err)

	assert.Equal(t, created.Documents, updated.Documents)
	assert.Equal(t, "9 New Road", updated.Fields["postal_address"])
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt))
	assert.Equal(t, updated.UpdatedAt, updated.ApplicationDate)

	got, err := env.svc.GSCService.Get(ctx, env.db, user.ID, created.ApplicationNo)
	require.NoError(t, err)
	assert.Equal(t, created.Documents, got.Documents)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestCertificateService_UpdateReplacesOneSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")

	created, err := env.svc.GSCService.Apply(ctx, env.db, user.ID, map[string]string{"postal_address": "123 Main St"}, gscFiles())
	require.NoError(t, err)

	updated, err := env.svc.GSCService.Update(ctx, env.db, user.ID, created.ApplicationNo, nil, testutil.PDFs("aadhaar_upload"))
	require.NoError(t, err)

	for slot, url := range created.Documents {
		if slot == "aadhaar_upload" {
			assert.NotEqual(t, url, updated.Documents[slot])
			continue
		}
		assert.Equal(t, url, updated.Documents[slot], slot)
	}
	assert.Equal(t, "123 Main St", updated.Fields["postal_address"])
}

func TestCertificateService_UpdateScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")
	other := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")

	created, err := env.svc.GSCService.Apply(ctx, env.db, owner.ID, map[string]string{"postal_address": "x"}, gscFiles())
	require.NoError(t, err)

	_, err = env.svc.GSCService.Update(ctx, env.db, other.ID, created.ApplicationNo, map[string]string{"postal_address": "y"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	_, err = env.svc.GSCService.Get(ctx, env.db, other.ID, created.ApplicationNo)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	_, err = env.svc.GSCService.Update(ctx, env.db, owner.ID, "GSC-999", nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestCertificateService_UpdateRejectsUnknownSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")

	created, err := env.svc.GSCService.Apply(ctx, env.db, user.ID, map[string]string{"postal_address": "x"}, gscFiles())
	require.NoError(t, err)
	before := len(env.store.Keys())

	_, err = env.svc.GSCService.Update(ctx, env.db, user.ID, created.ApplicationNo, nil, testutil.PDFs("passport_upload"))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Len(t, env.store.Keys(), before)
}

func TestCertificateService_UpdateRejectsEmptyFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")

	created, err := env.svc.GSCService.Apply(ctx, env.db, user.ID, map[string]string{"postal_address": "x"}, gscFiles())
	require.NoError(t, err)
	before := len(env.store.Keys())

	empty := map[string]attachments.File{
		"aadhaar_upload": {Field: "aadhaar_upload", Filename: "a.pdf"},
	}
	_, err = env.svc.GSCService.Update(ctx, env.db, user.ID, created.ApplicationNo, nil, empty)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Missing required file: aadhaar_upload", appErr.Message)
	assert.Len(t, env.store.Keys(), before)

	got, err := env.svc.GSCService.Get(ctx, env.db, user.ID, created.ApplicationNo)
	require.NoError(t, err)
	assert.Equal(t, created.Documents["aadhaar_upload"], got.Documents["aadhaar_upload"])
}

func TestCertificateService_NOCRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	fields := map[string]string{"postal_address": "x", "dental_council_name": "Karnataka State Dental Council"}
	files := testutil.PDFs(attachments.Names(services.NOCKind.Slots)...)

	plain := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")
	_, err := env.svc.NOCService.Apply(ctx, env.db, plain.ID, fields, files)
	assert.ErrorIs(t, err, apperrors.ErrMembershipRequired)
	assert.Empty(t, env.store.Keys())

	membership := "TDC-007"
	member := testutil.CreateBasicUser(t, env.db, &models.BasicUser{MembershipID: &membership}, "")
	app, err := env.svc.NOCService.Apply(ctx, env.db, member.ID, fields, files)
	require.NoError(t, err)
	assert.Equal(t, "NOC-001", app.ApplicationNo)
	assert.Equal(t, models.KindNOC, app.Kind)
	assert.Equal(t, "Karnataka State Dental Council", app.Fields["dental_council_name"])

	// numbering is per kind
	gsc, err := env.svc.GSCService.Apply(ctx, env.db, member.ID, map[string]string{"postal_address": "x"}, gscFiles())
	require.NoError(t, err)
	assert.Equal(t, "GSC-001", gsc.ApplicationNo)
}

func TestCertificateService_ContinuesExistingNumbering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")

	legacy := &models.CertificateApplication{
		Kind:          models.KindGSC,
		ApplicationNo: "GSC-041",
		BasicUserID:   user.ID,
		Name:          "Legacy",
		Status:        models.StatusApproved,
	}
	require.NoError(t, env.db.Create(legacy).Error)

	app, err := env.svc.GSCService.Apply(ctx, env.db, user.ID, map[string]string{"postal_address": "x"}, gscFiles())
	require.NoError(t, err)
	assert.Equal(t, "GSC-042", app.ApplicationNo)
}

func TestCertificateService_RetriesTakenNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateBasicUser(t, env.db, &models.BasicUser{}, "")

	_, err := env.svc.GSCService.Apply(ctx, env.db, user.ID, map[string]string{"postal_address": "x"}, gscFiles())
	require.NoError(t, err)

	// a record inserted behind the counter's back
	require.NoError(t, env.db.Create(&models.CertificateApplication{
		Kind:          models.KindGSC,
		ApplicationNo: "GSC-002",
		BasicUserID:   user.ID,
		Name:          "Imported",
		Status:        models.StatusPending,
	}).Error)

	app, err := env.svc.GSCService.Apply(ctx, env.db, user.ID, map[string]string{"postal_address": "x"}, gscFiles())
	require.NoError(t, err)
	assert.Equal(t, "GSC-003", app.ApplicationNo)
}
